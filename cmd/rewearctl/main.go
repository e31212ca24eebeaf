// rewearctl 运维命令：建表、设置管理员、管理首页精选。
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rewear/internal/app"
	"rewear/internal/core/config"
	"rewear/internal/core/database"
	"rewear/internal/core/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "rewearctl",
	Short:         "ReWear operations CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, done, err := setup()
		if err != nil {
			return err
		}
		defer done()
		cfg.DB.AutoMigrate = false
		db, err := app.OpenDB(cfg, log)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrated")
		return nil
	},
}

var revoke bool

var promoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Grant (or with --revoke remove) the admin flag",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		if err := a.Accounts.Promote(ctx, args[0], !revoke); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s admin=%t\n", args[0], !revoke)
		return nil
	}),
}

var priority int

var featureCmd = &cobra.Command{
	Use:   "feature <itemId>",
	Short: "Add an item to the featured list or change its priority",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		if err := a.Moderation.Feature(ctx, args[0], priority); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "featured %s priority=%d\n", args[0], priority)
		return nil
	}),
}

var unfeatureCmd = &cobra.Command{
	Use:   "unfeature <itemId>",
	Short: "Remove an item from the featured list",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		if err := a.Moderation.Unfeature(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "unfeatured %s\n", args[0])
		return nil
	}),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "config file (default ./configs/config.local.yaml)")
	promoteCmd.Flags().BoolVar(&revoke, "revoke", false, "remove the admin flag instead")
	featureCmd.Flags().IntVarP(&priority, "priority", "p", 100, "lower shows first")
	rootCmd.AddCommand(migrateCmd, promoteCmd, featureCmd, unfeatureCmd)
}

func setup() (*config.Config, *zap.Logger, func(), error) {
	_ = godotenv.Load()
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	return cfg, log, cleanup, nil
}

func withApp(run func(context.Context, *cobra.Command, *app.App, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, log, done, err := setup()
		if err != nil {
			return err
		}
		defer done()
		a, err := app.Build(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd.Context(), cmd, a, args)
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
