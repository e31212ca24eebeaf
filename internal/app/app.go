// Package app 组装两个入口共用的依赖：DB、缓存、事件、服务、HTTP 模块。
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rewear/internal/core/auth"
	"rewear/internal/core/cache"
	"rewear/internal/core/config"
	"rewear/internal/core/database"
	"rewear/internal/core/events"
	"rewear/internal/feed"
	"rewear/internal/notify"
	"rewear/internal/repo"
	"rewear/internal/service"
	"rewear/internal/storage"
	"rewear/internal/suggest"
	"rewear/internal/transport/http/gate"
	"rewear/internal/transport/http/handler"
	"rewear/internal/transport/http/router"
)

type App struct {
	Cfg     *config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	JWT     *auth.JWTer
	Modules *router.Registry

	// 命令行工具直接调用
	Accounts   *service.AccountService
	Moderation *service.ModerationService

	cache   *cache.Cache
	relay   *feed.RedisRelay
	closers []func() error
}

// OpenDB 按配置连库，开启 autoMigrate 时顺带建表
func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		return nil, err
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}
	return db, nil
}

func NewJWT(cfg config.JWT) *auth.JWTer {
	return &auth.JWTer{
		Secret: []byte(cfg.Secret),
		Issuer: cfg.Issuer,
		TTL:    time.Duration(cfg.AccessTokenTTLMin) * time.Minute,
	}
}

// Build 可选组件（Redis / NATS / SendGrid / Gemini）未配置时退化为进程内或空实现
func Build(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := OpenDB(cfg, l)
	if err != nil {
		return nil, err
	}
	a := &App{Cfg: cfg, Log: l, DB: db, JWT: NewJWT(cfg.JWT)}
	a.closers = append(a.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	hub := feed.NewHub()
	var notifier feed.Notifier = hub
	if cfg.Redis.Addr != "" {
		a.cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := a.cache.Ping(ctx); err != nil {
			// 启动时连不上不致命，读写会各自回源
			l.Warn("redis ping failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		a.relay = feed.NewRedisRelay(a.cache.RDB, hub, l)
		notifier = a.relay
		a.closers = append(a.closers, a.cache.Close)
	}

	var pub events.Publisher = events.Nop{}
	if cfg.NATS.URL != "" {
		np, err := events.ConnectNATS(cfg.NATS.URL, cfg.NATS.SubjectPrefix, l)
		if err != nil {
			l.Warn("nats disabled", zap.Error(err))
		} else {
			pub = np
			a.closers = append(a.closers, np.Close)
		}
	}

	var mailer notify.Mailer = notify.Nop{}
	if cfg.Mail.SendGridKey != "" {
		mailer = notify.NewSendGrid(cfg.Mail.SendGridKey, cfg.Mail.FromEmail, cfg.Mail.FromName)
	}

	var gen suggest.Generator
	if cfg.GenAI.APIKey != "" {
		g, err := suggest.NewGenAI(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model)
		if err != nil {
			l.Warn("outfit suggestions disabled", zap.Error(err))
		} else {
			gen = g
		}
	}

	var blobs *storage.Bucket
	if cfg.Storage.URL != "" {
		blobs, err = storage.Open(ctx, cfg.Storage.URL, cfg.Storage.BaseURL)
	} else {
		blobs, err = storage.NewLocal(cfg.Storage.Root, cfg.Storage.BaseURL)
	}
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, blobs.Close)

	users := repo.NewUserRepo(db)
	items := repo.NewItemRepo(db)
	swaps := repo.NewSwapRepo(db)
	ttl := time.Duration(cfg.Redis.ItemTTLSec) * time.Second

	accounts := service.NewAccountService(users, a.JWT, l)
	catalog := service.NewCatalogService(items, users, a.cache, ttl, l)
	wardrobe := service.NewWardrobeService(items, hub, l)
	listings := service.NewListingService(items, blobs, catalog, notifier, pub, l)
	swapSvc := service.NewSwapService(swaps, items, users, mailer, pub, l)
	a.closers = append(a.closers, func() error { swapSvc.Drain(); return nil })
	redeem := service.NewRedemptionService(repo.NewRedemptionRepo(db), catalog, notifier, pub, l)
	moderation := service.NewModerationService(items, catalog, notifier, pub, l)
	dashboard := service.NewDashboardService(users, items, swaps)
	suggestions := service.NewSuggestionService(items, gen, l)

	a.Accounts, a.Moderation = accounts, moderation
	a.Modules = router.NewRegistry(
		handler.NewAccount(accounts, handler.Session{
			Cookie: cfg.Session.Cookie,
			Domain: cfg.Session.Domain,
			Secure: cfg.Session.Secure,
			TTL:    a.JWT.TTL,
		}),
		handler.NewWardrobe(wardrobe, listings, 0),
		handler.NewMarket(catalog, swapSvc, redeem, dashboard),
		handler.NewOutfit(suggestions, db),
		handler.NewAdmin(moderation, accounts),
	)
	return a, nil
}

// RunRelay 阻塞到 ctx 结束；未配置 Redis 时直接返回
func (a *App) RunRelay(ctx context.Context) {
	if a.relay == nil {
		return
	}
	if err := a.relay.Run(ctx); err != nil && ctx.Err() == nil {
		a.Log.Error("wardrobe relay stopped", zap.Error(err))
	}
}

// RouterOptions HTTP 引擎参数
func (a *App) RouterOptions() router.Options {
	c := a.Cfg
	g := gate.DefaultConfig()
	g.Cookie = c.Session.Cookie
	g.LoginPath = c.Web.LoginPath
	g.HomePath = c.Web.HomePath
	return router.Options{
		Log:         a.Log,
		JWT:         a.JWT,
		Mode:        c.App.GinMode(),
		CORSOrigins: c.App.HTTP.CORSOrigins,
		Cookie:      c.Session.Cookie,
		MaxBodyMB:   c.App.HTTP.MaxBodyMB,
		Timeout:     time.Duration(c.App.HTTP.HandlerTimeoutSec) * time.Second,
		Gate:        g,
		FilesDir:    filesDir(c.Storage),
		WebDir:      c.Web.Dir,
	}
}

// Close 逆序释放
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}


// filesDir 只有本地目录后端时才由 API 进程提供 /files
func filesDir(s config.Storage) string {
	if s.URL != "" {
		return ""
	}
	return s.Root
}
