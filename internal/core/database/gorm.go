package database

import (
	"errors"
	"net/url"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"

	"rewear/internal/domain"
)

var ErrUnsupportedDriver = errors.New("unsupported db driver")

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
	Log                *zap.Logger // 可空，空时走 gorm 默认 logger
}

func NewGorm(o Opts) (*gorm.DB, error) {
	dial, err := dialector(o)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dial, &gorm.Config{Logger: gormLogger(o)})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.Driver == "sqlite" {
		o.MaxOpenConns = 1 // 单写者
	}
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	return db.Session(&gorm.Session{
		PrepareStmt:            true,
		SkipDefaultTransaction: true, // 只在需要时手动开 Tx
	}), nil
}

func dialector(o Opts) (gorm.Dialector, error) {
	switch o.Driver {
	case "postgres":
		return postgres.Open(o.DSN), nil
	case "sqlite":
		return sqlite.Open(sqliteDSN(o.DSN)), nil
	case "mysql":
		cfg, err := mysqlConfig(o.DSN, o.Username, o.Password)
		if err != nil {
			return nil, err
		}
		if o.Log != nil {
			o.Log.Info("mysql target", zap.String("addr", cfg.Addr), zap.String("db", cfg.DBName), zap.String("user", cfg.User))
		}
		return mysql.New(mysql.Config{DSNConfig: cfg}), nil
	default:
		return nil, ErrUnsupportedDriver
	}
}

func gormLogger(o Opts) logger.Interface {
	lvl := logger.Warn
	switch o.LogLevel {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	if o.Log == nil {
		return logger.Default.LogMode(lvl)
	}
	return logger.New(zap.NewStdLog(o.Log.Named("gorm")), logger.Config{
		SlowThreshold:             300 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}

// mysqlConfig 同时接受驱动原生 DSN（user:pass@tcp(host)/db）与 mysql:// URL；
// Username/Password 非空时覆盖 DSN 里的账号
func mysqlConfig(dsn, user, pass string) (*mysqldriver.Config, error) {
	dsn = strings.TrimPrefix(strings.TrimSpace(dsn), "jdbc:")
	var cfg *mysqldriver.Config
	if strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return nil, err
		}
		cfg = mysqldriver.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = u.Host
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Passwd, _ = u.User.Password()
		}
		if tz := u.Query().Get("loc"); tz != "" {
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return nil, err
			}
			cfg.Loc = loc
		}
	} else {
		var err error
		if cfg, err = mysqldriver.ParseDSN(dsn); err != nil {
			return nil, err
		}
	}
	if user != "" {
		cfg.User = user
	}
	if pass != "" {
		cfg.Passwd = pass
	}
	cfg.ParseTime = true
	return cfg, nil
}

// sqliteDSN 补 busy_timeout 与外键
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "file::memory:"
	}
	if strings.Contains(dsn, "_busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_busy_timeout=5000&_foreign_keys=on"
}

// Migrate 建表 / 补字段
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}
