package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	HandlerTimeoutSec int
	MaxBodyMB         int
	CORSOrigins       []string `mapstructure:"corsOrigins"`
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

// Redis Addr 为空表示不启用（缓存 + 衣橱变更广播都退化为进程内）
type Redis struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	ItemTTLSec int    `mapstructure:"itemTTLSec"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Session 路由闸门只看 cookie 是否存在
type Session struct {
	Cookie string
	Secure bool
	Domain string
}

type Storage struct {
	URL     string // 非空时按 URL 打开 bucket（s3:// gs:// file://），否则用 Root
	Root    string // 本地根目录
	BaseURL string // 对外访问前缀，如 http://127.0.0.1:8080/files
}

type NATS struct {
	URL           string
	SubjectPrefix string
}

type GenAI struct {
	APIKey string
	Model  string
}

type Mail struct {
	SendGridKey string
	FromEmail   string
	FromName    string
}

type Web struct {
	Dir       string // 前端静态产物目录，可为空
	LoginPath string
	HomePath  string
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Session Session
	Storage Storage
	NATS    NATS `mapstructure:"nats"`
	GenAI   GenAI `mapstructure:"genai"`
	Mail    Mail
	Web     Web
}

func defaults(v *viper.Viper) {
	v.SetDefault("app.name", "rewear")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 10)
	v.SetDefault("app.http.writeTimeoutSec", 0) // SSE 长连接，不设写超时
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.handlerTimeoutSec", 15)
	v.SetDefault("app.http.maxBodyMB", 48)
	v.SetDefault("app.admin.host", "0.0.0.0")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "rewear")
	v.SetDefault("jwt.accessTokenTTLMin", 60*24)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "rewear.db")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("redis.itemTTLSec", 60)
	v.SetDefault("session.cookie", "rewear-session")
	v.SetDefault("storage.root", "./data/blobs")
	v.SetDefault("storage.baseURL", "/files")
	v.SetDefault("nats.subjectPrefix", "rewear")
	v.SetDefault("genai.model", "gemini-2.5-flash")
	v.SetDefault("mail.fromName", "ReWear")
	v.SetDefault("web.loginPath", "/login")
	v.SetDefault("web.homePath", "/dashboard")
}

// Load 读取 yaml，APP_ 前缀环境变量覆盖（APP_DB_DSN → db.dsn）
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	defaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}
	return &c, nil
}

// GinMode env=prod 时用 release
func (a App) GinMode() string {
	switch strings.ToLower(a.Env) {
	case "prod", "production":
		return "release"
	case "test":
		return "test"
	default:
		return "debug"
	}
}

// MustLoad 入口程序用，失败直接退出
func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return c
}
