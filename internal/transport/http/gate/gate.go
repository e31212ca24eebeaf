// Package gate 页面导航闸门：只看会话 cookie 是否存在，不校验其内容。
package gate

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Class int

const (
	Public Class = iota
	Protected
	AuthOnly
)

func (c Class) String() string {
	switch c {
	case Protected:
		return "protected"
	case AuthOnly:
		return "auth-only"
	default:
		return "public"
	}
}

type Config struct {
	Cookie    string
	LoginPath string
	HomePath  string
	Protected []string // "/" 只精确匹配，其余按路径段前缀匹配
	AuthOnly  []string
	Excluded  []string // 不经过闸门：接口、静态资源等
}

func DefaultConfig() Config {
	return Config{
		Cookie:    "rewear-session",
		LoginPath: "/login",
		HomePath:  "/dashboard",
		Protected: []string{"/", "/dashboard", "/marketplace", "/item", "/admin", "/calendar", "/suggestions"},
		AuthOnly:  []string{"/login", "/signup"},
		Excluded:  []string{"/api", "/admin/v1", "/files", "/static", "/assets", "/favicon.ico", "/health", "/metrics"},
	}
}

// under p 等于 prefix 或位于其下一级路径中
func under(p, prefix string) bool {
	if prefix == "/" {
		return p == "/"
	}
	return p == prefix || strings.HasPrefix(p, strings.TrimSuffix(prefix, "/")+"/")
}

func matchAny(p string, prefixes []string) bool {
	for _, pre := range prefixes {
		if under(p, pre) {
			return true
		}
	}
	return false
}

func (cfg Config) Excludes(p string) bool { return matchAny(p, cfg.Excluded) }

func (cfg Config) Classify(p string) Class {
	if p == "" {
		p = "/"
	}
	switch {
	case cfg.Excludes(p):
		return Public
	case matchAny(p, cfg.AuthOnly):
		return AuthOnly
	case matchAny(p, cfg.Protected):
		return Protected
	default:
		return Public
	}
}

// Decide 返回需要跳转的目标；空串表示放行
func (cfg Config) Decide(p string, hasSession bool) string {
	switch cfg.Classify(p) {
	case Protected:
		if !hasSession {
			return cfg.LoginPath
		}
	case AuthOnly:
		if hasSession {
			return cfg.HomePath
		}
	}
	return ""
}

// Middleware 对 GET/HEAD 页面导航生效，其余请求直接放行
func Middleware(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}
		_, err := c.Request.Cookie(cfg.Cookie)
		if to := cfg.Decide(c.Request.URL.Path, err == nil); to != "" {
			c.Redirect(http.StatusTemporaryRedirect, to)
			c.Abort()
			return
		}
		c.Next()
	}
}
