package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rewear/internal/core/auth"
	"rewear/internal/core/server"
	"rewear/internal/transport/http/gate"
	"rewear/internal/transport/http/handler"
	mdw "rewear/internal/transport/http/middleware"
	resp "rewear/internal/transport/http/response"
)

// Options 两个引擎共用
type Options struct {
	Log         *zap.Logger
	JWT         *auth.JWTer
	Mode        string
	CORSOrigins []string
	Cookie      string // 会话 cookie 名，鉴权也接受它
	MaxBodyMB   int
	Timeout     time.Duration

	// 以下仅 API 引擎使用
	Gate     gate.Config
	FilesDir string // 本地图片根目录，挂在 /files
	WebDir   string // 前端静态产物，可为空
}

func (o Options) common(name string) []gin.HandlerFunc {
	if o.MaxBodyMB <= 0 {
		o.MaxBodyMB = 16
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	return []gin.HandlerFunc{
		mdw.Recovery(o.Log),
		mdw.RequestID(),
		mdw.RateLimitPerIP(50, 100, 10*time.Minute),
		mdw.ConcurrencyLimit(300, handler.StreamPath),
		mdw.MaxBodyBytes(int64(o.MaxBodyMB) << 20),
		mdw.Timeout(o.Timeout, handler.StreamPath),
		mdw.Metrics(name),
		mdw.AccessLog(o.Log),
	}
}

func health(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) }

func NewAPIEngine(o Options, mods *Registry) *gin.Engine {
	r := server.NewRouter(o.Log, server.Options{Name: "api", Mode: o.Mode, CORSOrigins: o.CORSOrigins})
	r.Use(o.common("api")...)

	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if o.FilesDir != "" {
		r.Static("/files", o.FilesDir)
	}

	api := r.Group("/api/v1")
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(o.JWT, o.Cookie, ""))
	mods.MountAPI(api, authed)

	// 页面导航：闸门 + 前端静态文件
	r.NoRoute(gate.Middleware(o.Gate), spa(o.WebDir))
	return r
}

// spa 存在的文件直接返回，其余回落到 index.html；接口路径返回信封 404
func spa(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || dir == "" {
			c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, ""))
			return
		}
		f := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+p)))
		if st, err := os.Stat(f); err == nil && !st.IsDir() {
			c.File(f)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
