package router

import (
	"github.com/gin-gonic/gin"

	"rewear/internal/core/server"
	mdw "rewear/internal/transport/http/middleware"
)

func NewAdminEngine(o Options, mods *Registry) *gin.Engine {
	r := server.NewRouter(o.Log, server.Options{Name: "admin", Mode: o.Mode, CORSOrigins: o.CORSOrigins})
	r.Use(o.common("admin")...)

	r.GET("/health", health)

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	// 整个管理端共用一个桶，批量操作脚本跑飞时兜底
	admin.Use(mdw.RateLimit(20, 40), mdw.AuthJWT(o.JWT, o.Cookie, "admin"))
	mods.MountAdmin(admin)

	return r
}
