package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule pub 为 /api/v1，authed 为其下已鉴权的分组
type APIModule interface {
	MountAPI(pub, authed *gin.RouterGroup)
}

// AdminModule g 为 /admin/v1，已要求 admin 角色
type AdminModule interface{ MountAdmin(g *gin.RouterGroup) }

// 实现该接口可控制挂载顺序（数值越小越先挂），不实现则默认 100
type prioritizer interface{ Priority() int }

// Registry 模块可同时实现 APIModule 和 AdminModule
type Registry struct {
	api   []APIModule
	admin []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

func (r *Registry) Register(mod any) {
	if m, ok := mod.(APIModule); ok {
		r.api = append(r.api, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.admin = append(r.admin, m)
	}
}

func (r *Registry) MountAPI(pub, authed *gin.RouterGroup) {
	for _, m := range byPriority(r.api) {
		m.MountAPI(pub, authed)
	}
}

func (r *Registry) MountAdmin(g *gin.RouterGroup) {
	for _, m := range byPriority(r.admin) {
		m.MountAdmin(g)
	}
}

func byPriority[M any](mods []M) []M {
	out := append([]M(nil), mods...)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityOf(out[i]) < priorityOf(out[j])
	})
	return out
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
