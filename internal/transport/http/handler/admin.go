package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rewear/internal/domain"
	"rewear/internal/service"
	"rewear/internal/transport/http/ez"
)

type Admin struct {
	moderation *service.ModerationService
	accounts   *service.AccountService
}

func NewAdmin(m *service.ModerationService, a *service.AccountService) *Admin {
	return &Admin{moderation: m, accounts: a}
}

type featureIn struct {
	ItemID   string `json:"itemId" binding:"required"`
	Priority int    `json:"priority"`
}

type usersQ struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=20"`
}

type usersOut struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

// MountAdmin 分组已要求 admin 角色，这里再按角色校验一次
func (h *Admin) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g)
	admins := []string{domain.RoleAdmin}

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Item]{
		Method: http.MethodGet,
		Path:   "/items/pending",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  admins,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Item, error) {
			return h.moderation.ListPending(c)
		},
	})

	// 审核动作返回刷新后的待审核队列
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Item]{
		Method: http.MethodPost,
		Path:   "/items/:id/approve",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  admins,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Item, error) {
			if err := h.moderation.Approve(c, c.Param("id")); err != nil {
				return nil, err
			}
			return h.moderation.ListPending(c)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Item]{
		Method: http.MethodPost,
		Path:   "/items/:id/reject",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  admins,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Item, error) {
			if err := h.moderation.Reject(c, c.Param("id")); err != nil {
				return nil, err
			}
			return h.moderation.ListPending(c)
		},
	})

	ez.RegisterAction(e, ez.Action[featureIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/featured",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  admins,
		Handler: func(c *gin.Context, in *featureIn) (gin.H, error) {
			if err := h.moderation.Feature(c, in.ItemID, in.Priority); err != nil {
				return nil, err
			}
			return gin.H{"itemId": in.ItemID, "priority": in.Priority}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/featured/:itemId",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  admins,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("itemId")
			if err := h.moderation.Unfeature(c, id); err != nil {
				return nil, err
			}
			return gin.H{"itemId": id}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[usersQ, usersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  admins,
		Handler: func(c *gin.Context, in *usersQ) (usersOut, error) {
			us, total, err := h.accounts.ListUsers(c, in.Offset, in.Limit)
			if err != nil {
				return usersOut{}, err
			}
			if us == nil {
				us = []domain.User{}
			}
			return usersOut{Total: total, Items: us}, nil
		},
	})
}
