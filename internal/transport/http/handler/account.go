package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rewear/internal/domain"
	"rewear/internal/service"
	"rewear/internal/transport/http/ez"
)

// Session 登录后写入的会话 cookie，值为 JWT
type Session struct {
	Cookie string
	Domain string
	Secure bool
	TTL    time.Duration
}

func (s Session) set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Cookie, token, int(s.TTL.Seconds()), "/", s.Domain, s.Secure, true)
}

func (s Session) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Cookie, "", -1, "/", s.Domain, s.Secure, true)
}

type Account struct {
	svc     *service.AccountService
	session Session
}

func NewAccount(svc *service.AccountService, s Session) *Account {
	return &Account{svc: svc, session: s}
}

func (*Account) Priority() int { return 10 }

type credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Account) MountAPI(pub, authed *gin.RouterGroup) {
	ezPub := ez.New(pub)

	ez.RegisterAction(ezPub, ez.Action[credentials, service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *credentials) (service.AuthResult, error) {
			res, err := h.svc.Signup(c, in.Email, in.Password)
			if err != nil {
				return service.AuthResult{}, err
			}
			h.session.set(c, res.Token)
			return *res, nil
		},
	})

	ez.RegisterAction(ezPub, ez.Action[credentials, service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *credentials) (service.AuthResult, error) {
			res, err := h.svc.Login(c, in.Email, in.Password)
			if err != nil {
				return service.AuthResult{}, err
			}
			h.session.set(c, res.Token)
			return *res, nil
		},
	})

	// 无需登录也能退出：只负责清 cookie
	ez.RegisterAction(ezPub, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			h.session.clear(c)
			return gin.H{"ok": true}, nil
		},
	})

	ez.RegisterAction(ez.New(authed), ez.Action[struct{}, domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.User, error) {
			u, err := h.svc.Me(c, ez.UserID(c))
			if err != nil {
				return domain.User{}, err
			}
			return *u, nil
		},
	})
}
