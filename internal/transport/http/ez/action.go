package ez

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rewear/internal/domain"
	resp "rewear/internal/transport/http/response"
)

// EZ 在某个分组上注册 Action
type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindForm  Binder = "form"  // multipart / urlencoded 表单
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// AErr 带业务码的错误
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}
func (e *AErr) Unwrap() error { return e.Err }

// BadRequest 参数问题，文案原样返回给前端
func BadRequest(msg string) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }

// Code 把错误归到业务码；未知错误为 500，文案不外泄
func Code(err error) (int, string) {
	var ae *AErr
	switch {
	case errors.As(err, &ae):
		return ae.Code, ae.Error()
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound, err.Error()
	case errors.Is(err, domain.ErrInsufficientBalance):
		return resp.CodeUnprocessable, domain.ErrInsufficientBalance.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return resp.CodeUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return resp.CodeForbidden, err.Error()
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, domain.ErrConflict):
		return resp.CodeConflict, err.Error()
	case errors.Is(err, domain.ErrInvalid):
		return resp.CodeBadRequest, err.Error()
	case errors.Is(err, domain.ErrTransient):
		return resp.CodeUnavailable, "service temporarily unavailable, please retry"
	case errors.Is(err, context.DeadlineExceeded):
		return resp.CodeTimeout, ""
	default:
		return resp.CodeServerError, ""
	}
}

// Fail 写错误响应；原始错误挂到 c.Errors 供访问日志输出
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	code, msg := Code(err)
	c.JSON(http.StatusOK, resp.Error(code, msg))
}

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // 例："/auth/login"、"/items/:id/redeem"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录（检查 userId）
	Roles   []string // 限定角色（可选）
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			if UserID(c) == "" {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if len(a.Roles) > 0 {
				role := c.GetString(CtxRole)
				ok := false
				for _, r := range a.Roles {
					if role == r {
						ok = true
						break
					}
				}
				if !ok {
					c.JSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
					return
				}
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindForm:
			bindErr = c.ShouldBind(&in)
		default:
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// 鉴权中间件写入的 key
const (
	CtxUserID = "userId"
	CtxRole   = "role"
)

func UserID(c *gin.Context) string { return c.GetString(CtxUserID) }

// FormFiles multipart 中某字段的全部文件
func FormFiles(c *gin.Context, field string) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, BadRequest("invalid multipart form: " + err.Error())
	}
	return form.File[field], nil
}
