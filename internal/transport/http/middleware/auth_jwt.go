package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rewear/internal/core/auth"
	"rewear/internal/transport/http/ez"
	resp "rewear/internal/transport/http/response"
)

// bearerOrCookie Authorization 头优先，其次会话 cookie（值同为 JWT）
func bearerOrCookie(c *gin.Context, cookie string) string {
	if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimPrefix(ah, "Bearer ")
	}
	if cookie != "" {
		if v, err := c.Cookie(cookie); err == nil {
			return v
		}
	}
	return ""
}

// AuthJWT requireRole 为空表示任意已登录用户
func AuthJWT(j *auth.JWTer, cookie, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearerOrCookie(c, cookie)
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set(ez.CtxUserID, claims.UID)
		c.Set(ez.CtxRole, claims.Role)
		c.Next()
	}
}
