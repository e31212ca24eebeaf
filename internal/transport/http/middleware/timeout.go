package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	resp "rewear/internal/transport/http/response"
)

// Timeout 给请求 ctx 加截止时间。skipPaths 按路由模板匹配（如 SSE 长连接）
func Timeout(d time.Duration, skipPaths ...string) gin.HandlerFunc {
	skip := pathSet(skipPaths)
	return func(c *gin.Context) {
		if skip[c.FullPath()] {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeTimeout, "timeout"))
		}
	}
}
