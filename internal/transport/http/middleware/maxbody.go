package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	resp "rewear/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；上传图片的接口按最大总量配置
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Writer.Written() {
			return
		}
		var mbe *http.MaxBytesError
		for _, e := range c.Errors {
			if errors.As(e.Err, &mbe) {
				c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "request body too large"))
				return
			}
		}
	}
}
