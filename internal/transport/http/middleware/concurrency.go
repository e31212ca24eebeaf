package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "rewear/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数（保护 DB 下游）。长连接路径不占名额
func ConcurrencyLimit(max int64, skipPaths ...string) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	skip := pathSet(skipPaths)
	return func(c *gin.Context) {
		if skip[c.FullPath()] {
			c.Next()
			return
		}
		if err := sem.Acquire(c, 1); err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnavailable, "server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}

func pathSet(paths []string) map[string]bool {
	m := make(map[string]bool, len(paths))
	for _, p := range paths {
		m[p] = true
	}
	return m
}
