package middleware

import (
	"newsjam-server/internal/config"

	"github.com/gin-gonic/gin"
)

// StaticCacheMiddleware 为静态媒体资源添加 Cache-Control 头
func StaticCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cc := config.Get().Upload.StaticCacheHeader
		if cc != "" {
			c.Header("Cache-Control", cc)
		}
		c.Next()
	}
}
