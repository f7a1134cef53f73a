package middleware

import (
	"net/http"
	"newsjam-server/internal/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取请求头 Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "需要认证才能访问"})
			c.Abort()
			return
		}

		// 检查格式是否为 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 格式错误"})
			c.Abort()
			return
		}

		//解析 Token
		claims, err := utils.ParseLoginToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 无效或已过期"})
			c.Abort()
			return
		}

		c.Set("id", claims.ID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// CurrentUserID 从上下文取出认证中间件写入的用户 ID。
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("id")
	if !exists {
		return 0, false
	}
	uid, ok := value.(uint)
	return uid, ok
}
