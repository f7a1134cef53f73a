package router

import (
	"newsjam-server/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerPublicRoutes(api *gin.RouterGroup, authLimiter gin.HandlerFunc, h *handler.AuthHandler) {
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong from gin"})
	})
	api.GET("/captcha/image", authLimiter, h.GetCaptchaImage)
}
