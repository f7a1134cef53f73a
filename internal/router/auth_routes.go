package router

import (
	"newsjam-server/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerAuthRoutes(api *gin.RouterGroup, authLimiter gin.HandlerFunc, h *handler.AuthHandler) {
	api.POST("/register", authLimiter, h.Register)
	api.POST("/login", authLimiter, h.Login)
}
