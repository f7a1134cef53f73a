package router

import (
	"newsjam-server/internal/handler"
	"newsjam-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerUserRoutes(api *gin.RouterGroup, h *handler.UserHandler) {
	userGroup := api.Group("/user")
	userGroup.Use(middleware.JWTAuth())

	userGroup.GET("/profile", h.GetProfile)
	userGroup.PATCH("/password", h.UpdatePassword)
	userGroup.DELETE("/:id", h.DeleteUser)

	userGroup.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong with auth"})
	})
}
