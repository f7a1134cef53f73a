package router

import (
	"newsjam-server/internal/handler"
	"newsjam-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerPostRoutes(api *gin.RouterGroup, h *handler.PostHandler) {
	postGroup := api.Group("/posts")
	authed := postGroup.Group("")
	authed.Use(middleware.JWTAuth())

	// 上传限流：读取配置
	uploadLimiter := middleware.RateLimitMiddleware(middleware.UploadRateLimits)
	uploadBodyLimit := middleware.UploadBodyLimitMiddleware()

	authed.GET("", h.GetAllPosts)
	authed.GET("/:id", h.GetPost)
	authed.POST("", h.CreatePost)
	authed.GET("/user/me", h.GetMyPosts)
	authed.PUT("/:id", h.UpdatePost)
	authed.DELETE("/:id", h.DeletePost)

	authed.POST("/upload_image", uploadBodyLimit, uploadLimiter, h.UploadImage)
	authed.POST("/upload_image_post", uploadBodyLimit, uploadLimiter, h.UploadImagePost)
}
