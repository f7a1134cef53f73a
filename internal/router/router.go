package router

import (
	"newsjam-server/internal/handler"
	"newsjam-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Router struct {
	handlers *handler.Handlers
}

func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

func (rt *Router) Init(r *gin.Engine) {
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())

	api := r.Group("/api")
	// 应用请求体大小限制中间件
	api.Use(middleware.BodyLimitMiddleware())

	// 认证限流：读取配置（在多个域路由中复用同一个实例，保持行为一致）
	authLimiter := middleware.RateLimitMiddleware(middleware.AuthRateLimits)

	registerPublicRoutes(api, authLimiter, rt.handlers.Auth)
	registerAuthRoutes(api, authLimiter, rt.handlers.Auth)
	registerPostRoutes(api, rt.handlers.Post)
	registerUserRoutes(api, rt.handlers.User)
}
