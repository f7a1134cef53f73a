package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// 测试内容：验证静态资源响应带上配置的 Cache-Control 头。
func TestStaticCacheMiddleware_SetsCacheControl(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/media/x.png", StaticCacheMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/x.png", nil))

	if got := w.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Fatalf("期望默认缓存头，实际为 %q", got)
	}
}
