package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// 测试内容：验证突发额度耗尽后同一 IP 被限流。
func TestRateLimitMiddleware_LimitsAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", RateLimitMiddleware(func() (float64, int) { return 0.001, 2 }), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("期望第 1 次放行，实际为 %d", code)
	}
	if code := do(); code != http.StatusOK {
		t.Fatalf("期望第 2 次放行，实际为 %d", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("期望第 3 次被限流，实际为 %d", code)
	}
}

// 测试内容：验证不同 IP 使用独立的限流额度。
func TestRateLimitMiddleware_PerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", RateLimitMiddleware(func() (float64, int) { return 0.001, 1 }), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do("192.0.2.10:1"); code != http.StatusOK {
		t.Fatalf("期望 IP A 首次放行，实际为 %d", code)
	}
	if code := do("192.0.2.10:1"); code != http.StatusTooManyRequests {
		t.Fatalf("期望 IP A 第二次被限流，实际为 %d", code)
	}
	if code := do("192.0.2.20:1"); code != http.StatusOK {
		t.Fatalf("期望 IP B 不受影响，实际为 %d", code)
	}
}
