package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newsjam-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// 测试内容：验证缺少 Authorization 头时返回 401。
func TestJWTAuth_MissingHeaderUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", JWTAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际为 %d", w.Code)
	}
}

// 测试内容：验证非 Bearer 格式的请求头被拒绝。
func TestJWTAuth_BadFormatUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", JWTAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际为 %d", w.Code)
	}
}

// 测试内容：验证有效登录令牌会在上下文中设置用户信息。
func TestJWTAuth_ValidTokenSetsContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", JWTAuth(), func(c *gin.Context) {
		uid, ok := CurrentUserID(c)
		username, _ := c.Get("username")
		if !ok || uid != uint(1) || username != "alice" {
			c.JSON(500, gin.H{"bad": true})
			return
		}
		c.Status(http.StatusOK)
	})

	token, err := utils.GenerateLoginToken(1, "alice", time.Hour)
	if err != nil {
		t.Fatalf("GenerateLoginToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
}

// 测试内容：验证过期令牌被拒绝。
func TestJWTAuth_ExpiredTokenUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", JWTAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	token, err := utils.GenerateLoginToken(1, "alice", -time.Hour)
	if err != nil {
		t.Fatalf("GenerateLoginToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际为 %d", w.Code)
	}
}

// 测试内容：验证 CurrentUserID 对缺失与类型错误的上下文返回 false。
func TestCurrentUserID_MissingOrWrongType(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := CurrentUserID(c); ok {
		t.Fatalf("期望缺失 id 时返回 false")
	}

	c.Set("id", "not-a-uint")
	if _, ok := CurrentUserID(c); ok {
		t.Fatalf("期望类型错误时返回 false")
	}
}
