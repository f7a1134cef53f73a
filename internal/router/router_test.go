package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"newsjam-server/internal/config"
	"newsjam-server/internal/db"
	"newsjam-server/internal/handler"
	"newsjam-server/internal/repository"
	"newsjam-server/internal/service"
	"newsjam-server/internal/testutils"

	"github.com/gin-gonic/gin"
)

// 测试内容：为 router 包测试初始化配置环境并在结束时清理。
func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "newsjam-router-config-*")
	if err != nil {
		panic(err)
	}
	mediaDir, err := os.MkdirTemp("", "newsjam-router-media-*")
	if err != nil {
		panic(err)
	}

	envs := []testutils.SavedEnv{
		testutils.SetEnv("NEWSJAM_SERVER_MODE", "debug"),
		testutils.SetEnv("NEWSJAM_JWT_SECRET", "test_secret"),
		testutils.SetEnv("NEWSJAM_JWT_EXPIRATION_HOURS", "24"),
		testutils.SetEnv("NEWSJAM_UPLOAD_PATH", mediaDir),
		testutils.SetEnv("NEWSJAM_REDIS_ENABLED", "false"),
		testutils.SetEnv("NEWSJAM_CAPTCHA_ENABLED", "false"),
		testutils.SetEnv("NEWSJAM_RATELIMIT_ENABLED", "false"),
	}
	config.InitConfig(tmpDir)

	code := m.Run()

	testutils.RestoreEnv(envs)
	_ = os.RemoveAll(tmpDir)
	_ = os.RemoveAll(mediaDir)
	os.Exit(code)
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	testutils.SetupDB(t)

	repos := repository.NewRepositories(
		repository.NewUserRepository(db.DB),
		repository.NewPostRepository(db.DB),
	)
	handlers := handler.NewHandlers(service.NewServices(repos))

	r := gin.New()
	NewRouter(handlers).Init(r)
	return r
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// 测试内容：验证核心 API 路由被正确注册。
func TestInit_RegistersCoreRoutes(t *testing.T) {
	r := setupTestRouter(t)

	type wantRoute struct {
		method string
		path   string
	}
	wants := []wantRoute{
		{method: "GET", path: "/api/ping"},
		{method: "POST", path: "/api/register"},
		{method: "POST", path: "/api/login"},
		{method: "GET", path: "/api/captcha/image"},
		{method: "GET", path: "/api/posts"},
		{method: "POST", path: "/api/posts"},
		{method: "GET", path: "/api/posts/:id"},
		{method: "PUT", path: "/api/posts/:id"},
		{method: "DELETE", path: "/api/posts/:id"},
		{method: "GET", path: "/api/posts/user/me"},
		{method: "POST", path: "/api/posts/upload_image"},
		{method: "POST", path: "/api/posts/upload_image_post"},
		{method: "GET", path: "/api/user/profile"},
		{method: "PATCH", path: "/api/user/password"},
		{method: "DELETE", path: "/api/user/:id"},
	}

	have := make(map[string]bool)
	for _, rt := range r.Routes() {
		have[rt.Method+" "+rt.Path] = true
	}

	for _, w := range wants {
		if !have[w.method+" "+w.path] {
			t.Fatalf("缺少路由: %s %s", w.method, w.path)
		}
	}
}

// registerAndLogin 注册并登录一个用户，返回登录令牌。
func registerAndLogin(t *testing.T, r *gin.Engine, username, email string) string {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/api/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "passw0rd1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("注册失败: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/api/login", "", gin.H{
		"email":    email,
		"password": "passw0rd1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("登录失败: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("期望登录返回令牌: %v %s", err, w.Body.String())
	}
	return resp.Token
}

// 测试内容：验证注册、登录、发帖、查询、更新、删除的完整 HTTP 流程。
func TestPostLifecycleOverHTTP(t *testing.T) {
	r := setupTestRouter(t)

	token := registerAndLogin(t, r, "alice_01", "alice@example.com")

	// 发帖
	w := doJSON(r, http.MethodPost, "/api/posts", token, gin.H{
		"title":   "今日新闻",
		"content": "一段正文",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("发帖失败: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		ID               uint     `json:"id"`
		Real             *bool    `json:"real"`
		CredibilityScore *float64 `json:"credibility_score"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID == 0 {
		t.Fatalf("期望创建结果携带 ID: %v %s", err, w.Body.String())
	}
	if created.Real == nil || created.CredibilityScore == nil {
		t.Fatalf("期望创建结果携带核验结论: %s", w.Body.String())
	}

	// 查询
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/posts/%d", created.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("查询帖子失败: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/posts?page=1&limit=10", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("帖子列表失败: %d %s", w.Code, w.Body.String())
	}

	// 我的帖子
	w = doJSON(r, http.MethodGet, "/api/posts/user/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("我的帖子失败: %d %s", w.Code, w.Body.String())
	}

	// 更新
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/posts/%d", created.ID), token, gin.H{
		"title":   "新标题",
		"content": "新正文",
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("更新帖子失败: %d %s", w.Code, w.Body.String())
	}

	// 他人无权更新
	otherToken := registerAndLogin(t, r, "bob_01", "bob@example.com")
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/posts/%d", created.ID), otherToken, gin.H{
		"title": "篡改", "content": "篡改",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("期望 403，实际为 %d %s", w.Code, w.Body.String())
	}

	// 删除
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/posts/%d", created.ID), token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("删除帖子失败: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/posts/%d", created.ID), token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际为 %d %s", w.Code, w.Body.String())
	}
}

// 测试内容：验证帖子读取接口同样要求认证。
func TestPostReadRoutesRequireAuth(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/posts", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望未认证列表返回 401，实际为 %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/posts/1", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望未认证查询返回 401，实际为 %d %s", w.Code, w.Body.String())
	}
}

// 测试内容：验证用户信息、改密与注销账号的 HTTP 流程。
func TestUserRoutesOverHTTP(t *testing.T) {
	r := setupTestRouter(t)

	token := registerAndLogin(t, r, "alice_01", "alice@example.com")

	// 个人信息
	w := doJSON(r, http.MethodGet, "/api/user/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("个人信息失败: %d %s", w.Code, w.Body.String())
	}
	var profile struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil || profile.Email != "alice@example.com" {
		t.Fatalf("期望返回用户信息: %v %s", err, w.Body.String())
	}

	// 未认证访问被拒
	w = doJSON(r, http.MethodGet, "/api/user/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际为 %d", w.Code)
	}

	// 改密
	w = doJSON(r, http.MethodPatch, "/api/user/password", token, gin.H{"new_password": "newpass02"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("改密失败: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(r, http.MethodPost, "/api/login", "", gin.H{"email": "alice@example.com", "password": "newpass02"})
	if w.Code != http.StatusOK {
		t.Fatalf("新密码登录失败: %d %s", w.Code, w.Body.String())
	}

	// 只能注销自己的账号
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/user/%d", profile.ID+1), token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("期望 403，实际为 %d %s", w.Code, w.Body.String())
	}
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/user/%d", profile.ID), token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("注销失败: %d %s", w.Code, w.Body.String())
	}
}

// 测试内容：验证验证码未启用时接口返回 404，ping 正常。
func TestPublicRoutes(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/ping", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 ping 返回 200，实际为 %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/captcha/image", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望验证码未启用时返回 404，实际为 %d", w.Code)
	}
}

// 测试内容：验证非法的帖子 ID 返回 400。
func TestGetPost_InvalidID(t *testing.T) {
	r := setupTestRouter(t)

	token := registerAndLogin(t, r, "carol_01", "carol@example.com")
	w := doJSON(r, http.MethodGet, "/api/posts/abc", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际为 %d", w.Code)
	}
}
