package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLoginWrongPassword(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	r := newTestEngine(func(r *gin.Engine) {
		r.POST("/admin/api/login", api.Login)
	})

	w := postJSON(t, r, http.MethodPost, "/admin/api/login", map[string]any{
		"username": "tester",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestLoginAndAccessProtectedRoute(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	r := newTestEngine(func(r *gin.Engine) {
		r.POST("/admin/api/login", api.Login)
		auth := r.Group("/admin/api")
		auth.Use(AuthRequired())
		auth.GET("/profile", api.GetProfile)
	})

	// 未登录访问受保护接口被拒。
	w := postJSON(t, r, http.MethodGet, "/admin/api/profile", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}

	// 登录成功后携带会话 Cookie 可访问。
	w = postJSON(t, r, http.MethodPost, "/admin/api/login", map[string]any{
		"username": "tester",
		"password": "secret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}

	cookies := w.Header().Values("Set-Cookie")
	if len(cookies) == 0 {
		t.Fatalf("login did not set session cookie")
	}

	req, _ := http.NewRequest(http.MethodGet, "/admin/api/profile", nil)
	for _, cookie := range cookies {
		req.Header.Add("Cookie", cookie)
	}
	w2 := performRequest(r, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w2.Code, w2.Body.String())
	}

	var resp struct {
		Data struct {
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Username != "tester" {
		t.Fatalf("profile username = %q", resp.Data.Username)
	}
}

func TestLoginMissingFields(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	r := newTestEngine(func(r *gin.Engine) {
		r.POST("/admin/api/login", api.Login)
	})

	w := postJSON(t, r, http.MethodPost, "/admin/api/login", map[string]any{
		"username": "tester",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
