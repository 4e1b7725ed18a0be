package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/vixenblog/internal/db"
)

func TestGetPublishedPostDetail(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	post := seedPublishedPost(t, db.DB, "detail-post")
	post.Content = "# 概述\n\n正文"
	if err := db.DB.Save(post).Error; err != nil {
		t.Fatalf("failed to update post: %v", err)
	}

	r := newTestEngine(func(r *gin.Engine) {
		r.GET("/api/posts/:slug", api.GetPublishedPost)
	})

	w := postJSON(t, r, http.MethodGet, "/api/posts/detail-post", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			HTML        string `json:"html"`
			Headings    []any  `json:"headings"`
			ReadingTime int    `json:"readingTime"`
			Liked       bool   `json:"liked"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Data.HTML, `id="heading-0"`) {
		t.Fatalf("rendered html missing anchor: %s", resp.Data.HTML)
	}
	if len(resp.Data.Headings) != 1 || resp.Data.ReadingTime < 1 || resp.Data.Liked {
		t.Fatalf("unexpected detail payload: %+v", resp.Data)
	}

	// 访问一次后浏览数自增。
	var reloaded db.Post
	if err := db.DB.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	if reloaded.ViewCount != 1 {
		t.Fatalf("view count = %d, want 1", reloaded.ViewCount)
	}
}

func TestGetPublishedPostHidesDraft(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.DB.Create(&db.Post{
		Title: "草稿", Content: "正文", Slug: "hidden-draft", AuthorID: 1,
	}).Error; err != nil {
		t.Fatalf("failed to seed draft: %v", err)
	}

	r := newTestEngine(func(r *gin.Engine) {
		r.GET("/api/posts/:slug", api.GetPublishedPost)
	})

	w := postJSON(t, r, http.MethodGet, "/api/posts/hidden-draft", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestToggleLikeIssuesVisitorCookie(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedPublishedPost(t, db.DB, "likeable")

	r := newTestEngine(func(r *gin.Engine) {
		r.POST("/api/posts/:slug/like", api.ToggleLike)
	})

	w := postJSON(t, r, http.MethodPost, "/api/posts/likeable/like", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var issuedCookie bool
	for _, raw := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(raw, visitorCookieName+"=") {
			issuedCookie = true
		}
	}
	if !issuedCookie {
		t.Fatalf("visitor cookie not issued")
	}

	var resp struct {
		Data struct {
			Liked     bool `json:"liked"`
			LikeCount int  `json:"likeCount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Data.Liked || resp.Data.LikeCount != 1 {
		t.Fatalf("unexpected like result: %+v", resp.Data)
	}
}

func TestToggleLikeHonorsVisitorHeader(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedPublishedPost(t, db.DB, "header-like")

	r := newTestEngine(func(r *gin.Engine) {
		r.POST("/api/posts/:slug/like", api.ToggleLike)
	})

	// 同一访客头两次切换，点赞数回到零。
	for i, wantCount := range []int{1, 0} {
		req, _ := http.NewRequest(http.MethodPost, "/api/posts/header-like/like", nil)
		req.Header.Set("X-Visitor-Id", "stable-visitor")
		w := performRequest(r, req)
		if w.Code != http.StatusOK {
			t.Fatalf("toggle %d: expected 200, got %d", i, w.Code)
		}

		var resp struct {
			Data struct {
				LikeCount int `json:"likeCount"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Data.LikeCount != wantCount {
			t.Fatalf("toggle %d: like count = %d, want %d", i, resp.Data.LikeCount, wantCount)
		}
	}
}

func TestSubmitCommentWhenDisabled(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.DB.Create(&db.Setting{
		Key: db.SettingKeyEnableComments, Value: "false",
	}).Error; err != nil {
		t.Fatalf("failed to seed setting: %v", err)
	}
	seedPublishedPost(t, db.DB, "no-comments")

	r := newTestEngine(func(r *gin.Engine) {
		r.POST("/api/posts/:slug/comments", api.SubmitComment)
	})

	w := postJSON(t, r, http.MethodPost, "/api/posts/no-comments/comments", map[string]any{
		"author": "甲", "email": "a@x.com", "content": "评论",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestSubmitCommentPendingByDefault(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedPublishedPost(t, db.DB, "open-comments")

	r := newTestEngine(func(r *gin.Engine) {
		r.POST("/api/posts/:slug/comments", api.SubmitComment)
		r.GET("/api/posts/:slug/comments", api.ListPostComments)
	})

	w := postJSON(t, r, http.MethodPost, "/api/posts/open-comments/comments", map[string]any{
		"author": "甲", "email": "a@x.com", "content": "第一条评论",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Approved bool `json:"approved"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Approved {
		t.Fatalf("new comment must be pending")
	}

	// 待审核评论不出现在公开列表。
	w = postJSON(t, r, http.MethodGet, "/api/posts/open-comments/comments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var listResp struct {
		Data struct {
			Comments []any `json:"comments"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listResp.Data.Comments) != 0 {
		t.Fatalf("pending comment leaked to public list")
	}
}

func TestSearchPostsRequiresMinQuery(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedPublishedPost(t, db.DB, "searchable")

	r := newTestEngine(func(r *gin.Engine) {
		r.GET("/api/posts/search", api.SearchPosts)
	})

	w := postJSON(t, r, http.MethodGet, "/api/posts/search?q=s", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Data struct {
			Posts []any `json:"posts"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data.Posts) != 0 {
		t.Fatalf("single-rune query must return nothing")
	}
}
