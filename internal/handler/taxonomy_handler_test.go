package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/vixenblog/internal/db"
)

func TestCreateCategoryDuplicateSlug(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.DB.Create(&db.Category{Name: "技术", Slug: "tech"}).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	r := newTestEngine(func(r *gin.Engine) {
		r.POST("/admin/api/categories", asAdmin(), api.CreateCategory)
	})

	w := postJSON(t, r, http.MethodPost, "/admin/api/categories", map[string]any{
		"name": "科技",
		"slug": "tech",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func TestGetSeriesWithOrderedPosts(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	series := db.Series{Name: "Go 入门", Slug: "go-basics"}
	if err := db.DB.Create(&series).Error; err != nil {
		t.Fatalf("failed to seed series: %v", err)
	}

	first, second := 1, 2
	postA := seedPublishedPost(t, db.DB, "chapter-two")
	postB := seedPublishedPost(t, db.DB, "chapter-one")
	db.DB.Model(postA).Updates(map[string]interface{}{"series_id": series.ID, "series_order": second})
	db.DB.Model(postB).Updates(map[string]interface{}{"series_id": series.ID, "series_order": first})

	r := newTestEngine(func(r *gin.Engine) {
		r.GET("/api/series/:slug", api.GetSeries)
	})

	w := postJSON(t, r, http.MethodGet, "/api/series/go-basics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Posts []struct {
				Slug string `json:"Slug"`
			} `json:"posts"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data.Posts) != 2 {
		t.Fatalf("series has %d posts, want 2", len(resp.Data.Posts))
	}
	if resp.Data.Posts[0].Slug != "chapter-one" || resp.Data.Posts[1].Slug != "chapter-two" {
		t.Fatalf("series posts out of order: %+v", resp.Data.Posts)
	}
}

func TestDeleteTagReleasesPosts(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	tag := db.Tag{Name: "Go", Slug: "go"}
	if err := db.DB.Create(&tag).Error; err != nil {
		t.Fatalf("failed to seed tag: %v", err)
	}
	post := seedPublishedPost(t, db.DB, "tagged-post")
	if err := db.DB.Model(post).Association("Tags").Append(&tag); err != nil {
		t.Fatalf("failed to attach tag: %v", err)
	}

	r := newTestEngine(func(r *gin.Engine) {
		r.DELETE("/admin/api/tags/:id", asAdmin(), api.DeleteTag)
	})

	w := postJSON(t, r, http.MethodDelete, "/admin/api/tags/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	count := db.DB.Model(post).Association("Tags").Count()
	if count != 0 {
		t.Fatalf("post keeps %d tags after delete, want 0", count)
	}
}
