package service

import (
	"errors"
	"testing"
	"time"

	"github.com/vixenblog/internal/db"
	"gorm.io/gorm"
)

func seedPublishedPost(t *testing.T, gdb *gorm.DB, slug string) *db.Post {
	t.Helper()
	now := time.Now()
	return seedPost(t, gdb, &db.Post{
		Title: slug, Content: "a", Slug: slug,
		Published: true, PublishedAt: &now,
	})
}

func TestLikeToggleParity(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	post := seedPublishedPost(t, gdb, "liked-post")
	svc := NewLikeService(gdb)

	// 偶数次切换回到原点，奇数次保持点赞态。
	for i := 1; i <= 4; i++ {
		result, err := svc.Toggle("liked-post", "visitor-1")
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		wantLiked := i%2 == 1
		wantCount := 0
		if wantLiked {
			wantCount = 1
		}
		if result.Liked != wantLiked || result.LikeCount != wantCount {
			t.Fatalf("toggle %d = %+v, want liked=%v count=%d", i, result, wantLiked, wantCount)
		}
	}

	var reloaded db.Post
	if err := gdb.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if reloaded.LikeCount != 0 {
		t.Fatalf("like count = %d after even toggles, want 0", reloaded.LikeCount)
	}
}

func TestLikeToggleTracksDistinctVisitors(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	seedPublishedPost(t, gdb, "popular")
	svc := NewLikeService(gdb)

	for _, visitor := range []string{"v1", "v2", "v3"} {
		if _, err := svc.Toggle("popular", visitor); err != nil {
			t.Fatalf("toggle %s: %v", visitor, err)
		}
	}

	result, err := svc.Toggle("popular", "v2")
	if err != nil {
		t.Fatalf("untoggle v2: %v", err)
	}
	if result.Liked || result.LikeCount != 2 {
		t.Fatalf("after v2 untoggle got %+v, want liked=false count=2", result)
	}
}

func TestLikeToggleRequiresVisitor(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	seedPublishedPost(t, gdb, "anything")
	svc := NewLikeService(gdb)

	if _, err := svc.Toggle("anything", "  "); !errors.Is(err, ErrVisitorRequired) {
		t.Fatalf("expected ErrVisitorRequired, got %v", err)
	}
}

func TestLikeToggleRejectsDraftPost(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	seedPost(t, gdb, &db.Post{Title: "Draft", Content: "a", Slug: "draft-like"})
	svc := NewLikeService(gdb)

	if _, err := svc.Toggle("draft-like", "visitor"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestLikeCountFloorsAtZero(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	// 计数已因外部原因为零，但台账里仍有记录：取消点赞不能减成负数。
	post := seedPublishedPost(t, gdb, "floored")
	if err := gdb.Create(&db.PostLike{VisitorID: "visitor", PostID: post.ID}).Error; err != nil {
		t.Fatalf("seed like: %v", err)
	}

	svc := NewLikeService(gdb)
	result, err := svc.Toggle("floored", "visitor")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if result.Liked || result.LikeCount != 0 {
		t.Fatalf("got %+v, want liked=false count=0", result)
	}
}

func TestHasLiked(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	post := seedPublishedPost(t, gdb, "checked")
	svc := NewLikeService(gdb)

	liked, err := svc.HasLiked(post.ID, "visitor")
	if err != nil {
		t.Fatalf("has liked: %v", err)
	}
	if liked {
		t.Fatalf("expected not liked before toggle")
	}

	if _, err := svc.Toggle("checked", "visitor"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	liked, err = svc.HasLiked(post.ID, "visitor")
	if err != nil {
		t.Fatalf("has liked: %v", err)
	}
	if !liked {
		t.Fatalf("expected liked after toggle")
	}
}
