package service

import (
	"errors"
	"testing"
	"time"

	"github.com/vixenblog/internal/db"
)

func TestCategoryCreateGeneratesSlug(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	category, err := svc.Create("前端开发", "")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if category.Slug != "frontend-development" {
		t.Fatalf("slug = %q", category.Slug)
	}

	// 显式别名优先于名称生成。
	other, err := svc.Create("后端", "backend")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if other.Slug != "backend" {
		t.Fatalf("slug = %q", other.Slug)
	}
}

func TestCategorySlugConflictRejected(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	if _, err := svc.Create("技术", "tech"); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := svc.Create("科技", "tech"); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestCategoryUpdateKeepsOwnSlug(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	category, err := svc.Create("技术", "tech")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := svc.Update(category.ID, "技术分享", "tech"); err != nil {
		t.Fatalf("update category: %v", err)
	}
}

func TestCategoryDeleteDetachesPosts(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	category, err := svc.Create("技术", "")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	post := seedPost(t, gdb, &db.Post{
		Title: "In Category", Content: "a", Slug: "in-category",
		CategoryID: &category.ID,
	})

	if err := svc.Delete(category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	var reloaded db.Post
	if err := gdb.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if reloaded.CategoryID != nil {
		t.Fatalf("post still references deleted category")
	}
}

func TestTagDeleteClearsAssociation(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewTagService(gdb)
	tag, err := svc.Create("Go", "")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	post := seedPost(t, gdb, &db.Post{Title: "Tagged", Content: "a", Slug: "tagged"})
	if err := gdb.Model(post).Association("Tags").Append(tag); err != nil {
		t.Fatalf("attach tag: %v", err)
	}

	if err := svc.Delete(tag.ID); err != nil {
		t.Fatalf("delete tag: %v", err)
	}

	count := gdb.Model(post).Association("Tags").Count()
	if count != 0 {
		t.Fatalf("post keeps %d tags after delete, want 0", count)
	}
}

func TestTagListCountsPosts(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewTagService(gdb)
	tag, err := svc.Create("Go", "")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	post := seedPost(t, gdb, &db.Post{Title: "Tagged", Content: "a", Slug: "tagged"})
	if err := gdb.Model(post).Association("Tags").Append(tag); err != nil {
		t.Fatalf("attach tag: %v", err)
	}

	tags, err := svc.List()
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 || tags[0].PostCount != 1 {
		t.Fatalf("unexpected tag list: %+v", tags)
	}
}

func TestSeriesGetBySlugOrdersPosts(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewSeriesService(gdb)
	series, err := svc.Create(SeriesInput{Name: "Go 进阶", Slug: "go-advanced"})
	if err != nil {
		t.Fatalf("create series: %v", err)
	}

	now := time.Now()
	second, first := 2, 1
	seedPost(t, gdb, &db.Post{
		Title: "Part Two", Content: "a", Slug: "part-two",
		Published: true, PublishedAt: &now,
		SeriesID: &series.ID, SeriesOrder: &second,
	})
	seedPost(t, gdb, &db.Post{
		Title: "Part One", Content: "a", Slug: "part-one",
		Published: true, PublishedAt: &now,
		SeriesID: &series.ID, SeriesOrder: &first,
	})
	// 草稿不出现在系列页。
	seedPost(t, gdb, &db.Post{
		Title: "Unfinished", Content: "a", Slug: "unfinished",
		SeriesID: &series.ID,
	})

	detail, err := svc.GetBySlug("go-advanced")
	if err != nil {
		t.Fatalf("get series: %v", err)
	}
	if len(detail.Posts) != 2 {
		t.Fatalf("series has %d posts, want 2", len(detail.Posts))
	}
	if detail.Posts[0].Slug != "part-one" || detail.Posts[1].Slug != "part-two" {
		t.Fatalf("series posts out of order: %q, %q", detail.Posts[0].Slug, detail.Posts[1].Slug)
	}
}

func TestSeriesDeleteDetachesPosts(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewSeriesService(gdb)
	series, err := svc.Create(SeriesInput{Name: "旧系列"})
	if err != nil {
		t.Fatalf("create series: %v", err)
	}

	order := 1
	post := seedPost(t, gdb, &db.Post{
		Title: "In Series", Content: "a", Slug: "in-series",
		SeriesID: &series.ID, SeriesOrder: &order,
	})

	if err := svc.Delete(series.ID); err != nil {
		t.Fatalf("delete series: %v", err)
	}

	var reloaded db.Post
	if err := gdb.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if reloaded.SeriesID != nil || reloaded.SeriesOrder != nil {
		t.Fatalf("post still references deleted series")
	}
}

func TestTaxonomyNameRequired(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := NewCategoryService(gdb).Create("  ", ""); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("category: expected ErrNameRequired, got %v", err)
	}
	if _, err := NewTagService(gdb).Create("", ""); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("tag: expected ErrNameRequired, got %v", err)
	}
	if _, err := NewSeriesService(gdb).Create(SeriesInput{}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("series: expected ErrNameRequired, got %v", err)
	}
}
