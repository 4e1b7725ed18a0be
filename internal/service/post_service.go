package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vixenblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrMissingFields = errors.New("title and content are required")
	ErrSlugTaken     = errors.New("slug already in use")
)

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title       string
	Content     string
	Excerpt     string
	Slug        string
	CoverImage  string
	Published   bool
	ScheduledAt *time.Time
	CategoryID  *uint
	SeriesID    *uint
	SeriesOrder *int
	TagIDs      []uint
	AuthorID    uint
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Search       string
	Status       string // published / draft / scheduled
	CategorySlug string
	TagSlug      string
	SeriesSlug   string
	Page         int
	PerPage      int
}

// PostListResult aggregates paginated list data and counters.
type PostListResult struct {
	Posts      []db.Post
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// PostRef 是文章的轻量引用，用于上一篇/下一篇与发布清单。
type PostRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// PostDetail 聚合前台文章详情需要的关联数据。
type PostDetail struct {
	Post        db.Post
	Prev        *PostRef
	Next        *PostRef
	Related     []db.Post
	SeriesPosts []db.Post
}

// SweepResult 汇总一次定时发布扫描的结果。
type SweepResult struct {
	Count int       `json:"published"`
	Posts []PostRef `json:"posts"`
}

// applyPublishState 实现发布状态机：
// 未来的 ScheduledAt 优先于 Published 标记（定时胜过立即发布意图）；
// 发布时仅在文章尚未发布过的情况下落 PublishedAt，编辑已发布文章不改首次发布时间。
func applyPublishState(post *db.Post, published bool, scheduledAt *time.Time, now time.Time) {
	if scheduledAt != nil && scheduledAt.After(now) {
		at := *scheduledAt
		post.Published = false
		post.ScheduledAt = &at
		return
	}

	post.ScheduledAt = nil
	post.Published = published
	if published && post.PublishedAt == nil {
		at := now
		post.PublishedAt = &at
	}
}

// resolveSlug 生成并校验 slug：优先使用显式别名，否则由标题生成；
// 生成结果为空时回退到随机标识；与其它文章冲突时返回 ErrSlugTaken。
func (s *PostService) resolveSlug(raw, title string, excludeID uint) (string, error) {
	source := strings.TrimSpace(raw)
	if source == "" {
		source = title
	}

	slug := GenerateSlug(source)
	if slug == "" {
		slug = "post-" + uuid.New().String()[:8]
	}

	query := s.db.Model(&db.Post{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrSlugTaken
	}
	return slug, nil
}

// Create persists a post, resolving slug and publish state before any write.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrMissingFields
	}

	slug, err := s.resolveSlug(input.Slug, title, 0)
	if err != nil {
		return nil, err
	}

	post := db.Post{
		Title:       title,
		Content:     input.Content,
		Excerpt:     strings.TrimSpace(input.Excerpt),
		Slug:        slug,
		CoverImage:  strings.TrimSpace(input.CoverImage),
		AuthorID:    input.AuthorID,
		CategoryID:  input.CategoryID,
		SeriesID:    input.SeriesID,
		SeriesOrder: input.SeriesOrder,
	}
	applyPublishState(&post, input.Published, input.ScheduledAt, time.Now())

	return s.saveWithTags(&post, input.TagIDs)
}

// Update applies updates to an existing post. 已发布文章的 PublishedAt 保持不变。
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrMissingFields
	}

	slug, err := s.resolveSlug(input.Slug, title, existing.ID)
	if err != nil {
		return nil, err
	}

	existing.Title = title
	existing.Content = input.Content
	existing.Excerpt = strings.TrimSpace(input.Excerpt)
	existing.Slug = slug
	existing.CoverImage = strings.TrimSpace(input.CoverImage)
	existing.CategoryID = input.CategoryID
	existing.SeriesID = input.SeriesID
	existing.SeriesOrder = input.SeriesOrder
	applyPublishState(&existing, input.Published, input.ScheduledAt, time.Now())

	return s.saveWithTags(&existing, input.TagIDs)
}

// SaveDraftContent 自动保存仅更新草稿的内容与摘要，不触碰发布状态。
func (s *PostService) SaveDraftContent(id uint, content, excerpt string) error {
	result := s.db.Model(&db.Post{}).
		Where("id = ? AND published = ?", id, false).
		Updates(map[string]interface{}{
			"content": content,
			"excerpt": strings.TrimSpace(excerpt),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete removes a post along with its tag links, comments and likes.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&db.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// Get fetches a post by id with relations preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Tags").Preload("Category").Preload("Series").Preload("Author").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// List provides paginated posts based on filters.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	result := &PostListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	countQuery := s.applyFilters(s.db.Model(&db.Post{}), filter)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	orderBy := "posts.created_at desc"
	if strings.EqualFold(filter.Status, "published") {
		orderBy = "posts.published_at desc, posts.id desc"
	}

	offset := (result.Page - 1) * result.PerPage
	dataQuery := s.applyFilters(
		s.db.Model(&db.Post{}).
			Preload("Tags").
			Preload("Category").
			Preload("Series").
			Preload("Author"),
		filter,
	)

	if err := dataQuery.Order(orderBy).Limit(result.PerPage).Offset(offset).
		Find(&result.Posts).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}
	return result, nil
}

func (s *PostService) applyFilters(query *gorm.DB, filter PostFilter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where(
			"(posts.title LIKE ? OR posts.content LIKE ? OR posts.excerpt LIKE ?)",
			search, search, search,
		)
	}

	switch strings.ToLower(filter.Status) {
	case "published":
		query = query.Where("posts.published = ?", true)
	case "draft":
		query = query.Where("posts.published = ? AND posts.scheduled_at IS NULL", false)
	case "scheduled":
		query = query.Where("posts.published = ? AND posts.scheduled_at IS NOT NULL", false)
	}

	if filter.CategorySlug != "" {
		query = query.Where(
			"posts.category_id IN (?)",
			s.db.Model(&db.Category{}).Select("id").Where("slug = ?", filter.CategorySlug),
		)
	}

	if filter.SeriesSlug != "" {
		query = query.Where(
			"posts.series_id IN (?)",
			s.db.Model(&db.Series{}).Select("id").Where("slug = ?", filter.SeriesSlug),
		)
	}

	if filter.TagSlug != "" {
		subQuery := s.db.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", filter.TagSlug)
		query = query.Where("posts.id IN (?)", subQuery)
	}

	return query
}

// GetPublishedBySlug 返回前台文章详情并原子地累加浏览计数。
func (s *PostService) GetPublishedBySlug(slug string) (*PostDetail, error) {
	var post db.Post
	if err := s.db.Preload("Tags").Preload("Category").Preload("Series").Preload("Author").
		Where("slug = ? AND published = ?", slug, true).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	// 浏览计数必须用数据库端自增，避免并发读改写丢失更新。
	if err := s.db.Model(&db.Post{}).Where("id = ?", post.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		return nil, err
	}
	post.ViewCount++

	detail := &PostDetail{Post: post}

	if post.PublishedAt != nil {
		var prev, next db.Post
		if err := s.db.Select("id, title, slug").
			Where("published = ? AND published_at < ?", true, post.PublishedAt).
			Order("published_at desc, id desc").
			First(&prev).Error; err == nil {
			detail.Prev = &PostRef{ID: prev.ID, Title: prev.Title, Slug: prev.Slug}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.db.Select("id, title, slug").
			Where("published = ? AND published_at > ?", true, post.PublishedAt).
			Order("published_at asc, id asc").
			First(&next).Error; err == nil {
			detail.Next = &PostRef{ID: next.ID, Title: next.Title, Slug: next.Slug}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if post.CategoryID != nil {
		if err := s.db.Select("id, title, slug, excerpt, cover_image, published_at").
			Where("published = ? AND category_id = ? AND id <> ?", true, *post.CategoryID, post.ID).
			Order("published_at desc").
			Limit(5).
			Find(&detail.Related).Error; err != nil {
			return nil, err
		}
	}

	if post.SeriesID != nil {
		if err := s.db.Select("id, title, slug, series_order, created_at").
			Where("published = ? AND series_id = ?", true, *post.SeriesID).
			Order("series_order asc, created_at asc, id asc").
			Find(&detail.SeriesPosts).Error; err != nil {
			return nil, err
		}
	}

	return detail, nil
}

// Search 在已发布文章中做标题/正文/摘要的模糊匹配，最多返回 20 条。
func (s *PostService) Search(q string) ([]db.Post, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < 2 {
		return []db.Post{}, nil
	}

	like := "%" + q + "%"
	var posts []db.Post
	if err := s.db.Preload("Tags").Preload("Category").Preload("Author").
		Where("published = ?", true).
		Where("(title LIKE ? OR content LIKE ? OR excerpt LIKE ?)", like, like, like).
		Order("published_at desc").
		Limit(20).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// RecentPublished 返回最近发布的文章，用于 RSS 输出。
func (s *PostService) RecentPublished(limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = 20
	}
	var posts []db.Post
	if err := s.db.Preload("Author").
		Where("published = ?", true).
		Order("published_at desc, id desc").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// AllPublishedRefs 返回全部已发布文章的 slug 与更新时间，用于 Sitemap。
func (s *PostService) AllPublishedRefs() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Select("id, slug, updated_at").
		Where("published = ?", true).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// PublishDue 将所有到期的定时文章转为已发布。
// 对每篇候选文章用条件更新在写入时刻复查调度条件，扫描与写入之间被取消
// 调度或已被发布的文章不会被重复处理，因此整个扫描是幂等的。
// PublishedAt 取原定的 ScheduledAt，而非扫描时刻。
func (s *PostService) PublishDue(now time.Time) (*SweepResult, error) {
	var due []db.Post
	if err := s.db.Select("id, title, slug").
		Where("published = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", false, now).
		Find(&due).Error; err != nil {
		return nil, err
	}

	result := &SweepResult{Posts: make([]PostRef, 0, len(due))}
	for _, post := range due {
		update := s.db.Model(&db.Post{}).
			Where("id = ? AND published = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?",
				post.ID, false, now).
			Updates(map[string]interface{}{
				"published":    true,
				"published_at": gorm.Expr("scheduled_at"),
				"scheduled_at": nil,
			})
		if update.Error != nil {
			return nil, update.Error
		}
		if update.RowsAffected > 0 {
			result.Count++
			result.Posts = append(result.Posts, PostRef{ID: post.ID, Title: post.Title, Slug: post.Slug})
		}
	}
	return result, nil
}

// CountByState 返回后台面板用的文章状态统计。
func (s *PostService) CountByState() (published, draft, scheduled int64, err error) {
	if err = s.db.Model(&db.Post{}).Where("published = ?", true).Count(&published).Error; err != nil {
		return
	}
	if err = s.db.Model(&db.Post{}).
		Where("published = ? AND scheduled_at IS NULL", false).Count(&draft).Error; err != nil {
		return
	}
	err = s.db.Model(&db.Post{}).
		Where("published = ? AND scheduled_at IS NOT NULL", false).Count(&scheduled).Error
	return
}

func (s *PostService) saveWithTags(post *db.Post, tagIDs []uint) (*db.Post, error) {
	return post, s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}

		var tags []db.Tag
		if len(tagIDs) > 0 {
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if len(tags) != len(tagIDs) {
				return ErrTagNotFound
			}
		}

		if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
			return err
		}

		return tx.Preload("Tags").Preload("Category").Preload("Series").First(post, post.ID).Error
	})
}
