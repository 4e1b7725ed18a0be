package service

import (
	"errors"
	"strings"

	"github.com/vixenblog/internal/db"
	"gorm.io/gorm"
)

// ErrTagNotFound 表示标签不存在。
var ErrTagNotFound = errors.New("tag not found")

// TagService 管理文章标签。
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// TagWithCount 附带文章数量的标签视图。
type TagWithCount struct {
	db.Tag
	PostCount int64 `json:"postCount"`
}

// List returns all tags with per-tag post counts.
func (s *TagService) List() ([]TagWithCount, error) {
	var tags []db.Tag
	if err := s.db.Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}

	result := make([]TagWithCount, 0, len(tags))
	for _, tag := range tags {
		count := s.db.Model(&tag).Association("Posts").Count()
		result = append(result, TagWithCount{Tag: tag, PostCount: count})
	}
	return result, nil
}

// ListAll returns bare tags for sitemap and pickers.
func (s *TagService) ListAll() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetBySlug 返回标签本身，文章列表由 PostService 按标签过滤提供。
func (s *TagService) GetBySlug(slug string) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// Create 新建标签，slug 缺省时由名称生成。
func (s *TagService) Create(name, slug string) (*db.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	resolved, err := resolveTaxonomySlug(s.db, &db.Tag{}, slug, name, 0)
	if err != nil {
		return nil, err
	}

	tag := db.Tag{Name: name, Slug: resolved}
	if err := s.db.Create(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &tag, nil
}

// Update 更新标签名称与 slug。
func (s *TagService) Update(id uint, name, slug string) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	resolved, err := resolveTaxonomySlug(s.db, &db.Tag{}, slug, name, id)
	if err != nil {
		return nil, err
	}

	tag.Name = name
	tag.Slug = resolved
	if err := s.db.Save(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &tag, nil
}

// Delete 删除标签并清除与文章的关联。
func (s *TagService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var tag db.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTagNotFound
			}
			return err
		}
		if err := tx.Model(&tag).Association("Posts").Clear(); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
