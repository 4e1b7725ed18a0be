package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vixenblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrNameRequired     = errors.New("name is required")
	ErrNameTaken        = errors.New("name already in use")
)

// CategoryService 管理文章分类。
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// CategoryWithCount 附带文章数量的分类视图。
type CategoryWithCount struct {
	db.Category
	PostCount int64 `json:"postCount"`
}

// List returns all categories with per-category post counts.
func (s *CategoryService) List() ([]CategoryWithCount, error) {
	var categories []db.Category
	if err := s.db.Order("created_at desc").Find(&categories).Error; err != nil {
		return nil, err
	}

	result := make([]CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		var count int64
		if err := s.db.Model(&db.Post{}).
			Where("category_id = ?", category.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		result = append(result, CategoryWithCount{Category: category, PostCount: count})
	}
	return result, nil
}

// ListAll returns bare categories for sitemap and pickers.
func (s *CategoryService) ListAll() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetBySlug 返回分类本身，文章列表由 PostService 按分类过滤提供。
func (s *CategoryService) GetBySlug(slug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create 新建分类，slug 缺省时由名称生成。
func (s *CategoryService) Create(name, slug string) (*db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	resolved, err := resolveTaxonomySlug(s.db, &db.Category{}, slug, name, 0)
	if err != nil {
		return nil, err
	}

	category := db.Category{Name: name, Slug: resolved}
	if err := s.db.Create(&category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &category, nil
}

// Update 更新分类名称与 slug。
func (s *CategoryService) Update(id uint, name, slug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	resolved, err := resolveTaxonomySlug(s.db, &db.Category{}, slug, name, id)
	if err != nil {
		return nil, err
	}

	category.Name = name
	category.Slug = resolved
	if err := s.db.Save(&category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &category, nil
}

// Delete 删除分类，分类下的文章改为无分类。
func (s *CategoryService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category db.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		if err := tx.Model(&db.Post{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

// resolveTaxonomySlug 为分类/标签/系列解析唯一 slug：
// 显式别名优先，否则由名称生成；生成为空时回退随机标识；同实体内冲突返回 ErrSlugTaken。
func resolveTaxonomySlug(gdb *gorm.DB, model interface{}, raw, name string, excludeID uint) (string, error) {
	source := strings.TrimSpace(raw)
	if source == "" {
		source = name
	}

	slug := GenerateSlug(source)
	if slug == "" {
		slug = uuid.New().String()[:8]
	}

	query := gdb.Model(model).Where("slug = ?", slug)
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
