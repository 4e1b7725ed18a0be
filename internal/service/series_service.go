package service

import (
	"errors"
	"strings"

	"github.com/vixenblog/internal/db"
	"gorm.io/gorm"
)

// ErrSeriesNotFound 表示系列不存在。
var ErrSeriesNotFound = errors.New("series not found")

// SeriesService 管理文章系列。
type SeriesService struct {
	db *gorm.DB
}

// NewSeriesService creates a SeriesService instance.
func NewSeriesService(gdb *gorm.DB) *SeriesService {
	return &SeriesService{db: gdb}
}

// SeriesWithCount 附带文章数量的系列视图。
type SeriesWithCount struct {
	db.Series
	PostCount int64 `json:"postCount"`
}

// SeriesDetail 是前台系列页数据：系列信息与按序排列的已发布文章。
type SeriesDetail struct {
	Series db.Series
	Posts  []db.Post
}

// SeriesInput 是创建/更新系列的字段。
type SeriesInput struct {
	Name        string
	Slug        string
	Description string
	CoverImage  string
}

// List returns all series with per-series post counts, newest first.
func (s *SeriesService) List() ([]SeriesWithCount, error) {
	var series []db.Series
	if err := s.db.Order("created_at desc").Find(&series).Error; err != nil {
		return nil, err
	}

	result := make([]SeriesWithCount, 0, len(series))
	for _, item := range series {
		var count int64
		if err := s.db.Model(&db.Post{}).
			Where("series_id = ?", item.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		result = append(result, SeriesWithCount{Series: item, PostCount: count})
	}
	return result, nil
}

// GetBySlug 返回系列及其已发布文章。
// 系列内排序以 SeriesOrder 为主，创建时间与 ID 作为稳定的次级顺序。
func (s *SeriesService) GetBySlug(slug string) (*SeriesDetail, error) {
	var series db.Series
	if err := s.db.Where("slug = ?", slug).First(&series).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}

	var posts []db.Post
	if err := s.db.Select("id, title, slug, excerpt, cover_image, published_at, series_order, created_at").
		Where("series_id = ? AND published = ?", series.ID, true).
		Order("series_order asc, created_at asc, id asc").
		Find(&posts).Error; err != nil {
		return nil, err
	}

	return &SeriesDetail{Series: series, Posts: posts}, nil
}

// Create 新建系列，slug 缺省时由名称生成。
func (s *SeriesService) Create(input SeriesInput) (*db.Series, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	resolved, err := resolveTaxonomySlug(s.db, &db.Series{}, input.Slug, name, 0)
	if err != nil {
		return nil, err
	}

	series := db.Series{
		Name:        name,
		Slug:        resolved,
		Description: strings.TrimSpace(input.Description),
		CoverImage:  strings.TrimSpace(input.CoverImage),
	}
	if err := s.db.Create(&series).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &series, nil
}

// Update 更新系列信息。
func (s *SeriesService) Update(id uint, input SeriesInput) (*db.Series, error) {
	var series db.Series
	if err := s.db.First(&series, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	resolved, err := resolveTaxonomySlug(s.db, &db.Series{}, input.Slug, name, id)
	if err != nil {
		return nil, err
	}

	series.Name = name
	series.Slug = resolved
	series.Description = strings.TrimSpace(input.Description)
	series.CoverImage = strings.TrimSpace(input.CoverImage)
	if err := s.db.Save(&series).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &series, nil
}

// Delete 删除系列，先把系列下文章摘出系列再删除本体。
func (s *SeriesService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var series db.Series
		if err := tx.First(&series, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSeriesNotFound
			}
			return err
		}
		if err := tx.Model(&db.Post{}).Where("series_id = ?", id).
			Updates(map[string]interface{}{"series_id": nil, "series_order": nil}).
			Error; err != nil {
			return err
		}
		return tx.Delete(&series).Error
	})
}
