package service

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/vixenblog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiteSettings 描述站点级配置。底层仍是键值表，但读取统一经过本结构，
// 解析只发生在这一处，写入时使缓存失效。
type SiteSettings struct {
	SiteName         string `json:"siteName"`
	SiteDescription  string `json:"siteDescription"`
	PostsPerPage     int    `json:"postsPerPage"`
	EnableComments   bool   `json:"enableComments"`
	EnableRSS        bool   `json:"enableRss"`
	EnableSitemap    bool   `json:"enableSitemap"`
	AdminNotifyEmail string `json:"adminNotifyEmail"`
}

// SiteSettingsInput 用于更新站点设置。
type SiteSettingsInput struct {
	SiteName         string
	SiteDescription  string
	PostsPerPage     int
	EnableComments   bool
	EnableRSS        bool
	EnableSitemap    bool
	AdminNotifyEmail string
}

func defaultSiteSettings() SiteSettings {
	return SiteSettings{
		SiteName:       "Vixen Blog",
		PostsPerPage:   10,
		EnableComments: true,
		EnableRSS:      true,
		EnableSitemap:  true,
	}
}

// SettingService 提供站点设置的读取与更新能力。
type SettingService struct {
	db *gorm.DB

	mu     sync.RWMutex
	cached *SiteSettings
}

// NewSettingService 构造 SettingService。
func NewSettingService(gdb *gorm.DB) *SettingService {
	return &SettingService{db: gdb}
}

var settingKeys = []string{
	db.SettingKeySiteName,
	db.SettingKeySiteDescription,
	db.SettingKeyPostsPerPage,
	db.SettingKeyEnableComments,
	db.SettingKeyEnableRSS,
	db.SettingKeyEnableSitemap,
	db.SettingKeyAdminNotifyEmail,
}

// Get 读取站点设置，未设置的键回落默认值。结果按实例缓存，写入时失效。
func (s *SettingService) Get() (SiteSettings, error) {
	s.mu.RLock()
	if s.cached != nil {
		cached := *s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	result := defaultSiteSettings()

	var records []db.Setting
	if err := s.db.Where("key IN ?", settingKeys).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load site settings: %w", err)
	}

	for _, record := range records {
		value := strings.TrimSpace(record.Value)
		switch record.Key {
		case db.SettingKeySiteName:
			if value != "" {
				result.SiteName = value
			}
		case db.SettingKeySiteDescription:
			result.SiteDescription = value
		case db.SettingKeyPostsPerPage:
			if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
				result.PostsPerPage = parsed
			}
		case db.SettingKeyEnableComments:
			if parsed, err := strconv.ParseBool(value); err == nil {
				result.EnableComments = parsed
			}
		case db.SettingKeyEnableRSS:
			if parsed, err := strconv.ParseBool(value); err == nil {
				result.EnableRSS = parsed
			}
		case db.SettingKeyEnableSitemap:
			if parsed, err := strconv.ParseBool(value); err == nil {
				result.EnableSitemap = parsed
			}
		case db.SettingKeyAdminNotifyEmail:
			result.AdminNotifyEmail = value
		}
	}

	s.mu.Lock()
	s.cached = &result
	s.mu.Unlock()
	return result, nil
}

// Update 保存站点设置并使缓存失效。
func (s *SettingService) Update(input SiteSettingsInput) (SiteSettings, error) {
	sanitized := SiteSettings{
		SiteName:         strings.TrimSpace(input.SiteName),
		SiteDescription:  strings.TrimSpace(input.SiteDescription),
		PostsPerPage:     input.PostsPerPage,
		EnableComments:   input.EnableComments,
		EnableRSS:        input.EnableRSS,
		EnableSitemap:    input.EnableSitemap,
		AdminNotifyEmail: strings.TrimSpace(input.AdminNotifyEmail),
	}
	if sanitized.SiteName == "" {
		sanitized.SiteName = defaultSiteSettings().SiteName
	}
	if sanitized.PostsPerPage <= 0 {
		sanitized.PostsPerPage = defaultSiteSettings().PostsPerPage
	}

	values := map[string]string{
		db.SettingKeySiteName:         sanitized.SiteName,
		db.SettingKeySiteDescription:  sanitized.SiteDescription,
		db.SettingKeyPostsPerPage:     strconv.Itoa(sanitized.PostsPerPage),
		db.SettingKeyEnableComments:   strconv.FormatBool(sanitized.EnableComments),
		db.SettingKeyEnableRSS:        strconv.FormatBool(sanitized.EnableRSS),
		db.SettingKeyEnableSitemap:    strconv.FormatBool(sanitized.EnableSitemap),
		db.SettingKeyAdminNotifyEmail: sanitized.AdminNotifyEmail,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			record := db.Setting{Key: key, Value: value}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return sanitized, fmt.Errorf("save site settings: %w", err)
	}

	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	return sanitized, nil
}
