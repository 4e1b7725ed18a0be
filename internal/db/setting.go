package db

import "gorm.io/gorm"

// Setting 存储后台可配置的站点级键值对。
// 读取统一经由 service.SettingService 转成带类型的结构体，避免散落的字符串判断。
type Setting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

const (
	// SettingKeySiteName 表示站点名称。
	SettingKeySiteName = "site_name"
	// SettingKeySiteDescription 表示站点描述。
	SettingKeySiteDescription = "site_description"
	// SettingKeyPostsPerPage 表示前台每页文章数。
	SettingKeyPostsPerPage = "posts_per_page"
	// SettingKeyEnableComments 控制是否开放评论。
	SettingKeyEnableComments = "enable_comments"
	// SettingKeyEnableRSS 控制是否输出 RSS。
	SettingKeyEnableRSS = "enable_rss"
	// SettingKeyEnableSitemap 控制是否输出 Sitemap。
	SettingKeyEnableSitemap = "enable_sitemap"
	// SettingKeyAdminNotifyEmail 表示接收新评论通知的管理员邮箱。
	SettingKeyAdminNotifyEmail = "admin_notify_email"
)
