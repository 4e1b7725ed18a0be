package db

import (
	"time"

	"gorm.io/gorm"
)

// Post 定义了文章模型。
// 发布状态不变量：Published 为 true 时 PublishedAt 非空且 ScheduledAt 为空；
// ScheduledAt 非空且在未来时表示定时发布，此时 Published 必为 false。
type Post struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Content     string `gorm:"type:text"`
	Excerpt     string `gorm:"type:text"`
	Slug        string `gorm:"size:200;uniqueIndex;not null"`
	CoverImage  string
	Published   bool       `gorm:"index"`
	PublishedAt *time.Time `gorm:"index"`
	ScheduledAt *time.Time `gorm:"index"`
	ViewCount   int
	LikeCount   int
	AuthorID    uint
	Author      User
	CategoryID  *uint
	Category    *Category
	SeriesID    *uint
	Series      *Series
	SeriesOrder *int
	Tags        []Tag `gorm:"many2many:post_tags;"`
}
