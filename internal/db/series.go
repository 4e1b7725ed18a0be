package db

import "gorm.io/gorm"

// Series 定义了系列模型，系列内文章按 SeriesOrder 排序。
type Series struct {
	gorm.Model
	Name        string `gorm:"size:100;unique;not null"`
	Slug        string `gorm:"size:200;uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	CoverImage  string
	Posts       []Post
}
