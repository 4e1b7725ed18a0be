package db

import "gorm.io/gorm"

// Tag 定义了标签模型
type Tag struct {
	gorm.Model
	Name  string `gorm:"size:100;unique;not null"`
	Slug  string `gorm:"size:200;uniqueIndex;not null"`
	Posts []Post `gorm:"many2many:post_tags;"`
}
