package db

import "gorm.io/gorm"

// Category 定义了分类模型，文章与分类为多对一关系，不支持嵌套。
type Category struct {
	gorm.Model
	Name  string `gorm:"size:100;unique;not null"`
	Slug  string `gorm:"size:200;uniqueIndex;not null"`
	Posts []Post
}
