package db

import "gorm.io/gorm"

// Comment 定义了评论模型。回复通过 ParentID 自引用，仅支持一层嵌套：
// 顶层评论持有回复，回复不再有子回复。
type Comment struct {
	gorm.Model
	Author   string `gorm:"size:100;not null"`
	Email    string `gorm:"size:200;not null"`
	Website  string
	Content  string `gorm:"type:text;not null"`
	Approved bool   `gorm:"index;default:false"`
	PostID   uint   `gorm:"index;not null"`
	Post     Post
	ParentID *uint `gorm:"index"`
	Replies  []Comment `gorm:"foreignKey:ParentID"`
}
