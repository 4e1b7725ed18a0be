package db

import "gorm.io/gorm"

// OperationLog 记录后台管理操作，写入失败不影响主操作。
type OperationLog struct {
	gorm.Model
	UserID    uint
	UserName  string `gorm:"size:100"`
	Action    string `gorm:"size:50;index"`
	Module    string `gorm:"size:50;index"`
	Target    string `gorm:"size:200"`
	TargetID  uint
	IP        string `gorm:"size:64"`
	UserAgent string `gorm:"size:300"`
}
