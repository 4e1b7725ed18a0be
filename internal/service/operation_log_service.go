package service

import (
	"log"

	"github.com/vixenblog/internal/db"
	"gorm.io/gorm"
)

// OperationLogService 记录后台管理操作，写入失败只记日志，绝不影响主操作。
type OperationLogService struct {
	db *gorm.DB
}

// NewOperationLogService creates an OperationLogService instance.
func NewOperationLogService(gdb *gorm.DB) *OperationLogService {
	return &OperationLogService{db: gdb}
}

// OperationEntry 描述一次后台操作。
type OperationEntry struct {
	UserID    uint
	UserName  string
	Action    string
	Module    string
	Target    string
	TargetID  uint
	IP        string
	UserAgent string
}

// Record 尽力而为地写入一条操作记录。
func (s *OperationLogService) Record(entry OperationEntry) {
	record := db.OperationLog{
		UserID:    entry.UserID,
		UserName:  entry.UserName,
		Action:    entry.Action,
		Module:    entry.Module,
		Target:    entry.Target,
		TargetID:  entry.TargetID,
		IP:        entry.IP,
		UserAgent: entry.UserAgent,
	}
	if err := s.db.Create(&record).Error; err != nil {
		log.Printf("record operation log: %v", err)
	}
}

// List 返回最近的操作记录。
func (s *OperationLogService) List(page, perPage int) ([]db.OperationLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}

	var total int64
	if err := s.db.Model(&db.OperationLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []db.OperationLog
	if err := s.db.Order("created_at desc").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
