package repository

import (
	"pai-companion-go/internal/model"

	"gorm.io/gorm"
)

// ModerationLogRepository 定义了审核日志的数据操作方法。追加式审计，只写不读。
type ModerationLogRepository interface {
	Append(entry *model.ModerationLogEntry) error
}

type moderationLogRepository struct {
	db *gorm.DB
}

// NewModerationLogRepository 创建一个新的 ModerationLogRepository 实例。
func NewModerationLogRepository(db *gorm.DB) ModerationLogRepository {
	return &moderationLogRepository{db: db}
}

// Append 追加一条审核日志。
func (r *moderationLogRepository) Append(entry *model.ModerationLogEntry) error {
	return r.db.Create(entry).Error
}
