package repository

import (
	"pai-companion-go/internal/model"
	"time"

	"gorm.io/gorm"
)

// EngagementRepository 定义了主动触达记录的数据操作方法。
type EngagementRepository interface {
	Create(engagement *model.ProactiveEngagement) error
	// HasPending 判断 (用户, 伴侣) 是否已有待处理的触达：
	// 状态为 scheduled，或已 sent 但计划时间还在未来。
	HasPending(userID, companionID uint, now time.Time) (bool, error)
	// FindDue 返回到期待派发的 scheduled 行，按计划时间升序，限量。
	FindDue(now time.Time, limit int) ([]model.ProactiveEngagement, error)
	MarkSent(id uint, sentAt time.Time) error
	MarkIgnored(id uint) error
	CountCreatedSince(userID, companionID uint, since time.Time) (int64, error)
	FindByPair(userID, companionID uint, limit int) ([]model.ProactiveEngagement, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository 创建一个新的 EngagementRepository 实例。
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// Create 插入一条触达记录。
func (r *engagementRepository) Create(engagement *model.ProactiveEngagement) error {
	return r.db.Create(engagement).Error
}

// HasPending 判断该对是否已有未消化的触达，避免重复排期。
func (r *engagementRepository) HasPending(userID, companionID uint, now time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.ProactiveEngagement{}).
		Where("user_id = ? AND companion_id = ?", userID, companionID).
		Where("status = ? OR (status = ? AND scheduled_for > ?)", model.EngagementScheduled, model.EngagementSent, now).
		Count(&count).Error
	return count > 0, err
}

// FindDue 取到期的 scheduled 行。
func (r *engagementRepository) FindDue(now time.Time, limit int) ([]model.ProactiveEngagement, error) {
	var engagements []model.ProactiveEngagement
	err := r.db.
		Where("status = ? AND scheduled_for <= ?", model.EngagementScheduled, now).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&engagements).Error
	return engagements, err
}

// MarkSent 置为已发送终态。
func (r *engagementRepository) MarkSent(id uint, sentAt time.Time) error {
	return r.db.Model(&model.ProactiveEngagement{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": model.EngagementSent, "sent_at": sentAt}).Error
}

// MarkIgnored 置为忽略终态。派发失败不重试。
func (r *engagementRepository) MarkIgnored(id uint) error {
	return r.db.Model(&model.ProactiveEngagement{}).
		Where("id = ?", id).
		Update("status", model.EngagementIgnored).Error
}

// CountCreatedSince 统计某对从 since 起创建的触达数，用于日配额。
func (r *engagementRepository) CountCreatedSince(userID, companionID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.ProactiveEngagement{}).
		Where("user_id = ? AND companion_id = ? AND created_at >= ?", userID, companionID, since).
		Count(&count).Error
	return count, err
}

// FindByPair 按创建时间倒序取某对的触达记录。
func (r *engagementRepository) FindByPair(userID, companionID uint, limit int) ([]model.ProactiveEngagement, error) {
	var engagements []model.ProactiveEngagement
	err := r.db.
		Where("user_id = ? AND companion_id = ?", userID, companionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&engagements).Error
	return engagements, err
}
