package repository

import (
	"errors"
	"pai-companion-go/internal/model"

	"gorm.io/gorm"
)

// EmotionRepository 定义了情绪样本日志的数据操作方法。追加式，只增不改。
type EmotionRepository interface {
	Append(sample *model.EmotionalStateSample) error
	FindLatest(userID, companionID uint) (*model.EmotionalStateSample, error)
}

type emotionRepository struct {
	db *gorm.DB
}

// NewEmotionRepository 创建一个新的 EmotionRepository 实例。
func NewEmotionRepository(db *gorm.DB) EmotionRepository {
	return &emotionRepository{db: db}
}

// Append 追加一条情绪样本。
func (r *emotionRepository) Append(sample *model.EmotionalStateSample) error {
	return r.db.Create(sample).Error
}

// FindLatest 取 (用户, 伴侣) 最近一条情绪样本，无记录返回 nil。
func (r *emotionRepository) FindLatest(userID, companionID uint) (*model.EmotionalStateSample, error) {
	var sample model.EmotionalStateSample
	err := r.db.
		Where("user_id = ? AND companion_id = ?", userID, companionID).
		Order("created_at DESC").
		First(&sample).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sample, nil
}
