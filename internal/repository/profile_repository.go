package repository

import (
	"errors"
	"pai-companion-go/internal/model"

	"gorm.io/gorm"
)

// ProfileRepository 定义了用户画像与伴侣人设的只读访问方法。
type ProfileRepository interface {
	FindUserProfile(userID uint) (*model.UserProfile, error)
	FindCompanion(companionID uint) (*model.Companion, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建一个新的 ProfileRepository 实例。
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindUserProfile 取用户画像，无记录返回 nil（画像缺失不阻断轮次）。
func (r *profileRepository) FindUserProfile(userID uint) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.Where("id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindCompanion 取伴侣人设。
func (r *profileRepository) FindCompanion(companionID uint) (*model.Companion, error) {
	var companion model.Companion
	err := r.db.Where("id = ?", companionID).First(&companion).Error
	if err != nil {
		return nil, err
	}
	return &companion, nil
}
