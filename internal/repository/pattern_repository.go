package repository

import (
	"pai-companion-go/internal/model"

	"gorm.io/gorm"
)

// PatternRepository 定义了示例语料的数据操作方法。语料只读，仅启动时批量写入种子。
type PatternRepository interface {
	FindAll() ([]model.ConversationPattern, error)
	FindByContext(context string, limit int) ([]model.ConversationPattern, error)
	FindByEmotion(emotion string, limit int) ([]model.ConversationPattern, error)
	Count() (int64, error)
	BatchCreate(patterns []*model.ConversationPattern) error
}

type patternRepository struct {
	db *gorm.DB
}

// NewPatternRepository 创建一个新的 PatternRepository 实例。
func NewPatternRepository(db *gorm.DB) PatternRepository {
	return &patternRepository{db: db}
}

// FindAll 取全部语料，供启动时构建内存索引。
func (r *patternRepository) FindAll() ([]model.ConversationPattern, error) {
	var patterns []model.ConversationPattern
	err := r.db.Find(&patterns).Error
	return patterns, err
}

// FindByContext 按上下文标签取语料，置信度倒序。
func (r *patternRepository) FindByContext(context string, limit int) ([]model.ConversationPattern, error) {
	var patterns []model.ConversationPattern
	err := r.db.
		Where("context = ?", context).
		Order("confidence_score DESC").
		Limit(limit).
		Find(&patterns).Error
	return patterns, err
}

// FindByEmotion 按情绪标签取语料，置信度倒序。
func (r *patternRepository) FindByEmotion(emotion string, limit int) ([]model.ConversationPattern, error) {
	var patterns []model.ConversationPattern
	err := r.db.
		Where("emotion = ?", emotion).
		Order("confidence_score DESC").
		Limit(limit).
		Find(&patterns).Error
	return patterns, err
}

// Count 语料总数，用于判定是否需要写入种子。
func (r *patternRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.ConversationPattern{}).Count(&count).Error
	return count, err
}

// BatchCreate 批量写入种子语料。
func (r *patternRepository) BatchCreate(patterns []*model.ConversationPattern) error {
	if len(patterns) == 0 {
		return nil
	}
	return r.db.Create(patterns).Error
}
