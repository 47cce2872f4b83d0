package repository

import (
	"pai-companion-go/internal/model"
	"strings"
	"time"

	"gorm.io/gorm"
)

// MemoryRepository 定义了长期记忆的数据操作方法。
type MemoryRepository interface {
	Create(memory *model.Memory) error
	// RankedSearch 按 SQL 相关性排序检索：重要度 + 前缀包含加 2 分 + 首词包含加 1 分。
	RankedSearch(userID, companionID uint, query string, limit int) ([]model.Memory, error)
	FindByIDs(ids []uint) ([]model.Memory, error)
	FindTopByImportance(userID, companionID uint, limit int) ([]model.Memory, error)
	BumpLastAccessed(ids []uint) error
	Deactivate(id uint) error
}

type memoryRepository struct {
	db *gorm.DB
}

// NewMemoryRepository 创建一个新的 MemoryRepository 实例。
func NewMemoryRepository(db *gorm.DB) MemoryRepository {
	return &memoryRepository{db: db}
}

// Create 插入一条新的记忆。
func (r *memoryRepository) Create(memory *model.Memory) error {
	if memory.LastAccessed.IsZero() {
		memory.LastAccessed = time.Now()
	}
	return r.db.Create(memory).Error
}

// RankedSearch 用 CASE 表达式计算相关性得分，平局按最近访问与创建时间倒序。
func (r *memoryRepository) RankedSearch(userID, companionID uint, query string, limit int) ([]model.Memory, error) {
	prefix := query
	if len(prefix) > 20 {
		prefix = prefix[:20]
	}
	words := strings.Fields(query)
	if len(words) > 3 {
		words = words[:3]
	}
	leading := strings.Join(words, " ")

	var memories []model.Memory
	err := r.db.
		Select("*, CASE WHEN content LIKE ? THEN importance + 2 WHEN content LIKE ? THEN importance + 1 ELSE importance END AS relevance",
			"%"+prefix+"%", "%"+leading+"%").
		Where("user_id = ? AND companion_id = ? AND active = ?", userID, companionID, true).
		Order("relevance DESC, last_accessed DESC, created_at DESC").
		Limit(limit).
		Find(&memories).Error
	return memories, err
}

// FindByIDs 按 ID 列表取记忆，只取激活的。
func (r *memoryRepository) FindByIDs(ids []uint) ([]model.Memory, error) {
	var memories []model.Memory
	if len(ids) == 0 {
		return memories, nil
	}
	err := r.db.Where("id IN ? AND active = ?", ids, true).Find(&memories).Error
	return memories, err
}

// FindTopByImportance 按重要度取前 N 条，供主动消息的提示词使用。
func (r *memoryRepository) FindTopByImportance(userID, companionID uint, limit int) ([]model.Memory, error) {
	var memories []model.Memory
	err := r.db.
		Where("user_id = ? AND companion_id = ? AND active = ?", userID, companionID, true).
		Order("importance DESC, created_at DESC").
		Limit(limit).
		Find(&memories).Error
	return memories, err
}

// BumpLastAccessed 检索命中后回写访问时间。
func (r *memoryRepository) BumpLastAccessed(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&model.Memory{}).
		Where("id IN ?", ids).
		Update("last_accessed", time.Now()).Error
}

// Deactivate 停用一条记忆。记忆从不物理删除。
func (r *memoryRepository) Deactivate(id uint) error {
	return r.db.Model(&model.Memory{}).
		Where("id = ?", id).
		Update("active", false).Error
}
