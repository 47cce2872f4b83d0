package repository

import (
	"pai-companion-go/internal/model"

	"gorm.io/gorm"
)

// TopicRepository 定义了会话话题轨迹的数据操作方法。
type TopicRepository interface {
	Create(topic *model.ConversationTopic) error
	// FindRecent 返回会话最近的话题记录，最新的在前。
	FindRecent(conversationID string, limit int) ([]model.ConversationTopic, error)
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository 创建一个新的 TopicRepository 实例。
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

// Create 插入一条话题记录。
func (r *topicRepository) Create(topic *model.ConversationTopic) error {
	return r.db.Create(topic).Error
}

// FindRecent 按时间倒序取最近话题。
func (r *topicRepository) FindRecent(conversationID string, limit int) ([]model.ConversationTopic, error) {
	var topics []model.ConversationTopic
	err := r.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&topics).Error
	return topics, err
}
