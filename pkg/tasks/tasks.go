// Package tasks defines the structure for tasks that are sent to Kafka.
package tasks

import "time"

// MemoryIndexTask 表示一条等待向量化并索引到 Elasticsearch 的记忆。
type MemoryIndexTask struct {
	MemoryID    uint   `json:"memory_id"`
	UserID      uint   `json:"user_id"`
	CompanionID uint   `json:"companion_id"`
	Content     string `json:"content"`
	Importance  int    `json:"importance"`
}

// EngagementNotification 是主动消息派发后发往实时通道的通知，fire-and-forget。
type EngagementNotification struct {
	EngagementID   uint      `json:"engagement_id"`
	UserID         uint      `json:"user_id"`
	CompanionID    uint      `json:"companion_id"`
	ConversationID string    `json:"conversation_id"`
	Type           string    `json:"type"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sent_at"`
}
