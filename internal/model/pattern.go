package model

import "time"

// ConversationPattern 对应 'conversation_patterns' 表，示例语料 (输入, 回复) 对。
// 只读语料，仅用于回复语气校准，从不原样展示给用户。
type ConversationPattern struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserMessage     string    `gorm:"type:varchar(500);index:idx_pattern_message,length:100;not null" json:"userMessage"`
	AIResponse      string    `gorm:"type:text;not null" json:"aiResponse"`
	Context         string    `gorm:"type:varchar(50);index" json:"context"`
	Emotion         string    `gorm:"type:varchar(30);index" json:"emotion"`
	DatasetSource   string    `gorm:"type:varchar(50)" json:"datasetSource"`
	ConfidenceScore float64   `gorm:"not null;default:0.8" json:"confidenceScore"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ConversationPattern) TableName() string {
	return "conversation_patterns"
}
