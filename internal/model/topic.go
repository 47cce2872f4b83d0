package model

import "time"

// 话题过渡类型。
const (
	TransitionContinuation = "continuation"
	TransitionSwitch       = "switch"
	TransitionReturn       = "return"
)

// ConversationTopic 对应 'conversation_topics' 表，按会话记录话题轨迹，最近的在前。
type ConversationTopic struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"type:varchar(64);index;not null" json:"conversationId"`
	Label          string    `gorm:"type:varchar(50);not null" json:"label"`
	Confidence     float64   `gorm:"not null" json:"confidence"`
	TransitionType string    `gorm:"type:varchar(20);not null" json:"transitionType"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ConversationTopic) TableName() string {
	return "conversation_topics"
}

// TopicAnalysis 是单轮话题分析的运行期结果。
type TopicAnalysis struct {
	Topic            string
	Confidence       float64
	IsNewTopic       bool
	TransitionType   string
	Depth            string // shallow / medium / deep
	InterestMatch    bool
	Priority         string
	EngagementLevel  string
	TransitionPhrase string
}
