package model

import "time"

// 主动触达类型。
const (
	EngagementCheckIn          = "check_in"
	EngagementMemoryReminder   = "memory_reminder"
	EngagementEmotionalSupport = "emotional_support"
	EngagementTopicSuggestion  = "topic_suggestion"
	EngagementSpontaneous      = "spontaneous"
)

// 主动触达状态。sent 与 ignored 是终态。
const (
	EngagementScheduled = "scheduled"
	EngagementSent      = "sent"
	EngagementIgnored   = "ignored"
)

// ProactiveEngagement 对应 'proactive_engagements' 表，由调度器创建并推进状态。
type ProactiveEngagement struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index:idx_engagement_pair;not null" json:"userId"`
	CompanionID  uint       `gorm:"index:idx_engagement_pair;not null" json:"companionId"`
	Type         string     `gorm:"type:varchar(30);not null" json:"type"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	ScheduledFor time.Time  `gorm:"index;not null" json:"scheduledFor"`
	Status       string     `gorm:"type:varchar(15);index;not null;default:'scheduled'" json:"status"`
	SentAt       *time.Time `json:"sentAt"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ProactiveEngagement) TableName() string {
	return "proactive_engagements"
}
