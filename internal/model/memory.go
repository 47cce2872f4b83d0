package model

import "time"

// Memory 对应 'memories' 表，保存从重要对话轮提取的长期事实。
// 只停用不删除；检索命中时回写 LastAccessed。
type Memory struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index:idx_memory_owner;not null" json:"userId"`
	CompanionID      uint      `gorm:"index:idx_memory_owner;not null" json:"companionId"`
	Type             string    `gorm:"type:varchar(30);not null" json:"type"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	Importance       int       `gorm:"not null;default:5" json:"importance"`
	EmotionalContext string    `gorm:"type:varchar(50)" json:"emotionalContext"`
	Active           bool      `gorm:"not null;default:true" json:"active"`
	LastAccessed     time.Time `json:"lastAccessed"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Memory) TableName() string {
	return "memories"
}
