// Package model 包含了应用的数据模型定义。
package model

import "time"

// 关系阶段枚举，按亲密程度从低到高排序。
const (
	StageStranger     = "stranger"
	StageAcquaintance = "acquaintance"
	StageFriend       = "friend"
	StageCloseFriend  = "close_friend"
	StageRomantic     = "romantic"
	StageIntimate     = "intimate"
)

// stageRanks 阶段 → 序号，用于比较阶段高低。
var stageRanks = map[string]int{
	StageStranger:     0,
	StageAcquaintance: 1,
	StageFriend:       2,
	StageCloseFriend:  3,
	StageRomantic:     4,
	StageIntimate:     5,
}

// StageRank 返回阶段的序号，未知阶段按 stranger 处理。
func StageRank(stage string) int {
	return stageRanks[stage]
}

// RelationshipState 对应 'relationship_states' 表，每个 (用户, 伴侣) 一行。
// intimacy/trust 在 [0,10] 内单调不减，stage 是二者的纯函数。
type RelationshipState struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"uniqueIndex:idx_user_companion;not null" json:"userId"`
	CompanionID       uint      `gorm:"uniqueIndex:idx_user_companion;not null" json:"companionId"`
	Stage             string    `gorm:"type:varchar(20);not null;default:'stranger'" json:"stage"`
	Intimacy          float64   `gorm:"not null;default:0" json:"intimacy"`
	Trust             float64   `gorm:"not null;default:0" json:"trust"`
	ConversationCount int       `gorm:"not null;default:0" json:"conversationCount"`
	LastInteraction   time.Time `json:"lastInteraction"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (RelationshipState) TableName() string {
	return "relationship_states"
}
