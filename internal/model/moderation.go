package model

import "time"

// ModerationLogEntry 对应 'moderation_log' 表，审核结果的追加式审计记录。
type ModerationLogEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"userId"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Category  string    `gorm:"type:varchar(20);not null" json:"category"`
	Severity  string    `gorm:"type:varchar(10);not null" json:"severity"`
	Strategy  string    `gorm:"type:varchar(30);not null" json:"strategy"`
	Flags     string    `gorm:"type:varchar(255)" json:"flags"`
	Language  string    `gorm:"type:varchar(8)" json:"language"`
	Direction string    `gorm:"type:varchar(10);not null;default:'input'" json:"direction"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ModerationLogEntry) TableName() string {
	return "moderation_log"
}

// ModerationAssessment 是一次审核判定的运行期结果。
// 对相同 (消息, 阶段, 画像) 输入恒定，便于复核。
type ModerationAssessment struct {
	Category          string   `json:"category"`
	Severity          string   `json:"severity"`
	Strategy          string   `json:"strategy"`
	Flags             []string `json:"flags"`
	Language          string   `json:"language"`
	SuggestedResponse string   `json:"suggestedResponse,omitempty"`
}

// ShortCircuits 判定该结果是否需要短路整个回复流程。
// 只有 self_harm 与 hate_speech 两类直接用模板回复，其余分类只影响语气。
func (a ModerationAssessment) ShortCircuits() bool {
	return a.Category == "self_harm" || a.Category == "hate_speech"
}
