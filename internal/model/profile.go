package model

import (
	"encoding/json"
	"time"
)

// UserProfile 对应 'user_profiles' 表，注册时采集的用户资料，引擎只读。
type UserProfile struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"type:varchar(100)" json:"name"`
	Age               int       `json:"age"`
	Country           string    `gorm:"type:varchar(10)" json:"country"`
	Interests         string    `gorm:"type:text" json:"interests"` // JSON 数组
	LookingFor        string    `gorm:"type:varchar(30)" json:"lookingFor"`
	PreferredLanguage string    `gorm:"type:varchar(8)" json:"preferredLanguage"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// InterestList 解析 Interests 字段，解析失败返回空列表。
func (p *UserProfile) InterestList() []string {
	var interests []string
	if p.Interests == "" {
		return interests
	}
	if err := json.Unmarshal([]byte(p.Interests), &interests); err != nil {
		return nil
	}
	return interests
}

// SeekingRomance 判定用户是否在寻求恋爱关系。
// lookingFor 为空或 friend 视为只交朋友。
func (p *UserProfile) SeekingRomance() bool {
	return p != nil && p.LookingFor != "" && p.LookingFor != "friend"
}

// Companion 对应 'companions' 表，伴侣人设，引擎只读。
type Companion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Age         int       `json:"age"`
	Personality string    `gorm:"type:varchar(100)" json:"personality"`
	Country     string    `gorm:"type:varchar(10)" json:"country"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Companion) TableName() string {
	return "companions"
}
