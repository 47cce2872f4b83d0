package model

import "time"

// EmotionalStateSample 对应 'emotional_state_samples' 表，每轮追加一条，只增不改。
type EmotionalStateSample struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index:idx_emotion_owner;not null" json:"userId"`
	CompanionID uint      `gorm:"index:idx_emotion_owner;not null" json:"companionId"`
	State       string    `gorm:"type:varchar(20);not null" json:"state"`
	Intensity   int       `gorm:"not null" json:"intensity"`
	Tone        string    `gorm:"type:varchar(20)" json:"tone"`
	SourceText  string    `gorm:"type:text" json:"sourceText"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (EmotionalStateSample) TableName() string {
	return "emotional_state_samples"
}

// EmotionResult 是单轮情绪检测的运行期结果，不落库的部分（emoji 建议）也在这里。
type EmotionResult struct {
	State            string   `json:"state"`
	Intensity        int      `json:"intensity"`
	Context          string   `json:"context"`
	SuggestedTone    string   `json:"suggested_response_tone"`
	EmojiSuggestions []string `json:"emoji_suggestions"`
}

// DefaultEmotion 检测失败时的固定回退值。
func DefaultEmotion() EmotionResult {
	return EmotionResult{
		State:            "calm",
		Intensity:        5,
		Context:          "general conversation",
		SuggestedTone:    "warm",
		EmojiSuggestions: []string{"😊"},
	}
}
