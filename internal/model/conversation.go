package model

import "time"

// ChatMessage 代表存储在 Redis 中的单条对话消息。
type ChatMessage struct {
	Role      string    `json:"role"` // "user" 或 "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CommunicationStyle 是按用户学习到的沟通风格，序列化后缓存在 Redis。
// 每轮以小学习率向观测值滑动，样本越多学习率越低。
type CommunicationStyle struct {
	PreferredLength     string  `json:"preferred_length"` // short / medium / long
	EmojiUsage          string  `json:"emoji_usage"`      // none / light / heavy
	FormalityLevel      string  `json:"formality_level"`  // very_casual / casual / formal
	HumorLevel          float64 `json:"humor_level"`
	EmotionalExpression float64 `json:"emotional_expression"`
	SampleCount         int     `json:"sample_count"`

	// 类别档位的连续位置，滑动在这里累积，类别只是四舍五入后的展示值。
	LengthScore    float64 `json:"length_score"`
	EmojiScore     float64 `json:"emoji_score"`
	FormalityScore float64 `json:"formality_score"`
}

// DefaultCommunicationStyle 无历史样本时的初始风格。
func DefaultCommunicationStyle() CommunicationStyle {
	return CommunicationStyle{
		PreferredLength:     "medium",
		EmojiUsage:          "light",
		FormalityLevel:      "casual",
		HumorLevel:          0.5,
		EmotionalExpression: 0.5,
		LengthScore:         1,
		EmojiScore:          1,
		FormalityScore:      1,
	}
}

// ExtractedMemory 是生成服务结构化抽取的一条候选记忆。
type ExtractedMemory struct {
	Type             string `json:"type"`
	Content          string `json:"content"`
	Importance       int    `json:"importance"`
	EmotionalContext string `json:"emotional_context"`
}
