package service

import (
	"context"
	"strings"

	"pai-companion-go/internal/model"
	"pai-companion-go/internal/repository"
	"pai-companion-go/internal/rules"
	"pai-companion-go/pkg/log"
)

// StyleService 定义了按用户学习沟通风格的接口。
// 风格以小学习率向每轮观测值滑动，样本越多学习率越低，
// 单条异常消息不会让风格突变。
type StyleService interface {
	// Current 返回用户当前的沟通风格，无记录返回默认风格。
	Current(ctx context.Context, userID uint) model.CommunicationStyle
	// Learn 用一条用户消息更新风格并持久化。保存失败只记日志。
	Learn(ctx context.Context, userID uint, message string) model.CommunicationStyle
}

type styleService struct {
	conversationRepo repository.ConversationRepository
}

// NewStyleService 创建一个新的 StyleService 实例。
func NewStyleService(conversationRepo repository.ConversationRepository) StyleService {
	return &styleService{conversationRepo: conversationRepo}
}

// Current 读取缓存的风格。
func (s *styleService) Current(ctx context.Context, userID uint) model.CommunicationStyle {
	style, err := s.conversationRepo.GetCommunicationStyle(ctx, userID)
	if err != nil {
		log.Warnf("读取沟通风格失败，使用默认风格: userID=%d, err=%v", userID, err)
		return model.DefaultCommunicationStyle()
	}
	return style
}

// Learn 观测 → 滑动 → 持久化。
// 学习率分三档：样本 <10 为 0.2，<50 为 0.1，其余 0.05。
func (s *styleService) Learn(ctx context.Context, userID uint, message string) model.CommunicationStyle {
	style := s.Current(ctx, userID)
	rate := learningRate(style.SampleCount)

	obs := observeStyle(message)

	style.LengthScore = slide(style.LengthScore, float64(scaleIndex(obs.PreferredLength, lengthScale)), rate)
	style.EmojiScore = slide(style.EmojiScore, float64(scaleIndex(obs.EmojiUsage, emojiScale)), rate)
	style.FormalityScore = slide(style.FormalityScore, float64(scaleIndex(obs.FormalityLevel, formalityScale)), rate)
	style.PreferredLength = scaleCategory(style.LengthScore, lengthScale)
	style.EmojiUsage = scaleCategory(style.EmojiScore, emojiScale)
	style.FormalityLevel = scaleCategory(style.FormalityScore, formalityScale)
	style.HumorLevel = slide(style.HumorLevel, obs.HumorLevel, rate)
	style.EmotionalExpression = slide(style.EmotionalExpression, obs.EmotionalExpression, rate)
	style.SampleCount++

	if err := s.conversationRepo.SaveCommunicationStyle(ctx, userID, style); err != nil {
		log.Errorf("保存沟通风格失败: userID=%d, err=%v", userID, err)
	}
	return style
}

func learningRate(sampleCount int) float64 {
	switch {
	case sampleCount < 10:
		return 0.2
	case sampleCount < 50:
		return 0.1
	default:
		return 0.05
	}
}

// observeStyle 从单条消息提取风格观测值。
func observeStyle(message string) model.CommunicationStyle {
	lowered := strings.ToLower(message)

	length := "medium"
	if len(message) < 20 {
		length = "short"
	} else if len(message) > 100 {
		length = "long"
	}

	emojiCount := len(rules.EmojiPattern.FindAllString(message, -1))
	emoji := "none"
	if emojiCount >= 3 {
		emoji = "heavy"
	} else if emojiCount > 0 {
		emoji = "light"
	}

	formalHits := countHits(lowered, rules.FormalWords)
	casualHits := countHits(lowered, rules.CasualWords) + countHits(lowered, rules.SlangWords)
	formality := "casual"
	if formalHits > casualHits {
		formality = "formal"
	} else if casualHits >= 2 {
		formality = "very_casual"
	}

	humor := 0.0
	for _, marker := range []string{"haha", "lol", "lmao", "😂", "🤣"} {
		if strings.Contains(lowered, marker) {
			humor = 1.0
			break
		}
	}

	expression := 0.0
	if strings.Contains(message, "!") {
		expression += 0.5
	}
	if emojiCount > 0 {
		expression += 0.5
	}

	return model.CommunicationStyle{
		PreferredLength:     length,
		EmojiUsage:          emoji,
		FormalityLevel:      formality,
		HumorLevel:          humor,
		EmotionalExpression: expression,
	}
}

func countHits(lowered string, words []string) int {
	hits := 0
	for _, w := range words {
		if strings.Contains(lowered, w) {
			hits++
		}
	}
	return hits
}

func slide(current, observed, rate float64) float64 {
	return current + (observed-current)*rate
}

// 类别档位的数值映射，滑动在数值空间进行后再映射回类别。
var (
	lengthScale    = []string{"short", "medium", "long"}
	emojiScale     = []string{"none", "light", "heavy"}
	formalityScale = []string{"very_casual", "casual", "formal"}
)

// scaleCategory 把连续档位位置四舍五入成类别，
// 低学习率下要多次一致的观测才会越过档位中点。
func scaleCategory(score float64, scale []string) string {
	idx := int(score + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(scale) {
		idx = len(scale) - 1
	}
	return scale[idx]
}

func scaleIndex(value string, scale []string) int {
	for i, v := range scale {
		if v == value {
			return i
		}
	}
	return len(scale) / 2
}
