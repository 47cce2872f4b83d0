// Package service 包含了应用的业务逻辑层。
package service

import (
	"strings"

	"pai-companion-go/internal/rules"
)

// LanguageService 定义了语言检测与多语言模板的接口。
// 检测是纯函数：同样的输入永远得到同样的语言码。
type LanguageService interface {
	// Detect 返回消息的语言码。英语是默认语言，
	// 其他语言得分需要超过英语得分且高于切换门槛才会被采纳。
	Detect(message string) string
	// Template 按语言与策略取固定回复模板。
	Template(language, strategy string) string
	// EmojiPreference 返回该语言用户的 emoji 使用习惯。
	EmojiPreference(language string) rules.EmojiPreference
}

type languageService struct{}

// NewLanguageService 创建一个新的 LanguageService 实例。
func NewLanguageService() LanguageService {
	return &languageService{}
}

// Detect 基于词表打分检测语言。
// 强英语词每命中一个 +5；其他语言的特征短语 +10、常见词每次 +1，
// 部分语言带 emoji 时额外 +2。非英语得分必须同时超过英语得分和切换门槛。
func (s *languageService) Detect(message string) string {
	lowered := strings.ToLower(message)
	words := tokenize(lowered)

	englishScore := 0
	for _, w := range words {
		for _, strong := range rules.StrongEnglishWords {
			if w == strong {
				englishScore += 5
				break
			}
		}
	}

	hasEmoji := rules.EmojiPattern.MatchString(message)

	bestLang := "en"
	bestScore := 0
	for lang, profile := range rules.LanguageProfiles {
		score := 0
		for _, p := range profile.Patterns {
			if strings.Contains(lowered, p) {
				score += 10
			}
		}
		for _, w := range words {
			for _, common := range profile.CommonWords {
				if w == common {
					score++
					break
				}
			}
		}
		if hasEmoji && rules.EmojiBonusLanguages[lang] {
			score += 2
		}
		if score > bestScore {
			bestScore = score
			bestLang = lang
		}
	}

	if bestScore > englishScore && bestScore > rules.DetectionMargin {
		return bestLang
	}
	return "en"
}

// Template 带英语回退的模板查找。
func (s *languageService) Template(language, strategy string) string {
	return rules.Template(language, strategy)
}

// EmojiPreference 取 emoji 偏好，未知语言按英语处理。
func (s *languageService) EmojiPreference(language string) rules.EmojiPreference {
	if p, ok := rules.LanguageEmojiPreferences[language]; ok {
		return p
	}
	return rules.LanguageEmojiPreferences["en"]
}

// tokenize 按空白与常见标点切词。
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', ',', '.', '!', '?', ';', ':', '"', '\'', '(', ')':
			return true
		}
		return false
	})
}
