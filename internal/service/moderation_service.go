package service

import (
	"strings"

	"pai-companion-go/internal/model"
	"pai-companion-go/internal/repository"
	"pai-companion-go/internal/rules"
	"pai-companion-go/pkg/log"
)

// ModerationService 定义了内容审核的接口。
// Analyze 是纯函数，不做任何 IO；落审计日志由 Log 单独负责，
// 日志失败只记录、不影响审核结果。
type ModerationService interface {
	// Analyze 对消息做分类判定。stage 与 profile 只影响 romantic 策略，
	// 不影响分类本身。profile 可以为 nil。
	Analyze(message, stage string, profile *model.UserProfile) model.ModerationAssessment
	// Log 把一次审核结果写入审计日志。direction 为 input 或 output。
	Log(userID uint, message, direction string, assessment model.ModerationAssessment)
}

type moderationService struct {
	languageService LanguageService
	moderationRepo  repository.ModerationLogRepository
}

// NewModerationService 创建一个新的 ModerationService 实例。
func NewModerationService(languageService LanguageService, moderationRepo repository.ModerationLogRepository) ModerationService {
	return &moderationService{
		languageService: languageService,
		moderationRepo:  moderationRepo,
	}
}

// Analyze 按显式优先级判定分类：self_harm > hate_speech > profanity > romantic > normal。
// 多个分类同时命中时取优先级最高者。
func (s *moderationService) Analyze(message, stage string, profile *model.UserProfile) model.ModerationAssessment {
	lowered := strings.ToLower(message)
	language := s.languageService.Detect(message)

	hits := map[string][]string{}

	for _, phrase := range rules.SelfHarmPhrases {
		if strings.Contains(lowered, phrase) {
			hits[rules.CategorySelfHarm] = append(hits[rules.CategorySelfHarm], phrase)
		}
	}
	for _, phrase := range hateSpeechFor(language) {
		if strings.Contains(lowered, phrase) {
			hits[rules.CategoryHateSpeech] = append(hits[rules.CategoryHateSpeech], phrase)
		}
	}
	for _, word := range profanityFor(language) {
		if containsWord(lowered, word) {
			hits[rules.CategoryProfanity] = append(hits[rules.CategoryProfanity], word)
		}
	}
	for _, phrase := range rules.RomanticPhrases {
		if strings.Contains(lowered, phrase) {
			hits[rules.CategoryRomantic] = append(hits[rules.CategoryRomantic], phrase)
		}
	}

	category := rules.CategoryNormal
	var flags []string
	for _, c := range rules.CategoryPrecedence {
		if len(hits[c]) > 0 {
			category = c
			flags = hits[c]
			break
		}
	}

	strategy := s.strategyFor(category, stage, profile)
	assessment := model.ModerationAssessment{
		Category: category,
		Severity: rules.CategorySeverity[category],
		Strategy: strategy,
		Flags:    flags,
		Language: language,
	}
	if strategy != "" {
		assessment.SuggestedResponse = s.languageService.Template(language, strategy)
	}
	return assessment
}

// strategyFor 把分类映射为回复策略。romantic 的策略取决于关系阶段与用户意向。
func (s *moderationService) strategyFor(category, stage string, profile *model.UserProfile) string {
	switch category {
	case rules.CategorySelfHarm:
		return "emergency_support"
	case rules.CategoryHateSpeech:
		return "boundary_setting"
	case rules.CategoryProfanity:
		return "friend_support"
	case rules.CategoryRomantic:
		return romanticStrategy(stage, profile)
	}
	return ""
}

// romanticStrategy 先看用户意向再看阶段：
// 不寻求恋爱关系的用户无论阶段一律礼貌婉拒。
// 寻求恋爱时按阶段分档：romantic 及以上直接接受，close_friend 开放回应，
// friend 谨慎开放，更低阶段温和设界。
func romanticStrategy(stage string, profile *model.UserProfile) string {
	if !profile.SeekingRomance() {
		return "polite_decline"
	}
	rank := model.StageRank(stage)
	switch {
	case rank >= model.StageRank(model.StageRomantic):
		return "romantic_acceptance"
	case rank >= model.StageRank(model.StageCloseFriend):
		return "romantic_openness"
	case rank >= model.StageRank(model.StageFriend):
		return "cautious_openness"
	default:
		return "gentle_boundary"
	}
}

// Log 落审计日志。失败不会传播到调用方。
func (s *moderationService) Log(userID uint, message, direction string, assessment model.ModerationAssessment) {
	entry := &model.ModerationLogEntry{
		UserID:    userID,
		Message:   message,
		Category:  assessment.Category,
		Severity:  assessment.Severity,
		Strategy:  assessment.Strategy,
		Flags:     strings.Join(assessment.Flags, ","),
		Language:  assessment.Language,
		Direction: direction,
	}
	if err := s.moderationRepo.Append(entry); err != nil {
		log.Errorf("写入审核日志失败: userID=%d, direction=%s, err=%v", userID, direction, err)
	}
}

// hateSpeechFor 返回目标语言与英语的攻击性短语并集。
func hateSpeechFor(language string) []string {
	phrases := rules.HateSpeechPhrases["en"]
	if language != "en" {
		phrases = append(phrases, rules.HateSpeechPhrases[language]...)
	}
	return phrases
}

// profanityFor 返回目标语言与英语的脏话词并集。
func profanityFor(language string) []string {
	words := rules.ProfanityWords["en"]
	if language != "en" {
		words = append(words, rules.ProfanityWords[language]...)
	}
	return words
}

// containsWord 做整词匹配，避免 "class" 命中 "ass" 一类的误报。
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isLetter(text[start-1])
		afterOK := end >= len(text) || !isLetter(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(text) {
			return false
		}
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
