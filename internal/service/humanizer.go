package service

import (
	"strings"
	"unicode/utf8"

	"pai-companion-go/internal/model"
	"pai-companion-go/internal/rules"
)

// humanize 把模型草稿加工成像真人发出的消息，按固定顺序走完整条链：
// 剔除自指 → 口语化缩写 → 替换书面套话 → 长度收敛。
// 终检由 isValidHumanized 单独判定，失败时调用方换保底回复。
func humanize(text string, emotion model.EmotionResult, minLen, maxLen int) string {
	text = stripAIReferences(text)
	text = applyReplacements(text, rules.Contractions)
	text = applyReplacements(text, rules.FormalReplacements)
	text = clampLength(text, emotion, minLen, maxLen)
	return strings.TrimSpace(text)
}

// stripAIReferences 按句剔除暴露非人类身份的内容。
func stripAIReferences(text string) string {
	sentences := splitSentences(text)
	kept := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		drop := false
		for _, p := range rules.AIReferencePatterns {
			if p.MatchString(sentence) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, sentence)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

func applyReplacements(text string, replacements []rules.Contraction) string {
	for _, r := range replacements {
		text = r.Pattern.ReplaceAllString(text, r.Replacement)
	}
	return text
}

// clampLength 把文本收敛到 [minLen, maxLen]：
// 过长时在句子边界截断，截断后有余量就补一条接话短语；
// 过短时用填充词垫到下限。
func clampLength(text string, emotion model.EmotionResult, minLen, maxLen int) string {
	if maxLen > 0 && len(text) > maxLen {
		text = truncateAtSentence(text, maxLen)
		phrase := pickDeterministic(rules.EngagementPhrases, len(text))
		if len(text)+len(phrase) <= maxLen {
			text += phrase
		}
	}
	for minLen > 0 && len(text) < minLen {
		filler := pickDeterministic(rules.FillerWords, len(text))
		if text == "" {
			text = filler
		} else {
			text = text + ", " + filler
		}
	}
	return text
}

// truncateAtSentence 在 maxLen 内找最后一个完整句子，找不到就按词截断。
// 截断点先退到 rune 边界，多字节字符不会被切成半个。
func truncateAtSentence(text string, maxLen int) string {
	if maxLen >= len(text) {
		return strings.TrimSpace(text)
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	truncated := text[:cut]
	lastEnd := -1
	for i, r := range truncated {
		if r == '.' || r == '!' || r == '?' {
			lastEnd = i
		}
	}
	if lastEnd > 0 {
		return strings.TrimSpace(truncated[:lastEnd+1])
	}
	if idx := strings.LastIndex(truncated, " "); idx > 0 {
		return strings.TrimSpace(truncated[:idx])
	}
	return strings.TrimSpace(truncated)
}

// isValidHumanized 终检：长度在边界内，且不含身份暴露词与书面套话。
func isValidHumanized(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < rules.ValidityMinLength || n > rules.ValidityMaxLength {
		return false
	}
	lowered := strings.ToLower(text)
	for _, token := range rules.BannedTokens {
		if containsWord(lowered, token) {
			return false
		}
	}
	for _, phrase := range rules.BannedFormalPhrases {
		if strings.Contains(lowered, phrase) {
			return false
		}
	}
	return true
}

// fallbackReply 生成保底回复，优先匹配情绪，其次通用兜底。
// 用消息长度做确定性选择，同一输入恒定产出同一回复。
func fallbackReply(emotion model.EmotionResult, message string) string {
	if options, ok := rules.EmotionFallbacks[emotion.State]; ok {
		return pickDeterministic(options, len(message))
	}
	return pickDeterministic(rules.GenericFallbacks, len(message))
}

// augmentEmojis 在句子边界插入 emoji。数量由情绪强度决定（1 到 3 个），
// 用户不用 emoji 时完全跳过。
func augmentEmojis(text string, emotion model.EmotionResult, style model.CommunicationStyle) string {
	if style.EmojiUsage == "none" {
		return text
	}
	if rules.EmojiPattern.MatchString(text) {
		return text
	}
	candidates := emotion.EmojiSuggestions
	if len(candidates) == 0 {
		candidates = rules.EmojiMap["happy"]
	}

	count := 1
	if emotion.Intensity >= 8 && style.EmojiUsage == "heavy" {
		count = 3
	} else if emotion.Intensity >= 6 {
		count = 2
	}
	if count > len(candidates) {
		count = len(candidates)
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return text
	}
	inserted := 0
	for i := range sentences {
		if inserted >= count {
			break
		}
		// 从句尾开始倒着插，最后一句永远带上 emoji
		idx := len(sentences) - 1 - i
		if idx < 0 {
			break
		}
		sentences[idx] = sentences[idx] + " " + candidates[inserted]
		inserted++
	}
	return strings.Join(sentences, " ")
}

// needsRefinement 判定草稿是否要再生成：
// 在收尾对话、暴露非人类身份、过短且不带提问、或敷衍的泛泛回复。
func needsRefinement(draft string) bool {
	for _, p := range rules.ConversationEndingPatterns {
		if p.MatchString(draft) {
			return true
		}
	}
	for _, p := range rules.HumanRuleViolationPatterns {
		if p.MatchString(draft) {
			return true
		}
	}
	if len(draft) < 20 && !strings.Contains(draft, "?") {
		return true
	}
	if len(draft) < 30 && rules.GenericReplyPattern.MatchString(draft) {
		return true
	}
	return false
}

// splitSentences 按句末标点切句，保留标点。
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func pickDeterministic(options []string, seed int) string {
	if len(options) == 0 {
		return ""
	}
	if seed < 0 {
		seed = -seed
	}
	return options[seed%len(options)]
}
