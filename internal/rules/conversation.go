package rules

import "regexp"

// GreetingWords 简单问候词表。以这些词开头的消息走问候短路。
var GreetingWords = []string{"hi", "hey", "hello", "hallo", "hie", "sup", "yo", "greetings"}

// SimpleGreetingPattern 完整消息即问候语的正则。
var SimpleGreetingPattern = regexp.MustCompile(`(?i)^(hi|hie|hey|hello|yo|what's up|whats up)[!.? ]*$`)

// CasualGreetingTokens 问候回复里应当出现的随意口吻词。
var CasualGreetingTokens = []string{"hey", "hi", "yo", "sup", "what's up", "hello"}

// ConversationEndingPatterns 命中说明草稿在收尾对话，需要触发再生成。
var ConversationEndingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)hope.*goes well`),
	regexp.MustCompile(`(?i)hope.*continues`),
	regexp.MustCompile(`(?i)that's cool`),
	regexp.MustCompile(`(?i)that's nice`),
	regexp.MustCompile(`(?i)that's great`),
	regexp.MustCompile(`(?i)good luck`),
	regexp.MustCompile(`(?i)take care`),
	regexp.MustCompile(`(?i)have a good`),
	regexp.MustCompile(`(?i)hope you have`),
	regexp.MustCompile(`(?i)wish you`),
	regexp.MustCompile(`(?i)sounds good`),
	regexp.MustCompile(`(?i)sounds great`),
	regexp.MustCompile(`(?i)sounds cool`),
	regexp.MustCompile(`(?i)anyway.*bye`),
	regexp.MustCompile(`(?i)talk to you later`),
	regexp.MustCompile(`(?i)catch you later`),
}

// HumanRuleViolationPatterns 命中说明草稿暴露了非人类身份或套话，需要再生成。
var HumanRuleViolationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i understand`),
	regexp.MustCompile(`(?i)that must be`),
	regexp.MustCompile(`(?i)as an ai`),
	regexp.MustCompile(`(?i)as a language model`),
	regexp.MustCompile(`(?i)i'm an ai`),
	regexp.MustCompile(`(?i)i cannot`),
	regexp.MustCompile(`(?i)i don't have`),
	regexp.MustCompile(`(?i)i don't experience`),
}

// GenericReplyPattern 泛泛回复的词；短于 30 字符且命中时判定为敷衍。
var GenericReplyPattern = regexp.MustCompile(`(?i)\b(okay|alright|nice|cool|great|good)\b`)

// BaseConversationKeepers 通用的接话建议，供再生成提示词使用。
var BaseConversationKeepers = []string{
	"What are you up to now?",
	"What did you eat today?",
	"What are you watching/reading/listening to?",
	"How's work/school going?",
	"Any plans for later?",
	"Tell me more about that!",
	"That sounds interesting!",
}

// TopicConversationKeepers 话题相关的接话建议。
var TopicConversationKeepers = map[string][]string{
	"work":          {"What's the most challenging part of your work right now?", "Working on any exciting projects?"},
	"entertainment": {"What shows are you really into right now?", "Any movies that really surprised you recently?"},
	"food":          {"What's your go-to comfort food?", "Any cooking disasters or successes lately?"},
	"travel":        {"What's your dream destination?", "Any memorable travel stories?"},
}

// PositiveEmotionKeepers / NegativeEmotionKeepers 高强度情绪下的接话建议。
var (
	PositiveEmotionKeepers = []string{"That's amazing! How did that make you feel?", "I'm so happy for you! Tell me more!"}
	NegativeEmotionKeepers = []string{"That sounds really tough. Want to talk about it more?", "I'm here for you. What can I do to help?"}
)

// EngagementPhrases 截断后有余量时追加的接话短语。
var EngagementPhrases = []string{
	" What do you think?",
	" What about you?",
	" I totally get that.",
	" That's so relatable.",
	" I've been there too.",
	" That sounds interesting.",
	" Tell me more about that.",
}

// FillerWords 回复过短时的补充词。
var FillerWords = []string{"yeah", "nice", "cool", "got it", "okay"}

// GenericFallbacks 校验全部失败时的保底回复。
var GenericFallbacks = []string{
	"yeah, that's cool",
	"nice!",
	"oh interesting",
	"hmm that's neat",
	"cool cool",
	"got it",
	"makes sense",
	"oh okay",
	"that's awesome",
	"nice one",
}

// EmotionFallbacks 按情绪匹配的保底回复。
var EmotionFallbacks = map[string][]string{
	"happy":   {"that's awesome!", "hell yeah!", "love that"},
	"sad":     {"aw man", "that sucks", "sorry to hear that"},
	"excited": {"no way!", "that's so cool!", "omg"},
	"calm":    {"nice", "cool", "makes sense"},
	"tired":   {"oof", "i feel that", "same"},
}

// ProactiveFallbackMessage 主动消息生成失败时的保底文案。
const ProactiveFallbackMessage = "Hey! How are you doing?"
