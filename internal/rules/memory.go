package rules

import "regexp"

// SignificancePatterns 命中任意一条说明这轮对话包含值得长期记住的自我披露。
var SignificancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(love|hate|adore|can't stand).+`),
	regexp.MustCompile(`(?i)(always|never).+because`),
	regexp.MustCompile(`(?i)(dream|goal|aspiration).+`),
	regexp.MustCompile(`(?i)(favorite|least favorite).+`),
	regexp.MustCompile(`(?i)(childhood|growing up).+memory`),
	regexp.MustCompile(`(?i)(scared|afraid|worried).+about`),
}

// DepthPattern 消息深度的特征词；命中数 / 3（上限 1）即 messageDepth。
var DepthPattern = regexp.MustCompile(`(?i)because|feel|think|believe|experience|memory|dream|goal`)

// MemoryTypes 记忆的合法类型。
var MemoryTypes = map[string]bool{
	"preference":          true,
	"experience":          true,
	"emotional_moment":    true,
	"personal_revelation": true,
}

// EmotionStates 情绪检测允许的状态集合，越界值回退 neutral。
var EmotionStates = map[string]bool{
	"happy": true, "excited": true, "content": true, "calm": true,
	"thoughtful": true, "curious": true, "playful": true, "sad": true,
	"frustrated": true, "anxious": true, "tired": true, "neutral": true,
	"loving": true,
}

// EmotionTones 情绪检测允许的语气集合。
var EmotionTones = map[string]bool{
	"warm": true, "enthusiastic": true, "supportive": true, "playful": true,
	"empathetic": true, "calm": true, "curious": true,
}
