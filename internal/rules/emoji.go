package rules

import "regexp"

// EmojiMap 情绪 / 语气 / 话题 → 候选 emoji。
var EmojiMap = map[string][]string{
	// 情绪状态
	"happy":      {"😊", "😄", "🙂", "🌟", "💫"},
	"excited":    {"🎉", "😃", "🤩", "✨", "🔥"},
	"content":    {"😌", "🌿", "☀️", "💖"},
	"calm":       {"🌊", "🍃", "😊", "💙"},
	"thoughtful": {"🤔", "💭", "📚", "🔍"},
	"curious":    {"🤨", "🔎", "💡", "❓"},
	"playful":    {"😜", "😂", "🎈", "🤹"},
	"sad":        {"😔", "💔", "🌧️", "🫂"},
	"frustrated": {"😤", "💢", "🌪️", "⚡"},
	"anxious":    {"😰", "🌫️", "🌀", "⚠️"},
	"tired":      {"😴", "💤", "🌙", "🛌"},
	"neutral":    {"😐", "🔸", "⚪", "💠"},

	// 回复语气
	"warm":         {"💕", "🤗", "🌞", "💖"},
	"enthusiastic": {"🚀", "🎊", "⭐", "💥"},
	"supportive":   {"🫂", "🤝", "💪", "🌟"},
	"empathetic":   {"💝", "🫶", "🌷", "💗"},

	// 话题
	"work":          {"💼", "📊", "🏢", "📈"},
	"entertainment": {"🎬", "🎮", "🎵", "🎭"},
	"food":          {"🍕", "🍜", "🍦", "☕"},
	"travel":        {"✈️", "🌍", "🗺️", "🧳"},
	"health":        {"💪", "🏃", "🥗", "❤️"},
	"family":        {"👨‍👩‍👧‍👦", "🏠", "💝", "🌻"},
	"relationships": {"💑", "💞", "🤝", "💕"},
	"hobbies":       {"🎨", "🎸", "📸", "⚽"},
	"daily_life":    {"📅", "🌞", "☀️", "🌙"},

	// 通用会话
	"greeting":    {"👋", "💫", "🌟", "😊"},
	"question":    {"❓", "💭", "🤔", "🔎"},
	"agreement":   {"✅", "👍", "💯", "👏"},
	"surprise":    {"😲", "🤯", "🎊", "💫"},
	"celebration": {"🎉", "🥳", "🎊", "✨"},
}

// EmojiPattern 匹配常见 emoji 区段，供检测与剔除使用。
var EmojiPattern = regexp.MustCompile(`[\x{1F600}-\x{1F64F}]|[\x{1F300}-\x{1F5FF}]|[\x{1F680}-\x{1F6FF}]|[\x{1F1E0}-\x{1F1FF}]|[\x{2600}-\x{26FF}]|[\x{2700}-\x{27BF}]`)
