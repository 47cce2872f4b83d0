package rules

// TopicKeywords 话题 → 关键词表，用于按命中数给候选话题打分。
var TopicKeywords = map[string][]string{
	"work":          {"work", "job", "office", "career", "business", "meeting", "project", "boss", "colleague", "deadline"},
	"entertainment": {"movie", "show", "tv", "netflix", "music", "game", "book", "series", "episode", "season", "binge"},
	"food":          {"food", "eat", "restaurant", "cooking", "meal", "hungry", "dinner", "lunch", "breakfast", "snack", "recipe"},
	"travel":        {"travel", "trip", "vacation", "flight", "hotel", "beach", "city", "destination", "airport", "sightseeing"},
	"health":        {"health", "exercise", "gym", "doctor", "sick", "medicine", "fitness", "workout", "diet", "sleep"},
	"family":        {"family", "mom", "dad", "sister", "brother", "parents", "kids", "cousin", "aunt", "uncle"},
	"relationships": {"relationship", "dating", "boyfriend", "girlfriend", "love", "marriage", "partner", "crush", "breakup"},
	"hobbies":       {"hobby", "interest", "sport", "art", "craft", "photography", "dancing", "gaming", "reading", "painting"},
	"daily_life":    {"today", "yesterday", "morning", "evening", "weekend", "plan", "schedule", "busy", "tired"},
}

// TopicDepthWeights 词 → 深度权重。加权和 >=6 为 deep，>=3 为 medium，否则 shallow。
var TopicDepthWeights = map[string]int{
	"because":    3,
	"feel":       3,
	"think":      2,
	"believe":    3,
	"experience": 3,
	"memory":     3,
	"dream":      3,
	"goal":       3,
	"why":        2,
	"how":        1,
	"what":       1,
	"really":     2,
	"always":     2,
	"never":      2,
}

// TransitionPhrases 按正式程度分组的话题过渡语。
var TransitionPhrases = map[string][]string{
	"very_casual": {
		"Oh btw...", "Speaking of...", "That reminds me!", "Random but...",
		"Wait I just thought of something...", "This is totally off topic but...",
		"You know what else?", "Changing gears for a sec...",
	},
	"casual": {
		"That reminds me...", "Speaking of that...", "On a related note...",
		"By the way...", "Actually, that makes me think...", "You know what's interesting?",
		"I was just thinking about...", "This might be random but...",
	},
	"formal": {
		"That brings to mind...", "In relation to that...", "Furthermore...",
		"Additionally...", "On another note...", "Shifting topics slightly...",
		"If I may change the subject briefly...", "This reminds me of...",
	},
}

// CulturalNorm 按国家归纳的沟通习惯，用于提示词组装。
type CulturalNorm struct {
	Formality     string
	Directness    string
	Humor         string
	Communication string
}

// CulturalNorms 国家码 → 沟通习惯，未知国家回退 US。
var CulturalNorms = map[string]CulturalNorm{
	"US": {Formality: "casual", Directness: "high", Humor: "sarcastic", Communication: "direct"},
	"UK": {Formality: "polite", Directness: "medium", Humor: "dry", Communication: "indirect"},
	"JP": {Formality: "high", Directness: "low", Humor: "subtle", Communication: "contextual"},
	"DE": {Formality: "high", Directness: "very_high", Humor: "dry", Communication: "direct"},
	"FR": {Formality: "medium", Directness: "medium", Humor: "witty", Communication: "eloquent"},
}

// CulturalNormFor 取国家对应的沟通习惯，带 US 回退。
func CulturalNormFor(country string) CulturalNorm {
	if n, ok := CulturalNorms[country]; ok {
		return n
	}
	return CulturalNorms["US"]
}

// 沟通风格学习使用的词表。
var (
	FormalWords = []string{"please", "thank you", "appreciate", "regarding", "concerning", "sincerely"}
	CasualWords = []string{"hey", "yo", "sup", "cool", "awesome", "lol", "haha", "omg", "btw", "idk"}
	SlangWords  = []string{"lit", "fam", "savage", "ghost", "salty", "woke"}
)
