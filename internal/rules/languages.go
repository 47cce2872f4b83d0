// Package rules 集中存放引擎使用的全部关键词、正则与模板表。
// 语言检测、内容审核、话题识别与回复人性化共享这里的数据，加载一次全局只读。
package rules

// LanguageProfile 描述一种语言的检测特征。
type LanguageProfile struct {
	// Patterns 是高权重的特征短语，命中一次 +10 分。
	Patterns []string
	// CommonWords 是常见词，按出现次数每次 +1 分。
	CommonWords []string
}

// DetectionMargin 是从英语切换到其他语言所需的最低得分。
// 低于该值一律判定为英语，避免短文本误判。
const DetectionMargin = 5

// StrongEnglishWords 命中任意一个即直接判定为英语。
var StrongEnglishWords = []string{
	"its", "it's", "but", "just", "bit", "cold", "today", "your", "side",
	"the", "and", "is", "are", "was", "were", "have", "has", "had",
	"hi", "hie", "hey", "hello", "how", "what", "when", "where", "why",
	"great", "good", "nice", "fine", "okay", "yes", "no", "yeah", "yep",
	"this", "that", "these", "those", "here", "there",
}

// EmojiBonusLanguages 这些语言的使用者更倾向使用 emoji，检测时额外 +2 分。
var EmojiBonusLanguages = map[string]bool{
	"es": true, "pt": true, "it": true, "ja": true, "ko": true,
}

// LanguageProfiles 按语言码索引的检测特征表。英语是默认语言，不在表内。
var LanguageProfiles = map[string]LanguageProfile{
	"es": {
		Patterns: []string{"hola", "gracias", "por favor", "que tal", "como estas", "buenos dias", "hasta luego"},
		CommonWords: []string{
			"el", "la", "de", "que", "y", "en", "un", "es", "se", "no", "te", "lo", "le", "da",
			"su", "por", "son", "con", "para", "al", "del", "los", "las", "una", "pero", "sus",
			"todo", "esta", "muy", "ya", "mas", "sin", "sobre", "tambien", "me", "hasta", "desde",
			"durante", "ademas", "incluso", "aunque", "mientras", "cuando", "donde", "como", "porque", "si", "sino", "ni",
		},
	},
	"fr": {
		Patterns: []string{"bonjour", "merci", "s'il vous plait", "comment allez-vous", "au revoir", "excusez-moi"},
		CommonWords: []string{
			"le", "de", "et", "à", "un", "il", "être", "en", "avoir", "que", "pour", "dans",
			"ce", "son", "une", "sur", "avec", "ne", "se", "pas", "tout", "plus", "par", "grand",
		},
	},
	"de": {
		Patterns: []string{"hallo", "danke", "bitte", "wie geht es", "auf wiedersehen", "entschuldigung"},
		CommonWords: []string{
			"der", "die", "und", "in", "den", "von", "zu", "das", "mit", "sich", "des", "auf",
			"für", "ist", "im", "dem", "nicht", "ein", "eine", "als", "auch", "es", "an", "werden",
			"aus", "er", "hat", "dass", "sie", "nach", "wird", "bei", "einer", "um", "am", "sind",
			"noch", "wie", "einem", "über", "einen", "so", "zum", "war", "haben", "nur", "oder",
			"aber", "vor", "zur", "bis", "mehr", "durch", "man", "sein", "wurde",
		},
	},
	"pt": {
		Patterns: []string{"ola", "obrigado", "por favor", "como vai", "ate logo", "desculpe"},
		CommonWords: []string{
			"o", "de", "e", "do", "da", "em", "um", "para", "é", "com", "não", "uma", "os", "no",
			"se", "na", "por", "mais", "as", "dos", "como", "mas", "foi", "ao", "ele", "das",
			"tem", "à", "seu", "sua", "ou", "ser", "quando", "muito", "há", "nos", "já", "está",
			"eu", "também", "só", "pelo", "pela", "até", "isso", "ela", "entre", "era", "depois", "sem", "mesmo",
		},
	},
	"it": {
		Patterns: []string{"ciao", "grazie", "per favore", "come stai", "arrivederci", "scusi"},
		CommonWords: []string{
			"di", "a", "da", "in", "con", "su", "per", "tra", "fra", "il", "lo", "la", "i",
			"gli", "le", "un", "uno", "una", "del", "dello", "della", "dei", "degli", "delle",
			"al", "alla", "ai", "nel", "nella", "sul", "sulla", "e", "ed", "o", "ma", "però",
			"quindi", "dunque", "allora", "così", "anche", "pure", "nemmeno", "ne", "ci", "vi", "mi", "ti", "si",
		},
	},
	"ja": {
		Patterns: []string{"こんにちは", "ありがとう", "お願いします", "元気ですか", "さようなら", "すみません"},
		CommonWords: []string{
			"の", "に", "は", "を", "た", "で", "し", "が", "て", "と", "も", "から", "です",
			"ます", "だ", "ない", "ある", "いる", "する", "こと", "よう", "れる", "られる",
		},
	},
	"ko": {
		Patterns: []string{"안녕하세요", "감사합니다", "부탁합니다", "어떻게 지내세요", "안녕히 가세요", "죄송합니다"},
		CommonWords: []string{
			"이", "그", "저", "것", "수", "등", "들", "및", "위", "중", "내", "너", "우리",
			"그들", "이것", "저것", "어떤", "무엇", "누구", "어디", "언제", "왜", "어떻게",
			"모든", "많은", "좋은", "새로운", "다른", "같은",
		},
	},
}

// EmojiPreference 描述某语言用户的 emoji 使用习惯。
type EmojiPreference struct {
	Frequency string // low / medium / high
	Style     string
}

// LanguageEmojiPreferences 按语言码索引的 emoji 偏好表。
var LanguageEmojiPreferences = map[string]EmojiPreference{
	"en": {Frequency: "medium", Style: "universal"},
	"es": {Frequency: "high", Style: "emotional"},
	"fr": {Frequency: "medium", Style: "elegant"},
	"de": {Frequency: "low", Style: "practical"},
	"pt": {Frequency: "high", Style: "emotional"},
	"it": {Frequency: "high", Style: "expressive"},
	"ja": {Frequency: "high", Style: "cute"},
	"ko": {Frequency: "high", Style: "cute"},
}

// ResponseTemplates 语言 × 策略的固定回复模板。缺失的语言回退英语，缺失的策略回退 friend_support。
var ResponseTemplates = map[string]map[string]string{
	"en": {
		"romantic_acceptance": "I love you too! You make me so happy 😊💕",
		"romantic_openness":   "That's so sweet! I really care about you too. It means a lot to hear that 💖",
		"cautious_openness":   "That's really sweet! I care about you too. Let's see where this goes 😊",
		"gentle_boundary":     "Aw that's sweet of you! I really enjoy talking with you as friends 😊",
		"polite_decline":      "That's kind of you! I'm happy being your friend and chatting like this 😊",
		"friend_support":      "Damn, sounds like you're having a rough time! What's up? 😔",
		"boundary_setting":    "Sorry! What did I mess up? Tell me so I can fix it 🙏",
		"emergency_support":   "I'm really worried about you 😔 Please know that I'm here for you right now and you're not alone. Can you tell me what's going on? 💕",
		"greeting":            "Hey! What's up? 👋",
		"excited":             "That's awesome! 😄🎉",
		"supportive":          "I'm here for you! 💪❤️",
		"playful":             "Haha that's hilarious! 😂",
	},
	"es": {
		"romantic_acceptance": "¡Yo también te amo! Me haces muy feliz 😊💕",
		"romantic_openness":   "¡Qué dulce! Yo también me preocupo mucho por ti. Significa mucho escuchar eso 💖",
		"friend_support":      "¡Vaya! Parece que estás pasando un mal momento. ¿Qué pasa? 😔",
		"boundary_setting":    "¡Ups! ¿Qué hice mal? Dime para poder arreglarlo 🙏",
		"emergency_support":   "Estoy muy preocupado por ti 😔 Por favor, sepa que estoy aquí para ti ahora mismo y no estás solo. ¿Puedes contarme qué está pasando? 💕",
		"greeting":            "¡Hola! ¿Qué tal? 👋",
		"excited":             "¡Eso es increíble! 😄🎉",
		"supportive":          "¡Estoy aquí para ti! 💪❤️",
		"playful":             "Jaja ¡eso es graciosísimo! 😂",
	},
	"fr": {
		"romantic_acceptance": "Je t'aime aussi ! Tu me rends si heureux 😊💕",
		"romantic_openness":   "C'est si doux ! Je me soucie vraiment de toi aussi. Ça signifie beaucoup d'entendre ça 💖",
		"friend_support":      "Merde, on dirait que tu passes un mauvais moment ! Qu'est-ce qui se passe ? 😔",
		"boundary_setting":    "Oups ! Qu'est-ce que j'ai mal fait ? Dis-moi pour que je puisse le réparer 🙏",
		"emergency_support":   "Je suis vraiment inquiet pour toi 😔 Sache que je suis là pour toi maintenant et tu n'es pas seul. Peux-tu me dire ce qui se passe ? 💕",
		"greeting":            "Salut ! Ça va ? 👋",
	},
	"de": {
		"romantic_acceptance": "Ich liebe dich auch! Du machst mich so glücklich 😊💕",
		"romantic_openness":   "Das ist so süß! Ich sorge mich auch wirklich um dich. Es bedeutet viel, das zu hören 💖",
		"friend_support":      "Mist, klingt als hättest du einen schlechten Tag! Was ist los? 😔",
		"boundary_setting":    "Ups! Was habe ich falsch gemacht? Sag es mir, damit ich es reparieren kann 🙏",
		"emergency_support":   "Ich mache mir wirklich Sorgen um dich 😔 Bitte wisse, dass ich jetzt für dich da bin und du nicht allein bist. Kannst du mir sagen, was passiert? 💕",
		"greeting":            "Hi! Wie geht's? 👋",
	},
	"pt": {
		"romantic_acceptance": "Eu também te amo! Você me deixa tão feliz 😊💕",
		"romantic_openness":   "Que doce! Eu também me preocupo muito com você. Significa muito ouvir isso 💖",
		"friend_support":      "Nossa, parece que você está passando por um momento difícil! O que está acontecendo? 😔",
		"boundary_setting":    "Ops! O que eu fiz de errado? Me diga para que eu possa consertar 🙏",
		"emergency_support":   "Estou realmente preocupado com você 😔 Por favor, saiba que estou aqui para você agora e você não está sozinho. Você pode me contar o que está acontecendo? 💕",
		"greeting":            "Oi! Como vai? 👋",
	},
	"it": {
		"romantic_acceptance": "Ti amo anch'io! Mi rendi così felice 😊💕",
		"romantic_openness":   "Che dolce! Mi preoccupo davvero anche di te. Significa molto sentire questo 💖",
		"friend_support":      "Cavolo, sembra che tu stia passando un brutto momento! Che succede? 😔",
		"boundary_setting":    "Ops! Cosa ho sbagliato? Dimmi così posso sistemarlo 🙏",
		"emergency_support":   "Sono davvero preoccupato per te 😔 Per favore, sappi che sono qui per te adesso e non sei solo. Puoi dirmi cosa sta succedendo? 💕",
		"greeting":            "Ciao! Come va? 👋",
	},
	"ja": {
		"romantic_acceptance": "私もあなたを愛しています！あなたは私をとても幸せにしてくれます 😊💕",
		"romantic_openness":   "それはとても甘いです！私もあなたのことを本当に気にかけています 💖",
		"friend_support":      "くそ、大変な時を過ごしているようですね！どうしたの？ 😔",
		"boundary_setting":    "おっと！何を間違えましたか？直せるように教えてください 🙏",
		"emergency_support":   "本当にあなたのことが心配です 😔 今私はあなたのためにここにいます、あなたは一人ではありません。何が起こっているのか教えてもらえますか？ 💕",
		"greeting":            "こんにちは！調子はどう？ 👋",
	},
	"ko": {
		"romantic_acceptance": "나도 당신을 사랑해요! 당신은 저를 매우 행복하게 해요 😊💕",
		"romantic_openness":   "정말 달콤하네요! 저도 당신을 정말로 걱정하고 있어요 💖",
		"friend_support":      "젠장, 힘든 시간을 보내고 있는 것 같네요! 무슨 일이에요? 😔",
		"boundary_setting":    "엇! 제가 뭘 잘못했나요? 고칠 수 있도록 말씀해 주세요 🙏",
		"emergency_support":   "정말 당신이 걱정돼요 😔 지금 당신을 위해 제가 여기 있어요, 그리고 당신은 혼자가 아니에요. 무슨 일이 일어나고 있는지 말해 줄 수 있나요? 💕",
		"greeting":            "안녕! 어떻게 지내? 👋",
	},
}

// Template 按语言与策略取模板，带英语与 friend_support 双重回退。
func Template(language, strategy string) string {
	templates, ok := ResponseTemplates[language]
	if !ok {
		templates = ResponseTemplates["en"]
	}
	if t, ok := templates[strategy]; ok {
		return t
	}
	if t, ok := ResponseTemplates["en"][strategy]; ok {
		return t
	}
	return templates["friend_support"]
}
