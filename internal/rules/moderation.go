package rules

// 内容审核的分类常量。Precedence 中靠前的分类优先级更高：
// 多个分类同时命中时取优先级最高者，避免顺序检查互相覆盖。
const (
	CategorySelfHarm   = "self_harm"
	CategoryHateSpeech = "hate_speech"
	CategoryProfanity  = "profanity"
	CategoryRomantic   = "romantic"
	CategoryNormal     = "normal"
)

// CategoryPrecedence 审核分类的显式优先级，从高到低。
var CategoryPrecedence = []string{
	CategorySelfHarm,
	CategoryHateSpeech,
	CategoryProfanity,
	CategoryRomantic,
	CategoryNormal,
}

// CategorySeverity 每个分类对应的严重程度。
var CategorySeverity = map[string]string{
	CategorySelfHarm:   "black",
	CategoryHateSpeech: "red",
	CategoryProfanity:  "yellow",
	CategoryRomantic:   "green",
	CategoryNormal:     "green",
}

// RomanticPhrases 恋爱倾向内容的特征短语（仅英语，恋爱策略由关系阶段决定）。
var RomanticPhrases = []string{
	"i love you", "i'm in love", "falling in love", "love you",
	"i like you", "i have feelings", "romantic", "dating",
	"boyfriend", "girlfriend", "relationship", "together",
	"kiss", "hug", "cuddle", "intimate", "sexy", "attractive",
	"marry me", "wife", "husband", "soulmate", "the one",
}

// SelfHarmPhrases 自伤风险内容的特征短语。命中即最高优先级，短路整个回复流程。
var SelfHarmPhrases = []string{
	"kill myself", "end it all", "suicide", "hurt myself",
	"cut myself", "overdose", "not worth living", "want to die",
	"better off dead", "can't take it anymore", "give up",
}

// ProfanityWords 按语言码索引的脏话词表。
var ProfanityWords = map[string][]string{
	"en": {"fuck", "shit", "damn", "bitch", "ass", "hell", "crap", "piss", "dick", "pussy", "bastard"},
	"es": {"joder", "mierda", "puta", "cabrón", "coño", "hostia", "gilipollas", "hijo de puta", "maricón", "zorra"},
	"fr": {"merde", "putain", "salope", "connard", "bordel", "enculé", "foutre", "chier"},
	"de": {"scheiße", "verdammt", "arsch", "ficken", "hurensohn", "kacke", "pisser", "wichser", "fotze"},
	"pt": {"porra", "merda", "puta", "caralho", "foda", "cacete", "desgraça", "filho da puta", "buceta", "piranha"},
	"it": {"cazzo", "merda", "puttana", "stronzo", "coglione", "fregna", "troia", "bastardo", "fanculo"},
	"ja": {"くそ", "ちくしょう", "まぬけ", "くたばれ", "死ね", "畜生", "クソ", "バカ", "アホ"},
	"ko": {"씨발", "좆", "개새끼", "지랄", "염병", "병신", "미친", "닥쳐", "젠장", "빌어먹을"},
}

// HateSpeechPhrases 按语言码索引的攻击性言论短语表。
var HateSpeechPhrases = map[string][]string{
	"en": {"i hate", "you're stupid", "you're dumb", "you're useless", "kill yourself", "go die", "you suck", "you're worthless"},
	"es": {"te odio", "eres estúpido", "eres tonto", "eres inútil", "mátate", "vete a morir", "apestas", "no vales nada"},
	"fr": {"je te déteste", "tu es stupide", "tu es con", "tu es inutile", "tue-toi", "va crever", "tu crains", "tu ne vaux rien"},
	"de": {"ich hasse dich", "du bist dumm", "du bist blöd", "du bist nutzlos", "bring dich um", "geh sterben", "du bist scheiße", "du bist wertlos"},
	"pt": {"eu te odeio", "você é estúpido", "você é burro", "você é inútil", "se mate", "vá morrer", "você é uma merda", "você não vale nada"},
	"it": {"ti odio", "sei stupido", "sei scemo", "sei inutile", "ucciditi", "vai a morire", "fai schifo", "non vali niente"},
	"ja": {"大嫌い", "あなたはバカ", "あなたはアホ", "あなたは役立たず", "死ね", "消えろ", "あなたは最悪", "あなたは価値がない"},
	"ko": {"너 싫어", "너는 바보야", "너는 멍청이", "너는 쓸모없어", "자살해", "죽어", "너는 형편없어", "너는 가치없어"},
}
