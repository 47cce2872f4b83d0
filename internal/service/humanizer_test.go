package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"pai-companion-go/internal/model"
	"pai-companion-go/internal/rules"

	"github.com/stretchr/testify/assert"
)

// TestStripAIReferences 自指句整句剔除，其余保留。
func TestStripAIReferences(t *testing.T) {
	got := stripAIReferences("As an AI, I can't feel things. That movie sounds fun though!")
	assert.Equal(t, "That movie sounds fun though!", got)

	got = stripAIReferences("I'm a language model. I'm here to help.")
	assert.Equal(t, "", got)

	got = stripAIReferences("That sounds great! Tell me more.")
	assert.Equal(t, "That sounds great! Tell me more.", got)
}

// TestApplyContractions 书面语替换成口语缩写。
func TestApplyContractions(t *testing.T) {
	got := applyReplacements("I am glad that it is working. I will check. Do not worry.", rules.Contractions)
	assert.Equal(t, "i'm glad that it's working. i'll check. don't worry.", strings.ToLower(got))
}

// TestFormalReplacements 书面套话换成口语表达。
func TestFormalReplacements(t *testing.T) {
	got := applyReplacements("I apologize, I appreciate your patience.", rules.FormalReplacements)
	assert.Equal(t, "sorry, thanks your patience.", got)
}

// TestClampLength_Truncates 过长文本在句子边界截断并补接话短语。
func TestClampLength_Truncates(t *testing.T) {
	long := strings.Repeat("This sentence fills up space nicely. ", 20)
	got := clampLength(long, model.DefaultEmotion(), 10, 120)
	assert.LessOrEqual(t, len(got), 120)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(got), ".") ||
		strings.HasSuffix(strings.TrimSpace(got), "?"))
}

// TestClampLength_Pads 过短文本用填充词垫到下限。
func TestClampLength_Pads(t *testing.T) {
	got := clampLength("ok", model.DefaultEmotion(), 10, 500)
	assert.GreaterOrEqual(t, len(got), 10)
	assert.True(t, strings.HasPrefix(got, "ok"))
}

// TestTruncateAtSentence_RuneBoundary 截断点落在多字节字符中间时退到 rune 边界。
func TestTruncateAtSentence_RuneBoundary(t *testing.T) {
	// 没有句末标点和空格可退，98 字节后紧跟 4 字节 emoji，100 落在 emoji 中间
	text := strings.Repeat("a", 98) + "😊😊"
	got := truncateAtSentence(text, 100)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 98), got)

	// 够短的文本原样返回
	assert.Equal(t, "short one", truncateAtSentence("short one", 100))
}

// TestIsValidHumanized 终检：长度与违禁词。
func TestIsValidHumanized(t *testing.T) {
	assert.True(t, isValidHumanized("sounds like a fun weekend!"))
	assert.False(t, isValidHumanized("hi"))                            // 过短
	assert.False(t, isValidHumanized(strings.Repeat("a", 501)))       // 过长
	assert.False(t, isValidHumanized("well, a chatbot would say so")) // 违禁词
	assert.False(t, isValidHumanized("as an ai i would not know"))    // 书面套话
	// "air" 含 "ai" 但整词不匹配
	assert.True(t, isValidHumanized("the air is so fresh today"))
}

// TestFallbackReply 情绪命中时用情绪兜底，否则通用兜底；同一输入恒定。
func TestFallbackReply(t *testing.T) {
	sad := model.EmotionResult{State: "sad"}
	got := fallbackReply(sad, "my day was terrible")
	assert.Contains(t, rules.EmotionFallbacks["sad"], got)
	assert.Equal(t, got, fallbackReply(sad, "my day was terrible"))

	unknown := model.EmotionResult{State: "loving"}
	got = fallbackReply(unknown, "hey")
	assert.Contains(t, rules.GenericFallbacks, got)
}

// TestNeedsRefinement 四类触发条件。
func TestNeedsRefinement(t *testing.T) {
	// 收尾对话
	assert.True(t, needsRefinement("Good luck with everything, take care!"))
	// 暴露非人类身份
	assert.True(t, needsRefinement("I understand how that must be for you and I'm always listening"))
	// 过短且不带提问
	assert.True(t, needsRefinement("that's fun"))
	// 敷衍的泛泛回复
	assert.True(t, needsRefinement("okay, nice, cool"))
	// 过短但带提问不触发
	assert.False(t, needsRefinement("wait what happened?"))
	// 正常回复不触发
	assert.False(t, needsRefinement("omg same, i stayed up way too late watching that show. which episode are you on?"))
}

// TestAugmentEmojis 按情绪强度插入，用户不用 emoji 时跳过。
func TestAugmentEmojis(t *testing.T) {
	emotion := model.EmotionResult{State: "happy", Intensity: 9, EmojiSuggestions: []string{"😊", "🌟", "💫"}}
	heavy := model.CommunicationStyle{EmojiUsage: "heavy"}
	got := augmentEmojis("That's great news. I'm so happy for you. Tell me everything.", emotion, heavy)
	assert.Equal(t, 3, len(rules.EmojiPattern.FindAllString(got, -1)))

	none := model.CommunicationStyle{EmojiUsage: "none"}
	plain := "That's great news."
	assert.Equal(t, plain, augmentEmojis(plain, emotion, none))

	// 已有 emoji 的文本不重复插
	withEmoji := "love that 😊"
	light := model.CommunicationStyle{EmojiUsage: "light"}
	assert.Equal(t, withEmoji, augmentEmojis(withEmoji, emotion, light))
}

// TestHumanize_FullChain 整条链产出口语化、无自指、长度合规的文本。
func TestHumanize_FullChain(t *testing.T) {
	draft := "As an AI, I do not have feelings. I am glad you had fun. I will ask: what is next for you?"
	got := humanize(draft, model.DefaultEmotion(), 10, 500)

	assert.True(t, isValidHumanized(got), "humanized output should pass validation: %q", got)
	assert.NotContains(t, strings.ToLower(got), "as an ai")
	assert.Contains(t, strings.ToLower(got), "i'm")
}
