package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDetect_DefaultsToEnglish 无明显特征的消息判定为英语。
func TestDetect_DefaultsToEnglish(t *testing.T) {
	s := NewLanguageService()
	assert.Equal(t, "en", s.Detect("random words without markers"))
	assert.Equal(t, "en", s.Detect(""))
}

// TestDetect_StrongEnglishWins 强英语词压过零星的外语常见词。
func TestDetect_StrongEnglishWins(t *testing.T) {
	s := NewLanguageService()
	// "la" 和 "de" 是西语常见词，但整句是英语
	assert.Equal(t, "en", s.Detect("it's a bit cold today but la vida is good"))
}

// TestDetect_SpanishPatterns 特征短语加常见词把得分推过切换门槛。
func TestDetect_SpanishPatterns(t *testing.T) {
	s := NewLanguageService()
	assert.Equal(t, "es", s.Detect("hola como estas? todo muy bien por aqui"))
}

// TestDetect_ShortForeignStaysEnglish 得分不过门槛时不切换语言。
func TestDetect_ShortForeignStaysEnglish(t *testing.T) {
	s := NewLanguageService()
	// 单个常见词只有 1 分，低于门槛
	assert.Equal(t, "en", s.Detect("el problema"))
}

// TestDetect_Japanese 日语特征短语直接命中。
func TestDetect_Japanese(t *testing.T) {
	s := NewLanguageService()
	assert.Equal(t, "ja", s.Detect("こんにちは、元気ですか"))
}

// TestTemplate_Fallbacks 缺失语言回退英语，缺失策略回退 friend_support。
func TestTemplate_Fallbacks(t *testing.T) {
	s := NewLanguageService()
	assert.NotEmpty(t, s.Template("en", "greeting"))
	// fr 没有 excited 模板，回退英语的 excited
	assert.Equal(t, s.Template("en", "excited"), s.Template("fr", "excited"))
	// 未知语言整体回退英语
	assert.Equal(t, s.Template("en", "greeting"), s.Template("xx", "greeting"))
	// 未知策略回退 friend_support
	assert.Equal(t, s.Template("en", "friend_support"), s.Template("en", "unknown_strategy"))
}

// TestEmojiPreference 已知语言取自偏好表，未知语言回退英语。
func TestEmojiPreference(t *testing.T) {
	s := NewLanguageService()
	assert.Equal(t, "high", s.EmojiPreference("es").Frequency)
	assert.Equal(t, "low", s.EmojiPreference("de").Frequency)
	assert.Equal(t, s.EmojiPreference("en"), s.EmojiPreference("zz"))
}
