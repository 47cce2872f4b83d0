package service

import (
	"testing"

	"pai-companion-go/internal/config"
	"pai-companion-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExampleFixture(t *testing.T, patterns []model.ConversationPattern) ExampleService {
	t.Helper()
	repo := &fakePatternRepo{patterns: patterns}
	s := NewExampleService(repo, config.DefaultEngine())
	require.NoError(t, s.Load())
	return s
}

// TestLoad_SeedsWhenEmpty 语料为空时写入种子并可检索。
func TestLoad_SeedsWhenEmpty(t *testing.T) {
	repo := &fakePatternRepo{}
	s := NewExampleService(repo, config.DefaultEngine())
	require.NoError(t, s.Load())

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Greater(t, count, int64(0))

	results := s.Retrieve("hi", "", "")
	assert.NotEmpty(t, results)
}

// TestRetrieve_ExactFirst 精确匹配优先，忽略大小写与标点。
func TestRetrieve_ExactFirst(t *testing.T) {
	s := newExampleFixture(t, []model.ConversationPattern{
		{UserMessage: "how are you", AIResponse: "Pretty good!", ConfidenceScore: 0.9},
		{UserMessage: "totally different", AIResponse: "Other reply", ConfidenceScore: 0.9},
	})

	results := s.Retrieve("How are you?", "", "")
	require.NotEmpty(t, results)
	assert.Equal(t, "Pretty good!", results[0].AIResponse)
}

// TestRetrieve_FallsBackThroughTiers 精确不命中时走部分匹配、上下文、情绪。
func TestRetrieve_FallsBackThroughTiers(t *testing.T) {
	s := newExampleFixture(t, []model.ConversationPattern{
		{UserMessage: "long day at work", AIResponse: "Partial match reply", ConfidenceScore: 0.9},
		{UserMessage: "zzz", AIResponse: "Context reply", Context: "work", ConfidenceScore: 0.85},
		{UserMessage: "yyy", AIResponse: "Emotion reply", Emotion: "tired", ConfidenceScore: 0.85},
	})

	// "i had a long day at work today" 包含 "long day at work"
	results := s.Retrieve("i had a long day at work today", "work", "tired")
	require.NotEmpty(t, results)
	assert.Equal(t, "Partial match reply", results[0].AIResponse)

	// 部分匹配也不命中时走上下文
	results = s.Retrieve("nothing matches here at all", "work", "tired")
	require.NotEmpty(t, results)
	assert.Equal(t, "Context reply", results[0].AIResponse)
}

// TestRetrieve_OrdersByConfidence 合并后的结果按置信度降序，与命中档位无关。
func TestRetrieve_OrdersByConfidence(t *testing.T) {
	s := newExampleFixture(t, []model.ConversationPattern{
		{UserMessage: "hello", AIResponse: "Exact reply", ConfidenceScore: 0.82},
		{UserMessage: "zzz", AIResponse: "Context reply", Context: "work", ConfidenceScore: 0.95},
	})

	results := s.Retrieve("hello", "work", "")
	require.Len(t, results, 2)
	assert.Equal(t, "Context reply", results[0].AIResponse)
	assert.Equal(t, "Exact reply", results[1].AIResponse)
}

// TestRetrieve_FiltersLowConfidenceAndDedupes 低置信度过滤，回复去重，上限 5 条。
func TestRetrieve_FiltersLowConfidenceAndDedupes(t *testing.T) {
	patterns := []model.ConversationPattern{
		{UserMessage: "hello", AIResponse: "Low confidence", ConfidenceScore: 0.5},
		{UserMessage: "hello", AIResponse: "Same reply", ConfidenceScore: 0.9},
		{UserMessage: "hello", AIResponse: "Same reply", ConfidenceScore: 0.95},
	}
	for i := 0; i < 8; i++ {
		patterns = append(patterns, model.ConversationPattern{
			UserMessage: "hello", AIResponse: string(rune('A' + i)) + " unique", ConfidenceScore: 0.9,
		})
	}
	s := newExampleFixture(t, patterns)

	results := s.Retrieve("hello", "", "")
	assert.LessOrEqual(t, len(results), 5)
	seen := map[string]int{}
	for _, r := range results {
		assert.GreaterOrEqual(t, r.ConfidenceScore, 0.8)
		seen[r.AIResponse]++
	}
	for resp, n := range seen {
		assert.Equal(t, 1, n, "duplicate response %q", resp)
	}
}

// TestAlignmentScore_Greeting 问候回复：过长 0.3，缺少随意口吻 0.4，合格满分。
func TestAlignmentScore_Greeting(t *testing.T) {
	s := newExampleFixture(t, nil)
	emotion := model.DefaultEmotion()

	long := "Hello there, it is truly wonderful to make your acquaintance today!"
	assert.Equal(t, 0.3, s.AlignmentScore(long, "hi", emotion, nil))

	stiff := "Greetings friend."
	assert.Equal(t, 0.4, s.AlignmentScore(stiff, "hi", emotion, nil))

	casual := "hey! what's up?"
	assert.Equal(t, 1.0, s.AlignmentScore(casual, "hi", emotion, nil))
}

// TestAlignmentScore_EmotionMismatch 负面情绪配庆祝语气扣分。
func TestAlignmentScore_EmotionMismatch(t *testing.T) {
	s := newExampleFixture(t, nil)
	sad := model.EmotionResult{State: "sad", Intensity: 8}

	mismatched := "That's great! 🎉 so awesome for everyone involved in this whole thing"
	matched := "aw man, that really sucks. want to talk about it?"

	userMsg := "my cat has been sick all week and i am really worried about her"
	assert.Less(t,
		s.AlignmentScore(mismatched, userMsg, sad, nil),
		s.AlignmentScore(matched, userMsg, sad, nil))
}

// TestIsGreetingMessage 三条判定路径。
func TestIsGreetingMessage(t *testing.T) {
	assert.True(t, isGreetingMessage("hi"))
	assert.True(t, isGreetingMessage("Hey, how are you doing today my friend"))
	assert.True(t, isGreetingMessage("what's up?"))
	assert.False(t, isGreetingMessage("i had a terrible day"))
	assert.False(t, isGreetingMessage(""))
}
