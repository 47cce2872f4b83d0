package service

import (
	"context"
	"testing"

	"pai-companion-go/internal/model"
	"pai-companion-go/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func newStyleFixture(t *testing.T) StyleService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStyleService(repository.NewConversationRepository(client))
}

// TestCurrent_DefaultWhenEmpty 无缓存记录返回默认风格。
func TestCurrent_DefaultWhenEmpty(t *testing.T) {
	s := newStyleFixture(t)
	got := s.Current(context.Background(), 1)
	assert.Equal(t, model.DefaultCommunicationStyle(), got)
}

// TestLearningRate 样本量三档学习率。
func TestLearningRate(t *testing.T) {
	assert.Equal(t, 0.2, learningRate(0))
	assert.Equal(t, 0.2, learningRate(9))
	assert.Equal(t, 0.1, learningRate(10))
	assert.Equal(t, 0.1, learningRate(49))
	assert.Equal(t, 0.05, learningRate(50))
}

// TestObserveStyle 从单条消息提取长度、emoji、正式度、幽默与表达观测值。
func TestObserveStyle(t *testing.T) {
	obs := observeStyle("ok")
	assert.Equal(t, "short", obs.PreferredLength)
	assert.Equal(t, "none", obs.EmojiUsage)
	assert.Equal(t, "casual", obs.FormalityLevel)
	assert.Equal(t, 0.0, obs.HumorLevel)
	assert.Equal(t, 0.0, obs.EmotionalExpression)

	obs = observeStyle("lol that was awesome 😂😂😂 haha!!!")
	assert.Equal(t, "heavy", obs.EmojiUsage)
	assert.Equal(t, "very_casual", obs.FormalityLevel)
	assert.Equal(t, 1.0, obs.HumorLevel)
	assert.Equal(t, 1.0, obs.EmotionalExpression)

	obs = observeStyle("I would appreciate your advice regarding this matter, thank you.")
	assert.Equal(t, "formal", obs.FormalityLevel)
}

// TestLearn_SlidesGradually 单条观测只小步滑动，不会立刻换档。
func TestLearn_SlidesGradually(t *testing.T) {
	s := newStyleFixture(t)
	got := s.Learn(context.Background(), 1, "lol that was awesome 😂😂😂 haha!!!")

	assert.Equal(t, 1, got.SampleCount)
	assert.Equal(t, "light", got.EmojiUsage) // 默认 light，一次观测不足以到 heavy
	assert.Equal(t, "casual", got.FormalityLevel)
	assert.InDelta(t, 0.6, got.HumorLevel, 1e-9)
	assert.InDelta(t, 0.6, got.EmotionalExpression, 1e-9)
}

// TestLearn_ConvergesAfterRepeatedObservations 持续一致的观测最终越过档位中点。
func TestLearn_ConvergesAfterRepeatedObservations(t *testing.T) {
	s := newStyleFixture(t)
	var got model.CommunicationStyle
	for i := 0; i < 4; i++ {
		got = s.Learn(context.Background(), 1, "lol that was awesome 😂😂😂 haha!!!")
	}

	// 2 - 0.8^4 ≈ 1.59，越过 1.5 中点
	assert.Equal(t, "heavy", got.EmojiUsage)
	assert.Equal(t, "very_casual", got.FormalityLevel)
	assert.Equal(t, 4, got.SampleCount)
}

// TestLearn_PersistsAcrossReads 学习结果写回缓存，Current 能读到。
func TestLearn_PersistsAcrossReads(t *testing.T) {
	s := newStyleFixture(t)
	learned := s.Learn(context.Background(), 1, "hey hey, sounds cool btw")
	got := s.Current(context.Background(), 1)
	assert.Equal(t, learned, got)

	// 其他用户不受影响
	other := s.Current(context.Background(), 2)
	assert.Equal(t, model.DefaultCommunicationStyle(), other)
}
