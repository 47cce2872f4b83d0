package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pai-companion-go/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisFixture(t *testing.T) ConversationRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewConversationRepository(client)
}

// TestGetOrCreateConversationID 同一对返回稳定 ID，不同对互不干扰。
func TestGetOrCreateConversationID(t *testing.T) {
	repo := newRedisFixture(t)
	ctx := context.Background()

	first, err := repo.GetOrCreateConversationID(ctx, 1, 2)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := repo.GetOrCreateConversationID(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := repo.GetOrCreateConversationID(ctx, 1, 3)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

// TestConversationHistory_WindowTrim 历史只保留最近 20 条。
func TestConversationHistory_WindowTrim(t *testing.T) {
	repo := newRedisFixture(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, repo.AppendMessages(ctx, "conv-1",
			model.ChatMessage{Role: "user", Content: fmt.Sprintf("message %d", i), Timestamp: time.Now()}))
	}

	history, err := repo.GetConversationHistory(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, history, 20)
	assert.Equal(t, "message 5", history[0].Content)
	assert.Equal(t, "message 24", history[19].Content)
}

// TestGetConversationHistory_EmptyWhenMissing 无历史返回空切片而非错误。
func TestGetConversationHistory_EmptyWhenMissing(t *testing.T) {
	repo := newRedisFixture(t)
	history, err := repo.GetConversationHistory(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, history)
}

// TestTurnLock 同一对的第二次加锁失败，释放后可重新获取。
func TestTurnLock(t *testing.T) {
	repo := newRedisFixture(t)
	ctx := context.Background()

	ok, err := repo.AcquireTurnLock(ctx, 1, 2, 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AcquireTurnLock(ctx, 1, 2, 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	// 其他对不受影响
	ok, err = repo.AcquireTurnLock(ctx, 1, 3, 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.ReleaseTurnLock(ctx, 1, 2))
	ok, err = repo.AcquireTurnLock(ctx, 1, 2, 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestCommunicationStyle_Roundtrip 无记录返回默认风格，保存后原样读回。
func TestCommunicationStyle_Roundtrip(t *testing.T) {
	repo := newRedisFixture(t)
	ctx := context.Background()

	got, err := repo.GetCommunicationStyle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCommunicationStyle(), got)

	saved := model.CommunicationStyle{
		PreferredLength: "short", EmojiUsage: "heavy", FormalityLevel: "very_casual",
		HumorLevel: 0.8, EmotionalExpression: 0.9, SampleCount: 12,
		LengthScore: 0.3, EmojiScore: 1.8, FormalityScore: 0.2,
	}
	require.NoError(t, repo.SaveCommunicationStyle(ctx, 1, saved))

	got, err = repo.GetCommunicationStyle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}
