package service

import (
	"context"
	"testing"
	"time"

	"pai-companion-go/internal/config"
	"pai-companion-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryFixture(llmClient *fakeLLM) (*fakeMemoryRepo, MemoryService) {
	repo := &fakeMemoryRepo{}
	return repo, NewMemoryService(llmClient, nil, repo, config.ElasticsearchConfig{})
}

// TestIsSignificant 高强度情绪或自我披露触发抽取。
func TestIsSignificant(t *testing.T) {
	intense := model.EmotionResult{State: "sad", Intensity: 8}
	calm := model.EmotionResult{State: "calm", Intensity: 3}

	assert.True(t, isSignificant("whatever", intense))
	assert.True(t, isSignificant("my dream is to open a bakery someday", calm))
	assert.True(t, isSignificant("i love hiking in the mountains", calm))
	assert.False(t, isSignificant("nice weather today", calm))
}

// TestRecordIfSignificant_ExtractsAndStores 抽取结果落库，越界值归一。
func TestRecordIfSignificant_ExtractsAndStores(t *testing.T) {
	llmClient := &fakeLLM{jsonOut: `[
		{"type":"preference","content":"loves hiking","importance":8,"emotional_context":"excited"},
		{"type":"alien_type","content":"has a cat named Momo","importance":0}
	]`}
	repo, s := newMemoryFixture(llmClient)

	s.RecordIfSignificant(context.Background(), 1, 2, "i love hiking and my cat momo", model.EmotionResult{Intensity: 8})

	require.Len(t, repo.memories, 2)
	assert.Equal(t, "preference", repo.memories[0].Type)
	assert.Equal(t, 8, repo.memories[0].Importance)
	assert.True(t, repo.memories[0].Active)
	// 未知类型归到 experience，非法重要度归到 5
	assert.Equal(t, "experience", repo.memories[1].Type)
	assert.Equal(t, 5, repo.memories[1].Importance)
}

// TestRecordIfSignificant_CapsAtTwo 每轮最多保留两条记忆。
func TestRecordIfSignificant_CapsAtTwo(t *testing.T) {
	llmClient := &fakeLLM{jsonOut: `[
		{"type":"preference","content":"a","importance":5},
		{"type":"preference","content":"b","importance":5},
		{"type":"preference","content":"c","importance":5}
	]`}
	repo, s := newMemoryFixture(llmClient)

	s.RecordIfSignificant(context.Background(), 1, 2, "msg", model.EmotionResult{Intensity: 9})
	assert.Len(t, repo.memories, 2)
}

// TestRecordIfSignificant_SkipsInsignificantAndErrors 不重要的轮次与抽取失败都不落库。
func TestRecordIfSignificant_SkipsInsignificantAndErrors(t *testing.T) {
	llmClient := &fakeLLM{jsonOut: `[{"type":"preference","content":"x","importance":5}]`}
	repo, s := newMemoryFixture(llmClient)

	s.RecordIfSignificant(context.Background(), 1, 2, "ok", model.EmotionResult{Intensity: 3})
	assert.Empty(t, repo.memories)
	assert.Equal(t, 0, llmClient.calls)

	repo, s = newMemoryFixture(&fakeLLM{err: errFake})
	s.RecordIfSignificant(context.Background(), 1, 2, "msg", model.EmotionResult{Intensity: 9})
	assert.Empty(t, repo.memories)
}

// TestRetrieveRelevant_RankedFallback 语义检索未启用时按重要度排序返回。
func TestRetrieveRelevant_RankedFallback(t *testing.T) {
	repo, s := newMemoryFixture(&fakeLLM{})
	require.NoError(t, repo.Create(&model.Memory{UserID: 1, CompanionID: 2, Content: "minor", Importance: 3, Active: true}))
	require.NoError(t, repo.Create(&model.Memory{UserID: 1, CompanionID: 2, Content: "major", Importance: 9, Active: true}))

	got := s.RetrieveRelevant(context.Background(), 1, 2, "anything", 5)
	require.Len(t, got, 2)
	assert.Equal(t, "major", got[0].Content)
}

// TestFilterRecent 剔除窗口内刚写入的记忆，窗口为 0 时不过滤。
func TestFilterRecent(t *testing.T) {
	_, s := newMemoryFixture(&fakeLLM{})
	memories := []model.Memory{
		{Content: "old", CreatedAt: time.Now().Add(-48 * time.Hour)},
		{Content: "fresh", CreatedAt: time.Now()},
	}

	got := s.FilterRecent(memories, 24)
	require.Len(t, got, 1)
	assert.Equal(t, "old", got[0].Content)

	assert.Len(t, s.FilterRecent(memories, 0), 2)
}
