package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"pai-companion-go/internal/config"
	"pai-companion-go/internal/model"
	"pai-companion-go/internal/repository"
	"pai-companion-go/internal/rules"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type proactiveFixture struct {
	llm          *fakeLLM
	relationship *fakeRelationshipRepo
	engagements  *fakeEngagementRepo
	conversation repository.ConversationRepository
	redisServer  *miniredis.Miniredis
	service      *proactiveService
}

func newProactiveFixture(t *testing.T, llmClient *fakeLLM, candidates []model.RelationshipState) *proactiveFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	relationshipRepo := &fakeRelationshipRepo{candidates: candidates}
	engagementRepo := &fakeEngagementRepo{}
	conversationRepo := repository.NewConversationRepository(client)
	memorySvc := NewMemoryService(llmClient, nil, &fakeMemoryRepo{}, config.ElasticsearchConfig{})

	svc := NewProactiveService(llmClient, relationshipRepo, engagementRepo, conversationRepo, memorySvc, config.DefaultProactive())
	return &proactiveFixture{
		llm:          llmClient,
		relationship: relationshipRepo,
		engagements:  engagementRepo,
		conversation: conversationRepo,
		redisServer:  mr,
		service:      svc.(*proactiveService),
	}
}

// TestEngagementTypeFor 按优先级匹配触达类型。
func TestEngagementTypeFor(t *testing.T) {
	f := newProactiveFixture(t, &fakeLLM{}, nil)

	cases := []struct {
		stage      string
		intimacy   float64
		hoursSince float64
		want       string
	}{
		{model.StageFriend, 4, 30, model.EngagementCheckIn},
		{model.StageRomantic, 9, 7, model.EngagementEmotionalSupport},
		{model.StageIntimate, 9, 7, model.EngagementEmotionalSupport},
		{model.StageRomantic, 5, 7, ""}, // 亲密度不够，低档类型也不覆盖 romantic
		{model.StageCloseFriend, 6, 13, model.EngagementMemoryReminder},
		{model.StageIntimate, 6, 13, model.EngagementMemoryReminder},
		{model.StageCloseFriend, 6, 3, ""}, // 记忆提醒只看 close_friend/intimate，话题建议只看 friend
		{model.StageFriend, 4, 3, model.EngagementTopicSuggestion},
		{model.StageFriend, 4, 1, ""},
		{model.StageAcquaintance, 2, 3, ""},
	}
	for _, c := range cases {
		state := model.RelationshipState{Stage: c.stage, Intimacy: c.intimacy}
		got := f.service.engagementTypeFor(state, c.hoursSince)
		assert.Equal(t, c.want, got, "stage=%s hours=%.0f", c.stage, c.hoursSince)
	}
}

// TestRunScheduleSweep_CreatesScheduledRow 合格候选产生一条 scheduled 触达。
func TestRunScheduleSweep_CreatesScheduledRow(t *testing.T) {
	candidate := model.RelationshipState{
		UserID: 1, CompanionID: 2, Stage: model.StageFriend,
		Intimacy: 4, Trust: 4, LastInteraction: time.Now().Add(-30 * time.Hour),
	}
	f := newProactiveFixture(t, &fakeLLM{response: "Hey you! How did that interview go?"}, []model.RelationshipState{candidate})

	require.NoError(t, f.service.RunScheduleSweep(context.Background()))

	require.Len(t, f.engagements.engagements, 1)
	e := f.engagements.engagements[0]
	assert.Equal(t, model.EngagementCheckIn, e.Type)
	assert.Equal(t, model.EngagementScheduled, e.Status)
	assert.Equal(t, "Hey you! How did that interview go?", e.Content)
	// 离线超过一天，一小时内尽快触达
	assert.WithinDuration(t, time.Now().Add(1*time.Hour), e.ScheduledFor, time.Minute)
}

// TestScheduleFor_SkipsPendingAndQuota 已有待处理触达或当日配额用尽时不再排期。
func TestScheduleFor_SkipsPendingAndQuota(t *testing.T) {
	candidate := model.RelationshipState{
		UserID: 1, CompanionID: 2, Stage: model.StageFriend,
		Intimacy: 4, Trust: 4, LastInteraction: time.Now().Add(-30 * time.Hour),
	}
	f := newProactiveFixture(t, &fakeLLM{response: "hey"}, []model.RelationshipState{candidate})

	// 已有 scheduled 行
	require.NoError(t, f.engagements.Create(&model.ProactiveEngagement{
		UserID: 1, CompanionID: 2, Status: model.EngagementScheduled,
		ScheduledFor: time.Now().Add(time.Hour),
	}))
	require.NoError(t, f.service.RunScheduleSweep(context.Background()))
	assert.Len(t, f.engagements.engagements, 1)

	// 配额用尽：24 小时内已创建 3 条已发送的触达
	f.engagements.engagements = nil
	for i := 0; i < 3; i++ {
		require.NoError(t, f.engagements.Create(&model.ProactiveEngagement{
			UserID: 1, CompanionID: 2, Status: model.EngagementSent,
			ScheduledFor: time.Now().Add(-time.Hour),
		}))
	}
	require.NoError(t, f.service.RunScheduleSweep(context.Background()))
	assert.Len(t, f.engagements.engagements, 3)
}

// TestGenerateMessage_FallbackAndTruncation 生成失败用保底文案，超长在句子边界截断。
func TestGenerateMessage_FallbackAndTruncation(t *testing.T) {
	state := model.RelationshipState{UserID: 1, CompanionID: 2, Stage: model.StageFriend}

	f := newProactiveFixture(t, &fakeLLM{err: errFake}, nil)
	got := f.service.generateMessage(context.Background(), state, model.EngagementCheckIn)
	assert.Equal(t, rules.ProactiveFallbackMessage, got)

	long := strings.Repeat("This opener keeps going on. ", 10)
	f = newProactiveFixture(t, &fakeLLM{response: long}, nil)
	got = f.service.generateMessage(context.Background(), state, model.EngagementCheckIn)
	assert.LessOrEqual(t, len(got), 100)
	assert.NotEmpty(t, got)
}

// TestGenerateMessage_HumanizesDraft 主动消息草稿走拟人链，暴露身份的草稿过不了终检换保底文案。
func TestGenerateMessage_HumanizesDraft(t *testing.T) {
	state := model.RelationshipState{UserID: 1, CompanionID: 2, Stage: model.StageFriend}

	f := newProactiveFixture(t, &fakeLLM{response: "As an AI, I was thinking about you"}, nil)
	got := f.service.generateMessage(context.Background(), state, model.EngagementCheckIn)
	assert.Equal(t, rules.ProactiveFallbackMessage, got)

	f = newProactiveFixture(t, &fakeLLM{response: "I cannot stop thinking about our chat"}, nil)
	got = f.service.generateMessage(context.Background(), state, model.EngagementCheckIn)
	assert.Equal(t, "i can't stop thinking about our chat", got)
}

// TestRunDispatchSweep_SendsDueEngagement 到期触达写进对话历史并标记 sent。
func TestRunDispatchSweep_SendsDueEngagement(t *testing.T) {
	f := newProactiveFixture(t, &fakeLLM{}, nil)
	require.NoError(t, f.engagements.Create(&model.ProactiveEngagement{
		UserID: 1, CompanionID: 2, Type: model.EngagementCheckIn,
		Content: "Hey, been thinking about you!", Status: model.EngagementScheduled,
		ScheduledFor: time.Now().Add(-time.Minute),
	}))

	require.NoError(t, f.service.RunDispatchSweep(context.Background()))

	assert.Equal(t, model.EngagementSent, f.engagements.engagements[0].Status)
	require.NotNil(t, f.engagements.engagements[0].SentAt)

	convID, err := f.conversation.GetOrCreateConversationID(context.Background(), 1, 2)
	require.NoError(t, err)
	history, err := f.conversation.GetConversationHistory(context.Background(), convID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "assistant", history[0].Role)
	assert.Equal(t, "Hey, been thinking about you!", history[0].Content)
}

// TestRunDispatchSweep_MarksFailedAsIgnored 派发失败置为 ignored 终态。
func TestRunDispatchSweep_MarksFailedAsIgnored(t *testing.T) {
	f := newProactiveFixture(t, &fakeLLM{}, nil)
	require.NoError(t, f.engagements.Create(&model.ProactiveEngagement{
		UserID: 1, CompanionID: 2, Type: model.EngagementCheckIn,
		Content: "hello", Status: model.EngagementScheduled,
		ScheduledFor: time.Now().Add(-time.Minute),
	}))

	f.redisServer.Close() // 对话历史不可写，派发必然失败

	require.NoError(t, f.service.RunDispatchSweep(context.Background()))
	assert.Equal(t, model.EngagementIgnored, f.engagements.engagements[0].Status)
}
