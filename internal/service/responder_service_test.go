package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"pai-companion-go/internal/config"
	"pai-companion-go/internal/repository"
	"pai-companion-go/internal/rules"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type responderFixture struct {
	llm          *fakeLLM
	conversation repository.ConversationRepository
	relationship *fakeRelationshipRepo
	moderation   *fakeModerationLogRepo
	memories     *fakeMemoryRepo
	service      ResponderService
}

func newResponderFixture(t *testing.T, llmClient *fakeLLM) *responderFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	engineCfg := config.DefaultEngine()
	conversationRepo := repository.NewConversationRepository(client)
	relationshipRepo := &fakeRelationshipRepo{}
	moderationRepo := &fakeModerationLogRepo{}
	memoryRepo := &fakeMemoryRepo{}

	languageSvc := NewLanguageService()
	exampleSvc := NewExampleService(&fakePatternRepo{}, engineCfg)
	require.NoError(t, exampleSvc.Load())

	svc := NewResponderService(
		llmClient,
		conversationRepo,
		&fakeProfileRepo{},
		languageSvc,
		NewModerationService(languageSvc, moderationRepo),
		NewEmotionService(llmClient, &fakeEmotionRepo{}),
		NewMemoryService(llmClient, nil, memoryRepo, config.ElasticsearchConfig{}),
		exampleSvc,
		NewTopicService(&fakeTopicRepo{}),
		NewStyleService(conversationRepo),
		NewRelationshipService(relationshipRepo, engineCfg),
		engineCfg,
	)
	return &responderFixture{
		llm:          llmClient,
		conversation: conversationRepo,
		relationship: relationshipRepo,
		moderation:   moderationRepo,
		memories:     memoryRepo,
		service:      svc,
	}
}

// TestHandleUserMessage_FullTurn 正常消息走完整链路：回复、历史、关系增长、审计。
func TestHandleUserMessage_FullTurn(t *testing.T) {
	f := newResponderFixture(t, &fakeLLM{
		jsonOut:  `{"state":"happy","intensity":5,"suggested_response_tone":"warm"}`,
		response: "omg same, i stayed up way too late watching that show. which episode are you on?",
	})

	resp, err := f.service.HandleUserMessage(context.Background(), ChatRequest{
		UserID: 1, CompanionID: 2, Message: "i watched that new show on netflix yesterday",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ConversationID)
	assert.Contains(t, strings.ToLower(resp.Response), "which episode")
	assert.Equal(t, "happy", resp.Emotion.State)
	assert.Equal(t, "entertainment", resp.TopicLabel)
	assert.Equal(t, rules.CategoryNormal, resp.Moderation)
	assert.Equal(t, "en", resp.Language)

	// 关系增长落账
	require.NotNil(t, resp.Relationship)
	assert.Equal(t, 1, resp.Relationship.ConversationCount)

	// 这一轮写回了历史
	history, err := f.conversation.GetConversationHistory(context.Background(), resp.ConversationID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)

	// 入站与出站各一条审计
	assert.Len(t, f.moderation.entries, 2)

	// 轮次锁已释放，下一轮可以进来
	_, err = f.service.HandleUserMessage(context.Background(), ChatRequest{
		UserID: 1, CompanionID: 2, Message: "and the finale was wild",
	})
	assert.NoError(t, err)
}

// TestHandleUserMessage_TurnLockBusy 同一对已有进行中的轮次时返回 ErrTurnInProgress。
func TestHandleUserMessage_TurnLockBusy(t *testing.T) {
	f := newResponderFixture(t, &fakeLLM{response: "hey"})

	held, err := f.conversation.AcquireTurnLock(context.Background(), 1, 2, 30*time.Second)
	require.NoError(t, err)
	require.True(t, held)

	_, err = f.service.HandleUserMessage(context.Background(), ChatRequest{
		UserID: 1, CompanionID: 2, Message: "hello there friend",
	})
	assert.ErrorIs(t, err, ErrTurnInProgress)
}

// TestHandleUserMessage_SelfHarmShortCircuits 自伤消息跳过生成链，直接回支持模板。
func TestHandleUserMessage_SelfHarmShortCircuits(t *testing.T) {
	f := newResponderFixture(t, &fakeLLM{response: "should never be used"})

	resp, err := f.service.HandleUserMessage(context.Background(), ChatRequest{
		UserID: 1, CompanionID: 2, Message: "i want to die",
	})
	require.NoError(t, err)

	assert.Equal(t, rules.CategorySelfHarm, resp.Moderation)
	assert.NotEmpty(t, resp.Response)
	assert.NotContains(t, resp.Response, "should never be used")
	assert.Equal(t, 0, f.llm.calls)
	// 短路轮次不计入关系增长
	assert.Nil(t, resp.Relationship)

	history, err := f.conversation.GetConversationHistory(context.Background(), resp.ConversationID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

// TestHandleUserMessage_GreetingUsesTemplate 问候不走生成链，只有情绪检测调用生成服务。
func TestHandleUserMessage_GreetingUsesTemplate(t *testing.T) {
	f := newResponderFixture(t, &fakeLLM{
		jsonOut:  `{"state":"happy","intensity":4,"suggested_response_tone":"warm"}`,
		response: "should never be used",
	})

	resp, err := f.service.HandleUserMessage(context.Background(), ChatRequest{
		UserID: 1, CompanionID: 2, Message: "hi",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Response)
	assert.NotContains(t, resp.Response, "should never be used")
	assert.Less(t, utf8.RuneCountInString(resp.Response), 20, "问候回复要短")
	assert.Equal(t, 1, f.llm.calls) // 仅情绪检测
}

// TestHandleUserMessage_ProviderFailureFallsBack 生成服务失败时给确定性保底回复。
func TestHandleUserMessage_ProviderFailureFallsBack(t *testing.T) {
	f := newResponderFixture(t, &fakeLLM{err: errFake})

	resp, err := f.service.HandleUserMessage(context.Background(), ChatRequest{
		UserID: 1, CompanionID: 2, Message: "i had a really rough day at work today honestly",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Response)
	assert.True(t, isValidHumanized(resp.Response), "fallback should pass validation: %q", resp.Response)
}
