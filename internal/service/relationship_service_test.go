package service

import (
	"testing"
	"time"

	"pai-companion-go/internal/config"
	"pai-companion-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRelationshipFixture(state *model.RelationshipState) (*fakeRelationshipRepo, RelationshipService) {
	repo := &fakeRelationshipRepo{state: state}
	return repo, NewRelationshipService(repo, config.DefaultEngine())
}

// TestRecordInteraction_Growth 增长公式：intimacy += 0.2×投入度，trust += 0.15×(投入度+深度)。
func TestRecordInteraction_Growth(t *testing.T) {
	_, s := newRelationshipFixture(&model.RelationshipState{
		UserID: 1, CompanionID: 2, Stage: model.StageStranger,
	})

	// 默认情绪强度 5 → 投入度 0.5，"hello" 无深度特征词
	state, err := s.RecordInteraction(1, 2, "hello", model.DefaultEmotion())
	require.NoError(t, err)

	assert.InDelta(t, 0.2*0.5, state.Intimacy, 1e-9)
	assert.InDelta(t, 0.15*0.5, state.Trust, 1e-9)
	assert.Equal(t, 1, state.ConversationCount)
	assert.WithinDuration(t, time.Now(), state.LastInteraction, time.Second)
}

// TestRecordInteraction_CapsAtTen 亲密度与信任度封顶 10。
func TestRecordInteraction_CapsAtTen(t *testing.T) {
	_, s := newRelationshipFixture(&model.RelationshipState{
		UserID: 1, CompanionID: 2, Stage: model.StageIntimate, Intimacy: 9.99, Trust: 9.99,
	})

	emotion := model.EmotionResult{State: "excited", Intensity: 9}
	state, err := s.RecordInteraction(1, 2, "this is a long and very engaged message with a question? because i feel like sharing my dream", emotion)
	require.NoError(t, err)
	assert.Equal(t, 10.0, state.Intimacy)
	assert.Equal(t, 10.0, state.Trust)
}

// TestRecordInteraction_StageAdvances 阈值 2/2、4/4、6/6、8/8 推进阶段。
func TestRecordInteraction_StageAdvances(t *testing.T) {
	cases := []struct {
		intimacy, trust float64
		stage           string
	}{
		{1, 1, model.StageStranger},
		{2, 2, model.StageAcquaintance},
		{4, 4, model.StageFriend},
		{6, 6, model.StageCloseFriend},
		{8, 8, model.StageIntimate},
		{8, 5, model.StageFriend}, // 双阈值都要满足
	}
	for _, c := range cases {
		state := &model.RelationshipState{Stage: model.StageStranger, Intimacy: c.intimacy, Trust: c.trust}
		advanceStage(state)
		assert.Equal(t, c.stage, state.Stage, "intimacy=%.0f trust=%.0f", c.intimacy, c.trust)
	}
}

// TestRecordInteraction_StageNeverRegresses 阶段只升不降。
func TestRecordInteraction_StageNeverRegresses(t *testing.T) {
	state := &model.RelationshipState{Stage: model.StageIntimate, Intimacy: 0, Trust: 0}
	advanceStage(state)
	assert.Equal(t, model.StageIntimate, state.Stage)

	state = &model.RelationshipState{Stage: model.StageRomantic, Intimacy: 6, Trust: 6}
	advanceStage(state)
	// close_friend 低于 romantic，保持不变
	assert.Equal(t, model.StageRomantic, state.Stage)
}

// TestRecordInteraction_RetriesOnce 行锁失败重试一次后成功。
func TestRecordInteraction_RetriesOnce(t *testing.T) {
	repo := &fakeRelationshipRepo{
		state:      &model.RelationshipState{UserID: 1, CompanionID: 2, Stage: model.StageStranger},
		updateErrs: 1,
	}
	s := NewRelationshipService(repo, config.DefaultEngine())

	state, err := s.RecordInteraction(1, 2, "hi there", model.DefaultEmotion())
	require.NoError(t, err)
	assert.Equal(t, 1, state.ConversationCount)
}

// TestPromoteToRomantic 恋爱表白被接受时推进到 romantic，已更高阶段不变。
func TestPromoteToRomantic(t *testing.T) {
	_, s := newRelationshipFixture(&model.RelationshipState{Stage: model.StageFriend})
	state, err := s.PromoteToRomantic(1, 2)
	require.NoError(t, err)
	assert.Equal(t, model.StageRomantic, state.Stage)

	_, s = newRelationshipFixture(&model.RelationshipState{Stage: model.StageIntimate})
	state, err = s.PromoteToRomantic(1, 2)
	require.NoError(t, err)
	assert.Equal(t, model.StageIntimate, state.Stage)
}

// TestEngagementScore 投入度 = 情绪强度 / 10。
func TestEngagementScore(t *testing.T) {
	assert.InDelta(t, 0.5, engagementScore(model.DefaultEmotion()), 1e-9)
	assert.InDelta(t, 0.1, engagementScore(model.EmotionResult{State: "calm", Intensity: 1}), 1e-9)
	assert.InDelta(t, 1.0, engagementScore(model.EmotionResult{State: "excited", Intensity: 10}), 1e-9)
}

// TestDepthScore 每 3 个不同深度特征词记满分，重复出现的词只算一次。
func TestDepthScore(t *testing.T) {
	assert.Equal(t, 0.0, depthScore("hi"))
	assert.Equal(t, 1.0, depthScore("i think this because i feel it matches my experience"))
	assert.InDelta(t, 1.0/3, depthScore("i feel like i feel"), 1e-9)
}
