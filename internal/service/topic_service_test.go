package service

import (
	"testing"

	"pai-companion-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAnalyze_TopicScoring 关键词命中最多的话题胜出，全不命中为 general。
func TestAnalyze_TopicScoring(t *testing.T) {
	s := NewTopicService(&fakeTopicRepo{})

	a := s.Analyze("conv-1", "my boss moved the project deadline again", nil, "casual")
	assert.Equal(t, "work", a.Topic)
	assert.Greater(t, a.Confidence, 0.3)

	a = s.Analyze("conv-1", "xyzzy plugh", nil, "casual")
	assert.Equal(t, "general", a.Topic)
	assert.Equal(t, 0.3, a.Confidence)
}

// TestAnalyze_Transitions 延续 / 切换 / 回归三种过渡类型。
func TestAnalyze_Transitions(t *testing.T) {
	repo := &fakeTopicRepo{}
	s := NewTopicService(repo)

	a := s.Analyze("conv-1", "work is busy with a new project", nil, "casual")
	assert.Equal(t, model.TransitionSwitch, a.TransitionType) // 空轨迹按切换处理

	a = s.Analyze("conv-1", "yeah the meeting with my boss went fine", nil, "casual")
	assert.Equal(t, model.TransitionContinuation, a.TransitionType)
	assert.False(t, a.IsNewTopic)

	a = s.Analyze("conv-1", "anyway i watched a movie on netflix", nil, "casual")
	assert.Equal(t, "entertainment", a.Topic)
	assert.Equal(t, model.TransitionSwitch, a.TransitionType)
	assert.True(t, a.IsNewTopic)
	assert.NotEmpty(t, a.TransitionPhrase)

	a = s.Analyze("conv-1", "back to work stuff, my colleague quit", nil, "casual")
	assert.Equal(t, "work", a.Topic)
	assert.Equal(t, model.TransitionReturn, a.TransitionType)
}

// TestAnalyze_DepthAndPriority 深度特征词分档，兴趣命中抬高优先级。
func TestAnalyze_DepthAndPriority(t *testing.T) {
	s := NewTopicService(&fakeTopicRepo{})

	deep := s.Analyze("conv-2", "i think about my career goal a lot because this job shapes my dream", []string{"work"}, "casual")
	assert.Equal(t, "work", deep.Topic)
	assert.Equal(t, "deep", deep.Depth)
	assert.True(t, deep.InterestMatch)
	assert.Equal(t, "high", deep.Priority)

	shallow := s.Analyze("conv-2", "lunch was ok", nil, "casual")
	assert.Equal(t, "shallow", shallow.Depth)
	assert.Equal(t, "low", shallow.Priority)
}

// TestAnalyze_PersistsTrajectory 每轮分析写入一条轨迹记录。
func TestAnalyze_PersistsTrajectory(t *testing.T) {
	repo := &fakeTopicRepo{}
	s := NewTopicService(repo)

	s.Analyze("conv-3", "work meeting today", nil, "casual")
	s.Analyze("conv-3", "dinner at a new restaurant", nil, "casual")

	require.Len(t, repo.topics, 2)
	assert.Equal(t, "food", repo.topics[0].Label) // 最近的在前
	assert.Equal(t, "work", repo.topics[1].Label)

	labels := s.RecentTopics("conv-3", 5)
	assert.Equal(t, []string{"food", "work"}, labels)
}
