package service

import (
	"strings"
	"time"

	"pai-companion-go/internal/config"
	"pai-companion-go/internal/model"
	"pai-companion-go/internal/repository"
	"pai-companion-go/internal/rules"
	"pai-companion-go/pkg/log"
)

// RelationshipService 定义了关系状态机的接口。
// 亲密度与信任度在 [0,10] 内单调不减，阶段只升不降。
type RelationshipService interface {
	// GetOrCreate 取关系行，不存在则按 stranger 初始化。
	GetOrCreate(userID, companionID uint) (*model.RelationshipState, error)
	Find(userID, companionID uint) (*model.RelationshipState, error)
	// RecordInteraction 按本轮的投入度与深度增长关系值并推进阶段。
	// 行锁冲突重试一次，仍失败时返回错误由调用方决定是否忽略。
	RecordInteraction(userID, companionID uint, message string, emotion model.EmotionResult) (*model.RelationshipState, error)
	// PromoteToRomantic 在恋爱表白被接受时把阶段直接推进到 romantic。
	// 阶段单调：当前阶段已不低于 romantic 时不变。
	PromoteToRomantic(userID, companionID uint) (*model.RelationshipState, error)
}

type relationshipService struct {
	relationshipRepo repository.RelationshipRepository
	engineCfg        config.EngineConfig
}

// NewRelationshipService 创建一个新的 RelationshipService 实例。
func NewRelationshipService(relationshipRepo repository.RelationshipRepository, engineCfg config.EngineConfig) RelationshipService {
	return &relationshipService{
		relationshipRepo: relationshipRepo,
		engineCfg:        engineCfg,
	}
}

func (s *relationshipService) GetOrCreate(userID, companionID uint) (*model.RelationshipState, error) {
	return s.relationshipRepo.GetOrCreate(userID, companionID)
}

func (s *relationshipService) Find(userID, companionID uint) (*model.RelationshipState, error) {
	return s.relationshipRepo.Find(userID, companionID)
}

// RecordInteraction 增长公式：
// intimacy += 亲密增长率 × 投入度，trust += 信任增长率 × (投入度 + 深度)，均封顶 10。
func (s *relationshipService) RecordInteraction(userID, companionID uint, message string, emotion model.EmotionResult) (*model.RelationshipState, error) {
	engagement := engagementScore(emotion)
	depth := depthScore(message)

	apply := func(state *model.RelationshipState) {
		state.Intimacy = capTen(state.Intimacy + s.engineCfg.IntimacyGrowthRate*engagement)
		state.Trust = capTen(state.Trust + s.engineCfg.TrustGrowthRate*(engagement+depth))
		state.ConversationCount++
		state.LastInteraction = time.Now()
		advanceStage(state)
	}

	state, err := s.relationshipRepo.UpdateLocked(userID, companionID, apply)
	if err != nil {
		log.Warnf("更新关系状态失败，重试一次: userID=%d, err=%v", userID, err)
		state, err = s.relationshipRepo.UpdateLocked(userID, companionID, apply)
	}
	return state, err
}

// PromoteToRomantic 行锁内推进阶段。
func (s *relationshipService) PromoteToRomantic(userID, companionID uint) (*model.RelationshipState, error) {
	return s.relationshipRepo.UpdateLocked(userID, companionID, func(state *model.RelationshipState) {
		if model.StageRank(state.Stage) < model.StageRank(model.StageRomantic) {
			state.Stage = model.StageRomantic
		}
	})
}

// advanceStage 按阈值推导目标阶段，只在目标高于当前时推进。
// 阈值：8/8 intimate，6/6 close_friend，4/4 friend，2/2 acquaintance。
func advanceStage(state *model.RelationshipState) {
	target := model.StageStranger
	switch {
	case state.Intimacy >= 8 && state.Trust >= 8:
		target = model.StageIntimate
	case state.Intimacy >= 6 && state.Trust >= 6:
		target = model.StageCloseFriend
	case state.Intimacy >= 4 && state.Trust >= 4:
		target = model.StageFriend
	case state.Intimacy >= 2 && state.Trust >= 2:
		target = model.StageAcquaintance
	}
	if model.StageRank(target) > model.StageRank(state.Stage) {
		state.Stage = target
	}
}

// engagementScore 投入度取情绪强度归一化到 [0,1]。
func engagementScore(emotion model.EmotionResult) float64 {
	return float64(emotion.Intensity) / 10.0
}

// depthScore 按命中的不同深度特征词数估计深度，每 3 个算满分。
// 同一个词重复出现只算一次。
func depthScore(message string) float64 {
	matches := rules.DepthPattern.FindAllString(strings.ToLower(message), -1)
	distinct := make(map[string]bool, len(matches))
	for _, m := range matches {
		distinct[m] = true
	}
	score := float64(len(distinct)) / 3.0
	if score > 1 {
		score = 1
	}
	return score
}

func capTen(v float64) float64 {
	if v > 10 {
		return 10
	}
	return v
}
