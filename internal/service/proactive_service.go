package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pai-companion-go/internal/config"
	"pai-companion-go/internal/model"
	"pai-companion-go/internal/repository"
	"pai-companion-go/internal/rules"
	"pai-companion-go/pkg/kafka"
	"pai-companion-go/pkg/llm"
	"pai-companion-go/pkg/log"
	"pai-companion-go/pkg/tasks"
)

// ProactiveService 定义了主动触达调度器的接口。
// 排期扫描挑选冷却中的关系并创建 scheduled 行，
// 派发扫描把到期的行发出去。两个扫描由独立的定时器驱动。
type ProactiveService interface {
	// RunScheduleSweep 跑一轮排期扫描。候选查询失败时中止整轮并返回错误，
	// 单个候选的失败只跳过该候选。
	RunScheduleSweep(ctx context.Context) error
	// RunDispatchSweep 派发到期的触达。派发失败的行置为 ignored 终态，不重试。
	RunDispatchSweep(ctx context.Context) error
	// Engagements 返回某对最近的触达记录。
	Engagements(userID, companionID uint, limit int) ([]model.ProactiveEngagement, error)
}

type proactiveService struct {
	llmClient        llm.Client
	relationshipRepo repository.RelationshipRepository
	engagementRepo   repository.EngagementRepository
	conversationRepo repository.ConversationRepository
	memoryService    MemoryService
	proactiveCfg     config.ProactiveConfig
}

// NewProactiveService 创建一个新的 ProactiveService 实例。
func NewProactiveService(
	llmClient llm.Client,
	relationshipRepo repository.RelationshipRepository,
	engagementRepo repository.EngagementRepository,
	conversationRepo repository.ConversationRepository,
	memoryService MemoryService,
	proactiveCfg config.ProactiveConfig,
) ProactiveService {
	return &proactiveService{
		llmClient:        llmClient,
		relationshipRepo: relationshipRepo,
		engagementRepo:   engagementRepo,
		conversationRepo: conversationRepo,
		memoryService:    memoryService,
		proactiveCfg:     proactiveCfg,
	}
}

// RunScheduleSweep 扫描满足门槛的关系并为其排期主动消息。
func (s *proactiveService) RunScheduleSweep(ctx context.Context) error {
	now := time.Now()
	before := now.Add(-time.Duration(s.proactiveCfg.MinIntervalHours) * time.Hour)

	candidates, err := s.relationshipRepo.FindEngagementCandidates(
		model.StageRank(s.proactiveCfg.MinRelationshipStage),
		s.proactiveCfg.MinIntimacyLevel,
		s.proactiveCfg.MinTrustLevel,
		before,
		s.proactiveCfg.MaxScheduledEngagements,
	)
	if err != nil {
		return fmt.Errorf("find engagement candidates: %w", err)
	}

	scheduled := 0
	for _, state := range candidates {
		if err := s.scheduleFor(ctx, state, now); err != nil {
			log.Warnf("排期主动消息失败: userID=%d, companionID=%d, err=%v", state.UserID, state.CompanionID, err)
			continue
		}
		scheduled++
	}
	log.Infof("排期扫描完成: 候选 %d, 新排期 %d", len(candidates), scheduled)
	return nil
}

// scheduleFor 为单个候选排期。已有待处理触达或当日配额用尽时静默跳过。
func (s *proactiveService) scheduleFor(ctx context.Context, state model.RelationshipState, now time.Time) error {
	pending, err := s.engagementRepo.HasPending(state.UserID, state.CompanionID, now)
	if err != nil {
		return err
	}
	if pending {
		return nil
	}

	created, err := s.engagementRepo.CountCreatedSince(state.UserID, state.CompanionID, now.Add(-24*time.Hour))
	if err != nil {
		return err
	}
	if created >= int64(s.proactiveCfg.MaxEngagementsPerDay) {
		return nil
	}

	hoursSince := now.Sub(state.LastInteraction).Hours()
	engagementType := s.engagementTypeFor(state, hoursSince)
	if engagementType == "" {
		return nil
	}

	content := s.generateMessage(ctx, state, engagementType)

	// 离线超过一天的用户尽快触达，其他人再等一个缓冲窗口
	scheduledFor := now.Add(3 * time.Hour)
	if hoursSince >= float64(s.proactiveCfg.CheckInAfterHours) {
		scheduledFor = now.Add(1 * time.Hour)
	}

	return s.engagementRepo.Create(&model.ProactiveEngagement{
		UserID:       state.UserID,
		CompanionID:  state.CompanionID,
		Type:         engagementType,
		Content:      content,
		ScheduledFor: scheduledFor,
		Status:       model.EngagementScheduled,
	})
}

// engagementTypeFor 按优先级从高到低匹配触达类型，全不匹配返回空。
func (s *proactiveService) engagementTypeFor(state model.RelationshipState, hoursSince float64) string {
	rank := model.StageRank(state.Stage)
	switch {
	case hoursSince >= float64(s.proactiveCfg.CheckInAfterHours):
		return model.EngagementCheckIn
	case rank >= model.StageRank(model.StageRomantic) && state.Intimacy >= 8 &&
		hoursSince >= float64(s.proactiveCfg.EmotionalSupportAfterHrs):
		return model.EngagementEmotionalSupport
	case (state.Stage == model.StageCloseFriend || state.Stage == model.StageIntimate) &&
		hoursSince >= float64(s.proactiveCfg.MemoryReminderAfterHours):
		return model.EngagementMemoryReminder
	case state.Stage == model.StageFriend &&
		hoursSince >= float64(s.proactiveCfg.MinIntervalHours):
		return model.EngagementTopicSuggestion
	default:
		return ""
	}
}

// generateMessage 生成主动消息文案，任何失败都回退到固定兜底。
func (s *proactiveService) generateMessage(ctx context.Context, state model.RelationshipState, engagementType string) string {
	var memoryLines []string
	memories, err := s.memoryService.TopByImportance(state.UserID, state.CompanionID, 3)
	if err != nil {
		log.Warnf("读取记忆失败，不带记忆生成主动消息: userID=%d, err=%v", state.UserID, err)
	} else {
		for _, m := range memories {
			memoryLines = append(memoryLines, "- "+m.Content)
		}
	}

	prompt := fmt.Sprintf(`You are texting a friend first after %s. Message type: %s.
Relationship stage: %s.`, "a while", engagementType, state.Stage)
	if len(memoryLines) > 0 {
		prompt += "\nThings you remember about them:\n" + strings.Join(memoryLines, "\n")
	}
	prompt += fmt.Sprintf("\nWrite ONE short casual opening message (max %d characters). Reply with ONLY the message.", s.proactiveCfg.MaxMessageLength)

	temp := s.proactiveCfg.MessageTemperature
	maxTokens := 60
	content, err := s.llmClient.Generate(ctx,
		[]llm.Message{{Role: "user", Content: prompt}},
		"",
		&llm.GenerationParams{Temperature: &temp, MaxTokens: &maxTokens})
	if err != nil {
		log.Warnf("生成主动消息失败，使用兜底文案: userID=%d, err=%v", state.UserID, err)
		return rules.ProactiveFallbackMessage
	}
	content = strings.TrimSpace(strings.Trim(content, `"`))
	if content == "" {
		return rules.ProactiveFallbackMessage
	}
	// 主动消息走和普通回复相同的拟人链与终检
	content = humanize(content, model.DefaultEmotion(), 0, s.proactiveCfg.MaxMessageLength)
	if !isValidHumanized(content) {
		return rules.ProactiveFallbackMessage
	}
	return content
}

// RunDispatchSweep 把到期的 scheduled 行逐条派发。
func (s *proactiveService) RunDispatchSweep(ctx context.Context) error {
	now := time.Now()
	due, err := s.engagementRepo.FindDue(now, s.proactiveCfg.DispatchBatchSize)
	if err != nil {
		return fmt.Errorf("find due engagements: %w", err)
	}

	for _, e := range due {
		if err := s.dispatch(ctx, e, now); err != nil {
			log.Errorf("派发主动消息失败，置为 ignored: engagementID=%d, err=%v", e.ID, err)
			if markErr := s.engagementRepo.MarkIgnored(e.ID); markErr != nil {
				log.Errorf("标记 ignored 失败: engagementID=%d, err=%v", e.ID, markErr)
			}
		}
	}
	if len(due) > 0 {
		log.Infof("派发扫描完成: %d 条到期", len(due))
	}
	return nil
}

// dispatch 把消息写进对话历史，标记已发送，并推送实时通知。
func (s *proactiveService) dispatch(ctx context.Context, e model.ProactiveEngagement, now time.Time) error {
	conversationID, err := s.conversationRepo.GetOrCreateConversationID(ctx, e.UserID, e.CompanionID)
	if err != nil {
		return err
	}
	if err := s.conversationRepo.AppendMessages(ctx, conversationID,
		model.ChatMessage{Role: "assistant", Content: e.Content, Timestamp: now}); err != nil {
		return err
	}
	if err := s.engagementRepo.MarkSent(e.ID, now); err != nil {
		return err
	}
	// 通知尽力而为，失败只记日志，不回滚已发送状态
	kafka.ProduceEngagementNotification(tasks.EngagementNotification{
		EngagementID:   e.ID,
		UserID:         e.UserID,
		CompanionID:    e.CompanionID,
		ConversationID: conversationID,
		Type:           e.Type,
		Content:        e.Content,
		SentAt:         now,
	})
	return nil
}

// Engagements 透传仓库查询。
func (s *proactiveService) Engagements(userID, companionID uint, limit int) ([]model.ProactiveEngagement, error) {
	return s.engagementRepo.FindByPair(userID, companionID, limit)
}
