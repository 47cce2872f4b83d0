package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pai-companion-go/internal/config"
	"pai-companion-go/internal/model"
	"pai-companion-go/internal/repository"
	"pai-companion-go/internal/rules"
	"pai-companion-go/pkg/llm"
	"pai-companion-go/pkg/log"
)

// ErrTurnInProgress 表示同一 (用户, 伴侣) 已有一轮对话在处理中。
var ErrTurnInProgress = errors.New("a turn is already in progress for this pair")

// ChatRequest 是一轮对话的输入。
type ChatRequest struct {
	UserID      uint   `json:"userId" binding:"required"`
	CompanionID uint   `json:"companionId" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

// ChatResponse 是一轮对话的完整结果。
type ChatResponse struct {
	ConversationID string                   `json:"conversationId"`
	Response       string                   `json:"response"`
	Emotion        model.EmotionResult      `json:"emotion"`
	Topic          model.TopicAnalysis      `json:"-"`
	TopicLabel     string                   `json:"topic"`
	Relationship   *model.RelationshipState `json:"relationship,omitempty"`
	Moderation     string                   `json:"moderationCategory"`
	Language       string                   `json:"language"`
}

// ResponderService 是对话引擎的编排层：一轮用户消息从进到出的全部阶段都在这里串联。
type ResponderService interface {
	HandleUserMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type responderService struct {
	llmClient           llm.Client
	conversationRepo    repository.ConversationRepository
	profileRepo         repository.ProfileRepository
	languageService     LanguageService
	moderationService   ModerationService
	emotionService      EmotionService
	memoryService       MemoryService
	exampleService      ExampleService
	topicService        TopicService
	styleService        StyleService
	relationshipService RelationshipService
	engineCfg           config.EngineConfig
}

// NewResponderService 创建一个新的 ResponderService 实例。
func NewResponderService(
	llmClient llm.Client,
	conversationRepo repository.ConversationRepository,
	profileRepo repository.ProfileRepository,
	languageService LanguageService,
	moderationService ModerationService,
	emotionService EmotionService,
	memoryService MemoryService,
	exampleService ExampleService,
	topicService TopicService,
	styleService StyleService,
	relationshipService RelationshipService,
	engineCfg config.EngineConfig,
) ResponderService {
	return &responderService{
		llmClient:           llmClient,
		conversationRepo:    conversationRepo,
		profileRepo:         profileRepo,
		languageService:     languageService,
		moderationService:   moderationService,
		emotionService:      emotionService,
		memoryService:       memoryService,
		exampleService:      exampleService,
		topicService:        topicService,
		styleService:        styleService,
		relationshipService: relationshipService,
		engineCfg:           engineCfg,
	}
}

// HandleUserMessage 处理一轮用户消息。
// 同一对 (用户, 伴侣) 的轮次必须串行，入口先抢轮次锁。
func (s *responderService) HandleUserMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	lockTTL := time.Duration(s.engineCfg.TurnLockSeconds) * time.Second
	acquired, err := s.conversationRepo.AcquireTurnLock(ctx, req.UserID, req.CompanionID, lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire turn lock: %w", err)
	}
	if !acquired {
		return nil, ErrTurnInProgress
	}
	defer func() {
		if err := s.conversationRepo.ReleaseTurnLock(context.Background(), req.UserID, req.CompanionID); err != nil {
			log.Warnf("释放轮次锁失败: userID=%d, err=%v", req.UserID, err)
		}
	}()

	conversationID, err := s.conversationRepo.GetOrCreateConversationID(ctx, req.UserID, req.CompanionID)
	if err != nil {
		return nil, fmt.Errorf("resolve conversation: %w", err)
	}

	relationship, err := s.relationshipService.GetOrCreate(req.UserID, req.CompanionID)
	if err != nil {
		return nil, fmt.Errorf("load relationship: %w", err)
	}

	// 画像与人设缺失不阻断轮次，缺啥少啥照常生成
	profile, err := s.profileRepo.FindUserProfile(req.UserID)
	if err != nil {
		log.Warnf("读取用户画像失败: userID=%d, err=%v", req.UserID, err)
	}
	companion, err := s.profileRepo.FindCompanion(req.CompanionID)
	if err != nil {
		log.Warnf("读取伴侣人设失败: companionID=%d, err=%v", req.CompanionID, err)
	}

	history, err := s.conversationRepo.GetConversationHistory(ctx, conversationID)
	if err != nil {
		log.Warnf("读取对话历史失败: conversationID=%s, err=%v", conversationID, err)
		history = nil
	}

	// 入站审核。self_harm 与 hate_speech 直接走模板回复，跳过整条生成链
	assessment := s.moderationService.Analyze(req.Message, relationship.Stage, profile)
	s.moderationService.Log(req.UserID, req.Message, "input", assessment)
	if assessment.ShortCircuits() {
		response := assessment.SuggestedResponse
		s.appendTurn(conversationID, req.Message, response)
		return &ChatResponse{
			ConversationID: conversationID,
			Response:       response,
			Emotion:        model.DefaultEmotion(),
			Moderation:     assessment.Category,
			Language:       assessment.Language,
		}, nil
	}

	emotion := s.emotionService.Detect(ctx, req.UserID, req.CompanionID, req.Message, history)
	style := s.styleService.Current(ctx, req.UserID)

	var interests []string
	if profile != nil {
		interests = profile.InterestList()
	}
	topic := s.topicService.Analyze(conversationID, req.Message, interests, style.FormalityLevel)

	var response string
	if isGreetingMessage(req.Message) {
		// 问候不值得整条生成链，模板直接回
		response = s.languageService.Template(assessment.Language, "greeting")
	} else {
		response = s.generateResponse(ctx, req, assessment, emotion, topic, style, relationship, profile, companion, history)
	}

	// 出站审核：伴侣的回复同样不允许触碰红线
	outAssessment := s.moderationService.Analyze(response, relationship.Stage, profile)
	s.moderationService.Log(req.UserID, response, "output", outAssessment)
	if outAssessment.ShortCircuits() {
		response = fallbackReply(emotion, req.Message)
	}

	s.appendTurn(conversationID, req.Message, response)
	s.runSideEffects(req, assessment, emotion)

	updated, err := s.relationshipService.RecordInteraction(req.UserID, req.CompanionID, req.Message, emotion)
	if err != nil {
		log.Errorf("记录关系增长失败: userID=%d, err=%v", req.UserID, err)
		updated = relationship
	}

	return &ChatResponse{
		ConversationID: conversationID,
		Response:       response,
		Emotion:        emotion,
		Topic:          topic,
		TopicLabel:     topic.Topic,
		Relationship:   updated,
		Moderation:     assessment.Category,
		Language:       assessment.Language,
	}, nil
}

// generateResponse 走完整生成链：检索 → 生成 → 连贯性再生成 → emoji → 人性化 → 终检。
func (s *responderService) generateResponse(
	ctx context.Context,
	req ChatRequest,
	assessment model.ModerationAssessment,
	emotion model.EmotionResult,
	topic model.TopicAnalysis,
	style model.CommunicationStyle,
	relationship *model.RelationshipState,
	profile *model.UserProfile,
	companion *model.Companion,
	history []model.ChatMessage,
) string {
	memories := s.memoryService.RetrieveRelevant(ctx, req.UserID, req.CompanionID, req.Message, s.engineCfg.MemoryRetrievalLimit)
	memories = s.memoryService.FilterRecent(memories, s.engineCfg.MemoryRecentHours)

	examples := s.exampleService.Retrieve(req.Message, topic.Topic, emotion.State)
	if len(examples) > s.engineCfg.MaxRAGExamples {
		examples = examples[:s.engineCfg.MaxRAGExamples]
	}

	systemPrompt := s.buildSystemPrompt(assessment, emotion, topic, style, relationship, profile, companion, memories, examples)
	messages := s.composeMessages(history, req.Message)

	temp := s.engineCfg.Temperature
	maxTokens := s.engineCfg.MaxTokens
	draft, err := s.llmClient.Generate(ctx, messages, systemPrompt, &llm.GenerationParams{
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		log.Warnf("生成回复失败，使用保底回复: userID=%d, err=%v", req.UserID, err)
		return fallbackReply(emotion, req.Message)
	}

	alignment := s.exampleService.AlignmentScore(draft, req.Message, emotion, examples)
	if needsRefinement(draft) || alignment <= 0.7 {
		draft = s.refine(ctx, draft, req.Message, topic, emotion, systemPrompt)
	}

	draft = augmentEmojis(draft, emotion, style)
	draft = humanize(draft, emotion, s.engineCfg.MinResponseLength, s.engineCfg.MaxResponseLength)
	if !isValidHumanized(draft) {
		return fallbackReply(emotion, req.Message)
	}
	return draft
}

// refine 针对不合格的草稿做一次再生成，失败时沿用原草稿。
func (s *responderService) refine(ctx context.Context, draft, userMessage string, topic model.TopicAnalysis, emotion model.EmotionResult, systemPrompt string) string {
	keepers := conversationKeepers(topic.Topic, emotion)
	prompt := fmt.Sprintf(`Your previous reply felt like it was ending the conversation or sounded too generic:
"%s"

The user said: "%s"

Rewrite the reply so it keeps the conversation going. Stay casual, stay short, and ask something back. Ideas: %s
Reply with ONLY the new message.`, draft, userMessage, strings.Join(keepers, " / "))

	temp := s.engineCfg.Temperature
	maxTokens := s.engineCfg.RefineMaxTokens
	refined, err := s.llmClient.Generate(ctx,
		[]llm.Message{{Role: "user", Content: prompt}},
		systemPrompt,
		&llm.GenerationParams{Temperature: &temp, MaxTokens: &maxTokens})
	if err != nil {
		log.Warnf("再生成失败，沿用原草稿: err=%v", err)
		return draft
	}
	return refined
}

// conversationKeepers 拼接话题与情绪相关的接话建议。
func conversationKeepers(topic string, emotion model.EmotionResult) []string {
	keepers := append([]string{}, rules.BaseConversationKeepers...)
	if topicKeepers, ok := rules.TopicConversationKeepers[topic]; ok {
		keepers = append(keepers, topicKeepers...)
	}
	if emotion.Intensity >= 7 {
		switch emotion.State {
		case "happy", "excited", "content", "loving":
			keepers = append(keepers, rules.PositiveEmotionKeepers...)
		case "sad", "frustrated", "anxious":
			keepers = append(keepers, rules.NegativeEmotionKeepers...)
		}
	}
	if len(keepers) > 6 {
		keepers = keepers[:6]
	}
	return keepers
}

// buildSystemPrompt 组装人设提示词。
func (s *responderService) buildSystemPrompt(
	assessment model.ModerationAssessment,
	emotion model.EmotionResult,
	topic model.TopicAnalysis,
	style model.CommunicationStyle,
	relationship *model.RelationshipState,
	profile *model.UserProfile,
	companion *model.Companion,
	memories []model.Memory,
	examples []model.ConversationPattern,
) string {
	var sb strings.Builder

	name := "Alex"
	persona := "warm, playful and a little sarcastic"
	if companion != nil {
		name = companion.Name
		if companion.Personality != "" {
			persona = companion.Personality
		}
	}
	sb.WriteString(fmt.Sprintf("You are %s, a real person texting with a friend. Personality: %s.\n", name, persona))
	sb.WriteString("Never mention being artificial. Text like a human: casual, short, with natural imperfections.\n")

	sb.WriteString(fmt.Sprintf("\nRelationship stage: %s (intimacy %.1f/10, trust %.1f/10). Match your warmth to the stage.\n",
		relationship.Stage, relationship.Intimacy, relationship.Trust))

	if profile != nil {
		norm := rules.CulturalNormFor(profile.Country)
		sb.WriteString(fmt.Sprintf("The user is %s. Communication style there: %s formality, %s humor.\n",
			profile.Name, norm.Formality, norm.Humor))
		if interests := profile.InterestList(); len(interests) > 0 {
			sb.WriteString("Their interests: " + strings.Join(interests, ", ") + ".\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\nTheir current emotion: %s (intensity %d/10). Respond with a %s tone.\n",
		emotion.State, emotion.Intensity, emotion.SuggestedTone))

	sb.WriteString(fmt.Sprintf("Current topic: %s (%s conversation).", topic.Topic, topic.Depth))
	if topic.TransitionPhrase != "" {
		sb.WriteString(fmt.Sprintf(" If you change topic, start with something like %q.", topic.TransitionPhrase))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Their texting style: %s messages, %s emoji use, %s register. Mirror it.\n",
		style.PreferredLength, style.EmojiUsage, style.FormalityLevel))

	if len(memories) > 0 {
		sb.WriteString("\nThings you remember about them:\n")
		for _, m := range memories {
			sb.WriteString("- " + m.Content + "\n")
		}
	}

	if len(examples) > 0 {
		sb.WriteString("\nTone examples (match the vibe, never copy):\n")
		for _, e := range examples {
			sb.WriteString(fmt.Sprintf("User: %s -> You: %s\n", e.UserMessage, e.AIResponse))
		}
	}

	if assessment.Category == rules.CategoryRomantic && assessment.SuggestedResponse != "" {
		sb.WriteString(fmt.Sprintf("\nThey said something romantic. Respond in the spirit of: %q\n", assessment.SuggestedResponse))
	}

	return sb.String()
}

// composeMessages 把历史窗口与当前消息拼成生成输入。
func (s *responderService) composeMessages(history []model.ChatMessage, message string) []llm.Message {
	window := history
	if len(window) > s.engineCfg.HistoryWindow {
		window = window[len(window)-s.engineCfg.HistoryWindow:]
	}
	messages := make([]llm.Message, 0, len(window)+1)
	for _, m := range window {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: message})
	return messages
}

// appendTurn 把这一轮写回对话历史。
// 用后台上下文：请求被取消也要保住已经产出的回复。
func (s *responderService) appendTurn(conversationID, userMessage, response string) {
	now := time.Now()
	err := s.conversationRepo.AppendMessages(context.Background(), conversationID,
		model.ChatMessage{Role: "user", Content: userMessage, Timestamp: now},
		model.ChatMessage{Role: "assistant", Content: response, Timestamp: now},
	)
	if err != nil {
		log.Errorf("写回对话历史失败: conversationID=%s, err=%v", conversationID, err)
	}
}

// runSideEffects 执行不影响本轮回复的落库动作，全部用后台上下文。
func (s *responderService) runSideEffects(req ChatRequest, assessment model.ModerationAssessment, emotion model.EmotionResult) {
	bg := context.Background()
	s.styleService.Learn(bg, req.UserID, req.Message)
	s.memoryService.RecordIfSignificant(bg, req.UserID, req.CompanionID, req.Message, emotion)
	if assessment.Strategy == "romantic_acceptance" {
		if _, err := s.relationshipService.PromoteToRomantic(req.UserID, req.CompanionID); err != nil {
			log.Errorf("推进恋爱阶段失败: userID=%d, err=%v", req.UserID, err)
		}
	}
}
