package service

import (
	"context"
	"fmt"
	"strings"

	"pai-companion-go/internal/model"
	"pai-companion-go/internal/repository"
	"pai-companion-go/internal/rules"
	"pai-companion-go/pkg/llm"
	"pai-companion-go/pkg/log"
)

// EmotionService 定义了情绪检测的接口。
// 检测失败永远不会让一轮对话失败：任何错误都回退到固定的默认情绪。
type EmotionService interface {
	// Detect 分析用户消息的情绪状态，并把样本追加到情绪日志。
	// 生成服务失败或输出越界时返回默认情绪。
	Detect(ctx context.Context, userID, companionID uint, message string, history []model.ChatMessage) model.EmotionResult
	// Latest 返回 (用户, 伴侣) 最近一次的情绪样本，无样本返回 nil。
	Latest(userID, companionID uint) (*model.EmotionalStateSample, error)
}

type emotionService struct {
	llmClient   llm.Client
	emotionRepo repository.EmotionRepository
}

// NewEmotionService 创建一个新的 EmotionService 实例。
func NewEmotionService(llmClient llm.Client, emotionRepo repository.EmotionRepository) EmotionService {
	return &emotionService{
		llmClient:   llmClient,
		emotionRepo: emotionRepo,
	}
}

const emotionSystemPrompt = `You are an emotion analysis engine. Analyze the user's emotional state from their message and recent context.
Respond with ONLY a JSON object in this exact format:
{"state": "<emotion>", "intensity": <1-10>, "context": "<brief context>", "suggested_response_tone": "<tone>", "emoji_suggestions": ["<emoji>"]}
Valid states: happy, excited, content, calm, thoughtful, curious, playful, sad, frustrated, anxious, tired, neutral, loving.
Valid tones: warm, enthusiastic, supportive, playful, empathetic, calm, curious.`

// Detect 调用生成服务做结构化情绪分类，带越界值归一与固定回退。
func (s *emotionService) Detect(ctx context.Context, userID, companionID uint, message string, history []model.ChatMessage) model.EmotionResult {
	prompt := s.buildPrompt(message, history)

	var result model.EmotionResult
	temp := 0.3
	err := s.llmClient.GenerateJSON(ctx,
		[]llm.Message{{Role: "user", Content: prompt}},
		emotionSystemPrompt,
		&llm.GenerationParams{Temperature: &temp},
		&result)
	if err != nil {
		log.Warnf("情绪检测失败，使用默认情绪: userID=%d, err=%v", userID, err)
		result = model.DefaultEmotion()
	} else {
		result = sanitizeEmotion(result)
	}

	sample := &model.EmotionalStateSample{
		UserID:      userID,
		CompanionID: companionID,
		State:       result.State,
		Intensity:   result.Intensity,
		Tone:        result.SuggestedTone,
		SourceText:  message,
	}
	if err := s.emotionRepo.Append(sample); err != nil {
		log.Errorf("写入情绪样本失败: userID=%d, err=%v", userID, err)
	}
	return result
}

// Latest 透传仓库查询。
func (s *emotionService) Latest(userID, companionID uint) (*model.EmotionalStateSample, error) {
	return s.emotionRepo.FindLatest(userID, companionID)
}

// buildPrompt 拼最近几条历史与当前消息。
func (s *emotionService) buildPrompt(message string, history []model.ChatMessage) string {
	var sb strings.Builder
	recent := history
	if len(recent) > 4 {
		recent = recent[len(recent)-4:]
	}
	if len(recent) > 0 {
		sb.WriteString("Recent conversation:\n")
		for _, m := range recent {
			sb.WriteString(fmt.Sprintf("%s: %s\n", m.Role, m.Content))
		}
	}
	sb.WriteString("Current message: ")
	sb.WriteString(message)
	return sb.String()
}

// sanitizeEmotion 把越界输出收敛到合法值域。
func sanitizeEmotion(r model.EmotionResult) model.EmotionResult {
	if !rules.EmotionStates[r.State] {
		r.State = "neutral"
	}
	if !rules.EmotionTones[r.SuggestedTone] {
		r.SuggestedTone = "warm"
	}
	if r.Intensity < 1 {
		r.Intensity = 1
	}
	if r.Intensity > 10 {
		r.Intensity = 10
	}
	if len(r.EmojiSuggestions) == 0 {
		if candidates, ok := rules.EmojiMap[r.State]; ok {
			r.EmojiSuggestions = candidates[:1]
		} else {
			r.EmojiSuggestions = []string{"😊"}
		}
	}
	if r.Context == "" {
		r.Context = "general conversation"
	}
	return r
}
