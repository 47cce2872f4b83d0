package service

import (
	"strings"

	"pai-companion-go/internal/model"
	"pai-companion-go/internal/repository"
	"pai-companion-go/internal/rules"
	"pai-companion-go/pkg/log"
)

// TopicService 定义了话题识别与轨迹跟踪的接口。
type TopicService interface {
	// Analyze 识别消息话题、过渡类型与深度，并把结果写入话题轨迹。
	// 轨迹写入失败只记日志，不影响分析结果。
	Analyze(conversationID, message string, interests []string, formality string) model.TopicAnalysis
	// RecentTopics 返回会话最近的话题标签，最新的在前。
	RecentTopics(conversationID string, limit int) []string
}

type topicService struct {
	topicRepo repository.TopicRepository
}

// NewTopicService 创建一个新的 TopicService 实例。
func NewTopicService(topicRepo repository.TopicRepository) TopicService {
	return &topicService{topicRepo: topicRepo}
}

// Analyze 按关键词命中数给候选话题打分，结合轨迹判定过渡类型。
func (s *topicService) Analyze(conversationID, message string, interests []string, formality string) model.TopicAnalysis {
	lowered := strings.ToLower(message)

	topic, hits := bestTopic(lowered)
	confidence := 0.3
	if hits > 0 {
		confidence = 0.3 + float64(hits)*0.2
		if confidence > 0.9 {
			confidence = 0.9
		}
	}

	recent := s.RecentTopics(conversationID, 5)
	transition := transitionType(topic, recent)
	depth := topicDepth(lowered)
	interestMatch := matchesInterest(topic, interests)

	analysis := model.TopicAnalysis{
		Topic:           topic,
		Confidence:      confidence,
		IsNewTopic:      transition == model.TransitionSwitch,
		TransitionType:  transition,
		Depth:           depth,
		InterestMatch:   interestMatch,
		Priority:        topicPriority(interestMatch, depth),
		EngagementLevel: engagementLevel(depth, message),
	}
	if transition == model.TransitionSwitch && len(recent) > 0 {
		analysis.TransitionPhrase = transitionPhrase(formality, len(message))
	}

	if err := s.topicRepo.Create(&model.ConversationTopic{
		ConversationID: conversationID,
		Label:          topic,
		Confidence:     confidence,
		TransitionType: transition,
	}); err != nil {
		log.Errorf("写入话题轨迹失败: conversationID=%s, err=%v", conversationID, err)
	}
	return analysis
}

// RecentTopics 取最近话题标签，查询失败返回空。
func (s *topicService) RecentTopics(conversationID string, limit int) []string {
	topics, err := s.topicRepo.FindRecent(conversationID, limit)
	if err != nil {
		log.Warnf("读取话题轨迹失败: conversationID=%s, err=%v", conversationID, err)
		return nil
	}
	labels := make([]string, 0, len(topics))
	for _, t := range topics {
		labels = append(labels, t.Label)
	}
	return labels
}

// bestTopic 返回命中关键词最多的话题，全不命中时为 general。
func bestTopic(lowered string) (string, int) {
	best := "general"
	bestHits := 0
	for topic, keywords := range rules.TopicKeywords {
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best = topic
			bestHits = hits
		}
	}
	return best, bestHits
}

// transitionType 与上一条相同是延续，在近期轨迹里出现过是回归，否则是切换。
func transitionType(topic string, recent []string) string {
	if len(recent) == 0 {
		return model.TransitionSwitch
	}
	if recent[0] == topic {
		return model.TransitionContinuation
	}
	for _, r := range recent[1:] {
		if r == topic {
			return model.TransitionReturn
		}
	}
	return model.TransitionSwitch
}

// topicDepth 按深度特征词的加权和分档。
func topicDepth(lowered string) string {
	total := 0
	for word, weight := range rules.TopicDepthWeights {
		if strings.Contains(lowered, word) {
			total += weight
		}
	}
	switch {
	case total >= 6:
		return "deep"
	case total >= 3:
		return "medium"
	default:
		return "shallow"
	}
}

func matchesInterest(topic string, interests []string) bool {
	for _, i := range interests {
		if strings.EqualFold(i, topic) {
			return true
		}
	}
	return false
}

// topicPriority 兴趣命中的深聊话题优先级最高。
func topicPriority(interestMatch bool, depth string) string {
	switch {
	case interestMatch && depth == "deep":
		return "high"
	case interestMatch || depth == "deep":
		return "medium"
	default:
		return "low"
	}
}

// engagementLevel 结合深度与消息长度估计用户投入程度。
func engagementLevel(depth string, message string) string {
	if depth == "deep" || len(message) > 120 {
		return "high"
	}
	if depth == "medium" || len(message) > 50 {
		return "medium"
	}
	return "low"
}

// transitionPhrase 按正式程度取一条过渡语，用消息长度做确定性选择。
func transitionPhrase(formality string, seed int) string {
	phrases, ok := rules.TransitionPhrases[formality]
	if !ok {
		phrases = rules.TransitionPhrases["casual"]
	}
	return phrases[seed%len(phrases)]
}
