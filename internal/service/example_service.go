package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"pai-companion-go/internal/config"
	"pai-companion-go/internal/model"
	"pai-companion-go/internal/repository"
	"pai-companion-go/internal/rules"
	"pai-companion-go/pkg/log"
)

// ExampleService 定义了示例语料检索与回复对齐评分的接口。
// 语料只用于校准语气，检索结果从不原样返回给用户。
type ExampleService interface {
	// Load 从数据库加载语料并构建内存索引。语料为空时先写入种子。
	Load() error
	// Retrieve 按四级降级检索相关示例：
	// 精确匹配 → 部分匹配 → 上下文标签 → 情绪标签。最多返回 5 条，
	// 按回复去重，合并结果按置信度降序。
	Retrieve(message, contextTag, emotion string) []model.ConversationPattern
	// AlignmentScore 给草稿回复打对齐分，低于阈值的回复会触发再生成。
	AlignmentScore(response, userMessage string, emotion model.EmotionResult, examples []model.ConversationPattern) float64
}

const (
	maxRetrievedExamples = 5
	tierLimit            = 5
)

type exampleService struct {
	patternRepo repository.PatternRepository
	engineCfg   config.EngineConfig

	exactIndex map[string][]model.ConversationPattern
	patterns   []model.ConversationPattern
}

// NewExampleService 创建一个新的 ExampleService 实例。
func NewExampleService(patternRepo repository.PatternRepository, engineCfg config.EngineConfig) ExampleService {
	return &exampleService{
		patternRepo: patternRepo,
		engineCfg:   engineCfg,
		exactIndex:  make(map[string][]model.ConversationPattern),
	}
}

// Load 构建内存索引。启动时调用一次，之后只读。
func (s *exampleService) Load() error {
	count, err := s.patternRepo.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		if err := s.patternRepo.BatchCreate(seedPatterns()); err != nil {
			return err
		}
		log.Infof("示例语料为空，已写入 %d 条种子", len(seedPatterns()))
	}

	patterns, err := s.patternRepo.FindAll()
	if err != nil {
		return err
	}
	s.patterns = patterns
	s.exactIndex = make(map[string][]model.ConversationPattern, len(patterns))
	for _, p := range patterns {
		key := normalizeMessage(p.UserMessage)
		s.exactIndex[key] = append(s.exactIndex[key], p)
	}
	log.Infof("示例语料索引构建完成: %d 条", len(patterns))
	return nil
}

// Retrieve 四级降级检索，过滤低置信度语料。
func (s *exampleService) Retrieve(message, contextTag, emotion string) []model.ConversationPattern {
	normalized := normalizeMessage(message)
	seen := make(map[string]bool)
	var results []model.ConversationPattern

	appendUnique := func(patterns []model.ConversationPattern) {
		for _, p := range patterns {
			if len(results) >= maxRetrievedExamples {
				return
			}
			if p.ConfidenceScore < s.engineCfg.RAGConfidenceThreshold {
				continue
			}
			key := strings.ToLower(p.AIResponse)
			if seen[key] {
				continue
			}
			seen[key] = true
			results = append(results, p)
		}
	}

	// 第一级：归一化后的精确匹配
	appendUnique(s.exactIndex[normalized])

	// 第二级：双向包含的部分匹配
	if len(results) < maxRetrievedExamples && normalized != "" {
		var partial []model.ConversationPattern
		for _, p := range s.patterns {
			key := normalizeMessage(p.UserMessage)
			if key == "" || key == normalized {
				continue
			}
			if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
				partial = append(partial, p)
				if len(partial) >= tierLimit {
					break
				}
			}
		}
		appendUnique(partial)
	}

	// 第三级：上下文标签
	if len(results) < maxRetrievedExamples && contextTag != "" {
		byContext, err := s.patternRepo.FindByContext(contextTag, tierLimit)
		if err != nil {
			log.Warnf("按上下文检索语料失败: %v", err)
		} else {
			appendUnique(byContext)
		}
	}

	// 第四级：情绪标签
	if len(results) < maxRetrievedExamples && emotion != "" {
		byEmotion, err := s.patternRepo.FindByEmotion(emotion, tierLimit)
		if err != nil {
			log.Warnf("按情绪检索语料失败: %v", err)
		} else {
			appendUnique(byEmotion)
		}
	}

	// 检索档位只决定候选来源，合并结果统一按置信度降序
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ConfidenceScore > results[j].ConfidenceScore
	})
	return results
}

// AlignmentScore 给草稿打分。
// 问候消息单独打分：过长 0.3，缺少随意口吻 0.4，否则满分。
// 其余消息取情绪、长度、随意程度三个子分的平均。
func (s *exampleService) AlignmentScore(response, userMessage string, emotion model.EmotionResult, examples []model.ConversationPattern) float64 {
	if isGreetingMessage(userMessage) {
		if utf8.RuneCountInString(response) > 20 {
			return 0.3
		}
		lowered := strings.ToLower(response)
		for _, token := range rules.CasualGreetingTokens {
			if strings.Contains(lowered, token) {
				return 1.0
			}
		}
		return 0.4
	}

	emotionScore := emotionAlignment(response, emotion)
	lengthScore := lengthAlignment(response, userMessage, examples)
	casualScore := casualnessAlignment(response, userMessage)
	return (emotionScore + lengthScore + casualScore) / 3.0
}

// emotionAlignment 负面情绪下出现庆祝语气扣分，其余满分。
func emotionAlignment(response string, emotion model.EmotionResult) float64 {
	negative := emotion.State == "sad" || emotion.State == "frustrated" || emotion.State == "anxious"
	if !negative {
		return 1.0
	}
	lowered := strings.ToLower(response)
	for _, marker := range []string{"awesome!", "amazing!", "that's great!", "🎉", "🥳", "🎊"} {
		if strings.Contains(lowered, marker) {
			return 0.5
		}
	}
	return 1.0
}

// lengthAlignment 与示例（或用户消息）长度差在 50 字符内满分，否则 0.7。
func lengthAlignment(response, userMessage string, examples []model.ConversationPattern) float64 {
	target := len(userMessage)
	if len(examples) > 0 {
		total := 0
		for _, e := range examples {
			total += len(e.AIResponse)
		}
		target = total / len(examples)
	}
	diff := len(response) - target
	if diff < 0 {
		diff = -diff
	}
	if diff <= 50 {
		return 1.0
	}
	return 0.7
}

// casualnessAlignment 回复与用户消息的随意程度差在 2 档内满分，否则 0.6。
func casualnessAlignment(response, userMessage string) float64 {
	diff := casualness(response) - casualness(userMessage)
	if diff < 0 {
		diff = -diff
	}
	if diff < 2 {
		return 1.0
	}
	return 0.6
}

// casualness 数随意口吻的特征：口语词、缩写、emoji。
func casualness(text string) int {
	lowered := strings.ToLower(text)
	score := 0
	for _, w := range rules.CasualWords {
		if strings.Contains(lowered, w) {
			score++
		}
	}
	if strings.Contains(lowered, "'") {
		score++
	}
	if rules.EmojiPattern.MatchString(text) {
		score++
	}
	return score
}

// isGreetingMessage 判定消息是否为简单问候：
// 整条命中问候正则，或首词在问候词表。
func isGreetingMessage(message string) bool {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return false
	}
	if rules.SimpleGreetingPattern.MatchString(trimmed) {
		return true
	}
	words := strings.Fields(strings.ToLower(trimmed))
	if len(words) == 0 {
		return false
	}
	first := strings.Trim(words[0], "!.?,")
	for _, g := range rules.GreetingWords {
		if first == g {
			return true
		}
	}
	return false
}

// normalizeMessage 小写并剥掉标点，用作精确匹配的索引键。
func normalizeMessage(message string) string {
	return strings.Join(tokenize(strings.ToLower(message)), " ")
}

// seedPatterns 内置种子语料，覆盖四个公开对话数据集的风格。
func seedPatterns() []*model.ConversationPattern {
	seeds := []struct {
		msg, resp, context, emotion, source string
		confidence                          float64
	}{
		{"hi", "Hey! How's it going? 😊", "greeting", "neutral", "persona_chat", 0.9},
		{"hello", "Hey hey! What's up?", "greeting", "neutral", "persona_chat", 0.9},
		{"how are you", "Pretty good! Just chilling. You?", "greeting", "neutral", "persona_chat", 0.9},
		{"what are you doing", "Not much, just hanging out. What about you?", "daily_life", "calm", "daily_dialog", 0.85},
		{"i had a long day at work", "Ugh, those days are the worst. What happened?", "work", "tired", "daily_dialog", 0.85},
		{"i'm going on vacation next week", "No way, that's exciting! Where are you headed?", "travel", "excited", "daily_dialog", 0.85},
		{"what did you eat today", "Had some noodles earlier, nothing fancy. You?", "food", "calm", "daily_dialog", 0.85},
		{"i'm feeling really sad today", "Aw man, I'm sorry. Want to talk about it?", "emotional", "sad", "empathetic_dialogues", 0.95},
		{"i'm so stressed about my exam", "That sounds rough. You've been studying hard though, right?", "emotional", "anxious", "empathetic_dialogues", 0.95},
		{"my dog passed away", "Oh no, I'm so sorry. Losing a pet is really hard 💔", "emotional", "sad", "empathetic_dialogues", 0.95},
		{"i got the job", "YES! That's amazing, congrats! 🎉", "work", "excited", "empathetic_dialogues", 0.95},
		{"do you ever think about the future", "All the time. Kind of scary, kind of exciting, you know?", "deep", "thoughtful", "cornell_movie", 0.8},
		{"tell me something interesting", "Okay, random fact: octopuses have three hearts. Wild, right?", "casual", "curious", "cornell_movie", 0.8},
	}
	patterns := make([]*model.ConversationPattern, 0, len(seeds))
	for _, s := range seeds {
		patterns = append(patterns, &model.ConversationPattern{
			UserMessage:     s.msg,
			AIResponse:      s.resp,
			Context:         s.context,
			Emotion:         s.emotion,
			DatasetSource:   s.source,
			ConfidenceScore: s.confidence,
		})
	}
	return patterns
}
