package service

import (
	"context"
	"fmt"
	"time"

	"pai-companion-go/internal/config"
	"pai-companion-go/internal/model"
	"pai-companion-go/internal/repository"
	"pai-companion-go/internal/rules"
	"pai-companion-go/pkg/embedding"
	"pai-companion-go/pkg/es"
	"pai-companion-go/pkg/kafka"
	"pai-companion-go/pkg/llm"
	"pai-companion-go/pkg/log"
	"pai-companion-go/pkg/tasks"
)

// MemoryService 定义了长期记忆的提取与检索接口。
type MemoryService interface {
	// RecordIfSignificant 判定这一轮是否值得长期记住，值得则抽取并落库。
	// 重要性判定：情绪强度 >= 7，或消息命中自我披露模式。
	// 每轮最多保留两条记忆。抽取失败只记日志。
	RecordIfSignificant(ctx context.Context, userID, companionID uint, message string, emotion model.EmotionResult)
	// RetrieveRelevant 按查询检索相关记忆。语义检索可用时走向量相似度，
	// 否则退化为 SQL 相关性排序。命中的记忆回写访问时间。
	RetrieveRelevant(ctx context.Context, userID, companionID uint, query string, limit int) []model.Memory
	// TopByImportance 按重要度取前 N 条，供主动消息使用。
	TopByImportance(userID, companionID uint, limit int) ([]model.Memory, error)
	// FilterRecent 剔除最近 recentHours 小时内刚创建的记忆，
	// 避免上一轮刚写入的内容立刻被复读回去。
	FilterRecent(memories []model.Memory, recentHours int) []model.Memory
}

type memoryService struct {
	llmClient       llm.Client
	embeddingClient embedding.Client
	memoryRepo      repository.MemoryRepository
	esCfg           config.ElasticsearchConfig
}

// NewMemoryService 创建一个新的 MemoryService 实例。
func NewMemoryService(llmClient llm.Client, embeddingClient embedding.Client, memoryRepo repository.MemoryRepository, esCfg config.ElasticsearchConfig) MemoryService {
	return &memoryService{
		llmClient:       llmClient,
		embeddingClient: embeddingClient,
		memoryRepo:      memoryRepo,
		esCfg:           esCfg,
	}
}

const memoryExtractionPrompt = `Extract up to 2 facts about the user worth remembering long-term from their message.
Respond with ONLY a JSON array in this exact format (empty array if nothing worth remembering):
[{"type": "<type>", "content": "<fact>", "importance": <1-10>, "emotional_context": "<emotion>"}]
Valid types: preference, experience, emotional_moment, personal_revelation.`

// RecordIfSignificant 重要轮次走抽取 → 落库 → 异步向量化的流水线。
func (s *memoryService) RecordIfSignificant(ctx context.Context, userID, companionID uint, message string, emotion model.EmotionResult) {
	if !isSignificant(message, emotion) {
		return
	}

	var extracted []model.ExtractedMemory
	temp := 0.2
	err := s.llmClient.GenerateJSON(ctx,
		[]llm.Message{{Role: "user", Content: message}},
		memoryExtractionPrompt,
		&llm.GenerationParams{Temperature: &temp},
		&extracted)
	if err != nil {
		log.Warnf("记忆抽取失败: userID=%d, err=%v", userID, err)
		return
	}
	if len(extracted) > 2 {
		extracted = extracted[:2]
	}

	for _, e := range extracted {
		if e.Content == "" {
			continue
		}
		if !rules.MemoryTypes[e.Type] {
			e.Type = "experience"
		}
		if e.Importance < 1 {
			e.Importance = 5
		}
		if e.Importance > 10 {
			e.Importance = 10
		}
		memory := &model.Memory{
			UserID:           userID,
			CompanionID:      companionID,
			Type:             e.Type,
			Content:          e.Content,
			Importance:       e.Importance,
			EmotionalContext: e.EmotionalContext,
			Active:           true,
		}
		if err := s.memoryRepo.Create(memory); err != nil {
			log.Errorf("写入记忆失败: userID=%d, err=%v", userID, err)
			continue
		}
		// 向量化走 Kafka 异步流水线，发送失败不影响已落库的记忆
		if s.esCfg.Enabled {
			task := tasks.MemoryIndexTask{
				MemoryID:    memory.ID,
				UserID:      userID,
				CompanionID: companionID,
				Content:     memory.Content,
				Importance:  memory.Importance,
			}
			if err := kafka.ProduceMemoryIndexTask(task); err != nil {
				log.Errorf("发送记忆索引任务失败: memoryID=%d, err=%v", memory.ID, err)
			}
		}
	}
}

// isSignificant 判定一轮对话是否值得抽取记忆。
func isSignificant(message string, emotion model.EmotionResult) bool {
	if emotion.Intensity >= 7 {
		return true
	}
	for _, p := range rules.SignificancePatterns {
		if p.MatchString(message) {
			return true
		}
	}
	return false
}

// RetrieveRelevant 语义检索优先，失败或未启用时退化为 SQL 排序。
func (s *memoryService) RetrieveRelevant(ctx context.Context, userID, companionID uint, query string, limit int) []model.Memory {
	if s.esCfg.Enabled {
		memories, err := s.semanticSearch(ctx, userID, companionID, query, limit)
		if err == nil {
			s.bumpAccessed(memories)
			return memories
		}
		log.Warnf("语义检索失败，退化为 SQL 排序: userID=%d, err=%v", userID, err)
	}

	memories, err := s.memoryRepo.RankedSearch(userID, companionID, query, limit)
	if err != nil {
		log.Errorf("记忆检索失败: userID=%d, err=%v", userID, err)
		return nil
	}
	s.bumpAccessed(memories)
	return memories
}

// semanticSearch 向量化查询后按余弦相似度取记忆 ID，再回 MySQL 取正文。
// 返回顺序保持 Elasticsearch 的相似度排序。
func (s *memoryService) semanticSearch(ctx context.Context, userID, companionID uint, query string, limit int) ([]model.Memory, error) {
	vector, err := s.embeddingClient.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	ids, err := es.SearchMemoryIDs(ctx, s.esCfg.IndexName, userID, companionID, vector, limit)
	if err != nil {
		return nil, err
	}
	memories, err := s.memoryRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Memory, len(memories))
	for _, m := range memories {
		byID[m.ID] = m
	}
	ordered := make([]model.Memory, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}

func (s *memoryService) bumpAccessed(memories []model.Memory) {
	if len(memories) == 0 {
		return
	}
	ids := make([]uint, 0, len(memories))
	for _, m := range memories {
		ids = append(ids, m.ID)
	}
	if err := s.memoryRepo.BumpLastAccessed(ids); err != nil {
		log.Warnf("回写记忆访问时间失败: %v", err)
	}
}

// TopByImportance 透传仓库查询。
func (s *memoryService) TopByImportance(userID, companionID uint, limit int) ([]model.Memory, error) {
	return s.memoryRepo.FindTopByImportance(userID, companionID, limit)
}

// FilterRecent 剔除创建时间在窗口内的记忆。
func (s *memoryService) FilterRecent(memories []model.Memory, recentHours int) []model.Memory {
	if recentHours <= 0 {
		return memories
	}
	cutoff := time.Now().Add(-time.Duration(recentHours) * time.Hour)
	filtered := make([]model.Memory, 0, len(memories))
	for _, m := range memories {
		if m.CreatedAt.Before(cutoff) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
