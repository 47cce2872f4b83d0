// Package pipeline 定义了记忆异步索引的处理流程。
// 记忆写入 MySQL 后由 Kafka 任务驱动：向量化 → 写入 Elasticsearch。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"pai-companion-go/internal/config"
	"pai-companion-go/pkg/embedding"
	"pai-companion-go/pkg/es"
	"pai-companion-go/pkg/log"
	"pai-companion-go/pkg/tasks"
)

// Processor 封装了记忆索引的所有依赖和逻辑。
type Processor struct {
	embeddingClient embedding.Client
	esCfg           config.ElasticsearchConfig
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(embeddingClient embedding.Client, esCfg config.ElasticsearchConfig) *Processor {
	return &Processor{
		embeddingClient: embeddingClient,
		esCfg:           esCfg,
	}
}

// Process 处理一条记忆索引任务。
func (p *Processor) Process(ctx context.Context, task tasks.MemoryIndexTask) error {
	if !p.esCfg.Enabled {
		// 语义检索协作方未启用时任务直接完成，检索走 SQL 排序
		return nil
	}
	if task.Content == "" {
		log.Warnf("[Processor] 记忆内容为空, 跳过索引, MemoryID: %d", task.MemoryID)
		return errors.New("记忆内容为空")
	}

	// 1. 向量化
	vector, err := p.embeddingClient.CreateEmbedding(ctx, task.Content)
	if err != nil {
		log.Errorf("[Processor] 记忆向量化失败, MemoryID: %d, Error: %v", task.MemoryID, err)
		return fmt.Errorf("记忆 %d 向量化失败: %w", task.MemoryID, err)
	}

	// 2. 索引到 Elasticsearch
	doc := es.MemoryDocument{
		MemoryID:    task.MemoryID,
		UserID:      task.UserID,
		CompanionID: task.CompanionID,
		Content:     task.Content,
		Importance:  task.Importance,
		Vector:      vector,
	}
	if err := es.IndexMemory(ctx, p.esCfg.IndexName, doc); err != nil {
		log.Errorf("[Processor] 索引记忆到 Elasticsearch 失败, MemoryID: %d, Error: %v", task.MemoryID, err)
		return fmt.Errorf("索引记忆 %d 到 Elasticsearch 失败: %w", task.MemoryID, err)
	}

	log.Infof("[Processor] 记忆索引成功, MemoryID: %d", task.MemoryID)
	return nil
}
