// Package es 提供了与 Elasticsearch 交互的客户端功能。
// 这里承载可选的语义检索协作方：记忆内容向量化后入索引，检索时按余弦相似度排序。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"pai-companion-go/internal/config"
	"pai-companion-go/pkg/log"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ESClient *elasticsearch.Client

// MemoryDocument 是索引到 Elasticsearch 的记忆文档。
type MemoryDocument struct {
	MemoryID    uint      `json:"memory_id"`
	UserID      uint      `json:"user_id"`
	CompanionID uint      `json:"companion_id"`
	Content     string    `json:"content"`
	Importance  int       `json:"importance"`
	Vector      []float32 `json:"vector"`
}

// InitES 初始化 Elasticsearch 客户端。dims 是向量维度，须与 embedding 模型一致。
func InitES(esCfg config.ElasticsearchConfig, dims int) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return createIndexIfNotExists(esCfg.IndexName, dims)
}

// createIndexIfNotExists 检查索引是否存在，如果不存在则创建它
func createIndexIfNotExists(indexName string, dims int) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	// 如果 res.StatusCode 是 200，说明索引已存在
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", indexName)
		return nil
	}
	// 如果 res.StatusCode 是 404，说明索引不存在，需要创建
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("检查索引 '%s' 是否存在时收到意外的状态码: %d", indexName, res.StatusCode)
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	if dims <= 0 {
		dims = 1024
	}
	mapping := fmt.Sprintf(`{
		"mappings": {
			"properties": {
				"memory_id": { "type": "long" },
				"user_id": { "type": "long" },
				"companion_id": { "type": "long" },
				"content": { "type": "text" },
				"importance": { "type": "integer" },
				"vector": {
					"type": "dense_vector",
					"dims": %d,
					"index": true,
					"similarity": "cosine"
				}
			}
		}
	}`, dims)

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)

	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", indexName, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", indexName)
	return nil
}

// IndexMemory 将单条记忆文档索引到 Elasticsearch。
func IndexMemory(ctx context.Context, indexName string, doc MemoryDocument) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: fmt.Sprintf("memory_%d", doc.MemoryID),
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("索引记忆到 Elasticsearch 出错: %s", res.String())
		return errors.New("failed to index memory")
	}

	return nil
}

// SearchMemoryIDs 以查询向量在某 (用户, 伴侣) 的记忆中做余弦相似度检索，
// 返回按相似度排序的记忆 ID 列表。
func SearchMemoryIDs(ctx context.Context, indexName string, userID, companionID uint, queryVector []float32, limit int) ([]uint, error) {
	query := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"script_score": map[string]interface{}{
				"query": map[string]interface{}{
					"bool": map[string]interface{}{
						"filter": []map[string]interface{}{
							{"term": map[string]interface{}{"user_id": userID}},
							{"term": map[string]interface{}{"companion_id": companionID}},
						},
					},
				},
				"script": map[string]interface{}{
					"source": "cosineSimilarity(params.query_vector, 'vector') + 1.0",
					"params": map[string]interface{}{"query_vector": queryVector},
				},
			},
		},
		"_source": []string{"memory_id"},
	}

	queryBytes, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := ESClient.Search(
		ESClient.Search.WithContext(ctx),
		ESClient.Search.WithIndex(indexName),
		ESClient.Search.WithBody(bytes.NewReader(queryBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search error: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source struct {
					MemoryID uint `json:"memory_id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]uint, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.Source.MemoryID)
	}
	return ids, nil
}
