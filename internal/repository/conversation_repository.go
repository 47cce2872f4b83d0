// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"pai-companion-go/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ConversationRepository 定义了对话历史与每对 (用户, 伴侣) 轮次锁的操作接口。
// 历史与风格缓存都存 Redis；MySQL 只保存引擎的长期状态。
type ConversationRepository interface {
	GetOrCreateConversationID(ctx context.Context, userID, companionID uint) (string, error)
	GetConversationHistory(ctx context.Context, conversationID string) ([]model.ChatMessage, error)
	UpdateConversationHistory(ctx context.Context, conversationID string, messages []model.ChatMessage) error
	AppendMessages(ctx context.Context, conversationID string, messages ...model.ChatMessage) error

	// AcquireTurnLock 尝试获取 (用户, 伴侣) 的轮次锁。同一对的生成必须串行，
	// 避免关系与记忆写入交错。返回 false 表示已有进行中的轮次。
	AcquireTurnLock(ctx context.Context, userID, companionID uint, ttl time.Duration) (bool, error)
	ReleaseTurnLock(ctx context.Context, userID, companionID uint) error

	GetCommunicationStyle(ctx context.Context, userID uint) (model.CommunicationStyle, error)
	SaveCommunicationStyle(ctx context.Context, userID uint, style model.CommunicationStyle) error
}

type redisConversationRepository struct {
	redisClient *redis.Client
}

// NewConversationRepository 创建一个新的 ConversationRepository 实例。
func NewConversationRepository(redisClient *redis.Client) ConversationRepository {
	return &redisConversationRepository{redisClient: redisClient}
}

const (
	historyTTL    = 7 * 24 * time.Hour
	historyWindow = 20
)

func pairKey(userID, companionID uint) string {
	return fmt.Sprintf("user:%d:companion:%d:current_conversation", userID, companionID)
}

// GetOrCreateConversationID 获取或创建 (用户, 伴侣) 当前会话的ID。
func (r *redisConversationRepository) GetOrCreateConversationID(ctx context.Context, userID, companionID uint) (string, error) {
	key := pairKey(userID, companionID)
	convID, err := r.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		convID = uuid.NewString()
		if err := r.redisClient.Set(ctx, key, convID, historyTTL).Err(); err != nil {
			return "", fmt.Errorf("failed to set conversation id: %w", err)
		}
		return convID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get conversation id: %w", err)
	}
	return convID, nil
}

// GetConversationHistory 从 Redis 获取对话历史记录。
func (r *redisConversationRepository) GetConversationHistory(ctx context.Context, conversationID string) ([]model.ChatMessage, error) {
	key := fmt.Sprintf("conversation:%s", conversationID)
	jsonData, err := r.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return []model.ChatMessage{}, nil // No history yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation history: %w", err)
	}
	var messages []model.ChatMessage
	err = json.Unmarshal([]byte(jsonData), &messages)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation history: %w", err)
	}
	return messages, nil
}

// UpdateConversationHistory 在 Redis 中更新对话历史记录。
func (r *redisConversationRepository) UpdateConversationHistory(ctx context.Context, conversationID string, messages []model.ChatMessage) error {
	key := fmt.Sprintf("conversation:%s", conversationID)
	// 保留最近 20 条
	if len(messages) > historyWindow {
		messages = messages[len(messages)-historyWindow:]
	}
	jsonData, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation history: %w", err)
	}
	err = r.redisClient.Set(ctx, key, jsonData, historyTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set conversation history: %w", err)
	}
	return nil
}

// AppendMessages 读取-追加-写回对话历史。
func (r *redisConversationRepository) AppendMessages(ctx context.Context, conversationID string, messages ...model.ChatMessage) error {
	history, err := r.GetConversationHistory(ctx, conversationID)
	if err != nil {
		return err
	}
	history = append(history, messages...)
	return r.UpdateConversationHistory(ctx, conversationID, history)
}

func turnLockKey(userID, companionID uint) string {
	return fmt.Sprintf("turnlock:%d:%d", userID, companionID)
}

// AcquireTurnLock 使用 SETNX 加 TTL 实现轮次锁，TTL 兜底防止崩溃后死锁。
func (r *redisConversationRepository) AcquireTurnLock(ctx context.Context, userID, companionID uint, ttl time.Duration) (bool, error) {
	ok, err := r.redisClient.SetNX(ctx, turnLockKey(userID, companionID), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire turn lock: %w", err)
	}
	return ok, nil
}

// ReleaseTurnLock 释放轮次锁。
func (r *redisConversationRepository) ReleaseTurnLock(ctx context.Context, userID, companionID uint) error {
	return r.redisClient.Del(ctx, turnLockKey(userID, companionID)).Err()
}

// GetCommunicationStyle 读取学习到的沟通风格，无记录时返回默认风格。
func (r *redisConversationRepository) GetCommunicationStyle(ctx context.Context, userID uint) (model.CommunicationStyle, error) {
	key := fmt.Sprintf("user:%d:communication_style", userID)
	jsonData, err := r.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return model.DefaultCommunicationStyle(), nil
	}
	if err != nil {
		return model.DefaultCommunicationStyle(), fmt.Errorf("failed to get communication style: %w", err)
	}
	var style model.CommunicationStyle
	if err := json.Unmarshal([]byte(jsonData), &style); err != nil {
		return model.DefaultCommunicationStyle(), fmt.Errorf("failed to unmarshal communication style: %w", err)
	}
	return style, nil
}

// SaveCommunicationStyle 持久化沟通风格。
func (r *redisConversationRepository) SaveCommunicationStyle(ctx context.Context, userID uint, style model.CommunicationStyle) error {
	jsonData, err := json.Marshal(style)
	if err != nil {
		return fmt.Errorf("failed to marshal communication style: %w", err)
	}
	key := fmt.Sprintf("user:%d:communication_style", userID)
	return r.redisClient.Set(ctx, key, jsonData, 30*24*time.Hour).Err()
}
