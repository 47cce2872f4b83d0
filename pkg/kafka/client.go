// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"pai-companion-go/internal/config"
	"pai-companion-go/pkg/database"
	"pai-companion-go/pkg/log"
	"pai-companion-go/pkg/tasks"
	"time"

	"github.com/segmentio/kafka-go"
)

// TaskProcessor defines the interface for any service that can process an index task.
// This decouples the Kafka consumer from the concrete pipeline implementation.
type TaskProcessor interface {
	Process(ctx context.Context, task tasks.MemoryIndexTask) error
}

var (
	indexProducer  *kafka.Writer
	notifyProducer *kafka.Writer
)

// InitProducers 初始化记忆索引与实时通知两个 Kafka 生产者。
func InitProducers(cfg config.KafkaConfig) {
	indexProducer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.IndexTopic,
		Balancer: &kafka.LeastBytes{},
	}
	notifyProducer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.NotifyTopic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// ProduceMemoryIndexTask 发送一个记忆索引任务到 Kafka。
func ProduceMemoryIndexTask(task tasks.MemoryIndexTask) error {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}

	return indexProducer.WriteMessages(context.Background(),
		kafka.Message{
			Value: taskBytes,
		},
	)
}

// ProduceEngagementNotification 发送主动消息通知。fire-and-forget：
// 失败只记日志，不影响派发结果。
func ProduceEngagementNotification(notif tasks.EngagementNotification) {
	if notifyProducer == nil {
		return
	}
	notifBytes, err := json.Marshal(notif)
	if err != nil {
		log.Errorf("序列化通知失败: %v", err)
		return
	}
	if err := notifyProducer.WriteMessages(context.Background(),
		kafka.Message{Value: notifBytes},
	); err != nil {
		log.Warnf("发送主动消息通知失败: %v", err)
	}
}

// StartConsumer 启动一个 Kafka 消费者来处理记忆索引任务。
func StartConsumer(cfg config.KafkaConfig, processor TaskProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.IndexTopic,
		GroupID:  "pai-companion-go-consumer",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.IndexTopic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("从 Kafka 读取消息失败", err)
			break // 退出循环，可能需要重启策略
		}

		var task tasks.MemoryIndexTask
		if err := json.Unmarshal(m.Value, &task); err != nil {
			log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
			// 消息格式错误，直接提交，避免阻塞队列
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("提交错误消息失败: %v", err)
			}
			continue
		}

		log.Infof("开始处理记忆索引任务: MemoryID=%d", task.MemoryID)
		if err := processor.Process(context.Background(), task); err != nil {
			log.Errorf("处理记忆索引任务失败: MemoryID=%d, Error: %v", task.MemoryID, err)
			// 使用 Redis 计数失败次数，达到阈值后提交 offset 终止重试
			attemptsKey := fmt.Sprintf("kafka:attempts:memory:%d", task.MemoryID)
			attempts, incErr := database.RDB.Incr(context.Background(), attemptsKey).Result()
			if incErr == nil {
				_ = database.RDB.Expire(context.Background(), attemptsKey, 24*time.Hour).Err()
			}
			if incErr != nil {
				// Redis 异常时保守处理：不提交 offset，让 Kafka 重试
				continue
			}
			if attempts >= 3 {
				log.Errorf("记忆索引任务多次失败(>=3)，提交 offset 终止重试: MemoryID=%d", task.MemoryID)
				if err := r.CommitMessages(context.Background(), m); err != nil {
					log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
				}
			}
			// attempts < 3 时，不提交 offset 让 Kafka 自动重试
		} else {
			// 清理失败计数
			_ = database.RDB.Del(context.Background(), fmt.Sprintf("kafka:attempts:memory:%d", task.MemoryID)).Err()
			// 任务处理成功后，手动提交 offset
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
			}
		}
	}

	if err := r.Close(); err != nil {
		log.Fatalf("关闭 Kafka 消费者失败: %v", err)
	}
}
