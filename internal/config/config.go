// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// 全局配置变量，仅在 main 中读取一次；各服务通过构造函数持有自己的配置副本。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Log           LogConfig           `mapstructure:"log"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Embedding     EmbeddingConfig     `mapstructure:"embedding"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Engine        EngineConfig        `mapstructure:"engine"`
	Proactive     ProactiveConfig     `mapstructure:"proactive"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig 存储 Kafka 相关的配置。
// IndexTopic 承载记忆向量化任务，NotifyTopic 承载主动消息的实时通知。
type KafkaConfig struct {
	Brokers     string `mapstructure:"brokers"`
	IndexTopic  string `mapstructure:"index_topic"`
	NotifyTopic string `mapstructure:"notify_topic"`
}

// ElasticsearchConfig 存储 Elasticsearch 相关的配置。
// Enabled 为 false 时语义检索协作方完全缺席，记忆检索退化为 SQL 排序。
type ElasticsearchConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addresses string `mapstructure:"addresses"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	IndexName string `mapstructure:"index_name"`
}

// EmbeddingConfig 存储 Embedding 模型相关的配置。
type EmbeddingConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
}

// LLMConfig 存储文本生成服务相关的配置。
type LLMConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// EngineConfig 是对话引擎每一轮合成使用的不可变调参集合。
// 在启动时构造一次，随后通过构造函数显式传入各服务，运行期不再修改。
type EngineConfig struct {
	MaxResponseLength      int     `mapstructure:"max_response_length"`
	MinResponseLength      int     `mapstructure:"min_response_length"`
	MaxTokens              int     `mapstructure:"max_tokens"`
	Temperature            float64 `mapstructure:"temperature"`
	RefineMaxTokens        int     `mapstructure:"refine_max_tokens"`
	HistoryWindow          int     `mapstructure:"history_window"`
	RAGConfidenceThreshold float64 `mapstructure:"rag_confidence_threshold"`
	MaxRAGExamples         int     `mapstructure:"max_rag_examples"`
	MemoryRetrievalLimit   int     `mapstructure:"memory_retrieval_limit"`
	MemoryRecentHours      int     `mapstructure:"memory_recent_hours"`
	IntimacyGrowthRate     float64 `mapstructure:"intimacy_growth_rate"`
	TrustGrowthRate        float64 `mapstructure:"trust_growth_rate"`
	TurnLockSeconds        int     `mapstructure:"turn_lock_seconds"`
}

// ProactiveConfig 是主动触达调度器的不可变调参集合。
type ProactiveConfig struct {
	MinIntervalHours         int     `mapstructure:"min_interval_hours"`
	MaxEngagementsPerDay     int     `mapstructure:"max_engagements_per_day"`
	MinRelationshipStage     string  `mapstructure:"min_relationship_stage"`
	MinIntimacyLevel         float64 `mapstructure:"min_intimacy_level"`
	MinTrustLevel            float64 `mapstructure:"min_trust_level"`
	CheckInAfterHours        int     `mapstructure:"check_in_after_hours"`
	MemoryReminderAfterHours int     `mapstructure:"memory_reminder_after_hours"`
	EmotionalSupportAfterHrs int     `mapstructure:"emotional_support_after_hours"`
	MaxMessageLength         int     `mapstructure:"max_message_length"`
	MessageTemperature       float64 `mapstructure:"message_temperature"`
	MaxScheduledEngagements  int     `mapstructure:"max_scheduled_engagements"`
	DispatchBatchSize        int     `mapstructure:"dispatch_batch_size"`
	ScheduleSweepMinutes     int     `mapstructure:"schedule_sweep_minutes"`
	DispatchSweepMinutes     int     `mapstructure:"dispatch_sweep_minutes"`
}

// DefaultEngine 返回引擎默认调参。
func DefaultEngine() EngineConfig {
	return EngineConfig{
		MaxResponseLength:      500,
		MinResponseLength:      10,
		MaxTokens:              100,
		Temperature:            0.8,
		RefineMaxTokens:        80,
		HistoryWindow:          30,
		RAGConfidenceThreshold: 0.8,
		MaxRAGExamples:         3,
		MemoryRetrievalLimit:   30,
		MemoryRecentHours:      2,
		IntimacyGrowthRate:     0.2,
		TrustGrowthRate:        0.15,
		TurnLockSeconds:        30,
	}
}

// CasualFriendlyEngine 预设：轻松随意的短回复。
func CasualFriendlyEngine() EngineConfig {
	c := DefaultEngine()
	c.Temperature = 0.9
	c.MaxResponseLength = 300
	return c
}

// ProfessionalEngine 预设：克制稳重，较低随机性。
func ProfessionalEngine() EngineConfig {
	c := DefaultEngine()
	c.Temperature = 0.5
	c.MaxResponseLength = 400
	return c
}

// EmotionallyIntelligentEngine 预设：更长的共情回复，更大的记忆窗口。
func EmotionallyIntelligentEngine() EngineConfig {
	c := DefaultEngine()
	c.Temperature = 0.85
	c.MemoryRetrievalLimit = 50
	c.MemoryRecentHours = 4
	return c
}

// ConciseEngine 预设：短平快。
func ConciseEngine() EngineConfig {
	c := DefaultEngine()
	c.MaxTokens = 60
	c.MaxResponseLength = 200
	return c
}

// DefaultProactive 返回主动触达默认调参。
func DefaultProactive() ProactiveConfig {
	return ProactiveConfig{
		MinIntervalHours:         2,
		MaxEngagementsPerDay:     3,
		MinRelationshipStage:     "friend",
		MinIntimacyLevel:         3,
		MinTrustLevel:            3,
		CheckInAfterHours:        24,
		MemoryReminderAfterHours: 12,
		EmotionalSupportAfterHrs: 6,
		MaxMessageLength:         100,
		MessageTemperature:       0.8,
		MaxScheduledEngagements:  50,
		DispatchBatchSize:        10,
		ScheduleSweepMinutes:     30,
		DispatchSweepMinutes:     1,
	}
}

// AggressiveProactive 预设：更频繁、门槛更低的主动触达。
func AggressiveProactive() ProactiveConfig {
	c := DefaultProactive()
	c.MinIntervalHours = 1
	c.MaxEngagementsPerDay = 6
	c.MinRelationshipStage = "acquaintance"
	c.MinIntimacyLevel = 2
	c.MinTrustLevel = 2
	return c
}

// ConservativeProactive 预设：更克制的主动触达。
func ConservativeProactive() ProactiveConfig {
	c := DefaultProactive()
	c.MinIntervalHours = 8
	c.MaxEngagementsPerDay = 1
	c.MinRelationshipStage = "close_friend"
	return c
}

// HighEmpathyProactive 预设：优先情感支持类触达。
func HighEmpathyProactive() ProactiveConfig {
	c := DefaultProactive()
	c.EmotionalSupportAfterHrs = 3
	c.MemoryReminderAfterHours = 8
	return c
}

// MinimalProactive 预设：仅保留最低限度的例行问候。
func MinimalProactive() ProactiveConfig {
	c := DefaultProactive()
	c.MinIntervalHours = 24
	c.MaxEngagementsPerDay = 1
	c.CheckInAfterHours = 72
	return c
}

// normalize 为缺省字段补上默认值，避免零值配置把引擎推向不可用状态。
func (c *Config) normalize() {
	def := DefaultEngine()
	if c.Engine.MaxResponseLength == 0 {
		c.Engine = def
	}
	if c.Engine.TurnLockSeconds == 0 {
		c.Engine.TurnLockSeconds = def.TurnLockSeconds
	}
	if c.Engine.HistoryWindow == 0 {
		c.Engine.HistoryWindow = def.HistoryWindow
	}
	pdef := DefaultProactive()
	if c.Proactive.MinIntervalHours == 0 {
		c.Proactive = pdef
	}
	if c.Proactive.DispatchBatchSize == 0 {
		c.Proactive.DispatchBatchSize = pdef.DispatchBatchSize
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 30
	}
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
	Conf.normalize()
}
