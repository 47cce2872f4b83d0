// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pai-companion-go/internal/config"
	"pai-companion-go/internal/handler"
	"pai-companion-go/internal/middleware"
	"pai-companion-go/internal/model"
	"pai-companion-go/internal/pipeline"
	"pai-companion-go/internal/repository"
	"pai-companion-go/internal/service"
	"pai-companion-go/pkg/database"
	"pai-companion-go/pkg/embedding"
	"pai-companion-go/pkg/es"
	"pai-companion-go/pkg/kafka"
	"pai-companion-go/pkg/llm"
	"pai-companion-go/pkg/log"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库和 Redis
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	if err := database.DB.AutoMigrate(
		&model.RelationshipState{},
		&model.Memory{},
		&model.EmotionalStateSample{},
		&model.ConversationTopic{},
		&model.ModerationLogEntry{},
		&model.ProactiveEngagement{},
		&model.ConversationPattern{},
		&model.UserProfile{},
		&model.Companion{},
	); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 语义检索是可选协作方，未启用时记忆检索退化为 SQL 排序
	if cfg.Elasticsearch.Enabled {
		if err := es.InitES(cfg.Elasticsearch, cfg.Embedding.Dimensions); err != nil {
			log.Errorf("es 初始化失败 %s", err)
			return
		}
	}
	kafka.InitProducers(cfg.Kafka)

	// 4. 初始化 Repository
	conversationRepo := repository.NewConversationRepository(database.RDB)
	relationshipRepo := repository.NewRelationshipRepository(database.DB)
	memoryRepo := repository.NewMemoryRepository(database.DB)
	emotionRepo := repository.NewEmotionRepository(database.DB)
	topicRepo := repository.NewTopicRepository(database.DB)
	moderationRepo := repository.NewModerationLogRepository(database.DB)
	engagementRepo := repository.NewEngagementRepository(database.DB)
	patternRepo := repository.NewPatternRepository(database.DB)
	profileRepo := repository.NewProfileRepository(database.DB)

	// 5. 初始化 Service (依赖注入)
	embeddingClient := embedding.NewClient(cfg.Embedding)
	llmClient := llm.NewClient(cfg.LLM)

	languageService := service.NewLanguageService()
	moderationService := service.NewModerationService(languageService, moderationRepo)
	emotionService := service.NewEmotionService(llmClient, emotionRepo)
	memoryService := service.NewMemoryService(llmClient, embeddingClient, memoryRepo, cfg.Elasticsearch)
	exampleService := service.NewExampleService(patternRepo, cfg.Engine)
	if err := exampleService.Load(); err != nil {
		log.Fatalf("加载示例语料失败: %v", err)
	}
	topicService := service.NewTopicService(topicRepo)
	styleService := service.NewStyleService(conversationRepo)
	relationshipService := service.NewRelationshipService(relationshipRepo, cfg.Engine)
	responderService := service.NewResponderService(
		llmClient, conversationRepo, profileRepo,
		languageService, moderationService, emotionService, memoryService,
		exampleService, topicService, styleService, relationshipService,
		cfg.Engine,
	)
	proactiveService := service.NewProactiveService(
		llmClient, relationshipRepo, engagementRepo, conversationRepo, memoryService, cfg.Proactive,
	)

	// 6. 初始化记忆索引管道 (Processor)
	processor := pipeline.NewProcessor(embeddingClient, cfg.Elasticsearch)

	// 7. 启动后台 Kafka 消费者与调度扫描
	if cfg.Elasticsearch.Enabled {
		go kafka.StartConsumer(cfg.Kafka, processor)
	}
	sweepCtx, cancelSweeps := context.WithCancel(context.Background())
	defer cancelSweeps()
	go runSweeps(sweepCtx, proactiveService, cfg.Proactive.ScheduleSweepMinutes, cfg.Proactive.DispatchSweepMinutes)

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 9. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		chat := apiV1.Group("/chat")
		{
			chat.POST("/message", handler.NewChatHandler(responderService).SendMessage)
		}

		relationships := apiV1.Group("/relationships")
		{
			relationships.GET("/:userId/:companionId", handler.NewRelationshipHandler(relationshipService).Get)
		}

		proactive := apiV1.Group("/proactive")
		{
			proactive.POST("/schedule-sweep", handler.NewProactiveHandler(proactiveService).TriggerScheduleSweep)
			proactive.POST("/dispatch-sweep", handler.NewProactiveHandler(proactiveService).TriggerDispatchSweep)
			proactive.GET("/:userId/:companionId", handler.NewProactiveHandler(proactiveService).List)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")
	cancelSweeps()

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}

// runSweeps 驱动排期与派发两个周期扫描，直到 ctx 取消。
func runSweeps(ctx context.Context, proactiveService service.ProactiveService, scheduleMinutes, dispatchMinutes int) {
	if scheduleMinutes <= 0 {
		scheduleMinutes = 30
	}
	if dispatchMinutes <= 0 {
		dispatchMinutes = 1
	}
	scheduleTicker := time.NewTicker(time.Duration(scheduleMinutes) * time.Minute)
	dispatchTicker := time.NewTicker(time.Duration(dispatchMinutes) * time.Minute)
	defer scheduleTicker.Stop()
	defer dispatchTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("调度扫描已停止")
			return
		case <-scheduleTicker.C:
			if err := proactiveService.RunScheduleSweep(ctx); err != nil {
				log.Errorf("排期扫描失败: %v", err)
			}
		case <-dispatchTicker.C:
			if err := proactiveService.RunDispatchSweep(ctx); err != nil {
				log.Errorf("派发扫描失败: %v", err)
			}
		}
	}
}
