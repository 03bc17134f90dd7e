package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"marketplace_chat_service/internal/chat/app"
	"marketplace_chat_service/internal/chat/domain"
	"marketplace_chat_service/internal/chat/handlers"
	"marketplace_chat_service/internal/chat/repository"
	"marketplace_chat_service/internal/chat/router"
	"marketplace_chat_service/pkg/config"
	"marketplace_chat_service/pkg/database"
	"marketplace_chat_service/pkg/logger"
	testtool "marketplace_chat_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)

	ctx := context.Background()

	// 1. Mongo 连线 (conversation documents)
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host, cfg.Mongo.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.Mongo.RetryCount,
			RetryInterval: time.Duration(cfg.Mongo.RetryInterval),
		},
		cfg.Mongo.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", uri)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// 2. Postgres 连线 (member / listing directory)
	pgURI := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.Directory.User, cfg.Directory.Password, cfg.Directory.Host, cfg.Directory.Port, cfg.Directory.Database)
	pgPool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    pgURI,
		RetryCount:    cfg.Directory.RetryCount,
		RetryInterval: time.Duration(cfg.Directory.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL database after retries", zap.Error(err))
	}
	defer pgPool.Close()

	// 3. Redis 连线 (participant display cache)
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}
	participantCache := database.NewRedisRepository[domain.ParticipantInfo](redisClient)

	// 4. 初始化 Repository
	convRepo := repository.NewMongoConversationRepository(mongo.Database)
	if err := convRepo.EnsureIndexes(ctx); err != nil {
		logger.Log.Fatal("ensure conversation indexes failed", zap.Error(err))
	}

	directory := repository.NewDirectoryRepository(pgPool)
	cacheTTL := cfg.ParticipantCacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	resolver := repository.NewCachedParticipantResolver(directory, participantCache, cacheTTL)

	// 5. Kafka event stream, optional
	var events repository.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		writer, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
		})
		if err != nil {
			logger.Log.Fatal("kafka writer init failed", zap.Error(err))
		}
		defer writer.Close()
		events = repository.NewKafkaEventPublisher(writer)
	} else {
		logger.Log.Info("kafka brokers not configured, event publishing disabled")
	}

	// 6. 初始化 UseCases
	conversationUC := app.NewConversationUseCase(convRepo, resolver, directory, events)
	messageUC := app.NewMessageUseCase(convRepo, resolver, directory, events)

	// 7. 启动 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, handlers.NewChatHandler(conversationUC, messageUC))

	testtool.StartPprof()

	port := ":" + cfg.Port
	logger.Log.Info("Chat Service listening on " + port)
	if err := r.Listen(port); err != nil {
		logger.Log.Fatal("Failed to start Fiber", zap.Error(err))
	}
}
