package main

import (
	"context"
	"os"
	"strconv"

	aiadapter "campusblog/internal/adapters/ai"
	dbadapter "campusblog/internal/adapters/database"
	"campusblog/internal/adapters/httpapi"
	redisadapter "campusblog/internal/adapters/redis"
	searchadapter "campusblog/internal/adapters/search"
	"campusblog/internal/adapters/stream"
	"campusblog/internal/config"
	aiPort "campusblog/internal/ports/ai"
	searchPort "campusblog/internal/ports/search"

	"campusblog/internal/core/fanoutqueue"
	moderationapp "campusblog/internal/core/moderation/service"
	"campusblog/internal/core/notification"
	notificationapp "campusblog/internal/core/notification/service"
	"campusblog/internal/core/post"
	postapp "campusblog/internal/core/post/service"
	"campusblog/internal/core/subscription"
	subscriptionapp "campusblog/internal/core/subscription/service"
	"campusblog/internal/workers"

	"go.uber.org/zap"
)

func main() {
	config.InitLogger()
	config.Init()

	config.InitDB()

	if err := config.DB.AutoMigrate(
		&post.Post{},
		&post.Reply{},
		&post.Report{},
		&subscription.Subscription{},
		&notification.Notification{},
		&fanoutqueue.FanoutTask{},
	); err != nil {
		config.Logger.Fatal("Error during migrations:", zap.Error(err))
	}

	config.Logger.Info("Database migrations completed")

	config.InitRedis()

	defer closeResources(config.Logger)

	config.Logger.Info("App is running...")

	postRepo := dbadapter.NewPostRepositoryDatabase(config.DB)
	subscriptionRepo := dbadapter.NewSubscriptionRepositoryDatabase(config.DB)
	notificationRepo := dbadapter.NewNotificationRepositoryDatabase(config.DB)
	fanoutRepo := dbadapter.NewFanoutRepositoryDatabase(config.DB)
	pusher := redisadapter.NewNotificationPusherRedis(config.RedisClient)
	hub := stream.NewHub(config.RedisClient, config.Logger)

	var indexer searchPort.SearchIndexer = &searchadapter.Noop{}
	if addr := os.Getenv("SEARCH_ADDR"); addr != "" {
		indexer = searchadapter.NewClient(addr, os.Getenv("SEARCH_INDEX"))
	}

	var generator aiPort.ReplyGenerator = &aiadapter.Disabled{}
	if addr := os.Getenv("AI_ADDR"); addr != "" {
		generator = aiadapter.NewClient(addr, os.Getenv("AI_API_KEY"))
	}

	postSvc := postapp.NewPostService(postRepo, fanoutRepo, indexer, generator, config.Logger)
	moderationSvc := moderationapp.NewModerationService(postRepo, indexer, config.Logger)
	subscriptionSvc := subscriptionapp.NewSubscriptionService(subscriptionRepo, notificationRepo, config.Logger)
	notificationSvc := notificationapp.NewNotificationService(notificationRepo, subscriptionRepo, pusher, config.Logger)

	r := httpapi.SetupRoutes(postSvc, moderationSvc, subscriptionSvc, notificationSvc, hub, []byte(os.Getenv("JWT_SECRET")), config.Logger)

	batchSize, err := strconv.Atoi(os.Getenv("FANOUT_BATCH_SIZE"))
	if err != nil || batchSize <= 0 {
		batchSize = 100
	}

	fanoutWorker := workers.NewFanoutWorker(fanoutRepo, notificationSvc, batchSize, config.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)
	go fanoutWorker.Run(ctx)

	if err := r.Run(":" + os.Getenv("APP_PORT")); err != nil {
		config.Logger.Fatal("Server failed to start:", zap.Error(err))
	}
}

func closeResources(logger *zap.Logger) {
	if err := config.RedisClient.Close(); err != nil {
		logger.Error("Error closing Redis connection:", zap.Error(err))
	}

	sqlDB, err := config.DB.DB()
	if err != nil {
		logger.Error("Error getting raw DB:", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection:", zap.Error(err))
	}
}
