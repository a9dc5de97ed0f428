package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/api"
	"github.com/sevalink/marketplace_server/internal/api/handler"
	"github.com/sevalink/marketplace_server/internal/database"
	"github.com/sevalink/marketplace_server/internal/pkg/cron"
	"github.com/sevalink/marketplace_server/internal/pkg/lock"
	"github.com/sevalink/marketplace_server/internal/pkg/logger"
	"github.com/sevalink/marketplace_server/internal/pkg/oauth"
	"github.com/sevalink/marketplace_server/internal/pkg/oss"
	"github.com/sevalink/marketplace_server/internal/pkg/payment"
	"github.com/sevalink/marketplace_server/internal/pkg/pubsub"
	"github.com/sevalink/marketplace_server/internal/pkg/queue"
	"github.com/sevalink/marketplace_server/internal/pkg/ws"
	"github.com/sevalink/marketplace_server/internal/repository"
	"github.com/sevalink/marketplace_server/internal/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.Log)

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	if err := database.SeedCatalog(db, &cfg.Access); err != nil {
		log.Fatal().Err(err).Msg("failed to seed pricing catalog")
	}
	log.Info().Msg("database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	log.Info().Msg("redis connected")

	// photo uploads are disabled without OSS credentials
	var uploader service.PhotoUploader
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err := oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Warn().Err(err).Msg("failed to init OSS client, photo uploads disabled")
		} else {
			uploader = ossClient
			log.Info().Msg("OSS client initialized")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// entitlement changes go through Redis so every instance can push them
	// to its own SSE and websocket listeners
	wsHub := ws.NewHub()
	broker := pubsub.NewBroker()
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(ctx, func(update *pubsub.EntitlementUpdate) {
			broker.Publish(update)
			if err := wsHub.SendToUser(update.UserID, &ws.Message{
				Type: ws.MessageEntitlementUpdate,
				Data: update,
			}); err != nil {
				log.Debug().Err(err).Int64("user_id", update.UserID).Msg("websocket push skipped")
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("entitlement subscriber stopped")
		}
	}()

	jobQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)

	userRepo := repository.NewUserRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	currency := cfg.Payment.Currency
	authService := service.NewAuthService(userRepo, oauth.NewStateStore(rdb), cfg)
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(repository.NewCatalogRepository(db), currency)
	notificationService := service.NewNotificationService(
		repository.NewNotificationRepository(db), userRepo, providerRepo, jobQueue, &cfg.Site,
	)
	notificationService.SetPusher(wsHub)
	accessService := service.NewAccessService(service.AccessDeps{
		DB:        db,
		Catalog:   catalogService,
		Gateway:   payment.NewClient(&cfg.Payment),
		Locker:    lock.NewLocker(rdb, time.Duration(cfg.Access.ReviewLockSeconds)*time.Second),
		Publisher: pubsub.NewPublisher(rdb),
		Broker:    broker,
		Notifier:  notificationService,
		Config:    &cfg.Access,
		Currency:  currency,
	})
	providerService := service.NewProviderService(
		providerRepo, categoryRepo, userRepo, accessService, uploader, notificationService, &cfg.Upload,
	)
	reviewService := service.NewReviewService(db, notificationService)
	categoryService := service.NewCategoryService(categoryRepo)
	complaintService := service.NewComplaintService(repository.NewComplaintRepository(db), providerRepo)
	maintenanceService := service.NewMaintenanceService(
		repository.NewEntitlementRepository(db),
		repository.NewPaymentOrderRepository(db),
	)

	router := api.NewRouter(api.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Access:       handler.NewAccessHandler(accessService, catalogService, cfg.JWT.Secret),
		Provider:     handler.NewProviderHandler(providerService, reviewService),
		Category:     handler.NewCategoryHandler(categoryService),
		Review:       handler.NewReviewHandler(reviewService),
		Notification: handler.NewNotificationHandler(notificationService),
		Complaint:    handler.NewComplaintHandler(complaintService),
		Admin:        handler.NewAdminHandler(catalogService, accessService, providerService),
		WebSocket:    handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret, cfg.CORS.AllowedOrigins),
	}, cfg)

	cronService := cron.NewService(
		maintenanceService,
		cfg.Cron.AbandonOrdersSchedule,
		time.Duration(cfg.Payment.AbandonAfterMins)*time.Minute,
	)
	if err := cronService.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start cron service")
	}
	defer cronService.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router.Setup(),
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
