package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/database"
	"github.com/sevalink/marketplace_server/internal/pkg/email"
	"github.com/sevalink/marketplace_server/internal/pkg/logger"
	"github.com/sevalink/marketplace_server/internal/pkg/queue"
	"github.com/sevalink/marketplace_server/internal/worker"
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

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	log.Info().Msg("redis connected")

	jobQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
	processor := worker.NewProcessor(email.NewService(&cfg.Email, &cfg.Site), jobQueue, cfg.Queue.MaxAttempts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Int("workers", cfg.Queue.MaxWorkers).Str("queue", cfg.Queue.NotificationQueue).Msg("worker started")
	processor.Run(ctx, cfg.Queue.MaxWorkers)
	log.Info().Msg("worker shutdown complete")
}
