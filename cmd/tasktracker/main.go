package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskforge/taskforge/internal/api"
	"github.com/taskforge/taskforge/internal/core/service"
	"github.com/taskforge/taskforge/internal/infrastructure/config"
	mongodb "github.com/taskforge/taskforge/internal/infrastructure/db/mongo"
	redisdb "github.com/taskforge/taskforge/internal/infrastructure/db/redis"
	"github.com/taskforge/taskforge/internal/infrastructure/integration"
	"github.com/taskforge/taskforge/internal/infrastructure/stream"
	"github.com/taskforge/taskforge/pkg/logger"
)

func main() {
	cfg := config.LoadTracker()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Dependencies ---
	mirrorRepo := mongodb.NewMirrorRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)

	mirrorService := service.NewMirrorService(mirrorRepo, log)
	taskService := service.NewTaskService(taskRepo, mirrorRepo, paymentRepo, log)
	authClient := integration.NewAuthClient(cfg.AuthBaseURL, cfg.AuthTimeout, log)

	// --- Account event consumer (single sequential subscriber) ---
	consumer := stream.NewConsumer(
		rdb,
		mirrorService,
		cfg.Stream.AccountStream,
		cfg.Stream.ConsumerGroup,
		cfg.Stream.ConsumerName,
		log,
	)
	go func() {
		if err := consumer.Run(ctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("account event consumer stopped")
		}
	}()

	e := api.NewTrackerRouter(db, rdb, taskService, mirrorService, authClient, log)

	// --- Serve until interrupted ---
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("tracker server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("task tracker started")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	cancel() // stops the consumer

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
