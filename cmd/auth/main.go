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
	"github.com/taskforge/taskforge/internal/infrastructure/stream"
	"github.com/taskforge/taskforge/pkg/logger"
)

func main() {
	cfg := config.LoadAuth()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

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
	accountRepo := mongodb.NewAccountRepository(db)
	tokenRepo := mongodb.NewTokenRepository(db)
	publisher := stream.NewPublisher(rdb, cfg.Stream.AccountStream)

	accountService := service.NewAccountService(accountRepo, publisher, log)
	tokenService := service.NewTokenService(accountRepo, tokenRepo, cfg.JWTSecret, cfg.TokenTTL)

	e := api.NewAuthRouter(db, rdb, accountService, tokenService, log)

	// --- Serve until interrupted ---
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("auth server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("auth service started")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
