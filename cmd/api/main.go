package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/nutrinavigator/backend/config"
	"github.com/pageza/nutrinavigator/backend/internal/database"
	"github.com/pageza/nutrinavigator/backend/internal/middleware"
	"github.com/pageza/nutrinavigator/backend/internal/pkg/logger"
	"github.com/pageza/nutrinavigator/backend/internal/server"
	"github.com/pageza/nutrinavigator/backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis is optional; the limiter falls back to in-process buckets without it
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Warn("redis unavailable, using in-process rate limiter", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	llm, err := service.NewLLMService(service.LLMConfig{
		APIKey:      cfg.GroqAPIKey,
		APIURL:      cfg.GroqAPIURL,
		Model:       cfg.GroqModel,
		Temperature: cfg.GroqTemperature,
		Timeout:     cfg.LLMTimeout,
		MaxRetries:  cfg.LLMMaxRetries,
	}, log)
	if err != nil {
		log.Fatal("failed to create completion client", "error", err)
	}

	recommendations := service.NewRecommendationService(llm, log)
	limiter := middleware.NewRecommendationRateLimiter(redisClient, cfg.RateLimitPerHour)

	srv, err := server.New(cfg, recommendations, limiter, log)
	if err != nil {
		log.Fatal("failed to create server", "error", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("server error", "error", err)
		}
		return
	case <-ctx.Done():
		log.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", "error", err)
		return
	}
	log.Info("server stopped")
}
