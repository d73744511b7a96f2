package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sjsage522/avitoworker/config"
	"sjsage522/avitoworker/helpers"
	"sjsage522/avitoworker/internal/scraper"
	"sjsage522/avitoworker/logger"
	"sjsage522/avitoworker/services/cache"
	"sjsage522/avitoworker/services/publisher"
	"sjsage522/avitoworker/services/worker"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Initialize structured logging
	logger.Init()

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}

	requests, err := cfg.Requests()
	if err != nil {
		logger.Fatal("Invalid search configuration: %v", err)
	}

	logger.Info("Starting avito worker in %s mode with %d queries", cfg.Environment, len(requests))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Block memo store
	cacheSvc := cache.NewMemcacheService(cfg.MemcacheAddr)

	// Ad publisher
	pub := publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	defer pub.Close()

	source := scraper.New(scraper.Config{
		SearchURL:  cfg.SearchURL,
		BaseURL:    cfg.BaseURL,
		BlockedURL: cfg.BlockedURL,
		PageDelay:  cfg.PageDelay,
		CacheKey:   cfg.CacheKey,
		BlockTime:  cfg.BlockTime,
	}, cacheSvc)

	w := worker.NewWorker(
		ctx,
		source,
		requests,
		pub,
		helpers.NewLogger("error.log"),
		cfg.CrawlInterval,
		cfg.MaxAdsPerQuery,
	)

	// Stop on SIGINT or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal %v, shutting down", sig)
		cancel()
	}()

	if err := w.Start(); err != nil && err != context.Canceled {
		logger.Fatal("Worker stopped: %v", err)
	}

	logger.Info("Shutdown complete")
}
