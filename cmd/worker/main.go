package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"github.com/solokill756/tourbooking/cache/redis"
	"github.com/solokill756/tourbooking/config"
	"github.com/solokill756/tourbooking/worker"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (fallback to env variables if config file not found)
	cfg, err := config.Initialise("config.yaml", false)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Initialize cache
	cacheRepo, err := redis.NewRedisCacheRepository(cfg.Redis.GetRedisURL(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("failed to initialize cache", zap.Error(err))
	}

	// Setup Kafka consumer
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.InvalidationTopic,
		GroupID: cfg.Kafka.ConsumerGroup,
	})
	defer consumer.Close()

	processor := worker.NewInvalidationProcessor(consumer, cacheRepo, logger)

	// Graceful shutdown context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("received shutdown signal, stopping worker")
		cancel()
	}()

	logger.Info("cache invalidation worker started")
	if err := processor.Start(ctx); err != nil && err != context.Canceled {
		logger.Fatal("worker error", zap.Error(err))
	}

	logger.Info("worker stopped gracefully")
}
