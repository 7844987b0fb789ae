package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/solokill756/tourbooking/cache"
	"github.com/solokill756/tourbooking/notifier"
	"go.uber.org/zap"
)

// Retries live here, on the consuming side. The producer is strictly
// fire-and-forget.
const (
	maxAttempts  = 3
	retryBackoff = 500 * time.Millisecond
)

// InvalidationProcessor consumes cache-invalidation events and drops the
// matching Redis key groups.
type InvalidationProcessor struct {
	consumer *kafka.Reader
	cache    cache.CacheRepository
	logger   *zap.Logger

	processedCount int64
}

func NewInvalidationProcessor(consumer *kafka.Reader, cacheRepo cache.CacheRepository, logger *zap.Logger) *InvalidationProcessor {
	return &InvalidationProcessor{
		consumer: consumer,
		cache:    cacheRepo,
		logger:   logger,
	}
}

// Start consumes invalidation events until the context is cancelled
func (p *InvalidationProcessor) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := p.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.logger.Error("failed to read invalidation message", zap.Error(err))
				continue
			}

			if err := p.processMessage(ctx, msg); err != nil {
				p.logger.Error("failed to process invalidation event",
					zap.ByteString("key", msg.Key),
					zap.Error(err))
			}

			atomic.AddInt64(&p.processedCount, 1)
		}
	}
}

// Processed returns how many events have been consumed
func (p *InvalidationProcessor) Processed() int64 {
	return atomic.LoadInt64(&p.processedCount)
}

func (p *InvalidationProcessor) processMessage(ctx context.Context, msg kafka.Message) error {
	var event notifier.InvalidationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal invalidation event: %w", err)
	}

	p.logger.Info("invalidating cache scope",
		zap.String("scope", string(event.Scope)),
		zap.Time("published_at", event.Timestamp))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if lastErr = p.invalidate(ctx, event.Scope); lastErr == nil {
			return nil
		}
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff):
			}
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", maxAttempts, lastErr)
}

func (p *InvalidationProcessor) invalidate(ctx context.Context, scope notifier.Scope) error {
	switch scope {
	case notifier.ScopeBookings:
		return p.cache.InvalidateBookings(ctx)
	case notifier.ScopeTours:
		return p.cache.InvalidateTours(ctx)
	case notifier.ScopeUsers:
		return p.cache.InvalidateUsers(ctx)
	default:
		return fmt.Errorf("unknown invalidation scope: %q", scope)
	}
}
