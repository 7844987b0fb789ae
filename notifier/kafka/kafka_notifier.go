package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/solokill756/tourbooking/notifier"
	"go.uber.org/zap"
)

// KafkaNotifier publishes invalidation events to the cache-invalidation
// topic. The writer runs in async mode, so Notify never blocks a request on
// broker round-trips; delivery failures are reported through the completion
// callback and only logged.
type KafkaNotifier struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaNotifier(brokers []string, topic string, logger *zap.Logger) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		Async:    true,
	}

	writer.Completion = func(messages []kafka.Message, err error) {
		if err != nil {
			logger.Error("cache invalidation publish failed",
				zap.Int("messages", len(messages)),
				zap.Error(err))
		}
	}

	return &KafkaNotifier{
		writer: writer,
		logger: logger,
	}
}

// Notify publishes one invalidation event for the scope
func (n *KafkaNotifier) Notify(ctx context.Context, scope notifier.Scope) error {
	event := notifier.InvalidationEvent{
		Scope:     scope,
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(scope),
		Value: value,
	})
}

// Close flushes and closes the underlying writer
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
