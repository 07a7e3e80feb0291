package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cafe-storefront/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Sink delivers encoded events somewhere
type Sink interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a Kafka producer. Writes are asynchronous so a slow
// broker never holds up a page render; delivery failures are logged.
func NewProducer(brokers []string, topic string) *Producer {
	logger := util.GetLogger()
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("Failed to deliver storefront events",
					zap.Int("count", len(messages)),
					zap.Error(err))
			}
		},
	}

	return &Producer{writer: writer}
}

// PublishEvent publishes an event to Kafka
func (p *Producer) PublishEvent(ctx context.Context, key string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: eventBytes,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	util.GetLogger().Debug("Published event", zap.String("key", key), zap.String("type", fmt.Sprintf("%T", event)))
	return nil
}

// Close flushes pending messages and closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NoopSink drops every event. Used when no brokers are configured.
type NoopSink struct{}

func (NoopSink) PublishEvent(context.Context, string, interface{}) error { return nil }
func (NoopSink) Close() error { return nil }

// RecordedEvent is an event captured by MemorySink
type RecordedEvent struct {
	Key   string
	Event interface{}
}

// MemorySink keeps events in memory
type MemorySink struct {
	mu     sync.Mutex
	events []RecordedEvent
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) PublishEvent(_ context.Context, key string, event interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, RecordedEvent{Key: key, Event: event})
	return nil
}

func (m *MemorySink) Close() error { return nil }

// Events returns a copy of everything published so far
func (m *MemorySink) Events() []RecordedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedEvent, len(m.events))
	copy(out, m.events)
	return out
}
