package services

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"lead-intake/logger"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON events to Kafka on a best-effort basis. A Producer
// without brokers is disabled and Publish is a no-op.
type Producer struct {
	mu          sync.Mutex
	writer      MessageWriter
	attempts    int
	backoff     func(attempt int) time.Duration
	isConnected bool
}

// NewProducer initializes a Kafka writer for brokers. With no brokers the
// returned producer is disabled.
func NewProducer(brokers []string) *Producer {
	if len(brokers) == 0 {
		logger.Info("Kafka is disabled (KAFKA_BROKERS is empty)")
		return &Producer{}
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		Async:                  false,
		WriteTimeout:           10 * time.Second,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}

	logger.Info("Kafka producer initialized. Brokers=%v", brokers)
	return newProducerWithWriter(writer)
}

func newProducerWithWriter(w MessageWriter) *Producer {
	return &Producer{
		writer:      w,
		attempts:    3,
		backoff:     exponentialBackoff,
		isConnected: true,
	}
}

func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

// Enabled reports whether the producer has a writer.
func (p *Producer) Enabled() bool {
	return p != nil && p.writer != nil
}

// Publish marshals value to JSON and publishes to the given topic with key
// Uses exponential backoff retry logic
func (p *Producer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	if !p.Enabled() {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		logger.Error("Error marshaling Kafka message: %v", err)
		return err
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < p.attempts; attempt++ {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := p.writer.WriteMessages(writeCtx, msg)
		cancel()

		if err == nil {
			logger.Debug("Published to Kafka topic: %s with key: %s, payload size: %d bytes", topic, key, len(payload))
			p.isConnected = true
			return nil
		}

		lastErr = err
		p.isConnected = false
		if attempt < p.attempts-1 {
			wait := p.backoff(attempt)
			logger.Warn("Kafka publish attempt %d/%d failed, retrying in %v: %v", attempt+1, p.attempts, wait, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		} else {
			logger.Error("Kafka publish failed after %d attempts: %v", p.attempts, err)
		}
	}

	return lastErr
}

// IsConnected returns true if the last publish succeeded
func (p *Producer) IsConnected() bool {
	if !p.Enabled() {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isConnected
}

// Close gracefully closes the Kafka producer
func (p *Producer) Close() error {
	if !p.Enabled() {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writer.Close()
}
