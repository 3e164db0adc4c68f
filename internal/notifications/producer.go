package notifications

import (
	"context"
	"fmt"
	"time"

	"tourly/internal/booking"
	"tourly/pkg/logger"

	"github.com/IBM/sarama"
)

// KafkaProducerConfig contains configuration for the booking event producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig(brokers []string, topic string) *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          brokers,
		Topic:            topic,
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaEventProducer publishes booking lifecycle events to Kafka. It
// implements booking.EventPublisher.
type KafkaEventProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	logger   *logger.Logger
}

// NewKafkaEventProducer creates a new Kafka booking event producer
func NewKafkaEventProducer(config *KafkaProducerConfig) (*KafkaEventProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keys messages by session so each session's events
	// stay ordered within one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaEventProducer{
		producer: producer,
		config:   config,
		logger:   logger.GetDefault(),
	}, nil
}

// PublishBookingConfirmed publishes a booking confirmation event
func (p *KafkaEventProducer) PublishBookingConfirmed(ctx context.Context, record *booking.BookingRecord) error {
	event := NewBookingConfirmedEvent(record)
	return p.publish(ctx, record.SessionID.String(), string(event.Type), event)
}

// PublishPaymentReconciliation publishes a reconciliation event for a late
// or orphaned payment signal
func (p *KafkaEventProducer) PublishPaymentReconciliation(ctx context.Context, note booking.ReconciliationNote) error {
	event := NewPaymentReconciliationEvent(note)
	return p.publish(ctx, note.SessionID, string(event.Type), event)
}

func (p *KafkaEventProducer) publish(ctx context.Context, key, eventType string, event interface{}) error {
	messageBytes, err := ToJSON(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.config.Topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
			{Key: []byte("producer"), Value: []byte("tourly-booking")},
			{Key: []byte("published_at"), Value: []byte(time.Now().Format(time.RFC3339))},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send %s event to Kafka: %w", eventType, err)
	}

	p.logger.InfoWithContext(ctx, "booking event published", map[string]interface{}{
		"topic":      p.config.Topic,
		"event_type": eventType,
		"partition":  partition,
		"offset":     offset,
	})
	return nil
}

// Close closes the Kafka producer
func (p *KafkaEventProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}

// noopPublisher drops events. Used when Kafka is disabled; publishing is
// best effort and never blocks a booking.
type noopPublisher struct{}

// NewNoopPublisher returns a publisher that discards all events
func NewNoopPublisher() booking.EventPublisher {
	return &noopPublisher{}
}

func (n *noopPublisher) PublishBookingConfirmed(ctx context.Context, record *booking.BookingRecord) error {
	return nil
}

func (n *noopPublisher) PublishPaymentReconciliation(ctx context.Context, note booking.ReconciliationNote) error {
	return nil
}
