package notifications

import (
	"context"
	"fmt"
	"time"

	"fieldbook/internal/shared/config"
	"fieldbook/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer publishes notifications for the consumer workers
type Producer interface {
	Publish(ctx context.Context, n *EmailNotification) error
	Close() error
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewProducerConfig is the sarama setup for notification publishing
func NewProducerConfig() *sarama.Config {
	c := sarama.NewConfig()
	c.Producer.Return.Successes = true
	c.Producer.Return.Errors = true
	c.Producer.RequiredAcks = sarama.WaitForAll
	c.Producer.Compression = sarama.CompressionSnappy
	c.Producer.Retry.Max = 3
	c.Producer.Timeout = 10 * time.Second
	c.Producer.Idempotent = true
	c.Net.MaxOpenRequests = 1
	c.Producer.Partitioner = sarama.NewHashPartitioner
	return c
}

func NewKafkaProducer(cfg config.KafkaConfig, log *logger.Logger) (*KafkaProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaProducerWith(producer, cfg.NotificationTopic, log), nil
}

// NewKafkaProducerWith wraps an existing sarama producer
func NewKafkaProducerWith(producer sarama.SyncProducer, topic string, log *logger.Logger) *KafkaProducer {
	return &KafkaProducer{producer: producer, topic: topic, log: log}
}

func (p *KafkaProducer) Publish(ctx context.Context, n *EmailNotification) error {
	n.Status = NotificationStatusQueued
	n.UpdatedAt = time.Now()

	payload, err := n.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(n.GetPartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Headers:   headers(n),
		Timestamp: n.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		n.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	p.log.DebugContext(ctx, "Notification published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"type", n.Type,
		"booking_id", n.Payment.BookingID,
	)
	return nil
}

func headers(n *EmailNotification) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(n.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(n.Type)},
		{Key: []byte("booking_id"), Value: []byte(n.Payment.BookingID)},
		{Key: []byte("producer"), Value: []byte("fieldbook-notifications")},
		{Key: []byte("created_at"), Value: []byte(n.CreatedAt.Format(time.RFC3339))},
	}
}

func (p *KafkaProducer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}
