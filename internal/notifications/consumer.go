package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"fieldbook/internal/shared/config"
	"fieldbook/pkg/logger"
	"fieldbook/pkg/metrics"

	"github.com/IBM/sarama"
)

// RetryPolicy is exponential backoff: Backoff, 2x, 4x, ... for up to MaxRetries retries
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, Backoff: time.Second}
}

// deliver sends n, retrying with exponential backoff until the policy or ctx runs out
func deliver(ctx context.Context, sender Sender, n *EmailNotification, policy RetryPolicy, log *logger.Logger) error {
	n.Status = NotificationStatusSending

	for attempt := 0; ; attempt++ {
		err := sender.Send(ctx, n)
		if err == nil {
			n.MarkSent()
			return nil
		}
		n.RetryCount = attempt
		if attempt >= policy.MaxRetries {
			n.MarkFailed(err)
			return fmt.Errorf("giving up after %d attempts: %w", attempt+1, err)
		}

		delay := policy.Backoff * time.Duration(1<<attempt)
		log.Warn("Notification delivery failed, retrying",
			"notification_id", n.ID,
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			n.MarkFailed(ctx.Err())
			return ctx.Err()
		}
	}
}

// KafkaConsumer runs consumer-group workers that deliver notifications
type KafkaConsumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	workers int
	handler *groupHandler
	log     *logger.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewKafkaConsumer(cfg config.KafkaConfig, sender Sender, policy RetryPolicy, m *metrics.Metrics, log *logger.Logger) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.MaxProcessingTime = 5 * time.Minute
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	workers := cfg.NumConsumerWorkers
	if workers < 1 {
		workers = 1
	}

	log = log.WithComponent("notification-consumer")
	return &KafkaConsumer{
		group:   group,
		topics:  []string{cfg.NotificationTopic},
		workers: workers,
		handler: &groupHandler{sender: sender, policy: policy, metrics: m, log: log},
		log:     log,
	}, nil
}

// Start launches the workers and returns immediately
func (c *KafkaConsumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for err := range c.group.Errors() {
			c.log.WithError(err).Error("Consumer group error")
		}
	}()

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.run(ctx, workerID)
		}(i)
	}
	c.log.Info("Notification consumers started", "workers", c.workers, "topics", c.topics)
}

func (c *KafkaConsumer) run(ctx context.Context, workerID int) {
	for {
		if err := c.group.Consume(ctx, c.topics, c.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			c.log.WithError(err).Error("Error consuming notifications", "worker", workerID)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (c *KafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	err := c.group.Close()
	c.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type groupHandler struct {
	sender  Sender
	policy  RetryPolicy
	metrics *metrics.Metrics
	log     *logger.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.process(session.Context(), message)
			// failed deliveries are logged and dropped so one bad message cannot stall the partition
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *groupHandler) process(ctx context.Context, message *sarama.ConsumerMessage) {
	var n EmailNotification
	if err := json.Unmarshal(message.Value, &n); err != nil {
		h.log.WithError(err).Error("Dropping malformed notification",
			"partition", message.Partition, "offset", message.Offset)
		return
	}

	err := deliver(ctx, h.sender, &n, h.policy, h.log)
	h.metrics.NotificationDelivered(string(n.Type), err)
	if err != nil {
		h.log.LogNotificationFailed(ctx, n.Payment.BookingID, err)
		return
	}
	h.log.Info("Notification delivered", "type", n.Type, "booking_id", n.Payment.BookingID)
}
