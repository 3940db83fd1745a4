// Package notifications tells customers how their payment proof was judged.
// With Kafka enabled, verification publishes and consumer workers deliver;
// otherwise delivery runs in-process in the background.
package notifications

import (
	"context"
	"sync"
	"time"

	"fieldbook/internal/bookings"
	"fieldbook/internal/shared/config"
	"fieldbook/pkg/logger"
	"fieldbook/pkg/metrics"
)

// Service implements bookings.Notifier
type Service struct {
	producer Producer
	consumer *KafkaConsumer
	sender   Sender
	policy   RetryPolicy
	metrics  *metrics.Metrics
	log      *logger.Logger

	// in-process deliveries still running
	inflight sync.WaitGroup
}

var _ bookings.Notifier = (*Service)(nil)

// New wires Kafka when enabled and falls back to direct delivery otherwise
func New(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*Service, error) {
	log = log.WithComponent("notifications")
	sender := NewSender(cfg.Email, log)
	policy := DefaultRetryPolicy()

	if !cfg.Kafka.Enabled {
		return NewDirect(sender, policy, m, log), nil
	}

	producer, err := NewKafkaProducer(cfg.Kafka, log)
	if err != nil {
		return nil, err
	}
	consumer, err := NewKafkaConsumer(cfg.Kafka, sender, policy, m, log)
	if err != nil {
		producer.Close()
		return nil, err
	}

	log.Info("Kafka notifications enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.NotificationTopic)
	return &Service{producer: producer, consumer: consumer, sender: sender, policy: policy, metrics: m, log: log}, nil
}

// NewDirect delivers without a broker
func NewDirect(sender Sender, policy RetryPolicy, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{sender: sender, policy: policy, metrics: m, log: log}
}

// NewWithProducer publishes through producer and leaves delivery to someone else
func NewWithProducer(producer Producer, log *logger.Logger) *Service {
	return &Service{producer: producer, log: log}
}

func (s *Service) NotifyPaymentVerified(ctx context.Context, p bookings.PaymentNotification) error {
	n := FromPayment(p)

	if s.producer != nil {
		return s.producer.Publish(ctx, n)
	}

	// the request context ends with the response, delivery must outlive it
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		deliverCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		err := deliver(deliverCtx, s.sender, n, s.policy, s.log)
		s.metrics.NotificationDelivered(string(n.Type), err)
		if err != nil {
			s.log.LogNotificationFailed(deliverCtx, p.BookingID, err)
		}
	}()
	return nil
}

// Start runs the consumer workers when Kafka is enabled
func (s *Service) Start(ctx context.Context) {
	if s.consumer != nil {
		s.consumer.Start(ctx)
	}
}

// Stop closes Kafka clients and waits for in-process deliveries
func (s *Service) Stop() error {
	var firstErr error
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			firstErr = err
		}
	}
	if s.producer != nil {
		if err := s.producer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.inflight.Wait()
	return firstErr
}
