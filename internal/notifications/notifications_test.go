package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"fieldbook/internal/bookings"
	"fieldbook/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPolicy = RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond}

type flakySender struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []*EmailNotification
}

func (s *flakySender) Send(_ context.Context, n *EmailNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return errors.New("smtp: connection refused")
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *flakySender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func samplePayment(approved bool) bookings.PaymentNotification {
	wib := time.FixedZone("WIB", 7*3600)
	return bookings.PaymentNotification{
		BookingID:     "6f1c7d0e-8d55-4b7e-9a53-0d3f3c2b1a10",
		BookingNumber: "BK-20261019-6F1C",
		CustomerEmail: "rani@example.com",
		CustomerName:  "Rani",
		FieldName:     "Lapangan A",
		VenueName:     "Arena Futsal",
		StartTime:     time.Date(2026, 10, 19, 17, 0, 0, 0, wib),
		EndTime:       time.Date(2026, 10, 19, 19, 0, 0, 0, wib),
		TotalPrice:    300000,
		Approved:      approved,
		Note:          "transfer matched",
	}
}

func TestFromPayment(t *testing.T) {
	n := FromPayment(samplePayment(true))
	assert.Equal(t, NotificationTypePaymentApproved, n.Type)
	assert.Equal(t, "rani@example.com", n.RecipientEmail)
	assert.Equal(t, NotificationStatusPending, n.Status)
	assert.Contains(t, n.Subject, "approved")
	assert.Equal(t, "6f1c7d0e-8d55-4b7e-9a53-0d3f3c2b1a10", n.GetPartitionKey())

	rejected := FromPayment(samplePayment(false))
	assert.Equal(t, NotificationTypePaymentRejected, rejected.Type)
	assert.Contains(t, rejected.Subject, "rejected")
}

func TestFormatRupiah(t *testing.T) {
	cases := map[int64]string{
		0:       "Rp 0",
		500:     "Rp 500",
		1000:    "Rp 1.000",
		150000:  "Rp 150.000",
		1500000: "Rp 1.500.000",
		-25000:  "-Rp 25.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatRupiah(in), "amount %d", in)
	}
}

func TestRenderTemplates(t *testing.T) {
	tpl := loadTemplates()

	html, text, err := tpl.render(FromPayment(samplePayment(true)))
	require.NoError(t, err)
	assert.Contains(t, html, "BK-20261019-6F1C")
	assert.Contains(t, text, "Rp 300.000")
	assert.Contains(t, text, "17:00 - 19:00")
	assert.Contains(t, text, "Monday, 19 October 2026")
	assert.Contains(t, text, "transfer matched")

	html, text, err = tpl.render(FromPayment(samplePayment(false)))
	require.NoError(t, err)
	assert.Contains(t, html, "could not verify")
	assert.Contains(t, text, "Reason: transfer matched")

	_, _, err = tpl.render(&EmailNotification{Type: "UNKNOWN"})
	assert.Error(t, err)
}

func TestRenderEscapesHTML(t *testing.T) {
	p := samplePayment(true)
	p.CustomerName = "<script>x</script>"

	html, text, err := loadTemplates().render(FromPayment(p))
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, text, "<script>x</script>")
}

func TestBuildMessageIsMultipart(t *testing.T) {
	msg := string(buildMessage("Fieldbook", "noreply@example.com", "rani@example.com", "Subject", "<p>hi</p>", "hi"))
	assert.Contains(t, msg, "To: rani@example.com")
	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "text/plain")
	assert.Contains(t, msg, "text/html")
}

func TestLogSenderWritesRenderedBody(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(logger.NewWithWriter(&buf, "info"))

	require.NoError(t, sender.Send(context.Background(), FromPayment(samplePayment(true))))
	assert.Contains(t, buf.String(), "rani@example.com")
	assert.Contains(t, buf.String(), "BK-20261019-6F1C")
}

func TestDeliverRetriesUntilSuccess(t *testing.T) {
	sender := &flakySender{failures: 2}
	n := FromPayment(samplePayment(true))

	err := deliver(context.Background(), sender, n, testPolicy, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, sender.callCount())
	assert.Equal(t, NotificationStatusSent, n.Status)
	assert.NotNil(t, n.SentAt)
}

func TestDeliverGivesUp(t *testing.T) {
	sender := &flakySender{failures: 10}
	n := FromPayment(samplePayment(true))

	err := deliver(context.Background(), sender, n, testPolicy, logger.NewNop())
	require.Error(t, err)
	assert.Equal(t, 3, sender.callCount(), "one attempt plus MaxRetries")
	assert.Equal(t, NotificationStatusFailed, n.Status)
	require.NotNil(t, n.LastError)
	assert.Contains(t, *n.LastError, "connection refused")
}

func TestDeliverStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sender := &flakySender{failures: 10}
	err := deliver(ctx, sender, FromPayment(samplePayment(true)), RetryPolicy{MaxRetries: 5, Backoff: time.Hour}, logger.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sender.callCount())
}

func TestKafkaProducerPublishes(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var n EmailNotification
		if err := json.Unmarshal(val, &n); err != nil {
			return err
		}
		if n.Type != NotificationTypePaymentApproved || n.Status != NotificationStatusQueued {
			return errors.New("unexpected payload")
		}
		return nil
	})

	svc := NewWithProducer(NewKafkaProducerWith(sp, "payment-notifications", logger.NewNop()), logger.NewNop())
	require.NoError(t, svc.NotifyPaymentVerified(context.Background(), samplePayment(true)))
	require.NoError(t, svc.Stop())
}

func TestKafkaProducerFailureSurfaces(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaProducerWith(sp, "payment-notifications", logger.NewNop())
	n := FromPayment(samplePayment(false))

	err := p.Publish(context.Background(), n)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	assert.Equal(t, NotificationStatusFailed, n.Status)
	require.NoError(t, p.Close())
}

func TestDirectServiceDeliversInBackground(t *testing.T) {
	sender := &flakySender{failures: 1}
	svc := NewDirect(sender, testPolicy, nil, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, svc.NotifyPaymentVerified(ctx, samplePayment(true)))
	// a finished request must not abort delivery
	cancel()

	require.NoError(t, svc.Stop())
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "rani@example.com", sender.sent[0].RecipientEmail)
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestConsumeClaimMarksEveryMessage(t *testing.T) {
	sender := &flakySender{failures: 3}
	h := &groupHandler{sender: sender, policy: testPolicy, log: logger.NewNop()}

	good, err := FromPayment(samplePayment(true)).ToJSON()
	require.NoError(t, err)

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 3)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 1, Value: []byte("{not json")}
	// exhausts all three attempts
	claim.messages <- &sarama.ConsumerMessage{Offset: 2, Value: good}
	claim.messages <- &sarama.ConsumerMessage{Offset: 3, Value: good}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, h.ConsumeClaim(session, claim))

	assert.Equal(t, []int64{1, 2, 3}, session.marked)
	assert.Len(t, sender.sent, 1)
	assert.Equal(t, 4, sender.callCount())
}
