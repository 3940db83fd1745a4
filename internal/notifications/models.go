package notifications

import (
	"encoding/json"
	"time"

	"fieldbook/internal/bookings"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypePaymentApproved NotificationType = "PAYMENT_APPROVED"
	NotificationTypePaymentRejected NotificationType = "PAYMENT_REJECTED"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSending NotificationStatus = "SENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// EmailNotification is the message carried over Kafka and handed to a Sender
type EmailNotification struct {
	ID   uuid.UUID        `json:"id"`
	Type NotificationType `json:"type"`

	RecipientEmail string `json:"recipientEmail"`
	RecipientName  string `json:"recipientName"`
	Subject        string `json:"subject"`

	Payment bookings.PaymentNotification `json:"payment"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retryCount"`
	LastError  *string            `json:"lastError,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
	SentAt     *time.Time         `json:"sentAt,omitempty"`
}

// FromPayment builds the email for a verification outcome
func FromPayment(p bookings.PaymentNotification) *EmailNotification {
	now := time.Now()
	n := &EmailNotification{
		ID:             uuid.New(),
		Type:           NotificationTypePaymentRejected,
		RecipientEmail: p.CustomerEmail,
		RecipientName:  p.CustomerName,
		Payment:        p,
		Status:         NotificationStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.Approved {
		n.Type = NotificationTypePaymentApproved
	}
	n.Subject = subjectFor(n)
	return n
}

func subjectFor(n *EmailNotification) string {
	if n.Type == NotificationTypePaymentApproved {
		return "Payment approved for booking " + n.Payment.BookingNumber
	}
	return "Payment rejected for booking " + n.Payment.BookingNumber
}

// GetPartitionKey keeps all messages of one booking on one partition
func (n *EmailNotification) GetPartitionKey() string {
	return n.Payment.BookingID
}

func (n *EmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func (n *EmailNotification) MarkSent() {
	now := time.Now()
	n.Status = NotificationStatusSent
	n.SentAt = &now
	n.UpdatedAt = now
}

func (n *EmailNotification) MarkFailed(err error) {
	msg := err.Error()
	n.Status = NotificationStatusFailed
	n.LastError = &msg
	n.UpdatedAt = time.Now()
}
