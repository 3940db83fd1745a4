package bookings

import (
	"time"

	"fieldbook/internal/admins"
	"fieldbook/internal/customers"
	"fieldbook/internal/fields"

	"github.com/google/uuid"
)

type Booking struct {
	ID         uuid.UUID           `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	CustomerID uuid.UUID           `json:"customerId" gorm:"type:uuid;not null"`
	Customer   *customers.Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	FieldID    uuid.UUID           `json:"fieldId" gorm:"type:uuid;not null"`
	Field      *fields.Field       `json:"field,omitempty" gorm:"foreignKey:FieldID;constraint:OnDelete:RESTRICT"`
	StartTime  time.Time           `json:"startTime" gorm:"type:timestamptz;not null"`
	EndTime    time.Time           `json:"endTime" gorm:"type:timestamptz;not null"`
	TotalPrice int64               `json:"totalPrice" gorm:"not null"`
	Status     Status              `json:"status" gorm:"type:varchar(20);not null;index"`
	Payment    *Payment            `json:"payment,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

type Payment struct {
	ID           uuid.UUID     `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	BookingID    uuid.UUID     `json:"bookingId" gorm:"type:uuid;not null;uniqueIndex"`
	ProofURL     string        `json:"proofUrl" gorm:"size:2048;not null"`
	Status       PaymentStatus `json:"status" gorm:"type:varchar(30);not null"`
	VerifiedByID *uuid.UUID    `json:"verifiedById" gorm:"type:uuid"`
	VerifiedBy   *admins.Admin `json:"verifiedBy,omitempty" gorm:"foreignKey:VerifiedByID;constraint:OnDelete:SET NULL"`
	VerifiedAt   *time.Time    `json:"verifiedAt"`
	Note         *string       `json:"note"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// HasPayment reports whether a proof has ever been attached
func (b *Booking) HasPayment() bool {
	return b.Payment != nil
}

func (b *Booking) fieldName() string {
	if b.Field == nil {
		return ""
	}
	return b.Field.Name
}

func (b *Booking) venueName() string {
	if b.Field == nil || b.Field.Venue == nil {
		return ""
	}
	return b.Field.Venue.Name
}
