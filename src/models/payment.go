package models

import (
	"eventplanning/src/types"
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID        uint                `gorm:"primarykey" json:"id"`
	BookingID uint                `json:"bookingId"`
	EventID   uint                `json:"eventId"`
	PayerID   uint                `json:"payerId"`
	Method    types.PaymentMethod `gorm:"default:'BANK_TRANSFER'" json:"method"`
	Status    types.PaymentStatus `gorm:"default:'PENDING'" json:"status"`
	Amount    decimal.Decimal     `gorm:"type:decimal(10,2)" json:"amount"`
	Reference string              `gorm:"size:100" json:"reference,omitempty"`
	// Bank-transfer slip location (S3 key or local path).
	SlipPath     string     `gorm:"size:300" json:"slipPath,omitempty"`
	ReviewedByID *uint      `json:"reviewedById,omitempty"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`

	Booking    *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	Event      *Event   `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Payer      *User    `gorm:"foreignKey:PayerID" json:"payer,omitempty"`
	ReviewedBy *User    `gorm:"foreignKey:ReviewedByID" json:"reviewedBy,omitempty"`

	types.Timestamps
}
