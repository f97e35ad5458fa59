package models

import (
	"eventplanning/src/types"

	"github.com/shopspring/decimal"
)

type TicketType struct {
	ID       uint            `gorm:"primarykey" json:"id"`
	EventID  uint            `json:"eventId"`
	Name     string          `gorm:"size:100" json:"name"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Capacity int             `json:"capacity"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`

	// Derived at read time from confirmed bookings, never stored.
	Sold int `gorm:"-" json:"sold"`

	types.Timestamps
}
