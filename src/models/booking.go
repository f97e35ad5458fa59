package models

import (
	"eventplanning/src/types"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID           uint                `gorm:"primarykey" json:"id"`
	EventID      uint                `json:"eventId"`
	TicketTypeID uint                `json:"ticketTypeId"`
	UserID       uint                `json:"userId"`
	Quantity     int                 `json:"quantity"`
	TotalPrice   decimal.Decimal     `gorm:"type:decimal(10,2)" json:"totalPrice"`
	Status       types.BookingStatus `gorm:"default:'CONFIRMED'" json:"status"`

	Event      *Event      `gorm:"foreignKey:EventID" json:"event,omitempty"`
	TicketType *TicketType `gorm:"foreignKey:TicketTypeID" json:"ticketType,omitempty"`
	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`

	types.Timestamps
}
