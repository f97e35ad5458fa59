package models

import (
	"eventplanning/src/types"
	"time"
)

type Event struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `gorm:"size:100" json:"name"`
	Description string            `gorm:"size:500" json:"description"`
	Venue       string            `gorm:"size:200" json:"location"`
	StartTime   time.Time         `json:"startTime"`
	EndTime     time.Time         `json:"endTime"`
	Status      types.EventStatus `gorm:"default:'DRAFT'" json:"status"`
	OrganizerID uint              `json:"organizerId"`
	Active      bool              `gorm:"default:true" json:"active"`

	Organizer   *User        `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	TicketTypes []TicketType `gorm:"foreignKey:EventID" json:"ticketTypes,omitempty"`
	Bookings    []Booking    `gorm:"foreignKey:EventID" json:"bookings,omitempty"`

	types.Timestamps
}
