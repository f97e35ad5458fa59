package models

import (
	"eventplanning/src/types"
)

type Review struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	UserID   uint   `json:"userId"`
	EventID  *uint  `json:"eventId,omitempty"`
	VendorID *uint  `json:"vendorId,omitempty"`
	Rating   int    `json:"rating"`
	Comment  string `gorm:"size:1000" json:"comment,omitempty"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Event  *Event  `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`

	types.Timestamps
}
