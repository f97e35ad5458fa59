package models

import (
	"eventplanning/src/types"
)

type Notification struct {
	ID      uint                     `gorm:"primarykey" json:"id"`
	UserID  uint                     `json:"userId"`
	EventID *uint                    `json:"eventId,omitempty"`
	Title   string                   `gorm:"size:200" json:"title"`
	Message string                   `gorm:"size:1000" json:"message"`
	Type    types.NotificationType   `gorm:"default:'GENERAL'" json:"type"`
	Status  types.NotificationStatus `gorm:"default:'UNREAD'" json:"status"`

	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`

	types.Timestamps
}
