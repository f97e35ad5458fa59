package models

import (
	"eventplanning/src/types"
	"time"
)

type Task struct {
	ID           uint             `gorm:"primarykey" json:"id"`
	EventID      uint             `json:"eventId"`
	AssignedToID *uint            `json:"assignedToUserId,omitempty"`
	Title        string           `gorm:"size:200" json:"title"`
	Description  string           `gorm:"size:1000" json:"description,omitempty"`
	Status       types.TaskStatus `gorm:"default:'TODO'" json:"status"`
	DueDate      *time.Time       `json:"dueDate,omitempty"`

	Event      *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	AssignedTo *User  `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`

	types.Timestamps
}
