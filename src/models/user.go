package models

import (
	"eventplanning/src/types"
)

type User struct {
	ID       uint           `gorm:"primarykey" json:"id"`
	Username string         `gorm:"uniqueIndex;size:50" json:"username"`
	Email    string         `gorm:"uniqueIndex;size:100" json:"email"`
	Password string         `gorm:"size:255" json:"-"`
	Role     types.UserRole `gorm:"default:'USER'" json:"role"`

	Bookings []Booking `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
	Events   []Event   `gorm:"foreignKey:OrganizerID" json:"events,omitempty"`

	types.Timestamps
}

type PasswordResetToken struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Token     string `gorm:"uniqueIndex;size:64" json:"-"`
	Email     string `gorm:"index;size:100" json:"email"`
	ExpiresAt int64  `json:"expiresAt"`

	types.Timestamps
}
