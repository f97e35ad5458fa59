package models

import (
	"eventplanning/src/types"
)

type Vendor struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"size:150" json:"name"`
	Category    string `gorm:"size:100" json:"category"`
	Address     string `gorm:"size:300" json:"address,omitempty"`
	Email       string `gorm:"size:120" json:"email,omitempty"`
	Phone       string `gorm:"size:40" json:"phone,omitempty"`
	Description string `gorm:"size:1000" json:"description,omitempty"`
	Approved    bool   `gorm:"default:false" json:"approved"`
	OwnerID     uint   `json:"ownerId"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	types.Timestamps
}

type Venue struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"size:150" json:"name"`
	Address     string `gorm:"size:300" json:"address"`
	Description string `gorm:"size:1000" json:"description,omitempty"`
	Capacity    int    `json:"capacity,omitempty"`
	Approved    bool   `gorm:"default:false" json:"approved"`

	types.Timestamps
}
