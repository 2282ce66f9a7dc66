package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomType is the master list the room manager offers when creating rooms in bulk.
type RoomType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TypeName    string `gorm:"size:100;uniqueIndex" json:"type_name"`
	Description string `json:"description"`
	MaxGuests   int    `json:"max_guests"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RoomType) TableName() string { return "singsing_room_types" }
