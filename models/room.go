package models

import "time"

type Room struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TourID     uint   `gorm:"not null;uniqueIndex:idx_tour_room_number" json:"tour_id"`
	RoomType   string `gorm:"size:100" json:"room_type"`
	RoomNumber string `gorm:"size:50;not null;uniqueIndex:idx_tour_room_number" json:"room_number"`
	Capacity   int    `gorm:"not null;default:2" json:"capacity"`
	Note       string `gorm:"type:text" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Occupants []Participant `gorm:"foreignKey:RoomID" json:"occupants,omitempty"`
}

func (Room) TableName() string { return "singsing_rooms" }
