package models

import "time"

const (
	ParticipantConfirmed = "confirmed"
	ParticipantPending   = "pending"
	ParticipantCancelled = "cancelled"
)

type Participant struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	TourID          uint   `gorm:"not null;index;uniqueIndex:idx_tour_participant_phone" json:"tour_id"`
	Name            string `gorm:"size:100;not null" json:"name"`
	Phone           string `gorm:"size:20;uniqueIndex:idx_tour_participant_phone" json:"phone" binding:"required,krphone"`
	Email           string `gorm:"size:150" json:"email"`
	Gender          string `gorm:"size:10" json:"gender"`
	TeamName        string `gorm:"size:100" json:"team_name"`
	IsLeader        bool   `json:"is_leader"`
	Status          string `gorm:"size:32;default:confirmed;index" json:"status"`
	RoomID          *uint  `gorm:"index" json:"room_id"`
	BoardingPlaceID *uint  `gorm:"index" json:"boarding_place_id"`
	Note            string `gorm:"type:text" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Room          *Room          `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	BoardingPlace *BoardingPlace `gorm:"foreignKey:BoardingPlaceID" json:"boarding_place,omitempty"`
}

func (Participant) TableName() string { return "singsing_participants" }
