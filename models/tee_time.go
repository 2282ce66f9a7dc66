package models

import "time"

const DefaultMaxPlayers = 4

type TeeTime struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TourID     uint   `gorm:"not null;uniqueIndex:idx_tee_slot" json:"tour_id"`
	PlayDate   string `gorm:"size:10;not null;uniqueIndex:idx_tee_slot" json:"play_date"`
	GolfCourse string `gorm:"size:255" json:"golf_course"`
	CourseName string `gorm:"size:100;uniqueIndex:idx_tee_slot" json:"course_name"`
	TeeTime    string `gorm:"size:5;not null;uniqueIndex:idx_tee_slot" json:"tee_time"`
	MaxPlayers int    `gorm:"not null;default:4" json:"max_players"`
	Note       string `gorm:"type:text" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Assignments []ParticipantTeeTime `gorm:"foreignKey:TeeTimeID" json:"assignments,omitempty"`
}

func (TeeTime) TableName() string { return "singsing_tee_times" }

// ParticipantTeeTime copies PlayDate from its tee time so a player holds one slot per day.
type ParticipantTeeTime struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ParticipantID uint   `gorm:"not null;uniqueIndex:idx_ptt_slot;uniqueIndex:idx_ptt_participant_day" json:"participant_id"`
	TeeTimeID     uint   `gorm:"not null;index;uniqueIndex:idx_ptt_slot" json:"tee_time_id"`
	PlayDate      string `gorm:"size:10;not null;uniqueIndex:idx_ptt_participant_day" json:"play_date"`

	CreatedAt time.Time `json:"created_at"`

	Participant Participant `gorm:"foreignKey:ParticipantID" json:"participant"`
}

func (ParticipantTeeTime) TableName() string { return "singsing_participant_tee_times" }
