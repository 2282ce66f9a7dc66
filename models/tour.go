package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TourStatusPlanned   = "planned"
	TourStatusConfirmed = "confirmed"
	TourStatusCompleted = "completed"
	TourStatusCancelled = "cancelled"
)

// Tour dates are stored as YYYY-MM-DD strings, the shape the frontend sends and reads.
type Tour struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Title           string `gorm:"size:255;not null" json:"title"`
	ProductID       *uint  `gorm:"index" json:"product_id,omitempty"`
	StartDate       string `gorm:"size:10;index" json:"start_date"`
	EndDate         string `gorm:"size:10" json:"end_date"`
	GolfCourse      string `gorm:"size:255" json:"golf_course"`
	Accommodation   string `gorm:"size:255" json:"accommodation"`
	Price           int64  `json:"price"`
	MaxParticipants int    `json:"max_participants"`
	Status          string `gorm:"size:32;default:planned;index" json:"status"`
	DriverName      string `gorm:"size:100" json:"driver_name"`
	DriverPhone     string `gorm:"size:32" json:"driver_phone"`
	GuideName       string `gorm:"size:100" json:"guide_name"`
	GuidePhone      string `gorm:"size:32" json:"guide_phone"`
	Note            string `gorm:"type:text" json:"note"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product          *TourProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ParticipantCount int64        `gorm:"-" json:"participant_count"`
}

func (Tour) TableName() string { return "singsing_tours" }
