package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TourProduct struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	GolfCourse  string `gorm:"size:255" json:"golf_course"`
	Hotel       string `gorm:"size:255" json:"hotel"`
	BasePrice   int64  `json:"base_price"`
	Description string `gorm:"type:text" json:"description"`

	Images datatypes.JSONSlice[string] `json:"images"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TourProduct) TableName() string { return "tour_products" }
