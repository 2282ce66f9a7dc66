package models

import "time"

type Schedule struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TourID        uint   `gorm:"index;not null" json:"tour_id"`
	DayNumber     int    `gorm:"not null" json:"day_number"`
	Date          string `gorm:"size:10" json:"date"`
	Title         string `gorm:"size:255" json:"title"`
	Description   string `gorm:"type:text" json:"description"`
	MealBreakfast bool   `json:"meal_breakfast"`
	MealLunch     bool   `json:"meal_lunch"`
	MealDinner    bool   `json:"meal_dinner"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Schedule) TableName() string { return "singsing_schedules" }
