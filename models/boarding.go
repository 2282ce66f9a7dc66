package models

import "time"

type BoardingPlace struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Address     string `gorm:"size:255" json:"address"`
	ParkingInfo string `gorm:"type:text" json:"parking_info"`
	MapURL      string `gorm:"size:512" json:"map_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BoardingPlace) TableName() string { return "singsing_boarding_places" }

// TourBoardingTime is when the bus leaves a boarding place for one tour.
type TourBoardingTime struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	TourID          uint   `gorm:"not null;uniqueIndex:idx_tour_boarding_place" json:"tour_id"`
	BoardingPlaceID uint   `gorm:"not null;uniqueIndex:idx_tour_boarding_place" json:"boarding_place_id"`
	DepartureTime   string `gorm:"size:5" json:"departure_time"`
	SortOrder       int    `json:"sort_order"`

	BoardingPlace BoardingPlace `gorm:"foreignKey:BoardingPlaceID" json:"boarding_place"`
}

func (TourBoardingTime) TableName() string { return "singsing_tour_boarding_times" }
