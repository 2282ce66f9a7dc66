package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CustomerActive   = "active"
	CustomerInactive = "inactive"
	CustomerBlocked  = "blocked"
)

type Customer struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	Name            string                      `gorm:"size:100;not null" json:"name"`
	Phone           string                      `gorm:"size:20;uniqueIndex" json:"phone" binding:"required,krphone"`
	Email           string                      `gorm:"size:150" json:"email"`
	Gender          string                      `gorm:"size:10" json:"gender"`
	BirthDate       string                      `gorm:"size:10" json:"birth_date"`
	Tags            datatypes.JSONSlice[string] `json:"tags"`
	MarketingAgreed bool                        `json:"marketing_agreed"`
	Status          string                      `gorm:"size:16;default:active;index" json:"status"`
	TotalTourCount  int                         `json:"total_tour_count"`
	LastTourDate    string                      `gorm:"size:10" json:"last_tour_date"`
	Note            string                      `gorm:"type:text" json:"note"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Customer) TableName() string { return "customers" }

// CustomerTourHistory makes SyncFromTour idempotent per (customer, tour).
type CustomerTourHistory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;uniqueIndex:idx_customer_tour" json:"customer_id"`
	TourID     uint      `gorm:"not null;uniqueIndex:idx_customer_tour" json:"tour_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (CustomerTourHistory) TableName() string { return "customer_tour_history" }
