package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuoteDraft    = "draft"
	QuoteSent     = "sent"
	QuoteAccepted = "accepted"
	QuoteExpired  = "expired"
)

type QuoteItem struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type Quote struct {
	ID            uint                           `gorm:"primaryKey" json:"id"`
	TourProductID *uint                          `gorm:"index" json:"tour_product_id,omitempty"`
	CustomerName  string                         `gorm:"size:100" json:"customer_name"`
	CustomerPhone string                         `gorm:"size:20" json:"customer_phone"`
	Title         string                         `gorm:"size:255;not null" json:"title"`
	StartDate     string                         `gorm:"size:10" json:"start_date"`
	EndDate       string                         `gorm:"size:10" json:"end_date"`
	People        int                            `json:"people"`
	Items         datatypes.JSONSlice[QuoteItem] `json:"items"`
	Total         int64                          `json:"total"`
	ValidUntil    string                         `gorm:"size:10" json:"valid_until"`
	Status        string                         `gorm:"size:16;default:draft" json:"status"`
	Note          string                         `gorm:"type:text" json:"note"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TourProduct *TourProduct `gorm:"foreignKey:TourProductID" json:"tour_product,omitempty"`
}

func (Quote) TableName() string { return "singsing_quotes" }
