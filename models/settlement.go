package models

import (
	"time"

	"gorm.io/datatypes"
)

var ExpenseCategories = []string{
	"golf_course", "accommodation", "transport", "guide", "meal", "insurance", "other",
}

type TourExpense struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TourID      uint   `gorm:"not null;index" json:"tour_id"`
	Category    string `gorm:"size:32;not null" json:"category"`
	Description string `gorm:"size:255" json:"description"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Amount      int64  `gorm:"not null" json:"amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TourExpense) TableName() string { return "tour_expenses" }

const (
	SettlementDraft     = "draft"
	SettlementConfirmed = "confirmed"
)

type TourSettlement struct {
	ID         uint                                 `gorm:"primaryKey" json:"id"`
	TourID     uint                                 `gorm:"not null;uniqueIndex" json:"tour_id"`
	Revenue    int64                                `json:"revenue"`
	Refunds    int64                                `json:"refunds"`
	TotalCost  int64                                `json:"total_cost"`
	Margin     int64                                `json:"margin"`
	MarginRate float64                              `json:"margin_rate"`
	Breakdown  datatypes.JSONType[map[string]int64] `json:"breakdown"`
	Status     string                               `gorm:"size:16;default:draft" json:"status"`
	Note       string                               `gorm:"type:text" json:"note"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Tour *Tour `gorm:"foreignKey:TourID" json:"tour,omitempty"`
}

func (TourSettlement) TableName() string { return "tour_settlements" }
