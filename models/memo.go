package models

import "time"

const (
	MemoPending = "pending"
	MemoDone    = "done"
)

type Memo struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	CustomerID    *uint  `gorm:"index" json:"customer_id,omitempty"`
	TourID        *uint  `gorm:"index" json:"tour_id,omitempty"`
	ParticipantID *uint  `gorm:"index" json:"participant_id,omitempty"`
	Category      string `gorm:"size:50" json:"category"`
	Priority      int    `json:"priority"` // 0 normal, 1 high, 2 urgent
	Content       string `gorm:"type:text;not null" json:"content"`
	Status        string `gorm:"size:16;default:pending;index" json:"status"`
	CreatedBy     string `gorm:"size:150" json:"created_by"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Memo) TableName() string { return "singsing_memos" }
