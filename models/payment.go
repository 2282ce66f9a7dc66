package models

import "time"

const (
	PaymentDeposit = "deposit"
	PaymentBalance = "balance"
	PaymentFull    = "full"
	PaymentRefund  = "refund"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentCancelled = "cancelled"
)

type Payment struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TourID        uint       `gorm:"not null;index" json:"tour_id"`
	ParticipantID uint       `gorm:"not null;index" json:"participant_id"`
	Amount        int64      `gorm:"not null" json:"amount"`
	Method        string     `gorm:"size:16" json:"method"`
	PaymentType   string     `gorm:"size:16;default:full" json:"payment_type"`
	Status        string     `gorm:"size:16;default:pending;index" json:"status"`
	PayerName     string     `gorm:"size:100" json:"payer_name"`
	PaidAt        *time.Time `json:"paid_at"`
	Note          string     `gorm:"type:text" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payment) TableName() string { return "singsing_payments" }
