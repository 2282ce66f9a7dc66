package models

import "time"

// CompanySetting is a single-row table; documents print it in their footer.
type CompanySetting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255" json:"name"`
	Address     string    `gorm:"type:text" json:"address"`
	Phone       string    `gorm:"size:50" json:"phone"`
	Email       string    `gorm:"size:150" json:"email"`
	Website     string    `gorm:"size:255" json:"website"`
	Logo        string    `gorm:"size:255" json:"logo"`
	BankAccount string    `gorm:"size:255" json:"bank_account"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (CompanySetting) TableName() string { return "company_settings" }
