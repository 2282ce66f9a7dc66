package models

import "time"

type Letter struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CustomerID *uint  `gorm:"index" json:"customer_id,omitempty"`
	Occasion   string `gorm:"size:100" json:"occasion"`
	Tone       string `gorm:"size:50" json:"tone"`
	Prompt     string `gorm:"type:text" json:"prompt"`
	Content    string `gorm:"type:text" json:"content"`
	Model      string `gorm:"size:100" json:"model"`

	CreatedAt time.Time `json:"created_at"`
}

func (Letter) TableName() string { return "letters" }
