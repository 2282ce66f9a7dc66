package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	MessageTypeSMS   = "sms"
	MessageTypeLMS   = "lms"
	MessageTypeKakao = "kakao"

	MessageStatusPending = "pending"
	MessageStatusSent    = "sent"
	MessageStatusFailed  = "failed"
)

type MessageTemplate struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	Name              string `gorm:"size:100;uniqueIndex" json:"name"`
	MessageType       string `gorm:"size:16;default:sms" json:"message_type"`
	Title             string `gorm:"size:255" json:"title"`
	Content           string `gorm:"type:text;not null" json:"content"`
	KakaoTemplateCode string `gorm:"size:100" json:"kakao_template_code"`
	IsActive          bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MessageTemplate) TableName() string { return "message_templates" }

type MessageLog struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TourID        *uint  `gorm:"index" json:"tour_id,omitempty"`
	ParticipantID *uint  `gorm:"index" json:"participant_id,omitempty"`
	TemplateID    *uint  `json:"template_id,omitempty"`
	Phone         string `gorm:"size:20;not null" json:"phone"`
	MessageType   string `gorm:"size:16" json:"message_type"`
	Title         string `gorm:"size:255" json:"title"`
	Content       string `gorm:"type:text" json:"content"`
	Status        string `gorm:"size:16;index;default:pending" json:"status"`
	ProviderID    string `gorm:"size:100" json:"provider_id"`
	Error         string `gorm:"type:text" json:"error"`
	RetryCount    int    `json:"retry_count"`

	// Kakao variables are kept so a retry sends the same alimtalk payload.
	KakaoTemplateCode string            `gorm:"size:100" json:"kakao_template_code,omitempty"`
	KakaoVariables    datatypes.JSONMap `json:"kakao_variables,omitempty"`

	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (MessageLog) TableName() string { return "message_logs" }
