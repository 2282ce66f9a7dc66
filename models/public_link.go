package models

import "time"

const (
	DocPortal    = "portal"
	DocItinerary = "itinerary"
	DocBoarding  = "boarding"
	DocRooming   = "rooming"
	DocTeeTime   = "tee_time"
	DocQuote     = "quote"
)

type PublicLink struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Token        string     `gorm:"size:64;uniqueIndex;not null" json:"token"`
	TourID       *uint      `gorm:"index" json:"tour_id,omitempty"`
	QuoteID      *uint      `gorm:"index" json:"quote_id,omitempty"`
	DocumentType string     `gorm:"size:32;not null" json:"document_type"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	ViewCount    int        `json:"view_count"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	URL string `gorm:"-" json:"url,omitempty"`
}

func (PublicLink) TableName() string { return "public_document_links" }
