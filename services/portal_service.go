package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/whalechillz/go-singsing-sub006/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PortalService struct {
	DB      *gorm.DB
	Docs    *DocumentService
	Cache   *DocumentCache
	BaseURL string
}

func NewPortalService(db *gorm.DB, docs *DocumentService, cache *DocumentCache, baseURL string) *PortalService {
	return &PortalService{DB: db, Docs: docs, Cache: cache, BaseURL: strings.TrimRight(baseURL, "/")}
}

type LinkUpdate struct {
	IsActive    *bool      `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at"`
	ClearExpiry bool       `json:"clear_expiry"`
}

type PortalView struct {
	Link     *models.PublicLink `json:"link"`
	Document *Document          `json:"document"`
}

func (s *PortalService) withURL(l *models.PublicLink) {
	l.URL = s.BaseURL + "/portal/" + l.Token
}

func (s *PortalService) CreateLink(l *models.PublicLink) error {
	l.ID = 0
	if l.DocumentType == "" {
		l.DocumentType = models.DocPortal
	}
	if !IsDocumentType(l.DocumentType) {
		return invalid("document_type", "unknown document type "+l.DocumentType)
	}
	if l.DocumentType == models.DocQuote {
		if l.QuoteID == nil {
			return invalid("quote_id", "required for quote links")
		}
		var q models.Quote
		if err := s.DB.First(&q, *l.QuoteID).Error; err != nil {
			return notFound(err)
		}
		l.TourID = nil
	} else {
		if l.TourID == nil {
			return invalid("tour_id", "required")
		}
		if _, err := loadTour(s.DB, *l.TourID); err != nil {
			return err
		}
		l.QuoteID = nil
	}
	if l.ExpiresAt != nil && !l.ExpiresAt.After(time.Now()) {
		return invalid("expires_at", "must be in the future")
	}
	l.Token = uuid.NewString()
	l.IsActive = true
	l.ViewCount = 0
	l.LastViewedAt = nil
	if err := s.DB.Create(l).Error; err != nil {
		return err
	}
	s.withURL(l)
	return nil
}

func (s *PortalService) ListLinks(tourID uint) ([]models.PublicLink, error) {
	var out []models.PublicLink
	if err := s.DB.Where("tour_id = ?", tourID).Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		s.withURL(&out[i])
	}
	return out, nil
}

func (s *PortalService) getLink(id uint) (*models.PublicLink, error) {
	var l models.PublicLink
	if err := s.DB.First(&l, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

func (s *PortalService) UpdateLink(ctx context.Context, id uint, u LinkUpdate) (*models.PublicLink, error) {
	l, err := s.getLink(id)
	if err != nil {
		return nil, err
	}
	if u.IsActive != nil {
		l.IsActive = *u.IsActive
	}
	if u.ClearExpiry {
		l.ExpiresAt = nil
	} else if u.ExpiresAt != nil {
		l.ExpiresAt = u.ExpiresAt
	}
	if err := s.DB.Model(l).Select("is_active", "expires_at").Updates(l).Error; err != nil {
		return nil, err
	}
	s.Cache.Delete(ctx, l.Token)
	s.withURL(l)
	return l, nil
}

func (s *PortalService) DeleteLink(ctx context.Context, id uint) error {
	l, err := s.getLink(id)
	if err != nil {
		return err
	}
	if err := s.DB.Delete(l).Error; err != nil {
		return err
	}
	s.Cache.Delete(ctx, l.Token)
	return nil
}

// Resolve checks the link, counts the view and returns its document, from cache when possible.
func (s *PortalService) Resolve(ctx context.Context, token string) (*PortalView, error) {
	var l models.PublicLink
	if err := s.DB.Where("token = ?", token).First(&l).Error; err != nil {
		return nil, notFound(err)
	}
	if !l.IsActive {
		return nil, ErrLinkInactive
	}
	now := time.Now()
	if l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		return nil, ErrLinkExpired
	}
	if err := s.DB.Model(&l).UpdateColumns(map[string]interface{}{
		"view_count":     gorm.Expr("view_count + 1"),
		"last_viewed_at": now,
	}).Error; err != nil {
		return nil, err
	}
	l.ViewCount++
	l.LastViewedAt = &now
	s.withURL(&l)

	if doc, ok := s.Cache.Get(ctx, token); ok {
		return &PortalView{Link: &l, Document: doc}, nil
	}
	doc, err := s.Docs.ForLink(&l)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, token, doc)
	return &PortalView{Link: &l, Document: doc}, nil
}

// InvalidateTour drops cached documents of every link that points at the tour.
func (s *PortalService) InvalidateTour(ctx context.Context, tourID uint) {
	s.invalidate(ctx, "tour_id", tourID)
}

// InvalidateQuote drops cached documents of every link that points at the quote.
func (s *PortalService) InvalidateQuote(ctx context.Context, quoteID uint) {
	s.invalidate(ctx, "quote_id", quoteID)
}

func (s *PortalService) invalidate(ctx context.Context, column string, id uint) {
	if !s.Cache.Enabled() {
		return
	}
	tokens, err := s.linkTokens(column, id)
	if err != nil {
		log.Printf("⚠️ cannot list portal links for %s=%d: %v", column, id, err)
		return
	}
	s.Cache.Delete(ctx, tokens...)
}

func (s *PortalService) linkTokens(column string, id uint) ([]string, error) {
	var tokens []string
	err := s.DB.Model(&models.PublicLink{}).Where(column+" = ?", id).Order("id ASC").Pluck("token", &tokens).Error
	return tokens, err
}
