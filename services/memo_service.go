package services

import (
	"strings"
	"time"

	"github.com/whalechillz/go-singsing-sub006/models"

	"gorm.io/gorm"
)

type MemoService struct {
	DB *gorm.DB
}

func NewMemoService(db *gorm.DB) *MemoService {
	return &MemoService{DB: db}
}

type MemoFilter struct {
	CustomerID    *uint
	TourID        *uint
	ParticipantID *uint
	Status        string
}

func validateMemo(m *models.Memo) error {
	m.Content = strings.TrimSpace(m.Content)
	if m.Content == "" {
		return invalid("content", "required")
	}
	if m.Priority < 0 || m.Priority > 2 {
		return invalid("priority", "must be 0, 1 or 2")
	}
	if m.Status == "" {
		m.Status = models.MemoPending
	}
	if m.Status != models.MemoPending && m.Status != models.MemoDone {
		return invalid("status", "must be pending or done")
	}
	return nil
}

// List puts urgent open memos first.
func (s *MemoService) List(f MemoFilter) ([]models.Memo, error) {
	q := s.DB.Model(&models.Memo{})
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.TourID != nil {
		q = q.Where("tour_id = ?", *f.TourID)
	}
	if f.ParticipantID != nil {
		q = q.Where("participant_id = ?", *f.ParticipantID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []models.Memo
	err := q.Order("status DESC, priority DESC, id DESC").Find(&out).Error
	return out, err
}

func (s *MemoService) Create(m *models.Memo) error {
	m.ID = 0
	if err := validateMemo(m); err != nil {
		return err
	}
	return s.DB.Create(m).Error
}

func (s *MemoService) Update(m *models.Memo) error {
	if err := validateMemo(m); err != nil {
		return err
	}
	res := s.DB.Model(&models.Memo{}).Where("id = ?", m.ID).
		Select("category", "priority", "content", "status", "customer_id", "tour_id", "participant_id").
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MemoService) Complete(id uint) (*models.Memo, error) {
	var m models.Memo
	if err := s.DB.First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	now := time.Now()
	m.Status = models.MemoDone
	m.CompletedAt = &now
	if err := s.DB.Model(&m).Select("status", "completed_at").Updates(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MemoService) Delete(id uint) error {
	res := s.DB.Delete(&models.Memo{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
