package services

import (
	"fmt"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TourService struct {
	DB *gorm.DB
}

func NewTourService(db *gorm.DB) *TourService {
	return &TourService{DB: db}
}

type TourFilter struct {
	Status string
	From   string
	To     string
	Query  string
}

var tourStatuses = map[string]bool{
	models.TourStatusPlanned:   true,
	models.TourStatusConfirmed: true,
	models.TourStatusCompleted: true,
	models.TourStatusCancelled: true,
}

func validateTour(t *models.Tour) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return invalid("title", "required")
	}
	if !utils.IsValidDate(t.StartDate) {
		return invalid("start_date", "must be YYYY-MM-DD")
	}
	if !utils.IsValidDate(t.EndDate) {
		return invalid("end_date", "must be YYYY-MM-DD")
	}
	if t.EndDate < t.StartDate {
		return invalid("end_date", "must not be before start_date")
	}
	if t.Status == "" {
		t.Status = models.TourStatusPlanned
	}
	if !tourStatuses[t.Status] {
		return invalid("status", "unknown status "+t.Status)
	}
	if t.Price < 0 || t.MaxParticipants < 0 {
		return invalid("price", "must not be negative")
	}
	return nil
}

func (s *TourService) List(f TourFilter) ([]models.Tour, error) {
	q := s.DB.Model(&models.Tour{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != "" {
		q = q.Where("start_date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("start_date <= ?", f.To)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(golf_course) LIKE ?", like, like)
	}

	var tours []models.Tour
	if err := q.Order("start_date DESC, id DESC").Find(&tours).Error; err != nil {
		return nil, err
	}
	if len(tours) == 0 {
		return tours, nil
	}

	ids := make([]uint, 0, len(tours))
	for _, t := range tours {
		ids = append(ids, t.ID)
	}
	var counts []struct {
		TourID uint
		N      int64
	}
	if err := s.DB.Model(&models.Participant{}).
		Select("tour_id, COUNT(*) AS n").
		Where("tour_id IN ? AND status <> ?", ids, models.ParticipantCancelled).
		Group("tour_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byTour := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byTour[c.TourID] = c.N
	}
	for i := range tours {
		tours[i].ParticipantCount = byTour[tours[i].ID]
	}
	return tours, nil
}

func (s *TourService) Get(id uint) (*models.Tour, error) {
	var tour models.Tour
	if err := s.DB.Preload("Product").First(&tour, id).Error; err != nil {
		return nil, notFound(err)
	}
	n, err := activeParticipantCount(s.DB, id)
	if err != nil {
		return nil, err
	}
	tour.ParticipantCount = n
	return &tour, nil
}

func (s *TourService) Create(tour *models.Tour) error {
	tour.ID = 0
	if err := validateTour(tour); err != nil {
		return err
	}
	return s.DB.Create(tour).Error
}

// Update saves the full record; callers load it with Get and overwrite the fields they received.
func (s *TourService) Update(tour *models.Tour) error {
	if err := validateTour(tour); err != nil {
		return err
	}
	res := s.DB.Model(&models.Tour{}).Where("id = ?", tour.ID).Select("*").Omit("created_at", "deleted_at", clause.Associations).Updates(tour)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TourService) Delete(id uint) error {
	n, err := activeParticipantCount(s.DB, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d active participants", ErrTourHasParticipants, n)
	}
	res := s.DB.Delete(&models.Tour{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func activeParticipantCount(db *gorm.DB, tourID uint) (int64, error) {
	var n int64
	err := db.Model(&models.Participant{}).
		Where("tour_id = ? AND status <> ?", tourID, models.ParticipantCancelled).
		Count(&n).Error
	return n, err
}

func loadTour(db *gorm.DB, id uint) (*models.Tour, error) {
	var tour models.Tour
	if err := db.First(&tour, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &tour, nil
}
