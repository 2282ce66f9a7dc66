package services

import (
	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"gorm.io/gorm"
)

type ScheduleService struct {
	DB *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{DB: db}
}

func (s *ScheduleService) ListByTour(tourID uint) ([]models.Schedule, error) {
	var out []models.Schedule
	err := s.DB.Where("tour_id = ?", tourID).Order("day_number ASC, id ASC").Find(&out).Error
	return out, err
}

func (s *ScheduleService) Get(id uint) (*models.Schedule, error) {
	var sc models.Schedule
	if err := s.DB.First(&sc, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sc, nil
}

func (s *ScheduleService) Save(sc *models.Schedule) error {
	tour, err := loadTour(s.DB, sc.TourID)
	if err != nil {
		return err
	}
	if sc.DayNumber < 1 {
		return invalid("day_number", "must be 1 or greater")
	}
	if sc.Date != "" {
		if !utils.IsValidDate(sc.Date) {
			return invalid("date", "must be YYYY-MM-DD")
		}
		if sc.Date < tour.StartDate || sc.Date > tour.EndDate {
			return invalid("date", "outside the tour period")
		}
	}
	if sc.ID != 0 {
		if _, err := s.Get(sc.ID); err != nil {
			return err
		}
	}
	return s.DB.Save(sc).Error
}

func (s *ScheduleService) Delete(id uint) error {
	res := s.DB.Delete(&models.Schedule{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
