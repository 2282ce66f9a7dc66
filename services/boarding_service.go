package services

import (
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"gorm.io/gorm"
)

type BoardingService struct {
	DB *gorm.DB
}

func NewBoardingService(db *gorm.DB) *BoardingService {
	return &BoardingService{DB: db}
}

func (s *BoardingService) ListPlaces() ([]models.BoardingPlace, error) {
	var out []models.BoardingPlace
	err := s.DB.Order("name ASC").Find(&out).Error
	return out, err
}

func (s *BoardingService) SavePlace(p *models.BoardingPlace) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid("name", "required")
	}
	if p.ID != 0 {
		var existing models.BoardingPlace
		if err := s.DB.First(&existing, p.ID).Error; err != nil {
			return notFound(err)
		}
	}
	return s.DB.Save(p).Error
}

// DeletePlace detaches participants before removing the place.
func (s *BoardingService) DeletePlace(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Participant{}).Where("boarding_place_id = ?", id).
			Update("boarding_place_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("boarding_place_id = ?", id).Delete(&models.TourBoardingTime{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.BoardingPlace{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListTimes returns the tour's boarding stops in departure order.
func (s *BoardingService) ListTimes(tourID uint) ([]models.TourBoardingTime, error) {
	var out []models.TourBoardingTime
	err := s.DB.Preload("BoardingPlace").
		Where("tour_id = ?", tourID).
		Order("departure_time ASC, sort_order ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (s *BoardingService) SaveTime(bt *models.TourBoardingTime) error {
	if _, err := loadTour(s.DB, bt.TourID); err != nil {
		return err
	}
	if !utils.IsValidClock(bt.DepartureTime) {
		return invalid("departure_time", "must be HH:MM")
	}
	var place models.BoardingPlace
	if err := s.DB.First(&place, bt.BoardingPlaceID).Error; err != nil {
		if notFound(err) == ErrNotFound {
			return invalid("boarding_place_id", "unknown boarding place")
		}
		return err
	}
	if err := s.DB.Omit("BoardingPlace").Save(bt).Error; err != nil {
		if IsDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	bt.BoardingPlace = place
	return nil
}

func (s *BoardingService) DeleteTime(id uint) error {
	res := s.DB.Delete(&models.TourBoardingTime{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
