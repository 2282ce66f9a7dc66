package services

import (
	"errors"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerService struct {
	DB *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{DB: db}
}

type CustomerFilter struct {
	Query  string
	Tag    string
	Status string
}

type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

var customerStatuses = map[string]bool{
	models.CustomerActive:   true,
	models.CustomerInactive: true,
	models.CustomerBlocked:  true,
}

func normalizeCustomer(c *models.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return invalid("name", "required")
	}
	c.Phone = utils.NormalizePhone(c.Phone)
	if !utils.IsValidPhone(c.Phone) {
		return invalid("phone", "invalid phone number")
	}
	if c.BirthDate != "" && !utils.IsValidDate(c.BirthDate) {
		return invalid("birth_date", "must be YYYY-MM-DD")
	}
	if c.Status == "" {
		c.Status = models.CustomerActive
	}
	if !customerStatuses[c.Status] {
		return invalid("status", "unknown status "+c.Status)
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return nil
}

func (s *CustomerService) List(f CustomerFilter) ([]models.Customer, error) {
	q := s.DB.Model(&models.Customer{})
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		digits := utils.NormalizePhone(f.Query)
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, "%"+digits+"%")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []models.Customer
	if err := q.Order("name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	// tags live in a JSON column whose query syntax differs per driver
	if f.Tag == "" {
		return out, nil
	}
	filtered := out[:0]
	for _, c := range out {
		for _, t := range c.Tags {
			if t == f.Tag {
				filtered = append(filtered, c)
				break
			}
		}
	}
	return filtered, nil
}

func (s *CustomerService) Get(id uint) (*models.Customer, error) {
	var c models.Customer
	if err := s.DB.First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *CustomerService) Create(c *models.Customer) error {
	c.ID = 0
	if err := normalizeCustomer(c); err != nil {
		return err
	}
	if err := s.DB.Create(c).Error; err != nil {
		if IsDuplicateKey(err) {
			return ErrDuplicatePhone
		}
		return err
	}
	return nil
}

func (s *CustomerService) Update(c *models.Customer) error {
	if err := normalizeCustomer(c); err != nil {
		return err
	}
	res := s.DB.Model(&models.Customer{}).Where("id = ?", c.ID).
		Select("*").Omit("created_at", "deleted_at", "total_tour_count", "last_tour_date").
		Updates(c)
	if res.Error != nil {
		if IsDuplicateKey(res.Error) {
			return ErrDuplicatePhone
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CustomerService) Delete(id uint) error {
	res := s.DB.Delete(&models.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SyncFromTour upserts a customer per participant phone. The tour is counted once per customer.
func (s *CustomerService) SyncFromTour(tourID uint) (*SyncResult, error) {
	tour, err := loadTour(s.DB, tourID)
	if err != nil {
		return nil, err
	}
	var ps []models.Participant
	if err := s.DB.Where("tour_id = ? AND status <> ?", tourID, models.ParticipantCancelled).
		Order("id ASC").Find(&ps).Error; err != nil {
		return nil, err
	}

	res := &SyncResult{}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, p := range ps {
			phone := utils.NormalizePhone(p.Phone)
			if !utils.IsValidPhone(phone) {
				res.Skipped++
				continue
			}

			var c models.Customer
			err := tx.Unscoped().Where("phone = ?", phone).First(&c).Error
			created := false
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				c = models.Customer{
					Name:   p.Name,
					Phone:  phone,
					Email:  p.Email,
					Gender: p.Gender,
					Status: models.CustomerActive,
					Tags:   []string{},
				}
				if err := tx.Create(&c).Error; err != nil {
					return err
				}
				created = true
			case err != nil:
				return err
			case c.DeletedAt.Valid:
				if err := tx.Unscoped().Model(&c).Update("deleted_at", nil).Error; err != nil {
					return err
				}
			}

			h := models.CustomerTourHistory{CustomerID: c.ID, TourID: tourID}
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&h)
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected == 0 {
				res.Skipped++
				continue
			}

			updates := map[string]interface{}{"total_tour_count": gorm.Expr("total_tour_count + 1")}
			if tour.StartDate > c.LastTourDate {
				updates["last_tour_date"] = tour.StartDate
			}
			if err := tx.Model(&models.Customer{}).Where("id = ?", c.ID).Updates(updates).Error; err != nil {
				return err
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// History lists the tours a customer has been synced from, newest first.
func (s *CustomerService) History(customerID uint) ([]models.Tour, error) {
	if _, err := s.Get(customerID); err != nil {
		return nil, err
	}
	var tours []models.Tour
	err := s.DB.Joins("JOIN customer_tour_history h ON h.tour_id = singsing_tours.id").
		Where("h.customer_id = ?", customerID).
		Order("singsing_tours.start_date DESC").
		Find(&tours).Error
	return tours, err
}
