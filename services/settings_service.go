package services

import (
	"errors"

	"github.com/whalechillz/go-singsing-sub006/models"

	"gorm.io/gorm"
)

type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Get returns the company row, or an empty one when none is stored yet.
func (s *SettingsService) Get() (*models.CompanySetting, error) {
	var c models.CompanySetting
	if err := s.DB.Order("id ASC").First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.CompanySetting{}, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *SettingsService) Save(in models.CompanySetting) (*models.CompanySetting, error) {
	c, err := s.Get()
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.Address = in.Address
	c.Phone = in.Phone
	c.Email = in.Email
	c.Website = in.Website
	c.Logo = in.Logo
	c.BankAccount = in.BankAccount
	if err := s.DB.Save(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}
