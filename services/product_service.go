package services

import (
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"

	"gorm.io/gorm"
)

type ProductService struct {
	DB *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{DB: db}
}

func (s *ProductService) List() ([]models.TourProduct, error) {
	var out []models.TourProduct
	err := s.DB.Order("name ASC").Find(&out).Error
	return out, err
}

func (s *ProductService) Get(id uint) (*models.TourProduct, error) {
	var p models.TourProduct
	if err := s.DB.First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *ProductService) Save(p *models.TourProduct) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid("name", "required")
	}
	if p.BasePrice < 0 {
		return invalid("base_price", "must not be negative")
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.ID != 0 {
		if _, err := s.Get(p.ID); err != nil {
			return err
		}
	}
	return s.DB.Save(p).Error
}

func (s *ProductService) Delete(id uint) error {
	res := s.DB.Delete(&models.TourProduct{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddImage stores the upload under uploads/products and appends its path to the product.
func (s *ProductService) AddImage(id uint, b64 string) (*models.TourProduct, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	path, err := SaveBase64Image(b64, "products")
	if err != nil {
		return nil, err
	}
	p.Images = append(p.Images, path)
	if err := s.DB.Model(p).Update("images", p.Images).Error; err != nil {
		return nil, err
	}
	return p, nil
}
