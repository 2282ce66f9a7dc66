package services

import (
	"errors"
	"strings"
	"time"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminService struct {
	DB        *gorm.DB
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAdminService(db *gorm.DB, secret string, ttl time.Duration) *AdminService {
	return &AdminService{DB: db, JWTSecret: secret, TokenTTL: ttl}
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Admin     models.Admin `json:"admin"`
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AdminService) Login(username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid("username", "username and password required")
	}
	var admin models.Admin
	if err := s.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !isBcryptHash(admin.Password) || bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.IssueToken(s.JWTSecret, admin.ID, admin.Username, admin.Role, s.TokenTTL)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	admin.LastLogin = &now
	s.DB.Model(&admin).Update("last_login", now)

	return &LoginResult{Token: token, ExpiresAt: now.Add(s.TokenTTL), Admin: admin}, nil
}

func (s *AdminService) ListAdmins() ([]models.Admin, error) {
	var admins []models.Admin
	err := s.DB.Order("id ASC").Find(&admins).Error
	return admins, err
}

func (s *AdminService) GetAdmin(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}

// CreateAdmin hashes the password and joins the admin to the role of the same name when it exists.
func (s *AdminService) CreateAdmin(admin *models.Admin, password string) error {
	admin.ID = 0
	admin.Username = strings.TrimSpace(admin.Username)
	if admin.Username == "" {
		return invalid("username", "required")
	}
	if len(password) < 8 {
		return invalid("password", "must be at least 8 characters")
	}
	if admin.Role == "" {
		admin.Role = "staff"
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	admin.Password = hash

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(admin).Error; err != nil {
			if IsDuplicateKey(err) {
				return ErrConflict
			}
			return err
		}
		var role models.Role
		if err := tx.Where("name = ?", admin.Role).First(&role).Error; err == nil {
			return tx.Create(&models.RoleMember{RoleID: role.ID, AdminID: admin.ID}).Error
		}
		return nil
	})
}

func (s *AdminService) DeleteAdmin(id, currentAdminID uint) error {
	if id == currentAdminID {
		return invalid("id", "cannot delete yourself")
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("admin_id = ?", id).Delete(&models.RoleMember{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Admin{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
