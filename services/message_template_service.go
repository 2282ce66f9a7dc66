package services

import (
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"

	"gorm.io/gorm"
)

type MessageTemplateService struct {
	DB *gorm.DB
}

func NewMessageTemplateService(db *gorm.DB) *MessageTemplateService {
	return &MessageTemplateService{DB: db}
}

var messageTypes = map[string]bool{
	models.MessageTypeSMS:   true,
	models.MessageTypeLMS:   true,
	models.MessageTypeKakao: true,
}

func (s *MessageTemplateService) List(activeOnly bool) ([]models.MessageTemplate, error) {
	q := s.DB.Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.MessageTemplate
	err := q.Find(&out).Error
	return out, err
}

func (s *MessageTemplateService) Get(id uint) (*models.MessageTemplate, error) {
	var t models.MessageTemplate
	if err := s.DB.First(&t, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *MessageTemplateService) Save(t *models.MessageTemplate) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return invalid("name", "required")
	}
	if strings.TrimSpace(t.Content) == "" {
		return invalid("content", "required")
	}
	if t.MessageType == "" {
		t.MessageType = models.MessageTypeSMS
	}
	if !messageTypes[t.MessageType] {
		return invalid("message_type", "must be sms, lms or kakao")
	}
	if t.MessageType == models.MessageTypeKakao && t.KakaoTemplateCode == "" {
		return invalid("kakao_template_code", "required for kakao templates")
	}
	if t.ID != 0 {
		if _, err := s.Get(t.ID); err != nil {
			return err
		}
	}
	if err := s.DB.Save(t).Error; err != nil {
		if IsDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *MessageTemplateService) Delete(id uint) error {
	res := s.DB.Delete(&models.MessageTemplate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type TemplatePreview struct {
	Text        string   `json:"text"`
	MessageType string   `json:"message_type"`
	Bytes       int      `json:"bytes"`
	Missing     []string `json:"missing"`
}

// Preview renders content against sample or supplied variables without sending anything.
func Preview(content string, vars map[string]string) (*TemplatePreview, error) {
	text, missing := Render(content, vars)
	typ, err := DetectType(text)
	if err != nil {
		return nil, err
	}
	if missing == nil {
		missing = []string{}
	}
	return &TemplatePreview{Text: text, MessageType: typ, Bytes: EUCKRLength(text), Missing: missing}, nil
}
