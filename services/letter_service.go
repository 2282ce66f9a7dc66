package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"

	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"
)

type LetterService struct {
	DB     *gorm.DB
	Model  string
	client *openai.Client
}

// NewLetterService leaves the client nil without an API key; Generate then answers ErrLetterDisabled.
func NewLetterService(db *gorm.DB, apiKey, model, baseURL string) *LetterService {
	if model == "" {
		model = openai.GPT4oMini
	}
	s := &LetterService{DB: db, Model: model}
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		if baseURL != "" {
			cfg.BaseURL = strings.TrimRight(baseURL, "/")
		}
		s.client = openai.NewClientWithConfig(cfg)
	}
	return s
}

type LetterRequest struct {
	CustomerID *uint  `json:"customer_id"`
	Recipient  string `json:"recipient"`
	Occasion   string `json:"occasion"`
	Tone       string `json:"tone"`
	Notes      string `json:"notes"`
	MaxChars   int    `json:"max_chars"`
}

const letterSystemPrompt = "당신은 골프 여행사의 고객 관리 담당자입니다. 고객에게 보내는 정중하고 따뜻한 한국어 편지를 작성합니다. 인사말과 맺음말을 포함하고 과장된 광고 문구는 피합니다."

func (s *LetterService) prompt(req LetterRequest, customer *models.Customer) string {
	var b strings.Builder
	name := req.Recipient
	if name == "" && customer != nil {
		name = customer.Name
	}
	if name != "" {
		fmt.Fprintf(&b, "받는 분: %s\n", name)
	}
	if customer != nil && customer.TotalTourCount > 0 {
		fmt.Fprintf(&b, "함께한 투어 횟수: %d회 (최근 %s)\n", customer.TotalTourCount, customer.LastTourDate)
	}
	fmt.Fprintf(&b, "목적: %s\n", req.Occasion)
	if req.Tone != "" {
		fmt.Fprintf(&b, "어조: %s\n", req.Tone)
	}
	if req.Notes != "" {
		fmt.Fprintf(&b, "참고 사항: %s\n", req.Notes)
	}
	limit := req.MaxChars
	if limit <= 0 {
		limit = 500
	}
	fmt.Fprintf(&b, "%d자 이내로 작성해 주세요.", limit)
	return b.String()
}

// Generate asks the chat completions API for a letter and stores the result.
func (s *LetterService) Generate(ctx context.Context, req LetterRequest) (*models.Letter, error) {
	if s.client == nil {
		return nil, ErrLetterDisabled
	}
	req.Occasion = strings.TrimSpace(req.Occasion)
	if req.Occasion == "" {
		return nil, invalid("occasion", "required")
	}
	var customer *models.Customer
	if req.CustomerID != nil {
		var c models.Customer
		if err := s.DB.First(&c, *req.CustomerID).Error; err != nil {
			return nil, notFound(err)
		}
		customer = &c
	}

	prompt := s.prompt(req, customer)
	content, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	letter := &models.Letter{
		CustomerID: req.CustomerID,
		Occasion:   req.Occasion,
		Tone:       req.Tone,
		Prompt:     prompt,
		Content:    content,
		Model:      s.Model,
	}
	if err := s.DB.Create(letter).Error; err != nil {
		return nil, err
	}
	return letter, nil
}

func (s *LetterService) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: letterSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai HTTP %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai returned no content")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (s *LetterService) List(customerID *uint) ([]models.Letter, error) {
	q := s.DB.Order("id DESC")
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	var out []models.Letter
	err := q.Limit(100).Find(&out).Error
	return out, err
}

func (s *LetterService) Delete(id uint) error {
	res := s.DB.Delete(&models.Letter{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
