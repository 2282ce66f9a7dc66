package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"gorm.io/gorm"
)

type QuoteService struct {
	DB     *gorm.DB
	Mailer Mailer
}

func NewQuoteService(db *gorm.DB, mailer Mailer) *QuoteService {
	return &QuoteService{DB: db, Mailer: mailer}
}

var quoteStatuses = map[string]bool{
	models.QuoteDraft:    true,
	models.QuoteSent:     true,
	models.QuoteAccepted: true,
	models.QuoteExpired:  true,
}

func prepareQuote(q *models.Quote) error {
	q.Title = strings.TrimSpace(q.Title)
	if q.Title == "" {
		return invalid("title", "required")
	}
	for _, d := range []struct{ field, v string }{
		{"start_date", q.StartDate}, {"end_date", q.EndDate}, {"valid_until", q.ValidUntil},
	} {
		if d.v != "" && !utils.IsValidDate(d.v) {
			return invalid(d.field, "must be YYYY-MM-DD")
		}
	}
	if q.StartDate != "" && q.EndDate != "" && q.EndDate < q.StartDate {
		return invalid("end_date", "must not be before start_date")
	}
	if q.People < 0 {
		return invalid("people", "must not be negative")
	}
	if q.CustomerPhone != "" {
		q.CustomerPhone = utils.NormalizePhone(q.CustomerPhone)
	}
	if q.Status == "" {
		q.Status = models.QuoteDraft
	}
	if !quoteStatuses[q.Status] {
		return invalid("status", "unknown status "+q.Status)
	}
	if q.Items == nil {
		q.Items = []models.QuoteItem{}
	}
	q.Total = 0
	for i, it := range q.Items {
		if strings.TrimSpace(it.Name) == "" {
			return invalid(fmt.Sprintf("items[%d].name", i), "required")
		}
		if it.UnitPrice < 0 || it.Quantity < 0 {
			return invalid(fmt.Sprintf("items[%d]", i), "must not be negative")
		}
		q.Total += it.UnitPrice * int64(it.Quantity)
	}
	return nil
}

func (s *QuoteService) List(status string) ([]models.Quote, error) {
	q := s.DB.Order("id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Quote
	err := q.Find(&out).Error
	return out, err
}

func (s *QuoteService) Get(id uint) (*models.Quote, error) {
	var q models.Quote
	if err := s.DB.Preload("TourProduct").First(&q, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

func (s *QuoteService) Create(q *models.Quote) error {
	q.ID = 0
	if err := prepareQuote(q); err != nil {
		return err
	}
	return s.DB.Omit("TourProduct").Create(q).Error
}

func (s *QuoteService) Update(q *models.Quote) error {
	if err := prepareQuote(q); err != nil {
		return err
	}
	res := s.DB.Model(&models.Quote{}).Where("id = ?", q.ID).
		Select("*").Omit("created_at", "deleted_at", "TourProduct").
		Updates(q)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *QuoteService) Delete(id uint) error {
	res := s.DB.Delete(&models.Quote{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func quoteText(q *models.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", q.Title)
	if q.StartDate != "" {
		fmt.Fprintf(&b, "일정: %s ~ %s\n", q.StartDate, q.EndDate)
	}
	if q.People > 0 {
		fmt.Fprintf(&b, "인원: %d명\n", q.People)
	}
	b.WriteString("\n")
	for _, it := range q.Items {
		fmt.Fprintf(&b, "- %s: %s원 x %d = %s원\n", it.Name, formatWon(it.UnitPrice), it.Quantity, formatWon(it.UnitPrice*int64(it.Quantity)))
	}
	fmt.Fprintf(&b, "\n합계: %s원\n", formatWon(q.Total))
	if q.ValidUntil != "" {
		fmt.Fprintf(&b, "유효기간: %s까지\n", q.ValidUntil)
	}
	return b.String()
}

// formatWon groups digits by thousands: 1234567 -> 1,234,567.
func formatWon(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// Email sends the quote summary and marks the quote sent.
func (s *QuoteService) Email(ctx context.Context, id uint, to string) (*models.Quote, error) {
	addr, err := mail.ParseAddress(to)
	if err != nil {
		return nil, invalid("to", "invalid email address")
	}
	q, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	text := quoteText(q)
	msg := EmailMessage{
		To:      addr.Address,
		ToName:  q.CustomerName,
		Subject: "견적서: " + q.Title,
		Text:    text,
		HTML:    "<pre>" + htmlEscaper.Replace(text) + "</pre>",
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		return nil, err
	}
	if q.Status == models.QuoteDraft {
		q.Status = models.QuoteSent
		if err := s.DB.Model(q).Update("status", q.Status).Error; err != nil {
			return nil, err
		}
	}
	return q, nil
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
