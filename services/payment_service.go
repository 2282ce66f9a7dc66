package services

import (
	"fmt"

	"github.com/whalechillz/go-singsing-sub006/models"

	"gorm.io/gorm"
)

type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db}
}

var (
	paymentMethods  = map[string]bool{"bank": true, "card": true, "cash": true}
	paymentTypes    = map[string]bool{models.PaymentDeposit: true, models.PaymentBalance: true, models.PaymentFull: true, models.PaymentRefund: true}
	paymentStatuses = map[string]bool{models.PaymentPending: true, models.PaymentCompleted: true, models.PaymentCancelled: true}
)

const (
	PayStatusUnpaid  = "unpaid"
	PayStatusPartial = "partial"
	PayStatusPaid    = "paid"
)

type ParticipantPayment struct {
	ParticipantID uint   `json:"participant_id"`
	Name          string `json:"name"`
	Paid          int64  `json:"paid"`
	Refunded      int64  `json:"refunded"`
	Net           int64  `json:"net"`
	Status        string `json:"status"`
}

type PaymentSummary struct {
	TourID       uint                 `json:"tour_id"`
	Price        int64                `json:"price"`
	Participants int                  `json:"participants"`
	Expected     int64                `json:"expected"`
	Collected    int64                `json:"collected"`
	Refunded     int64                `json:"refunded"`
	Net          int64                `json:"net"`
	Outstanding  int64                `json:"outstanding"`
	ByMethod     map[string]int64     `json:"by_method"`
	Breakdown    []ParticipantPayment `json:"participants_detail"`
}

func (s *PaymentService) validate(p *models.Payment) error {
	if p.Amount <= 0 {
		return invalid("amount", "must be positive")
	}
	if p.Method == "" {
		p.Method = "bank"
	}
	if !paymentMethods[p.Method] {
		return invalid("method", "must be bank, card or cash")
	}
	if p.PaymentType == "" {
		p.PaymentType = models.PaymentFull
	}
	if !paymentTypes[p.PaymentType] {
		return invalid("payment_type", "unknown type "+p.PaymentType)
	}
	if p.Status == "" {
		p.Status = models.PaymentPending
	}
	if !paymentStatuses[p.Status] {
		return invalid("status", "unknown status "+p.Status)
	}
	var part models.Participant
	if err := s.DB.First(&part, p.ParticipantID).Error; err != nil {
		return notFound(err)
	}
	if part.TourID != p.TourID {
		return fmt.Errorf("%w: participant %d", ErrParticipantNotInTour, p.ParticipantID)
	}
	if p.PayerName == "" {
		p.PayerName = part.Name
	}
	return nil
}

func (s *PaymentService) ListByTour(tourID uint) ([]models.Payment, error) {
	var out []models.Payment
	err := s.DB.Where("tour_id = ?", tourID).Order("id ASC").Find(&out).Error
	return out, err
}

func (s *PaymentService) Get(id uint) (*models.Payment, error) {
	var p models.Payment
	if err := s.DB.First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *PaymentService) Create(p *models.Payment) error {
	p.ID = 0
	if err := s.validate(p); err != nil {
		return err
	}
	return s.DB.Create(p).Error
}

func (s *PaymentService) Update(p *models.Payment) error {
	existing, err := s.Get(p.ID)
	if err != nil {
		return err
	}
	p.TourID = existing.TourID
	p.CreatedAt = existing.CreatedAt
	if err := s.validate(p); err != nil {
		return err
	}
	return s.DB.Save(p).Error
}

func (s *PaymentService) Delete(id uint) error {
	res := s.DB.Delete(&models.Payment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Summary only counts completed payments; refunds are subtracted from the collected amount.
func (s *PaymentService) Summary(tourID uint) (*PaymentSummary, error) {
	return paymentSummary(s.DB, tourID)
}

func paymentSummary(db *gorm.DB, tourID uint) (*PaymentSummary, error) {
	tour, err := loadTour(db, tourID)
	if err != nil {
		return nil, err
	}
	var ps []models.Participant
	if err := db.Where("tour_id = ? AND status <> ?", tourID, models.ParticipantCancelled).
		Order("id ASC").Find(&ps).Error; err != nil {
		return nil, err
	}
	var pays []models.Payment
	if err := db.Where("tour_id = ? AND status = ?", tourID, models.PaymentCompleted).Find(&pays).Error; err != nil {
		return nil, err
	}

	sum := &PaymentSummary{
		TourID:       tourID,
		Price:        tour.Price,
		Participants: len(ps),
		Expected:     tour.Price * int64(len(ps)),
		ByMethod:     map[string]int64{},
	}
	perPart := map[uint]*ParticipantPayment{}
	for _, p := range ps {
		perPart[p.ID] = &ParticipantPayment{ParticipantID: p.ID, Name: p.Name}
	}
	for _, pay := range pays {
		pp := perPart[pay.ParticipantID]
		if pay.PaymentType == models.PaymentRefund {
			sum.Refunded += pay.Amount
			sum.ByMethod[pay.Method] -= pay.Amount
			if pp != nil {
				pp.Refunded += pay.Amount
			}
			continue
		}
		sum.Collected += pay.Amount
		sum.ByMethod[pay.Method] += pay.Amount
		if pp != nil {
			pp.Paid += pay.Amount
		}
	}
	sum.Net = sum.Collected - sum.Refunded
	if sum.Expected > sum.Net {
		sum.Outstanding = sum.Expected - sum.Net
	}

	sum.Breakdown = make([]ParticipantPayment, 0, len(ps))
	for _, p := range ps {
		pp := perPart[p.ID]
		pp.Net = pp.Paid - pp.Refunded
		switch {
		case pp.Net <= 0:
			pp.Status = PayStatusUnpaid
		case pp.Net >= tour.Price:
			pp.Status = PayStatusPaid
		default:
			pp.Status = PayStatusPartial
		}
		sum.Breakdown = append(sum.Breakdown, *pp)
	}
	return sum, nil
}
