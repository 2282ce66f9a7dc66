package services

import (
	"errors"
	"math"
	"time"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettlementService struct {
	DB *gorm.DB
}

func NewSettlementService(db *gorm.DB) *SettlementService {
	return &SettlementService{DB: db}
}

type SettlementReport struct {
	From        string                  `json:"from"`
	To          string                  `json:"to"`
	Settlements []models.TourSettlement `json:"settlements"`
	Revenue     int64                   `json:"revenue"`
	TotalCost   int64                   `json:"total_cost"`
	Margin      int64                   `json:"margin"`
	MarginRate  float64                 `json:"margin_rate"`
}

func isExpenseCategory(c string) bool {
	for _, v := range models.ExpenseCategories {
		if v == c {
			return true
		}
	}
	return false
}

func marginRate(margin, revenue int64) float64 {
	if revenue == 0 {
		return 0
	}
	return math.Round(float64(margin)/float64(revenue)*10000) / 100
}

func ensureUnlocked(db *gorm.DB, tourID uint) error {
	var n int64
	if err := db.Model(&models.TourSettlement{}).
		Where("tour_id = ? AND status = ?", tourID, models.SettlementConfirmed).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrSettlementLocked
	}
	return nil
}

func (s *SettlementService) ListExpenses(tourID uint) ([]models.TourExpense, error) {
	var out []models.TourExpense
	err := s.DB.Where("tour_id = ?", tourID).Order("category ASC, id ASC").Find(&out).Error
	return out, err
}

func (s *SettlementService) SaveExpense(e *models.TourExpense) error {
	if e.ID != 0 {
		var existing models.TourExpense
		if err := s.DB.First(&existing, e.ID).Error; err != nil {
			return notFound(err)
		}
		e.TourID = existing.TourID
		e.CreatedAt = existing.CreatedAt
	}
	if !isExpenseCategory(e.Category) {
		return invalid("category", "unknown category "+e.Category)
	}
	if e.UnitPrice < 0 || e.Quantity < 0 || e.Amount < 0 {
		return invalid("amount", "must not be negative")
	}
	if e.UnitPrice > 0 {
		if e.Quantity == 0 {
			e.Quantity = 1
		}
		e.Amount = e.UnitPrice * int64(e.Quantity)
	}
	if _, err := loadTour(s.DB, e.TourID); err != nil {
		return err
	}
	if err := ensureUnlocked(s.DB, e.TourID); err != nil {
		return err
	}
	return s.DB.Save(e).Error
}

func (s *SettlementService) DeleteExpense(id uint) error {
	var e models.TourExpense
	if err := s.DB.First(&e, id).Error; err != nil {
		return notFound(err)
	}
	if err := ensureUnlocked(s.DB, e.TourID); err != nil {
		return err
	}
	return s.DB.Delete(&e).Error
}

// Compute derives a settlement from payments and expenses without storing it.
func (s *SettlementService) Compute(tourID uint) (*models.TourSettlement, error) {
	return computeSettlement(s.DB, tourID)
}

func computeSettlement(db *gorm.DB, tourID uint) (*models.TourSettlement, error) {
	sum, err := paymentSummary(db, tourID)
	if err != nil {
		return nil, err
	}
	var expenses []models.TourExpense
	if err := db.Where("tour_id = ?", tourID).Find(&expenses).Error; err != nil {
		return nil, err
	}
	breakdown := map[string]int64{}
	var cost int64
	for _, e := range expenses {
		breakdown[e.Category] += e.Amount
		cost += e.Amount
	}
	st := &models.TourSettlement{
		TourID:    tourID,
		Revenue:   sum.Net,
		Refunds:   sum.Refunded,
		TotalCost: cost,
		Margin:    sum.Net - cost,
		Breakdown: datatypes.NewJSONType(breakdown),
		Status:    models.SettlementDraft,
	}
	st.MarginRate = marginRate(st.Margin, st.Revenue)
	return st, nil
}

func (s *SettlementService) Get(tourID uint) (*models.TourSettlement, error) {
	var st models.TourSettlement
	if err := s.DB.Where("tour_id = ?", tourID).First(&st).Error; err != nil {
		return nil, notFound(err)
	}
	return &st, nil
}

// Save stores a fresh draft snapshot. Confirmed settlements are left alone.
func (s *SettlementService) Save(tourID uint, note string) (*models.TourSettlement, error) {
	var out *models.TourSettlement
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := ensureUnlocked(tx, tourID); err != nil {
			return err
		}
		st, err := computeSettlement(tx, tourID)
		if err != nil {
			return err
		}
		st.Note = note
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tour_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"revenue", "refunds", "total_cost", "margin", "margin_rate", "breakdown", "status", "note", "updated_at"}),
		}).Create(st).Error; err != nil {
			return err
		}
		var stored models.TourSettlement
		if err := tx.Where("tour_id = ?", tourID).First(&stored).Error; err != nil {
			return err
		}
		out = &stored
		return nil
	})
	return out, err
}

func (s *SettlementService) Confirm(tourID uint) (*models.TourSettlement, error) {
	st, err := s.Get(tourID)
	if errors.Is(err, ErrNotFound) {
		st, err = s.Save(tourID, "")
	}
	if err != nil {
		return nil, err
	}
	if st.Status == models.SettlementConfirmed {
		return st, nil
	}
	st.Status = models.SettlementConfirmed
	st.ConfirmedAt = utils.PtrTime(time.Now())
	if err := s.DB.Model(st).Select("status", "confirmed_at").Updates(st).Error; err != nil {
		return nil, err
	}
	return st, nil
}

func (s *SettlementService) Reopen(tourID uint) (*models.TourSettlement, error) {
	st, err := s.Get(tourID)
	if err != nil {
		return nil, err
	}
	st.Status = models.SettlementDraft
	st.ConfirmedAt = nil
	if err := s.DB.Model(st).Select("status", "confirmed_at").Updates(st).Error; err != nil {
		return nil, err
	}
	return st, nil
}

// Report lists stored settlements for tours starting within [from, to].
func (s *SettlementService) Report(from, to string) (*SettlementReport, error) {
	if !utils.IsValidDate(from) || !utils.IsValidDate(to) {
		return nil, invalid("from", "from and to must be YYYY-MM-DD")
	}
	if to < from {
		return nil, invalid("to", "must not be before from")
	}
	var sts []models.TourSettlement
	err := s.DB.Preload("Tour").
		Joins("JOIN singsing_tours t ON t.id = tour_settlements.tour_id AND t.deleted_at IS NULL").
		Where("t.start_date BETWEEN ? AND ?", from, to).
		Order("t.start_date ASC").
		Find(&sts).Error
	if err != nil {
		return nil, err
	}
	rep := &SettlementReport{From: from, To: to, Settlements: sts}
	for _, st := range sts {
		rep.Revenue += st.Revenue
		rep.TotalCost += st.TotalCost
		rep.Margin += st.Margin
	}
	rep.MarginRate = marginRate(rep.Margin, rep.Revenue)
	return rep, nil
}
