package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ParticipantService struct {
	DB *gorm.DB
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{DB: db}
}

type ParticipantFilter struct {
	Status string
	Query  string
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Errors  []ImportRowError `json:"errors"`
}

var participantStatuses = map[string]bool{
	models.ParticipantConfirmed: true,
	models.ParticipantPending:   true,
	models.ParticipantCancelled: true,
}

func (s *ParticipantService) ListByTour(tourID uint, f ParticipantFilter) ([]models.Participant, error) {
	q := s.DB.Preload("Room").Preload("BoardingPlace").Where("tour_id = ?", tourID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Query != "" {
		q = q.Where("name LIKE ? OR phone LIKE ?", "%"+f.Query+"%", "%"+utils.NormalizePhone(f.Query)+"%")
	}
	var out []models.Participant
	err := q.Order("team_name ASC, id ASC").Find(&out).Error
	return out, err
}

func (s *ParticipantService) Get(id uint) (*models.Participant, error) {
	var p models.Participant
	if err := s.DB.Preload("Room").Preload("BoardingPlace").First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *ParticipantService) normalize(p *models.Participant) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid("name", "required")
	}
	p.Phone = utils.NormalizePhone(p.Phone)
	if !utils.IsValidPhone(p.Phone) {
		return invalid("phone", "not a valid phone number")
	}
	p.Email = strings.TrimSpace(p.Email)
	if p.Status == "" {
		p.Status = models.ParticipantConfirmed
	}
	if !participantStatuses[p.Status] {
		return invalid("status", "unknown status "+p.Status)
	}
	if p.BoardingPlaceID != nil {
		var n int64
		if err := s.DB.Model(&models.BoardingPlace{}).Where("id = ?", *p.BoardingPlaceID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return invalid("boarding_place_id", "unknown boarding place")
		}
	}
	return nil
}

func checkCapacity(tx *gorm.DB, tour *models.Tour, excludeID uint) error {
	if tour.MaxParticipants <= 0 {
		return nil
	}
	var n int64
	q := tx.Model(&models.Participant{}).Where("tour_id = ? AND status <> ?", tour.ID, models.ParticipantCancelled)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if int(n) >= tour.MaxParticipants {
		return fmt.Errorf("%w: %d/%d", ErrTourFull, n, tour.MaxParticipants)
	}
	return nil
}

func (s *ParticipantService) Create(p *models.Participant) error {
	p.ID = 0
	p.RoomID = nil
	if err := s.normalize(p); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		tour, err := loadTour(tx, p.TourID)
		if err != nil {
			return err
		}
		if p.Status != models.ParticipantCancelled {
			if err := checkCapacity(tx, tour, 0); err != nil {
				return err
			}
		}
		if err := tx.Omit("Room", "BoardingPlace").Create(p).Error; err != nil {
			if IsDuplicateKey(err) {
				return ErrDuplicatePhone
			}
			return err
		}
		return nil
	})
}

// Update saves the participant; room assignment is managed by RoomService and is left untouched.
func (s *ParticipantService) Update(p *models.Participant) error {
	if err := s.normalize(p); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var current models.Participant
		if err := tx.First(&current, p.ID).Error; err != nil {
			return notFound(err)
		}
		p.TourID = current.TourID
		p.RoomID = current.RoomID
		p.CreatedAt = current.CreatedAt

		if current.Status == models.ParticipantCancelled && p.Status != models.ParticipantCancelled {
			tour, err := loadTour(tx, p.TourID)
			if err != nil {
				return err
			}
			if err := checkCapacity(tx, tour, p.ID); err != nil {
				return err
			}
		}
		if p.Status == models.ParticipantCancelled {
			if err := releaseAssignments(tx, p.ID); err != nil {
				return err
			}
			p.RoomID = nil
		}
		if err := tx.Omit("Room", "BoardingPlace").Save(p).Error; err != nil {
			if IsDuplicateKey(err) {
				return ErrDuplicatePhone
			}
			return err
		}
		return nil
	})
}

func releaseAssignments(tx *gorm.DB, participantID uint) error {
	if err := tx.Where("participant_id = ?", participantID).Delete(&models.ParticipantTeeTime{}).Error; err != nil {
		return err
	}
	return tx.Model(&models.Participant{}).Where("id = ?", participantID).Update("room_id", nil).Error
}

// Cancel marks the participant cancelled and frees their room and tee times.
func (s *ParticipantService) Cancel(id uint) (*models.Participant, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Participant
		if err := tx.First(&p, id).Error; err != nil {
			return notFound(err)
		}
		if err := releaseAssignments(tx, id); err != nil {
			return err
		}
		return tx.Model(&models.Participant{}).Where("id = ?", id).Update("status", models.ParticipantCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *ParticipantService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("participant_id = ?", id).Delete(&models.ParticipantTeeTime{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Participant{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// BulkImport creates rows one by one; a failing row is reported and the rest still go in.
func (s *ParticipantService) BulkImport(tourID uint, rows []models.Participant) (*ImportResult, error) {
	if _, err := loadTour(s.DB, tourID); err != nil {
		return nil, err
	}
	result := &ImportResult{Errors: []ImportRowError{}}
	for i := range rows {
		row := rows[i]
		row.TourID = tourID
		if err := s.Create(&row); err != nil {
			if !errors.Is(err, ErrValidation) && !errors.Is(err, ErrDuplicatePhone) && !errors.Is(err, ErrTourFull) {
				return result, fmt.Errorf("import row %d: %w", i+1, err)
			}
			result.Errors = append(result.Errors, ImportRowError{Row: i + 1, Name: row.Name, Message: err.Error()})
			continue
		}
		result.Created++
	}
	log.Printf("participant import tour=%d created=%d failed=%d", tourID, result.Created, len(result.Errors))
	return result, nil
}

var exportHeader = []string{"이름", "전화번호", "팀", "객실", "탑승지", "상태", "메모"}

// exportRows returns the header and one record per participant of an existing tour.
func (s *ParticipantService) exportRows(tourID uint) ([][]string, error) {
	if _, err := loadTour(s.DB, tourID); err != nil {
		return nil, err
	}
	participants, err := s.ListByTour(tourID, ParticipantFilter{})
	if err != nil {
		return nil, err
	}
	records := make([][]string, 0, len(participants)+1)
	records = append(records, exportHeader)
	for _, p := range participants {
		room := ""
		if p.Room != nil {
			room = p.Room.RoomNumber
		}
		place := ""
		if p.BoardingPlace != nil {
			place = p.BoardingPlace.Name
		}
		records = append(records, []string{p.Name, utils.FormatPhone(p.Phone), p.TeamName, room, place, p.Status, p.Note})
	}
	return records, nil
}

func (s *ParticipantService) ExportCSV(tourID uint, w io.Writer) error {
	records, err := s.exportRows(tourID)
	if err != nil {
		return err
	}
	// BOM so spreadsheet apps pick UTF-8 for the Korean headers.
	if _, err := w.Write([]byte("\xEF\xBB\xBF")); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

// ExportXLSX writes the participant list as a single-sheet workbook.
func (s *ParticipantService) ExportXLSX(tourID uint, w io.Writer) error {
	records, err := s.exportRows(tourID)
	if err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()
	sheet := "참가자"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

// importColumns maps accepted headers, Korean or English, to participant fields.
var importColumns = map[string]string{
	"이름": "name", "name": "name",
	"전화번호": "phone", "연락처": "phone", "phone": "phone",
	"이메일": "email", "email": "email",
	"성별": "gender", "gender": "gender",
	"팀": "team", "team": "team", "team_name": "team",
	"메모": "note", "note": "note",
}

// ParseParticipantCSV reads an upload with a header row into participants for BulkImport.
func ParseParticipantCSV(r io.Reader) ([]models.Participant, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, invalid("file", err.Error())
	}
	return participantsFromRecords(records)
}

// ParseParticipantXLSX reads the first sheet of a workbook, header row first.
func ParseParticipantXLSX(r io.Reader) ([]models.Participant, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, invalid("file", "not an xlsx workbook: "+err.Error())
	}
	defer f.Close()
	records, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, invalid("file", err.Error())
	}
	return participantsFromRecords(records)
}

func participantsFromRecords(records [][]string) ([]models.Participant, error) {
	if len(records) == 0 {
		return nil, invalid("file", "empty file")
	}
	cols := map[string]int{}
	for i, h := range records[0] {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\xEF\xBB\xBF")))
		if field, ok := importColumns[h]; ok {
			cols[field] = i
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, invalid("file", "missing name column")
	}
	if _, ok := cols["phone"]; !ok {
		return nil, invalid("file", "missing phone column")
	}

	get := func(rec []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []models.Participant
	for _, rec := range records[1:] {
		if get(rec, "name") == "" && get(rec, "phone") == "" {
			continue
		}
		rows = append(rows, models.Participant{
			Name:     get(rec, "name"),
			Phone:    get(rec, "phone"),
			Email:    get(rec, "email"),
			Gender:   get(rec, "gender"),
			TeamName: get(rec, "team"),
			Note:     get(rec, "note"),
		})
	}
	return rows, nil
}
