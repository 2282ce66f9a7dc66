package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"gorm.io/gorm"
)

type TeeTimeService struct {
	DB *gorm.DB
}

func NewTeeTimeService(db *gorm.DB) *TeeTimeService {
	return &TeeTimeService{DB: db}
}

type BulkTeeTimeRequest struct {
	PlayDate   string   `json:"play_date"`
	GolfCourse string   `json:"golf_course"`
	CourseName string   `json:"course_name"`
	Times      []string `json:"times"`
	MaxPlayers int      `json:"max_players"`
}

type TeePlayer struct {
	ParticipantID uint   `json:"participant_id"`
	Name          string `json:"name"`
	Gender        string `json:"gender"`
	TeamName      string `json:"team_name"`
	RoomID        *uint  `json:"room_id,omitempty"`
}

type TeeSlot struct {
	models.TeeTime
	Players []TeePlayer `json:"players"`
}

type TeeDay struct {
	PlayDate string    `json:"play_date"`
	Slots    []TeeSlot `json:"slots"`
}

type AutoAssignResult struct {
	PlayDate   string               `json:"play_date"`
	Assigned   int                  `json:"assigned"`
	Unassigned []models.Participant `json:"unassigned"`
}

func (s *TeeTimeService) validate(tx *gorm.DB, tt *models.TeeTime) error {
	tour, err := loadTour(tx, tt.TourID)
	if err != nil {
		return err
	}
	if !utils.IsValidDate(tt.PlayDate) {
		return invalid("play_date", "must be YYYY-MM-DD")
	}
	if tt.PlayDate < tour.StartDate || tt.PlayDate > tour.EndDate {
		return invalid("play_date", "outside the tour period")
	}
	if !utils.IsValidClock(tt.TeeTime) {
		return invalid("tee_time", "must be HH:MM")
	}
	tt.CourseName = strings.TrimSpace(tt.CourseName)
	if tt.MaxPlayers == 0 {
		tt.MaxPlayers = models.DefaultMaxPlayers
	}
	if tt.MaxPlayers < 1 || tt.MaxPlayers > 5 {
		return invalid("max_players", "must be between 1 and 5")
	}
	if tt.GolfCourse == "" {
		tt.GolfCourse = tour.GolfCourse
	}
	return nil
}

// List returns the tour's tee times (optionally one date) in play order with assigned players.
func (s *TeeTimeService) List(tourID uint, playDate string) ([]models.TeeTime, error) {
	q := s.DB.Preload("Assignments.Participant").Where("tour_id = ?", tourID)
	if playDate != "" {
		q = q.Where("play_date = ?", playDate)
	}
	var out []models.TeeTime
	err := q.Order("play_date ASC, tee_time ASC, course_name ASC").Find(&out).Error
	return out, err
}

func (s *TeeTimeService) Get(id uint) (*models.TeeTime, error) {
	var tt models.TeeTime
	if err := s.DB.Preload("Assignments.Participant").First(&tt, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &tt, nil
}

func (s *TeeTimeService) Save(tt *models.TeeTime) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if tt.ID != 0 {
			var current models.TeeTime
			if err := tx.First(&current, tt.ID).Error; err != nil {
				return notFound(err)
			}
			tt.TourID = current.TourID
			var n int64
			if err := tx.Model(&models.ParticipantTeeTime{}).Where("tee_time_id = ?", tt.ID).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 && tt.PlayDate != current.PlayDate {
				return invalid("play_date", "cannot move a tee time with players to another day")
			}
			if tt.MaxPlayers == 0 {
				tt.MaxPlayers = models.DefaultMaxPlayers
			}
			if int(n) > tt.MaxPlayers {
				return invalid("max_players", fmt.Sprintf("tee time already has %d players", n))
			}
		}
		if err := s.validate(tx, tt); err != nil {
			return err
		}
		if err := tx.Omit("Assignments").Save(tt).Error; err != nil {
			if IsDuplicateKey(err) {
				return fmt.Errorf("%w: %s %s %s already exists", ErrConflict, tt.PlayDate, tt.CourseName, tt.TeeTime)
			}
			return err
		}
		return nil
	})
}

// BulkCreate adds one tee time per entry in Times, all on the same day and course.
func (s *TeeTimeService) BulkCreate(tourID uint, req BulkTeeTimeRequest) ([]models.TeeTime, error) {
	if len(req.Times) == 0 {
		return nil, invalid("times", "at least one tee time is required")
	}
	created := make([]models.TeeTime, 0, len(req.Times))
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, t := range req.Times {
			tt := models.TeeTime{
				TourID:     tourID,
				PlayDate:   req.PlayDate,
				GolfCourse: req.GolfCourse,
				CourseName: req.CourseName,
				TeeTime:    strings.TrimSpace(t),
				MaxPlayers: req.MaxPlayers,
			}
			if err := s.validate(tx, &tt); err != nil {
				return err
			}
			if err := tx.Omit("Assignments").Create(&tt).Error; err != nil {
				if IsDuplicateKey(err) {
					return fmt.Errorf("%w: %s %s already exists", ErrConflict, tt.CourseName, tt.TeeTime)
				}
				return err
			}
			created = append(created, tt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TeeTimeService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tee_time_id = ?", id).Delete(&models.ParticipantTeeTime{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.TeeTime{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// assignTx places p in tt, moving them off any other slot the same day.
func assignTx(tx *gorm.DB, tt *models.TeeTime, p *models.Participant) error {
	if p.TourID != tt.TourID {
		return ErrParticipantNotInTour
	}
	if p.Status == models.ParticipantCancelled {
		return ErrParticipantCancelled
	}

	var sameDay []models.ParticipantTeeTime
	if err := tx.Where("participant_id = ? AND play_date = ?", p.ID, tt.PlayDate).Find(&sameDay).Error; err != nil {
		return err
	}
	for _, a := range sameDay {
		if a.TeeTimeID == tt.ID && len(sameDay) == 1 {
			return nil
		}
	}

	var n int64
	if err := tx.Model(&models.ParticipantTeeTime{}).
		Where("tee_time_id = ? AND participant_id <> ?", tt.ID, p.ID).
		Count(&n).Error; err != nil {
		return err
	}
	if int(n) >= tt.MaxPlayers {
		return fmt.Errorf("%w: %s %s", ErrTeeTimeFull, tt.PlayDate, tt.TeeTime)
	}

	if len(sameDay) > 0 {
		if err := tx.Where("participant_id = ? AND play_date = ?", p.ID, tt.PlayDate).
			Delete(&models.ParticipantTeeTime{}).Error; err != nil {
			return err
		}
	}
	err := tx.Omit("Participant").Create(&models.ParticipantTeeTime{
		ParticipantID: p.ID,
		TeeTimeID:     tt.ID,
		PlayDate:      tt.PlayDate,
	}).Error
	if IsDuplicateKey(err) {
		return fmt.Errorf("%w: %s already has a tee time on %s", ErrConflict, p.Name, tt.PlayDate)
	}
	return err
}

func (s *TeeTimeService) Assign(teeTimeID, participantID uint) error {
	return s.BulkAssign(teeTimeID, []uint{participantID})
}

// BulkAssign assigns every participant or none of them.
func (s *TeeTimeService) BulkAssign(teeTimeID uint, participantIDs []uint) error {
	if len(participantIDs) == 0 {
		return invalid("participant_ids", "required")
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var tt models.TeeTime
		if err := tx.First(&tt, teeTimeID).Error; err != nil {
			return notFound(err)
		}
		for _, pid := range participantIDs {
			var p models.Participant
			if err := tx.First(&p, pid).Error; err != nil {
				return notFound(err)
			}
			if err := assignTx(tx, &tt, &p); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *TeeTimeService) Unassign(teeTimeID, participantID uint) error {
	res := s.DB.Where("tee_time_id = ? AND participant_id = ?", teeTimeID, participantID).
		Delete(&models.ParticipantTeeTime{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// groupForPlay keeps roommates together first, then teammates, then everyone else alone.
func groupForPlay(ps []models.Participant) [][]models.Participant {
	var groups [][]models.Participant
	byRoom := map[uint]int{}
	byTeam := map[string]int{}
	var singles []models.Participant

	for _, p := range ps {
		if p.RoomID != nil {
			if idx, ok := byRoom[*p.RoomID]; ok {
				groups[idx] = append(groups[idx], p)
				continue
			}
			byRoom[*p.RoomID] = len(groups)
			groups = append(groups, []models.Participant{p})
		}
	}
	for _, p := range ps {
		if p.RoomID != nil {
			continue
		}
		team := strings.TrimSpace(p.TeamName)
		if team == "" {
			singles = append(singles, p)
			continue
		}
		if idx, ok := byTeam[team]; ok {
			groups[idx] = append(groups[idx], p)
			continue
		}
		byTeam[team] = len(groups)
		groups = append(groups, []models.Participant{p})
	}
	for _, p := range singles {
		groups = append(groups, []models.Participant{p})
	}
	return groups
}

// AutoAssign places everyone without a tee time on playDate. Each group goes to the first
// slot with room for all of it; groups that fit nowhere whole are split over slots in time order.
func (s *TeeTimeService) AutoAssign(tourID uint, playDate string) (*AutoAssignResult, error) {
	if !utils.IsValidDate(playDate) {
		return nil, invalid("play_date", "must be YYYY-MM-DD")
	}
	result := &AutoAssignResult{PlayDate: playDate, Unassigned: []models.Participant{}}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var slots []models.TeeTime
		if err := tx.Where("tour_id = ? AND play_date = ?", tourID, playDate).
			Order("tee_time ASC, course_name ASC").Find(&slots).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return invalid("play_date", "no tee times on this date")
		}

		remaining := make([]int, len(slots))
		for i, slot := range slots {
			var n int64
			if err := tx.Model(&models.ParticipantTeeTime{}).Where("tee_time_id = ?", slot.ID).Count(&n).Error; err != nil {
				return err
			}
			remaining[i] = slot.MaxPlayers - int(n)
		}

		var waiting []models.Participant
		if err := tx.Where("tour_id = ? AND status <> ?", tourID, models.ParticipantCancelled).
			Where("id NOT IN (?)", tx.Model(&models.ParticipantTeeTime{}).Select("participant_id").Where("play_date = ?", playDate)).
			Order("id ASC").Find(&waiting).Error; err != nil {
			return err
		}

		place := func(slot int, p models.Participant) error {
			remaining[slot]--
			result.Assigned++
			err := tx.Omit("Participant").Create(&models.ParticipantTeeTime{
				ParticipantID: p.ID,
				TeeTimeID:     slots[slot].ID,
				PlayDate:      playDate,
			}).Error
			if IsDuplicateKey(err) {
				return fmt.Errorf("%w: %s already has a tee time on %s", ErrConflict, p.Name, playDate)
			}
			return err
		}

		for _, group := range groupForPlay(waiting) {
			target := -1
			for i := range slots {
				if remaining[i] >= len(group) {
					target = i
					break
				}
			}
			if target >= 0 {
				for _, p := range group {
					if err := place(target, p); err != nil {
						return err
					}
				}
				continue
			}
			for _, p := range group {
				slot := -1
				for i := range slots {
					if remaining[i] > 0 {
						slot = i
						break
					}
				}
				if slot < 0 {
					result.Unassigned = append(result.Unassigned, p)
					continue
				}
				if err := place(slot, p); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Schedule groups the tour's tee times by day with player names.
func (s *TeeTimeService) Schedule(tourID uint) ([]TeeDay, error) {
	tts, err := s.List(tourID, "")
	if err != nil {
		return nil, err
	}
	days := []TeeDay{}
	for _, tt := range tts {
		if len(days) == 0 || days[len(days)-1].PlayDate != tt.PlayDate {
			days = append(days, TeeDay{PlayDate: tt.PlayDate})
		}
		slot := TeeSlot{TeeTime: tt, Players: make([]TeePlayer, 0, len(tt.Assignments))}
		sort.SliceStable(tt.Assignments, func(i, j int) bool { return tt.Assignments[i].ID < tt.Assignments[j].ID })
		for _, a := range tt.Assignments {
			slot.Players = append(slot.Players, TeePlayer{
				ParticipantID: a.ParticipantID,
				Name:          a.Participant.Name,
				Gender:        a.Participant.Gender,
				TeamName:      a.Participant.TeamName,
				RoomID:        a.Participant.RoomID,
			})
		}
		slot.Assignments = nil
		d := &days[len(days)-1]
		d.Slots = append(d.Slots, slot)
	}
	return days, nil
}

// RemoveDuplicates keeps the earliest assignment per participant and day and deletes the rest.
// Only rows written before the per-day unique index existed can trip it.
func (s *TeeTimeService) RemoveDuplicates(tourID uint) (int64, error) {
	var removed int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var rows []struct {
			ID            uint
			ParticipantID uint
			PlayDate      string
		}
		if err := tx.Table("singsing_participant_tee_times AS ptt").
			Select("ptt.id, ptt.participant_id, tt.play_date").
			Joins("JOIN singsing_tee_times tt ON tt.id = ptt.tee_time_id").
			Where("tt.tour_id = ?", tourID).
			Order("ptt.id ASC").
			Scan(&rows).Error; err != nil {
			return err
		}

		seen := map[string]bool{}
		var dupIDs []uint
		for _, r := range rows {
			key := fmt.Sprintf("%d|%s", r.ParticipantID, r.PlayDate)
			if seen[key] {
				dupIDs = append(dupIDs, r.ID)
				continue
			}
			seen[key] = true
		}
		if len(dupIDs) == 0 {
			return nil
		}
		res := tx.Where("id IN ?", dupIDs).Delete(&models.ParticipantTeeTime{})
		removed = res.RowsAffected
		return res.Error
	})
	return removed, err
}
