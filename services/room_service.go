package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"

	"gorm.io/gorm"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

type BulkRoomRequest struct {
	RoomType string `json:"room_type"`
	Count    int    `json:"count"`
	Capacity int    `json:"capacity"`
	Prefix   string `json:"prefix"`
}

type RoomOverview struct {
	Rooms       []models.Room        `json:"rooms"`
	Unassigned  []models.Participant `json:"unassigned"`
	TotalRooms  int                  `json:"total_rooms"`
	TotalBeds   int                  `json:"total_beds"`
	Assigned    int                  `json:"assigned"`
	UnassignedN int                  `json:"unassigned_count"`
	VacantBeds  int                  `json:"vacant_beds"`
}

func (s *RoomService) ListRoomTypes() ([]models.RoomType, error) {
	var types []models.RoomType
	err := s.DB.Order("max_guests ASC, id ASC").Find(&types).Error
	return types, err
}

func (s *RoomService) CreateRoomType(rt *models.RoomType) error {
	rt.TypeName = strings.TrimSpace(rt.TypeName)
	if rt.TypeName == "" {
		return invalid("type_name", "required")
	}
	if rt.MaxGuests <= 0 {
		return invalid("max_guests", "must be positive")
	}
	if err := s.DB.Create(rt).Error; err != nil {
		if IsDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *RoomService) DeleteRoomType(id uint) error {
	res := s.DB.Delete(&models.RoomType{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRooms returns the tour's rooms with their non-cancelled occupants.
func (s *RoomService) ListRooms(tourID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.
		Preload("Occupants", func(db *gorm.DB) *gorm.DB {
			return db.Where("status <> ?", models.ParticipantCancelled).Order("is_leader DESC, id ASC")
		}).
		Where("tour_id = ?", tourID).
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	sortRooms(rooms)
	return rooms, nil
}

// sortRooms orders by the numeric part of the room number so 2 comes before 10.
func sortRooms(rooms []models.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		pi, ni := splitRoomNumber(rooms[i].RoomNumber)
		pj, nj := splitRoomNumber(rooms[j].RoomNumber)
		if pi != pj {
			return pi < pj
		}
		if ni != nj {
			return ni < nj
		}
		return rooms[i].RoomNumber < rooms[j].RoomNumber
	})
}

var trailingNumber = regexp.MustCompile(`^(.*?)(\d+)$`)

func splitRoomNumber(s string) (string, int) {
	m := trailingNumber.FindStringSubmatch(s)
	if m == nil {
		return s, -1
	}
	n, _ := strconv.Atoi(m[2])
	return m[1], n
}

func (s *RoomService) GetRoom(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

func (s *RoomService) SaveRoom(room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return invalid("room_number", "required")
	}
	if room.Capacity <= 0 {
		return invalid("capacity", "must be positive")
	}
	if _, err := loadTour(s.DB, room.TourID); err != nil {
		return err
	}
	if room.ID != 0 {
		current, err := s.GetRoom(room.ID)
		if err != nil {
			return err
		}
		room.TourID = current.TourID
		var occupied int64
		if err := s.DB.Model(&models.Participant{}).
			Where("room_id = ? AND status <> ?", room.ID, models.ParticipantCancelled).
			Count(&occupied).Error; err != nil {
			return err
		}
		if int(occupied) > room.Capacity {
			return invalid("capacity", fmt.Sprintf("room already holds %d guests", occupied))
		}
	}
	if err := s.DB.Omit("Occupants").Save(room).Error; err != nil {
		if IsDuplicateKey(err) {
			return fmt.Errorf("%w: room number %s already exists", ErrConflict, room.RoomNumber)
		}
		return err
	}
	return nil
}

// DeleteRoom unassigns the occupants before removing the room.
func (s *RoomService) DeleteRoom(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Participant{}).Where("room_id = ?", id).Update("room_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Room{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// BulkCreateRooms creates Count rooms numbered after the highest existing number for Prefix.
func (s *RoomService) BulkCreateRooms(tourID uint, req BulkRoomRequest) ([]models.Room, error) {
	if req.Count <= 0 || req.Count > 200 {
		return nil, invalid("count", "must be between 1 and 200")
	}
	req.RoomType = strings.TrimSpace(req.RoomType)
	if req.Capacity <= 0 && req.RoomType != "" {
		var rt models.RoomType
		if err := s.DB.Where("type_name = ?", req.RoomType).First(&rt).Error; err == nil {
			req.Capacity = rt.MaxGuests
		}
	}
	if req.Capacity <= 0 {
		return nil, invalid("capacity", "must be positive")
	}

	var created []models.Room
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := loadTour(tx, tourID); err != nil {
			return err
		}
		var existing []string
		if err := tx.Model(&models.Room{}).Where("tour_id = ?", tourID).Pluck("room_number", &existing).Error; err != nil {
			return err
		}
		next := 1
		for _, num := range existing {
			prefix, n := splitRoomNumber(num)
			if prefix == req.Prefix && n >= next {
				next = n + 1
			}
		}
		created = make([]models.Room, 0, req.Count)
		for i := 0; i < req.Count; i++ {
			created = append(created, models.Room{
				TourID:     tourID,
				RoomType:   req.RoomType,
				RoomNumber: fmt.Sprintf("%s%d", req.Prefix, next+i),
				Capacity:   req.Capacity,
			})
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Assign puts the participant in the room. Occupancy is re-counted inside the transaction.
func (s *RoomService) Assign(participantID, roomID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Participant
		if err := tx.First(&p, participantID).Error; err != nil {
			return notFound(err)
		}
		var room models.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			return notFound(err)
		}
		if room.TourID != p.TourID {
			return ErrParticipantNotInTour
		}
		if p.Status == models.ParticipantCancelled {
			return ErrParticipantCancelled
		}
		if p.RoomID != nil && *p.RoomID == roomID {
			return nil
		}
		var occupied int64
		if err := tx.Model(&models.Participant{}).
			Where("room_id = ? AND status <> ?", roomID, models.ParticipantCancelled).
			Count(&occupied).Error; err != nil {
			return err
		}
		if int(occupied) >= room.Capacity {
			return fmt.Errorf("%w: %s holds %d", ErrRoomFull, room.RoomNumber, room.Capacity)
		}
		return tx.Model(&models.Participant{}).Where("id = ?", participantID).Update("room_id", roomID).Error
	})
}

func (s *RoomService) Unassign(participantID uint) error {
	res := s.DB.Model(&models.Participant{}).Where("id = ?", participantID).Update("room_id", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RoomService) Overview(tourID uint) (*RoomOverview, error) {
	rooms, err := s.ListRooms(tourID)
	if err != nil {
		return nil, err
	}
	var unassigned []models.Participant
	if err := s.DB.Where("tour_id = ? AND room_id IS NULL AND status <> ?", tourID, models.ParticipantCancelled).
		Order("team_name ASC, id ASC").Find(&unassigned).Error; err != nil {
		return nil, err
	}

	ov := &RoomOverview{Rooms: rooms, Unassigned: unassigned, TotalRooms: len(rooms), UnassignedN: len(unassigned)}
	for _, r := range rooms {
		ov.TotalBeds += r.Capacity
		ov.Assigned += len(r.Occupants)
	}
	ov.VacantBeds = ov.TotalBeds - ov.Assigned
	if ov.Unassigned == nil {
		ov.Unassigned = []models.Participant{}
	}
	return ov, nil
}
