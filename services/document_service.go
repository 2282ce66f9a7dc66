package services

import (
	"fmt"

	"github.com/whalechillz/go-singsing-sub006/models"

	"gorm.io/gorm"
)

type DocumentService struct {
	DB *gorm.DB

	schedules *ScheduleService
	boarding  *BoardingService
	rooms     *RoomService
	teeTimes  *TeeTimeService
}

func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{
		DB:        db,
		schedules: NewScheduleService(db),
		boarding:  NewBoardingService(db),
		rooms:     NewRoomService(db),
		teeTimes:  NewTeeTimeService(db),
	}
}

type BoardingStop struct {
	BoardingPlaceID uint   `json:"boarding_place_id"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	ParkingInfo     string `json:"parking_info"`
	MapURL          string `json:"map_url"`
	DepartureTime   string `json:"departure_time"`
	Participants    int64  `json:"participants"`
}

type RoomingEntry struct {
	RoomNumber string   `json:"room_number"`
	RoomType   string   `json:"room_type"`
	Capacity   int      `json:"capacity"`
	Occupants  []string `json:"occupants"`
}

// Document is the JSON payload the frontend renders. Sections not part of the type are omitted.
type Document struct {
	Type      string                 `json:"type"`
	Tour      *models.Tour           `json:"tour,omitempty"`
	Company   *models.CompanySetting `json:"company,omitempty"`
	Schedules []models.Schedule      `json:"schedules,omitempty"`
	Boarding  []BoardingStop         `json:"boarding,omitempty"`
	Rooming   []RoomingEntry         `json:"rooming,omitempty"`
	TeeTimes  []TeeDay               `json:"tee_times,omitempty"`
	Quote     *models.Quote          `json:"quote,omitempty"`
}

var tourDocTypes = map[string]bool{
	models.DocPortal:    true,
	models.DocItinerary: true,
	models.DocBoarding:  true,
	models.DocRooming:   true,
	models.DocTeeTime:   true,
}

func IsDocumentType(t string) bool {
	return tourDocTypes[t] || t == models.DocQuote
}

func (s *DocumentService) company() *models.CompanySetting {
	var c models.CompanySetting
	if err := s.DB.Order("id ASC").First(&c).Error; err != nil {
		return nil
	}
	return &c
}

// ForTour builds one of the tour document types.
func (s *DocumentService) ForTour(tourID uint, docType string) (*Document, error) {
	if !tourDocTypes[docType] {
		return nil, invalid("type", "unknown document type "+docType)
	}
	var tour models.Tour
	if err := s.DB.Preload("Product").First(&tour, tourID).Error; err != nil {
		return nil, notFound(err)
	}
	doc := &Document{Type: docType, Tour: &tour, Company: s.company()}
	all := docType == models.DocPortal

	if all || docType == models.DocItinerary {
		sc, err := s.schedules.ListByTour(tourID)
		if err != nil {
			return nil, err
		}
		doc.Schedules = sc
	}
	if all || docType == models.DocBoarding {
		stops, err := s.boardingStops(tourID)
		if err != nil {
			return nil, err
		}
		doc.Boarding = stops
	}
	if all || docType == models.DocRooming {
		rooming, err := s.rooming(tourID)
		if err != nil {
			return nil, err
		}
		doc.Rooming = rooming
	}
	if all || docType == models.DocTeeTime {
		days, err := s.teeTimes.Schedule(tourID)
		if err != nil {
			return nil, err
		}
		doc.TeeTimes = days
	}
	return doc, nil
}

func (s *DocumentService) ForQuote(quoteID uint) (*Document, error) {
	var q models.Quote
	if err := s.DB.Preload("TourProduct").First(&q, quoteID).Error; err != nil {
		return nil, notFound(err)
	}
	return &Document{Type: models.DocQuote, Quote: &q, Company: s.company()}, nil
}

func (s *DocumentService) boardingStops(tourID uint) ([]BoardingStop, error) {
	times, err := s.boarding.ListTimes(tourID)
	if err != nil {
		return nil, err
	}
	var counts []struct {
		BoardingPlaceID uint
		N               int64
	}
	if err := s.DB.Model(&models.Participant{}).
		Select("boarding_place_id, COUNT(*) AS n").
		Where("tour_id = ? AND status <> ? AND boarding_place_id IS NOT NULL", tourID, models.ParticipantCancelled).
		Group("boarding_place_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byPlace := map[uint]int64{}
	for _, c := range counts {
		byPlace[c.BoardingPlaceID] = c.N
	}
	stops := make([]BoardingStop, 0, len(times))
	for _, bt := range times {
		stops = append(stops, BoardingStop{
			BoardingPlaceID: bt.BoardingPlaceID,
			Name:            bt.BoardingPlace.Name,
			Address:         bt.BoardingPlace.Address,
			ParkingInfo:     bt.BoardingPlace.ParkingInfo,
			MapURL:          bt.BoardingPlace.MapURL,
			DepartureTime:   bt.DepartureTime,
			Participants:    byPlace[bt.BoardingPlaceID],
		})
	}
	return stops, nil
}

func (s *DocumentService) rooming(tourID uint) ([]RoomingEntry, error) {
	rooms, err := s.rooms.ListRooms(tourID)
	if err != nil {
		return nil, err
	}
	out := make([]RoomingEntry, 0, len(rooms))
	for _, r := range rooms {
		e := RoomingEntry{RoomNumber: r.RoomNumber, RoomType: r.RoomType, Capacity: r.Capacity, Occupants: []string{}}
		for _, o := range r.Occupants {
			e.Occupants = append(e.Occupants, o.Name)
		}
		out = append(out, e)
	}
	return out, nil
}

// ForLink builds the document a public link points at.
func (s *DocumentService) ForLink(link *models.PublicLink) (*Document, error) {
	if link.DocumentType == models.DocQuote {
		if link.QuoteID == nil {
			return nil, fmt.Errorf("%w: link has no quote", ErrNotFound)
		}
		return s.ForQuote(*link.QuoteID)
	}
	if link.TourID == nil {
		return nil, fmt.Errorf("%w: link has no tour", ErrNotFound)
	}
	return s.ForTour(*link.TourID, link.DocumentType)
}
