package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/whalechillz/go-singsing-sub006/models"
)

// seedFullTour builds a tour with an itinerary, a boarding stop, a room and a tee time.
func seedFullTour(t *testing.T, db *gorm.DB) *models.Tour {
	t.Helper()
	tour := seedTour(t, db, 0)
	require.NoError(t, NewScheduleService(db).Save(&models.Schedule{TourID: tour.ID, DayNumber: 2, Date: "2026-05-02", Title: "라운딩"}))
	require.NoError(t, NewScheduleService(db).Save(&models.Schedule{TourID: tour.ID, DayNumber: 1, Date: "2026-05-01", Title: "출발"}))

	boarding := NewBoardingService(db)
	place := &models.BoardingPlace{Name: "양재역"}
	require.NoError(t, boarding.SavePlace(place))
	require.NoError(t, boarding.SaveTime(&models.TourBoardingTime{TourID: tour.ID, BoardingPlaceID: place.ID, DepartureTime: "06:30"}))

	p := &models.Participant{TourID: tour.ID, Name: "김철수", Phone: "01011112222", BoardingPlaceID: &place.ID}
	require.NoError(t, NewParticipantService(db).Create(p))

	rooms, err := NewRoomService(db).BulkCreateRooms(tour.ID, BulkRoomRequest{Count: 1, Capacity: 2, Prefix: "R"})
	require.NoError(t, err)
	require.NoError(t, NewRoomService(db).Assign(p.ID, rooms[0].ID))

	tees := NewTeeTimeService(db)
	slots, err := tees.BulkCreate(tour.ID, BulkTeeTimeRequest{PlayDate: "2026-05-02", CourseName: "East", Times: []string{"07:00"}})
	require.NoError(t, err)
	require.NoError(t, tees.Assign(slots[0].ID, p.ID))
	return tour
}

func newPortal(db *gorm.DB) *PortalService {
	return NewPortalService(db, NewDocumentService(db), NewDocumentCache("", time.Minute), "https://tour.example.com/")
}

func TestDocumentsForTour(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.CompanySetting{Name: "싱싱골프투어"}).Error)
	tour := seedFullTour(t, db)
	docs := NewDocumentService(db)

	itin, err := docs.ForTour(tour.ID, models.DocItinerary)
	require.NoError(t, err)
	require.Len(t, itin.Schedules, 2)
	assert.Equal(t, 1, itin.Schedules[0].DayNumber)
	assert.Equal(t, "싱싱골프투어", itin.Company.Name)
	assert.Nil(t, itin.Rooming)

	board, err := docs.ForTour(tour.ID, models.DocBoarding)
	require.NoError(t, err)
	require.Len(t, board.Boarding, 1)
	assert.Equal(t, "06:30", board.Boarding[0].DepartureTime)
	assert.EqualValues(t, 1, board.Boarding[0].Participants)

	portal, err := docs.ForTour(tour.ID, models.DocPortal)
	require.NoError(t, err)
	require.Len(t, portal.Rooming, 1)
	assert.Equal(t, "R1", portal.Rooming[0].RoomNumber)
	assert.Equal(t, []string{"김철수"}, portal.Rooming[0].Occupants)
	require.Len(t, portal.TeeTimes, 1)
	assert.Equal(t, "김철수", portal.TeeTimes[0].Slots[0].Players[0].Name)

	_, err = docs.ForTour(tour.ID, "poster")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = docs.ForTour(999, models.DocPortal)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPortalResolve(t *testing.T) {
	db := newTestDB(t)
	tour := seedFullTour(t, db)
	svc := newPortal(db)
	ctx := context.Background()

	link := &models.PublicLink{TourID: &tour.ID, DocumentType: models.DocRooming}
	require.NoError(t, svc.CreateLink(link))
	assert.Len(t, link.Token, 36)
	assert.Equal(t, "https://tour.example.com/portal/"+link.Token, link.URL)

	view, err := svc.Resolve(ctx, link.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Link.ViewCount)
	require.Len(t, view.Document.Rooming, 1)

	view, err = svc.Resolve(ctx, link.Token)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Link.ViewCount)

	_, err = svc.Resolve(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	off := false
	_, err = svc.UpdateLink(ctx, link.ID, LinkUpdate{IsActive: &off})
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, link.Token)
	assert.ErrorIs(t, err, ErrLinkInactive)

	links, err := svc.ListLinks(tour.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.NotEmpty(t, links[0].URL)

	require.NoError(t, svc.DeleteLink(ctx, link.ID))
	assert.ErrorIs(t, svc.DeleteLink(ctx, link.ID), ErrNotFound)
}

func TestPortalExpiry(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := newPortal(db)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	assert.ErrorIs(t, svc.CreateLink(&models.PublicLink{TourID: &tour.ID, ExpiresAt: &past}), ErrValidation)

	link := &models.PublicLink{TourID: &tour.ID}
	require.NoError(t, svc.CreateLink(link))
	assert.Equal(t, models.DocPortal, link.DocumentType)

	require.NoError(t, db.Model(link).Update("expires_at", past).Error)
	_, err := svc.Resolve(ctx, link.Token)
	assert.ErrorIs(t, err, ErrLinkExpired)

	_, err = svc.UpdateLink(ctx, link.ID, LinkUpdate{ClearExpiry: true})
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, link.Token)
	assert.NoError(t, err)
}

func TestPortalQuoteLink(t *testing.T) {
	db := newTestDB(t)
	svc := newPortal(db)
	q := &models.Quote{Title: "제주 견적", Items: []models.QuoteItem{{Name: "그린피", UnitPrice: 200000, Quantity: 4}}}
	require.NoError(t, NewQuoteService(db, LogMailer{}).Create(q))

	assert.ErrorIs(t, svc.CreateLink(&models.PublicLink{DocumentType: models.DocQuote}), ErrValidation)

	link := &models.PublicLink{DocumentType: models.DocQuote, QuoteID: &q.ID}
	require.NoError(t, svc.CreateLink(link))
	view, err := svc.Resolve(context.Background(), link.Token)
	require.NoError(t, err)
	require.NotNil(t, view.Document.Quote)
	assert.EqualValues(t, 800000, view.Document.Quote.Total)
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c := NewDocumentCache("", time.Minute)
	assert.False(t, c.Enabled())
	c.Set(context.Background(), "t", &Document{Type: models.DocPortal})
	_, ok := c.Get(context.Background(), "t")
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestLinkTokensByTourAndQuote(t *testing.T) {
	db := newTestDB(t)
	svc := newPortal(db)
	tour := seedTour(t, db, 0)
	q := &models.Quote{Title: "제주 견적", Items: []models.QuoteItem{{Name: "그린피", UnitPrice: 200000, Quantity: 4}}}
	require.NoError(t, NewQuoteService(db, LogMailer{}).Create(q))

	tourLink := &models.PublicLink{TourID: &tour.ID, DocumentType: models.DocPortal}
	require.NoError(t, svc.CreateLink(tourLink))
	quoteLink := &models.PublicLink{DocumentType: models.DocQuote, QuoteID: &q.ID}
	require.NoError(t, svc.CreateLink(quoteLink))

	tokens, err := svc.linkTokens("quote_id", q.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{quoteLink.Token}, tokens)

	tokens, err = svc.linkTokens("tour_id", tour.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{tourLink.Token}, tokens)

	// no cache configured: both are no-ops
	svc.InvalidateQuote(context.Background(), q.ID)
	svc.InvalidateTour(context.Background(), tour.ID)
}
