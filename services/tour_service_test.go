package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whalechillz/go-singsing-sub006/models"
)

func TestTourValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourService(db)

	assert.ErrorIs(t, svc.Create(&models.Tour{Title: " ", StartDate: "2026-05-01", EndDate: "2026-05-02"}), ErrValidation)
	assert.ErrorIs(t, svc.Create(&models.Tour{Title: "x", StartDate: "2026/05/01", EndDate: "2026-05-02"}), ErrValidation)
	assert.ErrorIs(t, svc.Create(&models.Tour{Title: "x", StartDate: "2026-05-03", EndDate: "2026-05-02"}), ErrValidation)
	assert.ErrorIs(t, svc.Create(&models.Tour{Title: "x", StartDate: "2026-05-01", EndDate: "2026-05-02", Status: "maybe"}), ErrValidation)

	tour := &models.Tour{Title: "x", StartDate: "2026-05-01", EndDate: "2026-05-01"}
	require.NoError(t, svc.Create(tour))
	assert.Equal(t, models.TourStatusPlanned, tour.Status)
}

func TestTourListCountsParticipants(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourService(db)
	spring := seedTour(t, db, 0)
	autumn := &models.Tour{Title: "가을 부산", StartDate: "2026-10-01", EndDate: "2026-10-02"}
	require.NoError(t, svc.Create(autumn))

	seedParticipant(t, db, spring.ID, "A", "01000000001", "")
	b := seedParticipant(t, db, spring.ID, "B", "01000000002", "")
	_, err := NewParticipantService(db).Cancel(b.ID)
	require.NoError(t, err)

	tours, err := svc.List(TourFilter{})
	require.NoError(t, err)
	require.Len(t, tours, 2)
	assert.Equal(t, autumn.ID, tours[0].ID)
	assert.EqualValues(t, 1, tours[1].ParticipantCount)

	filtered, err := svc.List(TourFilter{Query: "부산"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	inRange, err := svc.List(TourFilter{From: "2026-04-01", To: "2026-06-01"})
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, spring.ID, inRange[0].ID)
}

func TestTourUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourService(db)
	tour := seedTour(t, db, 0)

	got, err := svc.Get(tour.ID)
	require.NoError(t, err)
	got.Title = "제주 3박4일"
	got.EndDate = "2026-05-04"
	require.NoError(t, svc.Update(got))

	got, err = svc.Get(tour.ID)
	require.NoError(t, err)
	assert.Equal(t, "제주 3박4일", got.Title)

	ghost := *got
	ghost.ID = 999
	assert.ErrorIs(t, svc.Update(&ghost), ErrNotFound)

	p := seedParticipant(t, db, tour.ID, "A", "01000000001", "")
	assert.ErrorIs(t, svc.Delete(tour.ID), ErrTourHasParticipants)

	_, err = NewParticipantService(db).Cancel(p.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(tour.ID))
	_, err = svc.Get(tour.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleAndBoarding(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	sched := NewScheduleService(db)

	assert.ErrorIs(t, sched.Save(&models.Schedule{TourID: tour.ID, DayNumber: 0}), ErrValidation)
	assert.ErrorIs(t, sched.Save(&models.Schedule{TourID: tour.ID, DayNumber: 1, Date: "2026-06-01"}), ErrValidation)

	boarding := NewBoardingService(db)
	a := &models.BoardingPlace{Name: "양재역"}
	b := &models.BoardingPlace{Name: "수원역"}
	require.NoError(t, boarding.SavePlace(a))
	require.NoError(t, boarding.SavePlace(b))
	require.NoError(t, boarding.SaveTime(&models.TourBoardingTime{TourID: tour.ID, BoardingPlaceID: b.ID, DepartureTime: "07:10"}))
	require.NoError(t, boarding.SaveTime(&models.TourBoardingTime{TourID: tour.ID, BoardingPlaceID: a.ID, DepartureTime: "06:30"}))
	assert.ErrorIs(t, boarding.SaveTime(&models.TourBoardingTime{TourID: tour.ID, BoardingPlaceID: a.ID, DepartureTime: "06:40"}), ErrConflict)
	assert.ErrorIs(t, boarding.SaveTime(&models.TourBoardingTime{TourID: tour.ID, BoardingPlaceID: a.ID, DepartureTime: "25:00"}), ErrValidation)

	times, err := boarding.ListTimes(tour.ID)
	require.NoError(t, err)
	require.Len(t, times, 2)
	assert.Equal(t, "양재역", times[0].BoardingPlace.Name)

	p := &models.Participant{TourID: tour.ID, Name: "A", Phone: "01000000001", BoardingPlaceID: &a.ID}
	require.NoError(t, NewParticipantService(db).Create(p))
	require.NoError(t, boarding.DeletePlace(a.ID))

	var got models.Participant
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Nil(t, got.BoardingPlaceID)
	times, err = boarding.ListTimes(tour.ID)
	require.NoError(t, err)
	assert.Len(t, times, 1)
}
