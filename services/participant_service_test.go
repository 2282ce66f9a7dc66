package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whalechillz/go-singsing-sub006/models"
)

func TestParticipantCreateNormalizesPhone(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)

	p := seedParticipant(t, db, tour.ID, " 김철수 ", "010-1234-5678", "A")
	assert.Equal(t, "김철수", p.Name)
	assert.Equal(t, "01012345678", p.Phone)
	assert.Equal(t, models.ParticipantConfirmed, p.Status)
}

func TestParticipantDuplicatePhone(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewParticipantService(db)
	seedParticipant(t, db, tour.ID, "김철수", "01012345678", "")

	err := svc.Create(&models.Participant{TourID: tour.ID, Name: "김영희", Phone: "+82 10-1234-5678"})
	assert.ErrorIs(t, err, ErrDuplicatePhone)

	other := seedTour(t, db, 0)
	assert.NoError(t, svc.Create(&models.Participant{TourID: other.ID, Name: "김철수", Phone: "01012345678"}))
}

func TestParticipantValidation(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewParticipantService(db)

	err := svc.Create(&models.Participant{TourID: tour.ID, Name: "", Phone: "01012345678"})
	assert.ErrorIs(t, err, ErrValidation)
	err = svc.Create(&models.Participant{TourID: tour.ID, Name: "x", Phone: "12345"})
	assert.ErrorIs(t, err, ErrValidation)
	err = svc.Create(&models.Participant{TourID: 999, Name: "x", Phone: "01012345678"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParticipantCapacity(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 2)
	svc := NewParticipantService(db)
	a := seedParticipant(t, db, tour.ID, "A", "01000000001", "")
	seedParticipant(t, db, tour.ID, "B", "01000000002", "")

	err := svc.Create(&models.Participant{TourID: tour.ID, Name: "C", Phone: "01000000003"})
	assert.ErrorIs(t, err, ErrTourFull)

	_, err = svc.Cancel(a.ID)
	require.NoError(t, err)
	c := &models.Participant{TourID: tour.ID, Name: "C", Phone: "01000000003"}
	require.NoError(t, svc.Create(c))

	// reactivating A would exceed the limit again
	cancelled, err := svc.Get(a.ID)
	require.NoError(t, err)
	cancelled.Status = models.ParticipantConfirmed
	cancelled.Room, cancelled.BoardingPlace = nil, nil
	assert.ErrorIs(t, svc.Update(cancelled), ErrTourFull)
}

func TestParticipantCancelReleasesAssignments(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	p := seedParticipant(t, db, tour.ID, "A", "01000000001", "")

	rooms := NewRoomService(db)
	created, err := rooms.BulkCreateRooms(tour.ID, BulkRoomRequest{Count: 1, Capacity: 2})
	require.NoError(t, err)
	require.NoError(t, rooms.Assign(p.ID, created[0].ID))

	tees := NewTeeTimeService(db)
	slots, err := tees.BulkCreate(tour.ID, BulkTeeTimeRequest{PlayDate: "2026-05-01", CourseName: "East", Times: []string{"07:00"}})
	require.NoError(t, err)
	require.NoError(t, tees.Assign(slots[0].ID, p.ID))

	got, err := NewParticipantService(db).Cancel(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantCancelled, got.Status)
	assert.Nil(t, got.RoomID)

	var n int64
	db.Model(&models.ParticipantTeeTime{}).Where("participant_id = ?", p.ID).Count(&n)
	assert.Zero(t, n)
}

func TestParticipantBulkImport(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 3)
	svc := NewParticipantService(db)

	res, err := svc.BulkImport(tour.ID, []models.Participant{
		{Name: "A", Phone: "010-0000-0001"},
		{Name: "B", Phone: "bad"},
		{Name: "C", Phone: "01000000001"},
		{Name: "D", Phone: "01000000004"},
		{Name: "E", Phone: "01000000005"},
		{Name: "F", Phone: "01000000006"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Equal(t, 3, res.Errors[1].Row)
	assert.Contains(t, res.Errors[1].Message, ErrDuplicatePhone.Error())
	assert.Equal(t, 6, res.Errors[2].Row)
	assert.Contains(t, res.Errors[2].Message, ErrTourFull.Error())
}

func TestParticipantExportCSV(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	seedParticipant(t, db, tour.ID, "김철수", "01012345678", "A")

	var buf bytes.Buffer
	require.NoError(t, NewParticipantService(db).ExportCSV(tour.ID, &buf))
	out := strings.TrimPrefix(buf.String(), "\xEF\xBB\xBF")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "이름,전화번호"))
	assert.Contains(t, lines[1], "김철수")
	assert.Contains(t, lines[1], "010-1234-5678")
}

func TestParseParticipantCSV(t *testing.T) {
	in := "\xEF\xBB\xBF이름,전화번호,팀,비고\n김철수,010-1111-2222,A,x\n,,,\n이영희,01033334444,B,\n"
	rows, err := ParseParticipantCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "김철수", rows[0].Name)
	assert.Equal(t, "010-1111-2222", rows[0].Phone)
	assert.Equal(t, "A", rows[0].TeamName)
	assert.Equal(t, "", rows[0].Note)
	assert.Equal(t, "이영희", rows[1].Name)

	_, err = ParseParticipantCSV(strings.NewReader("name,team\nkim,A\n"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseParticipantCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParticipantXLSXRoundTrip(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	seedParticipant(t, db, tour.ID, "김철수", "01012345678", "A")
	svc := NewParticipantService(db)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportXLSX(tour.ID, &buf))

	rows, err := ParseParticipantXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "김철수", rows[0].Name)
	assert.Equal(t, "010-1234-5678", rows[0].Phone)
	assert.Equal(t, "A", rows[0].TeamName)

	_, err = ParseParticipantXLSX(strings.NewReader("name,phone\n"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParticipantExportUnknownTour(t *testing.T) {
	db := newTestDB(t)
	svc := NewParticipantService(db)
	var buf bytes.Buffer
	assert.ErrorIs(t, svc.ExportCSV(9999, &buf), ErrNotFound)
	assert.ErrorIs(t, svc.ExportXLSX(9999, &buf), ErrNotFound)
	assert.Zero(t, buf.Len())
}
