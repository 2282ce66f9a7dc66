package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whalechillz/go-singsing-sub006/config"
	"github.com/whalechillz/go-singsing-sub006/models"
)

func seedSlots(t *testing.T, svc *TeeTimeService, tourID uint, date string, maxPlayers int, times ...string) []models.TeeTime {
	t.Helper()
	slots, err := svc.BulkCreate(tourID, BulkTeeTimeRequest{PlayDate: date, CourseName: "East", Times: times, MaxPlayers: maxPlayers})
	require.NoError(t, err)
	return slots
}

func TestTeeTimeValidation(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)

	err := svc.Save(&models.TeeTime{TourID: tour.ID, PlayDate: "2026-06-01", TeeTime: "07:00"})
	assert.ErrorIs(t, err, ErrValidation)
	err = svc.Save(&models.TeeTime{TourID: tour.ID, PlayDate: "2026-05-01", TeeTime: "7am"})
	assert.ErrorIs(t, err, ErrValidation)
	err = svc.Save(&models.TeeTime{TourID: tour.ID, PlayDate: "2026-05-01", TeeTime: "07:00", MaxPlayers: 6})
	assert.ErrorIs(t, err, ErrValidation)

	tt := &models.TeeTime{TourID: tour.ID, PlayDate: "2026-05-01", TeeTime: "07:00", CourseName: "East"}
	require.NoError(t, svc.Save(tt))
	assert.Equal(t, models.DefaultMaxPlayers, tt.MaxPlayers)
	assert.Equal(t, "Pine Hills", tt.GolfCourse)

	dup := &models.TeeTime{TourID: tour.ID, PlayDate: "2026-05-01", TeeTime: "07:00", CourseName: "East"}
	assert.ErrorIs(t, svc.Save(dup), ErrConflict)
}

func TestTeeTimeAssignCapacity(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	slots := seedSlots(t, svc, tour.ID, "2026-05-01", 2, "07:00")

	a := seedParticipant(t, db, tour.ID, "A", "01000000001", "")
	b := seedParticipant(t, db, tour.ID, "B", "01000000002", "")
	c := seedParticipant(t, db, tour.ID, "C", "01000000003", "")

	require.NoError(t, svc.BulkAssign(slots[0].ID, []uint{a.ID, b.ID}))
	assert.ErrorIs(t, svc.Assign(slots[0].ID, c.ID), ErrTeeTimeFull)
	require.NoError(t, svc.Assign(slots[0].ID, a.ID), "already there")

	got, err := svc.Get(slots[0].ID)
	require.NoError(t, err)
	assert.Len(t, got.Assignments, 2)
}

func TestBulkAssignIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	slots := seedSlots(t, svc, tour.ID, "2026-05-01", 2, "07:00")

	a := seedParticipant(t, db, tour.ID, "A", "01000000001", "")
	b := seedParticipant(t, db, tour.ID, "B", "01000000002", "")
	c := seedParticipant(t, db, tour.ID, "C", "01000000003", "")

	assert.ErrorIs(t, svc.BulkAssign(slots[0].ID, []uint{a.ID, b.ID, c.ID}), ErrTeeTimeFull)
	var n int64
	db.Model(&models.ParticipantTeeTime{}).Count(&n)
	assert.Zero(t, n)
}

func TestTeeTimeAssignMovesWithinDay(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	day1 := seedSlots(t, svc, tour.ID, "2026-05-01", 4, "07:00", "07:08")
	day2 := seedSlots(t, svc, tour.ID, "2026-05-02", 4, "08:00")
	p := seedParticipant(t, db, tour.ID, "A", "01000000001", "")

	require.NoError(t, svc.Assign(day1[0].ID, p.ID))
	require.NoError(t, svc.Assign(day2[0].ID, p.ID))
	require.NoError(t, svc.Assign(day1[1].ID, p.ID))

	var rows []models.ParticipantTeeTime
	require.NoError(t, db.Where("participant_id = ?", p.ID).Order("play_date").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, day1[1].ID, rows[0].TeeTimeID)
	assert.Equal(t, day2[0].ID, rows[1].TeeTimeID)
}

func TestTeeTimeAssignRejects(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	other := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	slots := seedSlots(t, svc, tour.ID, "2026-05-01", 4, "07:00")

	stranger := seedParticipant(t, db, other.ID, "X", "01000000009", "")
	assert.ErrorIs(t, svc.Assign(slots[0].ID, stranger.ID), ErrParticipantNotInTour)

	p := seedParticipant(t, db, tour.ID, "A", "01000000001", "")
	_, err := NewParticipantService(db).Cancel(p.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Assign(slots[0].ID, p.ID), ErrParticipantCancelled)
}

func TestTeeTimeSaveKeepsPlayers(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	slots := seedSlots(t, svc, tour.ID, "2026-05-01", 4, "07:00")
	a := seedParticipant(t, db, tour.ID, "A", "01000000001", "")
	b := seedParticipant(t, db, tour.ID, "B", "01000000002", "")
	require.NoError(t, svc.BulkAssign(slots[0].ID, []uint{a.ID, b.ID}))

	tt := slots[0]
	tt.MaxPlayers = 1
	assert.ErrorIs(t, svc.Save(&tt), ErrValidation)

	tt = slots[0]
	tt.PlayDate = "2026-05-02"
	assert.ErrorIs(t, svc.Save(&tt), ErrValidation)
}

func TestTeeTimeSaveDefaultMaxPlayersRespectsPlayers(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	slots := seedSlots(t, svc, tour.ID, "2026-05-01", 5, "07:00")
	var ids []uint
	for i, phone := range []string{"01000000001", "01000000002", "01000000003", "01000000004", "01000000005"} {
		ids = append(ids, seedParticipant(t, db, tour.ID, string(rune('A'+i)), phone, "").ID)
	}
	require.NoError(t, svc.BulkAssign(slots[0].ID, ids))

	tt := slots[0]
	tt.MaxPlayers = 0
	assert.ErrorIs(t, svc.Save(&tt), ErrValidation)

	got, err := svc.Get(slots[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.MaxPlayers)
	assert.Len(t, got.Assignments, 5)
}

func TestParticipantHoldsOneTeeTimePerDay(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	slots := seedSlots(t, svc, tour.ID, "2026-05-01", 4, "07:00", "07:08")
	p := seedParticipant(t, db, tour.ID, "A", "01000000001", "")

	require.NoError(t, db.Omit("Participant").Create(&models.ParticipantTeeTime{ParticipantID: p.ID, TeeTimeID: slots[0].ID, PlayDate: "2026-05-01"}).Error)
	err := db.Omit("Participant").Create(&models.ParticipantTeeTime{ParticipantID: p.ID, TeeTimeID: slots[1].ID, PlayDate: "2026-05-01"}).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}

func TestMigrateDropsDuplicateTeeAssignments(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	slots := seedSlots(t, svc, tour.ID, "2026-05-01", 4, "07:00", "07:08")
	p := seedParticipant(t, db, tour.ID, "A", "01000000001", "")

	require.NoError(t, db.Migrator().DropIndex(&models.ParticipantTeeTime{}, "idx_ptt_participant_day"))
	for _, s := range slots {
		require.NoError(t, db.Omit("Participant").Create(&models.ParticipantTeeTime{ParticipantID: p.ID, TeeTimeID: s.ID, PlayDate: s.PlayDate}).Error)
	}

	require.NoError(t, config.Migrate(db))
	var rows []models.ParticipantTeeTime
	require.NoError(t, db.Where("participant_id = ?", p.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, slots[0].ID, rows[0].TeeTimeID)
	assert.True(t, db.Migrator().HasIndex(&models.ParticipantTeeTime{}, "idx_ptt_participant_day"))
}

func TestAutoAssignKeepsRoommatesTogether(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	slots := seedSlots(t, svc, tour.ID, "2026-05-01", 4, "07:00", "07:08")

	rooms := NewRoomService(db)
	created, err := rooms.BulkCreateRooms(tour.ID, BulkRoomRequest{Count: 1, Capacity: 3})
	require.NoError(t, err)

	single := seedParticipant(t, db, tour.ID, "S", "01000000001", "")
	var roommates []uint
	for i, phone := range []string{"01000000002", "01000000003", "01000000004"} {
		p := seedParticipant(t, db, tour.ID, string(rune('A'+i)), phone, "")
		require.NoError(t, rooms.Assign(p.ID, created[0].ID))
		roommates = append(roommates, p.ID)
	}
	// first slot already has two players, so the room of three must go to the second slot
	early := seedParticipant(t, db, tour.ID, "E1", "01000000005", "")
	early2 := seedParticipant(t, db, tour.ID, "E2", "01000000006", "")
	require.NoError(t, svc.BulkAssign(slots[0].ID, []uint{early.ID, early2.ID}))

	res, err := svc.AutoAssign(tour.ID, "2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Assigned)
	assert.Empty(t, res.Unassigned)

	var inSecond []uint
	require.NoError(t, db.Model(&models.ParticipantTeeTime{}).Where("tee_time_id = ?", slots[1].ID).Pluck("participant_id", &inSecond).Error)
	assert.ElementsMatch(t, roommates, inSecond)

	var singleSlot models.ParticipantTeeTime
	require.NoError(t, db.Where("participant_id = ?", single.ID).First(&singleSlot).Error)
	assert.Equal(t, slots[0].ID, singleSlot.TeeTimeID)
}

func TestAutoAssignSplitsTeamThatFitsNowhere(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	slots := seedSlots(t, svc, tour.ID, "2026-05-01", 2, "07:00", "07:08")
	var team []uint
	for i, phone := range []string{"01000000001", "01000000002", "01000000003"} {
		team = append(team, seedParticipant(t, db, tour.ID, string(rune('A'+i)), phone, "Eagles").ID)
	}

	res, err := svc.AutoAssign(tour.ID, "2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Assigned)
	assert.Empty(t, res.Unassigned)

	var first, second []uint
	require.NoError(t, db.Model(&models.ParticipantTeeTime{}).Where("tee_time_id = ?", slots[0].ID).Pluck("participant_id", &first).Error)
	require.NoError(t, db.Model(&models.ParticipantTeeTime{}).Where("tee_time_id = ?", slots[1].ID).Pluck("participant_id", &second).Error)
	assert.ElementsMatch(t, team[:2], first)
	assert.ElementsMatch(t, team[2:], second)
}

func TestAutoAssignPlacesTeamsBeforeSingles(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	slots := seedSlots(t, svc, tour.ID, "2026-05-01", 4, "07:00", "07:08")

	early := seedParticipant(t, db, tour.ID, "E1", "01000000001", "")
	early2 := seedParticipant(t, db, tour.ID, "E2", "01000000002", "")
	require.NoError(t, svc.BulkAssign(slots[0].ID, []uint{early.ID, early2.ID}))

	single := seedParticipant(t, db, tour.ID, "S", "01000000003", "")
	t1 := seedParticipant(t, db, tour.ID, "T1", "01000000004", "Eagles")
	t2 := seedParticipant(t, db, tour.ID, "T2", "01000000005", "Eagles")

	res, err := svc.AutoAssign(tour.ID, "2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Assigned)

	var first []uint
	require.NoError(t, db.Model(&models.ParticipantTeeTime{}).Where("tee_time_id = ?", slots[0].ID).Pluck("participant_id", &first).Error)
	assert.ElementsMatch(t, []uint{early.ID, early2.ID, t1.ID, t2.ID}, first)

	var singleSlot models.ParticipantTeeTime
	require.NoError(t, db.Where("participant_id = ?", single.ID).First(&singleSlot).Error)
	assert.Equal(t, slots[1].ID, singleSlot.TeeTimeID)
}

func TestAutoAssignReportsOverflow(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	seedSlots(t, svc, tour.ID, "2026-05-01", 2, "07:00")
	for i, phone := range []string{"01000000001", "01000000002", "01000000003"} {
		seedParticipant(t, db, tour.ID, string(rune('A'+i)), phone, "")
	}

	res, err := svc.AutoAssign(tour.ID, "2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Assigned)
	require.Len(t, res.Unassigned, 1)
	assert.Equal(t, "C", res.Unassigned[0].Name)

	_, err = svc.AutoAssign(tour.ID, "2026-05-03")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRemoveDuplicates(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	slots := seedSlots(t, svc, tour.ID, "2026-05-01", 4, "07:00", "07:08", "07:16")
	p := seedParticipant(t, db, tour.ID, "A", "01000000001", "")

	// rows from a database that predates the per-day unique index
	require.NoError(t, db.Migrator().DropIndex(&models.ParticipantTeeTime{}, "idx_ptt_participant_day"))
	for _, s := range slots {
		require.NoError(t, db.Omit("Participant").Create(&models.ParticipantTeeTime{ParticipantID: p.ID, TeeTimeID: s.ID, PlayDate: s.PlayDate}).Error)
	}

	removed, err := svc.RemoveDuplicates(tour.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	var rows []models.ParticipantTeeTime
	require.NoError(t, db.Where("participant_id = ?", p.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, slots[0].ID, rows[0].TeeTimeID)

	removed, err = svc.RemoveDuplicates(tour.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestTeeSchedule(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	svc := NewTeeTimeService(db)
	day1 := seedSlots(t, svc, tour.ID, "2026-05-01", 4, "07:00")
	seedSlots(t, svc, tour.ID, "2026-05-02", 4, "08:00", "08:08")
	p := seedParticipant(t, db, tour.ID, "A", "01000000001", "")
	require.NoError(t, svc.Assign(day1[0].ID, p.ID))

	days, err := svc.Schedule(tour.ID)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-05-01", days[0].PlayDate)
	require.Len(t, days[0].Slots[0].Players, 1)
	assert.Equal(t, "A", days[0].Slots[0].Players[0].Name)
	assert.Len(t, days[1].Slots, 2)
}
