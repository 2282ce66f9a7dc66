package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/whalechillz/go-singsing-sub006/config"
	"github.com/whalechillz/go-singsing-sub006/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

func seedTour(t *testing.T, db *gorm.DB, maxParticipants int) *models.Tour {
	t.Helper()
	tour := &models.Tour{
		Title:           "제주 2박3일",
		StartDate:       "2026-05-01",
		EndDate:         "2026-05-03",
		GolfCourse:      "Pine Hills",
		Accommodation:   "Ocean Resort",
		Price:           1000000,
		MaxParticipants: maxParticipants,
	}
	require.NoError(t, NewTourService(db).Create(tour))
	return tour
}

func seedParticipant(t *testing.T, db *gorm.DB, tourID uint, name, phone, team string) *models.Participant {
	t.Helper()
	p := &models.Participant{TourID: tourID, Name: name, Phone: phone, TeamName: team}
	require.NoError(t, NewParticipantService(db).Create(p))
	return p
}
