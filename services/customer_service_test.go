package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whalechillz/go-singsing-sub006/models"
)

func TestCustomerCreateAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)

	c := &models.Customer{Name: "김철수", Phone: "010-1111-2222", Tags: []string{"vip"}}
	require.NoError(t, svc.Create(c))
	require.NoError(t, svc.Create(&models.Customer{Name: "이영희", Phone: "01033334444"}))
	assert.ErrorIs(t, svc.Create(&models.Customer{Name: "dup", Phone: "01011112222"}), ErrDuplicatePhone)

	found, err := svc.List(CustomerFilter{Query: "1111"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "김철수", found[0].Name)

	vip, err := svc.List(CustomerFilter{Tag: "vip"})
	require.NoError(t, err)
	require.Len(t, vip, 1)

	c.Status = "gone"
	assert.ErrorIs(t, svc.Update(c), ErrValidation)
}

func TestSyncFromTourCountsOncePerTour(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	require.NoError(t, svc.Create(&models.Customer{Name: "단골", Phone: "01011112222"}))

	tour := seedTour(t, db, 0)
	seedParticipant(t, db, tour.ID, "단골", "01011112222", "")
	newbie := seedParticipant(t, db, tour.ID, "신규", "01033334444", "")
	gone := seedParticipant(t, db, tour.ID, "취소", "01055556666", "")
	_, err := NewParticipantService(db).Cancel(gone.ID)
	require.NoError(t, err)

	res, err := svc.SyncFromTour(tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)

	res, err = svc.SyncFromTour(tour.ID)
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Zero(t, res.Updated)
	assert.Equal(t, 2, res.Skipped)

	later := &models.Tour{Title: "가을", StartDate: "2026-10-01", EndDate: "2026-10-02"}
	require.NoError(t, NewTourService(db).Create(later))
	seedParticipant(t, db, later.ID, "단골", "01011112222", "")
	_, err = svc.SyncFromTour(later.ID)
	require.NoError(t, err)

	var regular, fresh models.Customer
	require.NoError(t, db.Where("phone = ?", "01011112222").First(&regular).Error)
	require.NoError(t, db.Where("phone = ?", newbie.Phone).First(&fresh).Error)
	assert.Equal(t, 2, regular.TotalTourCount)
	assert.Equal(t, "2026-10-01", regular.LastTourDate)
	assert.Equal(t, 1, fresh.TotalTourCount)
	assert.Equal(t, "2026-05-01", fresh.LastTourDate)

	history, err := svc.History(regular.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, later.ID, history[0].ID)
}

func TestMemoLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemoService(db)
	tour := seedTour(t, db, 0)

	low := &models.Memo{TourID: &tour.ID, Content: "버스 확인"}
	urgent := &models.Memo{TourID: &tour.ID, Content: "객실 변경", Priority: 2}
	require.NoError(t, svc.Create(low))
	require.NoError(t, svc.Create(urgent))
	assert.ErrorIs(t, svc.Create(&models.Memo{Content: "x", Priority: 5}), ErrValidation)

	list, err := svc.List(MemoFilter{TourID: &tour.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, urgent.ID, list[0].ID)

	done, err := svc.Complete(urgent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemoDone, done.Status)
	assert.NotNil(t, done.CompletedAt)

	open, err := svc.List(MemoFilter{Status: models.MemoPending})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, low.ID, open[0].ID)

	require.NoError(t, svc.Delete(low.ID))
	assert.ErrorIs(t, svc.Delete(low.ID), ErrNotFound)
}
