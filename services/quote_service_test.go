package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whalechillz/go-singsing-sub006/models"
)

type fakeMailer struct {
	sent []EmailMessage
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestQuoteTotalIsServerSide(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuoteService(db, &fakeMailer{})

	q := &models.Quote{
		Title: "제주 2박3일",
		Total: 1,
		Items: []models.QuoteItem{
			{Name: "그린피", UnitPrice: 200000, Quantity: 8},
			{Name: "숙박", UnitPrice: 150000, Quantity: 2},
		},
	}
	require.NoError(t, svc.Create(q))
	assert.EqualValues(t, 1900000, q.Total)
	assert.Equal(t, models.QuoteDraft, q.Status)

	q.Items = q.Items[:1]
	require.NoError(t, svc.Update(q))
	got, err := svc.Get(q.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1600000, got.Total)
	require.Len(t, got.Items, 1)

	bad := &models.Quote{Title: "x", Items: []models.QuoteItem{{Name: "", UnitPrice: 1, Quantity: 1}}}
	assert.ErrorIs(t, svc.Create(bad), ErrValidation)
}

func TestQuoteEmail(t *testing.T) {
	db := newTestDB(t)
	mailer := &fakeMailer{}
	svc := NewQuoteService(db, mailer)
	q := &models.Quote{Title: "제주", CustomerName: "김철수", Items: []models.QuoteItem{{Name: "그린피", UnitPrice: 1234567, Quantity: 1}}}
	require.NoError(t, svc.Create(q))

	_, err := svc.Email(context.Background(), q.ID, "not-an-email")
	assert.ErrorIs(t, err, ErrValidation)

	sent, err := svc.Email(context.Background(), q.ID, "kim@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.QuoteSent, sent.Status)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "kim@example.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Text, "1,234,567원")

	mailer.err = errors.New("smtp down")
	other := &models.Quote{Title: "부산"}
	require.NoError(t, svc.Create(other))
	_, err = svc.Email(context.Background(), other.ID, "kim@example.com")
	require.Error(t, err)
	got, err := svc.Get(other.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteDraft, got.Status)
}

func TestFormatWon(t *testing.T) {
	assert.Equal(t, "0", formatWon(0))
	assert.Equal(t, "999", formatWon(999))
	assert.Equal(t, "1,000", formatWon(1000))
	assert.Equal(t, "-12,345", formatWon(-12345))
}
