package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/utils"
)

type recordingSender struct {
	batches [][]OutboundMessage
	failTo  map[string]bool
	err     error
}

func (r *recordingSender) SendMany(_ context.Context, msgs []OutboundMessage) ([]DispatchResult, error) {
	r.batches = append(r.batches, msgs)
	if r.err != nil {
		return nil, r.err
	}
	out := make([]DispatchResult, len(msgs))
	for i, m := range msgs {
		if r.failTo[m.To] {
			out[i] = DispatchResult{Failed: true, Reason: "3059 invalid number"}
			continue
		}
		out[i] = DispatchResult{MessageID: "M" + m.To}
	}
	return out, nil
}

func TestSendRendersPerParticipant(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	a := seedParticipant(t, db, tour.ID, "김철수", "01011112222", "")
	b := seedParticipant(t, db, tour.ID, "이영희", "01033334444", "")

	sender := &recordingSender{failTo: map[string]bool{"01033334444": true}}
	svc := NewMessagingService(db, sender, "0212345678", "", 0)

	res, err := svc.Send(context.Background(), SendRequest{
		TourID:         &tour.ID,
		Content:        "#{이름}님 #{투어명} 안내",
		ParticipantIDs: []uint{a.ID, b.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Failed)

	require.Len(t, sender.batches, 1)
	assert.Equal(t, "김철수님 제주 2박3일 안내", sender.batches[0][0].Text)
	assert.Equal(t, models.MessageTypeSMS, sender.batches[0][0].Type)
	assert.Equal(t, "0212345678", sender.batches[0][0].From)

	var logs []models.MessageLog
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, models.MessageStatusSent, logs[0].Status)
	assert.Equal(t, "M01011112222", logs[0].ProviderID)
	assert.NotNil(t, logs[0].SentAt)
	assert.Equal(t, models.MessageStatusFailed, logs[1].Status)
	assert.Contains(t, logs[1].Error, "3059")
}

func TestSendUsesTemplateAndLMS(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	p := seedParticipant(t, db, tour.ID, "김철수", "01011112222", "")
	tpl := &models.MessageTemplate{Name: "long", Title: "안내", Content: "#{이름}님 " + strings.Repeat("가", 60)}
	require.NoError(t, NewMessageTemplateService(db).Save(tpl))

	sender := &recordingSender{}
	svc := NewMessagingService(db, sender, "0212345678", "", 0)
	res, err := svc.Send(context.Background(), SendRequest{TourID: &tour.ID, TemplateID: &tpl.ID, ParticipantIDs: []uint{p.ID}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, models.MessageTypeLMS, sender.batches[0][0].Type)
	assert.Equal(t, "안내", sender.batches[0][0].Subject)
}

func TestSendChunksAndDedupes(t *testing.T) {
	db := newTestDB(t)
	sender := &recordingSender{}
	svc := NewMessagingService(db, sender, "0212345678", "", 0)

	phones := make([]string, 0, 151)
	for i := 0; i < 150; i++ {
		phones = append(phones, utils.FormatPhone(fmt.Sprintf("0100000%04d", i)))
	}
	phones = append(phones, phones[0])

	res, err := svc.Send(context.Background(), SendRequest{Content: "공지", Phones: phones})
	require.NoError(t, err)
	assert.Equal(t, 150, res.Total)
	require.Len(t, sender.batches, 2)
	assert.Len(t, sender.batches[0], 100)
	assert.Len(t, sender.batches[1], 50)
}

func TestSendRejections(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	other := seedTour(t, db, 0)
	stranger := seedParticipant(t, db, other.ID, "X", "01099998888", "")
	svc := NewMessagingService(db, &recordingSender{}, "0212345678", "", 0)
	ctx := context.Background()

	_, err := svc.Send(ctx, SendRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrNoRecipients)

	_, err = svc.Send(ctx, SendRequest{Content: "   ", Phones: []string{"01012345678"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Send(ctx, SendRequest{TourID: &tour.ID, Content: "hi", ParticipantIDs: []uint{stranger.ID}})
	assert.ErrorIs(t, err, ErrParticipantNotInTour)

	_, err = svc.Send(ctx, SendRequest{Content: strings.Repeat("가", 1001), Phones: []string{"01012345678"}})
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestSendKakaoCarriesOptions(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	p := seedParticipant(t, db, tour.ID, "김철수", "01011112222", "")
	tpl := &models.MessageTemplate{Name: "kakao", MessageType: models.MessageTypeKakao, KakaoTemplateCode: "TPL_001", Content: "#{이름}님 #{투어명}"}
	require.NoError(t, NewMessageTemplateService(db).Save(tpl))

	sender := &recordingSender{}
	svc := NewMessagingService(db, sender, "0212345678", "PF123", 0)
	_, err := svc.Send(context.Background(), SendRequest{TourID: &tour.ID, TemplateID: &tpl.ID, ParticipantIDs: []uint{p.ID}})
	require.NoError(t, err)

	m := sender.batches[0][0]
	assert.Equal(t, models.MessageTypeKakao, m.Type)
	require.NotNil(t, m.Kakao)
	assert.Equal(t, "PF123", m.Kakao.PfID)
	assert.Equal(t, "TPL_001", m.Kakao.TemplateID)
	assert.Equal(t, "김철수", m.Kakao.Variables["#{이름}"])
}

func TestRetryFailed(t *testing.T) {
	db := newTestDB(t)
	sender := &recordingSender{err: errors.New("gateway down")}
	svc := NewMessagingService(db, sender, "0212345678", "", 0)
	ctx := context.Background()

	res, err := svc.Send(ctx, SendRequest{Content: "공지", Phones: []string{"01011112222"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)

	for i := 0; i < 3; i++ {
		res, err = svc.RetryFailed(ctx, RetryFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
	}
	var l models.MessageLog
	require.NoError(t, db.First(&l).Error)
	assert.Equal(t, 3, l.RetryCount)

	// retry budget exhausted
	res, err = svc.RetryFailed(ctx, RetryFilter{})
	require.NoError(t, err)
	assert.Zero(t, res.Total)

	sender.err = nil
	require.NoError(t, db.Model(&l).Update("retry_count", 1).Error)
	res, err = svc.RetryFailed(ctx, RetryFilter{IDs: []uint{l.ID}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)

	logs, err := svc.ListLogs(LogFilter{Status: models.MessageStatusSent})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 2, logs[0].RetryCount)
}

func TestSolapiSendMany(t *testing.T) {
	var gotAuth, gotPath string
	var body struct {
		Messages []solapiMessage `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"messageList": []map[string]any{
				{"messageId": "MID0", "to": "01011112222", "statusCode": "2000", "customFields": map[string]string{"idx": "0"}},
			},
			"failedMessageList": []map[string]any{
				{"to": "01033334444", "statusCode": "1062", "statusMessage": "invalid number", "customFields": map[string]string{"idx": "1"}},
			},
		})
	}))
	defer srv.Close()

	c := NewSolapiClient("KEY", "SECRET", srv.URL)
	c.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	res, err := c.SendMany(context.Background(), []OutboundMessage{
		{To: "01011112222", From: "0212345678", Text: "a", Type: "sms"},
		{To: "01033334444", From: "0212345678", Text: "b", Type: "lms", Subject: "제목"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/messages/v4/send-many/detail", gotPath)
	assert.True(t, strings.HasPrefix(gotAuth, "HMAC-SHA256 apiKey=KEY, date=2026-05-01T00:00:00Z, salt="))
	assert.Contains(t, gotAuth, "signature=")
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "SMS", body.Messages[0].Type)
	assert.Equal(t, "LMS", body.Messages[1].Type)
	assert.Equal(t, "제목", body.Messages[1].Subject)

	require.Len(t, res, 2)
	assert.Equal(t, "MID0", res[0].MessageID)
	assert.False(t, res[0].Failed)
	assert.True(t, res[1].Failed)
	assert.Contains(t, res[1].Reason, "1062")
}

func TestSolapiHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorCode":"InvalidAPIKey","errorMessage":"unknown key"}`))
	}))
	defer srv.Close()

	_, err := NewSolapiClient("KEY", "SECRET", srv.URL).SendMany(context.Background(), []OutboundMessage{{To: "01011112222", Text: "a", Type: "sms"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InvalidAPIKey")
}

func TestSendWithoutRecipientsTargetsWholeTour(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 0)
	seedParticipant(t, db, tour.ID, "김철수", "01011112222", "")
	gone := seedParticipant(t, db, tour.ID, "이영희", "01033334444", "")
	_, err := NewParticipantService(db).Cancel(gone.ID)
	require.NoError(t, err)

	sender := &recordingSender{}
	svc := NewMessagingService(db, sender, "0212345678", "", 0)
	res, err := svc.Send(context.Background(), SendRequest{TourID: &tour.ID, Content: "#{이름}님"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, sender.batches, 1)
	assert.Equal(t, "01011112222", sender.batches[0][0].To)
}

func TestSolapiMessageWithoutResultIsFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"messageList":[],"failedMessageList":[]}`))
	}))
	defer srv.Close()

	res, err := NewSolapiClient("KEY", "SECRET", srv.URL).SendMany(context.Background(), []OutboundMessage{{To: "01011112222", Text: "a", Type: "sms"}})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.True(t, res[0].Failed)
	assert.Empty(t, res[0].MessageID)
	assert.Equal(t, "no result from provider", res[0].Reason)
}

type shortSender struct{}

func (shortSender) SendMany(_ context.Context, msgs []OutboundMessage) ([]DispatchResult, error) {
	return []DispatchResult{{MessageID: "only-one"}}, nil
}

func TestSendMarksChunkFailedOnShortResults(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessagingService(db, shortSender{}, "0212345678", "", 0)

	res, err := svc.Send(context.Background(), SendRequest{Phones: []string{"01011112222", "01033334444"}, Content: "안내"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Zero(t, res.Sent)
	assert.Equal(t, 2, res.Failed)

	var failed int64
	require.NoError(t, db.Model(&models.MessageLog{}).Where("status = ?", models.MessageStatusFailed).Count(&failed).Error)
	assert.EqualValues(t, 2, failed)
}
