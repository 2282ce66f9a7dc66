package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"golang.org/x/time/rate"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	sendChunkSize = 100
	maxRetries    = 3
)

type MessagingService struct {
	DB      *gorm.DB
	Sender  SMSSender
	From    string
	KakaoPF string
	Limiter *rate.Limiter
}

// NewMessagingService paces dispatch at perSec chunks per second; perSec <= 0 disables pacing.
func NewMessagingService(db *gorm.DB, sender SMSSender, from, kakaoPF string, perSec float64) *MessagingService {
	limit := rate.Inf
	if perSec > 0 {
		limit = rate.Limit(perSec)
	}
	return &MessagingService{
		DB:      db,
		Sender:  sender,
		From:    from,
		KakaoPF: kakaoPF,
		Limiter: rate.NewLimiter(limit, 1),
	}
}

type SendRequest struct {
	TourID         *uint             `json:"tour_id"`
	TemplateID     *uint             `json:"template_id"`
	Content        string            `json:"content"`
	Title          string            `json:"title"`
	ParticipantIDs []uint            `json:"participant_ids"`
	Phones         []string          `json:"phones" binding:"omitempty,dive,krphone"`
	Extras         map[string]string `json:"extras"`
	Kakao          bool              `json:"kakao"`
	URL            string            `json:"url"`
}

type SendResult struct {
	Total  int                 `json:"total"`
	Sent   int                 `json:"sent"`
	Failed int                 `json:"failed"`
	Logs   []models.MessageLog `json:"logs"`
}

type LogFilter struct {
	TourID *uint
	Status string
	Phone  string
	Limit  int
}

type RetryFilter struct {
	TourID *uint  `json:"tour_id"`
	IDs    []uint `json:"ids"`
}

type recipient struct {
	phone string
	mc    MessageContext
}

func (s *MessagingService) recipients(req SendRequest, tour *models.Tour) ([]recipient, error) {
	var out []recipient
	seen := map[string]bool{}

	ids := req.ParticipantIDs
	// a tour with no explicit recipients means everyone still on it
	if len(ids) == 0 && len(req.Phones) == 0 && tour != nil {
		if err := s.DB.Model(&models.Participant{}).
			Where("tour_id = ? AND status <> ?", tour.ID, models.ParticipantCancelled).
			Order("id ASC").Pluck("id", &ids).Error; err != nil {
			return nil, err
		}
	}

	if len(ids) > 0 {
		var ps []models.Participant
		if err := s.DB.Preload("Room").Preload("BoardingPlace").Where("id IN ?", ids).Order("id ASC").Find(&ps).Error; err != nil {
			return nil, err
		}
		if len(ps) != len(ids) {
			return nil, fmt.Errorf("%w: participant", ErrNotFound)
		}
		boardingTimes := map[uint]string{}
		if tour != nil {
			var bts []models.TourBoardingTime
			if err := s.DB.Where("tour_id = ?", tour.ID).Find(&bts).Error; err != nil {
				return nil, err
			}
			for _, bt := range bts {
				boardingTimes[bt.BoardingPlaceID] = bt.DepartureTime
			}
		}
		for i := range ps {
			p := &ps[i]
			if tour != nil && p.TourID != tour.ID {
				return nil, fmt.Errorf("%w: participant %d", ErrParticipantNotInTour, p.ID)
			}
			if p.Status == models.ParticipantCancelled || p.Phone == "" || seen[p.Phone] {
				continue
			}
			seen[p.Phone] = true
			mc := MessageContext{Participant: p, Tour: tour, URL: req.URL}
			if p.Room != nil {
				mc.RoomNumber = p.Room.RoomNumber
			}
			if p.BoardingPlace != nil {
				mc.BoardingPlace = p.BoardingPlace.Name
				mc.BoardingTime = boardingTimes[p.BoardingPlace.ID]
			}
			out = append(out, recipient{phone: p.Phone, mc: mc})
		}
	}

	for _, raw := range req.Phones {
		phone := utils.NormalizePhone(raw)
		if !utils.IsValidPhone(phone) {
			return nil, invalid("phones", "invalid phone "+raw)
		}
		if seen[phone] {
			continue
		}
		seen[phone] = true
		out = append(out, recipient{phone: phone, mc: MessageContext{Tour: tour, URL: req.URL}})
	}

	if len(out) == 0 {
		return nil, ErrNoRecipients
	}
	return out, nil
}

// Send renders the message for every recipient, logs it as pending and dispatches in chunks.
func (s *MessagingService) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	content, title := req.Content, req.Title
	kakaoCode := ""
	if req.TemplateID != nil {
		var tpl models.MessageTemplate
		if err := s.DB.First(&tpl, *req.TemplateID).Error; err != nil {
			return nil, notFound(err)
		}
		content = tpl.Content
		if title == "" {
			title = tpl.Title
		}
		if tpl.MessageType == models.MessageTypeKakao {
			req.Kakao = true
			kakaoCode = tpl.KakaoTemplateCode
		}
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalid("content", "required")
	}
	if req.Kakao && (kakaoCode == "" || s.KakaoPF == "") {
		return nil, invalid("kakao", "kakao template code and channel id are required")
	}

	var tour *models.Tour
	if req.TourID != nil {
		t, err := loadTour(s.DB, *req.TourID)
		if err != nil {
			return nil, err
		}
		tour = t
	}

	rs, err := s.recipients(req, tour)
	if err != nil {
		return nil, err
	}

	logs := make([]models.MessageLog, 0, len(rs))
	for _, r := range rs {
		vars := VariablesFor(r.mc, req.Extras)
		text, _ := Render(content, vars)
		typ, err := DetectType(text)
		if err != nil {
			return nil, fmt.Errorf("%w: recipient %s", err, utils.MaskPhone(r.phone))
		}
		entry := models.MessageLog{
			TourID:     req.TourID,
			TemplateID: req.TemplateID,
			Phone:      r.phone,
			Title:      title,
			Content:    text,
			Status:     models.MessageStatusPending,
		}
		if r.mc.Participant != nil {
			entry.ParticipantID = utils.PtrUint(r.mc.Participant.ID)
		}
		if req.Kakao {
			entry.MessageType = models.MessageTypeKakao
			entry.KakaoTemplateCode = kakaoCode
			entry.KakaoVariables = kakaoVariables(vars, content)
		} else {
			entry.MessageType = typ
		}
		logs = append(logs, entry)
	}
	if err := s.DB.Create(&logs).Error; err != nil {
		return nil, err
	}

	return s.dispatch(ctx, logs)
}

// kakaoVariables keeps only the keys the template uses, in the #{key} form alimtalk expects.
func kakaoVariables(vars map[string]string, content string) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for _, key := range Placeholders(content) {
		if v, ok := vars[key]; ok {
			out["#{"+key+"}"] = v
		}
	}
	return out
}

func (s *MessagingService) outbound(l models.MessageLog) OutboundMessage {
	m := OutboundMessage{
		To:      l.Phone,
		From:    s.From,
		Text:    l.Content,
		Type:    l.MessageType,
		Subject: l.Title,
	}
	if l.MessageType == models.MessageTypeKakao {
		vars := map[string]string{}
		for k, v := range l.KakaoVariables {
			vars[k] = fmt.Sprint(v)
		}
		m.Kakao = &KakaoOptions{PfID: s.KakaoPF, TemplateID: l.KakaoTemplateCode, Variables: vars}
	}
	return m
}

func (s *MessagingService) dispatch(ctx context.Context, logs []models.MessageLog) (*SendResult, error) {
	res := &SendResult{Total: len(logs)}
	for start := 0; start < len(logs); start += sendChunkSize {
		end := start + sendChunkSize
		if end > len(logs) {
			end = len(logs)
		}
		chunk := logs[start:end]

		if err := s.Limiter.Wait(ctx); err != nil {
			s.markFailed(chunk, err.Error())
			continue
		}

		msgs := make([]OutboundMessage, len(chunk))
		for i, l := range chunk {
			msgs[i] = s.outbound(l)
		}
		results, err := s.Sender.SendMany(ctx, msgs)
		if err != nil {
			log.Printf("❌ message dispatch failed for %d recipients: %v", len(chunk), err)
			s.markFailed(chunk, err.Error())
			continue
		}
		if len(results) != len(chunk) {
			log.Printf("❌ message dispatch returned %d results for %d recipients", len(results), len(chunk))
			s.markFailed(chunk, fmt.Sprintf("provider returned %d results for %d messages", len(results), len(chunk)))
			continue
		}
		now := time.Now()
		for i := range chunk {
			r := results[i]
			chunk[i].ProviderID = r.MessageID
			if r.Failed {
				chunk[i].Status = models.MessageStatusFailed
				chunk[i].Error = r.Reason
			} else {
				chunk[i].Status = models.MessageStatusSent
				chunk[i].Error = ""
				chunk[i].SentAt = utils.PtrTime(now)
			}
			if err := s.DB.Model(&chunk[i]).Select("status", "provider_id", "error", "sent_at", "retry_count").Updates(&chunk[i]).Error; err != nil {
				log.Printf("⚠️ cannot update message log %d: %v", chunk[i].ID, err)
			}
		}
	}
	for _, l := range logs {
		if l.Status == models.MessageStatusSent {
			res.Sent++
		} else {
			res.Failed++
		}
	}
	res.Logs = logs
	return res, nil
}

func (s *MessagingService) markFailed(chunk []models.MessageLog, reason string) {
	for i := range chunk {
		chunk[i].Status = models.MessageStatusFailed
		chunk[i].Error = reason
		if err := s.DB.Model(&chunk[i]).Select("status", "error", "retry_count").Updates(&chunk[i]).Error; err != nil {
			log.Printf("⚠️ cannot update message log %d: %v", chunk[i].ID, err)
		}
	}
}

// RetryFailed re-sends failed logs that have been retried fewer than three times.
func (s *MessagingService) RetryFailed(ctx context.Context, f RetryFilter) (*SendResult, error) {
	q := s.DB.Where("status = ? AND retry_count < ?", models.MessageStatusFailed, maxRetries)
	if f.TourID != nil {
		q = q.Where("tour_id = ?", *f.TourID)
	}
	if len(f.IDs) > 0 {
		q = q.Where("id IN ?", f.IDs)
	}
	var logs []models.MessageLog
	if err := q.Order("id ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return &SendResult{Logs: []models.MessageLog{}}, nil
	}
	for i := range logs {
		logs[i].RetryCount++
	}
	return s.dispatch(ctx, logs)
}

func (s *MessagingService) ListLogs(f LogFilter) ([]models.MessageLog, error) {
	q := s.DB.Order("id DESC")
	if f.TourID != nil {
		q = q.Where("tour_id = ?", *f.TourID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Phone != "" {
		q = q.Where("phone = ?", utils.NormalizePhone(f.Phone))
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var out []models.MessageLog
	err := q.Limit(limit).Find(&out).Error
	return out, err
}
