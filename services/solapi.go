package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// OutboundMessage is one text handed to an SMSSender.
type OutboundMessage struct {
	To      string
	From    string
	Text    string
	Type    string // sms, lms or kakao
	Subject string
	Kakao   *KakaoOptions
}

type KakaoOptions struct {
	PfID       string            `json:"pfId"`
	TemplateID string            `json:"templateId"`
	Variables  map[string]string `json:"variables,omitempty"`
	DisableSms bool              `json:"disableSms"`
}

// DispatchResult lines up with the input slice of SendMany.
type DispatchResult struct {
	MessageID string
	Failed    bool
	Reason    string
}

type SMSSender interface {
	SendMany(ctx context.Context, msgs []OutboundMessage) ([]DispatchResult, error)
}

type SolapiClient struct {
	APIKey    string
	APISecret string
	BaseURL   string
	HTTP      *http.Client
	now       func() time.Time
}

func NewSolapiClient(apiKey, apiSecret, baseURL string) *SolapiClient {
	if baseURL == "" {
		baseURL = "https://api.solapi.com"
	}
	return &SolapiClient{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}
}

type solapiMessage struct {
	To           string            `json:"to"`
	From         string            `json:"from"`
	Text         string            `json:"text,omitempty"`
	Type         string            `json:"type"`
	Subject      string            `json:"subject,omitempty"`
	KakaoOptions *KakaoOptions     `json:"kakaoOptions,omitempty"`
	CustomFields map[string]string `json:"customFields,omitempty"`
}

type solapiResultItem struct {
	MessageID     string            `json:"messageId"`
	To            string            `json:"to"`
	StatusCode    string            `json:"statusCode"`
	StatusMessage string            `json:"statusMessage"`
	CustomFields  map[string]string `json:"customFields"`
}

type solapiResponse struct {
	MessageList       []solapiResultItem `json:"messageList"`
	FailedMessageList []solapiResultItem `json:"failedMessageList"`
	ErrorCode         string             `json:"errorCode"`
	ErrorMessage      string             `json:"errorMessage"`
}

var solapiTypes = map[string]string{
	"sms":   "SMS",
	"lms":   "LMS",
	"kakao": "ATA",
}

// authorization builds the HMAC-SHA256 header: signature = hex(HMAC(secret, date+salt)).
func (c *SolapiClient) authorization() (string, error) {
	date := c.now().UTC().Format(time.RFC3339)
	salt, err := randomHex(16)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, []byte(c.APISecret))
	mac.Write([]byte(date + salt))
	signature := hex.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf("HMAC-SHA256 apiKey=%s, date=%s, salt=%s, signature=%s", c.APIKey, date, salt, signature), nil
}

func (c *SolapiClient) SendMany(ctx context.Context, msgs []OutboundMessage) ([]DispatchResult, error) {
	payload := struct {
		Messages []solapiMessage `json:"messages"`
	}{Messages: make([]solapiMessage, 0, len(msgs))}

	for i, m := range msgs {
		typ, ok := solapiTypes[m.Type]
		if !ok {
			typ = "SMS"
		}
		sm := solapiMessage{
			To:           m.To,
			From:         m.From,
			Text:         m.Text,
			Type:         typ,
			CustomFields: map[string]string{"idx": strconv.Itoa(i)},
		}
		if typ == "LMS" {
			sm.Subject = m.Subject
		}
		if m.Kakao != nil {
			sm.KakaoOptions = m.Kakao
		}
		payload.Messages = append(payload.Messages, sm)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/messages/v4/send-many/detail", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cannot build request: %w", err)
	}
	auth, err := c.authorization()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solapi request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	var sr solapiResponse
	if err := json.Unmarshal(raw, &sr); err != nil && resp.StatusCode < 300 {
		return nil, fmt.Errorf("solapi JSON parse error: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if sr.ErrorMessage != "" {
			return nil, fmt.Errorf("solapi HTTP %d: %s %s", resp.StatusCode, sr.ErrorCode, sr.ErrorMessage)
		}
		return nil, fmt.Errorf("solapi HTTP %d: %s", resp.StatusCode, string(raw))
	}

	results := make([]DispatchResult, len(msgs))
	for i := range results {
		results[i] = DispatchResult{Failed: true, Reason: "no result from provider"}
	}
	set := func(items []solapiResultItem, failed bool) {
		for pos, it := range items {
			idx := pos
			if v, ok := it.CustomFields["idx"]; ok {
				if n, err := strconv.Atoi(v); err == nil {
					idx = n
				}
			}
			if idx < 0 || idx >= len(results) {
				continue
			}
			results[idx] = DispatchResult{MessageID: it.MessageID, Failed: failed}
			if failed {
				results[idx].Reason = strings.TrimSpace(it.StatusCode + " " + it.StatusMessage)
			}
		}
	}
	set(sr.MessageList, false)
	set(sr.FailedMessageList, true)
	return results, nil
}

// MockSender logs instead of sending; used when Solapi credentials are not configured.
type MockSender struct {
	mu  sync.Mutex
	seq int
}

func (m *MockSender) SendMany(_ context.Context, msgs []OutboundMessage) ([]DispatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DispatchResult, len(msgs))
	for i, msg := range msgs {
		m.seq++
		log.Printf("[MOCK SMS] type:%s to:%s text:%q", msg.Type, msg.To, msg.Text)
		out[i] = DispatchResult{MessageID: fmt.Sprintf("mock-%d", m.seq)}
	}
	return out, nil
}
