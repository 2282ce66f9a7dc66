package services

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type SendGridMailer struct {
	client   *sendgrid.Client
	from     *sgmail.Email
	fromName string
}

func NewSendGridMailer(key, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(key),
		from:     sgmail.NewEmail(fromName, fromEmail),
		fromName: fromName,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg EmailMessage) error {
	to := sgmail.NewEmail(msg.ToName, msg.To)
	subject := "[" + m.fromName + "] " + msg.Subject
	message := sgmail.NewSingleEmail(m.from, subject, to, msg.Text, msg.HTML)

	res, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid HTTP %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// LogMailer prints the mail instead of sending it; used when SENDGRID_API_KEY is empty.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg EmailMessage) error {
	log.Printf("\n================ [MOCK EMAIL] ================\nTO: %s\nSUBJECT: %s\n----------------------------------------------\n%s\n==============================================", msg.To, msg.Subject, msg.Text)
	return nil
}
