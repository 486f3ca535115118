package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Message is a plain text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

// SMTPSender authenticates with PLAIN when a password is configured, which
// local catchers like MailHog do not need.
type SMTPSender struct {
	cfg SMTPConfig
}

var _ Sender = (*SMTPSender)(nil)

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.From, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.From, []string{msg.To}, Format(s.cfg.From, msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// Format renders the RFC 5322 message. Header values have CR and LF removed.
func Format(from string, msg Message) []byte {
	clean := strings.NewReplacer("\r", "", "\n", " ")
	return []byte("Subject: " + clean.Replace(msg.Subject) + "\r\n" +
		"From: " + clean.Replace(from) + "\r\n" +
		"To: " + clean.Replace(msg.To) + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		msg.Body + "\r\n")
}

// ArtistSubmitted is the admin notification for a public submission.
func ArtistSubmitted(adminEmail, artistName, artistID, adminURL string) Message {
	return Message{
		To:      adminEmail,
		Subject: "New voice submission: " + artistName,
		Body: fmt.Sprintf("A new artist was submitted and is waiting for approval.\n\nName: %s\nID: %s\n\nReview it here:\n%s",
			artistName, artistID, adminURL),
	}
}
