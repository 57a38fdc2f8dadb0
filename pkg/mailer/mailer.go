// Package mailer sends notification e-mails over SMTP.
package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Mailer sends e-mails through one SMTP server.
type Mailer struct {
	cfg      Config
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New returns a Mailer. Host and From are required.
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, errors.New("SMTP host and sender address must be provided")
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &Mailer{cfg: cfg, sendMail: smtp.SendMail}, nil
}

// Send delivers one message to each recipient in a single SMTP transaction.
// The body is sent as HTML when it looks like markup, plain text otherwise.
func (m *Mailer) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return errors.New("at least one recipient is required")
	}
	if subject == "" {
		return errors.New("email subject cannot be empty")
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	msg := BuildMessage(m.cfg.From, to, subject, body, time.Now())
	if err := m.sendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, to, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// BuildMessage renders RFC 5322 headers and body.
func BuildMessage(from string, to []string, subject, body string, now time.Time) []byte {
	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n\r\n", contentType)
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
