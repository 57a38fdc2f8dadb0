package mailer

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"
)

func TestNewRequiresHostAndSender(t *testing.T) {
	if _, err := New(Config{From: "a@example.com"}); err == nil {
		t.Error("New() without host: error = nil")
	}
	if _, err := New(Config{Host: "smtp.example.com"}); err == nil {
		t.Error("New() without sender: error = nil")
	}
	m, err := New(Config{Host: "smtp.example.com", From: "a@example.com"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if m.cfg.Port != "587" {
		t.Errorf("default port = %q, want 587", m.cfg.Port)
	}
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	msg := string(BuildMessage("hoa@example.com", []string{"a@example.com", "b@example.com"}, "Dues\r\nBcc: x", "<p>Hello</p>", now))

	for _, want := range []string{
		"From: hoa@example.com\r\n",
		"To: a@example.com, b@example.com\r\n",
		"Subject: Dues  Bcc: x\r\n",
		"Content-Type: text/html; charset=UTF-8\r\n",
		"\r\n\r\n<p>Hello</p>\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}

	plain := string(BuildMessage("hoa@example.com", []string{"a@example.com"}, "Hi", "plain body", now))
	if !strings.Contains(plain, "text/plain") {
		t.Errorf("plain body not sent as text/plain:\n%s", plain)
	}
}

func TestSend(t *testing.T) {
	m, _ := New(Config{Host: "smtp.example.com", Port: "2525", Username: "u", Password: "p", From: "hoa@example.com"})

	var gotAddr string
	var gotTo []string
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo = addr, to
		if a == nil {
			t.Error("expected PLAIN auth when username is set")
		}
		return nil
	}
	if err := m.Send([]string{"a@example.com"}, "Subject", "Body"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotAddr != "smtp.example.com:2525" || len(gotTo) != 1 {
		t.Errorf("sendMail called with addr=%q to=%v", gotAddr, gotTo)
	}

	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("boom") }
	if err := m.Send([]string{"a@example.com"}, "Subject", "Body"); err == nil {
		t.Error("Send() error = nil when SMTP fails")
	}
	if err := m.Send(nil, "Subject", "Body"); err == nil {
		t.Error("Send() error = nil without recipients")
	}
}
