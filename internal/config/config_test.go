package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GIN_MODE", "release") // skip .env lookup
	t.Setenv("FIREBASE_PROJECT_ID", "hoa-test")
	t.Setenv("FIREBASE_STORAGE_BUCKET", "hoa-test.appspot.com")
	t.Setenv("FIREBASE_WEB_API_KEY", "web-key")
	t.Setenv("ENCRYPTION_KEY", "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.TallyCacheTTL != 15*time.Second {
		t.Errorf("TallyCacheTTL = %v, want 15s", cfg.TallyCacheTTL)
	}
	if cfg.SignedURLTTL != 15*time.Minute {
		t.Errorf("SignedURLTTL = %v, want 15m", cfg.SignedURLTTL)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 10<<20)
	}
	if cfg.NotificationQueue != "hoa.notifications" {
		t.Errorf("NotificationQueue = %q", cfg.NotificationQueue)
	}
	if !cfg.IsRelease() {
		t.Error("IsRelease() = false, want true")
	}
	if cfg.MailEnabled() {
		t.Error("MailEnabled() = true without SMTP_HOST")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TALLY_CACHE_TTL", "1m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("MAIL_FROM", "noreply@example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.TallyCacheTTL != time.Minute {
		t.Errorf("TallyCacheTTL = %v, want 1m", cfg.TallyCacheTTL)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
	if !cfg.MailEnabled() {
		t.Error("MailEnabled() = false, want true")
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("FIREBASE_PROJECT_ID", "")
	t.Setenv("FIREBASE_STORAGE_BUCKET", "")
	t.Setenv("FIREBASE_WEB_API_KEY", "")
	t.Setenv("ENCRYPTION_KEY", "")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want missing configuration error")
	}
	for _, key := range []string{"FIREBASE_PROJECT_ID", "FIREBASE_STORAGE_BUCKET", "FIREBASE_WEB_API_KEY", "ENCRYPTION_KEY"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
}
