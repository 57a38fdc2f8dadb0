package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", ToolkitURL: srv.URL, SecureTokenURL: srv.URL})
}

func TestSignInWithPassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts:signInWithPassword" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["email"] != "ana@example.com" || body["password"] != "secret" || body["returnSecureToken"] != true {
			t.Errorf("unexpected body %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"localId":"uid-1","email":"ana@example.com","idToken":"id","refreshToken":"rt","expiresIn":"3600"}`))
	})

	s, err := c.SignInWithPassword(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("SignInWithPassword() error = %v", err)
	}
	if s.UserID != "uid-1" || s.IDToken != "id" || s.RefreshToken != "rt" || s.ExpiresIn != time.Hour {
		t.Errorf("unexpected session %+v", s)
	}
}

func TestSignInWithPasswordErrors(t *testing.T) {
	tests := []struct {
		message string
		want    error
	}{
		{"INVALID_PASSWORD", ErrInvalidCredentials},
		{"EMAIL_NOT_FOUND", ErrInvalidCredentials},
		{"INVALID_LOGIN_CREDENTIALS", ErrInvalidCredentials},
		{"USER_DISABLED", ErrUserDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":{"code":400,"message":"` + tt.message + `"}}`))
			})
			_, err := c.SignInWithPassword(context.Background(), "ana@example.com", "bad")
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSignInUnexpectedError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"TOO_MANY_ATTEMPTS_TRY_LATER : slow down"}}`))
	})
	_, err := c.SignInWithPassword(context.Background(), "ana@example.com", "x")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want a generic error", err)
	}
}

func TestRefresh(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/token" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		if r.PostForm.Get("grant_type") != "refresh_token" || r.PostForm.Get("refresh_token") != "rt" {
			t.Errorf("form = %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user_id":"uid-1","id_token":"id2","refresh_token":"rt2","expires_in":"3600"}`))
	})

	s, err := c.Refresh(context.Background(), "rt")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if s.UserID != "uid-1" || s.IDToken != "id2" || s.RefreshToken != "rt2" {
		t.Errorf("unexpected session %+v", s)
	}
}

func TestSendPasswordReset(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts:sendOobCode" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email":"ana@example.com"}`))
	})
	if err := c.SendPasswordReset(context.Background(), "ana@example.com"); err != nil {
		t.Fatalf("SendPasswordReset() error = %v", err)
	}
	if got["requestType"] != "PASSWORD_RESET" || got["email"] != "ana@example.com" {
		t.Errorf("body = %v", got)
	}
}
