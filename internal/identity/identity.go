// Package identity talks to the Firebase Identity Toolkit and Secure Token
// REST APIs, which cover the password flows the Admin SDK does not.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrInvalidCredentials is returned for a wrong e-mail/password pair or a
	// revoked refresh token.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserDisabled is returned when the account is disabled in Firebase Auth.
	ErrUserDisabled = errors.New("user disabled")
)

// Session is the token pair returned by a successful sign-in or refresh.
type Session struct {
	UserID       string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresIn    time.Duration
}

// Client is a Firebase Identity Toolkit client.
type Client struct {
	http           *resty.Client
	apiKey         string
	toolkitURL     string
	secureTokenURL string
}

// Config holds the API key and base URLs of the two Firebase endpoints.
type Config struct {
	APIKey         string
	ToolkitURL     string
	SecureTokenURL string
	Timeout        time.Duration
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:           resty.New().SetTimeout(timeout),
		apiKey:         cfg.APIKey,
		toolkitURL:     strings.TrimRight(cfg.ToolkitURL, "/"),
		secureTokenURL: strings.TrimRight(cfg.SecureTokenURL, "/"),
	}
}

type apiError struct {
	Err struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Error maps Firebase error messages onto package errors. Messages look like
// "INVALID_PASSWORD" or "TOO_MANY_ATTEMPTS_TRY_LATER : ...".
func (e *apiError) Error() string {
	return e.Err.Message
}

func (e *apiError) unwrap() error {
	code, _, _ := strings.Cut(e.Err.Message, " ")
	switch code {
	case "INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL",
		"INVALID_REFRESH_TOKEN", "TOKEN_EXPIRED", "USER_NOT_FOUND", "MISSING_PASSWORD":
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, code)
	case "USER_DISABLED":
		return ErrUserDisabled
	}
	return fmt.Errorf("identity toolkit error %d: %s", e.Err.Code, e.Err.Message)
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// SignInWithPassword exchanges an e-mail and password for a Firebase session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	result := &signInResponse{}
	apiErr := &apiError{}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(map[string]interface{}{
			"email":             email,
			"password":          password,
			"returnSecureToken": true,
		}).
		SetResult(result).
		SetError(apiErr).
		Post(c.toolkitURL + "/v1/accounts:signInWithPassword")
	if err != nil {
		return nil, fmt.Errorf("signInWithPassword: %w", err)
	}
	if resp.IsError() {
		return nil, apiErr.unwrap()
	}
	return &Session{
		UserID:       result.LocalID,
		Email:        result.Email,
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    seconds(result.ExpiresIn),
	}, nil
}

type refreshResponse struct {
	UserID       string `json:"user_id"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

// Refresh exchanges a refresh token for a new ID token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	result := &refreshResponse{}
	apiErr := &apiError{}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetFormDataFromValues(url.Values{
			"grant_type":    []string{"refresh_token"},
			"refresh_token": []string{refreshToken},
		}).
		SetResult(result).
		SetError(apiErr).
		Post(c.secureTokenURL + "/v1/token")
	if err != nil {
		return nil, fmt.Errorf("token refresh: %w", err)
	}
	if resp.IsError() {
		return nil, apiErr.unwrap()
	}
	return &Session{
		UserID:       result.UserID,
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    seconds(result.ExpiresIn),
	}, nil
}

// SendPasswordReset asks Firebase to e-mail a password reset link.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	apiErr := &apiError{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(map[string]string{
			"requestType": "PASSWORD_RESET",
			"email":       email,
		}).
		SetError(apiErr).
		Post(c.toolkitURL + "/v1/accounts:sendOobCode")
	if err != nil {
		return fmt.Errorf("sendOobCode: %w", err)
	}
	if resp.IsError() {
		return apiErr.unwrap()
	}
	return nil
}

func seconds(s string) time.Duration {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return time.Duration(n) * time.Second
}
