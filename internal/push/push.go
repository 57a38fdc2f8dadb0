// Package push sends notifications through the Expo push service.
package push

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// MaxBatch is the largest number of messages Expo accepts per request.
const MaxBatch = 100

// Message is one Expo push message.
type Message struct {
	To    string            `json:"to"`
	Title string            `json:"title,omitempty"`
	Body  string            `json:"body,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound,omitempty"`
}

// Ticket is Expo's per-message receipt.
type Ticket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details,omitempty"`
}

// Result summarizes a Send call.
type Result struct {
	Sent int
	// Unregistered lists tokens Expo reported as DeviceNotRegistered.
	Unregistered []string
}

type sendResponse struct {
	Data []Ticket `json:"data"`
}

// Client is an Expo push client.
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient creates a Client for the Expo service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		http:    resty.New().SetTimeout(15*time.Second).SetHeader("Accept", "application/json"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// IsExpoToken reports whether token looks like an Expo push token.
func IsExpoToken(token string) bool {
	return (strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")) &&
		strings.HasSuffix(token, "]")
}

// Send delivers msgs in batches of MaxBatch. It stops at the first failed request.
func (c *Client) Send(ctx context.Context, msgs []Message) (*Result, error) {
	res := &Result{}
	for start := 0; start < len(msgs); start += MaxBatch {
		end := start + MaxBatch
		if end > len(msgs) {
			end = len(msgs)
		}
		batch := msgs[start:end]

		out := &sendResponse{}
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(batch).
			SetResult(out).
			Post(c.baseURL + "/--/api/v2/push/send")
		if err != nil {
			return res, fmt.Errorf("expo push send: %w", err)
		}
		if resp.IsError() {
			return res, fmt.Errorf("expo push send: status %d: %s", resp.StatusCode(), resp.String())
		}

		for i, ticket := range out.Data {
			if ticket.Status == "ok" {
				res.Sent++
				continue
			}
			if ticket.Details.Error == "DeviceNotRegistered" && i < len(batch) {
				res.Unregistered = append(res.Unregistered, batch[i].To)
			}
		}
	}
	return res, nil
}
