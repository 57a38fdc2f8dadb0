package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestIsExpoToken(t *testing.T) {
	tests := map[string]bool{
		"ExponentPushToken[abc]": true,
		"ExpoPushToken[abc]":     true,
		"ExponentPushToken[abc":  false,
		"fcm-token":              false,
		"":                       false,
	}
	for token, want := range tests {
		if got := IsExpoToken(token); got != want {
			t.Errorf("IsExpoToken(%q) = %v, want %v", token, got, want)
		}
	}
}

func TestSendBatches(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.URL.Path != "/--/api/v2/push/send" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var msgs []Message
		if err := json.NewDecoder(r.Body).Decode(&msgs); err != nil {
			t.Errorf("decode: %v", err)
			return
		}
		if len(msgs) > MaxBatch {
			t.Errorf("batch of %d exceeds %d", len(msgs), MaxBatch)
		}
		tickets := make([]Ticket, len(msgs))
		for i, m := range msgs {
			tickets[i].Status = "ok"
			if m.To == "ExponentPushToken[gone]" {
				tickets[i].Status = "error"
				tickets[i].Details.Error = "DeviceNotRegistered"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sendResponse{Data: tickets})
	}))
	defer srv.Close()

	msgs := make([]Message, 0, 150)
	for i := 0; i < 149; i++ {
		msgs = append(msgs, Message{To: fmt.Sprintf("ExponentPushToken[%d]", i), Title: "t"})
	}
	msgs = append(msgs, Message{To: "ExponentPushToken[gone]", Title: "t"})

	res, err := NewClient(srv.URL).Send(context.Background(), msgs)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got := atomic.LoadInt32(&requests); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
	if res.Sent != 149 {
		t.Errorf("Sent = %d, want 149", res.Sent)
	}
	if len(res.Unregistered) != 1 || res.Unregistered[0] != "ExponentPushToken[gone]" {
		t.Errorf("Unregistered = %v", res.Unregistered)
	}
}

func TestSendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Send(context.Background(), []Message{{To: "ExponentPushToken[a]"}}); err == nil {
		t.Error("Send() error = nil, want error")
	}
}
