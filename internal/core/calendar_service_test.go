package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/models"
)

type fakeEvents struct {
	mu       sync.Mutex
	seq      int
	events   map[string]models.Event
	from, to time.Time
}

func newFakeEvents() *fakeEvents { return &fakeEvents{events: map[string]models.Event{}} }

func (f *fakeEvents) Create(_ context.Context, e *models.Event) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	e.ID = fmt.Sprintf("ev%d", f.seq)
	f.events[e.ID] = *e
	return e.ID, nil
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	// Firestore hands timestamps back in UTC.
	e.StartTime, e.EndTime = e.StartTime.UTC(), e.EndTime.UTC()
	return &e, nil
}

func (f *fakeEvents) ListBetween(_ context.Context, from, to time.Time) ([]*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.from, f.to = from, to
	out := []*models.Event{}
	for _, e := range f.events {
		if !e.StartTime.Before(from) && e.StartTime.Before(to) {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeEvents) Update(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[e.ID]; !ok {
		return db.ErrNotFound
	}
	f.events[e.ID] = *e
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

var manila = time.FixedZone("PHT", 8*60*60)

func newTestCalendar() (*calendarService, *fakeEvents, *fakeAudit, *fakeNotifier) {
	events, audit, notifier := newFakeEvents(), &fakeAudit{}, &fakeNotifier{}
	svc := NewCalendarService(events, audit, notifier, nopLogger).(*calendarService)
	svc.now = fixedNow
	return svc, events, audit, notifier
}

func TestSchedule(t *testing.T) {
	start := time.Date(2025, 7, 1, 7, 0, 0, 0, manila)
	tests := []struct {
		name     string
		event    models.Event
		wantDate string
		wantErr  error
	}{
		{"date follows client offset", models.Event{Title: "Assembly", StartTime: start, EndTime: start.Add(2 * time.Hour)}, "2025-07-01", nil},
		{"same day in UTC would differ", models.Event{Title: "Assembly", StartTime: start.UTC(), EndTime: start.Add(time.Hour)}, "2025-06-30", nil},
		{"zero length allowed", models.Event{Title: "Deadline", StartTime: start, EndTime: start}, "2025-07-01", nil},
		{"end before start", models.Event{Title: "Bad", StartTime: start, EndTime: start.Add(-time.Minute)}, "", ErrInvalidEvent},
		{"missing title", models.Event{StartTime: start, EndTime: start}, "", ErrInvalidEvent},
		{"missing times", models.Event{Title: "No time"}, "", ErrInvalidEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.event
			err := schedule(&e)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("schedule() error = %v, want %v", err, tt.wantErr)
			}
			if e.Date != tt.wantDate {
				t.Errorf("Date = %q, want %q", e.Date, tt.wantDate)
			}
		})
	}
}

func TestListRange(t *testing.T) {
	ctx := context.Background()
	svc, events, _, _ := newTestCalendar()

	tests := []struct {
		name     string
		from, to string
		wantErr  bool
	}{
		{"single day", "2025-06-15", "2025-06-15", false},
		{"full year", "2025-01-01", "2025-12-31", false},
		{"reversed", "2025-06-15", "2025-06-14", true},
		{"too long", "2025-01-01", "2026-01-02", true},
		{"bad date", "2025-13-01", "2025-12-31", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListRange(ctx, tt.from, tt.to)
			if tt.wantErr != errors.Is(err, ErrInvalidQuery) {
				t.Fatalf("ListRange(%s, %s) error = %v", tt.from, tt.to, err)
			}
		})
	}

	svc.ListRange(ctx, "2025-06-15", "2025-06-15")
	if got := events.to.Sub(events.from); got != 24*time.Hour {
		t.Errorf("single day window = %v, want 24h", got)
	}
}

func TestListMonth(t *testing.T) {
	ctx := context.Background()
	svc, events, _, _ := newTestCalendar()

	if _, err := svc.ListMonth(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if !events.from.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) || !events.to.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("default month window = %v..%v", events.from, events.to)
	}
	if _, err := svc.ListMonth(ctx, "2025-12"); err != nil {
		t.Fatal(err)
	}
	if !events.to.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("December window ends %v", events.to)
	}
	if _, err := svc.ListMonth(ctx, "June"); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("bad month error = %v, want ErrInvalidQuery", err)
	}
}

func TestEventLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, audit, notifier := newTestCalendar()
	start := time.Date(2025, 7, 1, 7, 0, 0, 0, manila)
	req := models.CreateEventRequest{Title: "General Assembly", Location: "Clubhouse", StartTime: start, EndTime: start.Add(2 * time.Hour)}

	if _, err := svc.Create(ctx, member, req); !errors.Is(err, ErrForbidden) {
		t.Errorf("member Create() error = %v, want ErrForbidden", err)
	}
	e, err := svc.Create(ctx, officer, req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if e.Date != "2025-07-01" {
		t.Errorf("Date = %q", e.Date)
	}

	title := "Annual General Assembly"
	up, err := svc.Update(ctx, officer, e.ID, models.UpdateEventRequest{Title: &title})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if up.Title != title || up.Date != "2025-07-01" {
		t.Errorf("updated event %+v", up)
	}

	later := start.Add(48 * time.Hour)
	if _, err := svc.Update(ctx, officer, e.ID, models.UpdateEventRequest{StartTime: &later}); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("start after end error = %v, want ErrInvalidEvent", err)
	}

	if err := svc.Delete(ctx, officer, e.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, e.ID); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrEventNotFound", err)
	}
	if err := svc.Delete(ctx, officer, e.ID); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("second Delete() error = %v, want ErrEventNotFound", err)
	}

	if got := audit.actions(); len(got) != 3 {
		t.Errorf("audit actions = %v, want 3", got)
	}
	if got := notifier.types(); len(got) != 1 || got[0] != models.NotifyEventCreated {
		t.Errorf("notifications = %v", got)
	}
}
