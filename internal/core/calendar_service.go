package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/models"
	"hoa-backend-go/internal/sanitize"
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
	maxRange    = 366 * 24 * time.Hour
)

type calendarService struct {
	events   db.EventRepository
	audit    AuditService
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewCalendarService creates a CalendarService.
func NewCalendarService(events db.EventRepository, audit AuditService, notifier Notifier, logger *zap.Logger) CalendarService {
	return &calendarService{events: events, audit: audit, notifier: notifier, logger: logger, now: time.Now}
}

// ListMonth lists events starting in month (YYYY-MM); empty means the current month.
func (s *calendarService) ListMonth(ctx context.Context, month string) ([]*models.Event, error) {
	var start time.Time
	if month == "" {
		now := s.now().UTC()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		t, err := time.Parse(monthLayout, month)
		if err != nil {
			return nil, fmt.Errorf("%w: month %q", ErrInvalidQuery, month)
		}
		start = t
	}
	return s.events.ListBetween(ctx, start, start.AddDate(0, 1, 0))
}

// ListRange lists events starting between two dates (YYYY-MM-DD), both inclusive.
func (s *calendarService) ListRange(ctx context.Context, from, to string) ([]*models.Event, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("%w: from %q", ErrInvalidQuery, from)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("%w: to %q", ErrInvalidQuery, to)
	}
	end = end.AddDate(0, 0, 1)
	if !end.After(start) || end.Sub(start) > maxRange {
		return nil, fmt.Errorf("%w: %s..%s", ErrInvalidQuery, from, to)
	}
	return s.events.ListBetween(ctx, start, end)
}

func (s *calendarService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrEventNotFound, err)
	}
	return e, err
}

// schedule validates the event window and derives its calendar date from the
// start time in the offset the client sent.
func schedule(e *models.Event) error {
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if e.StartTime.IsZero() || e.EndTime.IsZero() {
		return fmt.Errorf("%w: start and end time are required", ErrInvalidEvent)
	}
	if e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("%w: end time is before start time", ErrInvalidEvent)
	}
	e.Date = e.StartTime.Format(dateLayout)
	return nil
}

func (s *calendarService) Create(ctx context.Context, actor Actor, req models.CreateEventRequest) (*models.Event, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only officers can schedule events", ErrForbidden)
	}
	now := s.now().UTC()
	e := &models.Event{
		Title:       sanitize.Line(req.Title),
		Description: sanitize.Text(req.Description),
		Location:    sanitize.Line(req.Location),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := schedule(e); err != nil {
		return nil, err
	}
	if _, err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID: actor.ID, Action: ActionEventChange, TargetType: "EVENT", TargetID: e.ID,
		Details: map[string]interface{}{"op": "create", "title": e.Title},
	})
	s.notifier.Notify(ctx, models.NotificationEvent{
		Type:     models.NotifyEventCreated,
		Title:    e.Title,
		Body:     fmt.Sprintf("%s %s", e.StartTime.Format("Mon, Jan 2 3:04 PM"), e.Location),
		Audience: models.AudienceAll,
		Data:     map[string]string{"eventId": e.ID, "date": e.Date},
	})
	return e, nil
}

func (s *calendarService) Update(ctx context.Context, actor Actor, eventID string, req models.UpdateEventRequest) (*models.Event, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only officers can edit events", ErrForbidden)
	}
	e, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		e.Title = sanitize.Line(*req.Title)
	}
	if req.Description != nil {
		e.Description = sanitize.Text(*req.Description)
	}
	if req.Location != nil {
		e.Location = sanitize.Line(*req.Location)
	}
	if req.StartTime != nil {
		e.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		e.EndTime = *req.EndTime
	}
	date := e.Date
	if err := schedule(e); err != nil {
		return nil, err
	}
	// Stored times come back in UTC; keep the date derived from the original offset.
	if req.StartTime == nil && date != "" {
		e.Date = date
	}
	e.UpdatedAt = s.now().UTC()
	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}
	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID: actor.ID, Action: ActionEventChange, TargetType: "EVENT", TargetID: e.ID,
		Details: map[string]interface{}{"op": "update"},
	})
	return e, nil
}

func (s *calendarService) Delete(ctx context.Context, actor Actor, eventID string) error {
	if !actor.IsStaff() {
		return fmt.Errorf("%w: only officers can delete events", ErrForbidden)
	}
	if err := s.events.Delete(ctx, eventID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrEventNotFound, err)
		}
		return err
	}
	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID: actor.ID, Action: ActionEventChange, TargetType: "EVENT", TargetID: eventID,
		Details: map[string]interface{}{"op": "delete"},
	})
	return nil
}
