package db

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"hoa-backend-go/internal/models"
)

const eventsCollection = "events"

type firestoreEventRepository struct {
	client *firestore.Client
}

// NewFirestoreEventRepository creates an EventRepository backed by client.
func NewFirestoreEventRepository(client *firestore.Client) EventRepository {
	return &firestoreEventRepository{client: client}
}

func decodeEvent(doc *firestore.DocumentSnapshot) (*models.Event, error) {
	var e models.Event
	if err := doc.DataTo(&e); err != nil {
		return nil, fmt.Errorf("failed to decode event '%s': %w", doc.Ref.ID, err)
	}
	e.ID = doc.Ref.ID
	return &e, nil
}

func (r *firestoreEventRepository) Create(ctx context.Context, event *models.Event) (string, error) {
	ref := r.client.Collection(eventsCollection).NewDoc()
	event.ID = ref.ID
	if _, err := ref.Create(ctx, event); err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return ref.ID, nil
}

func (r *firestoreEventRepository) GetByID(ctx context.Context, eventID string) (*models.Event, error) {
	doc, err := r.client.Collection(eventsCollection).Doc(eventID).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get", "event", eventID)
	}
	return decodeEvent(doc)
}

// ListBetween returns events starting in [from, to), ordered by start time.
func (r *firestoreEventRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	q := r.client.Collection(eventsCollection).
		Where("startTime", ">=", from).
		Where("startTime", "<", to).
		OrderBy("startTime", firestore.Asc)
	events, err := readAll(q.Documents(ctx), decodeEvent)
	if err != nil {
		return nil, fmt.Errorf("failed to list events between %s and %s: %w", from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}
	return events, nil
}

func (r *firestoreEventRepository) Update(ctx context.Context, event *models.Event) error {
	ref := r.client.Collection(eventsCollection).Doc(event.ID)
	if _, err := ref.Set(ctx, event); err != nil {
		return wrapErr(err, "update", "event", event.ID)
	}
	return nil
}

func (r *firestoreEventRepository) Delete(ctx context.Context, eventID string) error {
	ref := r.client.Collection(eventsCollection).Doc(eventID)
	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		return wrapErr(err, "delete", "event", eventID)
	}
	return nil
}
