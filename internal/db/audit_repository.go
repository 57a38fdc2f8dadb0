package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"hoa-backend-go/internal/models"
)

const auditLogsCollection = "auditLogs"

type firestoreAuditRepository struct {
	client *firestore.Client
}

// NewFirestoreAuditRepository creates an AuditRepository backed by client.
func NewFirestoreAuditRepository(client *firestore.Client) AuditRepository {
	return &firestoreAuditRepository{client: client}
}

// Create appends an entry. Timestamp is set by the server.
func (r *firestoreAuditRepository) Create(ctx context.Context, logEntry models.AuditLog) error {
	if _, _, err := r.client.Collection(auditLogsCollection).Add(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to write audit log '%s': %w", logEntry.Action, err)
	}
	return nil
}

// List returns the most recent entries first.
func (r *firestoreAuditRepository) List(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	q := r.client.Collection(auditLogsCollection).OrderBy("timestamp", firestore.Desc).Limit(limit)
	logs, err := readAll(q.Documents(ctx), func(doc *firestore.DocumentSnapshot) (*models.AuditLog, error) {
		var l models.AuditLog
		if err := doc.DataTo(&l); err != nil {
			return nil, fmt.Errorf("failed to decode audit log '%s': %w", doc.Ref.ID, err)
		}
		l.ID = doc.Ref.ID
		return &l, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
