package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"hoa-backend-go/internal/models"
)

const complaintsCollection = "complaints"

type firestoreComplaintRepository struct {
	client *firestore.Client
}

// NewFirestoreComplaintRepository creates a ComplaintRepository backed by client.
func NewFirestoreComplaintRepository(client *firestore.Client) ComplaintRepository {
	return &firestoreComplaintRepository{client: client}
}

func decodeComplaint(doc *firestore.DocumentSnapshot) (*models.Complaint, error) {
	var c models.Complaint
	if err := doc.DataTo(&c); err != nil {
		return nil, fmt.Errorf("failed to decode complaint '%s': %w", doc.Ref.ID, err)
	}
	c.ID = doc.Ref.ID
	if c.Attachments == nil {
		c.Attachments = []models.Attachment{}
	}
	return &c, nil
}

func (r *firestoreComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) (string, error) {
	ref := r.client.Collection(complaintsCollection).NewDoc()
	complaint.ID = ref.ID
	if _, err := ref.Create(ctx, complaint); err != nil {
		return "", fmt.Errorf("failed to create complaint: %w", err)
	}
	return ref.ID, nil
}

func (r *firestoreComplaintRepository) GetByID(ctx context.Context, complaintID string) (*models.Complaint, error) {
	doc, err := r.client.Collection(complaintsCollection).Doc(complaintID).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get", "complaint", complaintID)
	}
	return decodeComplaint(doc)
}

// ListBySubmitter returns a member's complaints, newest first.
func (r *firestoreComplaintRepository) ListBySubmitter(ctx context.Context, submitterID string) ([]*models.Complaint, error) {
	q := r.client.Collection(complaintsCollection).
		Where("submitterId", "==", submitterID).
		OrderBy("createdAt", firestore.Desc)
	complaints, err := readAll(q.Documents(ctx), decodeComplaint)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints of '%s': %w", submitterID, err)
	}
	return complaints, nil
}

// List returns all complaints newest first, optionally filtered by status.
func (r *firestoreComplaintRepository) List(ctx context.Context, status string) ([]*models.Complaint, error) {
	q := r.client.Collection(complaintsCollection).Query
	if status != "" {
		q = q.Where("status", "==", status)
	}
	complaints, err := readAll(q.OrderBy("createdAt", firestore.Desc).Documents(ctx), decodeComplaint)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

// CountOpenBySubmitter counts a member's complaints that are pending or in progress.
func (r *firestoreComplaintRepository) CountOpenBySubmitter(ctx context.Context, submitterID string) (int, error) {
	q := r.client.Collection(complaintsCollection).
		Where("submitterId", "==", submitterID).
		Where("status", "in", []string{models.ComplaintPending, models.ComplaintInProgress})
	n, err := countOf(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to count open complaints of '%s': %w", submitterID, err)
	}
	return n, nil
}

func (r *firestoreComplaintRepository) Mutate(ctx context.Context, complaintID string, fn func(*models.Complaint) error) (*models.Complaint, error) {
	ref := r.client.Collection(complaintsCollection).Doc(complaintID)

	var out *models.Complaint
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return wrapErr(err, "get", "complaint", complaintID)
		}
		c, err := decodeComplaint(doc)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		out = c
		return tx.Set(ref, c)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
