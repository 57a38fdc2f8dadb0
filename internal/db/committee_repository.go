package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"hoa-backend-go/internal/models"
)

const committeeCollection = "committee"

type firestoreCommitteeRepository struct {
	client *firestore.Client
}

// NewFirestoreCommitteeRepository creates a CommitteeRepository backed by client.
func NewFirestoreCommitteeRepository(client *firestore.Client) CommitteeRepository {
	return &firestoreCommitteeRepository{client: client}
}

func decodeCommitteeMember(doc *firestore.DocumentSnapshot) (*models.CommitteeMember, error) {
	var m models.CommitteeMember
	if err := doc.DataTo(&m); err != nil {
		return nil, fmt.Errorf("failed to decode committee member '%s': %w", doc.Ref.ID, err)
	}
	m.ID = doc.Ref.ID
	return &m, nil
}

func (r *firestoreCommitteeRepository) Create(ctx context.Context, member *models.CommitteeMember) (string, error) {
	ref := r.client.Collection(committeeCollection).NewDoc()
	member.ID = ref.ID
	if _, err := ref.Create(ctx, member); err != nil {
		return "", fmt.Errorf("failed to create committee member: %w", err)
	}
	return ref.ID, nil
}

func (r *firestoreCommitteeRepository) GetByID(ctx context.Context, id string) (*models.CommitteeMember, error) {
	doc, err := r.client.Collection(committeeCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get", "committee member", id)
	}
	return decodeCommitteeMember(doc)
}

// List returns the committee ordered by display order, then name.
func (r *firestoreCommitteeRepository) List(ctx context.Context) ([]*models.CommitteeMember, error) {
	q := r.client.Collection(committeeCollection).
		OrderBy("order", firestore.Asc).
		OrderBy("name", firestore.Asc)
	members, err := readAll(q.Documents(ctx), decodeCommitteeMember)
	if err != nil {
		return nil, fmt.Errorf("failed to list committee: %w", err)
	}
	return members, nil
}

func (r *firestoreCommitteeRepository) Update(ctx context.Context, member *models.CommitteeMember) error {
	if _, err := r.client.Collection(committeeCollection).Doc(member.ID).Set(ctx, member); err != nil {
		return wrapErr(err, "update", "committee member", member.ID)
	}
	return nil
}

func (r *firestoreCommitteeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(committeeCollection).Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return wrapErr(err, "delete", "committee member", id)
	}
	return nil
}
