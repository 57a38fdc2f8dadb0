package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"hoa-backend-go/internal/models"
)

const contributionsCollection = "contributions"

type firestoreContributionRepository struct {
	client *firestore.Client
}

// NewFirestoreContributionRepository creates a ContributionRepository backed by client.
func NewFirestoreContributionRepository(client *firestore.Client) ContributionRepository {
	return &firestoreContributionRepository{client: client}
}

func decodeContribution(doc *firestore.DocumentSnapshot) (*models.Contribution, error) {
	var c models.Contribution
	if err := doc.DataTo(&c); err != nil {
		return nil, fmt.Errorf("failed to decode contribution '%s': %w", doc.Ref.ID, err)
	}
	c.ID = doc.Ref.ID
	return &c, nil
}

func (r *firestoreContributionRepository) Create(ctx context.Context, contribution *models.Contribution) (string, error) {
	ref := r.client.Collection(contributionsCollection).NewDoc()
	contribution.ID = ref.ID
	if _, err := ref.Create(ctx, contribution); err != nil {
		return "", fmt.Errorf("failed to create contribution: %w", err)
	}
	return ref.ID, nil
}

func (r *firestoreContributionRepository) GetByID(ctx context.Context, contributionID string) (*models.Contribution, error) {
	doc, err := r.client.Collection(contributionsCollection).Doc(contributionID).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get", "contribution", contributionID)
	}
	return decodeContribution(doc)
}

// ListByAccount returns an account's contributions, newest month first.
// A zero year returns every year.
func (r *firestoreContributionRepository) ListByAccount(ctx context.Context, accountNumber string, year int) ([]*models.Contribution, error) {
	q := r.client.Collection(contributionsCollection).Where("accountNumber", "==", accountNumber)
	if year > 0 {
		q = q.Where("month", ">=", fmt.Sprintf("%04d-01", year)).
			Where("month", "<=", fmt.Sprintf("%04d-12", year))
	}
	q = q.OrderBy("month", firestore.Desc).OrderBy("createdAt", firestore.Desc)

	contributions, err := readAll(q.Documents(ctx), decodeContribution)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions of account '%s': %w", accountNumber, err)
	}
	return contributions, nil
}

func (r *firestoreContributionRepository) Mutate(ctx context.Context, contributionID string, fn func(*models.Contribution) error) (*models.Contribution, error) {
	ref := r.client.Collection(contributionsCollection).Doc(contributionID)

	var out *models.Contribution
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return wrapErr(err, "get", "contribution", contributionID)
		}
		c, err := decodeContribution(doc)
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
