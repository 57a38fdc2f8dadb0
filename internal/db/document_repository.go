package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"hoa-backend-go/internal/models"
)

const documentsCollection = "documents"

type firestoreDocumentRepository struct {
	client *firestore.Client
}

// NewFirestoreDocumentRepository creates a DocumentRepository backed by client.
func NewFirestoreDocumentRepository(client *firestore.Client) DocumentRepository {
	return &firestoreDocumentRepository{client: client}
}

func decodeDocument(doc *firestore.DocumentSnapshot) (*models.Document, error) {
	var d models.Document
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to decode document '%s': %w", doc.Ref.ID, err)
	}
	d.ID = doc.Ref.ID
	return &d, nil
}

func (r *firestoreDocumentRepository) Create(ctx context.Context, d *models.Document) (string, error) {
	ref := r.client.Collection(documentsCollection).NewDoc()
	d.ID = ref.ID
	if _, err := ref.Create(ctx, d); err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}
	return ref.ID, nil
}

func (r *firestoreDocumentRepository) GetByID(ctx context.Context, documentID string) (*models.Document, error) {
	doc, err := r.client.Collection(documentsCollection).Doc(documentID).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get", "document", documentID)
	}
	return decodeDocument(doc)
}

// ListByAccount returns an account's documents, newest first.
func (r *firestoreDocumentRepository) ListByAccount(ctx context.Context, accountNumber string) ([]*models.Document, error) {
	q := r.client.Collection(documentsCollection).
		Where("accountNumber", "==", accountNumber).
		OrderBy("createdAt", firestore.Desc)
	docs, err := readAll(q.Documents(ctx), decodeDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents of account '%s': %w", accountNumber, err)
	}
	return docs, nil
}

func (r *firestoreDocumentRepository) Delete(ctx context.Context, documentID string) error {
	if _, err := r.client.Collection(documentsCollection).Doc(documentID).Delete(ctx, firestore.Exists); err != nil {
		return wrapErr(err, "delete", "document", documentID)
	}
	return nil
}
