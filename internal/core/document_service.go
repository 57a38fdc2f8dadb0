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

type documentService struct {
	documents db.DocumentRepository
	members   db.MemberRepository
	files     FileStore
	audit     AuditService
	maxUpload int64
	logger    *zap.Logger
	now       func() time.Time
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(
	documents db.DocumentRepository,
	members db.MemberRepository,
	files FileStore,
	audit AuditService,
	maxUpload int64,
	logger *zap.Logger,
) DocumentService {
	return &documentService{
		documents: documents,
		members:   members,
		files:     files,
		audit:     audit,
		maxUpload: maxUpload,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *documentService) sign(docs []*models.Document) []*models.Document {
	for _, d := range docs {
		d.URL = signURL(s.files, s.logger, d.Path)
	}
	return docs
}

func (s *documentService) ListOwn(ctx context.Context, actor Actor) ([]*models.Document, error) {
	m, err := s.members.GetByID(ctx, actor.ID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrNotAMember, err)
	}
	if err != nil {
		return nil, err
	}
	return s.ListForAccount(ctx, m.AccountNumber)
}

func (s *documentService) ListForAccount(ctx context.Context, accountNumber string) ([]*models.Document, error) {
	docs, err := s.documents.ListByAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return s.sign(docs), nil
}

// Upload stores a document for an account. Staff only.
func (s *documentService) Upload(ctx context.Context, actor Actor, accountNumber string, req models.UploadDocumentRequest, file Upload) (*models.Document, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only officers can upload member documents", ErrForbidden)
	}
	if err := checkUpload(file, s.maxUpload, ""); err != nil {
		return nil, err
	}
	title := sanitize.Line(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidContent)
	}

	obj, err := s.files.Upload(ctx, "documents/"+accountNumber, file.Name, file.ContentType, file.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}
	d := &models.Document{
		AccountNumber: accountNumber,
		Title:         title,
		Category:      sanitize.Line(req.Category),
		Path:          obj.Path,
		FileName:      sanitize.Line(file.Name),
		ContentType:   file.ContentType,
		Size:          obj.Size,
		UploadedBy:    actor.ID,
		CreatedAt:     s.now().UTC(),
	}
	if _, err := s.documents.Create(ctx, d); err != nil {
		deleteObject(ctx, s.files, s.logger, obj.Path)
		return nil, err
	}

	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID: actor.ID, Action: ActionDocumentUpload, TargetType: "DOCUMENT", TargetID: d.ID,
		Details: map[string]interface{}{"accountNumber": accountNumber, "title": title},
	})
	d.URL = signURL(s.files, s.logger, d.Path)
	return d, nil
}

func (s *documentService) Delete(ctx context.Context, actor Actor, documentID string) error {
	if !actor.IsStaff() {
		return fmt.Errorf("%w: only officers can delete member documents", ErrForbidden)
	}
	d, err := s.documents.GetByID(ctx, documentID)
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrDocumentNotFound, err)
	}
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, documentID); err != nil {
		return err
	}
	deleteObject(ctx, s.files, s.logger, d.Path)

	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID: actor.ID, Action: ActionDocumentDelete, TargetType: "DOCUMENT", TargetID: documentID,
		Details: map[string]interface{}{"accountNumber": d.AccountNumber},
	})
	return nil
}
