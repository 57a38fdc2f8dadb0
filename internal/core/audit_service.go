package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/models"
)

// Audit actions.
const (
	ActionVoteCast                 = "VOTE_CAST"
	ActionElectionCreate           = "ELECTION_CREATE"
	ActionCandidateAdd             = "CANDIDATE_ADD"
	ActionCandidateDelete          = "CANDIDATE_DELETE"
	ActionComplaintStatusUpdate    = "COMPLAINT_STATUS_UPDATE"
	ActionContributionStatusUpdate = "CONTRIBUTION_STATUS_UPDATE"
	ActionPostDelete               = "POST_DELETE"
	ActionDocumentUpload           = "DOCUMENT_UPLOAD"
	ActionDocumentDelete           = "DOCUMENT_DELETE"
	ActionCommitteeChange          = "COMMITTEE_CHANGE"
	ActionEventChange              = "EVENT_CHANGE"
)

const maxAuditPage = 500

type auditService struct {
	auditRepo db.AuditRepository
}

// NewAuditService creates an AuditService.
func NewAuditService(auditRepo db.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error {
	if err := s.auditRepo.Create(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log via repository: %w", err)
	}
	return nil
}

// List returns the latest entries. limit is clamped to [1, 500] with 50 as default.
func (s *auditService) List(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	switch {
	case limit <= 0:
		limit = 50
	case limit > maxAuditPage:
		limit = maxAuditPage
	}
	return s.auditRepo.List(ctx, limit)
}

// recordAudit writes an audit entry, logging instead of failing the caller.
func recordAudit(ctx context.Context, audit AuditService, logger *zap.Logger, entry models.AuditLog) {
	if audit == nil {
		return
	}
	if err := audit.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("failed to create audit log",
			zap.String("action", entry.Action),
			zap.String("target_id", entry.TargetID),
			zap.Error(err),
		)
	}
}
