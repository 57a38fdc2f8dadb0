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

// MaxAttachments is the number of files a complaint may carry.
const MaxAttachments = 5

// complaintTransitions lists the statuses each status may move to.
var complaintTransitions = map[string][]string{
	models.ComplaintPending:    {models.ComplaintInProgress, models.ComplaintDismissed},
	models.ComplaintInProgress: {models.ComplaintResolved, models.ComplaintDismissed},
}

// CanTransition reports whether a complaint may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range complaintTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsComplaintStatus reports whether status is a known complaint status.
func IsComplaintStatus(status string) bool {
	switch status {
	case models.ComplaintPending, models.ComplaintInProgress, models.ComplaintResolved, models.ComplaintDismissed:
		return true
	}
	return false
}

type complaintService struct {
	complaints db.ComplaintRepository
	members    db.MemberRepository
	files      FileStore
	audit      AuditService
	notifier   Notifier
	maxUpload  int64
	logger     *zap.Logger
	now        func() time.Time
}

// NewComplaintService creates a ComplaintService.
func NewComplaintService(
	complaints db.ComplaintRepository,
	members db.MemberRepository,
	files FileStore,
	audit AuditService,
	notifier Notifier,
	maxUpload int64,
	logger *zap.Logger,
) ComplaintService {
	return &complaintService{
		complaints: complaints,
		members:    members,
		files:      files,
		audit:      audit,
		notifier:   notifier,
		maxUpload:  maxUpload,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *complaintService) signAttachments(c *models.Complaint) *models.Complaint {
	for i := range c.Attachments {
		c.Attachments[i].URL = signURL(s.files, s.logger, c.Attachments[i].Path)
	}
	return c
}

// File records a complaint with up to MaxAttachments files.
func (s *complaintService) File(ctx context.Context, actor Actor, req models.CreateComplaintRequest, attachments []Upload) (*models.Complaint, error) {
	if len(attachments) > MaxAttachments {
		return nil, fmt.Errorf("%w: %d files, at most %d", ErrTooManyAttachments, len(attachments), MaxAttachments)
	}
	for _, a := range attachments {
		if err := checkUpload(a, s.maxUpload, ""); err != nil {
			return nil, err
		}
	}
	subject := sanitize.Line(req.Subject)
	body := sanitize.Text(req.Body)
	if subject == "" || body == "" {
		return nil, fmt.Errorf("%w: subject and body are required", ErrInvalidContent)
	}

	m, err := s.members.GetByID(ctx, actor.ID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrNotAMember, err)
	}
	if err != nil {
		return nil, err
	}

	stored := make([]models.Attachment, 0, len(attachments))
	cleanup := func() {
		for _, a := range stored {
			deleteObject(ctx, s.files, s.logger, a.Path)
		}
	}
	for _, a := range attachments {
		obj, err := s.files.Upload(ctx, "complaints/"+actor.ID, a.Name, a.ContentType, a.Reader)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to upload attachment %q: %w", a.Name, err)
		}
		stored = append(stored, models.Attachment{Path: obj.Path, Name: sanitize.Line(a.Name), Size: obj.Size, Type: a.ContentType})
	}

	now := s.now().UTC()
	c := &models.Complaint{
		SubmitterID:   actor.ID,
		SubmitterName: m.FullName(),
		AccountNumber: m.AccountNumber,
		Subject:       subject,
		Body:          body,
		Status:        models.ComplaintPending,
		Attachments:   stored,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.complaints.Create(ctx, c); err != nil {
		cleanup()
		return nil, err
	}

	s.notifier.Notify(ctx, models.NotificationEvent{
		Type:     models.NotifyComplaintFiled,
		Title:    "New complaint: " + c.Subject,
		Body:     fmt.Sprintf("Filed by %s (%s).", c.SubmitterName, c.AccountNumber),
		Audience: models.AudienceStaff,
		Data:     map[string]string{"complaintId": c.ID},
	})
	return s.signAttachments(c), nil
}

// List returns the actor's complaints; staff see everyone's.
func (s *complaintService) List(ctx context.Context, actor Actor, status string) ([]*models.Complaint, error) {
	if status != "" && !IsComplaintStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidQuery, status)
	}
	if actor.IsStaff() {
		return s.complaints.List(ctx, status)
	}
	own, err := s.complaints.ListBySubmitter(ctx, actor.ID)
	if err != nil || status == "" {
		return own, err
	}
	filtered := make([]*models.Complaint, 0, len(own))
	for _, c := range own {
		if c.Status == status {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func (s *complaintService) Get(ctx context.Context, actor Actor, complaintID string) (*models.Complaint, error) {
	c, err := s.complaints.GetByID(ctx, complaintID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrComplaintNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	if c.SubmitterID != actor.ID && !actor.IsStaff() {
		return nil, fmt.Errorf("%w: complaint '%s'", ErrForbidden, complaintID)
	}
	return s.signAttachments(c), nil
}

func (s *complaintService) UpdateStatus(ctx context.Context, actor Actor, complaintID string, req models.UpdateComplaintStatusRequest) (*models.Complaint, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only officers can update complaints", ErrForbidden)
	}

	var from string
	c, err := s.complaints.Mutate(ctx, complaintID, func(c *models.Complaint) error {
		if !CanTransition(c.Status, req.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, c.Status, req.Status)
		}
		from = c.Status
		c.Status = req.Status
		if note := sanitize.Text(req.ResolutionNote); note != "" {
			c.ResolutionNote = note
		}
		c.UpdatedAt = s.now().UTC()
		return nil
	})
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrComplaintNotFound, err)
	}
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID:     actor.ID,
		Action:     ActionComplaintStatusUpdate,
		TargetType: "COMPLAINT",
		TargetID:   c.ID,
		Details:    map[string]interface{}{"from": from, "to": c.Status},
	})
	s.notifier.Notify(ctx, models.NotificationEvent{
		Type:       models.NotifyComplaintStatus,
		Title:      "Complaint update: " + c.Subject,
		Body:       "Status changed to " + c.Status + ".",
		Recipients: []string{c.SubmitterID},
		Data:       map[string]string{"complaintId": c.ID, "status": c.Status},
	})
	return s.signAttachments(c), nil
}
