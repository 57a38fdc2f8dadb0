package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/models"
	"hoa-backend-go/internal/sanitize"
)

type committeeService struct {
	committee db.CommitteeRepository
	audit     AuditService
	logger    *zap.Logger
}

// NewCommitteeService creates a CommitteeService.
func NewCommitteeService(committee db.CommitteeRepository, audit AuditService, logger *zap.Logger) CommitteeService {
	return &committeeService{committee: committee, audit: audit, logger: logger}
}

func committeeFromRequest(req models.CommitteeMemberRequest) (*models.CommitteeMember, error) {
	m := &models.CommitteeMember{
		Name:          sanitize.Line(req.Name),
		Position:      sanitize.Line(req.Position),
		PhotoURL:      req.PhotoURL,
		ContactNumber: sanitize.Line(req.ContactNumber),
		Email:         req.Email,
		Order:         req.Order,
		MemberID:      req.MemberID,
	}
	if m.Name == "" || m.Position == "" {
		return nil, fmt.Errorf("%w: name and position are required", ErrInvalidContent)
	}
	return m, nil
}

// List returns the directory ordered by Order, then name. Firestore sorts
// names case-sensitively, so the name order is settled here.
func (s *committeeService) List(ctx context.Context) ([]*models.CommitteeMember, error) {
	members, err := s.committee.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
	return members, nil
}

func (s *committeeService) Create(ctx context.Context, actor Actor, req models.CommitteeMemberRequest) (*models.CommitteeMember, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins manage the committee", ErrForbidden)
	}
	m, err := committeeFromRequest(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.committee.Create(ctx, m); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "create", m.ID)
	return m, nil
}

func (s *committeeService) Update(ctx context.Context, actor Actor, id string, req models.CommitteeMemberRequest) (*models.CommitteeMember, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins manage the committee", ErrForbidden)
	}
	if _, err := s.committee.GetByID(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrCommitteeMemberNotFound, err)
		}
		return nil, err
	}
	m, err := committeeFromRequest(req)
	if err != nil {
		return nil, err
	}
	m.ID = id
	if err := s.committee.Update(ctx, m); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "update", id)
	return m, nil
}

func (s *committeeService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: only admins manage the committee", ErrForbidden)
	}
	if err := s.committee.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrCommitteeMemberNotFound, err)
		}
		return err
	}
	s.record(ctx, actor, "delete", id)
	return nil
}

func (s *committeeService) record(ctx context.Context, actor Actor, op, id string) {
	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID: actor.ID, Action: ActionCommitteeChange, TargetType: "COMMITTEE_MEMBER", TargetID: id,
		Details: map[string]interface{}{"op": op},
	})
}
