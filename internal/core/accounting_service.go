package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/models"
	"hoa-backend-go/internal/sanitize"
)

type accountingService struct {
	contributions db.ContributionRepository
	members       db.MemberRepository
	files         FileStore
	audit         AuditService
	notifier      Notifier
	maxUpload     int64
	logger        *zap.Logger
	now           func() time.Time
}

// NewAccountingService creates an AccountingService.
func NewAccountingService(
	contributions db.ContributionRepository,
	members db.MemberRepository,
	files FileStore,
	audit AuditService,
	notifier Notifier,
	maxUpload int64,
	logger *zap.Logger,
) AccountingService {
	return &accountingService{
		contributions: contributions,
		members:       members,
		files:         files,
		audit:         audit,
		notifier:      notifier,
		maxUpload:     maxUpload,
		logger:        logger,
		now:           time.Now,
	}
}

// Summarize totals contributions for year. Months of year up to the current
// month of now without a paid entry are unpaid; future months are neither.
func Summarize(contributions []*models.Contribution, year int, now time.Time) *models.ContributionSummary {
	sum := &models.ContributionSummary{Year: year, MonthsPaid: []string{}, MonthsUnpaid: []string{}}
	paid := map[string]bool{}
	for _, c := range contributions {
		switch c.Status {
		case models.ContributionPaid:
			sum.TotalPaid += c.Amount
			paid[c.Month] = true
		case models.ContributionPending:
			sum.TotalPending += c.Amount
		}
	}

	lastMonth := 12
	switch {
	case year > now.Year():
		lastMonth = 0
	case year == now.Year():
		lastMonth = int(now.Month())
	}
	for m := 1; m <= lastMonth; m++ {
		month := fmt.Sprintf("%04d-%02d", year, m)
		if !paid[month] {
			sum.MonthsUnpaid = append(sum.MonthsUnpaid, month)
		}
	}
	for month := range paid {
		sum.MonthsPaid = append(sum.MonthsPaid, month)
	}
	sort.Strings(sum.MonthsPaid)
	return sum
}

func (s *accountingService) list(ctx context.Context, accountNumber string, year int) (*ContributionList, error) {
	if year == 0 {
		year = s.now().Year()
	}
	contributions, err := s.contributions.ListByAccount(ctx, accountNumber, year)
	if err != nil {
		return nil, err
	}
	for _, c := range contributions {
		c.ProofURL = signURL(s.files, s.logger, c.ProofPath)
	}
	return &ContributionList{
		Contributions: contributions,
		Summary:       Summarize(contributions, year, s.now()),
	}, nil
}

func (s *accountingService) member(ctx context.Context, actor Actor) (*models.Member, error) {
	m, err := s.members.GetByID(ctx, actor.ID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrNotAMember, err)
	}
	return m, err
}

func (s *accountingService) ListOwn(ctx context.Context, actor Actor, year int) (*ContributionList, error) {
	m, err := s.member(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, m.AccountNumber, year)
}

func (s *accountingService) ListForAccount(ctx context.Context, accountNumber string, year int) (*ContributionList, error) {
	return s.list(ctx, accountNumber, year)
}

// Submit records a payment with its proof as pending until staff review it.
func (s *accountingService) Submit(ctx context.Context, actor Actor, req models.SubmitContributionRequest, proof Upload) (*models.Contribution, error) {
	if err := checkUpload(proof, s.maxUpload, ""); err != nil {
		return nil, err
	}
	m, err := s.member(ctx, actor)
	if err != nil {
		return nil, err
	}

	obj, err := s.files.Upload(ctx, "contributions/"+m.AccountNumber, proof.Name, proof.ContentType, proof.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload proof of payment: %w", err)
	}

	now := s.now().UTC()
	c := &models.Contribution{
		AccountNumber:   m.AccountNumber,
		Amount:          req.Amount,
		Month:           req.Month,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.ContributionPending,
		ReferenceNumber: sanitize.Line(req.ReferenceNumber),
		ProofPath:       obj.Path,
		SubmittedBy:     actor.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := s.contributions.Create(ctx, c); err != nil {
		deleteObject(ctx, s.files, s.logger, obj.Path)
		return nil, err
	}
	c.ProofURL = signURL(s.files, s.logger, c.ProofPath)

	s.notifier.Notify(ctx, models.NotificationEvent{
		Type:     models.NotifyContributionSubmitted,
		Title:    "Payment submitted for review",
		Body:     fmt.Sprintf("Account %s submitted a payment for %s.", c.AccountNumber, c.Month),
		Audience: models.AudienceStaff,
		Data:     map[string]string{"contributionId": c.ID},
	})
	return c, nil
}

// UpdateStatus lets staff confirm or reject a pending payment.
func (s *accountingService) UpdateStatus(ctx context.Context, actor Actor, contributionID string, req models.UpdateContributionStatusRequest) (*models.Contribution, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only officers can review payments", ErrForbidden)
	}
	if req.Status != models.ContributionPaid && req.Status != models.ContributionRejected {
		return nil, fmt.Errorf("%w: cannot set status %q", ErrInvalidStatus, req.Status)
	}

	var from string
	c, err := s.contributions.Mutate(ctx, contributionID, func(c *models.Contribution) error {
		if c.Status != models.ContributionPending {
			return fmt.Errorf("%w: contribution '%s' is %s", ErrInvalidStatus, c.ID, c.Status)
		}
		from = c.Status
		c.Status = req.Status
		c.Remarks = sanitize.Text(req.Remarks)
		c.UpdatedAt = s.now().UTC()
		return nil
	})
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrContributionNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	c.ProofURL = signURL(s.files, s.logger, c.ProofPath)

	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID:     actor.ID,
		Action:     ActionContributionStatusUpdate,
		TargetType: "CONTRIBUTION",
		TargetID:   c.ID,
		Details:    map[string]interface{}{"from": from, "to": c.Status, "accountNumber": c.AccountNumber},
	})
	if c.SubmittedBy != "" {
		s.notifier.Notify(ctx, models.NotificationEvent{
			Type:       models.NotifyContributionStatus,
			Title:      "Payment " + c.Status,
			Body:       fmt.Sprintf("Your payment for %s was marked %s.", c.Month, c.Status),
			Recipients: []string{c.SubmittedBy},
			Data:       map[string]string{"contributionId": c.ID, "status": c.Status},
		})
	}
	return c, nil
}
