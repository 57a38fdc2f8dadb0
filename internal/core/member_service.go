package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hoa-backend-go/internal/crypto"
	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/models"
	"hoa-backend-go/internal/sanitize"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type memberService struct {
	members       db.MemberRepository
	contributions db.ContributionRepository
	complaints    db.ComplaintRepository
	cipher        FieldCipher
	files         FileStore
	maxUpload     int64
	logger        *zap.Logger
	now           func() time.Time
}

// NewMemberService creates a MemberService.
func NewMemberService(
	members db.MemberRepository,
	contributions db.ContributionRepository,
	complaints db.ComplaintRepository,
	cipher FieldCipher,
	files FileStore,
	maxUpload int64,
	logger *zap.Logger,
) MemberService {
	return &memberService{
		members:       members,
		contributions: contributions,
		complaints:    complaints,
		cipher:        cipher,
		files:         files,
		maxUpload:     maxUpload,
		logger:        logger,
		now:           time.Now,
	}
}

// ClampPage applies the default and maximum page size.
func ClampPage(page db.Page) db.Page {
	if page.Limit <= 0 {
		page.Limit = defaultPageSize
	}
	if page.Limit > maxPageSize {
		page.Limit = maxPageSize
	}
	return page
}

func (s *memberService) load(ctx context.Context, memberID string) (*models.Member, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrMemberNotFound, err)
	}
	return m, err
}

// present decrypts the contact number for staff and the member themself and
// masks it for everyone else. Photo URLs are signed.
func (s *memberService) present(actor Actor, m *models.Member) *models.Member {
	if m.ContactNumber != "" {
		plain, err := s.cipher.Decrypt(m.ContactNumber)
		if err != nil {
			s.logger.Warn("failed to decrypt contact number", zap.String("member_id", m.ID), zap.Error(err))
			plain = ""
		}
		if actor.ID != m.ID && !actor.IsStaff() {
			plain = crypto.Mask(plain)
		}
		m.ContactNumber = plain
	}
	if m.PhotoPath != "" {
		m.PhotoURL = signURL(s.files, s.logger, m.PhotoPath)
	}
	return m
}

func (s *memberService) Get(ctx context.Context, actor Actor, memberID string) (*models.Member, error) {
	m, err := s.load(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return s.present(actor, m), nil
}

// matches reports whether m matches the lower-cased search terms q.
func matches(m *models.Member, q string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		m.FullName(), m.AccountNumber, m.Address.Block, m.Address.Lot, m.Address.Street,
	}, " "))
	for _, term := range strings.Fields(q) {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// List returns the directory ordered by last name. Firestore cannot do
// substring search, so a query filters the whole directory in memory and is
// then paged the same way.
func (s *memberService) List(ctx context.Context, actor Actor, query string, page db.Page) ([]*models.Member, error) {
	page = ClampPage(page)
	query = strings.ToLower(strings.TrimSpace(query))

	var members []*models.Member
	if query == "" {
		found, err := s.members.List(ctx, page)
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrMemberNotFound, err)
		}
		if err != nil {
			return nil, err
		}
		members = found
	} else {
		all, err := s.members.List(ctx, db.Page{})
		if err != nil {
			return nil, err
		}
		started := page.StartAfter == ""
		for _, m := range all {
			if !started {
				started = m.ID == page.StartAfter
				continue
			}
			if matches(m, query) {
				members = append(members, m)
				if len(members) == page.Limit {
					break
				}
			}
		}
		if !started {
			return nil, fmt.Errorf("%w: cursor member '%s' not found", ErrMemberNotFound, page.StartAfter)
		}
	}

	out := make([]*models.Member, 0, len(members))
	for _, m := range members {
		out = append(out, s.present(actor, m))
	}
	return out, nil
}

// Profile loads the member, this year's contribution summary and the number
// of open complaints.
func (s *memberService) Profile(ctx context.Context, actor Actor) (*Profile, error) {
	var (
		member   *models.Member
		openCnt  int
		contribs []*models.Contribution
	)
	now := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.load(gctx, actor.ID)
		if err != nil {
			return err
		}
		member = m
		contribs, err = s.contributions.ListByAccount(gctx, m.AccountNumber, now.Year())
		return err
	})
	g.Go(func() error {
		n, err := s.complaints.CountOpenBySubmitter(gctx, actor.ID)
		openCnt = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Profile{
		Member:         s.present(actor, member),
		Contributions:  Summarize(contribs, now.Year(), now),
		OpenComplaints: openCnt,
	}, nil
}

func (s *memberService) UpdateProfile(ctx context.Context, actor Actor, req models.UpdateProfileRequest) (*models.Member, error) {
	m, err := s.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		if m.FirstName = sanitize.Line(*req.FirstName); m.FirstName == "" {
			return nil, fmt.Errorf("%w: first name", ErrInvalidContent)
		}
	}
	if req.LastName != nil {
		if m.LastName = sanitize.Line(*req.LastName); m.LastName == "" {
			return nil, fmt.Errorf("%w: last name", ErrInvalidContent)
		}
	}
	if req.ContactNumber != nil {
		enc, err := s.cipher.Encrypt(sanitize.Line(*req.ContactNumber))
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt contact number: %w", err)
		}
		m.ContactNumber = enc
	}
	if req.Address != nil {
		m.Address = models.Address{
			Block:  sanitize.Line(req.Address.Block),
			Lot:    sanitize.Line(req.Address.Lot),
			Street: sanitize.Line(req.Address.Street),
		}
	}
	m.SearchName = strings.ToLower(m.FullName())
	m.UpdatedAt = s.now().UTC()

	if err := s.members.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update member '%s': %w", m.ID, err)
	}
	return s.present(actor, m), nil
}

// UpdatePhoto stores a new profile photo and removes the previous one.
func (s *memberService) UpdatePhoto(ctx context.Context, actor Actor, photo Upload) (*models.Member, error) {
	if err := checkUpload(photo, s.maxUpload, "image/"); err != nil {
		return nil, err
	}
	m, err := s.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	obj, err := s.files.Upload(ctx, "members/"+m.ID, photo.Name, photo.ContentType, photo.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}
	previous := m.PhotoPath
	m.PhotoPath = obj.Path
	m.PhotoURL = ""
	m.UpdatedAt = s.now().UTC()

	if err := s.members.Update(ctx, m); err != nil {
		deleteObject(ctx, s.files, s.logger, obj.Path)
		return nil, fmt.Errorf("failed to update member '%s': %w", m.ID, err)
	}
	deleteObject(ctx, s.files, s.logger, previous)
	return s.present(actor, m), nil
}
