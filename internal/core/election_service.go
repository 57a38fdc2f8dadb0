package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/models"
	"hoa-backend-go/internal/sanitize"
	"hoa-backend-go/pkg/cache"
)

type electionService struct {
	elections db.ElectionRepository
	members   db.MemberRepository
	files     FileStore
	cache     cache.Cache
	cacheTTL  time.Duration
	audit     AuditService
	maxUpload int64
	logger    *zap.Logger
	now       func() time.Time
}

// NewElectionService creates an ElectionService. Tallies are cached in c for ttl.
func NewElectionService(
	elections db.ElectionRepository,
	members db.MemberRepository,
	files FileStore,
	c cache.Cache,
	ttl time.Duration,
	audit AuditService,
	maxUpload int64,
	logger *zap.Logger,
) ElectionService {
	return &electionService{
		elections: elections,
		members:   members,
		files:     files,
		cache:     c,
		cacheTTL:  ttl,
		audit:     audit,
		maxUpload: maxUpload,
		logger:    logger,
		now:       time.Now,
	}
}

func resultsKey(electionID string) string {
	return "election:results:" + electionID
}

func (s *electionService) load(ctx context.Context, electionID string) (*models.Election, error) {
	e, err := s.elections.GetByID(ctx, electionID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrElectionNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	e.Status = e.StatusAt(s.now())
	return e, nil
}

func (s *electionService) candidates(ctx context.Context, electionID string) ([]*models.Candidate, error) {
	candidates, err := s.elections.ListCandidates(ctx, electionID)
	if err != nil {
		return nil, err
	}
	for _, c := range candidates {
		c.PhotoURL = signURL(s.files, s.logger, c.PhotoPath)
	}
	return candidates, nil
}

func (s *electionService) List(ctx context.Context, actor Actor) ([]*models.Election, error) {
	elections, err := s.elections.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(elections))
	for _, e := range elections {
		ids = append(ids, e.ID)
	}
	voted, err := s.elections.VotedIn(ctx, ids, actor.ID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, e := range elections {
		e.Status = e.StatusAt(now)
		e.HasVoted = voted[e.ID]
	}
	return elections, nil
}

// Get returns the election with its candidates grouped by position in ballot order.
func (s *electionService) Get(ctx context.Context, actor Actor, electionID string) (*ElectionDetail, error) {
	e, err := s.load(ctx, electionID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates(ctx, electionID)
	if err != nil {
		return nil, err
	}
	voted, err := s.elections.VotedIn(ctx, []string{electionID}, actor.ID)
	if err != nil {
		return nil, err
	}
	e.HasVoted = voted[electionID]

	byPosition := map[string][]*models.Candidate{}
	for _, c := range candidates {
		byPosition[c.Position] = append(byPosition[c.Position], c)
	}
	groups := []CandidateGroup{}
	for _, position := range positionOrder(e.Positions, candidates) {
		list := byPosition[position]
		if list == nil {
			list = []*models.Candidate{}
		}
		groups = append(groups, CandidateGroup{Position: position, Candidates: list})
	}
	return &ElectionDetail{Election: e, Candidates: groups}, nil
}

func (s *electionService) Create(ctx context.Context, actor Actor, req models.CreateElectionRequest) (*models.Election, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can create elections", ErrForbidden)
	}
	title := sanitize.Line(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidElection)
	}
	if !req.EndAt.After(req.StartAt) {
		return nil, fmt.Errorf("%w: endAt must be after startAt", ErrInvalidElection)
	}
	positions := make([]string, 0, len(req.Positions))
	seen := map[string]bool{}
	for _, p := range req.Positions {
		p = sanitize.Line(p)
		if p == "" || seen[strings.ToLower(p)] {
			return nil, fmt.Errorf("%w: positions must be non-empty and unique", ErrInvalidElection)
		}
		seen[strings.ToLower(p)] = true
		positions = append(positions, p)
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: at least one position is required", ErrInvalidElection)
	}

	e := &models.Election{
		Title:       title,
		Description: sanitize.Text(req.Description),
		StartAt:     req.StartAt.UTC(),
		EndAt:       req.EndAt.UTC(),
		Positions:   positions,
		CreatedBy:   actor.ID,
		CreatedAt:   s.now().UTC(),
	}
	if _, err := s.elections.Create(ctx, e); err != nil {
		return nil, err
	}
	e.Status = e.StatusAt(s.now())

	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID: actor.ID, Action: ActionElectionCreate, TargetType: "ELECTION", TargetID: e.ID,
		Details: map[string]interface{}{"title": e.Title, "positions": e.Positions},
	})
	return e, nil
}

// AddCandidate registers a candidate while the election is still upcoming.
func (s *electionService) AddCandidate(ctx context.Context, actor Actor, electionID string, req models.CreateCandidateRequest, photo *Upload) (*models.Candidate, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can manage candidates", ErrForbidden)
	}
	e, err := s.load(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if e.Status != models.ElectionUpcoming {
		return nil, fmt.Errorf("%w: election '%s' is %s", ErrElectionStarted, electionID, e.Status)
	}
	c := &models.Candidate{
		ElectionID: electionID,
		Name:       sanitize.Line(req.Name),
		Position:   sanitize.Line(req.Position),
		Platform:   sanitize.Text(req.Platform),
	}
	if c.Name == "" {
		return nil, fmt.Errorf("%w: candidate name is required", ErrInvalidElection)
	}
	if !contains(e.Positions, c.Position) {
		return nil, fmt.Errorf("%w: position %q is not on the ballot", ErrInvalidElection, c.Position)
	}

	if photo != nil {
		if err := checkUpload(*photo, s.maxUpload, "image/"); err != nil {
			return nil, err
		}
		obj, err := s.files.Upload(ctx, "elections/"+electionID+"/candidates", photo.Name, photo.ContentType, photo.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to upload candidate photo: %w", err)
		}
		c.PhotoPath = obj.Path
	}

	if _, err := s.elections.AddCandidate(ctx, c); err != nil {
		deleteObject(ctx, s.files, s.logger, c.PhotoPath)
		return nil, err
	}
	c.PhotoURL = signURL(s.files, s.logger, c.PhotoPath)

	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID: actor.ID, Action: ActionCandidateAdd, TargetType: "ELECTION", TargetID: electionID,
		Details: map[string]interface{}{"candidateId": c.ID, "position": c.Position},
	})
	return c, nil
}

func (s *electionService) DeleteCandidate(ctx context.Context, actor Actor, electionID, candidateID string) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: only admins can manage candidates", ErrForbidden)
	}
	e, err := s.load(ctx, electionID)
	if err != nil {
		return err
	}
	if e.Status != models.ElectionUpcoming {
		return fmt.Errorf("%w: election '%s' is %s", ErrElectionStarted, electionID, e.Status)
	}
	c, err := s.elections.GetCandidate(ctx, electionID, candidateID)
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrCandidateNotFound, err)
	}
	if err != nil {
		return err
	}
	if err := s.elections.DeleteCandidate(ctx, electionID, candidateID); err != nil {
		return err
	}
	deleteObject(ctx, s.files, s.logger, c.PhotoPath)

	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID: actor.ID, Action: ActionCandidateDelete, TargetType: "ELECTION", TargetID: electionID,
		Details: map[string]interface{}{"candidateId": candidateID},
	})
	return nil
}

// CastVote records the actor's ballot. The ballot must name only positions on
// the election and candidates running for them; one ballot per voter.
func (s *electionService) CastVote(ctx context.Context, actor Actor, electionID string, req models.CastVoteRequest) (*models.Vote, error) {
	e, err := s.load(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if e.Status != models.ElectionOngoing {
		return nil, fmt.Errorf("%w: election '%s' is %s", ErrElectionNotOpen, electionID, e.Status)
	}
	if len(req.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrInvalidBallot)
	}

	candidates, err := s.elections.ListCandidates(ctx, electionID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}
	for position, candidateID := range req.Choices {
		if !contains(e.Positions, position) {
			return nil, fmt.Errorf("%w: position %q is not on the ballot", ErrInvalidBallot, position)
		}
		c, ok := byID[candidateID]
		if !ok || c.Position != position {
			return nil, fmt.Errorf("%w: candidate '%s' is not running for %q", ErrInvalidBallot, candidateID, position)
		}
	}

	vote := &models.Vote{
		ElectionID: electionID,
		VoterID:    actor.ID,
		Choices:    req.Choices,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.elections.CreateVote(ctx, vote); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %v", ErrAlreadyVoted, err)
		}
		return nil, err
	}

	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID:     actor.ID,
		Action:     ActionVoteCast,
		TargetType: "ELECTION",
		TargetID:   electionID,
		Details:    map[string]interface{}{"positions": len(vote.Choices)},
	})
	if err := s.cache.Delete(ctx, resultsKey(electionID)); err != nil {
		s.logger.Warn("failed to invalidate results cache", zap.String("election_id", electionID), zap.Error(err))
	}
	return vote, nil
}

func (s *electionService) MyVote(ctx context.Context, actor Actor, electionID string) (*models.Vote, error) {
	v, err := s.elections.GetVote(ctx, electionID, actor.ID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrVoteNotFound, err)
	}
	return v, err
}

// visible loads the election and checks that actor may see its results:
// members once it has ended, staff at any time.
func (s *electionService) visible(ctx context.Context, actor Actor, electionID string) (*models.Election, error) {
	e, err := s.load(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if e.Status != models.ElectionEnded && !actor.IsStaff() {
		return nil, fmt.Errorf("%w: election '%s' is %s", ErrResultsSealed, electionID, e.Status)
	}
	return e, nil
}

func (s *electionService) Results(ctx context.Context, actor Actor, electionID string) (*models.ElectionResults, error) {
	e, err := s.visible(ctx, actor, electionID)
	if err != nil {
		return nil, err
	}

	key := resultsKey(electionID)
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("results cache read failed", zap.String("election_id", electionID), zap.Error(err))
	} else if ok {
		var cached models.ElectionResults
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			cached.Status = e.Status
			return &cached, nil
		}
	}

	var (
		candidates []*models.Candidate
		votes      []*models.Vote
		eligible   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		candidates, err = s.candidates(gctx, electionID)
		return err
	})
	g.Go(func() (err error) {
		votes, err = s.elections.ListVotes(gctx, electionID)
		return err
	})
	g.Go(func() (err error) {
		eligible, err = s.members.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := BuildResults(e, candidates, votes, eligible, s.now())
	if raw, err := json.Marshal(res); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
			s.logger.Warn("results cache write failed", zap.String("election_id", electionID), zap.Error(err))
		}
	}
	return res, nil
}

// WatchResults re-tallies on every change to the election's ballots until ctx ends.
// Candidates may still change while the election is upcoming, so they are
// reloaded with each snapshot until one is taken after the election starts.
func (s *electionService) WatchResults(ctx context.Context, actor Actor, electionID string, fn func(*models.ElectionResults) error) error {
	e, err := s.visible(ctx, actor, electionID)
	if err != nil {
		return err
	}
	candidates, err := s.candidates(ctx, electionID)
	if err != nil {
		return err
	}
	frozen := !s.now().Before(e.StartAt)
	eligible, err := s.members.Count(ctx)
	if err != nil {
		return err
	}
	first := true
	return s.elections.WatchVotes(ctx, electionID, func(votes []*models.Vote) error {
		if !frozen && !first {
			loadedAt := s.now()
			fresh, err := s.candidates(ctx, electionID)
			if err != nil {
				s.logger.Warn("failed to reload candidates for results stream", zap.String("election_id", electionID), zap.Error(err))
			} else {
				candidates = fresh
				frozen = !loadedAt.Before(e.StartAt)
			}
		}
		first = false
		return fn(BuildResults(e, candidates, votes, eligible, s.now()))
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
