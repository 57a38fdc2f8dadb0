package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"hoa-backend-go/internal/models"
)

const (
	electionsCollection  = "elections"
	candidatesCollection = "candidates"
	votesCollection      = "votes"
)

// firestoreElectionRepository implements ElectionRepository using Firestore.
// Ballots live in a top-level votes collection keyed by models.VoteID so that
// uniqueness is enforced by document creation rather than a read-then-write.
type firestoreElectionRepository struct {
	client *firestore.Client
}

// NewFirestoreElectionRepository creates an ElectionRepository backed by client.
func NewFirestoreElectionRepository(client *firestore.Client) ElectionRepository {
	return &firestoreElectionRepository{client: client}
}

func (r *firestoreElectionRepository) elections() *firestore.CollectionRef {
	return r.client.Collection(electionsCollection)
}

func (r *firestoreElectionRepository) candidates(electionID string) *firestore.CollectionRef {
	return r.elections().Doc(electionID).Collection(candidatesCollection)
}

func decodeElection(doc *firestore.DocumentSnapshot) (*models.Election, error) {
	var e models.Election
	if err := doc.DataTo(&e); err != nil {
		return nil, fmt.Errorf("failed to decode election '%s': %w", doc.Ref.ID, err)
	}
	e.ID = doc.Ref.ID
	return &e, nil
}

func decodeCandidate(doc *firestore.DocumentSnapshot) (*models.Candidate, error) {
	var c models.Candidate
	if err := doc.DataTo(&c); err != nil {
		return nil, fmt.Errorf("failed to decode candidate '%s': %w", doc.Ref.ID, err)
	}
	c.ID = doc.Ref.ID
	c.ElectionID = doc.Ref.Parent.Parent.ID
	return &c, nil
}

func decodeVote(doc *firestore.DocumentSnapshot) (*models.Vote, error) {
	var v models.Vote
	if err := doc.DataTo(&v); err != nil {
		return nil, fmt.Errorf("failed to decode vote '%s': %w", doc.Ref.ID, err)
	}
	v.ID = doc.Ref.ID
	return &v, nil
}

func (r *firestoreElectionRepository) Create(ctx context.Context, election *models.Election) (string, error) {
	ref := r.elections().NewDoc()
	election.ID = ref.ID
	if _, err := ref.Create(ctx, election); err != nil {
		return "", fmt.Errorf("failed to create election: %w", err)
	}
	return ref.ID, nil
}

func (r *firestoreElectionRepository) GetByID(ctx context.Context, electionID string) (*models.Election, error) {
	doc, err := r.elections().Doc(electionID).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get", "election", electionID)
	}
	return decodeElection(doc)
}

// List returns all elections, most recently started first.
func (r *firestoreElectionRepository) List(ctx context.Context) ([]*models.Election, error) {
	elections, err := readAll(r.elections().OrderBy("startAt", firestore.Desc).Documents(ctx), decodeElection)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}
	return elections, nil
}

func (r *firestoreElectionRepository) AddCandidate(ctx context.Context, candidate *models.Candidate) (string, error) {
	ref := r.candidates(candidate.ElectionID).NewDoc()
	candidate.ID = ref.ID
	if _, err := ref.Create(ctx, candidate); err != nil {
		return "", fmt.Errorf("failed to create candidate for election '%s': %w", candidate.ElectionID, err)
	}
	return ref.ID, nil
}

func (r *firestoreElectionRepository) GetCandidate(ctx context.Context, electionID, candidateID string) (*models.Candidate, error) {
	doc, err := r.candidates(electionID).Doc(candidateID).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get", "candidate", candidateID)
	}
	return decodeCandidate(doc)
}

// ListCandidates returns an election's candidates ordered by position, then name.
func (r *firestoreElectionRepository) ListCandidates(ctx context.Context, electionID string) ([]*models.Candidate, error) {
	q := r.candidates(electionID).OrderBy("position", firestore.Asc).OrderBy("name", firestore.Asc)
	candidates, err := readAll(q.Documents(ctx), decodeCandidate)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates of election '%s': %w", electionID, err)
	}
	return candidates, nil
}

func (r *firestoreElectionRepository) DeleteCandidate(ctx context.Context, electionID, candidateID string) error {
	if _, err := r.candidates(electionID).Doc(candidateID).Delete(ctx, firestore.Exists); err != nil {
		return wrapErr(err, "delete", "candidate", candidateID)
	}
	return nil
}

// CreateVote writes the ballot with create-only semantics on its deterministic ID.
func (r *firestoreElectionRepository) CreateVote(ctx context.Context, vote *models.Vote) error {
	vote.ID = models.VoteID(vote.ElectionID, vote.VoterID)
	if _, err := r.client.Collection(votesCollection).Doc(vote.ID).Create(ctx, vote); err != nil {
		return wrapErr(err, "create", "vote", vote.ID)
	}
	return nil
}

func (r *firestoreElectionRepository) GetVote(ctx context.Context, electionID, voterID string) (*models.Vote, error) {
	id := models.VoteID(electionID, voterID)
	doc, err := r.client.Collection(votesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get", "vote", id)
	}
	return decodeVote(doc)
}

func (r *firestoreElectionRepository) votesOf(electionID string) firestore.Query {
	return r.client.Collection(votesCollection).Where("electionId", "==", electionID)
}

func (r *firestoreElectionRepository) ListVotes(ctx context.Context, electionID string) ([]*models.Vote, error) {
	votes, err := readAll(r.votesOf(electionID).Documents(ctx), decodeVote)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes of election '%s': %w", electionID, err)
	}
	return votes, nil
}

// VotedIn reports, for each of electionIDs, whether voterID has cast a ballot.
func (r *firestoreElectionRepository) VotedIn(ctx context.Context, electionIDs []string, voterID string) (map[string]bool, error) {
	voted := make(map[string]bool, len(electionIDs))
	if len(electionIDs) == 0 {
		return voted, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(electionIDs))
	for _, id := range electionIDs {
		refs = append(refs, r.client.Collection(votesCollection).Doc(models.VoteID(id, voterID)))
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to load ballots of '%s': %w", voterID, err)
	}
	for i, snap := range snaps {
		voted[electionIDs[i]] = snap.Exists()
	}
	return voted, nil
}

// WatchVotes calls fn with the election's full ballot set on every change.
func (r *firestoreElectionRepository) WatchVotes(ctx context.Context, electionID string, fn func([]*models.Vote) error) error {
	return watch(ctx, r.votesOf(electionID), func(snap *firestore.QuerySnapshot) error {
		votes, err := readAll(snap.Documents, decodeVote)
		if err != nil {
			return err
		}
		return fn(votes)
	})
}
