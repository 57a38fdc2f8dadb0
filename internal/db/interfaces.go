package db

import (
	"context"
	"time"

	"hoa-backend-go/internal/models"
)

// Page selects a slice of an ordered collection. StartAfter is the ID of the
// last document of the previous page; Limit 0 means no limit.
type Page struct {
	Limit      int
	StartAfter string
}

// MemberRepository stores homeowner profiles keyed by Firebase Auth UID.
type MemberRepository interface {
	GetByID(ctx context.Context, memberID string) (*models.Member, error)
	GetByIDs(ctx context.Context, memberIDs []string) ([]*models.Member, error)
	List(ctx context.Context, page Page) ([]*models.Member, error)
	ListByRoles(ctx context.Context, roles []string) ([]*models.Member, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, member *models.Member) error
	AddPushToken(ctx context.Context, memberID, token string) error
	RemovePushTokens(ctx context.Context, memberID string, tokens ...string) error
}

// PostRepository stores announcements and their comments and reacts.
// Counter fields move in the same transaction as the child document.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (string, error)
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	List(ctx context.Context, page Page) ([]*models.Post, error)
	UpdateContent(ctx context.Context, postID, content, imageURL string, updatedAt time.Time) error
	Delete(ctx context.Context, postID string) error
	Watch(ctx context.Context, limit int, fn func([]*models.Post) error) error

	AddReact(ctx context.Context, postID, authorID string, at time.Time) (int64, error)
	RemoveReact(ctx context.Context, postID, authorID string) (int64, error)
	LikedBy(ctx context.Context, postIDs []string, authorID string) (map[string]bool, error)

	AddComment(ctx context.Context, comment *models.Comment) (string, error)
	GetComment(ctx context.Context, postID, commentID string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string, page Page) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
}

// EventRepository stores calendar events.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) (string, error)
	GetByID(ctx context.Context, eventID string) (*models.Event, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, eventID string) error
}

// ContributionRepository stores dues payments.
type ContributionRepository interface {
	Create(ctx context.Context, contribution *models.Contribution) (string, error)
	GetByID(ctx context.Context, contributionID string) (*models.Contribution, error)
	ListByAccount(ctx context.Context, accountNumber string, year int) ([]*models.Contribution, error)
	// Mutate applies fn to the stored contribution inside a transaction and
	// writes the result back unless fn returns an error.
	Mutate(ctx context.Context, contributionID string, fn func(*models.Contribution) error) (*models.Contribution, error)
}

// ComplaintRepository stores complaints.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) (string, error)
	GetByID(ctx context.Context, complaintID string) (*models.Complaint, error)
	ListBySubmitter(ctx context.Context, submitterID string) ([]*models.Complaint, error)
	List(ctx context.Context, status string) ([]*models.Complaint, error)
	CountOpenBySubmitter(ctx context.Context, submitterID string) (int, error)
	Mutate(ctx context.Context, complaintID string, fn func(*models.Complaint) error) (*models.Complaint, error)
}

// CommitteeRepository stores the committee directory.
type CommitteeRepository interface {
	Create(ctx context.Context, member *models.CommitteeMember) (string, error)
	GetByID(ctx context.Context, id string) (*models.CommitteeMember, error)
	List(ctx context.Context) ([]*models.CommitteeMember, error)
	Update(ctx context.Context, member *models.CommitteeMember) error
	Delete(ctx context.Context, id string) error
}

// DocumentRepository stores metadata of member documents kept in Storage.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) (string, error)
	GetByID(ctx context.Context, documentID string) (*models.Document, error)
	ListByAccount(ctx context.Context, accountNumber string) ([]*models.Document, error)
	Delete(ctx context.Context, documentID string) error
}

// ElectionRepository stores elections, their candidates and ballots.
type ElectionRepository interface {
	Create(ctx context.Context, election *models.Election) (string, error)
	GetByID(ctx context.Context, electionID string) (*models.Election, error)
	List(ctx context.Context) ([]*models.Election, error)

	AddCandidate(ctx context.Context, candidate *models.Candidate) (string, error)
	GetCandidate(ctx context.Context, electionID, candidateID string) (*models.Candidate, error)
	ListCandidates(ctx context.Context, electionID string) ([]*models.Candidate, error)
	DeleteCandidate(ctx context.Context, electionID, candidateID string) error

	// CreateVote writes the ballot under its deterministic ID and fails with
	// ErrAlreadyExists if the voter already has one.
	CreateVote(ctx context.Context, vote *models.Vote) error
	GetVote(ctx context.Context, electionID, voterID string) (*models.Vote, error)
	ListVotes(ctx context.Context, electionID string) ([]*models.Vote, error)
	VotedIn(ctx context.Context, electionIDs []string, voterID string) (map[string]bool, error)
	WatchVotes(ctx context.Context, electionID string, fn func([]*models.Vote) error) error
}

// AuditRepository stores audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
	List(ctx context.Context, limit int) ([]*models.AuditLog, error)
}
