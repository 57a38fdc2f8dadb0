package core

import (
	"context"
	"io"

	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/identity"
	"hoa-backend-go/internal/models"
	"hoa-backend-go/internal/storage"
)

// Actor is the authenticated caller of a service method.
type Actor struct {
	ID   string
	Role string
}

// IsStaff reports whether the actor is an officer or an admin.
func (a Actor) IsStaff() bool { return models.IsStaff(a.Role) }

// IsAdmin reports whether the actor is an admin.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// Upload is a file received from a client.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// FileStore keeps uploaded files and signs read URLs for them.
type FileStore interface {
	Upload(ctx context.Context, prefix, fileName, contentType string, r io.Reader) (*storage.Object, error)
	SignedURL(objectPath string) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

// IdentityProvider performs password sign-in flows.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*identity.Session, error)
	SendPasswordReset(ctx context.Context, email string) error
}

// FieldCipher encrypts individual document fields.
type FieldCipher interface {
	Encrypt(plainText string) (string, error)
	Decrypt(cipherText string) (string, error)
}

// Notifier hands notification events to the delivery pipeline.
// Delivery failures are logged, never returned.
type Notifier interface {
	Notify(ctx context.Context, event models.NotificationEvent)
}

// LoginResult is returned by a successful login or token refresh.
type LoginResult struct {
	IDToken      string         `json:"idToken"`
	RefreshToken string         `json:"refreshToken"`
	ExpiresIn    int            `json:"expiresIn"` // seconds
	Member       *models.Member `json:"member"`
}

// AuthService handles password sign-in and session bookkeeping.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	RegisterPushToken(ctx context.Context, actor Actor, token string) error
}

// Profile is the current member with an overview of their account.
type Profile struct {
	Member         *models.Member              `json:"member"`
	Contributions  *models.ContributionSummary `json:"contributions"`
	OpenComplaints int                         `json:"openComplaints"`
}

// MemberService serves the member directory and profile editing.
type MemberService interface {
	Get(ctx context.Context, actor Actor, memberID string) (*models.Member, error)
	List(ctx context.Context, actor Actor, query string, page db.Page) ([]*models.Member, error)
	Profile(ctx context.Context, actor Actor) (*Profile, error)
	UpdateProfile(ctx context.Context, actor Actor, req models.UpdateProfileRequest) (*models.Member, error)
	UpdatePhoto(ctx context.Context, actor Actor, photo Upload) (*models.Member, error)
}

// LikeState is the outcome of a like or unlike.
type LikeState struct {
	Liked       bool  `json:"liked"`
	ReactsCount int64 `json:"reactsCount"`
}

// FeedService serves announcements, comments and likes.
type FeedService interface {
	ListPosts(ctx context.Context, actor Actor, page db.Page) ([]*models.Post, error)
	GetPost(ctx context.Context, actor Actor, postID string) (*models.Post, error)
	CreatePost(ctx context.Context, actor Actor, req models.CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, actor Actor, postID string, req models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, actor Actor, postID string) error
	Like(ctx context.Context, actor Actor, postID string) (*LikeState, error)
	Unlike(ctx context.Context, actor Actor, postID string) (*LikeState, error)
	ListComments(ctx context.Context, postID string, page db.Page) ([]*models.Comment, error)
	AddComment(ctx context.Context, actor Actor, postID string, req models.CreateCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor Actor, postID, commentID string) error
	WatchFeed(ctx context.Context, actor Actor, limit int, fn func([]*models.Post) error) error
}

// CalendarService serves the event calendar.
type CalendarService interface {
	ListMonth(ctx context.Context, month string) ([]*models.Event, error)
	ListRange(ctx context.Context, from, to string) ([]*models.Event, error)
	Get(ctx context.Context, eventID string) (*models.Event, error)
	Create(ctx context.Context, actor Actor, req models.CreateEventRequest) (*models.Event, error)
	Update(ctx context.Context, actor Actor, eventID string, req models.UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, actor Actor, eventID string) error
}

// ContributionList is an account's contributions for a year with their summary.
type ContributionList struct {
	Contributions []*models.Contribution      `json:"contributions"`
	Summary       *models.ContributionSummary `json:"summary"`
}

// AccountingService serves the contributions viewer.
type AccountingService interface {
	ListOwn(ctx context.Context, actor Actor, year int) (*ContributionList, error)
	ListForAccount(ctx context.Context, accountNumber string, year int) (*ContributionList, error)
	Submit(ctx context.Context, actor Actor, req models.SubmitContributionRequest, proof Upload) (*models.Contribution, error)
	UpdateStatus(ctx context.Context, actor Actor, contributionID string, req models.UpdateContributionStatusRequest) (*models.Contribution, error)
}

// ComplaintService serves complaint filing and triage.
type ComplaintService interface {
	File(ctx context.Context, actor Actor, req models.CreateComplaintRequest, attachments []Upload) (*models.Complaint, error)
	List(ctx context.Context, actor Actor, status string) ([]*models.Complaint, error)
	Get(ctx context.Context, actor Actor, complaintID string) (*models.Complaint, error)
	UpdateStatus(ctx context.Context, actor Actor, complaintID string, req models.UpdateComplaintStatusRequest) (*models.Complaint, error)
}

// CommitteeService serves the committee directory.
type CommitteeService interface {
	List(ctx context.Context) ([]*models.CommitteeMember, error)
	Create(ctx context.Context, actor Actor, req models.CommitteeMemberRequest) (*models.CommitteeMember, error)
	Update(ctx context.Context, actor Actor, id string, req models.CommitteeMemberRequest) (*models.CommitteeMember, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

// DocumentService serves member documents.
type DocumentService interface {
	ListOwn(ctx context.Context, actor Actor) ([]*models.Document, error)
	ListForAccount(ctx context.Context, accountNumber string) ([]*models.Document, error)
	Upload(ctx context.Context, actor Actor, accountNumber string, req models.UploadDocumentRequest, file Upload) (*models.Document, error)
	Delete(ctx context.Context, actor Actor, documentID string) error
}

// CandidateGroup lists the candidates running for one position.
type CandidateGroup struct {
	Position   string              `json:"position"`
	Candidates []*models.Candidate `json:"candidates"`
}

// ElectionDetail is an election with its ballot layout.
type ElectionDetail struct {
	*models.Election
	Candidates []CandidateGroup `json:"candidates"`
}

// ElectionService serves elections, voting and results.
type ElectionService interface {
	List(ctx context.Context, actor Actor) ([]*models.Election, error)
	Get(ctx context.Context, actor Actor, electionID string) (*ElectionDetail, error)
	Create(ctx context.Context, actor Actor, req models.CreateElectionRequest) (*models.Election, error)
	AddCandidate(ctx context.Context, actor Actor, electionID string, req models.CreateCandidateRequest, photo *Upload) (*models.Candidate, error)
	DeleteCandidate(ctx context.Context, actor Actor, electionID, candidateID string) error
	CastVote(ctx context.Context, actor Actor, electionID string, req models.CastVoteRequest) (*models.Vote, error)
	MyVote(ctx context.Context, actor Actor, electionID string) (*models.Vote, error)
	Results(ctx context.Context, actor Actor, electionID string) (*models.ElectionResults, error)
	WatchResults(ctx context.Context, actor Actor, electionID string, fn func(*models.ElectionResults) error) error
}

// AuditService records and lists audit log entries.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
	List(ctx context.Context, limit int) ([]*models.AuditLog, error)
}
