package models

import "time"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// PasswordResetRequest is the body of POST /auth/password-reset.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PushTokenRequest registers an Expo push token for the current member.
type PushTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// UpdateProfileRequest edits the current member's profile.
// Pointers distinguish "not provided" from "clear".
type UpdateProfileRequest struct {
	FirstName     *string  `json:"firstName,omitempty" binding:"omitempty,min=1,max=100"`
	LastName      *string  `json:"lastName,omitempty" binding:"omitempty,min=1,max=100"`
	ContactNumber *string  `json:"contactNumber,omitempty" binding:"omitempty,max=32"`
	Address       *Address `json:"address,omitempty"`
}

// CreatePostRequest creates an announcement.
type CreatePostRequest struct {
	Content  string `json:"content" binding:"required,max=5000"`
	ImageURL string `json:"imageUrl,omitempty" binding:"omitempty,url"`
}

// UpdatePostRequest edits an announcement.
type UpdatePostRequest struct {
	Content  *string `json:"content,omitempty" binding:"omitempty,max=5000"`
	ImageURL *string `json:"imageUrl,omitempty" binding:"omitempty,url,max=2048"`
}

// CreateCommentRequest adds a comment to a post.
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// CreateEventRequest schedules a calendar event.
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,max=200"`
	Description string    `json:"description,omitempty" binding:"max=5000"`
	Location    string    `json:"location,omitempty" binding:"max=200"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
}

// UpdateEventRequest edits a calendar event.
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=5000"`
	Location    *string    `json:"location,omitempty" binding:"omitempty,max=200"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
}

// SubmitContributionRequest carries the form fields of a payment submission.
// The proof file travels alongside as an Upload.
type SubmitContributionRequest struct {
	Amount          int64  `form:"amount" binding:"required,gt=0"`
	Month           string `form:"month" binding:"required,yearmonth"`
	PaymentMethod   string `form:"paymentMethod" binding:"required,oneof=cash bank_transfer gcash check other"`
	ReferenceNumber string `form:"referenceNumber" binding:"max=100"`
}

// UpdateContributionStatusRequest is used by staff to confirm or reject a payment.
type UpdateContributionStatusRequest struct {
	Status  string `json:"status" binding:"required,oneof=paid rejected"`
	Remarks string `json:"remarks,omitempty" binding:"max=500"`
}

// CreateComplaintRequest carries the form fields of a complaint.
type CreateComplaintRequest struct {
	Subject string `form:"subject" binding:"required,max=200"`
	Body    string `form:"body" binding:"required,max=5000"`
}

// UpdateComplaintStatusRequest moves a complaint through its workflow.
type UpdateComplaintStatusRequest struct {
	Status         string `json:"status" binding:"required,complaint_status"`
	ResolutionNote string `json:"resolutionNote,omitempty" binding:"max=2000"`
}

// CommitteeMemberRequest creates or replaces a committee entry.
type CommitteeMemberRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	Position      string `json:"position" binding:"required,max=100"`
	PhotoURL      string `json:"photoUrl,omitempty" binding:"omitempty,url"`
	ContactNumber string `json:"contactNumber,omitempty" binding:"max=32"`
	Email         string `json:"email,omitempty" binding:"omitempty,email"`
	Order         int    `json:"order"`
	MemberID      string `json:"memberId,omitempty"`
}

// UploadDocumentRequest carries the form fields of a member document upload.
type UploadDocumentRequest struct {
	Title    string `form:"title" binding:"required,max=200"`
	Category string `form:"category" binding:"max=100"`
}

// CreateElectionRequest schedules an election.
type CreateElectionRequest struct {
	Title       string    `json:"title" binding:"required,max=200"`
	Description string    `json:"description,omitempty" binding:"max=5000"`
	StartAt     time.Time `json:"startAt" binding:"required"`
	EndAt       time.Time `json:"endAt" binding:"required"`
	Positions   []string  `json:"positions" binding:"required,min=1,dive,required,max=100"`
}

// CreateCandidateRequest adds a candidate to an election.
type CreateCandidateRequest struct {
	Name     string `form:"name" binding:"required,max=200"`
	Position string `form:"position" binding:"required,max=100"`
	Platform string `form:"platform" binding:"max=5000"`
}

// CastVoteRequest is a ballot: position -> candidate ID.
type CastVoteRequest struct {
	Choices map[string]string `json:"choices" binding:"required"`
}
