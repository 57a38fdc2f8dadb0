package core

import "errors"

// Service errors. Handlers map these to HTTP status codes.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrNotAMember         = errors.New("account is not registered as an association member")
	ErrInvalidPushToken   = errors.New("not an Expo push token")
	ErrForbidden          = errors.New("not allowed to perform this action")
	ErrInvalidContent     = errors.New("content is empty or too long")
	ErrInvalidUpload      = errors.New("file type or size not accepted")

	ErrMemberNotFound = errors.New("member not found")

	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")

	ErrEventNotFound = errors.New("event not found")
	ErrInvalidEvent  = errors.New("invalid event schedule")
	ErrInvalidQuery  = errors.New("invalid query parameter")

	ErrContributionNotFound = errors.New("contribution not found")
	ErrInvalidStatus        = errors.New("contribution is no longer pending")

	ErrComplaintNotFound       = errors.New("complaint not found")
	ErrInvalidStatusTransition = errors.New("complaint status transition not allowed")
	ErrTooManyAttachments      = errors.New("too many attachments")

	ErrCommitteeMemberNotFound = errors.New("committee member not found")
	ErrDocumentNotFound        = errors.New("document not found")

	ErrElectionNotFound  = errors.New("election not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrInvalidElection   = errors.New("invalid election")
	ErrElectionStarted   = errors.New("election has already started")
	ErrElectionNotOpen   = errors.New("election is not open for voting")
	ErrInvalidBallot     = errors.New("invalid ballot")
	ErrAlreadyVoted      = errors.New("already voted in this election")
	ErrVoteNotFound      = errors.New("no ballot cast in this election")
	ErrResultsSealed     = errors.New("results are available once the election has ended")
)
