package models

import "time"

// Election statuses, derived from the schedule window.
const (
	ElectionUpcoming = "upcoming"
	ElectionOngoing  = "ongoing"
	ElectionEnded    = "ended"
)

// Election is a scheduled vote over one or more positions.
type Election struct {
	ID          string    `json:"id" firestore:"-"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	StartAt     time.Time `json:"startAt" firestore:"startAt"`
	EndAt       time.Time `json:"endAt" firestore:"endAt"`
	Positions   []string  `json:"positions" firestore:"positions"`
	CreatedBy   string    `json:"createdBy" firestore:"createdBy"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	Status      string    `json:"status" firestore:"-"`
	HasVoted    bool      `json:"hasVoted" firestore:"-"`
}

// StatusAt derives the election status at instant now.
// The window is half-open: [StartAt, EndAt).
func (e *Election) StatusAt(now time.Time) string {
	switch {
	case now.Before(e.StartAt):
		return ElectionUpcoming
	case now.Before(e.EndAt):
		return ElectionOngoing
	default:
		return ElectionEnded
	}
}

// Candidate lives in elections/{electionId}/candidates.
type Candidate struct {
	ID         string `json:"id" firestore:"-"`
	ElectionID string `json:"electionId" firestore:"-"`
	Name       string `json:"name" firestore:"name"`
	Position   string `json:"position" firestore:"position"`
	PhotoURL   string `json:"photoUrl,omitempty" firestore:"-"`
	PhotoPath  string `json:"-" firestore:"photoPath,omitempty"`
	Platform   string `json:"platform,omitempty" firestore:"platform,omitempty"`
}

// Vote is a ballot. Its document ID is VoteID(electionID, voterID), which
// makes a second ballot from the same voter a create conflict.
type Vote struct {
	ID         string            `json:"id" firestore:"-"`
	ElectionID string            `json:"electionId" firestore:"electionId"`
	VoterID    string            `json:"voterId" firestore:"voterId"`
	Choices    map[string]string `json:"choices" firestore:"choices"` // position -> candidate ID
	CreatedAt  time.Time         `json:"createdAt" firestore:"createdAt"`
}

// VoteID is the deterministic ballot document ID.
func VoteID(electionID, voterID string) string {
	return electionID + "_" + voterID
}

// CandidateResult is one candidate's line in a position tally.
type CandidateResult struct {
	CandidateID string `json:"candidateId"`
	Name        string `json:"name"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	Votes       int    `json:"votes"`
	Leader      bool   `json:"leader"`
}

// PositionResult is the tally for one position.
type PositionResult struct {
	Position   string            `json:"position"`
	TotalVotes int               `json:"totalVotes"`
	Candidates []CandidateResult `json:"candidates"`
	Leaders    []string          `json:"leaders"`
	Tie        bool              `json:"tie"`
}

// ElectionResults is the full tally for an election.
type ElectionResults struct {
	ElectionID     string           `json:"electionId"`
	Status         string           `json:"status"`
	TotalVoters    int              `json:"totalVoters"`
	EligibleVoters int              `json:"eligibleVoters"`
	Turnout        float64          `json:"turnout"`
	Positions      []PositionResult `json:"positions"`
	ComputedAt     time.Time        `json:"computedAt"`
}
