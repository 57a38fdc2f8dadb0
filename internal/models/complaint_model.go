package models

import "time"

// Complaint statuses.
const (
	ComplaintPending    = "pending"
	ComplaintInProgress = "in_progress"
	ComplaintResolved   = "resolved"
	ComplaintDismissed  = "dismissed"
)

// Attachment is a file stored in Firebase Storage.
// URL is signed on read and never persisted.
type Attachment struct {
	URL  string `json:"url,omitempty" firestore:"-"`
	Path string `json:"-" firestore:"path"`
	Name string `json:"name" firestore:"name"`
	Size int64  `json:"size" firestore:"size"`
	Type string `json:"type" firestore:"type"`
}

// Complaint is a grievance filed by a member.
type Complaint struct {
	ID             string       `json:"id" firestore:"-"`
	SubmitterID    string       `json:"submitterId" firestore:"submitterId"`
	SubmitterName  string       `json:"submitterName" firestore:"submitterName"`
	AccountNumber  string       `json:"accountNumber" firestore:"accountNumber"`
	Subject        string       `json:"subject" firestore:"subject"`
	Body           string       `json:"body" firestore:"body"`
	Status         string       `json:"status" firestore:"status"`
	Attachments    []Attachment `json:"attachments" firestore:"attachments"`
	ResolutionNote string       `json:"resolutionNote,omitempty" firestore:"resolutionNote,omitempty"`
	CreatedAt      time.Time    `json:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt" firestore:"updatedAt"`
}
