package models

import "time"

// Document is a file the association keeps for a member account
// (titles, clearances, statements).
type Document struct {
	ID            string    `json:"id" firestore:"-"`
	AccountNumber string    `json:"accountNumber" firestore:"accountNumber"`
	Title         string    `json:"title" firestore:"title"`
	Category      string    `json:"category,omitempty" firestore:"category,omitempty"`
	URL           string    `json:"url,omitempty" firestore:"-"`
	Path          string    `json:"-" firestore:"path"`
	FileName      string    `json:"fileName" firestore:"fileName"`
	ContentType   string    `json:"contentType" firestore:"contentType"`
	Size          int64     `json:"size" firestore:"size"`
	UploadedBy    string    `json:"uploadedBy" firestore:"uploadedBy"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt"`
}
