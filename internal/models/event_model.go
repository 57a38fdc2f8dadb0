package models

import "time"

// Event is an entry on the association calendar.
type Event struct {
	ID          string    `json:"id" firestore:"-"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	Location    string    `json:"location,omitempty" firestore:"location,omitempty"`
	Date        string    `json:"date" firestore:"date"` // YYYY-MM-DD of StartTime
	StartTime   time.Time `json:"startTime" firestore:"startTime"`
	EndTime     time.Time `json:"endTime" firestore:"endTime"`
	CreatedBy   string    `json:"createdBy" firestore:"createdBy"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}
