package models

import "time"

// Post is an announcement on the association feed.
// ReactsCount and CommentsCount are denormalized counters kept in step with the
// reacts and comments sub-collections inside transactions.
type Post struct {
	ID              string    `json:"id" firestore:"-"`
	AuthorID        string    `json:"authorId" firestore:"authorId"`
	AuthorName      string    `json:"authorName" firestore:"authorName"`
	AuthorPhotoURL  string    `json:"authorPhotoUrl,omitempty" firestore:"authorPhotoUrl,omitempty"` // set from AuthorPhotoPath on read
	AuthorPhotoPath string    `json:"-" firestore:"authorPhotoPath,omitempty"`
	Content         string    `json:"content" firestore:"content"`
	ImageURL        string    `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	ReactsCount     int64     `json:"reactsCount" firestore:"reactsCount"`
	CommentsCount   int64     `json:"commentsCount" firestore:"commentsCount"`
	LikedByMe       bool      `json:"likedByMe" firestore:"-"`
	CreatedAt       time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Comment lives in posts/{postId}/comments.
type Comment struct {
	ID         string    `json:"id" firestore:"-"`
	PostID     string    `json:"postId" firestore:"-"`
	AuthorID   string    `json:"authorId" firestore:"authorId"`
	AuthorName string    `json:"authorName" firestore:"authorName"`
	Content    string    `json:"content" firestore:"content"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
}

// React lives in posts/{postId}/reacts, keyed by the author's UID.
type React struct {
	AuthorID  string    `json:"authorId" firestore:"authorId"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}
