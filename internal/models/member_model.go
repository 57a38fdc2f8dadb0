package models

import "time"

// Roles a member can hold. Officers and admins are treated as staff.
const (
	RoleMember  = "member"
	RoleOfficer = "officer"
	RoleAdmin   = "admin"
)

// Address is the member's lot within the association.
type Address struct {
	Block  string `json:"block,omitempty" firestore:"block,omitempty"`
	Lot    string `json:"lot,omitempty" firestore:"lot,omitempty"`
	Street string `json:"street,omitempty" firestore:"street,omitempty"`
}

// Member represents a homeowner registered with the association.
type Member struct {
	ID            string    `json:"id" firestore:"-"` // Firebase Auth UID, also the document ID
	AccountNumber string    `json:"accountNumber" firestore:"accountNumber"`
	FirstName     string    `json:"firstName" firestore:"firstName"`
	LastName      string    `json:"lastName" firestore:"lastName"`
	Email         string    `json:"email" firestore:"email"`
	ContactNumber string    `json:"contactNumber,omitempty" firestore:"contactNumber,omitempty"` // AES encrypted at rest
	Address       Address   `json:"address" firestore:"address"`
	Role          string    `json:"role" firestore:"role"`
	PhotoURL      string    `json:"photoUrl,omitempty" firestore:"photoUrl,omitempty"`
	PhotoPath     string    `json:"-" firestore:"photoPath,omitempty"`
	PushTokens    []string  `json:"-" firestore:"pushTokens,omitempty"`
	SearchName    string    `json:"-" firestore:"searchName"` // lower-cased "first last" for directory search
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// FullName joins first and last name.
func (m *Member) FullName() string {
	switch {
	case m.FirstName == "":
		return m.LastName
	case m.LastName == "":
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// IsStaff reports whether the member is an officer or an admin.
func IsStaff(role string) bool {
	return role == RoleOfficer || role == RoleAdmin
}
