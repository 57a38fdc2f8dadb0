package models

// CommitteeMember is an entry in the association's committee directory.
type CommitteeMember struct {
	ID            string `json:"id" firestore:"-"`
	Name          string `json:"name" firestore:"name"`
	Position      string `json:"position" firestore:"position"`
	PhotoURL      string `json:"photoUrl,omitempty" firestore:"photoUrl,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty" firestore:"contactNumber,omitempty"`
	Email         string `json:"email,omitempty" firestore:"email,omitempty"`
	Order         int    `json:"order" firestore:"order"`
	MemberID      string `json:"memberId,omitempty" firestore:"memberId,omitempty"`
}
