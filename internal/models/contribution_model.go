package models

import "time"

// Contribution statuses.
const (
	ContributionPending  = "pending"
	ContributionPaid     = "paid"
	ContributionRejected = "rejected"
)

// PaymentMethods accepted for contributions.
var PaymentMethods = []string{"cash", "bank_transfer", "gcash", "check", "other"}

// Contribution is a monthly dues payment recorded against an account number.
// Amount is in centavos.
type Contribution struct {
	ID              string    `json:"id" firestore:"-"`
	AccountNumber   string    `json:"accountNumber" firestore:"accountNumber"`
	Amount          int64     `json:"amount" firestore:"amount"`
	Month           string    `json:"month" firestore:"month"` // YYYY-MM
	PaymentMethod   string    `json:"paymentMethod" firestore:"paymentMethod"`
	Status          string    `json:"status" firestore:"status"`
	ReferenceNumber string    `json:"referenceNumber,omitempty" firestore:"referenceNumber,omitempty"`
	ProofURL        string    `json:"proofUrl,omitempty" firestore:"-"`
	ProofPath       string    `json:"-" firestore:"proofPath,omitempty"`
	Remarks         string    `json:"remarks,omitempty" firestore:"remarks,omitempty"`
	SubmittedBy     string    `json:"submittedBy,omitempty" firestore:"submittedBy,omitempty"`
	CreatedAt       time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// ContributionSummary aggregates one account's contributions for a year.
type ContributionSummary struct {
	Year         int      `json:"year"`
	TotalPaid    int64    `json:"totalPaid"`
	TotalPending int64    `json:"totalPending"`
	MonthsPaid   []string `json:"monthsPaid"`
	MonthsUnpaid []string `json:"monthsUnpaid"`
}
