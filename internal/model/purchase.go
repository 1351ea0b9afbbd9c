package model

import "time"

// Purchase lifecycle. A purchase starts pending and transitions to exactly
// one terminal status; terminal rows are never mutated again.
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
)

// Purchase records one checkout attempt for one (user, course) pair.
// Amount is the price after discount at purchase time, in major currency
// units rounded to two decimals.
type Purchase struct {
	PurchaseID string    `db:"id" json:"purchase_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Amount     float64   `db:"amount" json:"amount"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// IsResolved reports whether the purchase has reached a terminal status.
func (p *Purchase) IsResolved() bool {
	return p.Status != PurchaseStatusPending
}
