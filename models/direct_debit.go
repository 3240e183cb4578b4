package models

import "time"

// DirectDebit is a recurring transfer driven by a cron-style schedule.
// The amount is stored as a ciphertext blob on the storage tier; the row
// holds only the reference.
type DirectDebit struct {
	// ID is the unique identifier of the debit.
	ID int64 `json:"id"`

	// FromID is the paying account.
	FromID int64 `json:"from_id"`

	// ToID is the receiving account.
	ToID int64 `json:"to_id"`

	// AmountPath is the storage-tier path of the amount ciphertext.
	AmountPath string `json:"-"`

	// Schedule is the cron expression the next run is computed from.
	// It is re-parsed on every evaluation.
	Schedule string `json:"schedule"`

	// NextRun is the next due time. It is advanced strictly past "now"
	// on every evaluation pass, whether or not the execution succeeds.
	NextRun time.Time `json:"next_run"`
}

// TableName returns the name of the database table
// associated with the DirectDebit model.
func (d DirectDebit) TableName() string {
	return "direct_debits"
}

// Due reports whether the debit should be executed at the given time.
func (d DirectDebit) Due(now time.Time) bool {
	return !d.NextRun.After(now)
}
