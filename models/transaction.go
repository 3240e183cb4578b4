package models

import "time"

// Transaction kinds. One logical transfer always produces a mirrored
// debit/credit pair; interest rows are produced by the accrual worker only.
const (
	TransactionDebit    = "debit"
	TransactionCredit   = "credit"
	TransactionInterest = "interest"
)

// Transaction is an immutable, append-only audit record of one side of a
// transfer. The amount is retained as a ciphertext blob on the storage tier;
// AmountPath is the reference to it.
type Transaction struct {
	// ID is the internal unique identifier of the audit row.
	// It is used only at the persistence layer.
	ID int64 `json:"-"`

	// Time is the moment the transfer was committed. Both rows of one
	// transfer carry the same timestamp.
	Time time.Time `json:"time"`

	// Kind is one of TransactionDebit, TransactionCredit or
	// TransactionInterest, always from the owner's point of view.
	Kind string `json:"kind"`

	// AmountPath is the storage-tier path of the amount ciphertext.
	// Debit rows reference a negated amount, credit rows a positive one.
	AmountPath string `json:"-"`

	// OwnerID is the account this row belongs to.
	OwnerID int64 `json:"owner_id"`

	// CounterpartyID is the other participant of the transfer. Interest
	// rows use SystemAccountID.
	CounterpartyID int64 `json:"counterparty_id"`
}

// TableName returns the name of the database table
// associated with the Transaction model.
func (t Transaction) TableName() string {
	return "transactions"
}

// HistoryEntry is the client-facing projection of a Transaction: the
// authority decrypts the amount blob before serializing history, so the
// client never handles homomorphic ciphertexts.
type HistoryEntry struct {
	Time           time.Time `json:"time"`
	Kind           string    `json:"kind"`
	Amount         float64   `json:"amount"`
	CounterpartyID int64     `json:"counterparty_id"`
}
