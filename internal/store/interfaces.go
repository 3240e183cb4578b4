package store

import (
	"context"
	"time"

	"github.com/cipherbank/go-cipher-bank/models"
)

// AccountRepository reads and mutates account rows. Balance references are
// only ever rewritten through [TransactionRepository.CommitTransfer] so that
// the audit rows and the reference update share one relational transaction.
type AccountRepository interface {
	// GetAccount fetches one account by id.
	GetAccount(ctx context.Context, id int64) (models.Account, error)

	// GetAccounts lists every account, ordered by id. Used by the
	// interest accrual pass.
	GetAccounts(ctx context.Context) ([]models.Account, error)
}

// TransferRecord is everything CommitTransfer persists atomically: the two
// mirrored audit rows plus both participants' new balance references.
type TransferRecord struct {
	Time time.Time

	FromID          int64
	FromAmountPath  string // negated amount, the debit side's audit blob
	FromBalancePath string

	ToID          int64
	ToAmountPath  string
	ToBalancePath string
}

// InterestRecord is the single-row analogue of TransferRecord for interest
// accrual: one audit row against the system sink plus the new balance
// reference.
type InterestRecord struct {
	Time        time.Time
	AccountID   int64
	AmountPath  string
	BalancePath string
}

// TransactionRepository owns the append-only audit log and the balance
// reference updates that must commit together with it.
type TransactionRepository interface {
	// CommitTransfer inserts the mirrored debit/credit audit rows and
	// updates both accounts' balance references within one relational
	// transaction. Any failure rolls the whole record back.
	CommitTransfer(ctx context.Context, rec TransferRecord) error

	// CommitInterest inserts one interest audit row and updates the
	// account's balance reference within one relational transaction.
	CommitInterest(ctx context.Context, rec InterestRecord) error

	// GetHistory lists the audit rows owned by accountID, oldest first.
	GetHistory(ctx context.Context, accountID int64) ([]models.Transaction, error)
}

// DebitRepository persists direct debit rows. NextRun updates run in their
// own transactions: schedule advancement must survive a failed execution.
type DebitRepository interface {
	CreateDebit(ctx context.Context, debit models.DirectDebit) (models.DirectDebit, error)
	GetDebits(ctx context.Context) ([]models.DirectDebit, error)
	GetDebitsByAccount(ctx context.Context, accountID int64) ([]models.DirectDebit, error)
	UpdateNextRun(ctx context.Context, debitID int64, nextRun time.Time) error
	DeleteDebit(ctx context.Context, debitID int64) error
}
