package service

import (
	"context"
	"time"

	"github.com/cipherbank/go-cipher-bank/models"
)

// AuthService owns the session lifecycle: key negotiation, login, liveness
// and logout. Sessions are tracked in an in-memory registry keyed by the
// session ID embedded in the issued token.
type AuthService interface {
	// NegotiateSessionKey generates fresh symmetric session material,
	// registers a new session, and returns the key material encrypted
	// under the client's public key together with the session token.
	NegotiateSessionKey(ctx context.Context, publicKeyPEM []byte) ([]byte, models.Token, error)

	// Login verifies the account PIN and upgrades the session to the
	// authenticated state. The reserved system account is rejected.
	Login(ctx context.Context, sessionID string, req models.LoginRequest) error

	// Logout removes the session from the registry.
	Logout(ctx context.Context, sessionID string) error

	// Heartbeat reports whether the session is still live and
	// authenticated.
	Heartbeat(ctx context.Context, sessionID string) error

	// Session returns the live session record for the given ID,
	// rejecting expired sessions.
	Session(ctx context.Context, sessionID string) (models.Session, error)

	// ParseToken validates a raw session token string and extracts the
	// session ID.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// TransferService coordinates money movement: it owns the encrypted
// arithmetic ordering, the audit trail, and the balance reads.
type TransferService interface {
	// Transfer validates and executes one transfer request.
	Transfer(ctx context.Context, req models.TransferRequest) error

	// TransferAmount executes a transfer of a known plaintext amount
	// between two accounts. Used by Transfer and by the direct debit
	// worker after decoding the stored amount ciphertext.
	TransferAmount(ctx context.Context, fromID, toID int64, amount float64) error

	// Balance decrypts and returns the current balance of accountID.
	Balance(ctx context.Context, accountID int64) (float64, error)

	// History returns the account's audit rows with decrypted amounts,
	// oldest first.
	History(ctx context.Context, accountID int64) ([]models.HistoryEntry, error)

	// AccrueInterest applies the account's interest rate to its balance
	// and writes one interest audit row against the system sink.
	AccrueInterest(ctx context.Context, account models.Account) error

	// Accounts lists every account. Used by the interest worker.
	Accounts(ctx context.Context) ([]models.Account, error)
}

// DebitService manages recurring direct debits and their schedule
// evaluation.
type DebitService interface {
	// CreateDebit validates the request, stores the encrypted amount
	// blob and persists the debit row with its first due time.
	CreateDebit(ctx context.Context, fromID int64, req models.DebitRequest) (models.DirectDebit, error)

	// GetDebits lists the debits paid from accountID.
	GetDebits(ctx context.Context, accountID int64) ([]models.DirectDebit, error)

	// AllDebits lists every debit. Used by the debit worker.
	AllDebits(ctx context.Context) ([]models.DirectDebit, error)

	// RemoveDebit deletes a debit owned by accountID.
	RemoveDebit(ctx context.Context, accountID, debitID int64) error

	// RemoveDebitEntry deletes a debit row and its amount blob without
	// an ownership check. Used by the worker's failure policy.
	RemoveDebitEntry(ctx context.Context, debit models.DirectDebit) error

	// Amount decrypts the debit's stored amount ciphertext.
	Amount(ctx context.Context, debit models.DirectDebit) (float64, error)

	// AdvanceNextRun re-parses the debit's schedule, persists the first
	// occurrence strictly after now, and returns it.
	AdvanceNextRun(ctx context.Context, debit models.DirectDebit, now time.Time) (time.Time, error)
}

// SessionRegistry tracks live sessions in process memory. All methods are
// safe for concurrent use.
type SessionRegistry interface {
	Create(session models.Session)
	Get(sessionID string) (models.Session, error)
	Authenticate(sessionID string, accountID int64) error
	Delete(sessionID string)
}
