// Package adapter provides the client's transport to the authority.
//
// The primary abstraction is [AuthorityAdapter], which decouples the client
// application from the wire protocol. The package ships an HTTP/REST
// implementation ([NewHTTPAuthorityAdapter]) that performs the RSA handshake
// once per process and then exchanges every body AES-CBC encrypted under the
// negotiated session key.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrInsufficientFunds] for 402, [ErrUnauthorized]
// for 401).
package adapter

import (
	"context"

	"github.com/cipherbank/go-cipher-bank/models"
)

// AuthorityAdapter defines transport-agnostic communication with the
// authority. Implementations own the session handshake, the bearer token,
// the symmetric payload encryption, and the mapping of transport-level
// errors to the sentinel values defined in this package.
type AuthorityAdapter interface {
	// Handshake negotiates the session: it generates a fresh RSA
	// keypair, sends the public key to the authority, and decrypts the
	// returned symmetric session material. The session token from the
	// response is retained for all later requests. Any failure wraps
	// [ErrHandshake]; the client cannot proceed without a session.
	Handshake(ctx context.Context) error

	// Login authenticates the account PIN over the negotiated session.
	Login(ctx context.Context, req models.LoginRequest) error

	// Logout terminates the session on the authority.
	Logout(ctx context.Context) error

	// Heartbeat checks that the session is still live and logged in.
	Heartbeat(ctx context.Context) error

	// Transfer submits one transfer from the logged-in account.
	Transfer(ctx context.Context, req models.TransferRequest) error

	// Balance fetches the decrypted balance of the logged-in account.
	Balance(ctx context.Context) (models.BalanceResponse, error)

	// History fetches the audit trail of the logged-in account,
	// oldest first.
	History(ctx context.Context) ([]models.HistoryEntry, error)

	// CreateDebit registers a recurring transfer from the logged-in
	// account and returns the created record with its first due time.
	CreateDebit(ctx context.Context, req models.DebitRequest) (models.DirectDebit, error)

	// Debits lists the recurring transfers paid from the logged-in
	// account.
	Debits(ctx context.Context) ([]models.DirectDebit, error)

	// RemoveDebit cancels a recurring transfer owned by the logged-in
	// account.
	RemoveDebit(ctx context.Context, debitID int64) error

	// Token returns the bearer session token currently held by the
	// adapter, or an empty string before the handshake.
	Token() string
}
