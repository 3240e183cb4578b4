package models

import "time"

// SessionState is the lifecycle position of one client session.
type SessionState int

const (
	// SessionAnonymous is a session that has not negotiated a key yet.
	SessionAnonymous SessionState = iota

	// SessionAuthenticating has a negotiated symmetric key but no
	// verified account identity.
	SessionAuthenticating

	// SessionAuthenticated is fully logged in: key plus account id.
	SessionAuthenticated
)

// SessionKey is the ephemeral symmetric material negotiated during the
// handshake: a 256-bit AES key and a 128-bit CBC initialization vector.
// It lives only in process memory for the duration of one session and
// must never be logged or persisted.
type SessionKey struct {
	Key []byte
	IV  []byte
}

// Session is the authority-side record of one client connection. It is
// owned by the session registry and passed explicitly to every operation
// that needs the negotiated key or the logged-in identity.
type Session struct {
	// ID is the opaque session identifier, also embedded as the "jti"
	// claim of the session token handed to the client.
	ID string

	// State tracks the handshake/login lifecycle.
	State SessionState

	// Key is the negotiated symmetric session key material.
	Key SessionKey

	// AccountID is the logged-in account. Zero until State reaches
	// SessionAuthenticated.
	AccountID int64

	// ExpiresAt bounds the session lifetime; heartbeats past this
	// moment are rejected.
	ExpiresAt time.Time
}
