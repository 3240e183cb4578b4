package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps the JWT session token issued to a client after the handshake.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access. The "jti" claim
// carries the session identifier the authority uses to look up the
// negotiated session key; no account identity is ever embedded in the
// token itself.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	// Excluded from JSON serialization because only the compact string
	// form is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// RegisteredClaims provides access to the standard JWT claim set
	// (sub, exp, iat, nbf, iss, aud, jti) as defined by RFC 7519.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// SessionID is the session identifier extracted from the "jti"
	// claim. Internal server-side cache.
	SessionID string `json:"-"`
}

// GetSessionID extracts the session identifier from the token's "jti" claim.
//
// Returns an error if the claim is missing or empty.
func (t *Token) GetSessionID() (string, error) {
	if t.RegisteredClaims.ID == "" {
		return "", fmt.Errorf("session token carries no jti claim")
	}

	return t.RegisteredClaims.ID, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
