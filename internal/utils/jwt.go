package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cipherbank/go-cipher-bank/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateSessionToken creates a signed HMAC-SHA256 JWT session token.
//
// The token includes the following standard claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - ID        (jti): the session identifier the token is bound to
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus sessionDuration
//
// No account identity is embedded; the authority resolves the session ID
// to an account only after a successful login.
//
// All parameters are required. Returns an error if any of them are empty or zero.
func GenerateSessionToken(issuer string, sessionID string, sessionDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || sessionID == "" || sessionDuration == 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating session token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		ID:        sessionID,
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing session token: %w", err)
	}

	return models.Token{Token: token, SignedString: tokenString, SessionID: sessionID}, nil
}

// ValidateAndParseSessionToken validates the given token string and extracts
// its claims.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided tokenIssuer
//   - Expiration (exp) claim check
//   - ID (jti) claim presence
//
// Returns the parsed token model with the extracted session ID, or an error
// if validation fails or the jti claim is missing.
func ValidateAndParseSessionToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	var parsed models.Token
	token, err := jwt.ParseWithClaims(tokenString, &parsed.RegisteredClaims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	parsed.Token = token
	parsed.SignedString = tokenString

	sessionID, err := parsed.GetSessionID()
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during getting session ID from token: %w", err)
	}
	parsed.SessionID = sessionID

	return parsed, nil
}

// ParseBearerToken extracts the raw token from an Authorization header of
// the form "Bearer <token>".
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
