// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, PIN hashing,
// HTTP response writing, HTTP client initialization, session token
// generation and validation, and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// SessionIDCtxKey is the key used to store the session identifier in the
// context. Used together with GetSessionIDFromContext for type-safe
// retrieval of the session ID from context.Context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.SessionIDCtxKey, "01927f0a-...")
var SessionIDCtxKey = contextKey("sessionID")

// AccountIDCtxKey is the key used to store the authenticated account
// identifier in the context. It is only present once the session has been
// upgraded by a successful login.
var AccountIDCtxKey = contextKey("accountID")

// GetSessionIDFromContext retrieves the session identifier from the context.
//
// Returns the session ID and an ok flag:
//   - ok == true  — value is found and has the correct string type
//   - ok == false — value is missing or has an unexpected type
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDCtxKey).(string)
	return sessionID, ok
}

// GetAccountIDFromContext retrieves the authenticated account identifier
// from the context.
func GetAccountIDFromContext(ctx context.Context) (int64, bool) {
	accountID, ok := ctx.Value(AccountIDCtxKey).(int64)
	return accountID, ok
}
