package adapter

import "errors"

var (
	// ErrHandshake wraps any failure of the session handshake: the
	// authority is unreachable, returned a non-2xx status, or the key
	// material could not be decrypted. The client aborts startup on it.
	ErrHandshake = errors.New("session handshake failed")

	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")
)
