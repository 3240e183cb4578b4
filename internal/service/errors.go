package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPIN            = errors.New("wrong PIN")
	ErrLoginNotAllowed     = errors.New("login not allowed for this account")

	ErrSessionNotFound         = errors.New("session not found")
	ErrSessionExpired          = errors.New("session is expired")
	ErrSessionNotAuthenticated = errors.New("session is not authenticated")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTransactionFailed = errors.New("transaction failed")

	ErrInvalidSchedule = errors.New("invalid debit schedule")
)
