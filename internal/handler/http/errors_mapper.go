package http

import (
	"errors"
	"net/http"

	"github.com/cipherbank/go-cipher-bank/internal/blob"
	"github.com/cipherbank/go-cipher-bank/internal/service"
	"github.com/cipherbank/go-cipher-bank/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPIN:                http.StatusUnauthorized,
	service.ErrLoginNotAllowed:         http.StatusForbidden,
	service.ErrSessionNotFound:         http.StatusUnauthorized,
	service.ErrSessionExpired:          http.StatusUnauthorized,
	service.ErrSessionNotAuthenticated: http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,
	service.ErrInsufficientFunds:       http.StatusPaymentRequired,
	service.ErrTransactionFailed:       http.StatusInternalServerError,
	service.ErrInvalidSchedule:         http.StatusBadRequest,

	store.ErrNoAccountWasFound: http.StatusNotFound,
	store.ErrNoDebitWasFound:   http.StatusNotFound,
	store.ErrAccountConflict:   http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,

	blob.ErrBlobNotFound:       http.StatusNotFound,
	blob.ErrRejected:           http.StatusBadGateway,
	blob.ErrStorageUnavailable: http.StatusBadGateway,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
