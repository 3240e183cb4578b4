package http

import (
	"net/http"
	"strconv"

	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/models"
)

// authenticatedSession returns the live session when the request belongs
// to a logged-in account. Sessions that only completed the handshake are
// rejected.
func (h *Handler) authenticatedSession(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	log := logger.FromRequest(r)

	session, err := h.session(r)
	if err != nil {
		log.Err(err).Msg("no live session")
		http.Error(w, "no live session", http.StatusUnauthorized)
		return models.Session{}, false
	}

	if session.State != models.SessionAuthenticated {
		log.Error().Str("session_id", session.ID).Msg("session is not logged in")
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return models.Session{}, false
	}

	return session, true
}

func (h *Handler) transfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, ok := h.authenticatedSession(w, r)
	if !ok {
		return
	}

	var req models.TransferRequest
	if err := h.decryptBody(r, session.Key, &req); err != nil {
		log.Err(err).Msg("failed to decrypt transfer request")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Money may only move out of the account this session logged into.
	if req.FromID != session.AccountID {
		log.Error().Int64("from_id", req.FromID).Int64("account_id", session.AccountID).
			Msg("transfer from a foreign account rejected")
		http.Error(w, "transfer from a foreign account is not allowed", http.StatusForbidden)
		return
	}

	if err := h.services.TransferService.Transfer(ctx, req); err != nil {
		log.Err(err).Msg("transfer failed")
		http.Error(w, "transfer failed", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, ok := h.authenticatedSession(w, r)
	if !ok {
		return
	}

	balance, err := h.services.TransferService.Balance(ctx, session.AccountID)
	if err != nil {
		log.Err(err).Msg("failed to read balance")
		http.Error(w, "failed to read balance", statusFromError(err))
		return
	}

	response := models.BalanceResponse{
		Balance: strconv.FormatFloat(balance, 'f', 2, 64),
	}

	if err := h.writeEncryptedJSON(w, session.Key, response, http.StatusOK); err != nil {
		log.Err(err).Msg("failed to write balance response")
	}
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, ok := h.authenticatedSession(w, r)
	if !ok {
		return
	}

	entries, err := h.services.TransferService.History(ctx, session.AccountID)
	if err != nil {
		log.Err(err).Msg("failed to read history")
		http.Error(w, "failed to read history", statusFromError(err))
		return
	}

	if err := h.writeEncryptedJSON(w, session.Key, entries, http.StatusOK); err != nil {
		log.Err(err).Msg("failed to write history response")
	}
}
