package http

import (
	"net/http"

	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/models"
)

func (h *Handler) createDebit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, ok := h.authenticatedSession(w, r)
	if !ok {
		return
	}

	var req models.DebitRequest
	if err := h.decryptBody(r, session.Key, &req); err != nil {
		log.Err(err).Msg("failed to decrypt debit request")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	debit, err := h.services.DebitService.CreateDebit(ctx, session.AccountID, req)
	if err != nil {
		log.Err(err).Msg("failed to create direct debit")
		http.Error(w, "failed to create direct debit", statusFromError(err))
		return
	}

	log.Debug().Int64("debit_id", debit.ID).Msg("direct debit created")

	if err := h.writeEncryptedJSON(w, session.Key, debit, http.StatusCreated); err != nil {
		log.Err(err).Msg("failed to write debit response")
	}
}

func (h *Handler) listDebits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, ok := h.authenticatedSession(w, r)
	if !ok {
		return
	}

	debits, err := h.services.DebitService.GetDebits(ctx, session.AccountID)
	if err != nil {
		log.Err(err).Msg("failed to list direct debits")
		http.Error(w, "failed to list direct debits", statusFromError(err))
		return
	}

	if err := h.writeEncryptedJSON(w, session.Key, debits, http.StatusOK); err != nil {
		log.Err(err).Msg("failed to write debits response")
	}
}

func (h *Handler) removeDebit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, ok := h.authenticatedSession(w, r)
	if !ok {
		return
	}

	var req models.RemoveDebitRequest
	if err := h.decryptBody(r, session.Key, &req); err != nil {
		log.Err(err).Msg("failed to decrypt debit removal request")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.services.DebitService.RemoveDebit(ctx, session.AccountID, req.DebitID); err != nil {
		log.Err(err).Msg("failed to remove direct debit")
		http.Error(w, "failed to remove direct debit", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}
