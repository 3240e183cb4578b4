package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/utils"
	"github.com/cipherbank/go-cipher-bank/models"
)

// requestKey performs the authority side of the session handshake.
//
// The request body carries the client's PEM-encoded RSA public key. The
// response body is the fresh symmetric session material encrypted under
// that key, and the Authorization header carries the session token the
// client must present on every later request.
func (h *Handler) requestKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	publicKeyPEM, err := io.ReadAll(r.Body)
	if err != nil {
		log.Err(err).Msg("failed to read handshake body")
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	encryptedKey, token, err := h.services.AuthService.NegotiateSessionKey(ctx, publicKeyPEM)
	if err != nil {
		log.Err(err).Msg("session key negotiation failed")
		http.Error(w, "session key negotiation failed", statusFromError(err))
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(encryptedKey); err != nil {
		log.Err(err).Msg("failed to write handshake response")
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, err := h.session(r)
	if err != nil {
		log.Err(err).Msg("no live session for login")
		http.Error(w, "no live session", http.StatusUnauthorized)
		return
	}

	var req models.LoginRequest
	if err := h.decryptBody(r, session.Key, &req); err != nil {
		log.Err(err).Msg("failed to decrypt login request")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.Login(ctx, session.ID, req); err != nil {
		log.Err(err).Int64("account_id", req.AccountID).Msg("login failed")
		http.Error(w, "login failed", statusFromError(err))
		return
	}

	log.Debug().Int64("account_id", req.AccountID).Msg("account logged in")

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	sessionID, found := utils.GetSessionIDFromContext(ctx)
	if !found {
		log.Error().Msg("no session ID in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.AuthService.Logout(ctx, sessionID); err != nil {
		log.Err(err).Msg("logout failed")
		http.Error(w, "logout failed", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) heartbeat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	sessionID, found := utils.GetSessionIDFromContext(ctx)
	if !found {
		log.Error().Msg("no session ID in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.AuthService.Heartbeat(ctx, sessionID); err != nil {
		log.Err(err).Msg("heartbeat rejected")
		http.Error(w, "heartbeat rejected", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}
