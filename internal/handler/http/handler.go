package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/cipherbank/go-cipher-bank/internal/crypto"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/service"
	"github.com/cipherbank/go-cipher-bank/internal/utils"
	"github.com/cipherbank/go-cipher-bank/models"
)

type Handler struct {
	services  *service.Services
	transport crypto.TransportService

	logger *logger.Logger
}

func NewHandler(services *service.Services, transport crypto.TransportService, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		transport: transport,
		logger:    logger,
	}
}

// session resolves the live session for the request's token. The auth
// middleware has already validated the token and stored the session ID.
func (h *Handler) session(r *http.Request) (models.Session, error) {
	sessionID, found := utils.GetSessionIDFromContext(r.Context())
	if !found {
		return models.Session{}, service.ErrSessionNotFound
	}

	return h.services.AuthService.Session(r.Context(), sessionID)
}

// decryptBody reads the request body, decrypts it under the session key
// and unmarshals the plaintext JSON into v.
func (h *Handler) decryptBody(r *http.Request, key models.SessionKey, v any) error {
	ciphertext, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	plaintext, err := h.transport.DecryptPayload(ciphertext, key)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}

// writeEncryptedJSON serializes v to JSON, encrypts it under the session
// key and writes the ciphertext as the response body.
func (h *Handler) writeEncryptedJSON(w http.ResponseWriter, key models.SessionKey, v any, statusCode int) error {
	plaintext, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}

	ciphertext, err := h.transport.EncryptPayload(plaintext, key)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(statusCode)
	_, err = w.Write(ciphertext)
	return err
}
