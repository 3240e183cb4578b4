package cloud

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cipherbank/go-cipher-bank/internal/blob"
	"github.com/cipherbank/go-cipher-bank/internal/ledger"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler is the storage tier's HTTP surface. Every route sits behind the
// source-address gate: only requests whose remote host equals the
// configured authority host are served, anything else is rejected before
// any side effect.
type Handler struct {
	store  *FileStore
	ledger *ledger.Ledger

	authorityHost string

	logger *logger.Logger
}

// NewHandler constructs the storage tier handler.
func NewHandler(store *FileStore, ldg *ledger.Ledger, authorityHost string, logger *logger.Logger) *Handler {
	logger.Info().Str("authorityHost", authorityHost).Msg("storage tier handler created")
	return &Handler{
		store:         store,
		ledger:        ldg,
		authorityHost: authorityHost,
		logger:        logger,
	}
}

// Init builds the router.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLogging)
	router.Use(h.sourceGate)

	router.Get("/balance/{name}", h.fetch)
	router.Post("/transfer/{name}", h.upload)
	router.Put("/transfer/{spec}", h.applyTransfer)
	router.Post("/debits/{name}", h.createDebit)
	router.Delete("/debits/{name}", h.deleteBlob)

	return router
}

// sourceGate rejects any request not originating from the authority host.
// The check is a plain address comparison: coarse and spoofable, which the
// deployment accepts for an isolated backend network.
func (h *Handler) sourceGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !h.allowedSource(host) {
			h.logger.Error().
				Str("remote", r.RemoteAddr).
				Str("uri", r.RequestURI).
				Msg("request from non-authority source rejected")
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) allowedSource(host string) bool {
	if host == h.authorityHost {
		return true
	}

	// Loopback aliases are equivalent when the authority runs locally.
	loopback := map[string]bool{"localhost": true, "127.0.0.1": true, "::1": true}
	return loopback[h.authorityHost] && loopback[host]
}

func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		h.logger.Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Str("remote", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Send()
	})
}

// fetch serves the blob bytes at the requested name.
func (h *Handler) fetch(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.Get(chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

// upload stores the request body at the requested name, overwriting any
// existing blob. Used by the authority for fresh balance snapshots and
// audit blobs.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	data, err := h.readBody(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.store.Put(chi.URLParam(r, "name"), data); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// applyTransfer performs the encrypted arithmetic of one transfer: the
// request body is the amount ciphertext, the URL names the two balance
// blobs and the path to retain the amount under. The amount is subtracted
// from the first balance and added to the second, in place; nothing is
// decrypted.
func (h *Handler) applyTransfer(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(chi.URLParam(r, "spec"), ",")
	if len(parts) != 3 {
		http.Error(w, "expected from,to,amount blob names", http.StatusBadRequest)
		return
	}
	fromName, toName, amountName := parts[0], parts[1], parts[2]

	amountData, err := h.readBody(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	fromData, err := h.store.Get(fromName)
	if err != nil {
		h.writeError(w, err)
		return
	}
	toData, err := h.store.Get(toName)
	if err != nil {
		h.writeError(w, err)
		return
	}

	amountCT, err := h.ledger.Unmarshal(amountData)
	if err != nil {
		h.writeError(w, err)
		return
	}
	fromCT, err := h.ledger.Unmarshal(fromData)
	if err != nil {
		h.writeError(w, err)
		return
	}
	toCT, err := h.ledger.Unmarshal(toData)
	if err != nil {
		h.writeError(w, err)
		return
	}

	newFrom, err := h.ledger.Subtract(fromCT, amountCT)
	if err != nil {
		h.writeError(w, err)
		return
	}
	newTo, err := h.ledger.Add(toCT, amountCT)
	if err != nil {
		h.writeError(w, err)
		return
	}

	newFromData, err := h.ledger.Marshal(newFrom)
	if err != nil {
		h.writeError(w, err)
		return
	}
	newToData, err := h.ledger.Marshal(newTo)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.store.Put(fromName, newFromData); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.store.Put(toName, newToData); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.store.Put(amountName, amountData); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// createDebit stores a direct debit amount blob, refusing existing paths
// and names without the ledger file suffix.
func (h *Handler) createDebit(w http.ResponseWriter, r *http.Request) {
	data, err := h.readBody(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.store.Create(chi.URLParam(r, "name"), blob.Suffix, data); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// deleteBlob removes the blob at the requested name.
func (h *Handler) deleteBlob(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(chi.URLParam(r, "name")); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// readBody reads the request body under the store's size cap.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	limited := http.MaxBytesReader(w, r.Body, h.store.MaxBytes())
	data, err := io.ReadAll(limited)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrBlobTooLarge
		}
		return nil, err
	}
	return data, nil
}

// writeError maps storage and ledger failures to HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	h.logger.Err(err).Send()

	switch {
	case errors.Is(err, ErrBlobNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrBlobExists),
		errors.Is(err, ErrBadSuffix),
		errors.Is(err, ErrOutsideRoot),
		errors.Is(err, ErrBlobTooLarge):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ledger.ErrScaleMismatch),
		errors.Is(err, ledger.ErrParameterMismatch):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
