package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// handshake, no session token yet
	router.Group(func(r chi.Router) {
		r.Post("/requestkey", h.requestKey)
	})

	// everything past the handshake is identified by the session token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Put("/login", h.login)
		r.Delete("/login", h.logout)
		r.Get("/heartbeat", h.heartbeat)

		r.Post("/transfer", h.transfer)
		r.Get("/transfer", h.balance)
		r.Get("/history", h.history)

		r.Post("/debits", h.createDebit)
		r.Get("/debits", h.listDebits)
		r.Delete("/debits", h.removeDebit)
	})

	return router
}
