package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/cipherbank/go-cipher-bank/internal/logger"
)

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

// NewServer wraps router in a graceful HTTP server listening on address.
func NewServer(router http.Handler, address string, logger *logger.Logger) (Server, error) {
	logger.Info().Str("address", address).Msg("creating new server...")

	if address == "" {
		return nil, errNoAddressProvided
	}
	if router == nil {
		return nil, errNoRouterProvided
	}

	return &server{
		httpServer: newHTTPServer(router, address, logger),
		logger:     logger,
	}, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Info().Msgf("Error running server: %v", err)
	}
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()
}

func (s *server) run() error {
	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// listen for stop signals
	go func() {
		<-ctx.Done()

		s.Shutdown()

		close(idleConnectionsClosed)
	}()

	s.logger.Info().Msg("Launching HTTP server")
	go s.httpServer.RunServer()

	<-idleConnectionsClosed
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}
