package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/cipherbank/go-cipher-bank/internal/adapter"
	"github.com/cipherbank/go-cipher-bank/internal/client"
	"github.com/cipherbank/go-cipher-bank/internal/config"
	"github.com/cipherbank/go-cipher-bank/internal/crypto"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("client")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = cfg.ValidateClient(); err != nil {
		log.Fatal().Err(err).Msg("invalid configs")
	}

	authority, err := adapter.NewHTTPAuthorityAdapter(cfg.Client, crypto.NewTransportService(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating authority adapter")
	}

	app := client.NewApp(authority, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
