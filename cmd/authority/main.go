package main

import (
	"context"
	"fmt"

	"github.com/cipherbank/go-cipher-bank/internal/blob"
	"github.com/cipherbank/go-cipher-bank/internal/config"
	"github.com/cipherbank/go-cipher-bank/internal/crypto"
	handler "github.com/cipherbank/go-cipher-bank/internal/handler/http"
	"github.com/cipherbank/go-cipher-bank/internal/ledger"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/scheduler"
	"github.com/cipherbank/go-cipher-bank/internal/server"
	"github.com/cipherbank/go-cipher-bank/internal/service"
	"github.com/cipherbank/go-cipher-bank/internal/store"
	"github.com/cipherbank/go-cipher-bank/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("authority")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = cfg.ValidateAuthority(); err != nil {
		log.Fatal().Err(err).Msg("invalid configs")
	}

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	keys, err := ledger.LoadOrCreateKeyChain(cfg.App.KeyDir)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading key material")
	}
	ldg := ledger.New(keys.Params)

	storage := blob.NewStorageClient(blob.StorageClientConfig{
		BaseURL: cfg.Storage.Tier.BaseURL,
		Timeout: cfg.Storage.Tier.Timeout,
	})
	transport := crypto.NewTransportService()

	services := service.NewServices(*storages, storage, transport, ldg, keys, *cfg, log)

	srv, err := server.NewServer(handler.NewHandler(services, transport, log).Init(), cfg.Server.HTTPAddress, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	background := []workers.Worker{
		scheduler.NewDebitWorker(services.DebitService, services.TransferService, cfg.Scheduler.DebitInterval, log),
	}
	if cfg.Scheduler.InterestInterval > 0 {
		background = append(background, scheduler.NewInterestWorker(services.TransferService, cfg.Scheduler.InterestInterval, log))
	}

	pool := workers.NewWorkers(background...)
	pool.Start(ctx)
	defer pool.Stop()

	srv.RunServer()
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
