package main

import (
	"fmt"

	"github.com/cipherbank/go-cipher-bank/internal/cloud"
	"github.com/cipherbank/go-cipher-bank/internal/config"
	"github.com/cipherbank/go-cipher-bank/internal/ledger"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/server"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("storage-tier")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = cfg.ValidateCloud(); err != nil {
		log.Fatal().Err(err).Msg("invalid configs")
	}

	params, err := ledger.LoadParameters(cfg.Cloud.ParamsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading shared parameters")
	}
	ldg := ledger.New(params)

	store, err := cloud.NewFileStore(cfg.Cloud.BlobDir, cfg.Cloud.MaxBlobBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating blob store")
	}

	h := cloud.NewHandler(store, ldg, cfg.Cloud.AuthorityHost, log)

	srv, err := server.NewServer(h.Init(), cfg.Cloud.HTTPAddress, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

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
