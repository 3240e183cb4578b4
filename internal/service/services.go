package service

import (
	"github.com/cipherbank/go-cipher-bank/internal/blob"
	"github.com/cipherbank/go-cipher-bank/internal/config"
	"github.com/cipherbank/go-cipher-bank/internal/crypto"
	"github.com/cipherbank/go-cipher-bank/internal/ledger"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/store"
)

type Services struct {
	AuthService     AuthService
	TransferService TransferService
	DebitService    DebitService
}

func NewServices(storages store.Storages, storage blob.StorageClient, transport crypto.TransportService, ldg *ledger.Ledger, keys *ledger.KeyChain, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	registry := NewSessionRegistry()

	return &Services{
		AuthService:     NewAuthService(storages.AccountRepository, transport, registry, cfg.App, logger),
		TransferService: NewTransferService(storages.AccountRepository, storages.TransactionRepository, storage, ldg, keys, logger),
		DebitService:    NewDebitService(storages.DebitRepository, storages.AccountRepository, storage, ldg, keys, logger),
	}
}
