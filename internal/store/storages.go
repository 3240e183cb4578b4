package store

import (
	"context"

	"github.com/cipherbank/go-cipher-bank/internal/config"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/migrations"
)

// Storages aggregates every repository the authority needs, constructed
// over one shared database connection.
type Storages struct {
	AccountRepository     AccountRepository
	TransactionRepository TransactionRepository
	DebitRepository       DebitRepository
}

// NewStorages connects to PostgreSQL, applies pending migrations and wires
// all repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := migrations.Migrate(db.DB); err != nil {
		return nil, err
	}

	return &Storages{
		AccountRepository:     NewAccountRepository(db, log),
		TransactionRepository: NewTransactionRepository(db, log),
		DebitRepository:       NewDebitRepository(db, log),
	}, nil
}
