package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/models"
)

// accountRepository is the PostgreSQL-backed implementation of
// [AccountRepository]. It handles account lookup against the "accounts"
// table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// GetAccount retrieves one account row by id.
//
// Error handling:
//   - No matching row → [ErrNoAccountWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *accountRepository) GetAccount(ctx context.Context, id int64) (models.Account, error) {
	log := logger.FromContext(ctx)

	var account models.Account
	row := r.db.QueryRowContext(ctx, getAccount, id)

	if err := row.Scan(&account.ID, &account.DisplayName, &account.PINHash, &account.BalancePath, &account.PublicKey, &account.InterestRate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn().Str("func", "*accountRepository.GetAccount").Int64("account_id", id).Msg("account not found")
			return models.Account{}, ErrNoAccountWasFound
		}

		log.Err(err).Str("func", "*accountRepository.GetAccount").Int64("account_id", id).Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return account, nil
}

// GetAccounts retrieves every account ordered by id.
//
// Returns an empty slice when no records are found.
func (r *accountRepository) GetAccounts(ctx context.Context) ([]models.Account, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, getAccounts)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.GetAccounts").Msg("failed to execute accounts query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0, 16)

	for rows.Next() {
		var account models.Account
		if scanErr := rows.Scan(&account.ID, &account.DisplayName, &account.PINHash, &account.BalancePath, &account.PublicKey, &account.InterestRate); scanErr != nil {
			log.Err(scanErr).Str("func", "*accountRepository.GetAccounts").Msg("failed to scan account row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		accounts = append(accounts, account)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*accountRepository.GetAccounts").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return accounts, nil
}
