package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/models"
	"github.com/jackc/pgerrcode"
)

// debitRepository is the PostgreSQL-backed implementation of
// [DebitRepository] against the "direct_debits" table.
type debitRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewDebitRepository constructs a [DebitRepository] backed by the provided
// database connection and logger.
func NewDebitRepository(db *DB, logger *logger.Logger) DebitRepository {
	logger.Debug().Msg("creating direct debit repository")
	return &debitRepository{
		db:     db,
		logger: logger,
	}
}

// CreateDebit persists a new direct debit and returns it with the
// server-assigned id.
//
// Error handling:
//   - PostgreSQL foreign_key_violation (23503) → [ErrNoAccountWasFound]
//     (one of the referenced accounts does not exist).
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *debitRepository) CreateDebit(ctx context.Context, debit models.DirectDebit) (models.DirectDebit, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createDebit, debit.FromID, debit.ToID, debit.AmountPath, debit.Schedule, debit.NextRun)

	if err := row.Scan(&debit.ID, &debit.FromID, &debit.ToID, &debit.AmountPath, &debit.Schedule, &debit.NextRun); err != nil {
		log.Err(err).Str("func", "*debitRepository.CreateDebit").Int64("from_id", debit.FromID).Msg("error: scanning error")

		switch postgresError(err) {
		case pgerrcode.ForeignKeyViolation:
			return models.DirectDebit{}, ErrNoAccountWasFound
		default:
			return models.DirectDebit{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return debit, nil
}

// GetDebits retrieves every direct debit, soonest next run first.
func (r *debitRepository) GetDebits(ctx context.Context) ([]models.DirectDebit, error) {
	return r.queryDebits(ctx, 0)
}

// GetDebitsByAccount retrieves the debits paying out of accountID.
func (r *debitRepository) GetDebitsByAccount(ctx context.Context, accountID int64) ([]models.DirectDebit, error) {
	return r.queryDebits(ctx, accountID)
}

func (r *debitRepository) queryDebits(ctx context.Context, accountID int64) ([]models.DirectDebit, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDebitsQuery(accountID)
	if err != nil {
		log.Err(err).Str("func", "*debitRepository.queryDebits").Msg("failed to build debits query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*debitRepository.queryDebits").Msg("failed to execute debits query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	debits := make([]models.DirectDebit, 0, 8)

	for rows.Next() {
		var debit models.DirectDebit
		if scanErr := rows.Scan(&debit.ID, &debit.FromID, &debit.ToID, &debit.AmountPath, &debit.Schedule, &debit.NextRun); scanErr != nil {
			log.Err(scanErr).Str("func", "*debitRepository.queryDebits").Msg("failed to scan debit row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		debits = append(debits, debit)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*debitRepository.queryDebits").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return debits, nil
}

// UpdateNextRun advances a debit's next due time. Runs in its own implicit
// transaction: the schedule must advance even when the execution that
// follows fails.
func (r *debitRepository) UpdateNextRun(ctx context.Context, debitID int64, nextRun time.Time) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, updateDebitNextRun, debitID, nextRun)
	if err != nil {
		log.Err(err).Str("func", "*debitRepository.UpdateNextRun").Int64("debit_id", debitID).Msg("failed to update next run")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNoDebitWasFound
	}

	return nil
}

// DeleteDebit removes a direct debit row.
func (r *debitRepository) DeleteDebit(ctx context.Context, debitID int64) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, deleteDebit, debitID)
	if err != nil {
		log.Err(err).Str("func", "*debitRepository.DeleteDebit").Int64("debit_id", debitID).Msg("failed to delete debit")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNoDebitWasFound
	}

	return nil
}
