package store

import (
	"context"
	"fmt"

	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/models"
)

// transactionRepository is the PostgreSQL-backed implementation of
// [TransactionRepository]. The relational transaction opened here is the
// sole mutual-exclusion mechanism for balance references: two concurrent
// transfers touching one account serialize on the row lock taken by the
// balance_path UPDATE.
type transactionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTransactionRepository constructs a [TransactionRepository] backed by
// the provided database connection and logger.
func NewTransactionRepository(db *DB, logger *logger.Logger) TransactionRepository {
	logger.Debug().Msg("creating transaction repository")
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

// CommitTransfer writes both audit rows and both balance reference updates
// inside a single database transaction.
//
// The transaction is rolled back automatically (via defer) if any statement
// fails; the commit is attempted only after all four statements succeed. On
// rollback both accounts keep their previous balance references untouched.
func (r *transactionRepository) CommitTransfer(ctx context.Context, rec TransferRecord) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "transactionRepository.CommitTransfer").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	// mirrored audit rows: debit for the payer, credit for the payee
	if _, err := tx.ExecContext(ctx, insertTransaction, rec.Time, models.TransactionDebit, rec.FromAmountPath, rec.FromID, rec.ToID); err != nil {
		log.Err(err).Str("func", "transactionRepository.CommitTransfer").Int64("from_id", rec.FromID).Msg("failed to insert debit audit row")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if _, err := tx.ExecContext(ctx, insertTransaction, rec.Time, models.TransactionCredit, rec.ToAmountPath, rec.ToID, rec.FromID); err != nil {
		log.Err(err).Str("func", "transactionRepository.CommitTransfer").Int64("to_id", rec.ToID).Msg("failed to insert credit audit row")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	for _, upd := range []struct {
		id   int64
		path string
	}{
		{rec.FromID, rec.FromBalancePath},
		{rec.ToID, rec.ToBalancePath},
	} {
		res, err := tx.ExecContext(ctx, updateBalancePath, upd.id, upd.path)
		if err != nil {
			log.Err(err).Str("func", "transactionRepository.CommitTransfer").Int64("account_id", upd.id).Msg("failed to update balance reference")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			log.Error().Str("func", "transactionRepository.CommitTransfer").Int64("account_id", upd.id).Msg("balance update matched no account")
			return ErrNoAccountWasFound
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "transactionRepository.CommitTransfer").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "transactionRepository.CommitTransfer").
		Int64("from_id", rec.FromID).
		Int64("to_id", rec.ToID).
		Msg("transfer committed")

	return nil
}

// CommitInterest writes one interest audit row (counterparty fixed to the
// system sink account) and the account's new balance reference inside a
// single database transaction.
func (r *transactionRepository) CommitInterest(ctx context.Context, rec InterestRecord) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "transactionRepository.CommitInterest").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertTransaction, rec.Time, models.TransactionInterest, rec.AmountPath, rec.AccountID, models.SystemAccountID); err != nil {
		log.Err(err).Str("func", "transactionRepository.CommitInterest").Int64("account_id", rec.AccountID).Msg("failed to insert interest audit row")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	res, err := tx.ExecContext(ctx, updateBalancePath, rec.AccountID, rec.BalancePath)
	if err != nil {
		log.Err(err).Str("func", "transactionRepository.CommitInterest").Int64("account_id", rec.AccountID).Msg("failed to update balance reference")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNoAccountWasFound
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "transactionRepository.CommitInterest").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

// GetHistory retrieves the audit rows owned by accountID, oldest first.
//
// Returns an empty slice when the account has no transactions.
func (r *transactionRepository) GetHistory(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildHistoryQuery(accountID)
	if err != nil {
		log.Err(err).Str("func", "transactionRepository.GetHistory").Int64("account_id", accountID).Msg("failed to build history query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "transactionRepository.GetHistory").Int64("account_id", accountID).Msg("failed to execute history query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	history := make([]models.Transaction, 0, 32)

	for rows.Next() {
		var tr models.Transaction
		if scanErr := rows.Scan(&tr.Time, &tr.Kind, &tr.AmountPath, &tr.OwnerID, &tr.CounterpartyID); scanErr != nil {
			log.Err(scanErr).Str("func", "transactionRepository.GetHistory").Int64("account_id", accountID).Msg("failed to scan transaction row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		history = append(history, tr)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "transactionRepository.GetHistory").Int64("account_id", accountID).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return history, nil
}
