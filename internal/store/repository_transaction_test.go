package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/models"
)

func newTestTransactionRepo(t *testing.T) (*transactionRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &transactionRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func testTransferRecord() TransferRecord {
	return TransferRecord{
		Time:            time.Now(),
		FromID:          2,
		FromAmountPath:  "tx-2-neg.txt",
		FromBalancePath: "alice-v2.txt",
		ToID:            3,
		ToAmountPath:    "tx-3.txt",
		ToBalancePath:   "bob-v2.txt",
	}
}

func TestCommitTransfer_Success(t *testing.T) {
	repo, mock, db := newTestTransactionRepo(t)
	defer db.Close()

	rec := testTransferRecord()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(rec.Time, models.TransactionDebit, rec.FromAmountPath, rec.FromID, rec.ToID).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(rec.Time, models.TransactionCredit, rec.ToAmountPath, rec.ToID, rec.FromID).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("UPDATE accounts").
		WithArgs(rec.FromID, rec.FromBalancePath).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE accounts").
		WithArgs(rec.ToID, rec.ToBalancePath).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.CommitTransfer(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCommitTransfer_InsertFailsRollsBack(t *testing.T) {
	repo, mock, db := newTestTransactionRepo(t)
	defer db.Close()

	rec := testTransferRecord()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.CommitTransfer(context.Background(), rec)
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCommitTransfer_BalanceUpdateMatchesNoAccount(t *testing.T) {
	repo, mock, db := newTestTransactionRepo(t)
	defer db.Close()

	rec := testTransferRecord()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("UPDATE accounts").
		WithArgs(rec.FromID, rec.FromBalancePath).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CommitTransfer(context.Background(), rec)
	if !errors.Is(err, ErrNoAccountWasFound) {
		t.Fatalf("expected ErrNoAccountWasFound, got %v", err)
	}
}

func TestCommitTransfer_BeginError(t *testing.T) {
	repo, mock, db := newTestTransactionRepo(t)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	err := repo.CommitTransfer(context.Background(), testTransferRecord())
	if !errors.Is(err, ErrBeginningTransaction) {
		t.Fatalf("expected ErrBeginningTransaction, got %v", err)
	}
}

func TestCommitTransfer_CommitError(t *testing.T) {
	repo, mock, db := newTestTransactionRepo(t)
	defer db.Close()

	rec := testTransferRecord()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("UPDATE accounts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE accounts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := repo.CommitTransfer(context.Background(), rec)
	if !errors.Is(err, ErrCommitingTransaction) {
		t.Fatalf("expected ErrCommitingTransaction, got %v", err)
	}
}

func TestCommitInterest_Success(t *testing.T) {
	repo, mock, db := newTestTransactionRepo(t)
	defer db.Close()

	rec := InterestRecord{
		Time:        time.Now(),
		AccountID:   2,
		AmountPath:  "interest-2.txt",
		BalancePath: "alice-v3.txt",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(rec.Time, models.TransactionInterest, rec.AmountPath, rec.AccountID, models.SystemAccountID).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE accounts").
		WithArgs(rec.AccountID, rec.BalancePath).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.CommitInterest(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCommitInterest_AccountGone(t *testing.T) {
	repo, mock, db := newTestTransactionRepo(t)
	defer db.Close()

	rec := InterestRecord{Time: time.Now(), AccountID: 99, AmountPath: "a.txt", BalancePath: "b.txt"}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE accounts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CommitInterest(context.Background(), rec)
	if !errors.Is(err, ErrNoAccountWasFound) {
		t.Fatalf("expected ErrNoAccountWasFound, got %v", err)
	}
}

func TestGetHistory_Success(t *testing.T) {
	repo, mock, db := newTestTransactionRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.
		NewRows([]string{"transaction_time", "kind", "amount_path", "owner_account_id", "counterparty_account_id"}).
		AddRow(now.Add(-time.Hour), models.TransactionDebit, "tx-1.txt", 2, 3).
		AddRow(now, models.TransactionCredit, "tx-2.txt", 2, 4)

	mock.ExpectQuery("SELECT transaction_time").
		WithArgs(int64(2)).
		WillReturnRows(rows)

	history, err := repo.GetHistory(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].Kind != models.TransactionDebit || history[1].Kind != models.TransactionCredit {
		t.Errorf("unexpected entry kinds: %+v", history)
	}
	if history[0].CounterpartyID != 3 {
		t.Errorf("expected counterparty 3, got %d", history[0].CounterpartyID)
	}
}

func TestGetHistory_Empty(t *testing.T) {
	repo, mock, db := newTestTransactionRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT transaction_time").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"transaction_time", "kind", "amount_path", "owner_account_id", "counterparty_account_id"}))

	history, err := repo.GetHistory(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d entries", len(history))
	}
}

func TestGetHistory_QueryError(t *testing.T) {
	repo, mock, db := newTestTransactionRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT transaction_time").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetHistory(context.Background(), 2)
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}
