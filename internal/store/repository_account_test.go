package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
)

func newTestAccountRepo(t *testing.T) (*accountRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &accountRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func accountColumns() []string {
	return []string{"id", "display_name", "pin_hash", "balance_path", "public_key", "interest_rate"}
}

func TestGetAccount_Success(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()

	rows := sqlmock.
		NewRows(accountColumns()).
		AddRow(2, "Alice", "pin-hash", "alice.txt", "pem", 0.02)

	mock.ExpectQuery("SELECT id, display_name").
		WithArgs(int64(2)).
		WillReturnRows(rows)

	account, err := repo.GetAccount(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != 2 {
		t.Errorf("expected ID=2, got %d", account.ID)
	}
	if account.BalancePath != "alice.txt" {
		t.Errorf("expected balance path alice.txt, got %s", account.BalancePath)
	}
	if account.InterestRate != 0.02 {
		t.Errorf("expected interest rate 0.02, got %f", account.InterestRate)
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, display_name").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetAccount(ctx, 99)
	if !errors.Is(err, ErrNoAccountWasFound) {
		t.Fatalf("expected ErrNoAccountWasFound, got %v", err)
	}
}

func TestGetAccount_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, display_name").
		WithArgs(int64(2)).
		WillReturnError(errors.New("db network error"))

	_, err := repo.GetAccount(ctx, 2)
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestGetAccounts_Success(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()

	rows := sqlmock.
		NewRows(accountColumns()).
		AddRow(1, "System", "pin-hash", "system.txt", "pem", 0.0).
		AddRow(2, "Alice", "pin-hash", "alice.txt", "pem", 0.02).
		AddRow(3, "Bob", "pin-hash", "bob.txt", "pem", 0.01)

	mock.ExpectQuery("SELECT id, display_name").
		WillReturnRows(rows)

	accounts, err := repo.GetAccounts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(accounts))
	}
	if accounts[0].ID != 1 || accounts[2].DisplayName != "Bob" {
		t.Errorf("unexpected account ordering: %+v", accounts)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetAccounts_Empty(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, display_name").
		WillReturnRows(sqlmock.NewRows(accountColumns()))

	accounts, err := repo.GetAccounts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("expected empty slice, got %d accounts", len(accounts))
	}
}

func TestGetAccounts_QueryError(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, display_name").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetAccounts(ctx)
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestGetAccounts_ScanError(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()

	rows := sqlmock.
		NewRows([]string{"id"}). // intentionally wrong shape → scan error
		AddRow(1)

	mock.ExpectQuery("SELECT id, display_name").
		WillReturnRows(rows)

	_, err := repo.GetAccounts(ctx)
	if !errors.Is(err, ErrScanningRow) {
		t.Fatalf("expected ErrScanningRow, got %v", err)
	}
}
