package service

import (
	"context"
	"sync"
	"time"

	"github.com/cipherbank/go-cipher-bank/internal/blob"
	"github.com/cipherbank/go-cipher-bank/internal/ledger"
	"github.com/cipherbank/go-cipher-bank/internal/store"
	"github.com/cipherbank/go-cipher-bank/models"
)

// ─────────────────────────────────────────────
// Mock: store.AccountRepository
// ─────────────────────────────────────────────

type mockAccountRepository struct {
	getAccountFn  func(ctx context.Context, id int64) (models.Account, error)
	getAccountsFn func(ctx context.Context) ([]models.Account, error)
}

func (m *mockAccountRepository) GetAccount(ctx context.Context, id int64) (models.Account, error) {
	if m.getAccountFn != nil {
		return m.getAccountFn(ctx, id)
	}
	return models.Account{}, store.ErrNoAccountWasFound
}

func (m *mockAccountRepository) GetAccounts(ctx context.Context) ([]models.Account, error) {
	if m.getAccountsFn != nil {
		return m.getAccountsFn(ctx)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: store.TransactionRepository
// ─────────────────────────────────────────────

type mockTransactionRepository struct {
	commitTransferFn func(ctx context.Context, rec store.TransferRecord) error
	commitInterestFn func(ctx context.Context, rec store.InterestRecord) error
	getHistoryFn     func(ctx context.Context, accountID int64) ([]models.Transaction, error)
}

func (m *mockTransactionRepository) CommitTransfer(ctx context.Context, rec store.TransferRecord) error {
	if m.commitTransferFn != nil {
		return m.commitTransferFn(ctx, rec)
	}
	return nil
}

func (m *mockTransactionRepository) CommitInterest(ctx context.Context, rec store.InterestRecord) error {
	if m.commitInterestFn != nil {
		return m.commitInterestFn(ctx, rec)
	}
	return nil
}

func (m *mockTransactionRepository) GetHistory(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	if m.getHistoryFn != nil {
		return m.getHistoryFn(ctx, accountID)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: store.DebitRepository
// ─────────────────────────────────────────────

type mockDebitRepository struct {
	createDebitFn        func(ctx context.Context, debit models.DirectDebit) (models.DirectDebit, error)
	getDebitsFn          func(ctx context.Context) ([]models.DirectDebit, error)
	getDebitsByAccountFn func(ctx context.Context, accountID int64) ([]models.DirectDebit, error)
	updateNextRunFn      func(ctx context.Context, debitID int64, nextRun time.Time) error
	deleteDebitFn        func(ctx context.Context, debitID int64) error
}

func (m *mockDebitRepository) CreateDebit(ctx context.Context, debit models.DirectDebit) (models.DirectDebit, error) {
	if m.createDebitFn != nil {
		return m.createDebitFn(ctx, debit)
	}
	debit.ID = 1
	return debit, nil
}

func (m *mockDebitRepository) GetDebits(ctx context.Context) ([]models.DirectDebit, error) {
	if m.getDebitsFn != nil {
		return m.getDebitsFn(ctx)
	}
	return nil, nil
}

func (m *mockDebitRepository) GetDebitsByAccount(ctx context.Context, accountID int64) ([]models.DirectDebit, error) {
	if m.getDebitsByAccountFn != nil {
		return m.getDebitsByAccountFn(ctx, accountID)
	}
	return nil, nil
}

func (m *mockDebitRepository) UpdateNextRun(ctx context.Context, debitID int64, nextRun time.Time) error {
	if m.updateNextRunFn != nil {
		return m.updateNextRunFn(ctx, debitID, nextRun)
	}
	return nil
}

func (m *mockDebitRepository) DeleteDebit(ctx context.Context, debitID int64) error {
	if m.deleteDebitFn != nil {
		return m.deleteDebitFn(ctx, debitID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Fake: blob.StorageClient backed by a map
// ─────────────────────────────────────────────

// fakeStorage emulates the storage tier in memory, including the encrypted
// arithmetic of ApplyTransfer, so coordinator tests exercise the full blob
// choreography without a network.
type fakeStorage struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	ledger *ledger.Ledger

	failUpload bool
}

func newFakeStorage(l *ledger.Ledger) *fakeStorage {
	return &fakeStorage{
		blobs:  make(map[string][]byte),
		ledger: l,
	}
}

func (f *fakeStorage) Fetch(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.blobs[path]
	if !ok {
		return nil, blob.ErrBlobNotFound
	}
	return data, nil
}

func (f *fakeStorage) Upload(ctx context.Context, path string, data []byte) error {
	if f.failUpload {
		return blob.ErrStorageUnavailable
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[path] = data
	return nil
}

func (f *fakeStorage) ApplyTransfer(ctx context.Context, fromPath, toPath, amountPath string, amount []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fromData, ok := f.blobs[fromPath]
	if !ok {
		return blob.ErrBlobNotFound
	}
	toData, ok := f.blobs[toPath]
	if !ok {
		return blob.ErrBlobNotFound
	}

	amountCT, err := f.ledger.Unmarshal(amount)
	if err != nil {
		return err
	}
	fromCT, err := f.ledger.Unmarshal(fromData)
	if err != nil {
		return err
	}
	toCT, err := f.ledger.Unmarshal(toData)
	if err != nil {
		return err
	}

	newFrom, err := f.ledger.Subtract(fromCT, amountCT)
	if err != nil {
		return err
	}
	newTo, err := f.ledger.Add(toCT, amountCT)
	if err != nil {
		return err
	}

	if f.blobs[fromPath], err = f.ledger.Marshal(newFrom); err != nil {
		return err
	}
	if f.blobs[toPath], err = f.ledger.Marshal(newTo); err != nil {
		return err
	}
	f.blobs[amountPath] = amount

	return nil
}

func (f *fakeStorage) CreateDebit(ctx context.Context, path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.blobs[path]; exists {
		return blob.ErrRejected
	}
	f.blobs[path] = data
	return nil
}

func (f *fakeStorage) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.blobs[path]; !ok {
		return blob.ErrBlobNotFound
	}
	delete(f.blobs, path)
	return nil
}
