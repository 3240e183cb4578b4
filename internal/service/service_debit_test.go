package service

import (
	"context"
	"testing"
	"time"

	"github.com/cipherbank/go-cipher-bank/internal/ledger"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/store"
	"github.com/cipherbank/go-cipher-bank/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDebitFixture(t *testing.T) (*fakeStorage, *mockDebitRepository, DebitService) {
	t.Helper()

	l, keys := newTestLedger(t)
	storage := newFakeStorage(l)

	accounts := &mockAccountRepository{
		getAccountFn: func(ctx context.Context, id int64) (models.Account, error) {
			if id == 2 || id == 3 {
				return models.Account{ID: id}, nil
			}
			return models.Account{}, store.ErrNoAccountWasFound
		},
	}
	debits := &mockDebitRepository{}

	svc := NewDebitService(debits, accounts, storage, l, keys, logger.Nop())
	return storage, debits, svc
}

func TestCreateDebit(t *testing.T) {
	storage, _, svc := newDebitFixture(t)

	before := time.Now()
	created, err := svc.CreateDebit(context.Background(), 2, models.DebitRequest{
		ToID:     3,
		Amount:   12.50,
		Schedule: "0 9 * * 1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), created.FromID)
	assert.Equal(t, int64(3), created.ToID)
	assert.Equal(t, "0 9 * * 1", created.Schedule)
	assert.True(t, created.NextRun.After(before), "first run must be in the future")

	_, ok := storage.blobs[created.AmountPath]
	assert.True(t, ok, "amount blob must be stored")
}

func TestCreateDebit_InvalidSchedule(t *testing.T) {
	_, _, svc := newDebitFixture(t)

	_, err := svc.CreateDebit(context.Background(), 2, models.DebitRequest{
		ToID:     3,
		Amount:   12.50,
		Schedule: "every tuesday-ish",
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestCreateDebit_SameAccount(t *testing.T) {
	_, _, svc := newDebitFixture(t)

	_, err := svc.CreateDebit(context.Background(), 2, models.DebitRequest{
		ToID:     2,
		Amount:   12.50,
		Schedule: "0 9 * * 1",
	})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestCreateDebit_Validation(t *testing.T) {
	_, _, svc := newDebitFixture(t)

	_, err := svc.CreateDebit(context.Background(), 2, models.DebitRequest{
		ToID:   3,
		Amount: -1,
	})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestCreateDebit_UnknownPayee(t *testing.T) {
	_, _, svc := newDebitFixture(t)

	_, err := svc.CreateDebit(context.Background(), 2, models.DebitRequest{
		ToID:     42,
		Amount:   12.50,
		Schedule: "0 9 * * 1",
	})
	assert.ErrorIs(t, err, store.ErrNoAccountWasFound)
}

func TestDebitAmount_RoundTrip(t *testing.T) {
	_, _, svc := newDebitFixture(t)

	created, err := svc.CreateDebit(context.Background(), 2, models.DebitRequest{
		ToID:     3,
		Amount:   99.99,
		Schedule: "30 8 1 * *",
	})
	require.NoError(t, err)

	amount, err := svc.Amount(context.Background(), created)
	require.NoError(t, err)
	assert.InDelta(t, 99.99, amount, ledger.ErrorBound)
}

func TestAdvanceNextRun_StrictlyAfterNow(t *testing.T) {
	_, _, svc := newDebitFixture(t)

	schedules := []string{
		"* * * * *",     // every minute
		"0 * * * *",     // hourly
		"15 3 * * *",    // daily
		"0 9 * * 1",     // weekly, Monday
		"30 8 1 * *",    // monthly, 1st
		"0 12 25 12 *",  // yearly, Dec 25
		"@every 1h30m",  // interval form
	}
	nows := []time.Time{
		time.Now(),
		time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
	}

	for _, schedule := range schedules {
		for _, now := range nows {
			next, err := svc.AdvanceNextRun(context.Background(), models.DirectDebit{ID: 1, Schedule: schedule}, now)
			require.NoError(t, err, "schedule %q", schedule)
			assert.True(t, next.After(now), "schedule %q: next %s not after %s", schedule, next, now)
		}
	}
}

func TestAdvanceNextRun_PersistsUpdate(t *testing.T) {
	_, debits, svc := newDebitFixture(t)

	var persistedID int64
	var persistedNext time.Time
	debits.updateNextRunFn = func(ctx context.Context, debitID int64, nextRun time.Time) error {
		persistedID = debitID
		persistedNext = nextRun
		return nil
	}

	now := time.Now()
	next, err := svc.AdvanceNextRun(context.Background(), models.DirectDebit{ID: 8, Schedule: "* * * * *"}, now)
	require.NoError(t, err)

	assert.Equal(t, int64(8), persistedID)
	assert.True(t, persistedNext.Equal(next))
}

func TestRemoveDebit(t *testing.T) {
	storage, debits, svc := newDebitFixture(t)

	created, err := svc.CreateDebit(context.Background(), 2, models.DebitRequest{
		ToID:     3,
		Amount:   5.00,
		Schedule: "0 9 * * 1",
	})
	require.NoError(t, err)

	debits.getDebitsByAccountFn = func(ctx context.Context, accountID int64) ([]models.DirectDebit, error) {
		if accountID == 2 {
			return []models.DirectDebit{created}, nil
		}
		return nil, nil
	}

	require.NoError(t, svc.RemoveDebit(context.Background(), 2, created.ID))

	_, ok := storage.blobs[created.AmountPath]
	assert.False(t, ok, "amount blob must be deleted")
}

func TestRemoveDebit_NotOwned(t *testing.T) {
	_, _, svc := newDebitFixture(t)

	err := svc.RemoveDebit(context.Background(), 3, 1)
	assert.ErrorIs(t, err, store.ErrNoDebitWasFound)
}
