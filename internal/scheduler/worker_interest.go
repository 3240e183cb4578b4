package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/service"
)

// InterestWorker accrues interest across all accounts on a ticker. Accounts
// with a zero rate are skipped by the coordinator; a failure on one account
// is logged and does not stop the pass.
type InterestWorker struct {
	transfers service.TransferService
	interval  time.Duration
	logger    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewInterestWorker creates an InterestWorker. The worker is idle until
// Start is called.
func NewInterestWorker(transfers service.TransferService, interval time.Duration, logger *logger.Logger) *InterestWorker {
	return &InterestWorker{
		transfers: transfers,
		interval:  interval,
		logger:    logger,
	}
}

// Start stops any previously running loop, then launches a background
// goroutine that runs one accrual pass every interval. If the configured
// interval is zero or negative it defaults to 24 hours. The goroutine exits
// when ctx is cancelled or Stop is called.
func (w *InterestWorker) Start(ctx context.Context) {
	interval := w.interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	w.Stop()

	w.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
				w.pass(loopCtx)
			}
		}
	}()
}

// Stop cancels the background goroutine's context and blocks until it has
// fully exited. Safe to call when the worker is not running.
func (w *InterestWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// pass accrues interest on every account.
func (w *InterestWorker) pass(ctx context.Context) {
	log := w.logger

	accounts, err := w.transfers.Accounts(ctx)
	if err != nil {
		log.Err(err).Msg("account refresh failed")
		return
	}

	for _, account := range accounts {
		if err := w.transfers.AccrueInterest(ctx, account); err != nil {
			log.Err(err).Int64("accountID", account.ID).Msg("interest accrual failed")
		}
	}
}
