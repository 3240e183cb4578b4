// Package scheduler runs the background passes of the authority: the direct
// debit evaluation loop and the interest accrual loop. Both are ticker-driven
// workers started once at process start and stopped on shutdown.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/service"
	"github.com/cipherbank/go-cipher-bank/models"
)

// DebitWorker evaluates the direct debit set on a ticker. Every pass
// refreshes the entries from the store, advances each due entry's next run
// strictly past now, and executes it through the transfer coordinator.
//
// Two policies are deliberate:
//   - The next run is advanced before execution, whether or not the
//     execution succeeds, so an unreachable payee cannot make the same
//     debit fire in a tight loop.
//   - An entry whose execution fails is removed rather than retried;
//     repeated silent retries could mask a permanently broken payee.
//
// The first pass after start only repairs entries: a stale next run left
// behind by downtime is advanced without executing, so missed occurrences
// are skipped instead of replayed.
type DebitWorker struct {
	debits    service.DebitService
	transfers service.TransferService
	interval  time.Duration
	logger    *logger.Logger

	// bootstrapped flips after the repair pass.
	bootstrapped bool

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDebitWorker creates a DebitWorker. The worker is idle until Start is
// called.
func NewDebitWorker(debits service.DebitService, transfers service.TransferService, interval time.Duration, logger *logger.Logger) *DebitWorker {
	return &DebitWorker{
		debits:    debits,
		transfers: transfers,
		interval:  interval,
		logger:    logger,
	}
}

// Start stops any previously running loop, then launches a background
// goroutine that runs one evaluation pass every interval. If the configured
// interval is zero or negative it defaults to one minute. The goroutine
// exits when ctx is cancelled or Stop is called.
func (w *DebitWorker) Start(ctx context.Context) {
	interval := w.interval
	if interval <= 0 {
		interval = time.Minute
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

		w.pass(loopCtx)
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
func (w *DebitWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// pass runs one evaluation over the current debit set.
func (w *DebitWorker) pass(ctx context.Context) {
	log := w.logger

	now := time.Now()
	debits, err := w.debits.AllDebits(ctx)
	if err != nil {
		log.Err(err).Msg("debit refresh failed")
		return
	}

	repairOnly := !w.bootstrapped
	w.bootstrapped = true

	for _, debit := range debits {
		if !debit.Due(now) {
			continue
		}

		// Advance first: the schedule moves on regardless of the
		// execution outcome.
		next, err := w.debits.AdvanceNextRun(ctx, debit, now)
		if err != nil {
			log.Err(err).Int64("debitID", debit.ID).Msg("next run advancement failed")
			continue
		}

		if repairOnly {
			log.Info().
				Int64("debitID", debit.ID).
				Time("nextRun", next).
				Msg("stale debit schedule repaired")
			continue
		}

		if err := w.execute(ctx, debit); err != nil {
			log.Err(err).
				Int64("debitID", debit.ID).
				Int64("fromID", debit.FromID).
				Int64("toID", debit.ToID).
				Msg("debit execution failed, removing entry")

			if err := w.debits.RemoveDebitEntry(ctx, debit); err != nil {
				log.Err(err).Int64("debitID", debit.ID).Msg("failed debit removal failed")
			}
		}
	}
}

// execute decodes the debit's amount and delegates to the coordinator.
func (w *DebitWorker) execute(ctx context.Context, debit models.DirectDebit) error {
	amount, err := w.debits.Amount(ctx, debit)
	if err != nil {
		return err
	}

	return w.transfers.TransferAmount(ctx, debit.FromID, debit.ToID, amount)
}
