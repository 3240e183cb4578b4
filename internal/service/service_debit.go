package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cipherbank/go-cipher-bank/internal/blob"
	"github.com/cipherbank/go-cipher-bank/internal/ledger"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/store"
	"github.com/cipherbank/go-cipher-bank/models"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// debitService manages the recurring direct debit entries: creation,
// listing, removal and schedule evaluation. The amount of every debit is
// held only as a ciphertext blob on the storage tier.
type debitService struct {
	debitRepository   store.DebitRepository
	accountRepository store.AccountRepository

	storage blob.StorageClient

	ledger *ledger.Ledger
	keys   *ledger.KeyChain

	validate *validator.Validate
	logger   *logger.Logger
}

// NewDebitService constructs a DebitService.
func NewDebitService(debitRepository store.DebitRepository, accountRepository store.AccountRepository, storage blob.StorageClient, ldg *ledger.Ledger, keys *ledger.KeyChain, logger *logger.Logger) DebitService {
	return &debitService{
		debitRepository:   debitRepository,
		accountRepository: accountRepository,
		storage:           storage,
		ledger:            ldg,
		keys:              keys,
		validate:          validator.New(),
		logger:            logger,
	}
}

// CreateDebit validates the request, encrypts and stores the amount blob,
// and persists the debit row with the first occurrence of its schedule.
//
// Returns
//   - ErrInvalidDataProvided for failed validation or from == to.
//   - ErrInvalidSchedule if the cron expression does not parse.
//   - store.ErrNoAccountWasFound if either account does not exist.
func (d *debitService) CreateDebit(ctx context.Context, fromID int64, req models.DebitRequest) (models.DirectDebit, error) {
	log := logger.FromContext(ctx)

	if err := d.validate.Struct(req); err != nil {
		log.Err(err).Int64("fromID", fromID).Msg("invalid debit request")
		return models.DirectDebit{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if fromID == req.ToID {
		return models.DirectDebit{}, ErrInvalidDataProvided
	}

	schedule, err := cron.ParseStandard(req.Schedule)
	if err != nil {
		log.Err(err).Str("schedule", req.Schedule).Msg("unparseable debit schedule")
		return models.DirectDebit{}, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	from, err := d.accountRepository.GetAccount(ctx, fromID)
	if err != nil {
		return models.DirectDebit{}, fmt.Errorf("paying account lookup failed: %w", err)
	}
	if _, err := d.accountRepository.GetAccount(ctx, req.ToID); err != nil {
		return models.DirectDebit{}, fmt.Errorf("receiving account lookup failed: %w", err)
	}

	now := time.Now()

	key := d.keys.PublicKey
	if len(from.PublicKey) != 0 {
		if key, err = ledger.ParsePublicKey(from.PublicKey); err != nil {
			return models.DirectDebit{}, err
		}
	}

	ct, err := d.ledger.Encrypt(req.Amount, key)
	if err != nil {
		return models.DirectDebit{}, err
	}
	amountBlob, err := d.ledger.Marshal(ct)
	if err != nil {
		return models.DirectDebit{}, err
	}

	amountPath := blob.DebitPath(fromID, req.ToID, now)
	if err := d.storage.CreateDebit(ctx, amountPath, amountBlob); err != nil {
		return models.DirectDebit{}, fmt.Errorf("debit amount blob upload failed: %w", err)
	}

	debit := models.DirectDebit{
		FromID:     fromID,
		ToID:       req.ToID,
		AmountPath: amountPath,
		Schedule:   req.Schedule,
		NextRun:    schedule.Next(now),
	}

	created, err := d.debitRepository.CreateDebit(ctx, debit)
	if err != nil {
		log.Err(err).Int64("fromID", fromID).Msg("debit row creation failed")
		return models.DirectDebit{}, fmt.Errorf("debit creation failed: %w", err)
	}

	return created, nil
}

// GetDebits lists the debits paid from accountID.
func (d *debitService) GetDebits(ctx context.Context, accountID int64) ([]models.DirectDebit, error) {
	return d.debitRepository.GetDebitsByAccount(ctx, accountID)
}

// AllDebits lists every debit.
func (d *debitService) AllDebits(ctx context.Context) ([]models.DirectDebit, error) {
	return d.debitRepository.GetDebits(ctx)
}

// RemoveDebit deletes a debit owned by accountID.
//
// Returns store.ErrNoDebitWasFound if the debit does not exist or is not
// paid from accountID.
func (d *debitService) RemoveDebit(ctx context.Context, accountID, debitID int64) error {
	owned, err := d.debitRepository.GetDebitsByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("debit lookup failed: %w", err)
	}

	for _, debit := range owned {
		if debit.ID == debitID {
			return d.RemoveDebitEntry(ctx, debit)
		}
	}

	return store.ErrNoDebitWasFound
}

// RemoveDebitEntry deletes the debit row and its amount blob. The row is
// authoritative; a blob that cannot be deleted is only logged.
func (d *debitService) RemoveDebitEntry(ctx context.Context, debit models.DirectDebit) error {
	log := logger.FromContext(ctx)

	if err := d.debitRepository.DeleteDebit(ctx, debit.ID); err != nil {
		return fmt.Errorf("debit deletion failed: %w", err)
	}

	if err := d.storage.Delete(ctx, debit.AmountPath); err != nil && !errors.Is(err, blob.ErrBlobNotFound) {
		log.Err(err).Str("path", debit.AmountPath).Msg("debit amount blob deletion failed")
	}

	return nil
}

// Amount decrypts the debit's stored amount ciphertext.
func (d *debitService) Amount(ctx context.Context, debit models.DirectDebit) (float64, error) {
	data, err := d.storage.Fetch(ctx, debit.AmountPath)
	if err != nil {
		return 0, fmt.Errorf("debit amount fetch failed: %w", err)
	}

	ct, err := d.ledger.Unmarshal(data)
	if err != nil {
		return 0, err
	}

	return d.ledger.Decrypt(ct, d.keys.SecretKey)
}

// AdvanceNextRun re-parses the debit's schedule, persists the first
// occurrence strictly after now, and returns it. Re-parsing on every
// evaluation is cheap and avoids persisting a parsed form.
func (d *debitService) AdvanceNextRun(ctx context.Context, debit models.DirectDebit, now time.Time) (time.Time, error) {
	schedule, err := cron.ParseStandard(debit.Schedule)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	next := schedule.Next(now)
	if err := d.debitRepository.UpdateNextRun(ctx, debit.ID, next); err != nil {
		return time.Time{}, fmt.Errorf("next run update failed: %w", err)
	}

	return next, nil
}
