package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cipherbank/go-cipher-bank/internal/blob"
	"github.com/cipherbank/go-cipher-bank/internal/ledger"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/store"
	"github.com/cipherbank/go-cipher-bank/models"
	"github.com/go-playground/validator/v10"
	"github.com/tuneinsight/lattigo/v4/rlwe"
)

// transferService is the transaction coordinator: the only place balances
// move. It sequences the encrypted arithmetic against the storage tier and
// commits the relational audit trail last, so a relational rollback leaves
// balance references untouched and at worst orphans fresh blobs.
type transferService struct {
	accountRepository     store.AccountRepository
	transactionRepository store.TransactionRepository

	// storage is the authority's client to the ciphertext storage tier.
	storage blob.StorageClient

	// ledger performs the homomorphic arithmetic; keys holds the
	// authority's secret key, which never leaves this process.
	ledger *ledger.Ledger
	keys   *ledger.KeyChain

	validate *validator.Validate
	logger   *logger.Logger
}

// NewTransferService constructs the transaction coordinator.
func NewTransferService(accountRepository store.AccountRepository, transactionRepository store.TransactionRepository, storage blob.StorageClient, ldg *ledger.Ledger, keys *ledger.KeyChain, logger *logger.Logger) TransferService {
	return &transferService{
		accountRepository:     accountRepository,
		transactionRepository: transactionRepository,
		storage:               storage,
		ledger:                ldg,
		keys:                  keys,
		validate:              validator.New(),
		logger:                logger,
	}
}

// Transfer validates the request and delegates to TransferAmount.
//
// Returns ErrInvalidDataProvided if the request fails validation (missing
// ids, non-positive amount, or identical participants).
func (t *transferService) Transfer(ctx context.Context, req models.TransferRequest) error {
	log := logger.FromContext(ctx)

	if err := t.validate.Struct(req); err != nil {
		log.Err(err).
			Int64("fromID", req.FromID).
			Int64("toID", req.ToID).
			Msg("invalid transfer request")
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return t.TransferAmount(ctx, req.FromID, req.ToID, req.Amount)
}

// TransferAmount moves amount from fromID to toID.
//
// Ordering is load-bearing: the balance policy check happens on a decrypted
// copy before any encrypted work, blob writes happen before the relational
// commit that references them, and the commit is last. Any failure before
// the commit leaves both balance references unchanged; blobs already
// written stay behind as orphans.
//
// Returns
//   - ErrInvalidDataProvided for identical participants or a non-positive amount.
//   - store.ErrNoAccountWasFound if either account does not exist.
//   - ErrInsufficientFunds if the decrypted balance does not cover amount.
//   - ErrTransactionFailed wrapping any relational failure after rollback.
func (t *transferService) TransferAmount(ctx context.Context, fromID, toID int64, amount float64) error {
	log := logger.FromContext(ctx)

	if fromID == toID || amount <= 0 {
		return ErrInvalidDataProvided
	}

	from, err := t.accountRepository.GetAccount(ctx, fromID)
	if err != nil {
		return fmt.Errorf("paying account lookup failed: %w", err)
	}
	to, err := t.accountRepository.GetAccount(ctx, toID)
	if err != nil {
		return fmt.Errorf("receiving account lookup failed: %w", err)
	}

	// Ciphertext comparison is not available, so the balance policy is
	// checked on a decrypted copy before entering the encrypted path.
	balance, err := t.decryptBalance(ctx, from)
	if err != nil {
		return err
	}
	if balance < amount {
		log.Error().
			Int64("fromID", fromID).
			Float64("amount", amount).
			Msg("transfer exceeds balance")
		return ErrInsufficientFunds
	}

	now := time.Now()

	fromKey, err := t.publicKeyFor(from)
	if err != nil {
		return err
	}
	toKey, err := t.publicKeyFor(to)
	if err != nil {
		return err
	}

	// The retained audit blobs: negated amount on the debit side,
	// positive on the credit side.
	fromAmountPath := blob.TransferPath(fromID, toID, now)
	fromAmountBlob, err := t.encryptAmount(-amount, fromKey)
	if err != nil {
		return err
	}
	if err := t.storage.Upload(ctx, fromAmountPath, fromAmountBlob); err != nil {
		return fmt.Errorf("debit audit blob upload failed: %w", err)
	}

	toAmountPath := blob.TransferPath(toID, fromID, now)
	toAmountBlob, err := t.encryptAmount(amount, toKey)
	if err != nil {
		return err
	}

	// Fresh balance snapshots under new names; historical blobs are
	// never overwritten.
	newFromBalancePath, err := t.snapshotBalance(ctx, from, now)
	if err != nil {
		return err
	}
	newToBalancePath, err := t.snapshotBalance(ctx, to, now)
	if err != nil {
		return err
	}

	// The storage tier subtracts the amount ciphertext from the fresh
	// from-snapshot and adds it to the fresh to-snapshot, retaining the
	// amount blob as the credit-side audit record.
	if err := t.storage.ApplyTransfer(ctx, newFromBalancePath, newToBalancePath, toAmountPath, toAmountBlob); err != nil {
		return fmt.Errorf("encrypted arithmetic failed: %w", err)
	}

	rec := store.TransferRecord{
		Time:            now,
		FromID:          fromID,
		FromAmountPath:  fromAmountPath,
		FromBalancePath: newFromBalancePath,
		ToID:            toID,
		ToAmountPath:    toAmountPath,
		ToBalancePath:   newToBalancePath,
	}
	if err := t.transactionRepository.CommitTransfer(ctx, rec); err != nil {
		log.Err(err).
			Int64("fromID", fromID).
			Int64("toID", toID).
			Msg("transfer commit rolled back")
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}

	return nil
}

// Balance decrypts and returns the current balance of accountID. Only the
// authority can serve this: the secret key never leaves it.
func (t *transferService) Balance(ctx context.Context, accountID int64) (float64, error) {
	account, err := t.accountRepository.GetAccount(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("account lookup failed: %w", err)
	}

	return t.decryptBalance(ctx, account)
}

// History returns the account's audit rows with decrypted amounts, oldest
// first.
func (t *transferService) History(ctx context.Context, accountID int64) ([]models.HistoryEntry, error) {
	transactions, err := t.transactionRepository.GetHistory(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("history lookup failed: %w", err)
	}

	entries := make([]models.HistoryEntry, 0, len(transactions))
	for _, tx := range transactions {
		amount, err := t.decryptBlob(ctx, tx.AmountPath)
		if err != nil {
			return nil, fmt.Errorf("amount blob %s: %w", tx.AmountPath, err)
		}

		entries = append(entries, models.HistoryEntry{
			Time:           tx.Time,
			Kind:           tx.Kind,
			Amount:         amount,
			CounterpartyID: tx.CounterpartyID,
		})
	}

	return entries, nil
}

// AccrueInterest applies the account's interest rate to its balance.
//
// This is the one path that decrypts, recomputes and re-encrypts a balance:
// interest is multiplicative and the deployment restricts homomorphic work
// to additions. One audit row of kind interest is written against the
// system sink account.
//
// Accounts with a zero rate and the system account itself are skipped.
func (t *transferService) AccrueInterest(ctx context.Context, account models.Account) error {
	log := logger.FromContext(ctx)

	if account.InterestRate == 0 || account.ID == models.SystemAccountID {
		return nil
	}

	balance, err := t.decryptBalance(ctx, account)
	if err != nil {
		return err
	}
	interest := balance * account.InterestRate
	newBalance := balance + interest

	now := time.Now()

	key, err := t.publicKeyFor(account)
	if err != nil {
		return err
	}

	amountPath := blob.InterestPath(account.ID, now)
	amountBlob, err := t.encryptAmount(interest, key)
	if err != nil {
		return err
	}
	if err := t.storage.Upload(ctx, amountPath, amountBlob); err != nil {
		return fmt.Errorf("interest audit blob upload failed: %w", err)
	}

	newBalancePath := blob.BalancePath(account.ID, now)
	newBalanceBlob, err := t.encryptAmount(newBalance, key)
	if err != nil {
		return err
	}
	if err := t.storage.Upload(ctx, newBalancePath, newBalanceBlob); err != nil {
		return fmt.Errorf("interest balance upload failed: %w", err)
	}

	rec := store.InterestRecord{
		Time:        now,
		AccountID:   account.ID,
		AmountPath:  amountPath,
		BalancePath: newBalancePath,
	}
	if err := t.transactionRepository.CommitInterest(ctx, rec); err != nil {
		log.Err(err).Int64("accountID", account.ID).Msg("interest commit rolled back")
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}

	return nil
}

// Accounts lists every account.
func (t *transferService) Accounts(ctx context.Context) ([]models.Account, error) {
	return t.accountRepository.GetAccounts(ctx)
}

// decryptBalance fetches and decrypts the account's current balance blob.
func (t *transferService) decryptBalance(ctx context.Context, account models.Account) (float64, error) {
	return t.decryptBlob(ctx, account.BalancePath)
}

// decryptBlob fetches the ciphertext at path and decrypts it with the
// authority's secret key.
func (t *transferService) decryptBlob(ctx context.Context, path string) (float64, error) {
	data, err := t.storage.Fetch(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("ciphertext fetch failed: %w", err)
	}

	ct, err := t.ledger.Unmarshal(data)
	if err != nil {
		return 0, err
	}

	return t.ledger.Decrypt(ct, t.keys.SecretKey)
}

// encryptAmount encodes and encrypts amount under key and serializes the
// result for upload.
func (t *transferService) encryptAmount(amount float64, key *rlwe.PublicKey) ([]byte, error) {
	ct, err := t.ledger.Encrypt(amount, key)
	if err != nil {
		return nil, err
	}
	return t.ledger.Marshal(ct)
}

// snapshotBalance copies the account's current balance ciphertext to a
// fresh timestamped path and returns the new path.
func (t *transferService) snapshotBalance(ctx context.Context, account models.Account, at time.Time) (string, error) {
	data, err := t.storage.Fetch(ctx, account.BalancePath)
	if err != nil {
		return "", fmt.Errorf("balance fetch failed: %w", err)
	}

	path := blob.BalancePath(account.ID, at)
	if err := t.storage.Upload(ctx, path, data); err != nil {
		return "", fmt.Errorf("balance snapshot upload failed: %w", err)
	}

	return path, nil
}

// publicKeyFor returns the account's homomorphic public key, falling back
// to the authority keychain for rows without one.
func (t *transferService) publicKeyFor(account models.Account) (*rlwe.PublicKey, error) {
	if len(account.PublicKey) == 0 {
		return t.keys.PublicKey, nil
	}
	return ledger.ParsePublicKey(account.PublicKey)
}
