package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cipherbank/go-cipher-bank/internal/adapter"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/models"
)

// Environment variables the headless client reads its instructions from.
const (
	envAccountID      = "CIPHERBANK_ACCOUNT_ID"
	envPIN            = "CIPHERBANK_PIN"
	envTransferTo     = "CIPHERBANK_TRANSFER_TO"
	envTransferAmount = "CIPHERBANK_TRANSFER_AMOUNT"
)

type App struct {
	authority adapter.AuthorityAdapter
	out       io.Writer
	logger    *logger.Logger
}

func NewApp(authority adapter.AuthorityAdapter, logger *logger.Logger) *App {
	return &App{
		authority: authority,
		out:       os.Stdout,
		logger:    logger,
	}
}

// Run performs one full client session: handshake, login, balance,
// history, the optional transfer, the standing debits, then logout.
func (a *App) Run(ctx context.Context) error {
	if err := a.authority.Handshake(ctx); err != nil {
		return err
	}

	login, err := loginFromEnv()
	if err != nil {
		return err
	}

	if err := a.authority.Login(ctx, login); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	a.logger.Info().Int64("account_id", login.AccountID).Msg("logged in")

	if err := a.printBalance(ctx); err != nil {
		return err
	}

	if transfer, ok, err := transferFromEnv(login.AccountID); err != nil {
		return err
	} else if ok {
		if err := a.authority.Transfer(ctx, transfer); err != nil {
			return fmt.Errorf("transfer: %w", err)
		}
		fmt.Fprintf(a.out, "transferred %.2f to account %d\n", transfer.Amount, transfer.ToID)

		if err := a.printBalance(ctx); err != nil {
			return err
		}
	}

	if err := a.printHistory(ctx); err != nil {
		return err
	}

	if err := a.printDebits(ctx); err != nil {
		return err
	}

	if err := a.authority.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

func (a *App) printBalance(ctx context.Context) error {
	balance, err := a.authority.Balance(ctx)
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}

	fmt.Fprintf(a.out, "balance: %s\n", balance.Balance)
	return nil
}

func (a *App) printHistory(ctx context.Context) error {
	entries, err := a.authority.History(ctx)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	for _, entry := range entries {
		fmt.Fprintf(a.out, "%s  %-8s  %10.2f  account %d\n",
			entry.Time.Format("2006-01-02 15:04:05"), entry.Kind, entry.Amount, entry.CounterpartyID)
	}
	return nil
}

func (a *App) printDebits(ctx context.Context) error {
	debits, err := a.authority.Debits(ctx)
	if err != nil {
		return fmt.Errorf("debits: %w", err)
	}

	for _, debit := range debits {
		fmt.Fprintf(a.out, "debit %d: to account %d on %q, next run %s\n",
			debit.ID, debit.ToID, debit.Schedule, debit.NextRun.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func loginFromEnv() (models.LoginRequest, error) {
	rawID := os.Getenv(envAccountID)
	accountID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return models.LoginRequest{}, fmt.Errorf("invalid %s %q: %w", envAccountID, rawID, err)
	}

	pin := os.Getenv(envPIN)
	if pin == "" {
		return models.LoginRequest{}, fmt.Errorf("%s is not set", envPIN)
	}

	return models.LoginRequest{AccountID: accountID, PIN: pin}, nil
}

// transferFromEnv reads the optional one-shot transfer. The second return
// value reports whether a transfer was requested at all.
func transferFromEnv(fromID int64) (models.TransferRequest, bool, error) {
	rawTo := os.Getenv(envTransferTo)
	rawAmount := os.Getenv(envTransferAmount)
	if rawTo == "" && rawAmount == "" {
		return models.TransferRequest{}, false, nil
	}

	toID, err := strconv.ParseInt(rawTo, 10, 64)
	if err != nil {
		return models.TransferRequest{}, false, fmt.Errorf("invalid %s %q: %w", envTransferTo, rawTo, err)
	}

	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		return models.TransferRequest{}, false, fmt.Errorf("invalid %s %q: %w", envTransferAmount, rawAmount, err)
	}

	return models.TransferRequest{FromID: fromID, ToID: toID, Amount: amount}, true, nil
}
