package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cipherbank/go-cipher-bank/internal/crypto"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/service"
	"github.com/cipherbank/go-cipher-bank/internal/utils"
	"github.com/cipherbank/go-cipher-bank/models"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mock AuthService
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	negotiateSessionKeyFn func(ctx context.Context, publicKeyPEM []byte) ([]byte, models.Token, error)
	loginFn               func(ctx context.Context, sessionID string, req models.LoginRequest) error
	logoutFn              func(ctx context.Context, sessionID string) error
	heartbeatFn           func(ctx context.Context, sessionID string) error
	sessionFn             func(ctx context.Context, sessionID string) (models.Session, error)
	parseTokenFn          func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) NegotiateSessionKey(ctx context.Context, publicKeyPEM []byte) ([]byte, models.Token, error) {
	return m.negotiateSessionKeyFn(ctx, publicKeyPEM)
}

func (m *mockAuthService) Login(ctx context.Context, sessionID string, req models.LoginRequest) error {
	return m.loginFn(ctx, sessionID, req)
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.logoutFn(ctx, sessionID)
}

func (m *mockAuthService) Heartbeat(ctx context.Context, sessionID string) error {
	return m.heartbeatFn(ctx, sessionID)
}

func (m *mockAuthService) Session(ctx context.Context, sessionID string) (models.Session, error) {
	return m.sessionFn(ctx, sessionID)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseTokenFn(ctx, tokenString)
}

// ─────────────────────────────────────────────
// Mock TransferService
// ─────────────────────────────────────────────

type mockTransferService struct {
	transferFn       func(ctx context.Context, req models.TransferRequest) error
	transferAmountFn func(ctx context.Context, fromID, toID int64, amount float64) error
	balanceFn        func(ctx context.Context, accountID int64) (float64, error)
	historyFn        func(ctx context.Context, accountID int64) ([]models.HistoryEntry, error)
	accrueInterestFn func(ctx context.Context, account models.Account) error
	accountsFn       func(ctx context.Context) ([]models.Account, error)
}

func (m *mockTransferService) Transfer(ctx context.Context, req models.TransferRequest) error {
	return m.transferFn(ctx, req)
}

func (m *mockTransferService) TransferAmount(ctx context.Context, fromID, toID int64, amount float64) error {
	return m.transferAmountFn(ctx, fromID, toID, amount)
}

func (m *mockTransferService) Balance(ctx context.Context, accountID int64) (float64, error) {
	return m.balanceFn(ctx, accountID)
}

func (m *mockTransferService) History(ctx context.Context, accountID int64) ([]models.HistoryEntry, error) {
	return m.historyFn(ctx, accountID)
}

func (m *mockTransferService) AccrueInterest(ctx context.Context, account models.Account) error {
	return m.accrueInterestFn(ctx, account)
}

func (m *mockTransferService) Accounts(ctx context.Context) ([]models.Account, error) {
	return m.accountsFn(ctx)
}

// ─────────────────────────────────────────────
// Mock DebitService
// ─────────────────────────────────────────────

type mockDebitService struct {
	createDebitFn      func(ctx context.Context, fromID int64, req models.DebitRequest) (models.DirectDebit, error)
	getDebitsFn        func(ctx context.Context, accountID int64) ([]models.DirectDebit, error)
	allDebitsFn        func(ctx context.Context) ([]models.DirectDebit, error)
	removeDebitFn      func(ctx context.Context, accountID, debitID int64) error
	removeDebitEntryFn func(ctx context.Context, debit models.DirectDebit) error
	amountFn           func(ctx context.Context, debit models.DirectDebit) (float64, error)
	advanceNextRunFn   func(ctx context.Context, debit models.DirectDebit, now time.Time) (time.Time, error)
}

func (m *mockDebitService) CreateDebit(ctx context.Context, fromID int64, req models.DebitRequest) (models.DirectDebit, error) {
	return m.createDebitFn(ctx, fromID, req)
}

func (m *mockDebitService) GetDebits(ctx context.Context, accountID int64) ([]models.DirectDebit, error) {
	return m.getDebitsFn(ctx, accountID)
}

func (m *mockDebitService) AllDebits(ctx context.Context) ([]models.DirectDebit, error) {
	return m.allDebitsFn(ctx)
}

func (m *mockDebitService) RemoveDebit(ctx context.Context, accountID, debitID int64) error {
	return m.removeDebitFn(ctx, accountID, debitID)
}

func (m *mockDebitService) RemoveDebitEntry(ctx context.Context, debit models.DirectDebit) error {
	return m.removeDebitEntryFn(ctx, debit)
}

func (m *mockDebitService) Amount(ctx context.Context, debit models.DirectDebit) (float64, error) {
	return m.amountFn(ctx, debit)
}

func (m *mockDebitService) AdvanceNextRun(ctx context.Context, debit models.DirectDebit, now time.Time) (time.Time, error) {
	return m.advanceNextRunFn(ctx, debit, now)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// testTransport is shared across handler tests: payload encryption is
// deterministic per session key, so one instance is enough.
var testTransport = crypto.NewTransportService()

const testSessionID = "session-1"

// testSessionKey generates fresh symmetric material for one test.
func testSessionKey(t *testing.T) models.SessionKey {
	t.Helper()
	key, err := testTransport.GenerateSessionKey()
	require.NoError(t, err)
	return key
}

// authenticatedTestSession returns a logged-in session fixture.
func authenticatedTestSession(t *testing.T, accountID int64) models.Session {
	t.Helper()
	return models.Session{
		ID:        testSessionID,
		State:     models.SessionAuthenticated,
		Key:       testSessionKey(t),
		AccountID: accountID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// newTestHandler builds a Handler with the given service mocks. Nil mocks
// are left nil; tests must only exercise the services they stub.
func newTestHandler(auth service.AuthService, transfers service.TransferService, debits service.DebitService) *Handler {
	svcs := &service.Services{
		AuthService:     auth,
		TransferService: transfers,
		DebitService:    debits,
	}
	return NewHandler(svcs, testTransport, logger.Nop())
}

// sessionAuthService is a mockAuthService that resolves the fixture
// session and accepts its token.
func sessionAuthService(session models.Session) *mockAuthService {
	return &mockAuthService{
		sessionFn: func(_ context.Context, sessionID string) (models.Session, error) {
			if sessionID != session.ID {
				return models.Session{}, service.ErrSessionNotFound
			}
			return session, nil
		},
		parseTokenFn: func(_ context.Context, _ string) (models.Token, error) {
			return models.Token{SessionID: session.ID}, nil
		},
	}
}

// encryptedRequest builds a request whose JSON body is AES-CBC encrypted
// under the session key, with the session identity already in context.
func encryptedRequest(t *testing.T, method, target string, session models.Session, payload any) *http.Request {
	t.Helper()

	plaintext, err := json.Marshal(payload)
	require.NoError(t, err)

	ciphertext, err := testTransport.EncryptPayload(plaintext, session.Key)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(ciphertext))
	return withSessionContext(req, session)
}

// withSessionContext stores the session identity in the request context
// the way the auth middleware would.
func withSessionContext(r *http.Request, session models.Session) *http.Request {
	ctx := context.WithValue(r.Context(), utils.SessionIDCtxKey, session.ID)
	ctx = context.WithValue(ctx, utils.AccountIDCtxKey, session.AccountID)
	return r.WithContext(ctx)
}

// decryptResponse decrypts an encrypted JSON response body into v.
func decryptResponse(t *testing.T, rec *httptest.ResponseRecorder, key models.SessionKey, v any) {
	t.Helper()

	plaintext, err := testTransport.DecryptPayload(rec.Body.Bytes(), key)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(plaintext, v))
}
