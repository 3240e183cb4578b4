package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/cipherbank/go-cipher-bank/internal/config"
	"github.com/cipherbank/go-cipher-bank/internal/crypto"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/utils"
	"github.com/cipherbank/go-cipher-bank/models"
	"github.com/go-resty/resty/v2"
)

// sessionMaterialLen is the byte length of the decrypted handshake
// payload: a 32-byte AES key followed by a 16-byte IV.
const sessionMaterialLen = 48

type httpAuthorityAdapter struct {
	client    *utils.HTTPClient
	transport crypto.TransportService

	token string
	key   models.SessionKey

	logger *logger.Logger
}

// NewHTTPAuthorityAdapter constructs an HTTP/REST implementation of
// [AuthorityAdapter]. It normalises and validates the base URL from
// cfg.AuthorityBaseURL and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if cfg.AuthorityBaseURL is empty or cannot be parsed as
// a valid URL. The session itself is not negotiated here; call Handshake
// before any other method.
func NewHTTPAuthorityAdapter(cfg config.Client, transport crypto.TransportService, logger *logger.Logger) (AuthorityAdapter, error) {
	client := utils.NewHTTPClient(cfg.Timeout)
	baseURL, err := normalizeBaseURL(cfg.AuthorityBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid authority address: %w", err)
	}

	client.SetBaseURL(baseURL)

	return &httpAuthorityAdapter{client: client, transport: transport, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Token implements [AuthorityAdapter]. It returns the bearer session token
// currently held by the adapter, or an empty string before the handshake.
func (h *httpAuthorityAdapter) Token() string {
	return h.token
}

// Handshake implements [AuthorityAdapter]. It generates a fresh RSA keypair,
// POSTs the PEM-encoded public key to POST /requestkey, stores the bearer
// token from the Authorization response header, and decrypts the response
// body into the symmetric session key and IV. Every failure is wrapped in
// [ErrHandshake].
func (h *httpAuthorityAdapter) Handshake(ctx context.Context) error {
	identity, err := h.transport.GenerateSessionIdentity()
	if err != nil {
		return fmt.Errorf("%w: generate identity: %w", ErrHandshake, err)
	}

	publicKeyPEM, err := h.transport.MarshalPublicKey(&identity.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: marshal public key: %w", ErrHandshake, err)
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-pem-file").
		SetBody(publicKeyPEM).
		Post("/requestkey")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("%w: %w", ErrHandshake, err)
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("%w: parse bearer token: %w", ErrHandshake, err)
	}

	material, err := h.transport.DecryptAsymmetric(resp.Body(), identity)
	if err != nil {
		return fmt.Errorf("%w: decrypt session material: %w", ErrHandshake, err)
	}
	if len(material) != sessionMaterialLen {
		return fmt.Errorf("%w: session material is %d bytes, want %d", ErrHandshake, len(material), sessionMaterialLen)
	}

	h.token = token
	h.key = models.SessionKey{Key: material[:32], IV: material[32:]}

	h.logger.Debug().Msg("session handshake completed")
	return nil
}

// Login implements [AuthorityAdapter]. It PUTs the encrypted credentials to
// PUT /login over the negotiated session.
func (h *httpAuthorityAdapter) Login(ctx context.Context, req models.LoginRequest) error {
	resp, err := h.encryptedRequest(ctx, req)
	if err != nil {
		return err
	}

	r, err := resp.Put("/login")
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}

	return mapHTTPError(r)
}

// Logout implements [AuthorityAdapter].
func (h *httpAuthorityAdapter) Logout(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Delete("/login")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}

	return mapHTTPError(resp)
}

// Heartbeat implements [AuthorityAdapter].
func (h *httpAuthorityAdapter) Heartbeat(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Get("/heartbeat")
	if err != nil {
		return fmt.Errorf("heartbeat request: %w", err)
	}

	return mapHTTPError(resp)
}

// Transfer implements [AuthorityAdapter]. Returns [ErrInsufficientFunds]
// (wrapped) when the authority rejects the amount against the balance.
func (h *httpAuthorityAdapter) Transfer(ctx context.Context, req models.TransferRequest) error {
	resp, err := h.encryptedRequest(ctx, req)
	if err != nil {
		return err
	}

	r, err := resp.Post("/transfer")
	if err != nil {
		return fmt.Errorf("transfer request: %w", err)
	}

	return mapHTTPError(r)
}

// Balance implements [AuthorityAdapter].
func (h *httpAuthorityAdapter) Balance(ctx context.Context) (models.BalanceResponse, error) {
	var response models.BalanceResponse

	resp, err := h.authedRequest(ctx).Get("/transfer")
	if err != nil {
		return response, fmt.Errorf("balance request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return response, err
	}

	if err = h.decryptResponse(resp, &response); err != nil {
		return response, fmt.Errorf("decode balance response: %w", err)
	}

	return response, nil
}

// History implements [AuthorityAdapter].
func (h *httpAuthorityAdapter) History(ctx context.Context) ([]models.HistoryEntry, error) {
	resp, err := h.authedRequest(ctx).Get("/history")
	if err != nil {
		return nil, fmt.Errorf("history request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var entries []models.HistoryEntry
	if err = h.decryptResponse(resp, &entries); err != nil {
		return nil, fmt.Errorf("decode history response: %w", err)
	}

	return entries, nil
}

// CreateDebit implements [AuthorityAdapter].
func (h *httpAuthorityAdapter) CreateDebit(ctx context.Context, req models.DebitRequest) (models.DirectDebit, error) {
	var debit models.DirectDebit

	resp, err := h.encryptedRequest(ctx, req)
	if err != nil {
		return debit, err
	}

	r, err := resp.Post("/debits")
	if err != nil {
		return debit, fmt.Errorf("create debit request: %w", err)
	}
	if err = mapHTTPError(r); err != nil {
		return debit, err
	}

	if err = h.decryptResponse(r, &debit); err != nil {
		return debit, fmt.Errorf("decode debit response: %w", err)
	}

	return debit, nil
}

// Debits implements [AuthorityAdapter].
func (h *httpAuthorityAdapter) Debits(ctx context.Context) ([]models.DirectDebit, error) {
	resp, err := h.authedRequest(ctx).Get("/debits")
	if err != nil {
		return nil, fmt.Errorf("debits request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var debits []models.DirectDebit
	if err = h.decryptResponse(resp, &debits); err != nil {
		return nil, fmt.Errorf("decode debits response: %w", err)
	}

	return debits, nil
}

// RemoveDebit implements [AuthorityAdapter].
func (h *httpAuthorityAdapter) RemoveDebit(ctx context.Context, debitID int64) error {
	resp, err := h.encryptedRequest(ctx, models.RemoveDebitRequest{DebitID: debitID})
	if err != nil {
		return err
	}

	r, err := resp.Delete("/debits")
	if err != nil {
		return fmt.Errorf("remove debit request: %w", err)
	}

	return mapHTTPError(r)
}

func (h *httpAuthorityAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// encryptedRequest prepares an authenticated request whose body is the
// AES-CBC encryption of v's JSON form under the session key.
func (h *httpAuthorityAdapter) encryptedRequest(ctx context.Context, v any) (*resty.Request, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	ciphertext, err := h.transport.EncryptPayload(plaintext, h.key)
	if err != nil {
		return nil, fmt.Errorf("encrypt request body: %w", err)
	}

	return h.authedRequest(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(ciphertext), nil
}

// decryptResponse decrypts an encrypted JSON response body into v.
func (h *httpAuthorityAdapter) decryptResponse(resp *resty.Response, v any) error {
	plaintext, err := h.transport.DecryptPayload(resp.Body(), h.key)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}
