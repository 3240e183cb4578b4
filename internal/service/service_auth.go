package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cipherbank/go-cipher-bank/internal/config"
	"github.com/cipherbank/go-cipher-bank/internal/crypto"
	"github.com/cipherbank/go-cipher-bank/internal/logger"
	"github.com/cipherbank/go-cipher-bank/internal/store"
	"github.com/cipherbank/go-cipher-bank/internal/utils"
	"github.com/cipherbank/go-cipher-bank/models"
	"github.com/go-playground/validator/v10"
)

// authService is the concrete implementation of AuthService.
// It handles session key negotiation, PIN verification, and session token
// lifecycle using an AccountRepository for persistence and PBKDF2 for PIN
// hashing.
type authService struct {
	// accountRepository is the data-access layer used to look up accounts.
	accountRepository store.AccountRepository

	// transport provides the handshake cryptography: key generation and
	// asymmetric encryption of the session material.
	transport crypto.TransportService

	// registry tracks live sessions keyed by session ID.
	registry SessionRegistry

	// uuid generates session identifiers.
	uuid *utils.UUIDGenerator

	// validate checks request structs against their validation tags.
	validate *validator.Validate

	// pinHashKey is the PBKDF2 salt used when hashing account PINs before
	// comparison. Must match the value used when the hash was stored.
	pinHashKey string

	// tokenSignKey is the HMAC secret used to sign and verify session tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// sessionDuration bounds both the token validity and the registry
	// entry's lifetime.
	sessionDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// AccountRepository and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state apart from the
// session registry is read-only after construction.
func NewAuthService(accountRepository store.AccountRepository, transport crypto.TransportService, registry SessionRegistry, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		accountRepository: accountRepository,
		transport:         transport,
		registry:          registry,
		uuid:              utils.NewUUIDGenerator(),
		validate:          validator.New(),
		pinHashKey:        cfg.PINHashKey,
		tokenSignKey:      cfg.TokenSignKey,
		tokenIssuer:       cfg.TokenIssuer,
		sessionDuration:   cfg.SessionDuration,
		logger:            logger,
	}
}

// NegotiateSessionKey performs the authority side of the handshake.
//
// It parses the client's PEM public key, generates fresh AES key material
// and a session ID, registers the session in the authenticating state, and
// returns the key material encrypted under the client key together with the
// signed session token.
//
// Returns
//   - ErrInvalidDataProvided if the public key cannot be parsed.
//   - ErrTokenCreationFailed if token signing fails.
func (a *authService) NegotiateSessionKey(ctx context.Context, publicKeyPEM []byte) ([]byte, models.Token, error) {
	log := logger.FromContext(ctx)

	pub, err := a.transport.ParsePublicKey(publicKeyPEM)
	if err != nil {
		log.Err(err).Msg("client public key rejected")
		return nil, models.Token{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	sessionKey, err := a.transport.GenerateSessionKey()
	if err != nil {
		log.Err(err).Msg("session key generation failed")
		return nil, models.Token{}, fmt.Errorf("session key generation failed: %w", err)
	}

	// The client decrypts one blob and splits it: first 32 bytes key,
	// last 16 bytes IV.
	material := make([]byte, 0, len(sessionKey.Key)+len(sessionKey.IV))
	material = append(material, sessionKey.Key...)
	material = append(material, sessionKey.IV...)

	encryptedMaterial, err := a.transport.EncryptAsymmetric(material, pub)
	if err != nil {
		log.Err(err).Msg("session key encryption failed")
		return nil, models.Token{}, fmt.Errorf("session key encryption failed: %w", err)
	}

	sessionID := a.uuid.Generate()
	token, err := utils.GenerateSessionToken(a.tokenIssuer, sessionID, a.sessionDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Msg("session token creation failed")
		return nil, models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	a.registry.Create(models.Session{
		ID:        sessionID,
		State:     models.SessionAuthenticating,
		Key:       sessionKey,
		ExpiresAt: time.Now().Add(a.sessionDuration),
	})

	return encryptedMaterial, token, nil
}

// Login verifies the PIN for the requested account and upgrades the session
// to the authenticated state.
//
// Returns
//   - ErrInvalidDataProvided if the request fails validation.
//   - ErrLoginNotAllowed for the reserved system account.
//   - ErrSessionNotFound / ErrSessionExpired if the session is not live.
//   - A wrapped storage error if the account lookup fails.
//   - ErrWrongPIN if the hashed PINs do not match.
func (a *authService) Login(ctx context.Context, sessionID string, req models.LoginRequest) error {
	log := logger.FromContext(ctx)

	if err := a.validate.Struct(req); err != nil {
		log.Err(err).Int64("accountID", req.AccountID).Msg("invalid login request")
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if req.AccountID == models.SystemAccountID {
		log.Error().Int64("accountID", req.AccountID).Msg("login into system account rejected")
		return ErrLoginNotAllowed
	}

	if _, err := a.registry.Get(sessionID); err != nil {
		log.Err(err).Str("sessionID", sessionID).Msg("login against dead session")
		return err
	}

	account, err := a.accountRepository.GetAccount(ctx, req.AccountID)
	if err != nil {
		log.Err(err).Int64("accountID", req.AccountID).Msg("account lookup failed")
		return fmt.Errorf("account lookup failed: %w", err)
	}

	if !utils.VerifyPIN(req.PIN, a.pinHashKey, account.PINHash) {
		log.Error().Int64("accountID", req.AccountID).Msg("wrong PIN")
		return ErrWrongPIN
	}

	if err := a.registry.Authenticate(sessionID, account.ID); err != nil {
		return err
	}

	return nil
}

// Logout removes the session; the symmetric key is forgotten with it.
func (a *authService) Logout(ctx context.Context, sessionID string) error {
	a.registry.Delete(sessionID)
	return nil
}

// Heartbeat reports session liveness. A session that negotiated a key but
// never logged in is not considered live.
func (a *authService) Heartbeat(ctx context.Context, sessionID string) error {
	session, err := a.registry.Get(sessionID)
	if err != nil {
		return err
	}

	if session.State != models.SessionAuthenticated {
		return ErrSessionNotAuthenticated
	}

	return nil
}

// Session returns the live session record for sessionID.
func (a *authService) Session(ctx context.Context, sessionID string) (models.Session, error) {
	return a.registry.Get(sessionID)
}

// ParseToken validates and parses a raw session token string.
//
// Any validation failure (expired, wrong issuer, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid so that callers do not need to inspect
// low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseSessionToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
