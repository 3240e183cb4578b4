package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// three go-cipher-bank binaries (authority, storage tier, client). It is
// populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds authority-level settings: PIN hashing, session token
	// parameters and the homomorphic key directory.
	App App `envPrefix:"APP_"`

	// Storage holds the relational database connection settings and the
	// authority's view of the storage tier.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the network address of the inbound HTTP listener.
	Server Server `envPrefix:"SERVER_"`

	// Cloud holds the storage-tier node settings: listen address, the
	// authority identity it trusts, and blob constraints.
	Cloud Cloud `envPrefix:"CLOUD_"`

	// Scheduler holds the background worker intervals.
	Scheduler Scheduler `envPrefix:"SCHEDULER_"`

	// Client holds the end-user client transport settings.
	Client Client `envPrefix:"CLIENT_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds authority-level configuration values controlling credential
// hashing, session lifecycle and key material.
type App struct {
	// PINHashKey is the secret salt mixed into the PBKDF2 derivation of
	// account PIN hashes. Must be kept confidential and stable: changing
	// it invalidates every stored PIN hash.
	// Env: APP_PIN_HASH_KEY
	PINHashKey string `env:"PIN_HASH_KEY"`

	// TokenSignKey is the secret key used to sign and verify session
	// tokens. Must be kept confidential.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued session
	// token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// SessionDuration bounds a login session; heartbeats past it are
	// rejected (e.g. "1h", "30m").
	// Env: APP_SESSION_DURATION
	SessionDuration time.Duration `env:"SESSION_DURATION"`

	// KeyDir is the directory holding the CKKS parameter blob and the
	// authority's homomorphic keypair.
	// Env: APP_KEY_DIR
	KeyDir string `env:"KEY_DIR"`
}

// Storage groups the authority's persistence backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Tier holds the client settings for the ciphertext storage tier.
	Tier Tier `envPrefix:"TIER_"`
}

// DB holds the relational database connection settings.
type DB struct {
	// DSN is the PostgreSQL connection string.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Tier holds the authority's transport settings for the storage tier.
type Tier struct {
	// BaseURL is the storage tier's root URL (e.g. "http://cloud:8081").
	// Env: STORAGE_TIER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// Timeout bounds every storage-tier round trip.
	// Env: STORAGE_TIER_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Server holds the network settings of the inbound HTTP listener.
type Server struct {
	// HTTPAddress is the TCP address the server listens on, in
	// "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
}

// Cloud holds the storage-tier node settings.
type Cloud struct {
	// HTTPAddress is the storage tier's listen address.
	// Env: CLOUD_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// AuthorityHost is the sole network identity requests are accepted
	// from. Anything else receives 403 with no side effect.
	// Env: CLOUD_AUTHORITY_HOST
	AuthorityHost string `env:"AUTHORITY_HOST"`

	// BlobDir is the directory ciphertext blobs are stored under.
	// Env: CLOUD_BLOB_DIR
	BlobDir string `env:"BLOB_DIR"`

	// MaxBlobBytes caps one uploaded blob. Anything larger cannot be a
	// ciphertext under the deployment parameters and is refused.
	// Env: CLOUD_MAX_BLOB_BYTES
	MaxBlobBytes int64 `env:"MAX_BLOB_BYTES"`

	// ParamsPath points at the shared CKKS parameter blob distributed
	// from the authority's key directory.
	// Env: CLOUD_PARAMS_PATH
	ParamsPath string `env:"PARAMS_PATH"`
}

// Scheduler holds the background worker intervals.
type Scheduler struct {
	// DebitInterval is how often the direct debit worker scans for due
	// entries.
	// Env: SCHEDULER_DEBIT_INTERVAL
	DebitInterval time.Duration `env:"DEBIT_INTERVAL"`

	// InterestInterval is how often the interest worker accrues
	// interest across accounts. Zero disables the worker.
	// Env: SCHEDULER_INTEREST_INTERVAL
	InterestInterval time.Duration `env:"INTEREST_INTERVAL"`
}

// Client holds the end-user client transport settings.
type Client struct {
	// AuthorityBaseURL is the authority's root URL.
	// Env: CLIENT_AUTHORITY_BASE_URL
	AuthorityBaseURL string `env:"AUTHORITY_BASE_URL"`

	// Timeout bounds every client round trip to the authority.
	// Env: CLIENT_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// GetStructuredConfig loads, merges and validates configuration from
// environment variables, command-line flags, and the optional JSON file.
// Environment values take precedence over flags, which take precedence
// over the JSON file.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
