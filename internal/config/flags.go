package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a listen address in format [host]:[port]
//	-d database DSN
//	-tier-url storage tier base URL
//	-tier-timeout storage tier request timeout (e.g., "30s")
//	-authority-host host the storage tier accepts requests from
//	-blob-dir ciphertext blob directory
//	-max-blob-bytes maximum accepted blob size in bytes
//	-params encryption parameter file path
//	-key-dir encryption key directory
//	-c/-config json file path with configs
//	-pin-hash-key PIN hash key
//	-token-sign-key session token signing key
//	-token-issuer session token issuer name
//	-session-duration session lifetime (e.g., "1h", "30m")
//	-debit-interval direct debit scan interval (e.g., "10s")
//	-interest-interval interest accrual interval (e.g., "720h")
//	-authority-url authority base URL for the client
//	-client-timeout client request timeout (e.g., "30s")
func ParseFlags() *StructuredConfig {
	var listenAddress NetAddress
	var databaseDSN string
	var tierBaseURL string
	var tierTimeout time.Duration
	var authorityHost string
	var blobDir string
	var maxBlobBytes int64
	var paramsPath string
	var keyDir string
	var jsonConfigPath string
	var pinHashKey string
	var tokenSignKey string
	var tokenIssuer string
	var sessionDuration time.Duration
	var debitInterval time.Duration
	var interestInterval time.Duration
	var authorityBaseURL string
	var clientTimeout time.Duration

	flag.Var(&listenAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&tierBaseURL, "tier-url", "", "Storage tier base URL")
	flag.DurationVar(&tierTimeout, "tier-timeout", 0, "Storage tier request timeout (e.g., 30s)")
	flag.StringVar(&authorityHost, "authority-host", "", "Host the storage tier accepts requests from")
	flag.StringVar(&blobDir, "blob-dir", "", "Ciphertext blob directory")
	flag.Int64Var(&maxBlobBytes, "max-blob-bytes", 0, "Maximum accepted blob size in bytes")
	flag.StringVar(&paramsPath, "params", "", "Encryption parameter file path")
	flag.StringVar(&keyDir, "key-dir", "", "Encryption key directory")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&pinHashKey, "pin-hash-key", "", "PIN hash key")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Session token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Session token issuer")
	flag.DurationVar(&sessionDuration, "session-duration", 0, "Session lifetime (e.g., 1h, 30m)")
	flag.DurationVar(&debitInterval, "debit-interval", 0, "Direct debit scan interval (e.g., 10s)")
	flag.DurationVar(&interestInterval, "interest-interval", 0, "Interest accrual interval (e.g., 720h)")
	flag.StringVar(&authorityBaseURL, "authority-url", "", "Authority base URL")
	flag.DurationVar(&clientTimeout, "client-timeout", 0, "Client request timeout (e.g., 30s)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			PINHashKey:      pinHashKey,
			TokenSignKey:    tokenSignKey,
			TokenIssuer:     tokenIssuer,
			SessionDuration: sessionDuration,
			KeyDir:          keyDir,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Tier: Tier{
				BaseURL: tierBaseURL,
				Timeout: tierTimeout,
			},
		},
		Server: Server{
			HTTPAddress: listenAddress.String(),
		},
		Cloud: Cloud{
			HTTPAddress:   listenAddress.String(),
			AuthorityHost: authorityHost,
			BlobDir:       blobDir,
			MaxBlobBytes:  maxBlobBytes,
			ParamsPath:    paramsPath,
		},
		Scheduler: Scheduler{
			DebitInterval:    debitInterval,
			InterestInterval: interestInterval,
		},
		Client: Client{
			AuthorityBaseURL: authorityBaseURL,
			Timeout:          clientTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
