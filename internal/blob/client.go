package blob

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrStorageUnavailable wraps network-level failures reaching the
	// storage tier. No partial commit is possible behind it.
	ErrStorageUnavailable = errors.New("storage tier unavailable")

	// ErrBlobNotFound is returned when the requested path does not exist
	// on the storage tier.
	ErrBlobNotFound = errors.New("ciphertext blob not found")

	// ErrRejected is returned when the storage tier refused the request:
	// wrong source identity, duplicate path, or an invalid file type.
	ErrRejected = errors.New("storage tier rejected request")
)

// StorageClient is the authority's view of the storage tier. The coordinator
// depends only on this interface; path derivation stays in this package and
// the physical bytes never touch the relational store.
type StorageClient interface {
	// Fetch downloads the ciphertext blob at path.
	Fetch(ctx context.Context, path string) ([]byte, error)

	// Upload stores blob at path, overwriting an existing blob. Used for
	// fresh balance snapshots and amount audit blobs.
	Upload(ctx context.Context, path string, data []byte) error

	// ApplyTransfer uploads the amount ciphertext to amountPath and asks
	// the storage tier to homomorphically subtract it from the blob at
	// fromPath and add it to the blob at toPath, in place.
	ApplyTransfer(ctx context.Context, fromPath, toPath, amountPath string, amount []byte) error

	// CreateDebit stores a direct debit amount blob at path. The storage
	// tier refuses existing paths and non-ledger file suffixes.
	CreateDebit(ctx context.Context, path string, data []byte) error

	// Delete removes the blob at path.
	Delete(ctx context.Context, path string) error
}

// StorageClientConfig configures the resty transport to the storage tier.
type StorageClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type storageClient struct {
	client *resty.Client
}

// NewStorageClient constructs a [StorageClient] speaking the storage tier's
// HTTP surface.
func NewStorageClient(cfg StorageClientConfig) StorageClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &storageClient{client: cli}
}

func (s *storageClient) Fetch(ctx context.Context, path string) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get("/balance/" + path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := mapStorageError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

func (s *storageClient) Upload(ctx context.Context, path string, data []byte) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(data).
		Post("/transfer/" + path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return mapStorageError(resp)
}

func (s *storageClient) ApplyTransfer(ctx context.Context, fromPath, toPath, amountPath string, amount []byte) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(amount).
		Put(fmt.Sprintf("/transfer/%s,%s,%s", fromPath, toPath, amountPath))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return mapStorageError(resp)
}

func (s *storageClient) CreateDebit(ctx context.Context, path string, data []byte) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(data).
		Post("/debits/" + path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return mapStorageError(resp)
}

func (s *storageClient) Delete(ctx context.Context, path string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Delete("/debits/" + path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return mapStorageError(resp)
}

// mapStorageError converts a storage-tier response into a sentinel error.
func mapStorageError(resp *resty.Response) error {
	switch resp.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrBlobNotFound
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrRejected, strings.TrimSpace(string(resp.Body())))
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrStorageUnavailable, resp.StatusCode())
	}
}
