// Package cloud implements the storage tier node: a source-address-gated
// file server for opaque ciphertext blobs that can additionally perform
// homomorphic arithmetic on the blobs it holds. It never sees a secret key
// and can never decrypt what it stores.
package cloud

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxBlobBytes caps one uploaded blob when no explicit limit is
// configured. Anything larger cannot be a ciphertext under the deployment
// parameters.
const DefaultMaxBlobBytes int64 = 8 << 20

// FileStore keeps ciphertext blobs as flat files under one root directory.
// Blob names are single path segments; anything that would resolve outside
// the root is refused before touching the file system.
type FileStore struct {
	root     string
	maxBytes int64
}

// NewFileStore creates the root directory if needed and returns a store
// bound to it. A non-positive maxBytes falls back to DefaultMaxBlobBytes.
func NewFileStore(root string, maxBytes int64) (*FileStore, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBlobBytes
	}

	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}

	return &FileStore{root: root, maxBytes: maxBytes}, nil
}

// MaxBytes returns the configured upload cap.
func (s *FileStore) MaxBytes() int64 {
	return s.maxBytes
}

// Get reads the blob stored under name.
func (s *FileStore) Get(name string) ([]byte, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}

	return data, nil
}

// Put stores data under name, overwriting an existing blob.
func (s *FileStore) Put(name string, data []byte) error {
	if int64(len(data)) > s.maxBytes {
		return ErrBlobTooLarge
	}

	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

// Create stores data under name, refusing existing paths and names without
// the expected suffix.
func (s *FileStore) Create(name, suffix string, data []byte) error {
	if !strings.HasSuffix(name, suffix) {
		return ErrBadSuffix
	}
	if int64(len(data)) > s.maxBytes {
		return ErrBlobTooLarge
	}

	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return ErrBlobExists
	}
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

// Delete removes the blob stored under name.
func (s *FileStore) Delete(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrBlobNotFound
	}
	if err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// resolve maps a blob name to its on-disk path, refusing separators,
// parent references and anything else that would leave the root.
func (s *FileStore) resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", ErrOutsideRoot
	}
	if strings.ContainsAny(name, `/\`) {
		return "", ErrOutsideRoot
	}

	path := filepath.Join(s.root, name)
	if filepath.Dir(path) != filepath.Clean(s.root) {
		return "", ErrOutsideRoot
	}

	return path, nil
}
