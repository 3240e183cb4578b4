package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tuneinsight/lattigo/v4/ckks"
	"github.com/tuneinsight/lattigo/v4/rlwe"
)

// File names of the shared material inside the key directory. The
// parameters blob is distributed to the storage tier; the secret key
// never leaves the authority host.
const (
	ParamsFileName    = "params.bin"
	secretKeyFileName = "secret.key"
	publicKeyFileName = "public.key"
)

// KeyChain is the authority's homomorphic key material together with the
// shared parameters.
type KeyChain struct {
	Params    ckks.Parameters
	SecretKey *rlwe.SecretKey
	PublicKey *rlwe.PublicKey
}

// LoadParameters reads a serialized parameter set, as distributed to the
// storage tier.
func LoadParameters(path string) (ckks.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ckks.Parameters{}, fmt.Errorf("read parameters: %w", err)
	}

	var params ckks.Parameters
	if err := params.UnmarshalBinary(data); err != nil {
		return ckks.Parameters{}, fmt.Errorf("%w: %w", ErrParameterMismatch, err)
	}
	return params, nil
}

// LoadOrCreateKeyChain loads the parameter set and keypair from dir,
// generating and persisting fresh material on first start. Subsequent
// starts must keep using the same directory: balances encrypted under the
// old keys are unreadable after a key change.
func LoadOrCreateKeyChain(dir string) (*KeyChain, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create key directory: %w", err)
	}

	paramsPath := filepath.Join(dir, ParamsFileName)
	skPath := filepath.Join(dir, secretKeyFileName)
	pkPath := filepath.Join(dir, publicKeyFileName)

	if _, err := os.Stat(paramsPath); errors.Is(err, fs.ErrNotExist) {
		return createKeyChain(paramsPath, skPath, pkPath)
	}

	params, err := LoadParameters(paramsPath)
	if err != nil {
		return nil, err
	}

	sk := new(rlwe.SecretKey)
	if err := readBinary(skPath, sk); err != nil {
		return nil, fmt.Errorf("read secret key: %w", err)
	}

	pk := new(rlwe.PublicKey)
	if err := readBinary(pkPath, pk); err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}

	return &KeyChain{Params: params, SecretKey: sk, PublicKey: pk}, nil
}

func createKeyChain(paramsPath, skPath, pkPath string) (*KeyChain, error) {
	params, err := NewParameters()
	if err != nil {
		return nil, err
	}
	sk, pk := GenerateKeyPair(params)

	if err := writeBinary(paramsPath, params, 0o644); err != nil {
		return nil, fmt.Errorf("write parameters: %w", err)
	}
	if err := writeBinary(skPath, sk, 0o600); err != nil {
		return nil, fmt.Errorf("write secret key: %w", err)
	}
	if err := writeBinary(pkPath, pk, 0o644); err != nil {
		return nil, fmt.Errorf("write public key: %w", err)
	}

	return &KeyChain{Params: params, SecretKey: sk, PublicKey: pk}, nil
}

// MarshalPublicKey serializes a homomorphic public key for storage in an
// account row.
func MarshalPublicKey(pk *rlwe.PublicKey) ([]byte, error) {
	data, err := pk.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}
	return data, nil
}

// ParsePublicKey deserializes a homomorphic public key from an account row.
func ParsePublicKey(data []byte) (*rlwe.PublicKey, error) {
	pk := new(rlwe.PublicKey)
	if err := pk.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParameterMismatch, err)
	}
	return pk, nil
}

type binaryMarshaler interface {
	MarshalBinary() ([]byte, error)
}

type binaryUnmarshaler interface {
	UnmarshalBinary([]byte) error
}

func writeBinary(path string, v binaryMarshaler, perm os.FileMode) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

func readBinary(path string, v binaryUnmarshaler) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return v.UnmarshalBinary(data)
}
