// Package ledger implements the homomorphically encrypted ledger: monetary
// amounts are encoded into the CKKS approximate-arithmetic scheme and all
// balance updates are computed as additions of ciphertexts, never by
// decrypting.
//
// One scale (2^40) is fixed for the whole deployment; every ciphertext the
// ledger produces or accepts carries it. CKKS arithmetic is lossy at high
// precision: at this scale the observed error for monetary values up to
// 1,000,000.00 stays far below a tenth of a cent per operation, which the
// package tests assert. Combining ciphertexts from different scales or
// parameter sets is refused with ErrScaleMismatch/ErrParameterMismatch.
package ledger

import (
	"fmt"
	"sync"

	"github.com/tuneinsight/lattigo/v4/ckks"
	"github.com/tuneinsight/lattigo/v4/rlwe"
)

// ErrorBound is the documented worst-case deviation, in currency units,
// accepted for one encode→encrypt→arithmetic→decrypt cycle at the
// deployment scale.
const ErrorBound = 0.001

// Ledger performs encoding, encryption and homomorphic arithmetic on
// monetary amounts under one fixed CKKS parameter set.
//
// The authority constructs it with the secret key available and is the only
// party that can call Decrypt; the storage tier constructs it from the
// shared public parameters alone and is limited to Add/Negate/Subtract.
type Ledger struct {
	params  ckks.Parameters
	encoder ckks.Encoder
	eval    ckks.Evaluator

	// lattigo encoders and evaluators carry scratch buffers and are not
	// safe for concurrent use; ops are short, so one lock suffices.
	mu sync.Mutex
}

// NewParameters builds the deployment's CKKS parameter set: ring degree
// 2^13 with the fixed 2^40 scale.
func NewParameters() (ckks.Parameters, error) {
	lit := ckks.PN13QP218
	lit.DefaultScale = 1 << 40

	params, err := ckks.NewParametersFromLiteral(lit)
	if err != nil {
		return ckks.Parameters{}, fmt.Errorf("build ckks parameters: %w", err)
	}

	return params, nil
}

// GenerateKeyPair generates the authority's homomorphic keypair. The secret
// key never leaves the authority process; the public key is shared with
// account records so balances can be (re-)encrypted.
func GenerateKeyPair(params ckks.Parameters) (*rlwe.SecretKey, *rlwe.PublicKey) {
	kgen := ckks.NewKeyGenerator(params)
	return kgen.GenKeyPair()
}

// New constructs a Ledger for the given parameters.
func New(params ckks.Parameters) *Ledger {
	return &Ledger{
		params:  params,
		encoder: ckks.NewEncoder(params),
		eval:    ckks.NewEvaluator(params, rlwe.EvaluationKey{}),
	}
}

// Parameters returns the ledger's parameter set.
func (l *Ledger) Parameters() ckks.Parameters {
	return l.params
}

// Encrypt encodes amount at the deployment scale and encrypts it under pub.
func (l *Ledger) Encrypt(amount float64, pub *rlwe.PublicKey) (*rlwe.Ciphertext, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pt := l.encoder.EncodeNew([]float64{amount}, l.params.MaxLevel(), l.params.DefaultScale(), l.params.LogSlots())

	enc := ckks.NewEncryptor(l.params, pub)
	return enc.EncryptNew(pt), nil
}

// Decrypt recovers the amount from ct. Only the authority holds a secret
// key; the storage tier can never call this.
func (l *Ledger) Decrypt(ct *rlwe.Ciphertext, sk *rlwe.SecretKey) (float64, error) {
	if err := l.checkParams(ct); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	dec := ckks.NewDecryptor(l.params, sk)
	values := l.encoder.Decode(dec.DecryptNew(ct), l.params.LogSlots())
	return real(values[0]), nil
}

// Add returns a+b without decrypting either operand.
func (l *Ledger) Add(a, b *rlwe.Ciphertext) (*rlwe.Ciphertext, error) {
	if err := l.checkParams(a); err != nil {
		return nil, err
	}
	if err := l.checkParams(b); err != nil {
		return nil, err
	}
	if a.Scale.Cmp(b.Scale) != 0 {
		return nil, ErrScaleMismatch
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.eval.AddNew(a, b), nil
}

// Negate returns -ct.
func (l *Ledger) Negate(ct *rlwe.Ciphertext) (*rlwe.Ciphertext, error) {
	if err := l.checkParams(ct); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.eval.NegNew(ct), nil
}

// Subtract returns a-b, composed as Add(a, Negate(b)).
func (l *Ledger) Subtract(a, b *rlwe.Ciphertext) (*rlwe.Ciphertext, error) {
	nb, err := l.Negate(b)
	if err != nil {
		return nil, err
	}
	return l.Add(a, nb)
}

// Marshal serializes a ciphertext to its opaque blob form.
func (l *Ledger) Marshal(ct *rlwe.Ciphertext) ([]byte, error) {
	data, err := ct.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal ciphertext: %w", err)
	}
	return data, nil
}

// Unmarshal parses a ciphertext blob and verifies it belongs to the
// deployment's parameter set.
func (l *Ledger) Unmarshal(data []byte) (*rlwe.Ciphertext, error) {
	ct := new(rlwe.Ciphertext)
	if err := ct.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParameterMismatch, err)
	}

	if err := l.checkParams(ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// checkParams rejects ciphertexts produced under a foreign parameter set.
func (l *Ledger) checkParams(ct *rlwe.Ciphertext) error {
	if ct == nil || ct.Degree() < 1 {
		return ErrParameterMismatch
	}
	if ct.Value[0].N() != l.params.N() {
		return fmt.Errorf("%w: ring degree %d, want %d", ErrParameterMismatch, ct.Value[0].N(), l.params.N())
	}
	return nil
}
