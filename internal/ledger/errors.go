package ledger

import "errors"

var (
	// ErrScaleMismatch is returned when two ciphertexts entering an
	// arithmetic operation were encoded at different scales.
	// Configuration drift between nodes — alert an operator.
	ErrScaleMismatch = errors.New("ciphertext scale mismatch")

	// ErrParameterMismatch is returned when a serialized ciphertext does
	// not match the deployment's encryption parameters. Fatal for the
	// request; it cannot be silently recovered.
	ErrParameterMismatch = errors.New("encryption parameter mismatch")
)
