package crypto

import (
	"crypto/rsa"

	"github.com/cipherbank/go-cipher-bank/models"
)

// TransportService owns every cryptographic primitive of the client↔authority
// transport. It knows nothing about the network, the database or accounts.
//
// Handshake scheme:
//
//	priv      = GenerateSessionIdentity()           (client, per process)
//	key, iv   = GenerateSessionKey()                (authority, per session)
//	blob      = EncryptAsymmetric(key‖iv, pub)      (authority → client)
//	key, iv   = DecryptAsymmetric(blob, priv)       (client)
//
// All later payloads travel through EncryptPayload/DecryptPayload under the
// negotiated key+iv. The symmetric layer is CBC without a MAC: it provides
// confidentiality only, no integrity.
type TransportService interface {
	// GenerateSessionIdentity generates a fresh 2048-bit RSA keypair.
	// A client calls it once per process start; keys are never reused
	// across processes and never written to disk.
	GenerateSessionIdentity() (*rsa.PrivateKey, error)

	// GenerateSessionKey produces fresh symmetric session material:
	// a random 256-bit AES key and a 128-bit IV.
	GenerateSessionKey() (models.SessionKey, error)

	// MarshalPublicKey serializes an RSA public key to PEM (PKIX form)
	// for the handshake request body.
	MarshalPublicKey(pub *rsa.PublicKey) ([]byte, error)

	// ParsePublicKey parses a PEM-encoded (PKIX) RSA public key.
	ParsePublicKey(pemBytes []byte) (*rsa.PublicKey, error)

	// EncryptAsymmetric encrypts plaintext under pub with RSA-OAEP.
	// Plaintexts longer than one RSA block are split into
	// keySize-overhead byte chunks and the ciphertext blocks are
	// concatenated.
	EncryptAsymmetric(plaintext []byte, pub *rsa.PublicKey) ([]byte, error)

	// DecryptAsymmetric reverses EncryptAsymmetric, decrypting each
	// keySize-long block and concatenating the plaintext chunks.
	DecryptAsymmetric(ciphertext []byte, priv *rsa.PrivateKey) ([]byte, error)

	// EncryptPayload encrypts plaintext with AES-256-CBC under the
	// session key. PKCS#7 padding is the only length expansion; the
	// empty plaintext yields exactly one padding block.
	EncryptPayload(plaintext []byte, key models.SessionKey) ([]byte, error)

	// DecryptPayload reverses EncryptPayload. It fails on ciphertexts
	// that are empty, not block-aligned or carry corrupt padding.
	DecryptPayload(ciphertext []byte, key models.SessionKey) ([]byte, error)
}
