package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"

	"github.com/cipherbank/go-cipher-bank/models"
)

const (
	// rsaKeyBits is the session identity key length. One keypair per
	// client process.
	rsaKeyBits = 2048

	// aesKeyLen and ivLen are the symmetric session material sizes:
	// AES-256 key and one CBC block of IV.
	aesKeyLen = 32
	ivLen     = aes.BlockSize
)

var (
	// ErrMalformedCiphertext is returned by the symmetric layer when a
	// ciphertext is empty, not block-aligned, or carries corrupt padding.
	// With CBC and no MAC this is the only tamper signal available.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrMalformedPublicKey is returned when a handshake body does not
	// contain a parseable PEM-encoded RSA public key.
	ErrMalformedPublicKey = errors.New("malformed public key")
)

// transportService is the private implementation of [TransportService].
type transportService struct{}

// NewTransportService constructs the [TransportService] used by both the
// client and the authority. The implementation is stateless and safe for
// concurrent use.
func NewTransportService() TransportService {
	return &transportService{}
}

// GenerateSessionIdentity implements [TransportService].
func (t *transportService) GenerateSessionIdentity() (*rsa.PrivateKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate session identity: %w", err)
	}
	return priv, nil
}

// GenerateSessionKey implements [TransportService]. Both key and IV are read
// from the OS CSPRNG; the pair is unique per login session.
func (t *transportService) GenerateSessionKey() (models.SessionKey, error) {
	key := make([]byte, aesKeyLen)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return models.SessionKey{}, fmt.Errorf("generate session key: %w", err)
	}

	iv := make([]byte, ivLen)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return models.SessionKey{}, fmt.Errorf("generate session iv: %w", err)
	}

	return models.SessionKey{Key: key, IV: iv}, nil
}

// MarshalPublicKey implements [TransportService].
func (t *transportService) MarshalPublicKey(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// ParsePublicKey implements [TransportService].
func (t *transportService) ParsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, ErrMalformedPublicKey
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPublicKey, err)
	}

	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, ErrMalformedPublicKey
	}

	return pub, nil
}

// EncryptAsymmetric implements [TransportService]. The chunk size is the
// RSA modulus length minus the OAEP overhead (2*hash+2); the handshake
// payload (key‖iv, 48 bytes) always fits in a single block, but longer
// messages are split and the ciphertext blocks concatenated.
func (t *transportService) EncryptAsymmetric(plaintext []byte, pub *rsa.PublicKey) ([]byte, error) {
	h := sha256.New()
	chunkSize := pub.Size() - 2*h.Size() - 2

	var out []byte
	for len(plaintext) > 0 || out == nil {
		n := min(len(plaintext), chunkSize)

		block, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext[:n], nil)
		if err != nil {
			return nil, fmt.Errorf("asymmetric encrypt: %w", err)
		}

		out = append(out, block...)
		plaintext = plaintext[n:]
	}

	return out, nil
}

// DecryptAsymmetric implements [TransportService].
func (t *transportService) DecryptAsymmetric(ciphertext []byte, priv *rsa.PrivateKey) ([]byte, error) {
	blockSize := priv.Size()
	if len(ciphertext) == 0 || len(ciphertext)%blockSize != 0 {
		return nil, ErrMalformedCiphertext
	}

	var out []byte
	for off := 0; off < len(ciphertext); off += blockSize {
		chunk, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ciphertext[off:off+blockSize], nil)
		if err != nil {
			return nil, fmt.Errorf("asymmetric decrypt: %w", err)
		}

		out = append(out, chunk...)
	}

	return out, nil
}

// EncryptPayload implements [TransportService].
func (t *transportService) EncryptPayload(plaintext []byte, key models.SessionKey) ([]byte, error) {
	block, err := aes.NewCipher(key.Key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	if len(key.IV) != block.BlockSize() {
		return nil, fmt.Errorf("iv length %d, want %d", len(key.IV), block.BlockSize())
	}

	padded := padPKCS7(plaintext, block.BlockSize())
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, key.IV).CryptBlocks(out, padded)

	return out, nil
}

// DecryptPayload implements [TransportService].
func (t *transportService) DecryptPayload(ciphertext []byte, key models.SessionKey) ([]byte, error) {
	block, err := aes.NewCipher(key.Key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	if len(key.IV) != block.BlockSize() {
		return nil, fmt.Errorf("iv length %d, want %d", len(key.IV), block.BlockSize())
	}
	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, ErrMalformedCiphertext
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, key.IV).CryptBlocks(padded, ciphertext)

	return unpadPKCS7(padded, block.BlockSize())
}

// padPKCS7 appends PKCS#7 padding up to the next block boundary. An
// already-aligned plaintext (including the empty one) gains a full block.
func padPKCS7(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpadPKCS7 strips and verifies PKCS#7 padding.
func unpadPKCS7(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrMalformedCiphertext
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrMalformedCiphertext
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrMalformedCiphertext
		}
	}

	return data[:len(data)-n], nil
}
