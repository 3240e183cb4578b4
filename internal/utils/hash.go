package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// pinHashIterations is the PBKDF2 iteration count for PIN hashing. PINs are
// short and low-entropy, so a slow derivation matters more here than for
// regular passwords.
const pinHashIterations = 10000

// pinHashLen is the derived key length in bytes.
const pinHashLen = 32

// HashPIN derives a PBKDF2-SHA256 hash of the given PIN using the provided
// secret key as salt and returns the result as a hex-encoded string.
//
// The same key must be used at verification time; changing it invalidates
// every stored hash.
//
// Example usage:
//
//	stored := utils.HashPIN("4821", "my-secret-key")
func HashPIN(pin string, hashKey string) string {
	return hex.EncodeToString(hashPIN([]byte(pin), hashKey))
}

// VerifyPIN reports whether the given PIN, hashed with the provided key,
// matches the stored hex-encoded hash. The comparison is constant-time.
func VerifyPIN(pin string, hashKey string, storedHash string) bool {
	computed := HashPIN(pin, hashKey)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// hashPIN computes the raw PBKDF2-SHA256 digest for the given PIN bytes.
func hashPIN(pin []byte, hashKey string) []byte {
	return pbkdf2.Key(pin, []byte(hashKey), pinHashIterations, pinHashLen, sha256.New)
}
