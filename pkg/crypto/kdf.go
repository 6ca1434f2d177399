// Package crypto implements the cryptographic envelope protecting embedded
// watermark payloads: PBKDF2 key derivation and AES-256-GCM encryption.
package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// Key derivation constants. These are part of the envelope format; changing
// them breaks decryption of envelopes already embedded in images.
const (
	// KeySize is the derived AES-256 key length in bytes.
	KeySize = 32

	// KDFIterations is the PBKDF2 iteration count.
	KDFIterations = 100_000
)

// PBKDF2SHA256 derives key material from a password using
// PBKDF2-HMAC-SHA256 (NIST 800-132).
//
// Parameters:
//   - password: the passphrase to derive from
//   - salt: random salt (the envelope uses 16 bytes)
//   - iterations: iteration count
//   - keyLen: number of bytes to derive
func PBKDF2SHA256(password, salt []byte, iterations, keyLen int) []byte {
	return pbkdf2.Key(password, salt, iterations, keyLen, sha256.New)
}

// deriveKey derives the envelope's AES-256 key from a passphrase and salt
// using the fixed envelope parameters.
func deriveKey(password string, salt []byte) []byte {
	return PBKDF2SHA256([]byte(password), salt, KDFIterations, KeySize)
}

// Zeroize overwrites b with zeros. Callers use it to drop key material and
// plaintext buffers before returning.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
