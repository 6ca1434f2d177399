// AES-256-GCM envelope for watermark payloads.
//
// Wire layout: salt(16) || nonce(12) || ciphertext||tag
//
// Salt and nonce are freshly random for every Seal, so sealing the same
// plaintext twice yields unrelated envelopes.

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// Envelope layout constants.
const (
	// SaltSize is the PBKDF2 salt length in bytes.
	SaltSize = 16

	// NonceSize is the AES-GCM nonce length in bytes.
	NonceSize = 12

	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16

	// Overhead is the total size the envelope adds to a plaintext.
	Overhead = SaltSize + NonceSize + TagSize
)

// Errors returned by the envelope.
var (
	// ErrEnvelopeTooShort is returned when an envelope cannot even hold the
	// salt, nonce and tag.
	ErrEnvelopeTooShort = errors.New("crypto: envelope too short")

	// ErrDecryptFailed is returned when decryption or authentication fails:
	// wrong password, tampered ciphertext, or corrupted envelope.
	ErrDecryptFailed = errors.New("crypto: decryption or authentication failed")
)

// Seal encrypts plaintext under a key derived from password and returns the
// envelope salt || nonce || ciphertext||tag.
func Seal(plaintext []byte, password string) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("crypto: read salt: %w", err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("crypto: read nonce: %w", err)
	}

	key := deriveKey(password, salt)
	defer Zeroize(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, SaltSize+NonceSize+len(plaintext)+TagSize)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, nil)
	return out, nil
}

// Open authenticates and decrypts an envelope produced by Seal.
func Open(envelope []byte, password string) ([]byte, error) {
	if len(envelope) < Overhead {
		return nil, ErrEnvelopeTooShort
	}
	salt := envelope[:SaltSize]
	nonce := envelope[SaltSize : SaltSize+NonceSize]
	ct := envelope[SaltSize+NonceSize:]

	key := deriveKey(password, salt)
	defer Zeroize(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: new GCM: %w", err)
	}
	return aead, nil
}
