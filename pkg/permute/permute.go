// Package permute derives the block-visiting order of the frequency-domain
// coder from a secret string.
//
// The construction is part of the on-image format and is fixed exactly:
//
//   - seed = SHA-256(secret)
//   - PRNG = ChaCha20 keystream (RFC 8439) keyed with the seed, all-zero
//     12-byte nonce, counter starting at zero; draws are consecutive 4-byte
//     little-endian words
//   - bounded draws use rejection sampling to stay unbiased
//   - shuffle = Fisher-Yates over [0, n), iterating i from n-1 down to 1,
//     swapping a[i] with a[draw(i+1)]
//
// Identical secret and n produce a bit-identical permutation on every
// platform. Any change here breaks extraction of already-embedded images.
package permute

import (
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
)

// stream yields uniform values from a ChaCha20 keystream.
type stream struct {
	cipher *chacha20.Cipher
	buf    [256]byte
	off    int
}

func newStream(secret string) *stream {
	seed := sha256.Sum256([]byte(secret))
	nonce := make([]byte, chacha20.NonceSize)
	cipher, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce)
	if err != nil {
		// Key and nonce sizes are fixed above; this cannot fail.
		panic("permute: " + err.Error())
	}
	s := &stream{cipher: cipher}
	s.refill()
	return s
}

func (s *stream) refill() {
	for i := range s.buf {
		s.buf[i] = 0
	}
	s.cipher.XORKeyStream(s.buf[:], s.buf[:])
	s.off = 0
}

// next32 returns the next keystream word.
func (s *stream) next32() uint32 {
	if s.off == len(s.buf) {
		s.refill()
	}
	v := binary.LittleEndian.Uint32(s.buf[s.off:])
	s.off += 4
	return v
}

// draw returns a uniform value in [0, n) via rejection sampling.
func (s *stream) draw(n int) int {
	bound := uint32(n)
	limit := (1 << 32 / uint64(bound)) * uint64(bound)
	for {
		v := s.next32()
		if uint64(v) < limit {
			return int(v % bound)
		}
	}
}

// Permutation returns the secret-keyed permutation of [0, n).
func Permutation(secret string, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if n < 2 {
		return perm
	}

	s := newStream(secret)
	for i := n - 1; i > 0; i-- {
		j := s.draw(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
