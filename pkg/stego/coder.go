// Package stego embeds and extracts authenticated watermark payloads in
// still images.
//
// Two complementary coders cover the supported carriers:
//
//   - the frequency-domain (DCT) coder for PNG and JPEG carriers: the
//     payload is sealed with AES-256-GCM under a PBKDF2-derived key, framed
//     with a CRC, and spread redundantly over secret-selected 8x8 blocks;
//   - the spatial (LSB) coder for BMP carriers: the zlib-compressed payload
//     is tiled over the low bits of the pixel channels in independent zones
//     reconstructed by majority vote.
//
// Classify picks the coder from carrier content; Sign and Verify compose
// the full pipeline either way.
package stego

import (
	"github.com/steganographia/stegano/pkg/imageio"
)

// CoderKind discriminates the coder variants.
type CoderKind int

const (
	// CoderDCT is the frequency-domain coder (AEAD + frame + DCT).
	CoderDCT CoderKind = iota + 1

	// CoderLSB is the spatial coder (zlib + end marker, no AEAD).
	CoderLSB
)

// String implements fmt.Stringer.
func (k CoderKind) String() string {
	switch k {
	case CoderDCT:
		return "dct"
	case CoderLSB:
		return "lsb"
	default:
		return "unknown"
	}
}

// Coder is the dispatch decision for a carrier: which coder runs and with
// which parameters. Exactly one of DCT and LSB is meaningful, per Kind.
type Coder struct {
	Kind CoderKind
	DCT  DCTParams
	LSB  LSBParams
}

// Secrets carries the two secrets of the frequency-domain path. Password
// seals the payload; Positions keys the block permutation. They are
// semantically distinct but may hold the same string.
type Secrets struct {
	Password  string
	Positions string
}

// Classify inspects carrier content and returns the coder that handles it,
// loaded with default parameters. Content that is neither PNG, JPEG nor BMP
// fails with imageio.ErrUnsupportedFormat; nothing falls back silently.
func Classify(carrier []byte) (Coder, error) {
	format, err := imageio.Sniff(carrier)
	if err != nil {
		return Coder{}, err
	}
	switch format {
	case imageio.FormatBMP:
		return Coder{Kind: CoderLSB, LSB: DefaultLSBParams()}, nil
	default: // PNG, JPEG
		return Coder{Kind: CoderDCT, DCT: DefaultDCTParams()}, nil
	}
}

// Sign embeds message into carrier with the coder Classify selects.
// The secrets are used only on the frequency-domain path; the spatial path
// is the legacy unencrypted format.
func Sign(carrier []byte, message string, secrets Secrets) ([]byte, error) {
	coder, err := Classify(carrier)
	if err != nil {
		return nil, err
	}
	switch coder.Kind {
	case CoderLSB:
		return EmbedLSB(carrier, message, coder.LSB)
	default:
		return EmbedDCT(carrier, message, secrets.Password, secrets.Positions, coder.DCT)
	}
}

// Verify extracts the message embedded in carrier with the coder Classify
// selects. Note that the frequency-domain embed path emits JPEG, so a
// signed carrier classifies to the frequency-domain coder on verification
// regardless of its original format.
func Verify(carrier []byte, secrets Secrets) (string, error) {
	coder, err := Classify(carrier)
	if err != nil {
		return "", err
	}
	switch coder.Kind {
	case CoderLSB:
		return ExtractLSB(carrier, coder.LSB)
	default:
		return ExtractDCT(carrier, secrets.Password, secrets.Positions, coder.DCT)
	}
}
