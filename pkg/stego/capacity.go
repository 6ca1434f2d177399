package stego

import (
	"github.com/steganographia/stegano/pkg/crypto"
	"github.com/steganographia/stegano/pkg/dct"
	"github.com/steganographia/stegano/pkg/frame"
	"github.com/steganographia/stegano/pkg/imageio"
)

// Capacity describes how much payload a carrier can hold, so callers can
// reject oversized messages before running the full pipeline.
type Capacity struct {
	// Format is the sniffed carrier format.
	Format imageio.Format

	// Blocks is the 8x8 block count (frequency-domain coder only).
	Blocks int

	// Bits is the raw bit budget: blocks divided by redundancy for the
	// frequency-domain coder, low bits per zone for the spatial coder.
	Bits int

	// MaxPayloadBytes is the largest embeddable payload: plaintext bytes for
	// the frequency-domain coder, compressed bytes for the spatial coder
	// (the spatial payload size depends on how well the message compresses).
	MaxPayloadBytes int
}

// DCTCapacity reports the frequency-domain capacity of a carrier under the
// given parameters.
func DCTCapacity(carrier []byte, params DCTParams) (Capacity, error) {
	params = params.withDefaults()

	img, format, err := imageio.Decode(carrier)
	if err != nil {
		return Capacity{}, err
	}
	bounds := img.Bounds()
	bw := (bounds.Dx() + dct.BlockSize - 1) / dct.BlockSize
	bh := (bounds.Dy() + dct.BlockSize - 1) / dct.BlockSize
	blocks := bw * bh

	bits := blocks / params.Redundancy
	maxPlain := bits/8 - frame.Overhead - crypto.Overhead
	if bound := params.MaxPayloadBytes - crypto.Overhead; maxPlain > bound {
		maxPlain = bound
	}
	if maxPlain < 0 {
		maxPlain = 0
	}

	return Capacity{
		Format:          format,
		Blocks:          blocks,
		Bits:            bits,
		MaxPayloadBytes: maxPlain,
	}, nil
}

// LSBCapacity reports the spatial capacity of a carrier under the given
// parameters.
func LSBCapacity(carrier []byte, params LSBParams) (Capacity, error) {
	repeat := params.Repeat
	if repeat == 0 {
		repeat = DefaultEmbedRepeat
	}

	img, format, err := imageio.Decode(carrier)
	if err != nil {
		return Capacity{}, err
	}
	bounds := img.Bounds()
	bits := bounds.Dx() * bounds.Dy() / repeat * 3

	maxCompressed := (bits - endMarkerBits) / 8
	if maxCompressed < 0 {
		maxCompressed = 0
	}

	return Capacity{
		Format:          format,
		Bits:            bits,
		MaxPayloadBytes: maxCompressed,
	}, nil
}
