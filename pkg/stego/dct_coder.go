// Frequency-domain coder.
//
// Each payload bit is carried by a window of Redundancy blocks drawn from a
// secret-keyed permutation of the carrier's 8x8 block grid. Embedding adds
// +-Strength to one fixed mid-frequency coefficient of each window block
// whose spatial mean is moderate (near-black and near-white blocks are left
// alone to avoid visible clipping); extraction reads the coefficient sign of
// every window block and takes the majority.

package stego

import (
	"bytes"
	"fmt"

	"github.com/steganographia/stegano/pkg/bitcodec"
	"github.com/steganographia/stegano/pkg/crypto"
	"github.com/steganographia/stegano/pkg/dct"
	"github.com/steganographia/stegano/pkg/frame"
	"github.com/steganographia/stegano/pkg/imageio"
	"github.com/steganographia/stegano/pkg/permute"
)

// Carrier coefficient position within each transformed block. Part of the
// on-image format.
const (
	coeffRow = 3
	coeffCol = 2
)

// Activity mask bounds: blocks with a spatial mean at or outside these are
// skipped at embed. The mask is embed-only; skipped blocks keep their prior
// coefficient and contribute noise votes that redundancy absorbs.
const (
	maskLow  = 15
	maskHigh = 240
)

// EmbedDCT hides plaintext in the carrier image and returns the stego image
// encoded as JPEG at params.Quality.
//
// The plaintext is sealed under password (PBKDF2 + AES-256-GCM), framed with
// a length prefix and CRC, and spread over the block grid in the order keyed
// by positionsSecret. The two secrets are distinct in role and may coincide.
func EmbedDCT(carrier []byte, plaintext string, password, positionsSecret string, params DCTParams) ([]byte, error) {
	params = params.withDefaults()
	log := newLogger(params.LoggerFactory)

	img, _, err := imageio.Decode(carrier)
	if err != nil {
		return nil, err
	}

	if len(plaintext)+crypto.Overhead > params.MaxPayloadBytes {
		return nil, fmt.Errorf("%w: %d bytes sealed exceeds %d",
			ErrPayloadTooLarge, len(plaintext)+crypto.Overhead, params.MaxPayloadBytes)
	}

	planes := imageio.ExtractPlanes(img)
	plane, err := selectPlane(planes, params.Channel)
	if err != nil {
		return nil, err
	}

	body, err := crypto.Seal([]byte(plaintext), password)
	if err != nil {
		return nil, err
	}
	framed := frame.Encode(body)
	bits := bitcodec.Bits(framed)
	crypto.Zeroize(body)
	crypto.Zeroize(framed)

	grid := dct.NewGrid(plane, planes.W, planes.H)
	n := grid.Len()
	if len(bits)*params.Redundancy > n {
		return nil, fmt.Errorf("%w: need %d block slots, have %d",
			ErrImageTooSmall, len(bits)*params.Redundancy, n)
	}

	perm := permute.Permutation(positionsSecret, n)
	grid.TransformAll()

	if log != nil {
		log.Debugf("embedding %d bits into %d blocks (redundancy %d, strength %g, channel %s)",
			len(bits), n, params.Redundancy, params.Strength, params.Channel)
	}

	coeff := dct.CoeffIndex(coeffRow, coeffCol)
	skipped := 0
	for i, bit := range bits {
		delta := float32(params.Strength)
		if bit == 0 {
			delta = -delta
		}
		for r := 0; r < params.Redundancy; r++ {
			idx := perm[i*params.Redundancy+r]
			if m := grid.Mean(idx); m <= maskLow || m >= maskHigh {
				skipped++
				continue
			}
			grid.Block(idx)[coeff] += delta
		}
	}
	if log != nil && skipped > 0 {
		log.Debugf("activity mask skipped %d of %d block writes", skipped, len(bits)*params.Redundancy)
	}

	grid.InverseAll()
	copy(plane, grid.Reassemble())

	var buf bytes.Buffer
	if err := imageio.EncodeJPEG(&buf, planes.Image(), params.Quality); err != nil {
		return nil, fmt.Errorf("stego: encode output: %w", err)
	}
	return buf.Bytes(), nil
}

// ExtractDCT recovers the plaintext embedded by EmbedDCT. It requires the
// same positionsSecret, password, redundancy and channel used at embed.
//
// Wrong secrets surface as crypto.ErrDecryptFailed (password) or as a
// framing error (positions secret); the coder never returns unauthenticated
// plaintext.
func ExtractDCT(carrier []byte, password, positionsSecret string, params DCTParams) (string, error) {
	params = params.withDefaults()
	log := newLogger(params.LoggerFactory)

	img, _, err := imageio.Decode(carrier)
	if err != nil {
		return "", err
	}

	planes := imageio.ExtractPlanes(img)
	plane, err := selectPlane(planes, params.Channel)
	if err != nil {
		return "", err
	}

	grid := dct.NewGrid(plane, planes.W, planes.H)
	n := grid.Len()
	perm := permute.Permutation(positionsSecret, n)
	grid.TransformAll()

	// Read the worst-case frame length; the length prefix truncates it.
	headerBits := (frame.Overhead + params.MaxPayloadBytes) * 8
	coeff := dct.CoeffIndex(coeffRow, coeffCol)

	bits := make([]uint8, headerBits)
	for i := range bits {
		votes := 0
		for r := 0; r < params.Redundancy; r++ {
			idx := perm[(i*params.Redundancy+r)%n]
			if grid.Block(idx)[coeff] > 0 {
				votes++
			}
		}
		// Ties read as 1.
		if votes*2 >= params.Redundancy {
			bits[i] = 1
		}
	}

	raw, err := bitcodec.Bytes(bits)
	if err != nil {
		return "", err
	}

	body, err := frame.Decode(raw, params.MaxPayloadBytes)
	if err != nil {
		return "", err
	}

	if log != nil {
		log.Debugf("recovered %d-byte framed body from %d blocks", len(body), n)
	}

	plaintext, err := crypto.Open(body, password)
	if err != nil {
		return "", err
	}
	defer crypto.Zeroize(plaintext)
	return string(plaintext), nil
}

// selectPlane returns the requested plane of p.
func selectPlane(p *imageio.Planes, ch Channel) ([]float32, error) {
	switch ch {
	case ChannelY:
		return p.Y, nil
	case ChannelCr:
		return p.Cr, nil
	case ChannelCb:
		return p.Cb, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}
}
