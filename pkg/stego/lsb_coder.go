// Spatial coder.
//
// The message is zlib-compressed, terminated with a 16-bit end marker, and
// written K times: the pixel sequence (row-major) is split into K equal
// zones and every zone receives a full copy, one bit per R, G, B low bit.
// Extraction reads each zone independently and majority-votes the copies
// that decompress, so localized damage to a minority of zones is survivable.
//
// This path is the legacy lossless-carrier format: no encryption, no CRC
// (zlib's own integrity check plays that role).

package stego

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"io"

	"github.com/steganographia/stegano/pkg/bitcodec"
	"github.com/steganographia/stegano/pkg/imageio"
)

// endMarker terminates each embedded copy: bits 0110110011001101.
const endMarker uint16 = 0x6CCD

// endMarkerBits is the marker length in bits.
const endMarkerBits = 16

// EmbedLSB hides message in the low bits of the carrier's RGB channels and
// returns the stego image in a lossless encoding (BMP carriers stay BMP,
// everything else becomes PNG). Alpha channels pass through untouched.
func EmbedLSB(carrier []byte, message string, params LSBParams) ([]byte, error) {
	repeat := params.Repeat
	if repeat == 0 {
		repeat = DefaultEmbedRepeat
	}
	log := newLogger(params.LoggerFactory)

	img, format, err := imageio.Decode(carrier)
	if err != nil {
		return nil, err
	}
	pix := imageio.ToNRGBA(img)
	w := pix.Rect.Dx()
	h := pix.Rect.Dy()
	totalPixels := w * h

	bits := messageBits(message)
	pixelsPerCopy := totalPixels / repeat
	if len(bits) > pixelsPerCopy*3 {
		return nil, fmt.Errorf("%w: %d bits per copy, zone holds %d",
			ErrPayloadTooLarge, len(bits), pixelsPerCopy*3)
	}

	if log != nil {
		log.Debugf("embedding %d bits x%d zones into %dx%d carrier", len(bits), repeat, w, h)
	}

	for c := 0; c < repeat; c++ {
		start := c * pixelsPerCopy
		bitIdx := 0
		for j := start; j < start+pixelsPerCopy && bitIdx < len(bits); j++ {
			off := (j/w)*pix.Stride + (j%w)*4
			for ch := 0; ch < 3 && bitIdx < len(bits); ch++ {
				pix.Pix[off+ch] = pix.Pix[off+ch]&^1 | bits[bitIdx]
				bitIdx++
			}
		}
	}

	var buf bytes.Buffer
	if format == imageio.FormatBMP {
		err = imageio.EncodeBMP(&buf, pix)
	} else {
		err = imageio.EncodePNG(&buf, pix)
	}
	if err != nil {
		return nil, fmt.Errorf("stego: encode output: %w", err)
	}
	return buf.Bytes(), nil
}

// ExtractLSB recovers the message embedded by EmbedLSB. The zone count may
// be lower than the embed count. Zone starts land on copy starts when the
// zone count divides the embed count and the pixel count divides evenly by
// the embed count; a zone that starts off a copy boundary yields no
// candidate, and the vote runs over the zones that do.
func ExtractLSB(carrier []byte, params LSBParams) (string, error) {
	repeat := params.Repeat
	if repeat == 0 {
		repeat = DefaultExtractRepeat
	}
	log := newLogger(params.LoggerFactory)

	img, _, err := imageio.Decode(carrier)
	if err != nil {
		return "", err
	}
	pix := imageio.ToNRGBA(img)
	w := pix.Rect.Dx()
	h := pix.Rect.Dy()
	pixelsPerZone := w * h / repeat

	counts := make(map[string]int)
	var order []string
	for z := 0; z < repeat; z++ {
		msg, ok := scanZone(pix, w, z*pixelsPerZone, pixelsPerZone)
		if !ok {
			continue
		}
		if counts[msg] == 0 {
			order = append(order, msg)
		}
		counts[msg]++
	}

	if log != nil {
		log.Debugf("%d distinct candidates from %d zones", len(order), repeat)
	}
	if len(order) == 0 {
		return "", ErrNoReadableMessage
	}

	// Majority of readable copies; ties go to the earliest zone.
	best := order[0]
	for _, msg := range order[1:] {
		if counts[msg] > counts[best] {
			best = msg
		}
	}
	return best, nil
}

// messageBits compresses a message and appends the end marker.
func messageBits(message string) []uint8 {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write([]byte(message)) // writes to a bytes.Buffer; cannot fail
	zw.Close()

	bits := bitcodec.Bits(buf.Bytes())
	for shift := endMarkerBits - 1; shift >= 0; shift-- {
		bits = append(bits, uint8(endMarker>>uint(shift))&1)
	}
	return bits
}

// scanZone reads low bits from one zone until a marker hit yields a
// decompressible prefix. A marker pattern occurring inside the payload is
// not fatal: the scan keeps going to the next hit.
func scanZone(pix *image.NRGBA, w, start, count int) (string, bool) {
	bits := make([]uint8, 0, count*3)
	var roll uint16
	for j := start; j < start+count; j++ {
		off := (j/w)*pix.Stride + (j%w)*4
		for ch := 0; ch < 3; ch++ {
			bit := pix.Pix[off+ch] & 1
			bits = append(bits, bit)
			roll = roll<<1 | uint16(bit)
			if len(bits) < endMarkerBits || roll != endMarker {
				continue
			}
			candidate := bits[:len(bits)-endMarkerBits]
			if len(candidate)%8 != 0 {
				continue
			}
			data, err := bitcodec.Bytes(candidate)
			if err != nil {
				continue
			}
			if msg, err := inflate(data); err == nil {
				return msg, true
			}
		}
	}
	return "", false
}

// inflate zlib-decompresses data to a string.
func inflate(data []byte) (string, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
