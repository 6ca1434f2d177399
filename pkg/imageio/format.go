// Package imageio loads and stores carrier images for the coders: format
// sniffing, decoding to workable pixel forms, float YCbCr plane conversion,
// and lossy/lossless encoding.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
)

// Format identifies a supported carrier image format.
type Format int

const (
	// FormatUnknown marks content that matched no supported signature.
	FormatUnknown Format = iota
	// FormatPNG is Portable Network Graphics.
	FormatPNG
	// FormatJPEG is JFIF/JPEG.
	FormatJPEG
	// FormatBMP is Windows Bitmap.
	FormatBMP
)

// String returns the conventional lower-case extension for the format.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatBMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// Lossless reports whether the format preserves pixel values exactly.
func (f Format) Lossless() bool {
	return f == FormatPNG || f == FormatBMP
}

// Errors returned by carrier loading.
var (
	// ErrUnsupportedFormat is returned for content that is not PNG, JPEG or
	// BMP.
	ErrUnsupportedFormat = errors.New("imageio: unsupported image format")

	// ErrImageDecode is returned when a recognized carrier fails to parse.
	ErrImageDecode = errors.New("imageio: cannot decode image")
)

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	bmpMagic  = []byte{'B', 'M'}
)

// Sniff classifies carrier content by its magic bytes. File extensions are
// deliberately not consulted.
func Sniff(data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return FormatPNG, nil
	case bytes.HasPrefix(data, jpegMagic):
		return FormatJPEG, nil
	case bytes.HasPrefix(data, bmpMagic):
		return FormatBMP, nil
	default:
		return FormatUnknown, ErrUnsupportedFormat
	}
}

// Decode sniffs and parses a carrier.
func Decode(data []byte) (image.Image, Format, error) {
	format, err := Sniff(data)
	if err != nil {
		return nil, FormatUnknown, err
	}

	var img image.Image
	switch format {
	case FormatPNG:
		img, err = png.Decode(bytes.NewReader(data))
	case FormatJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	case FormatBMP:
		img, err = bmp.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, format, fmt.Errorf("%w: %s: %v", ErrImageDecode, format, err)
	}
	return img, format, nil
}

// EncodeJPEG writes img as JPEG at the given quality (1-100).
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// EncodeBMP writes img as BMP.
func EncodeBMP(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}
