// Package frame implements the CRC-checked envelope around an embedded
// payload.
//
// Wire layout: length(4, big-endian) || body || crc32(4, big-endian)
//
// The CRC is CRC-32/IEEE over the body. The frame carries no version field;
// its shape is part of the on-image format.
package frame

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// HeaderSize is the length prefix size in bytes.
const HeaderSize = 4

// TrailerSize is the CRC trailer size in bytes.
const TrailerSize = 4

// Overhead is the total framing overhead in bytes.
const Overhead = HeaderSize + TrailerSize

// Framing errors.
var (
	// ErrFrameTooShort is returned when the input cannot hold the declared
	// body plus the length prefix and CRC trailer.
	ErrFrameTooShort = errors.New("frame: data too short")

	// ErrLengthOutOfRange is returned when the length prefix is zero or
	// exceeds the caller's body bound.
	ErrLengthOutOfRange = errors.New("frame: length out of range")

	// ErrCRCMismatch is returned when the body does not match the CRC
	// trailer: corruption, or extraction with the wrong secrets.
	ErrCRCMismatch = errors.New("frame: CRC mismatch")
)

// Encode wraps body as length || body || crc32(body).
func Encode(body []byte) []byte {
	out := make([]byte, Overhead+len(body))
	binary.BigEndian.PutUint32(out, uint32(len(body)))
	copy(out[HeaderSize:], body)
	binary.BigEndian.PutUint32(out[HeaderSize+len(body):], crc32.ChecksumIEEE(body))
	return out
}

// Decode parses a frame from the start of data and returns the body.
// Trailing bytes after the CRC are ignored, so callers may pass an
// over-read buffer. maxBody bounds the accepted body length.
func Decode(data []byte, maxBody int) ([]byte, error) {
	if len(data) < Overhead {
		return nil, ErrFrameTooShort
	}
	length := int(binary.BigEndian.Uint32(data))
	if length <= 0 || length > maxBody {
		return nil, ErrLengthOutOfRange
	}
	if len(data) < Overhead+length {
		return nil, ErrFrameTooShort
	}
	body := data[HeaderSize : HeaderSize+length]
	crc := binary.BigEndian.Uint32(data[HeaderSize+length:])
	if crc != crc32.ChecksumIEEE(body) {
		return nil, ErrCRCMismatch
	}
	out := make([]byte, length)
	copy(out, body)
	return out, nil
}
