package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	bodies := [][]byte{
		{0x01},
		[]byte("hello"),
		bytes.Repeat([]byte{0xAB}, 1000),
	}
	for _, body := range bodies {
		enc := Encode(body)
		if len(enc) != len(body)+Overhead {
			t.Fatalf("frame length = %d, want %d", len(enc), len(body)+Overhead)
		}
		got, err := Decode(enc, len(body))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !bytes.Equal(got, body) {
			t.Errorf("body mismatch\ngot:  %x\nwant: %x", got, body)
		}
	}
}

func TestDecodeIgnoresTrailingGarbage(t *testing.T) {
	body := []byte("payload")
	enc := append(Encode(body), 0xDE, 0xAD, 0xBE, 0xEF)
	got, err := Decode(enc, 100)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("body mismatch: got %q", got)
	}
}

func TestDecodeTooShort(t *testing.T) {
	if _, err := Decode([]byte{0, 0, 0}, 100); !errors.Is(err, ErrFrameTooShort) {
		t.Errorf("short header: got %v, want ErrFrameTooShort", err)
	}

	// Valid prefix declaring more body than present.
	truncated := Encode([]byte("hello"))[:8]
	if _, err := Decode(truncated, 100); !errors.Is(err, ErrFrameTooShort) {
		t.Errorf("truncated body: got %v, want ErrFrameTooShort", err)
	}
}

func TestDecodeLengthOutOfRange(t *testing.T) {
	// Zero length.
	zero := make([]byte, Overhead)
	if _, err := Decode(zero, 100); !errors.Is(err, ErrLengthOutOfRange) {
		t.Errorf("zero length: got %v, want ErrLengthOutOfRange", err)
	}

	// Length above the caller's bound.
	enc := Encode(bytes.Repeat([]byte{1}, 50))
	if _, err := Decode(enc, 49); !errors.Is(err, ErrLengthOutOfRange) {
		t.Errorf("oversized length: got %v, want ErrLengthOutOfRange", err)
	}

	// Absurd length prefix on a short buffer is rejected as out of range
	// before the body read.
	huge := make([]byte, Overhead)
	binary.BigEndian.PutUint32(huge, 0xFFFFFFFF)
	if _, err := Decode(huge, 100); !errors.Is(err, ErrLengthOutOfRange) {
		t.Errorf("absurd length: got %v, want ErrLengthOutOfRange", err)
	}
}

func TestDecodeCRCMismatch(t *testing.T) {
	enc := Encode([]byte("payload"))

	// Corrupt one body byte.
	corruptBody := bytes.Clone(enc)
	corruptBody[HeaderSize] ^= 0x01
	if _, err := Decode(corruptBody, 100); !errors.Is(err, ErrCRCMismatch) {
		t.Errorf("corrupt body: got %v, want ErrCRCMismatch", err)
	}

	// Corrupt the CRC trailer.
	corruptCRC := bytes.Clone(enc)
	corruptCRC[len(corruptCRC)-1] ^= 0x01
	if _, err := Decode(corruptCRC, 100); !errors.Is(err, ErrCRCMismatch) {
		t.Errorf("corrupt trailer: got %v, want ErrCRCMismatch", err)
	}
}
