package stego

import "errors"

// Coder errors. Framing and envelope failures surface from the frame and
// crypto packages; match them with errors.Is against frame.ErrCRCMismatch,
// frame.ErrLengthOutOfRange and crypto.ErrDecryptFailed.
var (
	// ErrImageTooSmall is returned when the carrier has too few 8x8 blocks
	// to hold the framed payload at the requested redundancy.
	ErrImageTooSmall = errors.New("stego: image too small for payload at this redundancy")

	// ErrPayloadTooLarge is returned when the message exceeds the payload
	// bound or, for the spatial coder, the per-zone pixel budget.
	ErrPayloadTooLarge = errors.New("stego: payload too large")

	// ErrNoReadableMessage is returned when no zone of a spatial-coded
	// carrier decompresses to a message.
	ErrNoReadableMessage = errors.New("stego: no readable message found")

	// ErrUnknownChannel is returned for a channel name other than Y, Cr, Cb.
	ErrUnknownChannel = errors.New("stego: unknown channel")
)
