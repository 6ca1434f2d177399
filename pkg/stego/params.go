package stego

import (
	"github.com/pion/logging"
)

// Channel selects the YCbCr plane the frequency-domain coder works on.
type Channel string

// Supported channels.
const (
	ChannelY  Channel = "Y"
	ChannelCr Channel = "Cr"
	ChannelCb Channel = "Cb"
)

// Frequency-domain coder defaults.
const (
	// DefaultStrength is the coefficient offset magnitude.
	DefaultStrength = 24.0

	// DefaultRedundancy is the number of blocks carrying each bit.
	DefaultRedundancy = 30

	// DefaultQuality is the JPEG output quality of the embed path.
	DefaultQuality = 100

	// DefaultMaxPayloadBytes bounds the framed body read back at extraction.
	DefaultMaxPayloadBytes = 1000
)

// Spatial coder defaults.
const (
	// DefaultEmbedRepeat is the zone count written by the spatial coder.
	DefaultEmbedRepeat = 10

	// DefaultExtractRepeat is the zone count read back. It may be lower than
	// the embed count; extraction zone starts must land on embed copy starts.
	// Every zone start does when the embed count is a multiple of the extract
	// count and the pixel count is a multiple of the embed count; otherwise the
	// integer zone sizes can drift apart and later zones miss their copy start
	// (zone 0 always lands on copy 0).
	DefaultExtractRepeat = 5
)

// DCTParams configures the frequency-domain coder. The zero value of any
// field selects its default, so DCTParams{} is usable as-is.
type DCTParams struct {
	// Strength is the magnitude added to (or subtracted from) the carrier
	// coefficient per bit. Larger survives re-encoding better and distorts
	// more.
	Strength float64

	// Redundancy is the number of blocks voting for each bit.
	Redundancy int

	// Channel is the YCbCr plane carrying the payload.
	Channel Channel

	// Quality is the JPEG quality of the embedded output.
	Quality int

	// MaxPayloadBytes bounds the framed body accepted at extraction and the
	// sealed payload at embed.
	MaxPayloadBytes int

	// LoggerFactory enables debug logging. If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// DefaultDCTParams returns the production defaults of the embed path.
func DefaultDCTParams() DCTParams {
	return DCTParams{
		Strength:        DefaultStrength,
		Redundancy:      DefaultRedundancy,
		Channel:         ChannelY,
		Quality:         DefaultQuality,
		MaxPayloadBytes: DefaultMaxPayloadBytes,
	}
}

// withDefaults fills zero-valued fields.
func (p DCTParams) withDefaults() DCTParams {
	if p.Strength == 0 {
		p.Strength = DefaultStrength
	}
	if p.Redundancy == 0 {
		p.Redundancy = DefaultRedundancy
	}
	if p.Channel == "" {
		p.Channel = ChannelY
	}
	if p.Quality == 0 {
		p.Quality = DefaultQuality
	}
	if p.MaxPayloadBytes == 0 {
		p.MaxPayloadBytes = DefaultMaxPayloadBytes
	}
	return p
}

// LSBParams configures the spatial coder. The zero value of Repeat selects
// the per-operation default (10 zones on embed, 5 on extract).
type LSBParams struct {
	// Repeat is the zone count.
	Repeat int

	// LoggerFactory enables debug logging. If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// DefaultLSBParams returns the spatial coder defaults.
func DefaultLSBParams() LSBParams {
	return LSBParams{}
}

// newLogger builds the coder logger, or nil when logging is disabled.
func newLogger(lf logging.LoggerFactory) logging.LeveledLogger {
	if lf == nil {
		return nil
	}
	return lf.NewLogger("stego")
}
