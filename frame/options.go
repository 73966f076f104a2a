// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

// Encoding selects the byte-stuffing algorithm applied to a frame's body.
type Encoding uint8

const (
	// COBS is Consistent Overhead Byte Stuffing; the wire delimiter is a
	// single trailing 0x00.
	COBS Encoding = iota
	// SLIP is the double-ended Serial Line IP framing; the wire delimiter
	// is 0xC0 on both ends, with 0xDB-prefixed escapes inside.
	SLIP
)

func (e Encoding) String() string {
	switch e {
	case COBS:
		return "COBS"
	case SLIP:
		return "SLIP"
	default:
		return "unknown"
	}
}

// Options configures framing behavior, mirroring the External Interfaces
// configuration table: encoding, indexing, crc, max_packet_queue,
// max_payload_bytes.
type Options struct {
	Encoding Encoding

	// Indexing controls whether a leading topic-index byte is included in
	// the frame.
	Indexing bool

	// CRC controls whether an 8-bit CRC-8/SMBUS trailer is included,
	// computed over the payload alone (excluding the index byte).
	CRC bool

	// MaxQueue caps the decoder's packet FIFO; 0 means unbounded. When at
	// capacity, the oldest packet is dropped and QueueOverflow increments.
	MaxQueue int

	// MaxPayload caps the frame body size; 0 means no limit. The encoder
	// rejects payloads whose stuffed body (bytes on the wire between
	// delimiters) would exceed it. The decoder drops frames whose body
	// exceeds it and increments SizeOverflow; for COBS it counts the
	// stuffed bytes, for SLIP the bytes after escape pairs are resolved,
	// so an escape pair counts once.
	MaxPayload int
}

var defaultOptions = Options{
	Encoding:   COBS,
	Indexing:   true,
	CRC:        true,
	MaxQueue:   0,
	MaxPayload: 0,
}

// Option configures Options; functional-options style.
type Option func(*Options)

// WithEncoding selects COBS or SLIP.
func WithEncoding(enc Encoding) Option {
	return func(o *Options) { o.Encoding = enc }
}

// WithIndexing toggles the leading topic-index byte.
func WithIndexing(on bool) Option {
	return func(o *Options) { o.Indexing = on }
}

// WithCRC toggles the trailing CRC-8 byte.
func WithCRC(on bool) Option {
	return func(o *Options) { o.CRC = on }
}

// WithMaxQueue caps the decoder's packet FIFO depth.
func WithMaxQueue(n int) Option {
	return func(o *Options) { o.MaxQueue = n }
}

// WithMaxPayload caps the stuffed body size accepted by the decoder (and
// produced by the encoder).
func WithMaxPayload(n int) Option {
	return func(o *Options) { o.MaxPayload = n }
}

func newOptions(opts ...Option) Options {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
