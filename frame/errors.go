// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import "errors"

var (
	// ErrInvalidArgument reports a nil reader/writer or unusable Options.
	ErrInvalidArgument = errors.New("frame: invalid argument")

	// ErrTooLong reports that a payload's encoded frame would exceed the
	// configured MaxPayload, or the hard wire-format limit.
	ErrTooLong = errors.New("frame: message too long")

	// ErrBadEscape reports a SLIP 0xDB not followed by 0xDC or 0xDD.
	ErrBadEscape = errors.New("frame: bad SLIP escape sequence")

	// ErrMalformed reports a COBS chunk header pointing past the end of
	// the stuffed body.
	ErrMalformed = errors.New("frame: malformed COBS body")
)

// ErrorCounters tallies per-Decoder non-fatal error conditions. None of
// these abort the decoder or the host; they are observable counters only.
type ErrorCounters struct {
	BadEscape    uint64 // SLIP: 0xDB not followed by a valid escape code
	CrcMismatch  uint64 // frame's trailing CRC did not match the payload
	SizeOverflow uint64 // stuffed body exceeded MaxPayload
	QueueOverflow uint64 // packet FIFO was at capacity; oldest packet dropped
	Malformed    uint64 // COBS body could not be unstuffed
}

// Total sums all counters, for a quick "did anything go wrong" check.
func (c ErrorCounters) Total() uint64 {
	return c.BadEscape + c.CrcMismatch + c.SizeOverflow + c.QueueOverflow + c.Malformed
}
