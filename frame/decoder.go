// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import "code.hybscloud.com/packetizer/crc8"

type decoderState uint8

const (
	stateIdle decoderState = iota
	stateInFrame
	stateEscaped // SLIP only
	stateDiscard // dropping an oversized frame until its closing delimiter
)

// Decoder is a streaming state machine, one instance per byte source. Feed
// accepts bytes in any chunking (including byte-by-byte) and produces an
// identical packet sequence regardless of chunk boundaries.
//
// Decoder is not safe for concurrent use: callers sharing one across
// goroutines must serialize access externally.
type Decoder struct {
	opts  Options
	state decoderState
	body  []byte // bytes accumulated for the in-progress frame

	queue []Packet
	errs  ErrorCounters
}

// New returns a Decoder configured by opts.
func New(opts ...Option) *Decoder {
	return &Decoder{opts: newOptions(opts...)}
}

// Reset abandons any in-progress frame and returns the Decoder to Idle.
// Queued (already-finalized) packets are left untouched.
func (d *Decoder) Reset() {
	d.state = stateIdle
	d.body = d.body[:0]
}

// Errors returns the decoder's error counters.
func (d *Decoder) Errors() ErrorCounters { return d.errs }

// Len returns the number of packets currently queued, waiting for Next.
func (d *Decoder) Len() int { return len(d.queue) }

// Next pops the oldest queued packet. ok is false if the queue is empty.
func (d *Decoder) Next() (Packet, bool) {
	if len(d.queue) == 0 {
		return Packet{}, false
	}
	p := d.queue[0]
	d.queue = d.queue[1:]
	return p, true
}

// Feed appends chunk to the decoder's input, driving the framing state
// machine byte by byte, and enqueues any frames it completes. It never
// blocks and always consumes the entire chunk.
func (d *Decoder) Feed(chunk []byte) (int, error) {
	for _, b := range chunk {
		if d.opts.Encoding == SLIP {
			d.feedSLIP(b)
		} else {
			d.feedCOBS(b)
		}
	}
	return len(chunk), nil
}

func (d *Decoder) feedCOBS(b byte) {
	if b == 0x00 {
		if len(d.body) > 0 {
			d.finalizeCOBS()
		}
		d.body = d.body[:0]
		d.state = stateIdle
		return
	}
	if d.state == stateDiscard {
		return
	}
	d.body = append(d.body, b)
	d.state = stateInFrame
	d.checkOverflow()
}

func (d *Decoder) feedSLIP(b byte) {
	if d.state == stateDiscard && b != slipEnd {
		return
	}
	switch d.state {
	case stateEscaped:
		switch b {
		case slipEscEnd:
			d.body = append(d.body, slipEnd)
			d.state = stateInFrame
		case slipEscEsc:
			d.body = append(d.body, slipEsc)
			d.state = stateInFrame
		default:
			// Protocol error: abandon frame, return to Idle.
			d.errs.BadEscape++
			d.body = d.body[:0]
			d.state = stateIdle
		}
	default:
		switch b {
		case slipEnd:
			if len(d.body) > 0 {
				// Copy: d.body is reused for the next frame, which may
				// arrive in the same Feed call.
				d.finalizeRaw(append([]byte(nil), d.body...))
			}
			// A leading 0xC0 directly before another 0xC0 collapses to a
			// single empty frame that is discarded.
			d.body = d.body[:0]
			d.state = stateIdle
		case slipEsc:
			d.state = stateEscaped
		default:
			d.body = append(d.body, b)
			d.state = stateInFrame
			d.checkOverflow()
		}
	}
}

// checkOverflow drops the in-progress frame if its body has exceeded the
// configured MaxPayload; the rest of that frame, up to its closing
// delimiter, is discarded too.
func (d *Decoder) checkOverflow() {
	if d.opts.MaxPayload > 0 && len(d.body) > d.opts.MaxPayload {
		d.errs.SizeOverflow++
		d.body = d.body[:0]
		d.state = stateDiscard
	}
}

// finalizeCOBS unstuffs the accumulated COBS body and finalizes the frame.
func (d *Decoder) finalizeCOBS() {
	raw, err := cobsUnstuff(d.body)
	if err != nil {
		d.errs.Malformed++
		return
	}
	d.finalizeRaw(raw)
}

// finalizeRaw takes the fully unstuffed body (for SLIP, already unescaped
// incrementally; for COBS, just unstuffed) and extracts index/CRC per the
// configured options, enqueuing a Packet on success.
func (d *Decoder) finalizeRaw(raw []byte) {
	var idx uint8
	payload := raw
	if d.opts.Indexing {
		// The index byte is mandatory when Indexing is on; an empty raw
		// has nowhere for it to live and is malformed, not a valid
		// zero-length payload.
		if len(raw) == 0 {
			d.errs.Malformed++
			return
		}
		idx = raw[0]
		payload = raw[1:]
	}

	if d.opts.CRC {
		if len(payload) == 0 {
			return
		}
		want := payload[len(payload)-1]
		payload = payload[:len(payload)-1]
		if crc8.Checksum(payload) != want {
			d.errs.CrcMismatch++
			return
		}
	}

	d.enqueue(Packet{Index: idx, Data: payload})
}

func (d *Decoder) enqueue(p Packet) {
	if d.opts.MaxQueue > 0 && len(d.queue) >= d.opts.MaxQueue {
		d.queue = d.queue[1:]
		d.errs.QueueOverflow++
	}
	d.queue = append(d.queue, p)
}
