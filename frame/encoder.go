// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"io"
	"runtime"
	"time"

	"code.hybscloud.com/packetizer/crc8"
)

// Encode wraps payload with the optional index and CRC trailer, applies
// the configured byte stuffing, and returns the wire-ready frame bytes.
//
// Algorithm:
//  1. collect [index?] || payload || [crc8(payload)?]
//  2. apply COBS or SLIP stuffing to the collected bytes
//  3. emit [start-marker?] || body || end-marker (SLIP is double-ended;
//     COBS emits only a trailing 0x00)
func Encode(idx uint8, payload []byte, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	return encode(idx, payload, o)
}

func encode(idx uint8, payload []byte, o Options) ([]byte, error) {
	body := make([]byte, 0, len(payload)+2)
	if o.Indexing {
		body = append(body, idx)
	}
	body = append(body, payload...)
	if o.CRC {
		body = append(body, crc8.Checksum(payload))
	}

	switch o.Encoding {
	case SLIP:
		stuffed := slipStuff(body)
		if o.MaxPayload > 0 && len(stuffed) > o.MaxPayload {
			return nil, ErrTooLong
		}
		out := make([]byte, 0, len(stuffed)+2)
		out = append(out, slipEnd)
		out = append(out, stuffed...)
		out = append(out, slipEnd)
		return out, nil
	default: // COBS
		out := cobsStuff(body)
		// out includes the trailing 0x00; MaxPayload bounds the stuffed
		// body excluding that delimiter.
		if o.MaxPayload > 0 && len(out)-1 > o.MaxPayload {
			return nil, ErrTooLong
		}
		return out, nil
	}
}

// Writer writes one framed message per Write call to an underlying
// io.Writer: one call always means one message.
type Writer struct {
	w    io.Writer
	opts Options

	// RetryDelay controls what WriteIndexed does when w returns
	// ErrWouldBlock or ErrMore: a negative value returns that error with
	// the bytes written so far, zero yields the processor and retries, and
	// a positive value sleeps that long and retries. The wire framing here
	// is produced eagerly (not resumable mid-header), so the remaining
	// bytes of the same frame are what gets retried.
	RetryDelay time.Duration
}

// NewWriter returns a Writer that frames each payload passed to Write and
// writes it to w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	return &Writer{w: w, opts: newOptions(opts...)}
}

// Write encodes payload as one frame (using idx=0; see WriteIndexed for a
// per-call topic index) and writes it to the underlying writer, honoring
// io.Writer's short-write contract.
func (w *Writer) Write(payload []byte) (int, error) {
	return w.WriteIndexed(0, payload)
}

// WriteIndexed encodes payload under topic index idx and writes the
// framed bytes to the underlying writer.
func (w *Writer) WriteIndexed(idx uint8, payload []byte) (int, error) {
	if w.w == nil {
		return 0, ErrInvalidArgument
	}
	wire, err := encode(idx, payload, w.opts)
	if err != nil {
		return 0, err
	}
	off := 0
	for off < len(wire) {
		n, err := w.w.Write(wire[off:])
		off += n
		if err != nil {
			if err == ErrWouldBlock || err == ErrMore {
				if !w.waitOnceOnWouldBlock() {
					return off, err
				}
				continue
			}
			return off, err
		}
		if n == 0 {
			return off, io.ErrShortWrite
		}
	}
	return len(payload), nil
}

func (w *Writer) waitOnceOnWouldBlock() bool {
	if w.RetryDelay < 0 {
		return false
	}
	if w.RetryDelay == 0 {
		runtime.Gosched()
		return true
	}
	time.Sleep(w.RetryDelay)
	return true
}
