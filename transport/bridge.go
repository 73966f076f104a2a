// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

// Bridge relays raw bytes from one Transport to another unchanged, for
// gatewaying one physical link to another (e.g. a serial device exposed
// over a TCP listener) without decoding the frames passing through it —
// packetizer frames are self-delimiting, so a byte-transparent relay
// never needs to understand their contents.
//
// Bridge keeps the same non-blocking, resumable, one-call-makes-progress
// contract a length-prefixed relay would use, but relays whatever raw
// bytes are currently available rather than one message at a time, since
// byte-stuffed frames carry their own delimiters and need no re-framing
// in transit.
type Bridge struct {
	src, dst Transport
	buf      []byte

	// pending holds bytes read from src but not yet fully written to dst,
	// across ErrWouldBlock boundaries: partial progress survives a retry.
	pending []byte
}

// NewBridge constructs a Bridge relaying bytes from src to dst. bufSize
// bounds the largest single relay chunk; 4096 is used if bufSize <= 0.
func NewBridge(dst, src Transport, bufSize int) *Bridge {
	if bufSize <= 0 {
		bufSize = 4096
	}
	return &Bridge{src: src, dst: dst, buf: make([]byte, bufSize)}
}

// RelayOnce relays at most one chunk of bytes from src to dst. It returns
// the number of bytes successfully written to dst in this call and dst's
// ErrWouldBlock/ErrMore if dst accepted only part of the chunk
// (ErrWouldBlock/ErrMore from src is not returned); the caller must call
// RelayOnce again to keep draining a pending chunk before any new bytes
// are read from src.
func (b *Bridge) RelayOnce() (int, error) {
	if len(b.pending) == 0 {
		n, err := b.src.Available()
		if err != nil {
			if err == ErrWouldBlock {
				return 0, nil
			}
			return 0, err
		}
		if n <= 0 {
			return 0, nil
		}
		if n > len(b.buf) {
			n = len(b.buf)
		}
		rn, rerr := b.src.ReadInto(b.buf[:n])
		if rn > 0 {
			b.pending = append(b.pending[:0], b.buf[:rn]...)
		}
		if rerr != nil && rerr != ErrWouldBlock && rerr != ErrMore {
			return 0, rerr
		}
		if len(b.pending) == 0 {
			return 0, nil
		}
	}

	wn, werr := b.dst.Write(b.pending)
	b.pending = b.pending[wn:]
	if werr != nil {
		return wn, werr
	}
	return wn, nil
}
