// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package transport provides a minimal, non-blocking façade over the
// byte-oriented links packetizer frames move across: serial ports, TCP and
// UDP sockets, and an in-memory ring buffer for tests. It deliberately does
// not know about framing — frame.Encoder/frame.Decoder own COBS/SLIP and
// the CRC trailer; Transport only moves bytes.
package transport

import "errors"

// Kind identifies a transport's underlying medium. packetizer frames are
// already self-delimiting once COBS/SLIP has run, so Kind only needs to
// say whether Available/WriteTo should behave like a byte stream or a
// datagram channel.
type Kind uint8

const (
	// KindSerial is a byte stream over a serial port.
	KindSerial Kind = iota
	// KindTCP is a byte stream over a TCP connection.
	KindTCP
	// KindUDP is a datagram channel.
	KindUDP
	// KindMem is the in-memory ring-buffer transport used by tests.
	KindMem
)

// Datagram reports whether Kind preserves message boundaries natively
// (UDP) rather than presenting an unbounded byte stream (serial, TCP,
// the in-memory ring).
func (k Kind) Datagram() bool { return k == KindUDP }

func (k Kind) String() string {
	switch k {
	case KindSerial:
		return "serial"
	case KindTCP:
		return "tcp"
	case KindUDP:
		return "udp"
	case KindMem:
		return "mem"
	default:
		return "unknown"
	}
}

// ErrNotDatagram is returned by WriteTo on a transport that doesn't support
// addressed writes.
var ErrNotDatagram = errors.New("transport: WriteTo requires a datagram transport")

// Transport is the minimal façade packetizer's Context and Publisher drive
// inputs and outputs through. Available and ReadInto never block for long:
// ReadInto returns ErrWouldBlock when nothing arrives. Write returns
// ErrWouldBlock where the transport can tell it would block (Mem, and a
// timed-out TCP or UDP write); Serial and TCP set no write deadline, so
// their Write may block until the bytes are sent.
type Transport interface {
	// Available reports how many bytes can be read without blocking.
	// Mem and the Linux serial ioctl path report an exact count, (0, nil)
	// when nothing is queued. TCP, and serial ports without that ioctl,
	// always report 1; UDP always reports 65535, an upper bound on the
	// next datagram. For those, ReadInto is what finds out whether data
	// arrived.
	Available() (int, error)

	// ReadInto reads up to len(buf) bytes without blocking.
	ReadInto(buf []byte) (int, error)

	// Write writes b without blocking, honoring io.Writer's short-write
	// contract on non-error returns.
	Write(b []byte) (int, error)

	// WriteTo writes b to addr without blocking. Only datagram transports
	// support this; others return ErrNotDatagram.
	WriteTo(addr string, b []byte) (int, error)

	// Kind reports the transport's medium.
	Kind() Kind

	// Close releases any underlying resource.
	Close() error
}
