// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"net"
	"time"
)

// TCP wraps a net.Conn as a stream Transport, translating net.Error's
// Timeout() into ErrWouldBlock so callers see the same non-blocking
// contract as every other Transport.
type TCP struct {
	conn net.Conn
}

// NewTCP wraps an already-dialed or accepted net.Conn.
func NewTCP(conn net.Conn) *TCP { return &TCP{conn: conn} }

// DialTCP dials addr and wraps the resulting connection.
func DialTCP(addr string) (*TCP, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return NewTCP(conn), nil
}

// Kind implements Transport.
func (t *TCP) Kind() Kind { return KindTCP }

// Available always reports 1 when the connection might have data: TCP has
// no byte-count-without-blocking query through net.Conn, so, like the
// serial generic fallback, Available here just signals "try ReadInto".
func (t *TCP) Available() (int, error) { return 1, nil }

// ReadInto reads without blocking past a short deadline.
func (t *TCP) ReadInto(buf []byte) (int, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(pollTimeout)); err != nil {
		return 0, err
	}
	n, err := t.conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, ErrWouldBlock
		}
		return n, err
	}
	return n, nil
}

// Write writes to the connection.
func (t *TCP) Write(b []byte) (int, error) {
	n, err := t.conn.Write(b)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, ErrWouldBlock
		}
		return n, err
	}
	return n, nil
}

// WriteTo always fails: a TCP connection has one fixed peer.
func (t *TCP) WriteTo(string, []byte) (int, error) {
	return 0, ErrNotDatagram
}

// Close closes the connection.
func (t *TCP) Close() error { return t.conn.Close() }
