// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"net"
	"time"
)

// UDP wraps a net.PacketConn as a datagram Transport. Each ReadInto call
// yields at most one datagram; Write requires the connection to have been
// "connected" to a single peer via net.DialUDP, otherwise use WriteTo.
type UDP struct {
	pc   net.PacketConn
	peer net.Addr // non-nil only when constructed via DialUDP
}

// NewUDP wraps an already-bound net.PacketConn for receive and addressed
// send via WriteTo.
func NewUDP(pc net.PacketConn) *UDP { return &UDP{pc: pc} }

// DialUDP binds a UDP socket connected to a fixed peer, enabling Write.
// The socket is connected, so WriteTo on a UDP built this way fails.
func DialUDP(addr string) (*UDP, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	return &UDP{pc: conn, peer: raddr}, nil
}

// Kind implements Transport.
func (u *UDP) Kind() Kind { return KindUDP }

// Available reports 65535, the largest possible UDP datagram, whenever a
// datagram might be queued: the actual size is only known once ReadInto
// reads it, so callers sizing their read by Available read the whole
// datagram instead of truncating it.
func (u *UDP) Available() (int, error) { return 65535, nil }

// ReadInto reads one datagram without blocking past a short deadline.
func (u *UDP) ReadInto(buf []byte) (int, error) {
	if err := u.pc.SetReadDeadline(time.Now().Add(pollTimeout)); err != nil {
		return 0, err
	}
	n, _, err := u.pc.ReadFrom(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, ErrWouldBlock
		}
		return n, err
	}
	return n, nil
}

// Write sends to the connection's fixed peer (DialUDP only).
func (u *UDP) Write(b []byte) (int, error) {
	if u.peer == nil {
		return 0, ErrInvalidArgument
	}
	if c, ok := u.pc.(net.Conn); ok {
		// A connected socket rejects WriteTo; send through Write instead.
		n, err := c.Write(b)
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, ErrWouldBlock
		}
		return n, err
	}
	return u.writeDatagram(u.peer, b)
}

// WriteTo sends one datagram to addr.
func (u *UDP) WriteTo(addr string, b []byte) (int, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return 0, err
	}
	return u.writeDatagram(raddr, b)
}

func (u *UDP) writeDatagram(addr net.Addr, b []byte) (int, error) {
	n, err := u.pc.WriteTo(b, addr)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, ErrWouldBlock
		}
		return n, err
	}
	return n, nil
}

// Close closes the socket.
func (u *UDP) Close() error { return u.pc.Close() }
