// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"time"

	"go.bug.st/serial"
)

// pollTimeout bounds how long a serial Read blocks before the underlying
// library gives up and returns (0, nil); Serial.ReadInto turns that into
// ErrWouldBlock so callers see the same non-blocking contract every other
// Transport does.
const pollTimeout = 5 * time.Millisecond

// Serial wraps a go.bug.st/serial port as a Transport — the same serial
// library the facebook/time PTP stack and the huskki CAN/serial bridge use
// in the example pool.
type Serial struct {
	port serial.Port
}

// OpenSerial opens portName with mode and wraps it as a Transport. mode
// follows go.bug.st/serial conventions (baud rate, data bits, parity, stop
// bits); a nil mode defaults to 115200 8N1.
func OpenSerial(portName string, mode *serial.Mode) (*Serial, error) {
	if mode == nil {
		mode = &serial.Mode{BaudRate: 115200, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit}
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(pollTimeout); err != nil {
		_ = port.Close()
		return nil, err
	}
	return &Serial{port: port}, nil
}

// Kind implements Transport.
func (s *Serial) Kind() Kind { return KindSerial }

// Available reports bytes queued in the OS input buffer without blocking,
// via the platform ioctl helper where one exists; otherwise it reports an
// optimistic 1 without reading anything.
func (s *Serial) Available() (int, error) {
	return serialAvailable(s.port)
}

// ReadInto reads without blocking past pollTimeout: a timeout with no
// bytes is reported as ErrWouldBlock rather than (0, nil).
func (s *Serial) ReadInto(buf []byte) (int, error) {
	n, err := s.port.Read(buf)
	if n == 0 && err == nil {
		return 0, ErrWouldBlock
	}
	return n, err
}

// Write writes to the serial port.
func (s *Serial) Write(b []byte) (int, error) {
	return s.port.Write(b)
}

// WriteTo always fails: a serial link has no peer addressing.
func (s *Serial) WriteTo(string, []byte) (int, error) {
	return 0, ErrNotDatagram
}

// Close closes the underlying port.
func (s *Serial) Close() error {
	return s.port.Close()
}
