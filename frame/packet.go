// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package frame implements the packetizer byte-stuffing framer: COBS and
// SLIP encoding of a payload (optionally preceded by a one-byte topic
// index and followed by an 8-bit CRC trailer), plus a streaming decoder
// state machine that reconstructs Packets from an arbitrary byte stream.
//
// The decoder is resumable and never blocks: the delimiter is a
// byte-stuffed marker instead of a length prefix. Each completed frame is
// unstuffed into a slice of its own.
package frame

// Packet is a received frame after unstuffing and verification.
//
// Data is a slice allocated for this packet; the Decoder does not reuse
// it, so it stays valid after later Feed and Next calls.
type Packet struct {
	Index uint8
	Data  []byte
}
