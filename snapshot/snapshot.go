// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snapshot

import (
	"encoding/binary"

	"code.hybscloud.com/packetizer/msgpack"
	"github.com/cespare/xxhash/v2"
)

// Entry layout: [4-byte big-endian length][8-byte xxhash64 of payload]
// [length bytes of msgpack-encoded payload]. The xxhash tag is a
// belt-and-suspenders check: an exact length match alone catches
// truncation but not a bit flip that happens to land inside the
// declared length.
const headerSize = 4 + 8

// Save encodes v with a fresh msgpack.Encoder and writes the length-
// prefixed, hash-tagged entry to s at offset. It returns the offset one
// past the end of the written entry, so callers can chain Save calls to
// lay out several entries back to back.
func Save(s Store, offset int64, v any) (int64, error) {
	enc := msgpack.NewEncoder(64)
	if err := enc.PackValue(v); err != nil {
		return offset, err
	}
	payload := enc.Bytes()

	var hdr [headerSize]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(payload)))
	binary.BigEndian.PutUint64(hdr[4:], xxhash.Sum64(payload))

	if _, err := s.WriteAt(hdr[:], offset); err != nil {
		return offset, err
	}
	if _, err := s.WriteAt(payload, offset+headerSize); err != nil {
		return offset, err
	}
	return offset + headerSize + int64(len(payload)), nil
}

// Load reads the entry at offset, verifies its length and integrity tag,
// and decodes it into a *msgpack.Decoder positioned at the single
// top-level value, handed to fn for typed extraction (mirroring the
// packetizer subscriber's "one Unpack call per concrete type" idiom rather
// than returning an untyped any). After fn returns, Load also requires the
// decoder to have consumed every indexed element in the payload
// (d.Done()); an fn that leaves elements unread is reported as
// ErrLengthMismatch. An fn that reads past the last element is not
// detected: those extra Unpack calls return zero values.
// It returns the offset one past the end of the entry.
func Load(s Store, offset int64, fn func(d *msgpack.Decoder)) (int64, error) {
	var hdr [headerSize]byte
	if _, err := s.ReadAt(hdr[:], offset); err != nil {
		return offset, err
	}
	length := binary.BigEndian.Uint32(hdr[:4])
	wantHash := binary.BigEndian.Uint64(hdr[4:])

	payload := make([]byte, length)
	n, err := s.ReadAt(payload, offset+headerSize)
	if err != nil {
		return offset, err
	}
	if n != int(length) {
		return offset, ErrLengthMismatch
	}
	if xxhash.Sum64(payload) != wantHash {
		return offset, ErrCorrupt
	}

	d := msgpack.NewDecoderBytes(payload)
	fn(d)
	if !d.Done() {
		return offset, ErrLengthMismatch
	}
	return offset + headerSize + int64(length), nil
}
