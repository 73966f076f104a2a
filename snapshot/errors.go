// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snapshot

import "errors"

var (
	errOutOfRange = errors.New("snapshot: offset out of range")
	errShortRead  = errors.New("snapshot: short read")

	// ErrCorrupt is returned by Load when the stored xxhash integrity tag
	// does not match the recomputed hash of the payload — detected before
	// a bad msgpack.Decoder.Feed is even attempted.
	ErrCorrupt = errors.New("snapshot: corrupt entry (integrity tag mismatch)")

	// ErrLengthMismatch is returned by Load when fewer bytes were read
	// back than the stored header declared, or when the decode callback
	// left elements of the payload unread.
	ErrLengthMismatch = errors.New("snapshot: length mismatch")
)
