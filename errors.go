// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package packetizer

import "errors"

// Sentinel errors, declared with errors.New at package scope. No custom
// error types.
var (
	ErrInvalidArgument = errors.New("packetizer: invalid argument")
	ErrTooLong         = errors.New("packetizer: payload too long")
	ErrBadEscape       = errors.New("packetizer: bad byte-stuffing escape")
	ErrCRCMismatch     = errors.New("packetizer: crc mismatch")
	ErrSizeOverflow    = errors.New("packetizer: frame exceeds max payload size")
	ErrQueueOverflow   = errors.New("packetizer: packet queue overflow")
	ErrUsage           = errors.New("packetizer: usage error")
)
