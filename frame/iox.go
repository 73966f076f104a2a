// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import "code.hybscloud.com/iox"

// These are re-exported package-level aliases so callers can reference
// the semantic control-flow errors without importing iox directly.
var (
	// ErrWouldBlock means "no further progress without waiting": an
	// expected, non-failure control-flow signal from a non-blocking
	// transport. Any returned byte count still represents real progress.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrMore means "this completion is usable and more completions will
	// follow" — not io.EOF, not "try later".
	ErrMore = iox.ErrMore
)
