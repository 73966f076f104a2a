// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package packetizer

import "log"

// Logger receives diagnostics from subscriber dispatch and the publisher
// scheduler. The codec and framing packages underneath stay silent and
// counter-only; the dispatch layer is the first place a diagnostic hook
// makes sense.
type Logger interface {
	Printf(format string, args ...any)
}

// StdLogger adapts the standard library's *log.Logger to Logger.
type StdLogger struct{ *log.Logger }

// NopLogger discards every diagnostic; it is the Options zero-ish default.
type NopLogger struct{}

// Printf implements Logger.
func (NopLogger) Printf(string, ...any) {}
