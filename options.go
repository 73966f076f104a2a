// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package packetizer

import (
	"time"

	"code.hybscloud.com/packetizer/frame"
)

// Options configures a Context's framing and scheduling behavior: a
// struct of plain fields, a package-level defaultOptions, and Option
// constructors that close over a single field each.
type Options struct {
	Encoding   frame.Encoding
	Indexing   bool
	CRC        bool
	MaxQueue   int
	MaxPayload int

	// PublishPeriod is the default period new publish entries are
	// registered with when the caller does not name one explicitly.
	PublishPeriod time.Duration

	Log Logger
}

var defaultOptions = Options{
	Encoding:      frame.COBS,
	Indexing:      true,
	CRC:           true,
	MaxQueue:      0,
	MaxPayload:    0,
	PublishPeriod: 100 * time.Millisecond,
	Log:           NopLogger{},
}

// Option configures Options.
type Option func(*Options)

// WithEncoding selects COBS or SLIP framing.
func WithEncoding(enc frame.Encoding) Option {
	return func(o *Options) { o.Encoding = enc }
}

// WithIndexing toggles the leading topic-index byte.
func WithIndexing(on bool) Option {
	return func(o *Options) { o.Indexing = on }
}

// WithCRC toggles the trailing CRC-8 byte.
func WithCRC(on bool) Option {
	return func(o *Options) { o.CRC = on }
}

// WithMaxQueue caps the decoder's packet FIFO depth.
func WithMaxQueue(n int) Option {
	return func(o *Options) { o.MaxQueue = n }
}

// WithMaxPayload caps the stuffed frame body size.
func WithMaxPayload(n int) Option {
	return func(o *Options) { o.MaxPayload = n }
}

// WithPublishPeriod sets the default period for new publish entries.
func WithPublishPeriod(d time.Duration) Option {
	return func(o *Options) { o.PublishPeriod = d }
}

// WithLogger installs a diagnostic sink for subscriber/publisher anomalies.
func WithLogger(l Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Log = l
		}
	}
}

func newOptions(opts ...Option) Options {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func (o Options) frameOptions() []frame.Option {
	return []frame.Option{
		frame.WithEncoding(o.Encoding),
		frame.WithIndexing(o.Indexing),
		frame.WithCRC(o.CRC),
		frame.WithMaxQueue(o.MaxQueue),
		frame.WithMaxPayload(o.MaxPayload),
	}
}
