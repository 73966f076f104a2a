// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package packetizer

import (
	"time"

	"code.hybscloud.com/packetizer/frame"
	"code.hybscloud.com/packetizer/transport"
)

// Context is the single-threaded, cooperative driver tying together one
// Subscribers set, one Publisher, and any number of transport inputs. It
// is an explicit context object rather than implicit package-level state,
// bundling a unit of I/O policy the way an io.Reader/io.Writer pair plus
// its Options would.
//
// A package-level default Context (see Default) covers the common
// single-link case without requiring every caller to construct one.
type Context struct {
	opts Options
	subs *Subscribers
	pub  *Publisher

	ins []*input
}

type input struct {
	tr  transport.Transport
	dec *frame.Decoder
	buf []byte
}

// NewContext returns a Context configured by opts, with empty Subscribers
// and Publisher.
func NewContext(opts ...Option) *Context {
	o := newOptions(opts...)
	return &Context{
		opts: o,
		subs: NewSubscribers(o.Log),
		pub:  NewPublisher(opts...),
	}
}

// Subscribers returns the Context's subscriber registry.
func (c *Context) Subscribers() *Subscribers { return c.subs }

// Publisher returns the Context's publish scheduler.
func (c *Context) Publisher() *Publisher { return c.pub }

// AddInput registers tr as a source of inbound frames, with its own
// decoder and read buffer, polled on every Update.
func (c *Context) AddInput(tr transport.Transport) {
	c.ins = append(c.ins, &input{
		tr:  tr,
		dec: frame.New(c.opts.frameOptions()...),
		buf: make([]byte, 4096),
	})
}

// Update drives one round of polling every registered input (decoding and
// dispatching any complete frames) and running the publisher's Post sweep.
// Never blocks: a transport reporting iox.ErrWouldBlock simply yields no
// bytes for that input this round.
func (c *Context) Update(now time.Time) error {
	if err := c.pollInputs(); err != nil {
		return err
	}
	c.pub.Post(now)
	return nil
}

var defaultContext = NewContext()

// Default returns the package-level Context, the same instance on every
// call.
func Default() *Context { return defaultContext }
