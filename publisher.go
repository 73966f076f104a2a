// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package packetizer

import (
	"fmt"
	"net/netip"
	"reflect"
	"time"

	"code.hybscloud.com/packetizer/frame"
	"code.hybscloud.com/packetizer/msgpack"
	"code.hybscloud.com/packetizer/transport"
)

// Destination names one publish target: a transport, an opaque per-link
// handle (e.g. a file descriptor or connection identity), a topic index,
// and — for datagram transports — a peer address. Comparable, so it can key
// a Go map directly.
type Destination struct {
	Transport transport.Kind
	Handle    uintptr
	Index     uint8
	IP        netip.Addr
	Port      uint16
}

// Less gives Destination a total lexicographic order: Transport, Handle,
// Index, IP, Port. Used only where callers need a deterministic ordering
// (e.g. tests); Publisher.Post itself preserves Go's own unspecified map
// iteration order.
func (d Destination) Less(o Destination) bool {
	if d.Transport != o.Transport {
		return d.Transport < o.Transport
	}
	if d.Handle != o.Handle {
		return d.Handle < o.Handle
	}
	if d.Index != o.Index {
		return d.Index < o.Index
	}
	if c := d.IP.Compare(o.IP); c != 0 {
		return c < 0
	}
	return d.Port < o.Port
}

// publishEntry is a tagged variant with a single encodeTo operation:
// every publish source, regardless of where its value comes from, exposes
// the one method the scheduler needs.
type publishEntry interface {
	encodeTo(e *msgpack.Encoder)
}

// constSource re-emits the same snapshot value every period.
type constSource struct{ v any }

func (c constSource) encodeTo(e *msgpack.Encoder) { _ = e.PackValue(c.v) }

// valueSource re-reads a live Go value through a pointer on every Post,
// via a getter built once (by reflection) at registration time.
type valueSource struct{ get func() any }

func (v valueSource) encodeTo(e *msgpack.Encoder) { _ = e.PackValue(v.get()) }

// getterSource calls a caller-supplied function on every Post.
type getterSource struct{ fn func() any }

func (g getterSource) encodeTo(e *msgpack.Encoder) { _ = e.PackValue(g.fn()) }

// tupleSource packs several sources into one array or map element, for
// bulk group publishing in a single packet.
type tupleSource struct {
	asMap bool
	keys  []string // len(keys) == len(vals) when asMap
	vals  []publishEntry
}

func (t tupleSource) encodeTo(e *msgpack.Encoder) {
	if t.asMap {
		e.PackMapHeader(len(t.vals))
		for i, v := range t.vals {
			e.PackString(t.keys[i])
			v.encodeTo(e)
		}
		return
	}
	e.PackArrayHeader(len(t.vals))
	for _, v := range t.vals {
		v.encodeTo(e)
	}
}

type publishSlot struct {
	dest   Destination
	period time.Duration
	last   time.Time
	src    publishEntry
	tr     transport.Transport
}

// Publisher walks registered publish entries on each Post call, re-encoding
// and re-framing any entry whose period has elapsed since its last emit.
//
// Publisher is not safe for concurrent use. Its scratch Encoder MUST NOT be
// referenced outside Post.
type Publisher struct {
	entries map[Destination]*publishSlot
	enc     *msgpack.Encoder
	opts    Options
}

// NewPublisher returns an empty Publisher configured by opts.
func NewPublisher(opts ...Option) *Publisher {
	return &Publisher{
		entries: make(map[Destination]*publishSlot),
		enc:     msgpack.NewEncoder(256),
		opts:    newOptions(opts...),
	}
}

func (p *Publisher) register(tr transport.Transport, dest Destination, period time.Duration, src publishEntry) {
	if period <= 0 {
		period = p.opts.PublishPeriod
	}
	p.entries[dest] = &publishSlot{dest: dest, period: period, src: src, tr: tr}
}

// PublishConst registers dest/idx to emit a fixed snapshot value every
// period.
func (p *Publisher) PublishConst(tr transport.Transport, dest Destination, period time.Duration, v any) {
	p.register(tr, dest, period, constSource{v: v})
}

// PublishValue registers dest/idx to re-read and re-emit *ptr on every
// elapsed period. ptr must be a non-nil pointer to a supported scalar type.
func (p *Publisher) PublishValue(tr transport.Transport, dest Destination, period time.Duration, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("%w: PublishValue requires a non-nil pointer, got %T", ErrUsage, ptr)
	}
	elem := rv.Elem()
	get := func() any { return elem.Interface() }
	p.register(tr, dest, period, valueSource{get: get})
	return nil
}

// PublishGetter registers dest/idx to call fn and emit its result on every
// elapsed period.
func (p *Publisher) PublishGetter(tr transport.Transport, dest Destination, period time.Duration, fn func() any) {
	p.register(tr, dest, period, getterSource{fn: fn})
}

// PublishArray registers dest/idx to pack sources into one array element
// per elapsed period.
func (p *Publisher) PublishArray(tr transport.Transport, dest Destination, period time.Duration, sources ...any) {
	vals := make([]publishEntry, len(sources))
	for i, s := range sources {
		vals[i] = constSource{v: s}
	}
	p.register(tr, dest, period, tupleSource{vals: vals})
}

// PublishMap registers dest/idx to pack key/value pairs into one map
// element per elapsed period. kv must alternate string keys and values.
func (p *Publisher) PublishMap(tr transport.Transport, dest Destination, period time.Duration, kv ...any) error {
	if len(kv)%2 != 0 {
		return fmt.Errorf("%w: PublishMap called with odd argument count %d", ErrUsage, len(kv))
	}
	n := len(kv) / 2
	keys := make([]string, n)
	vals := make([]publishEntry, n)
	for i := 0; i < n; i++ {
		k, ok := kv[2*i].(string)
		if !ok {
			return fmt.Errorf("%w: PublishMap key %d is %T, want string", ErrUsage, i, kv[2*i])
		}
		keys[i] = k
		vals[i] = constSource{v: kv[2*i+1]}
	}
	p.register(tr, dest, period, tupleSource{asMap: true, keys: keys, vals: vals})
	return nil
}

// Unpublish removes the entry registered for dest, if any.
func (p *Publisher) Unpublish(dest Destination) {
	delete(p.entries, dest)
}

// Post walks every registered entry, re-encoding and writing out any whose
// period has elapsed since its last successful emit. Iteration order is
// Go's own map order — unspecified.
//
// A transport returning frame.ErrWouldBlock/frame.ErrMore leaves that
// entry's last-emit time untouched so the next Post call retries it; any
// other transport error is logged and the entry is skipped this round.
func (p *Publisher) Post(now time.Time) {
	for _, slot := range p.entries {
		if now.Sub(slot.last) < slot.period {
			continue
		}
		p.enc.Reset()
		slot.src.encodeTo(p.enc)

		wire, err := frame.Encode(slot.dest.Index, p.enc.Bytes(), p.opts.frameOptions()...)
		if err != nil {
			p.opts.Log.Printf("packetizer: publisher encode dest=%+v: %v", slot.dest, err)
			continue
		}

		_, err = writeTo(slot.tr, slot.dest, wire)
		if err == frame.ErrWouldBlock || err == frame.ErrMore {
			continue
		}
		if err != nil {
			p.opts.Log.Printf("packetizer: publisher write dest=%+v: %v", slot.dest, err)
			continue
		}
		slot.last = now
	}
}

func writeTo(tr transport.Transport, dest Destination, wire []byte) (int, error) {
	if dest.IP.IsValid() {
		addr := netip.AddrPortFrom(dest.IP, dest.Port).String()
		return tr.WriteTo(addr, wire)
	}
	return tr.Write(wire)
}
