// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package packetizer

import (
	"fmt"
	"reflect"
	"time"

	"code.hybscloud.com/packetizer/msgpack"
)

// Subscribers holds one callback set for a Context: an indexed table keyed
// by topic index, an always callback that fires before any indexed lookup,
// and a no-index callback for topics with no indexed subscriber.
//
// Not thread-safe: callers sharing one across goroutines must serialize
// access externally.
type Subscribers struct {
	indexed map[uint8]func([]byte)
	always  func(uint8, []byte)
	noIndex func([]byte)
	log     Logger
}

// NewSubscribers returns an empty Subscribers set.
func NewSubscribers(log Logger) *Subscribers {
	if log == nil {
		log = NopLogger{}
	}
	return &Subscribers{indexed: make(map[uint8]func([]byte)), log: log}
}

// Subscribe registers fn for the given topic index, replacing any existing
// registration for that index.
func (s *Subscribers) Subscribe(idx uint8, fn func([]byte)) {
	s.indexed[idx] = fn
}

// Unsubscribe removes the indexed callback for idx, if any.
func (s *Subscribers) Unsubscribe(idx uint8) {
	delete(s.indexed, idx)
}

// SubscribeAlways registers fn to run for every dispatched packet, before
// any indexed or no-index callback. Ordering is fixed.
func (s *Subscribers) SubscribeAlways(fn func(uint8, []byte)) {
	s.always = fn
}

// SubscribeNoIndex registers fn to run only when no indexed callback
// matches the dispatched packet's index.
func (s *Subscribers) SubscribeNoIndex(fn func([]byte)) {
	s.noIndex = fn
}

// Dispatch runs the always callback (if any), then the indexed callback for
// idx if one is registered, else the no-index callback (if any).
func (s *Subscribers) Dispatch(idx uint8, payload []byte) {
	if s.always != nil {
		s.always(idx, payload)
	}
	if fn, ok := s.indexed[idx]; ok {
		fn(payload)
		return
	}
	if s.noIndex != nil {
		s.noIndex(payload)
	}
}

// decodeStep extracts one typed value from d and returns it ready to pass
// to reflect.Value.Call.
type decodeStep func(d *msgpack.Decoder) reflect.Value

// SubscribeTyped registers a typed callback for idx. fn must be a function
// whose parameters are among bool, the signed/unsigned integer kinds,
// float32/float64, string, []byte, or time.Time — one Unpack method per
// concrete Go type. The decode plan (which Unpack* method serves each
// parameter) is built once here, at registration time, via reflection;
// each dispatch runs that plan and then calls fn through reflect.Value.Call.
func (s *Subscribers) SubscribeTyped(idx uint8, fn any) error {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return fmt.Errorf("%w: SubscribeTyped requires a function, got %T", ErrUsage, fn)
	}

	steps := make([]decodeStep, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		step, err := decodeStepFor(t.In(i))
		if err != nil {
			return fmt.Errorf("packetizer: SubscribeTyped arg %d: %w", i, err)
		}
		steps[i] = step
	}

	s.indexed[idx] = func(payload []byte) {
		d := msgpack.NewDecoderBytes(payload)
		d.Log = s.log
		args := make([]reflect.Value, len(steps))
		for i, step := range steps {
			args[i] = step(d)
		}
		v.Call(args)
	}
	return nil
}

func decodeStepFor(t reflect.Type) (decodeStep, error) {
	switch t {
	case reflect.TypeOf(time.Time{}):
		return func(d *msgpack.Decoder) reflect.Value {
			return reflect.ValueOf(d.UnpackTimestamp())
		}, nil
	case reflect.TypeOf([]byte(nil)):
		return func(d *msgpack.Decoder) reflect.Value {
			return reflect.ValueOf(append([]byte(nil), d.UnpackBytes()...))
		}, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return func(d *msgpack.Decoder) reflect.Value {
			return reflect.ValueOf(d.UnpackBool())
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(d *msgpack.Decoder) reflect.Value {
			return reflect.ValueOf(d.UnpackInt64()).Convert(t)
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(d *msgpack.Decoder) reflect.Value {
			return reflect.ValueOf(d.UnpackUint64()).Convert(t)
		}, nil
	case reflect.Float32, reflect.Float64:
		return func(d *msgpack.Decoder) reflect.Value {
			return reflect.ValueOf(d.UnpackFloat64()).Convert(t)
		}, nil
	case reflect.String:
		return func(d *msgpack.Decoder) reflect.Value {
			return reflect.ValueOf(d.UnpackString())
		}, nil
	}
	return nil, fmt.Errorf("unsupported parameter type %s", t)
}
