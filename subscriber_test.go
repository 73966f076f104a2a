// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package packetizer

import (
	"testing"

	"code.hybscloud.com/packetizer/msgpack"
)

func TestSubscribers_AlwaysFiresBeforeIndexed(t *testing.T) {
	var order []string
	s := NewSubscribers(nil)
	s.SubscribeAlways(func(idx uint8, payload []byte) { order = append(order, "always") })
	s.Subscribe(7, func(payload []byte) { order = append(order, "indexed") })

	s.Dispatch(7, nil)

	if len(order) != 2 || order[0] != "always" || order[1] != "indexed" {
		t.Fatalf("order = %v, want [always indexed]", order)
	}
}

func TestSubscribers_NoIndexFallback(t *testing.T) {
	var got []byte
	s := NewSubscribers(nil)
	s.SubscribeNoIndex(func(payload []byte) { got = payload })

	s.Dispatch(9, []byte("fallback"))

	if string(got) != "fallback" {
		t.Fatalf("got = %q, want fallback", got)
	}
}

func TestSubscribers_IndexedTakesPriorityOverNoIndex(t *testing.T) {
	var which string
	s := NewSubscribers(nil)
	s.Subscribe(1, func(payload []byte) { which = "indexed" })
	s.SubscribeNoIndex(func(payload []byte) { which = "noIndex" })

	s.Dispatch(1, nil)

	if which != "indexed" {
		t.Fatalf("which = %q, want indexed", which)
	}
}

func TestSubscribeTyped_DecodesPositionalArgs(t *testing.T) {
	enc := msgpack.NewEncoder(32)
	enc.PackString("topic-a")
	enc.PackInt(42)
	enc.PackFloat64(3.25)

	var gotName string
	var gotN int64
	var gotV float64

	s := NewSubscribers(nil)
	if err := s.SubscribeTyped(3, func(name string, n int64, v float64) {
		gotName, gotN, gotV = name, n, v
	}); err != nil {
		t.Fatalf("SubscribeTyped: %v", err)
	}

	s.Dispatch(3, enc.Bytes())

	if gotName != "topic-a" || gotN != 42 || gotV != 3.25 {
		t.Fatalf("got (%q, %d, %v), want (topic-a, 42, 3.25)", gotName, gotN, gotV)
	}
}

func TestSubscribeTyped_RejectsNonFunc(t *testing.T) {
	s := NewSubscribers(nil)
	if err := s.SubscribeTyped(0, 5); err == nil {
		t.Fatalf("expected error for non-func argument")
	}
}

func TestSubscribeTyped_UnsupportedParamType(t *testing.T) {
	s := NewSubscribers(nil)
	type custom struct{}
	if err := s.SubscribeTyped(0, func(custom) {}); err == nil {
		t.Fatalf("expected error for unsupported parameter type")
	}
}

func TestSubscribeTyped_BytesAndBool(t *testing.T) {
	enc := msgpack.NewEncoder(32)
	enc.PackBytes([]byte{1, 2, 3})
	enc.PackBool(true)

	var gotB []byte
	var gotOk bool
	s := NewSubscribers(nil)
	if err := s.SubscribeTyped(0, func(b []byte, ok bool) { gotB, gotOk = b, ok }); err != nil {
		t.Fatalf("SubscribeTyped: %v", err)
	}
	s.Dispatch(0, enc.Bytes())

	if string(gotB) != "\x01\x02\x03" || !gotOk {
		t.Fatalf("got (%v, %v), want ([1 2 3], true)", gotB, gotOk)
	}
}
