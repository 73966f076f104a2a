// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import "testing"

// FuzzObjectRoundTrip checks that for any int64 v, UnpackInt64 of
// PackInt(v) reproduces v exactly and consumes the single element.
func FuzzObjectRoundTrip(f *testing.F) {
	f.Add(int64(0))
	f.Add(int64(-32))
	f.Add(int64(127))
	f.Add(int64(1 << 40))
	f.Add(int64(-1 << 40))

	f.Fuzz(func(t *testing.T, v int64) {
		e := NewEncoder(0)
		e.PackInt(v)
		d := NewDecoderBytes(e.Bytes())
		if got := d.UnpackInt64(); got != v {
			t.Fatalf("round-trip PackInt(%d) = %d", v, got)
		}
		if !d.Done() {
			t.Fatalf("decoder left %d unconsumed elements", d.Len()-1)
		}
	})
}

// FuzzStringRoundTrip checks that strings of arbitrary byte length survive
// the variant-selection boundary (fixstr/str8/str16) unchanged.
func FuzzStringRoundTrip(f *testing.F) {
	f.Add("")
	f.Add("x")
	f.Add(string(make([]byte, 31)))
	f.Add(string(make([]byte, 256)))

	f.Fuzz(func(t *testing.T, s string) {
		e := NewEncoder(0)
		e.PackString(s)
		d := NewDecoderBytes(e.Bytes())
		if got := d.UnpackString(); got != s {
			t.Fatalf("round-trip PackString(len=%d) mismatch", len(s))
		}
	})
}
