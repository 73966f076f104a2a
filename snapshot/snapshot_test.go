// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snapshot

import (
	"testing"

	"code.hybscloud.com/packetizer/msgpack"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := NewMemStore()

	end, err := Save(s, 0, "hello snapshot")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if end <= headerSize {
		t.Fatalf("end = %d, want > %d", end, headerSize)
	}

	var got string
	next, err := Load(s, 0, func(d *msgpack.Decoder) { got = d.UnpackString() })
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if next != end {
		t.Fatalf("next = %d, want %d", next, end)
	}
	if got != "hello snapshot" {
		t.Fatalf("got = %q, want %q", got, "hello snapshot")
	}
}

func TestSaveLoad_ChainedEntries(t *testing.T) {
	s := NewMemStore()

	off, err := Save(s, 0, int64(42))
	if err != nil {
		t.Fatalf("Save 1: %v", err)
	}
	off, err = Save(s, off, 3.5)
	if err != nil {
		t.Fatalf("Save 2: %v", err)
	}

	var a int64
	var b float64
	off = 0
	off, err = Load(s, off, func(d *msgpack.Decoder) { a = d.UnpackInt64() })
	if err != nil {
		t.Fatalf("Load 1: %v", err)
	}
	_, err = Load(s, off, func(d *msgpack.Decoder) { b = d.UnpackFloat64() })
	if err != nil {
		t.Fatalf("Load 2: %v", err)
	}
	if a != 42 || b != 3.5 {
		t.Fatalf("a=%v b=%v, want 42, 3.5", a, b)
	}
}

func TestLoad_CorruptEntryDetected(t *testing.T) {
	s := NewMemStore()
	if _, err := Save(s, 0, "integrity check"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw := s.Bytes()
	raw[headerSize] ^= 0xFF // flip a payload byte without touching the header

	_, err := Load(s, 0, func(d *msgpack.Decoder) {})
	if err != ErrCorrupt {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}
