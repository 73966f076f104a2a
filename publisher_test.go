// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package packetizer

import (
	"testing"
	"time"

	"code.hybscloud.com/packetizer/frame"
	"code.hybscloud.com/packetizer/msgpack"
	"code.hybscloud.com/packetizer/transport"
)

func readOneFrame(t *testing.T, tr *transport.Mem) frame.Packet {
	t.Helper()
	dec := frame.New()
	buf := make([]byte, 256)
	for i := 0; i < 10; i++ {
		n, err := tr.ReadInto(buf)
		if n > 0 {
			if _, ferr := dec.Feed(buf[:n]); ferr != nil {
				t.Fatalf("Feed: %v", ferr)
			}
		}
		if p, ok := dec.Next(); ok {
			return p
		}
		if err != nil && err != transport.ErrWouldBlock {
			t.Fatalf("ReadInto: %v", err)
		}
	}
	t.Fatalf("no frame produced")
	return frame.Packet{}
}

func TestPublisher_ConstEmitsOnElapsedPeriod(t *testing.T) {
	a, b := transport.NewMemPipe(256)

	pub := NewPublisher()
	dest := Destination{Transport: transport.KindMem, Index: 5}
	pub.PublishConst(b, dest, 10*time.Millisecond, int64(99))

	now := time.Now()
	pub.Post(now)

	p := readOneFrame(t, a)
	if p.Index != 5 {
		t.Fatalf("index = %d, want 5", p.Index)
	}
}

func TestPublisher_SkipsBeforePeriodElapses(t *testing.T) {
	a, b := transport.NewMemPipe(256)

	pub := NewPublisher()
	dest := Destination{Transport: transport.KindMem, Index: 1}
	pub.PublishConst(b, dest, time.Hour, "const")

	now := time.Now()
	pub.Post(now)
	_ = readOneFrame(t, a)

	pub.Post(now.Add(time.Millisecond)) // well within the 1h period
	buf := make([]byte, 16)
	n, err := a.ReadInto(buf)
	if n != 0 || err != transport.ErrWouldBlock {
		t.Fatalf("unexpected second emission: n=%d err=%v", n, err)
	}
}

func TestPublisher_ValueReadsLivePointer(t *testing.T) {
	a, b := transport.NewMemPipe(256)

	var counter int32 = 1
	pub := NewPublisher()
	dest := Destination{Transport: transport.KindMem, Index: 2}
	if err := pub.PublishValue(b, dest, time.Millisecond, &counter); err != nil {
		t.Fatalf("PublishValue: %v", err)
	}

	pub.Post(time.Now())
	_ = readOneFrame(t, a)

	counter = 42
	pub.Post(time.Now().Add(time.Second))
	p := readOneFrame(t, a)

	dec := msgpack.NewDecoderBytes(p.Data)
	if got := dec.UnpackInt64(); got != 42 {
		t.Fatalf("second emit = %d, want 42", got)
	}
}

func TestPublisher_Map(t *testing.T) {
	a, b := transport.NewMemPipe(256)

	pub := NewPublisher()
	dest := Destination{Transport: transport.KindMem, Index: 8}
	if err := pub.PublishMap(b, dest, time.Millisecond, "x", int64(1), "y", int64(2)); err != nil {
		t.Fatalf("PublishMap: %v", err)
	}

	pub.Post(time.Now())
	p := readOneFrame(t, a)

	dec := msgpack.NewDecoderBytes(p.Data)
	n := dec.UnpackMapHeader()
	if n != 2 {
		t.Fatalf("map header = %d, want 2", n)
	}
}

func TestDestination_Less(t *testing.T) {
	a := Destination{Transport: transport.KindMem, Index: 1}
	b := Destination{Transport: transport.KindMem, Index: 2}
	if !a.Less(b) {
		t.Fatalf("expected a < b by Index")
	}
	if b.Less(a) {
		t.Fatalf("expected b not < a")
	}
}
