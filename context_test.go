// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package packetizer

import (
	"testing"
	"time"

	"code.hybscloud.com/packetizer/frame"
	"code.hybscloud.com/packetizer/transport"
)

func TestContext_UpdateDispatchesDecodedFrame(t *testing.T) {
	a, b := transport.NewMemPipe(256)

	ctx := NewContext()
	ctx.AddInput(a)

	var got []byte
	var gotIdx uint8
	ctx.Subscribers().Subscribe(6, func(payload []byte) {
		got = append([]byte(nil), payload...)
	})
	ctx.Subscribers().SubscribeAlways(func(idx uint8, payload []byte) { gotIdx = idx })

	wire, err := frame.Encode(6, []byte("payload"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := b.Write(wire); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := ctx.Update(time.Now()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if string(got) != "payload" {
		t.Fatalf("got = %q, want payload", got)
	}
	if gotIdx != 6 {
		t.Fatalf("gotIdx = %d, want 6", gotIdx)
	}
}

func TestContext_UpdateDrivesPublisher(t *testing.T) {
	a, b := transport.NewMemPipe(256)

	ctx := NewContext()
	dest := Destination{Transport: transport.KindMem, Index: 4}
	ctx.Publisher().PublishConst(b, dest, time.Millisecond, "hi")

	if err := ctx.Update(time.Now()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	buf := make([]byte, 64)
	n, err := a.ReadInto(buf)
	if err != nil {
		t.Fatalf("ReadInto: %v", err)
	}
	if n == 0 {
		t.Fatalf("expected publisher output on the wire")
	}
}

func TestDefault_ReturnsSameContext(t *testing.T) {
	if Default() != Default() {
		t.Fatalf("Default() should return the same package-level Context")
	}
}
