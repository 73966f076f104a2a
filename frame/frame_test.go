// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"
	"testing"
)

// TestCOBS_Scenario3 checks that [0x11,0x22,0x00,0x33] with no index, no
// CRC, stuffs to 03 11 22 02 33 00.
func TestCOBS_Scenario3(t *testing.T) {
	in := []byte{0x11, 0x22, 0x00, 0x33}
	got := cobsStuff(in)
	want := []byte{0x03, 0x11, 0x22, 0x02, 0x33, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("cobsStuff(%x) = %x, want %x", in, got, want)
	}
	back, err := cobsUnstuff(got[:len(got)-1])
	if err != nil {
		t.Fatalf("cobsUnstuff: %v", err)
	}
	if !bytes.Equal(back, in) {
		t.Fatalf("cobsUnstuff roundtrip = %x, want %x", back, in)
	}
}

// TestSLIP_Scenario4 checks that [0xC0,0xDB,0x00] stuffs to DB DC DB DD 00,
// wrapped as C0 DB DC DB DD 00 C0.
func TestSLIP_Scenario4(t *testing.T) {
	in := []byte{0xC0, 0xDB, 0x00}
	stuffed := slipStuff(in)
	want := []byte{0xDB, 0xDC, 0xDB, 0xDD, 0x00}
	if !bytes.Equal(stuffed, want) {
		t.Fatalf("slipStuff(%x) = %x, want %x", in, stuffed, want)
	}
	back, err := slipUnstuff(stuffed)
	if err != nil {
		t.Fatalf("slipUnstuff: %v", err)
	}
	if !bytes.Equal(back, in) {
		t.Fatalf("slipUnstuff roundtrip = %x, want %x", back, in)
	}
}

func TestEncode_COBS_NoIndexNoCRC(t *testing.T) {
	wire, err := Encode(0, []byte{0x11, 0x22, 0x00, 0x33}, WithIndexing(false), WithCRC(false))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x03, 0x11, 0x22, 0x02, 0x33, 0x00}
	if !bytes.Equal(wire, want) {
		t.Fatalf("Encode = %x, want %x", wire, want)
	}
}

func TestEncode_SLIP_Wrapped(t *testing.T) {
	wire, err := Encode(0, []byte{0xC0, 0xDB, 0x00}, WithEncoding(SLIP), WithIndexing(false), WithCRC(false))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0xC0, 0xDB, 0xDC, 0xDB, 0xDD, 0x00, 0xC0}
	if !bytes.Equal(wire, want) {
		t.Fatalf("Encode = %x, want %x", wire, want)
	}
}

func roundTrip(t *testing.T, enc Encoding, idx uint8, payload []byte, indexing, crc bool, chunk int) {
	t.Helper()
	wire, err := Encode(idx, payload, WithEncoding(enc), WithIndexing(indexing), WithCRC(crc))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	d := New(WithEncoding(enc), WithIndexing(indexing), WithCRC(crc))
	for i := 0; i < len(wire); i += chunk {
		end := i + chunk
		if end > len(wire) {
			end = len(wire)
		}
		if _, err := d.Feed(wire[i:end]); err != nil {
			t.Fatalf("Feed: %v", err)
		}
	}

	if enc == SLIP && !indexing && !crc && len(payload) == 0 {
		// The frame is 0xC0 0xC0: an empty SLIP body cannot be told apart
		// from back-to-back delimiters, so the decoder discards it.
		if _, ok := d.Next(); ok {
			t.Fatalf("unexpected packet for empty SLIP frame")
		}
		return
	}

	p, ok := d.Next()
	if !ok {
		t.Fatalf("no packet decoded; errs=%+v", d.Errors())
	}
	if indexing && p.Index != idx {
		t.Fatalf("index = %d, want %d", p.Index, idx)
	}
	if !bytes.Equal(p.Data, payload) {
		t.Fatalf("payload = %x, want %x", p.Data, payload)
	}
	if _, ok := d.Next(); ok {
		t.Fatalf("unexpected extra packet")
	}
}

func TestRoundTrip_AllCombinations(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x00},
		{0x01, 0x02, 0x03},
		bytes.Repeat([]byte{0xAA}, 500),
		{0xC0, 0xDB, 0xDC, 0xDD, 0x00, 0xFF},
	}
	for _, enc := range []Encoding{COBS, SLIP} {
		for _, indexing := range []bool{true, false} {
			for _, crc := range []bool{true, false} {
				for _, p := range payloads {
					for _, chunk := range []int{1, 3, 4096} {
						roundTrip(t, enc, 0x07, p, indexing, crc, chunk)
					}
				}
			}
		}
	}
}

func TestEncode_NoStrayDelimiters(t *testing.T) {
	payload := []byte{0x00, 0xC0, 0xDB, 0x01}
	wire, err := Encode(0, payload, WithEncoding(COBS), WithIndexing(false), WithCRC(false))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, b := range wire[:len(wire)-1] {
		if b == 0x00 {
			t.Fatalf("stray 0x00 inside COBS frame body: %x", wire)
		}
	}
}

func TestDecoder_CRCMismatchDropsSilently(t *testing.T) {
	wire, err := Encode(0, []byte{1, 2, 3}, WithIndexing(false), WithCRC(true))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	corrupt := append([]byte(nil), wire...)
	corrupt[1] ^= 0xFF // flip a payload byte, invalidating the trailing CRC

	d := New(WithIndexing(false), WithCRC(true))
	if _, err := d.Feed(corrupt); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if _, ok := d.Next(); ok {
		t.Fatalf("expected no packet on CRC mismatch")
	}
	if d.Errors().CrcMismatch != 1 {
		t.Fatalf("CrcMismatch = %d, want 1", d.Errors().CrcMismatch)
	}
}

func TestDecoder_TruncatedThenValidFrame(t *testing.T) {
	good, err := Encode(0, []byte{9, 9, 9}, WithIndexing(false), WithCRC(false))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	d := New(WithIndexing(false), WithCRC(false))
	// Feed a truncated frame (no delimiter) followed by a valid one.
	if _, err := d.Feed([]byte{0x05, 0x01, 0x02}); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if _, err := d.Feed(good); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	p, ok := d.Next()
	if !ok {
		t.Fatalf("expected exactly one packet")
	}
	if !bytes.Equal(p.Data, []byte{9, 9, 9}) {
		t.Fatalf("payload = %x, want 090909", p.Data)
	}
	if _, ok := d.Next(); ok {
		t.Fatalf("unexpected extra packet")
	}
}

func TestDecoder_SLIPBadEscape(t *testing.T) {
	d := New(WithEncoding(SLIP), WithIndexing(false), WithCRC(false))
	// 0xC0 0xDB 0x01 0xC0: the escape byte 0x01 is neither 0xDC nor 0xDD.
	if _, err := d.Feed([]byte{slipEnd, slipEsc, 0x01, slipEnd}); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if d.Errors().BadEscape != 1 {
		t.Fatalf("BadEscape = %d, want 1", d.Errors().BadEscape)
	}
	if _, ok := d.Next(); ok {
		t.Fatalf("expected no packet from malformed frame")
	}
}

func TestDecoder_MaxQueueDropsOldest(t *testing.T) {
	d := New(WithIndexing(false), WithCRC(false), WithMaxQueue(2))
	for i := byte(0); i < 3; i++ {
		wire, err := Encode(0, []byte{i}, WithIndexing(false), WithCRC(false))
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if _, err := d.Feed(wire); err != nil {
			t.Fatalf("Feed: %v", err)
		}
	}
	if d.Errors().QueueOverflow != 1 {
		t.Fatalf("QueueOverflow = %d, want 1", d.Errors().QueueOverflow)
	}
	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2", d.Len())
	}
	p0, _ := d.Next()
	if p0.Data[0] != 1 {
		t.Fatalf("oldest surviving packet = %x, want payload 1", p0.Data)
	}
}

func TestDecoder_MaxPayloadOverflow(t *testing.T) {
	d := New(WithIndexing(false), WithCRC(false), WithMaxPayload(4))
	big := bytes.Repeat([]byte{0x01}, 100)
	wire, err := Encode(0, big, WithIndexing(false), WithCRC(false))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := d.Feed(wire); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if d.Errors().SizeOverflow == 0 {
		t.Fatalf("expected SizeOverflow to be counted")
	}
	if _, ok := d.Next(); ok {
		t.Fatalf("expected no packet for oversized frame")
	}
}
