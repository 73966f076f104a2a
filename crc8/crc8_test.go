// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package crc8

import "testing"

func TestChecksum_ReferenceVector(t *testing.T) {
	got := Checksum([]byte("123456789"))
	if got != 0xF4 {
		t.Fatalf("Checksum(\"123456789\") = %#02x, want 0xf4", got)
	}
}

func TestChecksum_Empty(t *testing.T) {
	if got := Checksum(nil); got != 0x00 {
		t.Fatalf("Checksum(nil) = %#02x, want 0x00", got)
	}
}

func TestDigest_MatchesChecksum(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	want := Checksum(data)

	var d Digest
	_, _ = d.Write(data[:10])
	_, _ = d.Write(data[10:])
	if got := d.Sum8(); got != want {
		t.Fatalf("Digest.Sum8() = %#02x, want %#02x", got, want)
	}
}

func TestDigest_Reset(t *testing.T) {
	d := New()
	_, _ = d.Write([]byte{0x01, 0x02, 0x03})
	d.Reset()
	if d.Sum8() != 0 {
		t.Fatalf("Sum8() after Reset = %#02x, want 0", d.Sum8())
	}
}
