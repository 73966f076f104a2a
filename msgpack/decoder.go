// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrUnsupportedTag reports that the byte at the decoder's cursor is not a
// recognized MessagePack tag (the reserved 0xc1 byte, most commonly).
var ErrUnsupportedTag = errors.New("msgpack: unsupported tag")

// Logger receives diagnostics for type mismatches and other non-fatal
// decode anomalies: a mismatch produces a diagnostic but still advances
// the cursor. A nil Logger means no diagnostics are emitted, which is the
// zero-value default.
type Logger interface {
	Printf(format string, args ...any)
}

// Decoder indexes a received byte buffer by top-level element and answers
// typed queries against a cursor that walks the element index in order.
//
// Decoder is a value type: copying it clones neither the buffer nor index
// automatically (Go slice semantics alias the backing array), but Clone
// produces an independent, re-entrant copy.
type Decoder struct {
	buf      []byte
	offsets  []int // offsets[i] = start of element i
	indexEnd int   // buf[:indexEnd] has been fully indexed into offsets
	cursor   int   // index of the next element Unpack* will read

	Log Logger
}

// NewDecoder returns a Decoder with an empty buffer, ready for Feed.
func NewDecoder() *Decoder { return &Decoder{} }

// NewDecoderBytes returns a Decoder preloaded with payload and indexed up
// to the first incomplete or unsupported element; Feed's error is
// discarded. Feed never panics, so neither does this constructor.
func NewDecoderBytes(payload []byte) *Decoder {
	d := &Decoder{}
	_, _ = d.Feed(payload)
	return d
}

// Reset clears the decoder to an empty, unindexed state.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.offsets = d.offsets[:0]
	d.indexEnd = 0
	d.cursor = 0
}

// Clone returns an independent copy of d: buffer and index are copied, not
// aliased.
func (d *Decoder) Clone() *Decoder {
	c := &Decoder{
		buf:      append([]byte(nil), d.buf...),
		offsets:  append([]int(nil), d.offsets...),
		indexEnd: d.indexEnd,
		cursor:   d.cursor,
		Log:      d.Log,
	}
	return c
}

// Feed appends data and indexes as many complete top-level elements as
// possible. It returns done=true when the buffer is fully consumed by
// complete top-level elements (indexEnd == len(buf)).
func (d *Decoder) Feed(data []byte) (done bool, err error) {
	d.buf = append(d.buf, data...)
	for d.indexEnd < len(d.buf) {
		size, ok, e := elementSize(d.buf[d.indexEnd:])
		if e != nil {
			return d.indexEnd == len(d.buf), e
		}
		if !ok {
			break
		}
		d.offsets = append(d.offsets, d.indexEnd)
		d.indexEnd += size
	}
	return d.indexEnd == len(d.buf), nil
}

// Len returns the number of fully indexed top-level elements.
func (d *Decoder) Len() int { return len(d.offsets) }

// Done reports whether the cursor has consumed every indexed element.
func (d *Decoder) Done() bool { return d.cursor >= len(d.offsets) }

// Skip advances the cursor past the current element without decoding it.
func (d *Decoder) Skip() {
	if d.cursor < len(d.offsets) {
		d.cursor++
	}
}

// Kind reports the wire kind of the element at the cursor, or KindInvalid
// if the cursor is past the end of the indexed buffer.
func (d *Decoder) Kind() Kind {
	b, ok := d.peekTag()
	if !ok {
		return KindInvalid
	}
	return kindOf(b)
}

func (d *Decoder) peekTag() (byte, bool) {
	if d.cursor >= len(d.offsets) {
		return 0, false
	}
	return d.buf[d.offsets[d.cursor]], true
}

// elemBytes returns the full encoded bytes of the element at the cursor
// (header included), or nil if the cursor is out of range.
func (d *Decoder) elemBytes() []byte {
	if d.cursor >= len(d.offsets) {
		return nil
	}
	start := d.offsets[d.cursor]
	end := len(d.buf)
	if d.cursor+1 < len(d.offsets) {
		end = d.offsets[d.cursor+1]
	} else {
		end = d.indexEnd
	}
	return d.buf[start:end]
}

func kindOf(b byte) Kind {
	switch {
	case isPosFixint(b), isNegFixint(b):
		if isNegFixint(b) {
			return KindInt
		}
		return KindUint
	case isFixmap(b):
		return KindMap
	case isFixarray(b):
		return KindArray
	case isFixstr(b):
		return KindString
	}
	switch b {
	case tagNil:
		return KindNil
	case tagFalse, tagTrue:
		return KindBool
	case tagBin8, tagBin16, tagBin32:
		return KindBin
	case tagExt8, tagExt16, tagExt32, tagFixext1, tagFixext2, tagFixext4, tagFixext8, tagFixext16:
		return KindExt
	case tagFloat32, tagFloat64:
		return KindFloat
	case tagUint8, tagUint16, tagUint32, tagUint64:
		return KindUint
	case tagInt8, tagInt16, tagInt32, tagInt64:
		return KindInt
	case tagStr8, tagStr16, tagStr32:
		return KindString
	case tagArray16, tagArray32:
		return KindArray
	case tagMap16, tagMap32:
		return KindMap
	}
	return KindInvalid
}

// mismatch logs a type-check failure and advances the cursor by exactly
// one element, never more and never less.
func (d *Decoder) mismatch(want string) {
	if d.Log != nil {
		got := "eof"
		if b, ok := d.peekTag(); ok {
			got = fmt.Sprintf("tag=%#02x", b)
		}
		d.Log.Printf("msgpack: type mismatch: want %s, got %s", want, got)
	}
	d.Skip()
}

// UnpackBool decodes a bool. On a type mismatch it returns false and
// advances past the element.
func (d *Decoder) UnpackBool() bool {
	b, ok := d.peekTag()
	if !ok || (b != tagTrue && b != tagFalse) {
		d.mismatch("bool")
		return false
	}
	d.Skip()
	return b == tagTrue
}

// UnpackInt64 decodes a signed integer, widening from any integer tag.
// Signed->unsigned style widening never loses the sign: a source unsigned
// value that does not fit in int64 is a mismatch.
func (d *Decoder) UnpackInt64() int64 {
	eb := d.elemBytes()
	if len(eb) == 0 {
		d.mismatch("int")
		return 0
	}
	tag := eb[0]
	switch {
	case isPosFixint(tag):
		d.Skip()
		return int64(tag)
	case isNegFixint(tag):
		d.Skip()
		return int64(int8(tag))
	}
	switch tag {
	case tagInt8:
		d.Skip()
		return int64(int8(eb[1]))
	case tagInt16:
		d.Skip()
		return int64(int16(binary.BigEndian.Uint16(eb[1:3])))
	case tagInt32:
		d.Skip()
		return int64(int32(binary.BigEndian.Uint32(eb[1:5])))
	case tagInt64:
		d.Skip()
		return int64(binary.BigEndian.Uint64(eb[1:9]))
	case tagUint8:
		d.Skip()
		return int64(eb[1])
	case tagUint16:
		d.Skip()
		return int64(binary.BigEndian.Uint16(eb[1:3]))
	case tagUint32:
		d.Skip()
		return int64(binary.BigEndian.Uint32(eb[1:5]))
	case tagUint64:
		u := binary.BigEndian.Uint64(eb[1:9])
		if u > math.MaxInt64 {
			d.mismatch("int")
			return 0
		}
		d.Skip()
		return int64(u)
	}
	d.mismatch("int")
	return 0
}

// UnpackUint64 decodes an unsigned integer. Widening from a signed tag is
// rejected (yields 0) for negative values.
func (d *Decoder) UnpackUint64() uint64 {
	eb := d.elemBytes()
	if len(eb) == 0 {
		d.mismatch("uint")
		return 0
	}
	tag := eb[0]
	switch {
	case isPosFixint(tag):
		d.Skip()
		return uint64(tag)
	case isNegFixint(tag):
		d.mismatch("uint")
		return 0
	}
	switch tag {
	case tagUint8:
		d.Skip()
		return uint64(eb[1])
	case tagUint16:
		d.Skip()
		return uint64(binary.BigEndian.Uint16(eb[1:3]))
	case tagUint32:
		d.Skip()
		return uint64(binary.BigEndian.Uint32(eb[1:5]))
	case tagUint64:
		d.Skip()
		return binary.BigEndian.Uint64(eb[1:9])
	case tagInt8:
		v := int8(eb[1])
		if v < 0 {
			d.mismatch("uint")
			return 0
		}
		d.Skip()
		return uint64(v)
	case tagInt16:
		v := int16(binary.BigEndian.Uint16(eb[1:3]))
		if v < 0 {
			d.mismatch("uint")
			return 0
		}
		d.Skip()
		return uint64(v)
	case tagInt32:
		v := int32(binary.BigEndian.Uint32(eb[1:5]))
		if v < 0 {
			d.mismatch("uint")
			return 0
		}
		d.Skip()
		return uint64(v)
	case tagInt64:
		v := int64(binary.BigEndian.Uint64(eb[1:9]))
		if v < 0 {
			d.mismatch("uint")
			return 0
		}
		d.Skip()
		return uint64(v)
	}
	d.mismatch("uint")
	return 0
}

// UnpackFloat64 decodes a float, widening integers to float (always
// permitted).
func (d *Decoder) UnpackFloat64() float64 {
	eb := d.elemBytes()
	if len(eb) == 0 {
		d.mismatch("float")
		return 0
	}
	switch eb[0] {
	case tagFloat32:
		v := float64(math.Float32frombits(binary.BigEndian.Uint32(eb[1:5])))
		d.Skip()
		return v
	case tagFloat64:
		v := math.Float64frombits(binary.BigEndian.Uint64(eb[1:9]))
		d.Skip()
		return v
	}
	switch kindOf(eb[0]) {
	case KindInt:
		return float64(d.UnpackInt64())
	case KindUint:
		return float64(d.UnpackUint64())
	}
	d.mismatch("float")
	return 0
}

// UnpackString decodes a string. Bytes are returned as-is; UTF-8 validity
// is not enforced.
func (d *Decoder) UnpackString() string {
	eb := d.elemBytes()
	if len(eb) == 0 {
		d.mismatch("string")
		return ""
	}
	tag := eb[0]
	var s []byte
	switch {
	case isFixstr(tag):
		n := int(tag &^ tagFixstrMin)
		s = eb[1 : 1+n]
	case tag == tagStr8:
		n := int(eb[1])
		s = eb[2 : 2+n]
	case tag == tagStr16:
		n := int(binary.BigEndian.Uint16(eb[1:3]))
		s = eb[3 : 3+n]
	case tag == tagStr32:
		n := int(binary.BigEndian.Uint32(eb[1:5]))
		s = eb[5 : 5+n]
	default:
		d.mismatch("string")
		return ""
	}
	d.Skip()
	return string(s)
}

// UnpackBytes decodes a binary blob. The returned slice aliases the
// decoder's internal buffer; copy it if it must outlive the next Feed/Reset.
func (d *Decoder) UnpackBytes() []byte {
	eb := d.elemBytes()
	if len(eb) == 0 {
		d.mismatch("bytes")
		return nil
	}
	tag := eb[0]
	var p []byte
	switch tag {
	case tagBin8:
		n := int(eb[1])
		p = eb[2 : 2+n]
	case tagBin16:
		n := int(binary.BigEndian.Uint16(eb[1:3]))
		p = eb[3 : 3+n]
	case tagBin32:
		n := int(binary.BigEndian.Uint32(eb[1:5]))
		p = eb[5 : 5+n]
	default:
		d.mismatch("bytes")
		return nil
	}
	d.Skip()
	return p
}

// UnpackArrayHeader decodes an array header and returns the announced
// element count. The children themselves remain to be read by count
// subsequent Unpack* calls; a size mismatch against a fixed-size
// destination is the caller's responsibility to detect.
func (d *Decoder) UnpackArrayHeader() int {
	eb := d.elemBytes()
	if len(eb) == 0 {
		d.mismatch("array")
		return 0
	}
	tag := eb[0]
	switch {
	case isFixarray(tag):
		d.Skip()
		return int(tag &^ tagFixarrayMin)
	case tag == tagArray16:
		d.Skip()
		return int(binary.BigEndian.Uint16(eb[1:3]))
	case tag == tagArray32:
		d.Skip()
		return int(binary.BigEndian.Uint32(eb[1:5]))
	}
	d.mismatch("array")
	return 0
}

// UnpackMapHeader decodes a map header and returns the announced pair
// count.
func (d *Decoder) UnpackMapHeader() int {
	eb := d.elemBytes()
	if len(eb) == 0 {
		d.mismatch("map")
		return 0
	}
	tag := eb[0]
	switch {
	case isFixmap(tag):
		d.Skip()
		return int(tag &^ tagFixmapMin)
	case tag == tagMap16:
		d.Skip()
		return int(binary.BigEndian.Uint16(eb[1:3]))
	case tag == tagMap32:
		d.Skip()
		return int(binary.BigEndian.Uint32(eb[1:5]))
	}
	d.mismatch("map")
	return 0
}

// UnpackExt decodes an extension record, returning its type byte and data.
// The returned slice aliases the internal buffer.
func (d *Decoder) UnpackExt() (typ int8, data []byte) {
	eb := d.elemBytes()
	if len(eb) == 0 {
		d.mismatch("ext")
		return 0, nil
	}
	tag := eb[0]
	var fixedLen int
	switch tag {
	case tagFixext1:
		fixedLen = 1
	case tagFixext2:
		fixedLen = 2
	case tagFixext4:
		fixedLen = 4
	case tagFixext8:
		fixedLen = 8
	case tagFixext16:
		fixedLen = 16
	case tagExt8, tagExt16, tagExt32:
		var n, hdr int
		switch tag {
		case tagExt8:
			n, hdr = int(eb[1]), 2
		case tagExt16:
			n, hdr = int(binary.BigEndian.Uint16(eb[1:3])), 3
		case tagExt32:
			n, hdr = int(binary.BigEndian.Uint32(eb[1:5])), 5
		}
		typ = int8(eb[hdr])
		data = eb[hdr+1 : hdr+1+n]
		d.Skip()
		return typ, data
	default:
		d.mismatch("ext")
		return 0, nil
	}
	typ = int8(eb[1])
	data = eb[2 : 2+fixedLen]
	d.Skip()
	return typ, data
}

// UnpackTimestamp decodes a timestamp ext record (type -1) in its 32/64/96
// bit width.
func (d *Decoder) UnpackTimestamp() time.Time {
	typ, data := d.UnpackExt()
	if typ != extTypeTimestamp {
		if d.Log != nil {
			d.Log.Printf("msgpack: type mismatch: want timestamp, got ext type %d", typ)
		}
		return time.Time{}
	}
	switch len(data) {
	case 4:
		sec := binary.BigEndian.Uint32(data)
		return time.Unix(int64(sec), 0).UTC()
	case 8:
		v := binary.BigEndian.Uint64(data)
		nsec := v >> 34
		sec := v & (1<<34 - 1)
		return time.Unix(int64(sec), int64(nsec)).UTC()
	case 12:
		nsec := binary.BigEndian.Uint32(data[:4])
		sec := binary.BigEndian.Uint64(data[4:])
		return time.Unix(int64(sec), int64(nsec)).UTC()
	}
	if d.Log != nil {
		d.Log.Printf("msgpack: malformed timestamp ext length %d", len(data))
	}
	return time.Time{}
}

// UnpackValue decodes the element at the cursor into a generic any,
// recursing into arrays/maps. It is the dynamic counterpart to PackValue,
// useful for ad hoc inspection rather than fixed-schema extraction.
func (d *Decoder) UnpackValue() any {
	switch d.Kind() {
	case KindNil:
		d.Skip()
		return nil
	case KindBool:
		return d.UnpackBool()
	case KindInt:
		return d.UnpackInt64()
	case KindUint:
		return d.UnpackUint64()
	case KindFloat:
		return d.UnpackFloat64()
	case KindString:
		return d.UnpackString()
	case KindBin:
		return append([]byte(nil), d.UnpackBytes()...)
	case KindArray:
		n := d.UnpackArrayHeader()
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = d.UnpackValue()
		}
		return out
	case KindMap:
		n := d.UnpackMapHeader()
		out := make(map[string]any, n)
		for i := 0; i < n; i++ {
			k := d.UnpackString()
			out[k] = d.UnpackValue()
		}
		return out
	case KindExt, KindTimestamp:
		typ, data := d.UnpackExt()
		if typ == extTypeTimestamp {
			return decodeTimestampData(data)
		}
		return append([]byte(nil), data...)
	default:
		d.mismatch("value")
		return nil
	}
}

func decodeTimestampData(data []byte) time.Time {
	switch len(data) {
	case 4:
		return time.Unix(int64(binary.BigEndian.Uint32(data)), 0).UTC()
	case 8:
		v := binary.BigEndian.Uint64(data)
		return time.Unix(int64(v&(1<<34-1)), int64(v>>34)).UTC()
	case 12:
		nsec := binary.BigEndian.Uint32(data[:4])
		sec := binary.BigEndian.Uint64(data[4:])
		return time.Unix(int64(sec), int64(nsec)).UTC()
	}
	return time.Time{}
}

// elementSize reports the total byte length of the element starting at
// data[0], provided the full element is already present in data. ok=false
// means more bytes are needed before the size (or the element) can be
// determined; the caller (Feed) simply waits for the next chunk.
func elementSize(data []byte) (size int, ok bool, err error) {
	if len(data) < 1 {
		return 0, false, nil
	}
	tag := data[0]

	switch {
	case isPosFixint(tag), isNegFixint(tag):
		return 1, true, nil
	case isFixmap(tag), isFixarray(tag):
		return 1, true, nil
	case isFixstr(tag):
		n := int(tag &^ tagFixstrMin)
		return need(data, 1, n)
	}

	switch tag {
	case tagNil, tagFalse, tagTrue:
		return 1, true, nil
	case tagUnused:
		return 0, false, fmt.Errorf("%w: %#02x", ErrUnsupportedTag, tag)
	case tagUint8, tagInt8:
		return fixed(data, 2)
	case tagUint16, tagInt16:
		return fixed(data, 3)
	case tagUint32, tagInt32, tagFloat32:
		return fixed(data, 5)
	case tagUint64, tagInt64, tagFloat64:
		return fixed(data, 9)
	case tagBin8, tagStr8:
		return lenPrefixed(data, 1, 1)
	case tagBin16, tagStr16, tagArray16, tagMap16:
		hdr := 3
		if tag == tagArray16 || tag == tagMap16 {
			return fixed(data, hdr) // container header only; children indexed separately
		}
		return lenPrefixed(data, 1, 2)
	case tagBin32, tagStr32, tagArray32, tagMap32:
		if tag == tagArray32 || tag == tagMap32 {
			return fixed(data, 5)
		}
		return lenPrefixed(data, 1, 4)
	case tagExt8:
		return extSize(data, 2)
	case tagExt16:
		return extSize(data, 3)
	case tagExt32:
		return extSize(data, 5)
	case tagFixext1:
		return fixed(data, 3)
	case tagFixext2:
		return fixed(data, 4)
	case tagFixext4:
		return fixed(data, 6)
	case tagFixext8:
		return fixed(data, 10)
	case tagFixext16:
		return fixed(data, 18)
	}
	return 0, false, fmt.Errorf("%w: %#02x", ErrUnsupportedTag, tag)
}

// fixed reports whether data holds at least total bytes.
func fixed(data []byte, total int) (int, bool, error) {
	if len(data) < total {
		return 0, false, nil
	}
	return total, true, nil
}

// need reports whether data holds at least header+n bytes, for tags whose
// length is packed directly into the tag byte (fixstr).
func need(data []byte, header, n int) (int, bool, error) {
	return fixed(data, header+n)
}

// lenPrefixed computes the size of a tag carrying an explicit
// lenBytes-wide big-endian length prefix after the 1-byte tag.
func lenPrefixed(data []byte, tagLen, lenBytes int) (int, bool, error) {
	if len(data) < tagLen+lenBytes {
		return 0, false, nil
	}
	n := readUintBE(data[tagLen : tagLen+lenBytes])
	total := tagLen + lenBytes + n
	if len(data) < total {
		return 0, false, nil
	}
	return total, true, nil
}

// extSize computes the size of an ext8/16/32 element: tagAndLen covers the
// tag byte plus its length prefix; the element also carries 1 type byte
// plus the declared number of data bytes.
func extSize(data []byte, tagAndLen int) (int, bool, error) {
	if len(data) < tagAndLen {
		return 0, false, nil
	}
	n := readUintBE(data[1:tagAndLen])
	total := tagAndLen + 1 + n
	if len(data) < total {
		return 0, false, nil
	}
	return total, true, nil
}

func readUintBE(b []byte) int {
	switch len(b) {
	case 1:
		return int(b[0])
	case 2:
		return int(binary.BigEndian.Uint16(b))
	case 4:
		return int(binary.BigEndian.Uint32(b))
	}
	return 0
}
