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

// ErrUsage reports a caller misuse of an aggregate helper (e.g. an odd
// argument count to PackMap) that produces no output rather than a panic:
// the encoder never aborts its host.
var ErrUsage = errors.New("msgpack: usage error")

// Encoder serializes typed values into a growable byte buffer using the
// self-describing wire format. The zero value is ready to use.
//
// Encoder is not safe for concurrent use; callers that share one across
// goroutines must serialize access externally (same stance the packetizer
// publisher scheduler takes with its scratch encoder).
type Encoder struct {
	buf  []byte
	n    int // number of top-level Pack* calls since the last Reset
	errs []error
}

// NewEncoder returns an Encoder with buf pre-allocated to size bytes.
func NewEncoder(size int) *Encoder {
	return &Encoder{buf: make([]byte, 0, size)}
}

// Reset clears the buffer and element counter, retaining the underlying
// array so repeated use (e.g. one Encoder reused per publisher emit) incurs
// no further allocation.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
	e.n = 0
	e.errs = e.errs[:0]
}

// Bytes returns the encoded bytes accumulated so far. The slice aliases the
// Encoder's internal buffer and is only valid until the next Pack* call or
// Reset.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of top-level elements packed since the last Reset.
func (e *Encoder) Len() int { return e.n }

// Err returns the first usage error recorded, if any.
func (e *Encoder) Err() error {
	if len(e.errs) == 0 {
		return nil
	}
	return e.errs[0]
}

func (e *Encoder) fail(err error) {
	e.errs = append(e.errs, err)
}

// elem marks the start of one element; it runs exactly once per scalar
// and once per container header written (PackArray, PackMap and PackValue
// reach it through those), which is what makes Len() equal the decoder's
// element-index length when encoder output is fed straight into a
// Decoder.
func (e *Encoder) elem() { e.n++ }

func (e *Encoder) putByte(b byte) { e.buf = append(e.buf, b) }

func (e *Encoder) putUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) putUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) putUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

// PackNil packs the nil element.
func (e *Encoder) PackNil() {
	e.elem()
	e.putByte(tagNil)
}

// PackBool packs a boolean element.
func (e *Encoder) PackBool(v bool) {
	e.elem()
	if v {
		e.putByte(tagTrue)
	} else {
		e.putByte(tagFalse)
	}
}

// PackInt packs a signed integer using the minimal representation that
// fits its value: values in [-31, 127] use the one-byte fixint forms;
// otherwise the smallest of int8/int16/int32/int64 that can hold v is
// chosen.
func (e *Encoder) PackInt(v int64) {
	e.elem()
	switch {
	case v >= 0 && v <= tagPosFixintMax:
		e.putByte(byte(v))
	case v < 0 && v >= -31:
		e.putByte(byte(v))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		e.putByte(tagInt8)
		e.putByte(byte(v))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		e.putByte(tagInt16)
		e.putUint16(uint16(v))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		e.putByte(tagInt32)
		e.putUint32(uint32(v))
	default:
		e.putByte(tagInt64)
		e.putUint64(uint64(v))
	}
}

// PackUint packs an unsigned integer using the minimal representation that
// fits its value.
func (e *Encoder) PackUint(v uint64) {
	e.elem()
	switch {
	case v <= tagPosFixintMax:
		e.putByte(byte(v))
	case v <= math.MaxUint8:
		e.putByte(tagUint8)
		e.putByte(byte(v))
	case v <= math.MaxUint16:
		e.putByte(tagUint16)
		e.putUint16(uint16(v))
	case v <= math.MaxUint32:
		e.putByte(tagUint32)
		e.putUint32(uint32(v))
	default:
		e.putByte(tagUint64)
		e.putUint64(v)
	}
}

// PackFloat32 packs a 32-bit float. No downcasting to a narrower form is
// ever performed.
func (e *Encoder) PackFloat32(v float32) {
	e.elem()
	e.putByte(tagFloat32)
	e.putUint32(math.Float32bits(v))
}

// PackFloat64 packs a 64-bit float.
func (e *Encoder) PackFloat64(v float64) {
	e.elem()
	e.putByte(tagFloat64)
	e.putUint64(math.Float64bits(v))
}

// PackString packs a UTF-8 (unvalidated) string using the variant selected
// by its byte length: fixstr (<=31), str8 (<=255), str16 (<=65535),
// otherwise str32.
func (e *Encoder) PackString(s string) {
	e.elem()
	n := len(s)
	switch {
	case n <= 31:
		e.putByte(byte(tagFixstrMin | n))
	case n <= math.MaxUint8:
		e.putByte(tagStr8)
		e.putByte(byte(n))
	case n <= math.MaxUint16:
		e.putByte(tagStr16)
		e.putUint16(uint16(n))
	default:
		e.putByte(tagStr32)
		e.putUint32(uint32(n))
	}
	e.buf = append(e.buf, s...)
}

// PackBytes packs a binary blob using bin8 (<=255), bin16 (<=65535), or
// bin32.
func (e *Encoder) PackBytes(p []byte) {
	e.elem()
	n := len(p)
	switch {
	case n <= math.MaxUint8:
		e.putByte(tagBin8)
		e.putByte(byte(n))
	case n <= math.MaxUint16:
		e.putByte(tagBin16)
		e.putUint16(uint16(n))
	default:
		e.putByte(tagBin32)
		e.putUint32(uint32(n))
	}
	e.buf = append(e.buf, p...)
}

// PackArrayHeader packs an array header announcing n following children.
// Children are packed by separate, subsequent Pack* calls; this mirrors the
// object decoder's element-size table, which counts only the header bytes
// for container tags.
func (e *Encoder) PackArrayHeader(n int) {
	e.elem()
	e.packContainerHeader(n, tagFixarrayMin, 0x0f, tagArray16, tagArray32)
}

// PackMapHeader packs a map header announcing n key/value pairs.
func (e *Encoder) PackMapHeader(n int) {
	e.elem()
	e.packContainerHeader(n, tagFixmapMin, 0x0f, tagMap16, tagMap32)
}

func (e *Encoder) packContainerHeader(n int, fixMin byte, fixMask int, tag16, tag32 byte) {
	switch {
	case n <= fixMask:
		e.putByte(fixMin | byte(n))
	case n <= math.MaxUint16:
		e.putByte(tag16)
		e.putUint16(uint16(n))
	default:
		e.putByte(tag32)
		e.putUint32(uint32(n))
	}
}

// PackExt packs an extension record: typ identifies the user extension
// type, data is its payload. Uses the fixext forms for the common lengths
// (1,2,4,8,16) and ext8/16/32 otherwise.
func (e *Encoder) PackExt(typ int8, data []byte) {
	e.elem()
	n := len(data)
	switch n {
	case 1:
		e.putByte(tagFixext1)
	case 2:
		e.putByte(tagFixext2)
	case 4:
		e.putByte(tagFixext4)
	case 8:
		e.putByte(tagFixext8)
	case 16:
		e.putByte(tagFixext16)
	default:
		switch {
		case n <= math.MaxUint8:
			e.putByte(tagExt8)
			e.putByte(byte(n))
		case n <= math.MaxUint16:
			e.putByte(tagExt16)
			e.putUint16(uint16(n))
		default:
			e.putByte(tagExt32)
			e.putUint32(uint32(n))
		}
	}
	e.putByte(byte(typ))
	e.buf = append(e.buf, data...)
}

// PackTimestamp packs t as the reserved timestamp ext type (-1), choosing
// the narrowest width that fits: 32-bit when seconds fit unsigned 32 bits
// and there is no sub-second component, 64-bit when seconds fit 34 bits,
// otherwise 96-bit.
func (e *Encoder) PackTimestamp(t time.Time) {
	sec := t.Unix()
	nsec := uint32(t.Nanosecond())

	// PackExt below calls elem() itself, so PackTimestamp must not double-count.
	switch {
	case nsec == 0 && sec >= 0 && sec <= math.MaxUint32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(sec))
		e.PackExt(extTypeTimestamp, b[:])
	case sec >= 0 && sec < 1<<34:
		packed := uint64(nsec)<<34 | uint64(sec)
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], packed)
		e.PackExt(extTypeTimestamp, b[:])
	default:
		var b [12]byte
		binary.BigEndian.PutUint32(b[:4], nsec)
		binary.BigEndian.PutUint64(b[4:], uint64(sec))
		e.PackExt(extTypeTimestamp, b[:])
	}
}

// PackArray emits an array header announcing len(vs), then packs each
// value in order. Custom records expose the same shape via
// MarshalMsgPack.
func (e *Encoder) PackArray(vs ...any) {
	e.PackArrayHeader(len(vs))
	for _, v := range vs {
		_ = e.PackValue(v)
	}
}

// PackMap emits a map header announcing len(kv)/2 pairs, then packs
// alternating key, value. An odd argument count is a usage error: it
// records ErrUsage via Err and emits no output at all.
func (e *Encoder) PackMap(kv ...any) {
	if len(kv)%2 != 0 {
		e.fail(fmt.Errorf("%w: PackMap called with odd argument count %d", ErrUsage, len(kv)))
		return
	}
	e.PackMapHeader(len(kv) / 2)
	for _, v := range kv {
		_ = e.PackValue(v)
	}
}

// PackValue packs v by dynamic type dispatch, supporting the common Go
// scalar types, []byte, time.Time, []any/map[string]any for ad hoc nesting,
// and any Marshaler. It returns an error for unsupported types rather than
// panicking.
func (e *Encoder) PackValue(v any) error {
	switch x := v.(type) {
	case nil:
		e.PackNil()
	case bool:
		e.PackBool(x)
	case int:
		e.PackInt(int64(x))
	case int8:
		e.PackInt(int64(x))
	case int16:
		e.PackInt(int64(x))
	case int32:
		e.PackInt(int64(x))
	case int64:
		e.PackInt(x)
	case uint:
		e.PackUint(uint64(x))
	case uint8:
		e.PackUint(uint64(x))
	case uint16:
		e.PackUint(uint64(x))
	case uint32:
		e.PackUint(uint64(x))
	case uint64:
		e.PackUint(x)
	case float32:
		e.PackFloat32(x)
	case float64:
		e.PackFloat64(x)
	case string:
		e.PackString(x)
	case []byte:
		e.PackBytes(x)
	case time.Time:
		e.PackTimestamp(x)
	case Marshaler:
		return x.MarshalMsgPack(e)
	case []any:
		e.PackArrayHeader(len(x))
		for _, it := range x {
			if err := e.PackValue(it); err != nil {
				return err
			}
		}
	case map[string]any:
		e.PackMapHeader(len(x))
		for k, mv := range x {
			e.PackString(k)
			if err := e.PackValue(mv); err != nil {
				return err
			}
		}
	default:
		err := fmt.Errorf("msgpack: unsupported type %T", v)
		e.fail(err)
		return err
	}
	return nil
}
