// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package msgpack implements the self-describing object encoding used by
// packetizer payloads. The wire shape matches the MessagePack specification:
// tagged elements, big-endian multi-byte fields, length-prefixed strings and
// binaries, header-count-prefixed arrays and maps, typed ext records, and a
// timestamp ext type.
//
// This package intentionally does not use Go generics or reflection-heavy
// dispatch on the hot path: one Pack/Unpack method exists per concrete Go
// type. Reflection lives in the packetizer package's typed subscriptions,
// not in this package.
package msgpack

// Kind classifies the element at the decoder's cursor.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNil
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBin
	KindArray
	KindMap
	KindExt
	KindTimestamp
)

// Tag byte classes.
const (
	tagPosFixintMax = 0x7f
	tagFixmapMin    = 0x80
	tagFixmapMax    = 0x8f
	tagFixarrayMin  = 0x90
	tagFixarrayMax  = 0x9f
	tagFixstrMin    = 0xa0
	tagFixstrMax    = 0xbf

	tagNil     = 0xc0
	tagUnused  = 0xc1
	tagFalse   = 0xc2
	tagTrue    = 0xc3
	tagBin8    = 0xc4
	tagBin16   = 0xc5
	tagBin32   = 0xc6
	tagExt8    = 0xc7
	tagExt16   = 0xc8
	tagExt32   = 0xc9
	tagFloat32 = 0xca
	tagFloat64 = 0xcb
	tagUint8   = 0xcc
	tagUint16  = 0xcd
	tagUint32  = 0xce
	tagUint64  = 0xcf
	tagInt8    = 0xd0
	tagInt16   = 0xd1
	tagInt32   = 0xd2
	tagInt64   = 0xd3
	tagFixext1 = 0xd4
	tagFixext2 = 0xd5
	tagFixext4 = 0xd6
	tagFixext8 = 0xd7
	tagFixext16 = 0xd8
	tagStr8    = 0xd9
	tagStr16   = 0xda
	tagStr32   = 0xdb
	tagArray16 = 0xdc
	tagArray32 = 0xdd
	tagMap16   = 0xde
	tagMap32   = 0xdf

	tagNegFixintMin = 0xe0

	// extTypeTimestamp is the MessagePack-reserved ext type for timestamps.
	extTypeTimestamp = -1
)

// isPosFixint reports whether b is a positive fixint tag (0x00-0x7f).
func isPosFixint(b byte) bool { return b <= tagPosFixintMax }

// isNegFixint reports whether b is a negative fixint tag (0xe0-0xff).
func isNegFixint(b byte) bool { return b >= tagNegFixintMin }

// isFixmap, isFixarray, isFixstr classify the low nibble-packed container
// and string tags.
func isFixmap(b byte) bool   { return b >= tagFixmapMin && b <= tagFixmapMax }
func isFixarray(b byte) bool { return b >= tagFixarrayMin && b <= tagFixarrayMax }
func isFixstr(b byte) bool   { return b >= tagFixstrMin && b <= tagFixstrMax }

// Marshaler is implemented by user types that know how to encode themselves.
// Positional records should emit PackArrayHeader(n) followed by n Pack
// calls; self-describing records should emit PackMapHeader(n) followed by
// alternating key/value Pack calls.
type Marshaler interface {
	MarshalMsgPack(enc *Encoder) error
}

// Unmarshaler is implemented by user types that know how to decode
// themselves from a Decoder positioned at their first element.
type Unmarshaler interface {
	UnmarshalMsgPack(dec *Decoder) error
}
