// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

const (
	slipEnd     = 0xC0
	slipEsc     = 0xDB
	slipEscEnd  = 0xDC
	slipEscEsc  = 0xDD
)

// slipStuff escapes body for SLIP transmission: 0xC0 -> 0xDB 0xDC,
// 0xDB -> 0xDB 0xDD, all other bytes pass through. The caller wraps the
// result with 0xC0 on both sides.
func slipStuff(body []byte) []byte {
	dst := make([]byte, 0, len(body))
	for _, b := range body {
		switch b {
		case slipEnd:
			dst = append(dst, slipEsc, slipEscEnd)
		case slipEsc:
			dst = append(dst, slipEsc, slipEscEsc)
		default:
			dst = append(dst, b)
		}
	}
	return dst
}

// slipUnstuff reverses slipStuff. body is the escaped bytes between the
// two 0xC0 delimiters. It returns ErrBadEscape if a 0xDB is not followed
// by 0xDC or 0xDD.
func slipUnstuff(body []byte) ([]byte, error) {
	dst := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		b := body[i]
		if b != slipEsc {
			dst = append(dst, b)
			continue
		}
		i++
		if i >= len(body) {
			return nil, ErrBadEscape
		}
		switch body[i] {
		case slipEscEnd:
			dst = append(dst, slipEnd)
		case slipEscEsc:
			dst = append(dst, slipEsc)
		default:
			return nil, ErrBadEscape
		}
	}
	return dst, nil
}
