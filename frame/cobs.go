// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

// cobsStuff encodes body using Consistent Overhead Byte Stuffing and
// appends the trailing 0x00 delimiter. The output contains no 0x00 byte
// except that final delimiter.
//
// Algorithm: the output is a sequence of chunks, each
// starting with a 1-byte "next-zero distance" (1..255) covering up to 254
// following non-zero bytes. A run of 254 non-zero bytes with no zero in
// the input emits a full 0xFF header and continues into the next chunk
// without consuming an input zero.
func cobsStuff(body []byte) []byte {
	dst := make([]byte, 0, len(body)+len(body)/254+2)
	dst = append(dst, 0) // placeholder for the first chunk's code byte
	codePos := 0
	code := byte(1)

	for _, b := range body {
		if b == 0x00 {
			dst[codePos] = code
			codePos = len(dst)
			dst = append(dst, 0) // placeholder for the next chunk's code byte
			code = 1
			continue
		}
		dst = append(dst, b)
		code++
		if code == 0xFF {
			dst[codePos] = code
			codePos = len(dst)
			dst = append(dst, 0)
			code = 1
		}
	}
	dst[codePos] = code
	dst = append(dst, 0x00)
	return dst
}

// cobsUnstuff reverses cobsStuff. body is the stuffed bytes between
// delimiters (the trailing 0x00 already stripped by the caller). It
// returns ErrMalformed if a chunk header points past the end of body.
func cobsUnstuff(body []byte) ([]byte, error) {
	dst := make([]byte, 0, len(body))
	i := 0
	for i < len(body) {
		code := int(body[i])
		if code == 0 {
			return nil, ErrMalformed
		}
		i++
		end := i + code - 1
		if end > len(body) {
			return nil, ErrMalformed
		}
		dst = append(dst, body[i:end]...)
		i = end
		if code < 0xFF && i < len(body) {
			dst = append(dst, 0x00)
		}
	}
	return dst, nil
}
