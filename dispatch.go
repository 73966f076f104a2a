// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package packetizer

import "code.hybscloud.com/packetizer/frame"

// pollInputs reads whatever is currently available from each registered
// input, feeds it through that input's frame decoder, and dispatches every
// complete packet the decoder yields. One Update call processes at most
// one Available()-sized read per input: a cooperative, non-blocking
// single round.
func (c *Context) pollInputs() error {
	for _, in := range c.ins {
		if err := pollOne(in, c.subs); err != nil {
			return err
		}
	}
	return nil
}

func pollOne(in *input, subs *Subscribers) error {
	n, err := in.tr.Available()
	if err != nil {
		if err == frame.ErrWouldBlock {
			return nil
		}
		return err
	}
	if n <= 0 {
		return nil
	}
	if n > len(in.buf) {
		n = len(in.buf)
	}

	rn, err := in.tr.ReadInto(in.buf[:n])
	if rn > 0 {
		if _, ferr := in.dec.Feed(in.buf[:rn]); ferr != nil {
			return ferr
		}
		for {
			p, ok := in.dec.Next()
			if !ok {
				break
			}
			subs.Dispatch(p.Index, p.Data)
		}
	}
	if err != nil && err != frame.ErrWouldBlock && err != frame.ErrMore {
		return err
	}
	return nil
}
