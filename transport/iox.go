// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import "code.hybscloud.com/iox"

// Re-exported so transport callers never need to import iox directly.
var (
	ErrWouldBlock = iox.ErrWouldBlock
	ErrMore       = iox.ErrMore
)
