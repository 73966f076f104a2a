// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import "errors"

// ErrInvalidArgument reports a caller misuse, such as Write on a UDP
// transport with no fixed peer.
var ErrInvalidArgument = errors.New("transport: invalid argument")
