// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import "go.bug.st/serial"

// genericSerialAvailable is the portable fallback used on platforms with no
// ioctl byte-count query. go.bug.st/serial has no peek API that wouldn't
// risk consuming and discarding a byte, so this reports an optimistic 1
// ("maybe something is queued, try ReadInto") rather than an exact count;
// ReadInto's own pollTimeout-bounded read is what actually determines
// whether data showed up.
func genericSerialAvailable(port serial.Port) (int, error) {
	return 1, nil
}
