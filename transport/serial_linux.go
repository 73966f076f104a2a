// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package transport

import (
	"os"

	"go.bug.st/serial"
	"golang.org/x/sys/unix"
)

// serialAvailable asks the kernel how many bytes are queued on the serial
// fd via TIOCINQ. go.bug.st/serial itself has no portable "bytes
// available" query, so this is the precise answer where golang.org/x/sys
// can provide one.
func serialAvailable(port serial.Port) (int, error) {
	f, ok := port.(interface{ Fd() uintptr })
	if !ok {
		return genericSerialAvailable(port)
	}
	n, err := unix.IoctlGetInt(int(f.Fd()), unix.TIOCINQ)
	if err != nil {
		if err == unix.ENOTTY || err == unix.EINVAL {
			return genericSerialAvailable(port)
		}
		return 0, os.NewSyscallError("ioctl TIOCINQ", err)
	}
	return n, nil
}
