// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snapshot

import "os"

// FileStore wraps *os.File, which already satisfies Store via its own
// ReadAt/WriteAt methods; this type exists only to pair a constructor with
// the Store name used throughout this package.
type FileStore struct {
	*os.File
}

// OpenFileStore opens (creating if necessary) path for reading and
// writing at arbitrary offsets.
func OpenFileStore(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	return &FileStore{File: f}, nil
}
