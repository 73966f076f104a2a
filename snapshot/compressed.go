// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snapshot

import (
	"os"

	"github.com/klauspost/compress/zstd"
)

// CompressedFileStore keeps its logical contents as a single zstd-
// compressed blob on disk, decompressing into an in-memory working copy
// on open and recompressing on every WriteAt. This trades write latency
// for disk footprint, which suits flash-constrained hosts saving many
// small publish-entry snapshots — not a store taking continuous writes.
type CompressedFileStore struct {
	path string
	mem  MemStore
}

// NewCompressedFileStore opens (or creates) path, transparently inflating
// any existing compressed content into memory.
func NewCompressedFileStore(path string) (*CompressedFileStore, error) {
	c := &CompressedFileStore{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return c, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	plain, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, err
	}
	if _, err := c.mem.WriteAt(plain, 0); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadAt implements Store against the in-memory decompressed copy.
func (c *CompressedFileStore) ReadAt(p []byte, offset int64) (int, error) {
	return c.mem.ReadAt(p, offset)
}

// WriteAt updates the in-memory copy and flushes a freshly compressed
// snapshot of the whole store to disk.
func (c *CompressedFileStore) WriteAt(p []byte, offset int64) (int, error) {
	n, err := c.mem.WriteAt(p, offset)
	if err != nil {
		return n, err
	}
	if ferr := c.flush(); ferr != nil {
		return n, ferr
	}
	return n, nil
}

func (c *CompressedFileStore) flush() error {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()
	compressed := enc.EncodeAll(c.mem.Bytes(), nil)
	return os.WriteFile(c.path, compressed, 0o600)
}
