// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfs

import (
	"fmt"
	"io"
	"os"

	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
)

// ReaderAt is the minimal interface the walk needs from the backing
// device: positioned, stateless reads. *os.File satisfies it.
type ReaderAt interface {
	ReadAt(p []byte, off int64) (int, error)
}

// Open opens path read-only for use as a btrfs backing device. The
// file is never written to and never seeked sequentially; every read
// issued against it is a positioned ReadAt.
func Open(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, &IoFailure{Op: "open " + path, Err: err}
	}
	return f, nil
}

// readFullAt reads exactly len(buf) bytes at physical offset off,
// treating a short read as a failure (§7's IoFailure).
func readFullAt(r ReaderAt, buf []byte, off btrfsvol.PhysicalAddr) (int, error) {
	n, err := r.ReadAt(buf, int64(off))
	if err != nil && err != io.EOF {
		return n, err
	}
	if n < len(buf) {
		return n, fmt.Errorf("short read: wanted %d bytes, got %d", len(buf), n)
	}
	return n, nil
}
