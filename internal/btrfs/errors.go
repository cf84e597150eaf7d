// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package btrfs ties the lower-level packages (binstruct, btrfsprim,
// btrfsitem, btrfstree, btrfsvol) together into the read-only walk
// described by the on-disk format: superblock parsing, chunk-tree
// bootstrap, root-tree lookup, and filesystem-tree traversal.
package btrfs

import (
	"errors"
	"fmt"

	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
)

// The error kinds a walk can fail with. Every one is fatal and
// aborts the walk immediately (see Walk).
var (
	ErrBadMagic              = errors.New("btrfs: superblock magic mismatch")
	ErrUnexpectedSysArrayKey = errors.New("btrfs: unexpected key type in system chunk array")
	ErrZeroStripes           = errors.New("btrfs: chunk record has zero stripes")
	ErrRootTreeNotLeaf       = errors.New("btrfs: root tree root is not a leaf")
	ErrFsTreeNotFound        = errors.New("btrfs: no FS_TREE root item found in root tree")
)

// IoFailure wraps a short or failed positioned read.
type IoFailure struct {
	Op  string
	Err error
}

func (e *IoFailure) Error() string { return fmt.Sprintf("btrfs: io failure: %s: %v", e.Op, e.Err) }
func (e *IoFailure) Unwrap() error { return e.Err }

// ShortRead reports a cursor that would overrun the system chunk
// array. Overruns inside a leaf payload are not reported as ShortRead;
// the node decoder returns them as wrapped decode errors.
type ShortRead struct {
	What string
	Need int
	Have int
}

func (e *ShortRead) Error() string {
	return fmt.Sprintf("btrfs: short read in %s: need %d bytes, have %d", e.What, e.Need, e.Have)
}

// UnmappedLogical reports a logical address that the chunk map could
// not translate.
type UnmappedLogical struct {
	Addr btrfsvol.LogicalAddr
}

func (e *UnmappedLogical) Error() string {
	return fmt.Sprintf("btrfs: no chunk mapping covers logical address %v", e.Addr)
}

// BadName reports a directory entry or inode-ref whose trailing name
// bytes are not valid UTF-8. Like every other error kind, it aborts
// the walk immediately.
type BadName struct {
	Inode btrfsvol.LogicalAddr // bytenr of the leaf carrying the bad name, for diagnostics
	Bytes []byte
}

func (e *BadName) Error() string {
	return fmt.Sprintf("btrfs: name %q (leaf %v) is not valid UTF-8", e.Bytes, e.Inode)
}
