// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfs

import (
	"fmt"

	"git.lukeshu.com/btrfswalk/internal/btrfstree"
	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
)

// FS is the top-level walker: a backing device, its superblock, and
// the chunk map needed to translate every other tree's block
// pointers. It implements btrfstree.NodeReader so that the Search
// descent (used by the fs-tree inode-ref point lookups) can read
// nodes through it.
type FS struct {
	dev ReaderAt
	sb  Superblock
	cm  btrfsvol.ChunkMap
}

var _ btrfstree.NodeReader = (*FS)(nil)

// Superblock returns the parsed primary superblock.
func (fs *FS) Superblock() Superblock { return fs.sb }

// ReadNode reads and decodes the node/leaf block at the given
// logical address, translating it through the chunk map first.
func (fs *FS) ReadNode(addr btrfsvol.LogicalAddr) (*btrfstree.Node, error) {
	paddr, err := fs.translate(addr)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, fs.sb.NodeSize)
	if _, err := readFullAt(fs.dev, buf, paddr); err != nil {
		return nil, &IoFailure{Op: fmt.Sprintf("read node at %v", addr), Err: err}
	}
	var node btrfstree.Node
	if _, err := node.UnmarshalBinary(buf); err != nil {
		return nil, fmt.Errorf("btrfs: decode node at %v (phys %v): %w", addr, paddr, err)
	}
	return &node, nil
}

// translate resolves a logical block address through the chunk map,
// failing with UnmappedLogical if nothing covers it.
func (fs *FS) translate(addr btrfsvol.LogicalAddr) (btrfsvol.PhysicalAddr, error) {
	_, paddr, ok := fs.cm.Lookup(addr)
	if !ok {
		return 0, &UnmappedLogical{Addr: addr}
	}
	return paddr, nil
}
