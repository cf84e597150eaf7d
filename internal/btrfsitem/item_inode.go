// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfsitem

import "git.lukeshu.com/btrfswalk/internal/binstruct"

// Inode is the INODE_ITEM payload. This walk only ever reads it as
// the fixed-size prefix embedded in a Root item (§3's "root item
// embeds an inode-item prefix"); none of its fields beyond its static
// size are consulted by the walk itself, but they're parsed so that
// offsets past it in Root stay correct.
type Inode struct {
	Generation uint64 `bin:"off=0x00,siz=0x08"`
	TransID    int64  `bin:"off=0x08,siz=0x08"`
	Size       int64  `bin:"off=0x10,siz=0x08"`
	NumBytes   int64  `bin:"off=0x18,siz=0x08"`
	BlockGroup int64  `bin:"off=0x20,siz=0x08"`
	NLink      int32  `bin:"off=0x28,siz=0x04"`
	UID        int32  `bin:"off=0x2c,siz=0x04"`
	GID        int32  `bin:"off=0x30,siz=0x04"`
	Mode       uint32 `bin:"off=0x34,siz=0x04"`
	RDev       int64  `bin:"off=0x38,siz=0x08"`
	Flags      uint64 `bin:"off=0x40,siz=0x08"`
	Sequence   int64  `bin:"off=0x48,siz=0x08"`

	Reserved [4]int64 `bin:"off=0x50,siz=0x20"`

	ATime Time `bin:"off=0x70,siz=0x0c"`
	CTime Time `bin:"off=0x7c,siz=0x0c"`
	MTime Time `bin:"off=0x88,siz=0x0c"`
	OTime Time `bin:"off=0x94,siz=0x0c"`

	binstruct.End `bin:"off=0xa0"`
}
