// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfsitem

import (
	"git.lukeshu.com/btrfswalk/internal/binstruct"
	"git.lukeshu.com/btrfswalk/internal/btrfsprim"
	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
)

// Root is the ROOT_ITEM payload: one entry per tree (subvolume),
// found in the root tree. The walk only consumes ByteNr (the
// logical address of the subvolume's own tree root) and Generation
// (for a log line), but the rest of the fixed layout is parsed so ByteNr lands at the
// right offset.
type Root struct {
	Inode        Inode               `bin:"off=0x000,siz=0xa0"`
	Generation   uint64              `bin:"off=0x0a0,siz=0x08"`
	RootDirID    btrfsprim.ObjID     `bin:"off=0x0a8,siz=0x08"`
	ByteNr       btrfsvol.LogicalAddr `bin:"off=0x0b0,siz=0x08"`
	ByteLimit    int64               `bin:"off=0x0b8,siz=0x08"`
	BytesUsed    int64               `bin:"off=0x0c0,siz=0x08"`
	LastSnapshot int64               `bin:"off=0x0c8,siz=0x08"`
	Flags        uint64              `bin:"off=0x0d0,siz=0x08"`
	Refs         int32               `bin:"off=0x0d8,siz=0x04"`
	DropProgress btrfsprim.Key       `bin:"off=0x0dc,siz=0x11"`
	DropLevel    uint8               `bin:"off=0x0ed,siz=0x01"`
	Level        uint8               `bin:"off=0x0ee,siz=0x01"`
	GenerationV2 uint64              `bin:"off=0x0ef,siz=0x08"`
	UUID         UUID                `bin:"off=0x0f7,siz=0x10"`
	ParentUUID   UUID                `bin:"off=0x107,siz=0x10"`
	ReceivedUUID UUID                `bin:"off=0x117,siz=0x10"`
	CTransID     int64               `bin:"off=0x127,siz=0x08"`
	OTransID     int64               `bin:"off=0x12f,siz=0x08"`
	STransID     int64               `bin:"off=0x137,siz=0x08"`
	RTransID     int64               `bin:"off=0x13f,siz=0x08"`
	CTime        Time                `bin:"off=0x147,siz=0x0c"`
	OTime        Time                `bin:"off=0x153,siz=0x0c"`
	STime        Time                `bin:"off=0x15f,siz=0x0c"`
	RTime        Time                `bin:"off=0x16b,siz=0x0c"`
	GlobalTreeID btrfsprim.ObjID     `bin:"off=0x177,siz=0x08"`
	Reserved     [7]int64            `bin:"off=0x17f,siz=0x38"`

	binstruct.End `bin:"off=0x1b7"`
}
