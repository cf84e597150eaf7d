// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfsitem

import "git.lukeshu.com/btrfswalk/internal/binstruct"

// Dev is the DEV_ITEM sub-record embedded in the superblock
// describing the single backing device this walk ever reads from.
// None of its fields are consulted by the walk, but it is parsed in
// full so that fields following it in the superblock
// land at the right offset.
type Dev struct {
	DeviceID uint64 `bin:"off=0x00,siz=0x08"`

	NumBytes     uint64 `bin:"off=0x08,siz=0x08"`
	NumBytesUsed uint64 `bin:"off=0x10,siz=0x08"`

	IOOptimalAlign uint32 `bin:"off=0x18,siz=0x04"`
	IOOptimalWidth uint32 `bin:"off=0x1c,siz=0x04"`
	IOMinSize      uint32 `bin:"off=0x20,siz=0x04"`

	Type        uint64 `bin:"off=0x24,siz=0x08"`
	Generation  uint64 `bin:"off=0x2c,siz=0x08"`
	StartOffset uint64 `bin:"off=0x34,siz=0x08"`
	DevGroup    uint32 `bin:"off=0x3c,siz=0x04"`
	SeekSpeed   uint8  `bin:"off=0x40,siz=0x01"`
	Bandwidth   uint8  `bin:"off=0x41,siz=0x01"`

	DevUUID UUID `bin:"off=0x42,siz=0x10"`
	FSUUID  UUID `bin:"off=0x52,siz=0x10"`

	binstruct.End `bin:"off=0x62"`
}
