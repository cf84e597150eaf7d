// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfsprim

import "fmt"

// ItemType is the second field of a Key; it says how to interpret the
// item's payload.
type ItemType uint8

const (
	INODE_ITEM_KEY ItemType = 1
	INODE_REF_KEY  ItemType = 12
	DIR_ITEM_KEY   ItemType = 84
	DIR_INDEX_KEY  ItemType = 96
	CHUNK_ITEM_KEY ItemType = 228
	ROOT_ITEM_KEY  ItemType = 132
)

var itemTypeNames = map[ItemType]string{
	INODE_ITEM_KEY: "INODE_ITEM",
	INODE_REF_KEY:  "INODE_REF",
	DIR_ITEM_KEY:   "DIR_ITEM",
	DIR_INDEX_KEY:  "DIR_INDEX",
	CHUNK_ITEM_KEY: "CHUNK_ITEM",
	ROOT_ITEM_KEY:  "ROOT_ITEM",
}

func (t ItemType) String() string {
	if name, ok := itemTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_KEY(%d)", uint8(t))
}

// FileType is the directory-entry file-type byte carried by directory
// items and directory indexes.
type FileType uint8

const (
	FT_UNKNOWN  FileType = 0
	FT_REG_FILE FileType = 1
	FT_DIR      FileType = 2
)
