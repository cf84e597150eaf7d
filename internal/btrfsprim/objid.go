// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package btrfsprim holds the primitive identifiers and addressing
// types shared across the on-disk record layouts: object IDs, item
// types, tree keys, and logical/physical addresses.
package btrfsprim

import "fmt"

// ObjID identifies an object (inode, tree root, chunk, ...) within a
// tree. Its meaning is tree- and item-type-dependent.
type ObjID uint64

// Well-known tree and object IDs consumed by the walk.
const (
	ROOT_TREE_OBJECTID  ObjID = 1
	CHUNK_TREE_OBJECTID ObjID = 3
	FS_TREE_OBJECTID    ObjID = 5
)

func (id ObjID) String() string {
	switch id {
	case ROOT_TREE_OBJECTID:
		return "ROOT_TREE"
	case CHUNK_TREE_OBJECTID:
		return "CHUNK_TREE"
	case FS_TREE_OBJECTID:
		return "FS_TREE"
	default:
		return fmt.Sprintf("%d", uint64(id))
	}
}
