// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfsprim

import (
	"fmt"

	"git.lukeshu.com/btrfswalk/internal/binstruct"
)

// Key is the 17-byte triple that identifies an item within a tree.
// Ordering is lexicographic over (ObjectID, ItemType, Offset).
type Key struct {
	ObjectID ObjID    `bin:"off=0x0,siz=0x8"`
	ItemType ItemType `bin:"off=0x8,siz=0x1"`
	Offset   uint64   `bin:"off=0x9,siz=0x8"`

	binstruct.End `bin:"off=0x11"`
}

// Cmp implements the tree's lexicographic key ordering.
func (k Key) Cmp(o Key) int {
	switch {
	case k.ObjectID < o.ObjectID:
		return -1
	case k.ObjectID > o.ObjectID:
		return 1
	}
	switch {
	case k.ItemType < o.ItemType:
		return -1
	case k.ItemType > o.ItemType:
		return 1
	}
	switch {
	case k.Offset < o.Offset:
		return -1
	case k.Offset > o.Offset:
		return 1
	}
	return 0
}

func (k Key) String() string {
	return fmt.Sprintf("(%v %v %v)", k.ObjectID, k.ItemType, k.Offset)
}
