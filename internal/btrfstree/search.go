// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfstree

import (
	"errors"

	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
)

// ErrNoItem is returned by Search when no item satisfies the given
// comparison function.
var ErrNoItem = errors.New("btrfstree: no such item in tree")

// NodeReader resolves a logical block address to its decoded node.
// It is implemented by the top-level filesystem type, which owns the
// chunk map and the backing file.
type NodeReader interface {
	ReadNode(addr btrfsvol.LogicalAddr) (*Node, error)
}

// Search performs a keyed descent from rootAddr; the filesystem-tree
// walker's inode-ref point lookups use it. At an internal node, it
// binary-searches for the rightmost key-pointer whose key compares
// <= 0 against cmp; at a leaf, it scans the items in order and returns
// the first one comparing == 0.
func Search(r NodeReader, rootAddr btrfsvol.LogicalAddr, cmp func(Item) int) (Item, error) {
	addr := rootAddr
	for {
		node, err := r.ReadNode(addr)
		if err != nil {
			return Item{}, err
		}
		if node.Head.IsLeaf() {
			for _, item := range node.Items {
				if cmp(item) == 0 {
					return item, nil
				}
			}
			return Item{}, ErrNoItem
		}

		// Find the rightmost key-pointer whose key compares <= the
		// target; binary search over a monotonic predicate.
		lo, hi := 0, len(node.KeyPointers)
		for lo < hi {
			mid := (lo + hi) / 2
			if cmpKeyPointer(node.KeyPointers[mid], cmp) > 0 {
				hi = mid
			} else {
				lo = mid + 1
			}
		}
		if lo == 0 {
			return Item{}, ErrNoItem
		}
		addr = node.KeyPointers[lo-1].BlockPtr
	}
}

func cmpKeyPointer(kp KeyPointer, cmp func(Item) int) int {
	return cmp(Item{Head: ItemHeader{Key: kp.Key}})
}
