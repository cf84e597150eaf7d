// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfs

import (
	"context"
	"fmt"

	"github.com/datawire/dlib/dlog"

	"git.lukeshu.com/btrfswalk/internal/btrfsitem"
	"git.lukeshu.com/btrfswalk/internal/btrfsprim"
)

// findFSTree reads the root tree's root block (which §4.5 assumes is
// a leaf) and scans it, in reverse iteration order, for the FS_TREE
// root item, returning its decoded payload.
func (fs *FS) findFSTree(ctx context.Context) (btrfsitem.Root, error) {
	node, err := fs.ReadNode(fs.sb.RootTree)
	if err != nil {
		return btrfsitem.Root{}, err
	}
	if !node.Head.IsLeaf() {
		return btrfsitem.Root{}, ErrRootTreeNotLeaf
	}

	for i := len(node.Items) - 1; i >= 0; i-- {
		item := node.Items[i]
		if item.Head.Key.ObjectID != btrfsprim.FS_TREE_OBJECTID || item.Head.Key.ItemType != btrfsprim.ROOT_ITEM_KEY {
			continue
		}
		root, ok := item.Body.(btrfsitem.Root)
		if !ok {
			return btrfsitem.Root{}, fmt.Errorf("btrfs: root tree item %v: not a decoded root item", item.Head.Key)
		}
		dlog.Infof(ctx, "found FS_TREE root item: bytenr=%v generation=%d", root.ByteNr, root.Generation)
		return root, nil
	}
	return btrfsitem.Root{}, ErrFsTreeNotFound
}
