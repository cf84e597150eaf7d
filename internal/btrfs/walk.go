// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfs

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/datawire/dlib/dlog"

	"git.lukeshu.com/btrfswalk/internal/btrfsitem"
	"git.lukeshu.com/btrfswalk/internal/btrfsprim"
	"git.lukeshu.com/btrfswalk/internal/btrfstree"
	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
	"git.lukeshu.com/btrfswalk/internal/containers"
	"git.lukeshu.com/btrfswalk/internal/textui"
)

// inodeRefCacheSize bounds the parent-inode->(name,parent) LRU used
// by getInodeRef; it is an optimization only, per the design note
// that path-reconstruction correctness does not depend on cache
// presence or size.
const inodeRefCacheSize = 4096

type inodeRefEntry struct {
	Parent btrfsprim.ObjID
	Name   string
}

// Walker holds the state needed across one filesystem-tree walk: the
// tree it's walking, and the inode-ref cache that path reconstruction
// shares across sibling directory entries.
type Walker struct {
	fs       *FS
	fsTree   btrfsvol.LogicalAddr
	refCache *containers.LRUCache[btrfsprim.ObjID, inodeRefEntry]

	files  int
	nodes  int
	hits   int
	misses int
}

// NewWalker prepares a Walker over the given filesystem subvolume
// tree root.
func NewWalker(fs *FS, fsTree btrfsvol.LogicalAddr) *Walker {
	return &Walker{
		fs:       fs,
		fsTree:   fsTree,
		refCache: containers.NewLRUCache[btrfsprim.ObjID, inodeRefEntry](inodeRefCacheSize),
	}
}

// Walk descends the filesystem subvolume tree and writes one
// "filename=<path>" line per regular-file directory entry to w, in
// leaf-traversal order. Every error kind in §7, including BadName,
// is fatal and aborts the walk immediately.
func (w *Walker) Walk(ctx context.Context, out io.Writer) error {
	if err := w.walkNode(ctx, w.fsTree, out); err != nil {
		return err
	}
	dlog.Infof(ctx, "walk complete: %s files, %s nodes visited, inode-ref cache hit rate %v",
		textui.Int(w.files), textui.Int(w.nodes), textui.Portion{N: w.hits, D: w.hits + w.misses})
	return nil
}

func (w *Walker) walkNode(ctx context.Context, addr btrfsvol.LogicalAddr, out io.Writer) error {
	node, err := w.fs.ReadNode(addr)
	if err != nil {
		return err
	}
	w.nodes++
	dlog.Debugf(ctx, "fs tree: visiting node %v (level=%d nritems=%d)", addr, node.Head.Level, node.Head.NumItems)

	if !node.Head.IsLeaf() {
		for _, kp := range node.KeyPointers {
			if err := w.walkNode(ctx, kp.BlockPtr, out); err != nil {
				return err
			}
		}
		return nil
	}

	for _, item := range node.Items {
		if item.Head.Key.ItemType != btrfsprim.DIR_ITEM_KEY {
			continue
		}
		dir, ok := item.Body.(btrfsitem.Dir)
		if !ok {
			return fmt.Errorf("btrfs: fs tree leaf %v: item %v: not a decoded dir item", addr, item.Head.Key)
		}
		if dir.Type != btrfsprim.FT_REG_FILE {
			continue
		}
		if !utf8.Valid(dir.Name) {
			return &BadName{Inode: addr, Bytes: append([]byte(nil), dir.Name...)}
		}
		name := string(dir.Name)

		prefix, err := w.resolvePath(ctx, item.Head.Key.ObjectID)
		if err != nil {
			return err
		}
		w.files++
		fmt.Fprintf(out, "filename=%s%s\n", prefix, name)
	}
	return nil
}

// resolvePath reconstructs the directory prefix (ending in "/") for
// dirInode by chasing inode-ref parent back-references to the
// subvolume root, per §4.6.
func (w *Walker) resolvePath(ctx context.Context, dirInode btrfsprim.ObjID) (string, error) {
	var parts []string
	inode := dirInode
	for {
		parent, name, err := w.getInodeRef(ctx, inode)
		if err != nil {
			return "", err
		}
		if parent == inode {
			parts = append(parts, "/")
			break
		}
		parts = append(parts, name+"/")
		inode = parent
	}
	// parts were accumulated root-ward; reverse to get root-to-leaf order.
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteString(parts[i])
	}
	return sb.String(), nil
}

// getInodeRef looks up the INODE_REF item keyed by objectid==inode in
// the filesystem tree, returning its parent inode and this inode's
// name within that parent. A hit in the LRU cache avoids repeating
// the tree descent for inodes shared by multiple directory entries'
// ancestor chains.
func (w *Walker) getInodeRef(ctx context.Context, inode btrfsprim.ObjID) (btrfsprim.ObjID, string, error) {
	if entry, ok := w.refCache.Get(inode); ok {
		w.hits++
		return entry.Parent, entry.Name, nil
	}
	w.misses++

	item, err := btrfstree.Search(w.fs, w.fsTree, func(i btrfstree.Item) int {
		return cmpInodeRefKey(i.Head.Key, inode)
	})
	if err != nil {
		return 0, "", fmt.Errorf("btrfs: inode ref for inode %v: %w", inode, err)
	}
	ref, ok := item.Body.(btrfsitem.InodeRef)
	if !ok {
		return 0, "", fmt.Errorf("btrfs: inode ref for inode %v: item %v: not a decoded inode ref", inode, item.Head.Key)
	}
	if !utf8.Valid(ref.Name) {
		return 0, "", &BadName{Bytes: append([]byte(nil), ref.Name...)}
	}

	parent := btrfsprim.ObjID(item.Head.Key.Offset)
	name := string(ref.Name)
	w.refCache.Add(inode, inodeRefEntry{Parent: parent, Name: name})
	return parent, name, nil
}

// cmpInodeRefKey compares a candidate key against the search target
// (objectid=inode, type=INODE_REF_KEY), returning the sign of
// (k - target) the way Search expects: negative if k sorts before
// the target, positive if after, zero on match. The key's Offset
// (the parent inode) is treated as a wildcard: any INODE_REF item for
// the right objectid matches, since the inodes looked up here are
// directories, which have exactly one.
func cmpInodeRefKey(k btrfsprim.Key, inode btrfsprim.ObjID) int {
	switch {
	case k.ObjectID < inode:
		return -1
	case k.ObjectID > inode:
		return 1
	}
	switch {
	case k.ItemType < btrfsprim.INODE_REF_KEY:
		return -1
	case k.ItemType > btrfsprim.INODE_REF_KEY:
		return 1
	}
	return 0
}
