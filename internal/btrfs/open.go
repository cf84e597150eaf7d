// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfs

import (
	"context"

	"github.com/datawire/dlib/dlog"

	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
)

// OpenFS reads dev's superblock, bootstraps and fully loads the
// chunk-tree address map, and returns a ready-to-walk FS. This is
// the C4 two-phase dance: bootstrap first from the superblock's
// system chunk array, then walk the real chunk tree using that seed
// to resolve its own block pointers.
func OpenFS(ctx context.Context, dev ReaderAt) (*FS, error) {
	sb, err := ReadSuperblock(dev)
	if err != nil {
		return nil, err
	}
	dlog.Infof(ctx, "superblock: label=%q generation=%d node_size=%d sector_size=%d",
		sb.LabelString(), sb.Generation, sb.NodeSize, sb.SectorSize)

	cm, err := bootstrapChunkMap(ctx, sb)
	if err != nil {
		return nil, err
	}
	fs := &FS{dev: dev, sb: sb, cm: cm}
	dlog.Debugf(ctx, "chunk map bootstrapped with %d mappings from sys_chunk_array", cm.Len())

	if err := fs.loadChunkTree(ctx); err != nil {
		return nil, err
	}
	dlog.Infof(ctx, "chunk tree loaded: %d total mappings", fs.cm.Len())

	return fs, nil
}

// FindDefaultSubvolume locates the default filesystem subvolume (the
// FS_TREE root item in the root tree) and returns the logical address
// of its own tree root, ready to hand to NewWalker.
func (fs *FS) FindDefaultSubvolume(ctx context.Context) (btrfsvol.LogicalAddr, error) {
	root, err := fs.findFSTree(ctx)
	if err != nil {
		return 0, err
	}
	return root.ByteNr, nil
}
