// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfs

import (
	"context"
	"fmt"

	"github.com/datawire/dlib/dlog"

	"git.lukeshu.com/btrfswalk/internal/binstruct"
	"git.lukeshu.com/btrfswalk/internal/btrfsitem"
	"git.lukeshu.com/btrfswalk/internal/btrfsprim"
	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
)

// bootstrapChunkMap seeds fs.cm from the superblock's embedded system
// chunk array, exactly enough to resolve sb.ChunkTree so the real
// chunk tree can be walked (§4.4's chicken-and-egg resolution).
func bootstrapChunkMap(ctx context.Context, sb Superblock) (btrfsvol.ChunkMap, error) {
	var cm btrfsvol.ChunkMap

	dat := sb.SysChunkArray[:sb.SysChunkArraySize]
	keySize := binstruct.StaticSize(btrfsprim.Key{})
	for len(dat) > 0 {
		if len(dat) < keySize {
			return cm, &ShortRead{What: "sys chunk array (key)", Need: keySize, Have: len(dat)}
		}
		var key btrfsprim.Key
		n, err := binstruct.Unmarshal(dat, &key)
		if err != nil {
			return cm, fmt.Errorf("btrfs: bootstrap sys chunk array: key: %w", err)
		}
		if key.ItemType != btrfsprim.CHUNK_ITEM_KEY {
			return cm, fmt.Errorf("%w: got %v", ErrUnexpectedSysArrayKey, key.ItemType)
		}
		dat = dat[n:]

		if len(dat) < binstruct.StaticSize(btrfsitem.ChunkHeader{}) {
			return cm, &ShortRead{What: "sys chunk array (chunk header)", Need: binstruct.StaticSize(btrfsitem.ChunkHeader{}), Have: len(dat)}
		}
		var head btrfsitem.ChunkHeader
		if _, err := binstruct.Unmarshal(dat, &head); err != nil {
			return cm, fmt.Errorf("btrfs: bootstrap sys chunk array: chunk header: %w", err)
		}
		if need := btrfsitem.ChunkOnDiskSize(int(head.NumStripes)); len(dat) < need {
			return cm, &ShortRead{What: "sys chunk array (chunk stripes)", Need: need, Have: len(dat)}
		}
		var chunk btrfsitem.Chunk
		n, err = binstruct.Unmarshal(dat, &chunk)
		if err != nil {
			return cm, fmt.Errorf("btrfs: bootstrap sys chunk array: chunk: %w", err)
		}
		if chunk.Head.NumStripes == 0 {
			return cm, ErrZeroStripes
		}
		if chunk.Head.NumStripes > 1 {
			dlog.Warnf(ctx, "chunk at logical %v has %d stripes; only stripe 0 is consulted", key.Offset, chunk.Head.NumStripes)
		}
		insertChunkMapping(&cm, key, chunk)
		dat = dat[n:]
	}
	return cm, nil
}

// insertChunkMapping records chunk's stripe-0 mapping for the logical
// range [key.Offset, key.Offset+chunk.Size) in cm.
func insertChunkMapping(cm *btrfsvol.ChunkMap, key btrfsprim.Key, chunk btrfsitem.Chunk) {
	cm.Insert(btrfsvol.Mapping{
		LogicalAddr:  btrfsvol.LogicalAddr(key.Offset),
		PhysicalAddr: chunk.Stripes[0].Offset,
		Size:         chunk.Head.Size,
	})
}

// loadChunkTree walks the full chunk tree rooted at fs.sb.ChunkTree,
// using the bootstrap seed already in fs.cm to resolve its own block
// pointers, and augments fs.cm with every CHUNK_ITEM found.
func (fs *FS) loadChunkTree(ctx context.Context) error {
	return fs.walkChunkNode(ctx, fs.sb.ChunkTree)
}

func (fs *FS) walkChunkNode(ctx context.Context, addr btrfsvol.LogicalAddr) error {
	node, err := fs.ReadNode(addr)
	if err != nil {
		return err
	}
	dlog.Debugf(ctx, "chunk tree: visiting node %v (level=%d nritems=%d)", addr, node.Head.Level, node.Head.NumItems)

	if node.Head.IsLeaf() {
		for _, item := range node.Items {
			if item.Head.Key.ItemType != btrfsprim.CHUNK_ITEM_KEY {
				continue
			}
			chunk, ok := item.Body.(btrfsitem.Chunk)
			if !ok {
				return fmt.Errorf("btrfs: chunk tree leaf %v: item %v: not a decoded chunk", addr, item.Head.Key)
			}
			insertChunkMapping(&fs.cm, item.Head.Key, chunk)
		}
		return nil
	}

	for _, kp := range node.KeyPointers {
		if err := fs.walkChunkNode(ctx, kp.BlockPtr); err != nil {
			return err
		}
	}
	return nil
}
