// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package btrfstree decodes B-tree node and leaf blocks and
// implements the keyed binary-search descent used by the
// filesystem-tree walker's inode-ref point lookups.
package btrfstree

import (
	"fmt"

	"git.lukeshu.com/btrfswalk/internal/binstruct"
	"git.lukeshu.com/btrfswalk/internal/btrfsitem"
	"git.lukeshu.com/btrfswalk/internal/btrfsprim"
	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
)

// NodeHeader is the fixed header at the front of every metadata
// block, node or leaf alike. The checksum is parsed but never
// validated against block contents (checksum verification is an
// explicit Non-goal).
type NodeHeader struct {
	Checksum      [32]byte             `bin:"off=0x00,siz=0x20"`
	FSID          [16]byte             `bin:"off=0x20,siz=0x10"`
	Addr          btrfsvol.LogicalAddr `bin:"off=0x30,siz=0x08"`
	Flags         [7]byte              `bin:"off=0x38,siz=0x07"`
	BackrefRev    uint8                `bin:"off=0x3f,siz=0x01"`
	ChunkTreeUUID [16]byte             `bin:"off=0x40,siz=0x10"`
	Generation    uint64               `bin:"off=0x50,siz=0x08"`
	Owner         btrfsprim.ObjID      `bin:"off=0x58,siz=0x08"`
	NumItems      uint32               `bin:"off=0x60,siz=0x04"`
	Level         uint8                `bin:"off=0x64,siz=0x01"`

	binstruct.End `bin:"off=0x65"`
}

// IsLeaf reports whether this block is a leaf (holds items) rather
// than an internal node (holds key pointers).
func (h NodeHeader) IsLeaf() bool { return h.Level == 0 }

// KeyPointer is one key-pointer record in an internal node: a key
// and the logical address of the child block that key range
// descends into.
type KeyPointer struct {
	Key           btrfsprim.Key        `bin:"off=0x00,siz=0x11"`
	BlockPtr      btrfsvol.LogicalAddr `bin:"off=0x11,siz=0x08"`
	Generation    uint64               `bin:"off=0x19,siz=0x08"`
	binstruct.End `bin:"off=0x21"`
}

// ItemHeader is the fixed-size descriptor preceding each leaf item's
// opaque payload.
type ItemHeader struct {
	Key           btrfsprim.Key `bin:"off=0x00,siz=0x11"`
	DataOffset    uint32        `bin:"off=0x11,siz=0x04"`
	DataSize      uint32        `bin:"off=0x15,siz=0x04"`
	binstruct.End `bin:"off=0x19"`
}

// Item pairs a leaf item's header with its decoded payload.
type Item struct {
	Head ItemHeader
	Body any
}

// Node is the fully decoded form of one metadata block: its header
// plus either KeyPointers (internal node) or Items (leaf), never
// both.
type Node struct {
	Head         NodeHeader
	KeyPointers  []KeyPointer
	Items        []Item
}

// ErrNotANode describes a block whose header does not look like a
// valid node header for this filesystem. No code in this module
// returns it; UnmarshalBinary does not validate the header.
var ErrNotANode = fmt.Errorf("data does not look like a valid btrfs node")

// UnmarshalBinary decodes a whole node/leaf block of bytes. nodeSize
// determines where leaf items are considered to end (it is the
// buffer length; callers pass exactly the block they read).
func (n *Node) UnmarshalBinary(dat []byte) (int, error) {
	used, err := binstruct.Unmarshal(dat, &n.Head)
	if err != nil {
		return used, err
	}
	if n.Head.IsLeaf() {
		if err := n.unmarshalLeaf(dat[used:]); err != nil {
			return used, err
		}
	} else {
		if err := n.unmarshalInternal(dat[used:]); err != nil {
			return used, err
		}
	}
	return len(dat), nil
}

func (n *Node) unmarshalInternal(body []byte) error {
	n.KeyPointers = nil
	off := 0
	for i := uint32(0); i < n.Head.NumItems; i++ {
		var kp KeyPointer
		sz, err := binstruct.Unmarshal(body[off:], &kp)
		if err != nil {
			return fmt.Errorf("key pointer %d: %w", i, err)
		}
		off += sz
		n.KeyPointers = append(n.KeyPointers, kp)
	}
	return nil
}

// unmarshalLeaf decodes the nritems item descriptors packed after the
// header, with payloads growing from the opposite end of the block
// body, per §3/§4.3's leaf layout.
func (n *Node) unmarshalLeaf(body []byte) error {
	n.Items = nil
	head := 0
	tail := len(body)
	for i := uint32(0); i < n.Head.NumItems; i++ {
		var ih ItemHeader
		sz, err := binstruct.Unmarshal(body[head:], &ih)
		if err != nil {
			return fmt.Errorf("item %d header: %w", i, err)
		}
		head += sz

		dataOff := int(ih.DataOffset)
		dataSize := int(ih.DataSize)
		if dataOff < 0 || dataSize < 0 || dataOff+dataSize > len(body) || dataOff+dataSize > tail {
			return fmt.Errorf("item %d: payload [%d:%d] is out of bounds/overlaps prior item", i, dataOff, dataOff+dataSize)
		}
		tail = dataOff
		payload := body[dataOff : dataOff+dataSize]

		body2, err := decodeItemBody(ih.Key.ItemType, payload)
		if err != nil {
			return fmt.Errorf("item %d (%v): %w", i, ih.Key, err)
		}
		n.Items = append(n.Items, Item{Head: ih, Body: body2})
	}
	return nil
}

// decodeItemBody dispatches on key type to the btrfsitem decoder this
// walk cares about; unrecognized item types are kept as raw bytes so
// the walk's leaf scan can skip over them without failing.
func decodeItemBody(typ btrfsprim.ItemType, dat []byte) (any, error) {
	switch typ {
	case btrfsprim.CHUNK_ITEM_KEY:
		var v btrfsitem.Chunk
		if _, err := binstruct.Unmarshal(dat, &v); err != nil {
			return nil, err
		}
		return v, nil
	case btrfsprim.ROOT_ITEM_KEY:
		var v btrfsitem.Root
		if _, err := binstruct.Unmarshal(dat, &v); err != nil {
			return nil, err
		}
		return v, nil
	case btrfsprim.DIR_ITEM_KEY, btrfsprim.DIR_INDEX_KEY:
		var v btrfsitem.Dir
		if _, err := binstruct.Unmarshal(dat, &v); err != nil {
			return nil, err
		}
		return v, nil
	case btrfsprim.INODE_REF_KEY:
		var v btrfsitem.InodeRef
		if _, err := binstruct.Unmarshal(dat, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return dat, nil
	}
}
