// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfstree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lukeshu.com/btrfswalk/internal/btrfsprim"
	"git.lukeshu.com/btrfswalk/internal/btrfstree"
	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
)

// fakeTree is a tiny in-memory NodeReader: an internal root with two
// leaf children, used to exercise Search's binary-search descent
// without needing a real on-disk image.
type fakeTree map[btrfsvol.LogicalAddr]*btrfstree.Node

func (t fakeTree) ReadNode(addr btrfsvol.LogicalAddr) (*btrfstree.Node, error) {
	n, ok := t[addr]
	if !ok {
		return nil, assert.AnError
	}
	return n, nil
}

func key(id uint64) btrfsprim.Key {
	return btrfsprim.Key{ObjectID: btrfsprim.ObjID(id), ItemType: btrfsprim.DIR_ITEM_KEY}
}

func cmpObjID(target uint64) func(btrfstree.Item) int {
	return func(item btrfstree.Item) int {
		switch {
		case uint64(item.Head.Key.ObjectID) < target:
			return -1
		case uint64(item.Head.Key.ObjectID) > target:
			return 1
		default:
			return 0
		}
	}
}

func buildFakeTree() (fakeTree, btrfsvol.LogicalAddr) {
	leafA := &btrfstree.Node{
		Head: btrfstree.NodeHeader{NumItems: 2},
		Items: []btrfstree.Item{
			{Head: btrfstree.ItemHeader{Key: key(10)}},
			{Head: btrfstree.ItemHeader{Key: key(20)}},
		},
	}
	leafB := &btrfstree.Node{
		Head: btrfstree.NodeHeader{NumItems: 2},
		Items: []btrfstree.Item{
			{Head: btrfstree.ItemHeader{Key: key(30)}},
			{Head: btrfstree.ItemHeader{Key: key(40)}},
		},
	}
	root := &btrfstree.Node{
		Head: btrfstree.NodeHeader{NumItems: 2, Level: 1},
		KeyPointers: []btrfstree.KeyPointer{
			{Key: key(10), BlockPtr: 0x1000},
			{Key: key(30), BlockPtr: 0x2000},
		},
	}
	return fakeTree{
		0x1000: leafA,
		0x2000: leafB,
		0x0:    root,
	}, 0x0
}

func TestSearchDescendsToRightChild(t *testing.T) {
	t.Parallel()
	tree, rootAddr := buildFakeTree()

	item, err := btrfstree.Search(tree, rootAddr, cmpObjID(20))
	require.NoError(t, err)
	assert.Equal(t, btrfsprim.ObjID(20), item.Head.Key.ObjectID)

	item, err = btrfstree.Search(tree, rootAddr, cmpObjID(40))
	require.NoError(t, err)
	assert.Equal(t, btrfsprim.ObjID(40), item.Head.Key.ObjectID)
}

func TestSearchMissReturnsErrNoItem(t *testing.T) {
	t.Parallel()
	tree, rootAddr := buildFakeTree()

	_, err := btrfstree.Search(tree, rootAddr, cmpObjID(25))
	assert.ErrorIs(t, err, btrfstree.ErrNoItem)
}

func TestSearchBeforeFirstKeyMisses(t *testing.T) {
	t.Parallel()
	tree, rootAddr := buildFakeTree()

	_, err := btrfstree.Search(tree, rootAddr, cmpObjID(1))
	assert.ErrorIs(t, err, btrfstree.ErrNoItem)
}
