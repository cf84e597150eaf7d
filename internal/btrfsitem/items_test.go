// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfsitem_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lukeshu.com/btrfswalk/internal/binstruct"
	"git.lukeshu.com/btrfswalk/internal/btrfsitem"
)

// dumpConfig mirrors the teacher's cmd/btrfs-dbg use of go-spew: a
// decoded-struct dumper for test failure output, pointer addresses
// disabled since they're never meaningful across a test run.
var dumpConfig = func() *spew.ConfigState {
	c := spew.NewDefaultConfig()
	c.DisablePointerAddresses = true
	return c
}()

func TestChunkRoundTripSingleStripe(t *testing.T) {
	t.Parallel()
	orig := btrfsitem.Chunk{
		Head: btrfsitem.ChunkHeader{Size: 0x40000000, NumStripes: 1},
		Stripes: []btrfsitem.ChunkStripe{
			{DeviceID: 1, Offset: 0x100000},
		},
	}
	dat, err := binstruct.Marshal(orig)
	require.NoError(t, err)
	assert.Equal(t, btrfsitem.ChunkOnDiskSize(1), len(dat))

	var got btrfsitem.Chunk
	n, err := binstruct.Unmarshal(dat, &got)
	require.NoError(t, err)
	assert.Equal(t, len(dat), n)
	if !assert.Equal(t, orig, got) {
		t.Logf("want: %s", dumpConfig.Sdump(orig))
		t.Logf("got:  %s", dumpConfig.Sdump(got))
	}
}

func TestChunkMultiStripeCursorAdvance(t *testing.T) {
	t.Parallel()
	orig := btrfsitem.Chunk{
		Head: btrfsitem.ChunkHeader{Size: 0x40000000, NumStripes: 2},
		Stripes: []btrfsitem.ChunkStripe{
			{DeviceID: 1, Offset: 0x100000},
			{DeviceID: 2, Offset: 0x200000},
		},
	}
	dat, err := binstruct.Marshal(orig)
	require.NoError(t, err)

	var got btrfsitem.Chunk
	n, err := binstruct.Unmarshal(dat, &got)
	require.NoError(t, err)
	assert.Equal(t, btrfsitem.ChunkOnDiskSize(2), n, "cursor must land past both stripes")
	assert.Len(t, got.Stripes, 2)
}

func TestDirItemTrailingName(t *testing.T) {
	t.Parallel()
	header := []byte{
		5, 0, 0, 0, 0, 0, 0, 0, // key objectid
		84,                     // key type (DIR_ITEM_KEY)
		0, 0, 0, 0, 0, 0, 0, 0, // key offset
		0, 0, 0, 0, 0, 0, 0, 0, // transid
		0, 0, // data len
		5, 0, // name len
		1, // FT_REG_FILE
	}
	dat := append(header, []byte("hello")...)
	dat = append(dat, 0xff) // trailing garbage must be ignored

	var d btrfsitem.Dir
	n, err := binstruct.Unmarshal(dat, &d)
	require.NoError(t, err)
	assert.Equal(t, len(header)+5, n)
	assert.Equal(t, "hello", string(d.Name))
	assert.Equal(t, btrfsitem.MaxNameLen >= int(d.NameLen), true)
}

func TestDirItemNameBeforeData(t *testing.T) {
	t.Parallel()
	header := []byte{
		5, 0, 0, 0, 0, 0, 0, 0, // key objectid
		84,                     // key type (DIR_ITEM_KEY)
		0, 0, 0, 0, 0, 0, 0, 0, // key offset
		0, 0, 0, 0, 0, 0, 0, 0, // transid
		3, 0, // data len
		5, 0, // name len
		1, // FT_REG_FILE
	}
	dat := append(header, []byte("hello")...) // name comes first on disk
	dat = append(dat, []byte("xyz")...)        // then the opaque data payload

	var d btrfsitem.Dir
	n, err := binstruct.Unmarshal(dat, &d)
	require.NoError(t, err)
	assert.Equal(t, len(header)+5+3, n)
	assert.Equal(t, "hello", string(d.Name), "name bytes must be read immediately after the fixed header")
	assert.Equal(t, []byte("xyz"), d.Data, "data bytes must follow the name, not precede it")
}

func TestInodeRefTrailingName(t *testing.T) {
	t.Parallel()
	dat := []byte{
		1, 0, 0, 0, 0, 0, 0, 0, // index
		3, 0, // name len
	}
	dat = append(dat, []byte("abc")...)

	var ref btrfsitem.InodeRef
	n, err := binstruct.Unmarshal(dat, &ref)
	require.NoError(t, err)
	assert.Equal(t, len(dat), n)
	assert.Equal(t, "abc", string(ref.Name))
}
