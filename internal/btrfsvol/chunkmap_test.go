// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfsvol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
)

func TestChunkMapLookup(t *testing.T) {
	t.Parallel()
	var m btrfsvol.ChunkMap
	m.Insert(btrfsvol.Mapping{LogicalAddr: 0x1000, PhysicalAddr: 0x500000, Size: 0x1000})
	m.Insert(btrfsvol.Mapping{LogicalAddr: 0x5000, PhysicalAddr: 0x900000, Size: 0x2000})

	_, paddr, ok := m.Lookup(0x1000)
	assert.True(t, ok)
	assert.Equal(t, btrfsvol.PhysicalAddr(0x500000), paddr)

	_, paddr, ok = m.Lookup(0x1500)
	assert.True(t, ok)
	assert.Equal(t, btrfsvol.PhysicalAddr(0x500500), paddr)

	_, _, ok = m.Lookup(0x2000)
	assert.False(t, ok, "address past the end of the first range must not resolve")

	_, _, ok = m.Lookup(0x100)
	assert.False(t, ok, "address before any range must not resolve")

	_, paddr, ok = m.Lookup(0x6fff)
	assert.True(t, ok)
	assert.Equal(t, btrfsvol.PhysicalAddr(0x900000+0x1fff), paddr)
}

func TestChunkMapInsertIsIdempotent(t *testing.T) {
	t.Parallel()
	var m btrfsvol.ChunkMap
	m.Insert(btrfsvol.Mapping{LogicalAddr: 0x1000, PhysicalAddr: 0x500000, Size: 0x1000})
	// A colliding insert (same start, different phys) must be dropped:
	// the existing entry wins.
	m.Insert(btrfsvol.Mapping{LogicalAddr: 0x1000, PhysicalAddr: 0xdeadbeef, Size: 0x1000})
	assert.Equal(t, 1, m.Len())

	_, paddr, ok := m.Lookup(0x1000)
	assert.True(t, ok)
	assert.Equal(t, btrfsvol.PhysicalAddr(0x500000), paddr)
}

func TestChunkMapEmpty(t *testing.T) {
	t.Parallel()
	var m btrfsvol.ChunkMap
	_, _, ok := m.Lookup(0)
	assert.False(t, ok)
}
