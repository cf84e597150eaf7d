// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfsvol

import "sort"

// Mapping is one entry in the chunk interval map: a contiguous
// logical range backed by a physical offset on the single device.
type Mapping struct {
	LogicalAddr  LogicalAddr
	PhysicalAddr PhysicalAddr
	Size         AddrDelta
}

func (m Mapping) covers(laddr LogicalAddr) bool {
	return laddr >= m.LogicalAddr && laddr < m.LogicalAddr.Add(m.Size)
}

// ChunkMap is the in-memory logical-to-physical interval map
// described in the on-disk format's chunk tree: an ordered,
// non-overlapping set of logical ranges, each backed by an offset on
// the single device (only stripe 0 of any multi-stripe chunk is ever
// recorded here).
//
// A zero ChunkMap is ready to use.
type ChunkMap struct {
	// kept sorted by LogicalAddr
	mappings []Mapping
}

// Insert adds a mapping to the map. If the new mapping's start is
// already covered by an existing entry, the insert is a silent no-op
// and the existing entry wins; this makes re-inserting the same
// mapping (as happens when the bootstrap seed and the full chunk-tree
// walk both cover the same range) idempotent.
func (m *ChunkMap) Insert(mapping Mapping) {
	if _, _, ok := m.Lookup(mapping.LogicalAddr); ok {
		return
	}
	i := sort.Search(len(m.mappings), func(i int) bool {
		return m.mappings[i].LogicalAddr >= mapping.LogicalAddr
	})
	m.mappings = append(m.mappings, Mapping{})
	copy(m.mappings[i+1:], m.mappings[i:])
	m.mappings[i] = mapping
}

// Lookup translates a logical address to a physical one, returning
// the Mapping entry that contains it (largest LogicalAddr <= laddr
// such that laddr also falls within that entry's Size) and the
// translated physical address. The third return is false if no
// mapping covers laddr.
func (m *ChunkMap) Lookup(laddr LogicalAddr) (Mapping, PhysicalAddr, bool) {
	// sort.Search finds the first index whose mapping starts strictly
	// after laddr; the candidate is the entry just before it.
	i := sort.Search(len(m.mappings), func(i int) bool {
		return m.mappings[i].LogicalAddr > laddr
	})
	if i == 0 {
		return Mapping{}, 0, false
	}
	candidate := m.mappings[i-1]
	if !candidate.covers(laddr) {
		return Mapping{}, 0, false
	}
	paddr := candidate.PhysicalAddr.Add(AddrDelta(laddr - candidate.LogicalAddr))
	return candidate, paddr, true
}

// Len reports the number of distinct mappings held.
func (m *ChunkMap) Len() int {
	return len(m.mappings)
}
