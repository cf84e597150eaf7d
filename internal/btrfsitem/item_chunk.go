// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfsitem

import (
	"fmt"

	"git.lukeshu.com/btrfswalk/internal/binstruct"
	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
)

// ChunkHeader is the fixed-size prefix of a Chunk record.
type ChunkHeader struct {
	Size           btrfsvol.AddrDelta `bin:"off=0x00,siz=0x08"`
	Owner          uint64             `bin:"off=0x08,siz=0x08"`
	StripeLen      uint64             `bin:"off=0x10,siz=0x08"`
	Type           uint64             `bin:"off=0x18,siz=0x08"`
	IOOptimalAlign uint32             `bin:"off=0x20,siz=0x04"`
	IOOptimalWidth uint32             `bin:"off=0x24,siz=0x04"`
	IOMinSize      uint32             `bin:"off=0x28,siz=0x04"`
	NumStripes     uint16             `bin:"off=0x2c,siz=0x02"`
	SubStripes     uint16             `bin:"off=0x2e,siz=0x02"`

	binstruct.End `bin:"off=0x30"`
}

// ChunkStripe is one inline stripe record following a ChunkHeader.
type ChunkStripe struct {
	DeviceID      uint64               `bin:"off=0x00,siz=0x08"`
	Offset        btrfsvol.PhysicalAddr `bin:"off=0x08,siz=0x08"`
	DeviceUUID    UUID                 `bin:"off=0x10,siz=0x10"`
	binstruct.End `bin:"off=0x20"`
}

// Chunk is the CHUNK_ITEM payload: a logical-range-to-stripes
// mapping record. Only Stripes[0] is ever consulted downstream, per
// the on-disk format's stripe-0-only contract.
type Chunk struct {
	Head    ChunkHeader
	Stripes []ChunkStripe
}

// UnmarshalBinary decodes a Chunk from dat, consuming
// sizeof(ChunkHeader) + NumStripes*sizeof(ChunkStripe) bytes.
func (c *Chunk) UnmarshalBinary(dat []byte) (int, error) {
	n, err := binstruct.Unmarshal(dat, &c.Head)
	if err != nil {
		return n, err
	}
	c.Stripes = nil
	for i := 0; i < int(c.Head.NumStripes); i++ {
		var stripe ChunkStripe
		_n, err := binstruct.Unmarshal(dat[n:], &stripe)
		n += _n
		if err != nil {
			return n, fmt.Errorf("stripe %d: %w", i, err)
		}
		c.Stripes = append(c.Stripes, stripe)
	}
	return n, nil
}

// MarshalBinary is the inverse of UnmarshalBinary, used only by
// round-trip tests.
func (c Chunk) MarshalBinary() ([]byte, error) {
	c.Head.NumStripes = uint16(len(c.Stripes))
	dat, err := binstruct.Marshal(c.Head)
	if err != nil {
		return dat, err
	}
	for i, stripe := range c.Stripes {
		bs, err := binstruct.Marshal(stripe)
		dat = append(dat, bs...)
		if err != nil {
			return dat, fmt.Errorf("stripe %d: %w", i, err)
		}
	}
	return dat, nil
}

// ChunkOnDiskSize returns the byte size of a Chunk record with
// numStripes stripes, as consumed from a densely-packed array (the
// system chunk array or a leaf's chunk item).
func ChunkOnDiskSize(numStripes int) int {
	return binstruct.StaticSize(ChunkHeader{}) + numStripes*binstruct.StaticSize(ChunkStripe{})
}
