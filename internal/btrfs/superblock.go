// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfs

import (
	"fmt"

	"git.lukeshu.com/btrfswalk/internal/binstruct"
	"git.lukeshu.com/btrfswalk/internal/btrfsitem"
	"git.lukeshu.com/btrfswalk/internal/btrfsvol"
)

// SuperblockAddr is the physical offset of the primary superblock.
// Only this copy is ever read; the on-disk format also keeps mirrors
// at the offsets below, but reading them is out of scope (see
// Open Questions in the design notes).
const SuperblockAddr btrfsvol.PhysicalAddr = 0x10000

// MirrorSuperblockAddrs are the physical offsets of the backup
// superblock mirrors. They are never read by this walk; they are
// named here only so a diagnostic message can mention them.
var MirrorSuperblockAddrs = []btrfsvol.PhysicalAddr{
	0x400_0000,          // 64 MiB
	0x40_0000_0000,      // 256 GiB
	0x4_0000_0000_0000,  // 1 PiB
}

// Magic is the 8-byte ASCII string every valid superblock begins its
// magic field with.
var Magic = [8]byte{'_', 'B', 'H', 'R', 'f', 'S', '_', 'M'}

// Superblock is the fixed 4096-byte record at SuperblockAddr. Only
// the fields this walk actually consumes are given semantic types;
// everything else is retained so that field offsets line up and the
// label can be surfaced in a startup log line.
type Superblock struct {
	Checksum   [32]byte             `bin:"off=0x00,siz=0x20"`
	FSUUID     btrfsitem.UUID       `bin:"off=0x20,siz=0x10"`
	Self       btrfsvol.PhysicalAddr `bin:"off=0x30,siz=0x08"`
	Flags      uint64               `bin:"off=0x38,siz=0x08"`
	Magic      [8]byte              `bin:"off=0x40,siz=0x08"`
	Generation uint64               `bin:"off=0x48,siz=0x08"`

	RootTree  btrfsvol.LogicalAddr `bin:"off=0x50,siz=0x08"`
	ChunkTree btrfsvol.LogicalAddr `bin:"off=0x58,siz=0x08"`
	LogTree   btrfsvol.LogicalAddr `bin:"off=0x60,siz=0x08"`

	LogRootTransID  uint64 `bin:"off=0x68,siz=0x08"`
	TotalBytes      uint64 `bin:"off=0x70,siz=0x08"`
	BytesUsed       uint64 `bin:"off=0x78,siz=0x08"`
	RootDirObjectID uint64 `bin:"off=0x80,siz=0x08"`
	NumDevices      uint64 `bin:"off=0x88,siz=0x08"`

	SectorSize        uint32 `bin:"off=0x90,siz=0x04"`
	NodeSize          uint32 `bin:"off=0x94,siz=0x04"`
	LeafSize          uint32 `bin:"off=0x98,siz=0x04"`
	StripeSize        uint32 `bin:"off=0x9c,siz=0x04"`
	SysChunkArraySize uint32 `bin:"off=0xa0,siz=0x04"`

	ChunkRootGeneration uint64   `bin:"off=0xa4,siz=0x08"`
	CompatFlags         uint64   `bin:"off=0xac,siz=0x08"`
	CompatROFlags       uint64   `bin:"off=0xb4,siz=0x08"`
	IncompatFlags       uint64   `bin:"off=0xbc,siz=0x08"`
	ChecksumType        uint16   `bin:"off=0xc4,siz=0x02"`

	RootLevel  uint8 `bin:"off=0xc6,siz=0x01"`
	ChunkLevel uint8 `bin:"off=0xc7,siz=0x01"`
	LogLevel   uint8 `bin:"off=0xc8,siz=0x01"`

	DevItem btrfsitem.Dev `bin:"off=0xc9,siz=0x62"`
	Label   [0x100]byte   `bin:"off=0x12b,siz=0x100"`

	CacheGeneration    uint64         `bin:"off=0x22b,siz=0x08"`
	UUIDTreeGeneration uint64         `bin:"off=0x233,siz=0x08"`
	MetadataUUID       btrfsitem.UUID `bin:"off=0x23b,siz=0x10"`

	// FeatureIncompatExtentTreeV2 fields; parsed only so later offsets
	// line up, never consulted by this walk.
	NumGlobalRoots           uint64               `bin:"off=0x24b,siz=0x08"`
	BlockGroupRoot           btrfsvol.LogicalAddr `bin:"off=0x253,siz=0x08"`
	BlockGroupRootGeneration uint64               `bin:"off=0x25b,siz=0x08"`
	BlockGroupRootLevel      uint8                `bin:"off=0x263,siz=0x01"`

	Reserved [199]byte `bin:"off=0x264,siz=0xc7"`

	SysChunkArray [0x800]byte `bin:"off=0x32b,siz=0x800"`
	SuperRoots    [0x2a0]byte `bin:"off=0xb2b,siz=0x2a0"`

	Padding       [565]byte `bin:"off=0xdcb,siz=0x235"`
	binstruct.End `bin:"off=0x1000"`
}

// LabelString returns the NUL-terminated label as a Go string.
func (sb Superblock) LabelString() string {
	n := 0
	for n < len(sb.Label) && sb.Label[n] != 0 {
		n++
	}
	return string(sb.Label[:n])
}

// ReadSuperblock reads and validates the primary superblock from r.
func ReadSuperblock(r ReaderAt) (Superblock, error) {
	var sb Superblock
	buf := make([]byte, binstruct.StaticSize(sb))
	if _, err := readFullAt(r, buf, SuperblockAddr); err != nil {
		return sb, &IoFailure{Op: "read superblock", Err: err}
	}
	if _, err := binstruct.Unmarshal(buf, &sb); err != nil {
		return sb, fmt.Errorf("btrfs: decode superblock: %w", err)
	}
	if sb.Magic != Magic {
		return sb, ErrBadMagic
	}
	if sb.SysChunkArraySize > uint32(len(sb.SysChunkArray)) {
		return sb, &ShortRead{What: "sys_chunk_array_size", Need: int(sb.SysChunkArraySize), Have: len(sb.SysChunkArray)}
	}
	return sb, nil
}
