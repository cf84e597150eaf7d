// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package btrfsvol implements the logical-to-physical address
// translation layer: the chunk interval map that every tree read
// above the superblock's own fixed offset must consult.
package btrfsvol

import "fmt"

// LogicalAddr is an address in the filesystem-internal address space
// that metadata blocks use to reference one another.
type LogicalAddr int64

// PhysicalAddr is a byte offset within the single backing device or
// image file.
type PhysicalAddr int64

// AddrDelta is the difference between two addresses, or a byte
// length, in either address space.
type AddrDelta int64

func (a LogicalAddr) String() string  { return fmt.Sprintf("0x%016x", int64(a)) }
func (a PhysicalAddr) String() string { return fmt.Sprintf("0x%016x", int64(a)) }

func (a LogicalAddr) Add(d AddrDelta) LogicalAddr   { return a + LogicalAddr(d) }
func (a PhysicalAddr) Add(d AddrDelta) PhysicalAddr { return a + PhysicalAddr(d) }

func (a LogicalAddr) Sub(b LogicalAddr) AddrDelta { return AddrDelta(a - b) }
