// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package btrfsitem decodes the heterogeneous, variable-length leaf
// item payloads: inode items, inode refs, directory items, chunks,
// and root items.
package btrfsitem

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"git.lukeshu.com/btrfswalk/internal/binstruct"
)

// UUID is a 16-byte filesystem or device identifier, printed in the
// canonical 8-4-4-4-12 hex form.
type UUID [16]byte

func (u UUID) String() string {
	s := hex.EncodeToString(u[:])
	return strings.Join([]string{s[:8], s[8:12], s[12:16], s[16:20], s[20:32]}, "-")
}

// Time is the on-disk (seconds, nanoseconds) pair used by inode and
// root item timestamps.
type Time struct {
	Sec           int64  `bin:"off=0x0,siz=0x8"`
	NSec          uint32 `bin:"off=0x8,siz=0x4"`
	binstruct.End `bin:"off=0xc"`
}

// ToStd converts to a standard library time.Time in UTC.
func (t Time) ToStd() time.Time {
	return time.Unix(t.Sec, int64(t.NSec)).UTC()
}

func (t Time) String() string {
	return fmt.Sprintf("%v", t.ToStd())
}

// MaxNameLen bounds directory-entry and inode-ref name lengths; it is
// a sanity check against corrupt length fields, not an on-disk limit
// enforced elsewhere in this walk.
const MaxNameLen = 255
