// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfsitem

import (
	"fmt"

	"git.lukeshu.com/btrfswalk/internal/binstruct"
	"git.lukeshu.com/btrfswalk/internal/btrfsprim"
)

// Dir is the DIR_ITEM (and DIR_INDEX) payload: a fixed header
// followed by NameLen bytes of name and then DataLen bytes of opaque
// data.
type Dir struct {
	Location      btrfsprim.Key        `bin:"off=0x00,siz=0x11"`
	TransID       int64                `bin:"off=0x11,siz=0x08"`
	DataLen       uint16               `bin:"off=0x19,siz=0x02"`
	NameLen       uint16               `bin:"off=0x1b,siz=0x02"`
	Type          btrfsprim.FileType   `bin:"off=0x1d,siz=0x01"`
	binstruct.End `bin:"off=0x1e"`

	Name []byte `bin:"-"`
	Data []byte `bin:"-"`
}

// UnmarshalBinary decodes one Dir record, consuming the fixed header
// plus its trailing Name and Data bytes.
func (o *Dir) UnmarshalBinary(dat []byte) (int, error) {
	n, err := binstruct.UnmarshalWithoutInterface(dat, o)
	if err != nil {
		return n, err
	}
	if o.NameLen > MaxNameLen {
		return n, fmt.Errorf("dir item: name len %d exceeds maximum %d", o.NameLen, MaxNameLen)
	}
	need := n + int(o.NameLen) + int(o.DataLen)
	if len(dat) < need {
		return n, fmt.Errorf("dir item: short read: need %d bytes, have %d", need, len(dat))
	}
	o.Name = dat[n : n+int(o.NameLen)]
	n += int(o.NameLen)
	o.Data = dat[n : n+int(o.DataLen)]
	n += int(o.DataLen)
	return n, nil
}
