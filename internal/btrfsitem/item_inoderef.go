// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package btrfsitem

import (
	"fmt"

	"git.lukeshu.com/btrfswalk/internal/binstruct"
)

// InodeRef is the INODE_REF payload: a back-pointer from a child
// inode to its parent plus the child's name within that parent. The
// enclosing Key has ObjectID = child inode, Offset = parent inode.
type InodeRef struct {
	Index         int64  `bin:"off=0x0,siz=0x8"`
	NameLen       uint16 `bin:"off=0x8,siz=0x2"`
	binstruct.End `bin:"off=0xa"`

	Name []byte `bin:"-"`
}

// UnmarshalBinary decodes one InodeRef record, consuming the fixed
// header plus its trailing Name bytes.
func (o *InodeRef) UnmarshalBinary(dat []byte) (int, error) {
	n, err := binstruct.UnmarshalWithoutInterface(dat, o)
	if err != nil {
		return n, err
	}
	if o.NameLen > MaxNameLen {
		return n, fmt.Errorf("inode ref: name len %d exceeds maximum %d", o.NameLen, MaxNameLen)
	}
	need := n + int(o.NameLen)
	if len(dat) < need {
		return n, fmt.Errorf("inode ref: short read: need %d bytes, have %d", need, len(dat))
	}
	o.Name = dat[n:need]
	return need, nil
}
