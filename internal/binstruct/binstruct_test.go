// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package binstruct_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lukeshu.com/btrfswalk/internal/binstruct"
)

type testSubrecord struct {
	A uint32 `bin:"off=0x0,siz=0x4"`
	B uint8  `bin:"off=0x4,siz=0x1"`

	binstruct.End `bin:"off=0x5"`
}

type testRecord struct {
	Magic [4]byte       `bin:"off=0x0,siz=0x4"`
	Sub   testSubrecord `bin:"off=0x4,siz=0x5"`
	Big   uint64        `bin:"off=0x9,siz=0x8"`

	binstruct.End `bin:"off=0x11"`
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	orig := testRecord{
		Magic: [4]byte{'g', 'o', 'o', 'd'},
		Sub:   testSubrecord{A: 0x11223344, B: 0xff},
		Big:   0x0102030405060708,
	}

	dat, err := binstruct.Marshal(orig)
	require.NoError(t, err)
	assert.Equal(t, binstruct.StaticSize(orig), len(dat))

	var got testRecord
	n, err := binstruct.Unmarshal(dat, &got)
	require.NoError(t, err)
	assert.Equal(t, len(dat), n)
	assert.Equal(t, orig, got)
}

func TestLittleEndian(t *testing.T) {
	t.Parallel()
	var v uint32
	n, err := binstruct.Unmarshal([]byte{0x01, 0x02, 0x03, 0x04}, &v)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, uint32(0x04030201), v)
}

func TestStaticSizeMismatchPanics(t *testing.T) {
	t.Parallel()
	type badTag struct {
		A uint32 `bin:"off=0x0,siz=0x8"`

		binstruct.End `bin:"off=0x8"`
	}
	assert.Panics(t, func() {
		binstruct.StaticSize(badTag{})
	})
}
