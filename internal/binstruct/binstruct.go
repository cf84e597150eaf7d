// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package binstruct marshals and unmarshals the packed, little-endian,
// unaligned on-disk records used throughout the btrfs metadata format.
//
// Every on-disk field is declared with a `bin:"off=N,siz=N"` struct
// tag naming its exact byte offset and size; a struct ends with an
// embedded End field whose offset must equal the struct's total size.
// The offsets are checked against the struct's actual field layout the
// first time each type is used, so a struct tag that drifts from its
// field order or size is caught rather than silently misread.
package binstruct

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// End is embedded as the last field of a packed struct to declare its
// total on-disk size via its own off= tag.
type End struct{}

var endType = reflect.TypeOf(End{})

type tag struct {
	skip bool
	off  int
	siz  int
}

func parseStructTag(str string) (tag, error) {
	var ret tag
	for _, part := range strings.Split(str, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "-" {
			return tag{skip: true}, nil
		}
		keyval := strings.SplitN(part, "=", 2)
		if len(keyval) != 2 {
			return tag{}, fmt.Errorf("option is not a key=value pair: %q", part)
		}
		switch keyval[0] {
		case "off":
			v, err := strconv.ParseInt(keyval[1], 0, 0)
			if err != nil {
				return tag{}, err
			}
			ret.off = int(v)
		case "siz":
			v, err := strconv.ParseInt(keyval[1], 0, 0)
			if err != nil {
				return tag{}, err
			}
			ret.siz = int(v)
		default:
			return tag{}, fmt.Errorf("unrecognized option %q", keyval[0])
		}
	}
	return ret, nil
}

// Marshaler is implemented by types with non-reflectable (usually
// variable-length) binary layouts, such as items whose trailing name
// bytes aren't described by a fixed struct tag.
type Marshaler interface {
	MarshalBinary() ([]byte, error)
}

// Unmarshaler is the read-side counterpart of Marshaler. It returns
// the number of bytes of dat consumed.
type Unmarshaler interface {
	UnmarshalBinary(dat []byte) (int, error)
}

// StaticSizer is implemented by types whose on-disk size does not
// depend on reflection (or is expensive to recompute by reflection on
// every call).
type StaticSizer interface {
	BinaryStaticSize() int
}

var (
	marshalerType   = reflect.TypeOf((*Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	staticSizerType = reflect.TypeOf((*StaticSizer)(nil)).Elem()
)

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint8, reflect.Int8,
		reflect.Uint16, reflect.Int16,
		reflect.Uint32, reflect.Int32,
		reflect.Uint64, reflect.Int64:
		return true
	default:
		return false
	}
}
