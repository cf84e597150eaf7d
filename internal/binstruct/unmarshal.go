// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package binstruct

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// Unmarshal decodes the packed on-disk representation at the front of
// dat into dstPtr, returning the number of bytes of dat consumed.
func Unmarshal(dat []byte, dstPtr any) (int, error) {
	if unmar, ok := dstPtr.(Unmarshaler); ok {
		return unmar.UnmarshalBinary(dat)
	}
	rv := reflect.ValueOf(dstPtr)
	if rv.Kind() != reflect.Ptr {
		return 0, fmt.Errorf("binstruct: Unmarshal: not a pointer: %v", rv.Type())
	}
	return unmarshalReflect(dat, rv.Elem())
}

// UnmarshalWithoutInterface unmarshals dstPtr via plain struct-tag
// reflection even if its type implements Unmarshaler. It is used by
// a type's own UnmarshalBinary method to decode its fixed-size
// prefix before consuming variable-length trailing data, without
// recursing back into that same method.
func UnmarshalWithoutInterface(dat []byte, dstPtr any) (int, error) {
	rv := reflect.ValueOf(dstPtr)
	if rv.Kind() != reflect.Ptr {
		return 0, fmt.Errorf("binstruct: Unmarshal: not a pointer: %v", rv.Type())
	}
	return unmarshalReflect(dat, rv.Elem())
}

func unmarshalReflect(dat []byte, dst reflect.Value) (int, error) {
	typ := dst.Type()
	if typ == endType {
		return 0, nil
	}
	if isIntKind(typ.Kind()) {
		return unmarshalInt(dat, dst)
	}
	switch typ.Kind() {
	case reflect.Ptr:
		elem := reflect.New(typ.Elem())
		n, err := Unmarshal(dat, elem.Interface())
		dst.Set(elem)
		return n, err
	case reflect.Array:
		var n int
		for i := 0; i < dst.Len(); i++ {
			_n, err := Unmarshal(dat[n:], dst.Index(i).Addr().Interface())
			n += _n
			if err != nil {
				return n, err
			}
		}
		return n, nil
	case reflect.Struct:
		return getStructHandler(typ).Unmarshal(dat, dst)
	default:
		panic(fmt.Errorf("binstruct: type %v does not implement Unmarshaler and is not a supported kind", typ))
	}
}

func unmarshalInt(dat []byte, dst reflect.Value) (int, error) {
	size := StaticSize(dst.Interface())
	if len(dat) < size {
		return 0, fmt.Errorf("binstruct: short read: need %d bytes, have %d", size, len(dat))
	}
	switch dst.Kind() {
	case reflect.Uint8:
		dst.SetUint(uint64(dat[0]))
	case reflect.Int8:
		dst.SetInt(int64(int8(dat[0])))
	case reflect.Uint16:
		dst.SetUint(uint64(binary.LittleEndian.Uint16(dat)))
	case reflect.Int16:
		dst.SetInt(int64(int16(binary.LittleEndian.Uint16(dat))))
	case reflect.Uint32:
		dst.SetUint(uint64(binary.LittleEndian.Uint32(dat)))
	case reflect.Int32:
		dst.SetInt(int64(int32(binary.LittleEndian.Uint32(dat))))
	case reflect.Uint64:
		dst.SetUint(binary.LittleEndian.Uint64(dat))
	case reflect.Int64:
		dst.SetInt(int64(binary.LittleEndian.Uint64(dat)))
	default:
		return 0, fmt.Errorf("binstruct: not an integer kind: %v", dst.Kind())
	}
	return size, nil
}
