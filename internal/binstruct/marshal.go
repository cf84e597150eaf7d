// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package binstruct

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// Marshal serializes obj back to its packed on-disk representation.
// It is the inverse of Unmarshal, used by round-trip tests rather
// than by the read-only walk itself.
func Marshal(obj any) ([]byte, error) {
	if mar, ok := obj.(Marshaler); ok {
		return mar.MarshalBinary()
	}
	return marshalReflect(reflect.ValueOf(obj))
}

// MarshalWithoutInterface marshals obj via plain struct-tag
// reflection even if obj implements Marshaler. It is used by a
// type's own MarshalBinary method to encode its fixed-size prefix
// before appending variable-length trailing data, without
// recursing back into that same method.
func MarshalWithoutInterface(obj any) ([]byte, error) {
	return marshalReflect(reflect.ValueOf(obj))
}

func marshalReflect(val reflect.Value) ([]byte, error) {
	typ := val.Type()
	if typ == endType {
		return nil, nil
	}
	if isIntKind(typ.Kind()) {
		return marshalInt(val), nil
	}
	switch typ.Kind() {
	case reflect.Ptr:
		return Marshal(val.Elem().Interface())
	case reflect.Array:
		var ret []byte
		for i := 0; i < val.Len(); i++ {
			bs, err := Marshal(val.Index(i).Interface())
			ret = append(ret, bs...)
			if err != nil {
				return ret, err
			}
		}
		return ret, nil
	case reflect.Struct:
		return getStructHandler(typ).Marshal(val)
	default:
		panic(fmt.Errorf("binstruct: type %v does not implement Marshaler and is not a supported kind", typ))
	}
}

func marshalInt(val reflect.Value) []byte {
	switch val.Kind() {
	case reflect.Uint8:
		return []byte{byte(val.Uint())}
	case reflect.Int8:
		return []byte{byte(val.Int())}
	case reflect.Uint16, reflect.Int16:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(intVal(val)))
		return buf
	case reflect.Uint32, reflect.Int32:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(intVal(val)))
		return buf
	case reflect.Uint64, reflect.Int64:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, intVal(val))
		return buf
	default:
		panic(fmt.Errorf("binstruct: not an integer kind: %v", val.Kind()))
	}
}

func intVal(val reflect.Value) uint64 {
	switch val.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return val.Uint()
	default:
		return uint64(val.Int())
	}
}
