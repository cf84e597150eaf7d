// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package binstruct

import (
	"fmt"
	"reflect"
)

// StaticSize returns the fixed on-disk byte size of obj's type.
func StaticSize(obj any) int {
	return staticSizeOfType(reflect.TypeOf(obj))
}

func staticSizeOfType(typ reflect.Type) int {
	if typ == endType {
		return 0
	}
	if reflect.PtrTo(typ).Implements(staticSizerType) {
		return reflect.New(typ).Interface().(StaticSizer).BinaryStaticSize()
	}
	switch typ.Kind() {
	case reflect.Uint8, reflect.Int8:
		return 1
	case reflect.Uint16, reflect.Int16:
		return 2
	case reflect.Uint32, reflect.Int32:
		return 4
	case reflect.Uint64, reflect.Int64:
		return 8
	case reflect.Ptr:
		return staticSizeOfType(typ.Elem())
	case reflect.Array:
		return staticSizeOfType(typ.Elem()) * typ.Len()
	case reflect.Struct:
		return getStructHandler(typ).Size
	default:
		panic(fmt.Errorf("binstruct: type %v is not a statically-sized kind", typ))
	}
}
