// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package binstruct

import (
	"fmt"
	"reflect"
)

type structField struct {
	name string
	tag
}

type structHandler struct {
	Size   int
	fields []structField
}

func (sh structHandler) Unmarshal(dat []byte, dst reflect.Value) (int, error) {
	var n int
	for i, field := range sh.fields {
		if field.skip {
			continue
		}
		fieldPtr := dst.Field(i).Addr().Interface()
		_n, err := Unmarshal(dat[n:], fieldPtr)
		n += _n
		if err != nil {
			return n, fmt.Errorf("field %d %q: %w", i, field.name, err)
		}
		if _n != field.siz {
			return n, fmt.Errorf("field %d %q: consumed %d bytes but tag declares %d",
				i, field.name, _n, field.siz)
		}
	}
	return n, nil
}

func (sh structHandler) Marshal(val reflect.Value) ([]byte, error) {
	ret := make([]byte, 0, sh.Size)
	for i, field := range sh.fields {
		if field.skip {
			continue
		}
		bs, err := Marshal(val.Field(i).Interface())
		ret = append(ret, bs...)
		if err != nil {
			return ret, fmt.Errorf("field %d %q: %w", i, field.name, err)
		}
	}
	return ret, nil
}

func genStructHandler(structType reflect.Type) (structHandler, error) {
	var ret structHandler

	var curOffset, endOffset int
	haveEnd := false
	for i := 0; i < structType.NumField(); i++ {
		fieldInfo := structType.Field(i)

		fieldTag, err := parseStructTag(fieldInfo.Tag.Get("bin"))
		if err != nil {
			return ret, fmt.Errorf("%v: field %q: %w", structType, fieldInfo.Name, err)
		}
		if fieldTag.skip {
			ret.fields = append(ret.fields, structField{name: fieldInfo.Name, tag: fieldTag})
			continue
		}

		if fieldTag.off != curOffset {
			return ret, fmt.Errorf("%v: field %q: tag says off=0x%x but preceding fields end at 0x%x",
				structType, fieldInfo.Name, fieldTag.off, curOffset)
		}
		if fieldInfo.Type == endType {
			endOffset = curOffset
			haveEnd = true
		}

		fieldSize := staticSizeOfType(fieldInfo.Type)
		if fieldTag.siz != fieldSize {
			return ret, fmt.Errorf("%v: field %q: tag says siz=0x%x but type %v has static size 0x%x",
				structType, fieldInfo.Name, fieldTag.siz, fieldInfo.Type, fieldSize)
		}
		curOffset += fieldTag.siz

		ret.fields = append(ret.fields, structField{name: fieldInfo.Name, tag: fieldTag})
	}
	ret.Size = curOffset

	if !haveEnd {
		return ret, fmt.Errorf("%v: missing binstruct.End field declaring total size", structType)
	}
	if ret.Size != endOffset {
		return ret, fmt.Errorf("%v: final size 0x%x does not match binstruct.End offset 0x%x",
			structType, ret.Size, endOffset)
	}

	return ret, nil
}

var structCache = make(map[reflect.Type]structHandler)

func getStructHandler(typ reflect.Type) structHandler {
	if h, ok := structCache[typ]; ok {
		return h
	}
	h, err := genStructHandler(typ)
	if err != nil {
		panic(err)
	}
	structCache[typ] = h
	return h
}
