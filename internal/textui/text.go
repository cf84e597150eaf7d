// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package textui holds small human-friendly formatting helpers for
// the walk's summary log line, mirroring the teacher's own
// lib/textui helpers built on golang.org/x/text.
package textui

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Portion renders a fraction N/D as both a percentage and,
// parenthetically, the exact fractional value with human-friendly
// thousands separators.
//
// For example: Portion{N: 1, D: 12345}.String() == "0% (1/12,345)"
type Portion struct {
	N, D int
}

var _ fmt.Stringer = Portion{}

func (p Portion) String() string {
	pct := float64(1)
	if p.D > 0 {
		pct = float64(p.N) / float64(p.D)
	}
	return printer.Sprintf("%v (%v/%v)", number.Percent(pct), p.N, p.D)
}

// Int renders an integer with thousands separators, e.g. 12345 ->
// "12,345".
func Int(n int) string {
	return printer.Sprintf("%v", n)
}
