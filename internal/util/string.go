// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strconv"

	"github.com/mattn/go-runewidth"
)

// StringWidth returns the display width of s in terminal columns.
// East Asian wide characters count as 2.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth truncates s to maxWidth columns, ending with "..." when cut.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadLeft right-aligns s in a field of width columns.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// PadRight left-aligns s in a field of width columns.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// DigitCount returns the number of decimal digits in n, for gutter sizing.
func DigitCount(n int) int {
	if n < 0 {
		n = -n
	}
	count := 1
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}

// FormatPercent formats a 0..1 fraction as a whole percentage, clamped.
func FormatPercent(f float64) string {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return strconv.Itoa(int(f*100+0.5)) + "%"
}
