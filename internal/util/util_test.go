// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.html")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0644))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestAtomicWriteFileCleansUpOnFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0755))

	err := AtomicWriteFile(target, []byte("x"), 0644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replace")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file removed after a failed rename")
}

func TestAtomicWriteFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, AtomicWriteFile(path, nil, 0600))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

// =============================================================================
// WIDTH TESTS
// =============================================================================

func TestStringWidth(t *testing.T) {
	assert.Equal(t, 5, StringWidth("hello"))
	assert.Equal(t, 4, StringWidth("思考"))
	assert.Equal(t, 0, StringWidth(""))
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 0, ""},
		{"hello", 2, "he"},
		{"图片加载失败", 7, "图片..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateWidth(tt.in, tt.width), "%q/%d", tt.in, tt.width)
	}
}

func TestPad(t *testing.T) {
	assert.Equal(t, "  7", PadLeft("7", 3))
	assert.Equal(t, "7  ", PadRight("7", 3))
	assert.Equal(t, " 中", PadLeft("中", 3))
}

func TestDigitCount(t *testing.T) {
	assert.Equal(t, 1, DigitCount(0))
	assert.Equal(t, 1, DigitCount(9))
	assert.Equal(t, 2, DigitCount(10))
	assert.Equal(t, 3, DigitCount(-120))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0%", FormatPercent(-1))
	assert.Equal(t, "50%", FormatPercent(0.5))
	assert.Equal(t, "100%", FormatPercent(2))
}
