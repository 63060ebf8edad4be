// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by rigrun-md packages.
//
// String Utilities:
//   - StringWidth, TruncateWidth, PadLeft, PadRight: column-aware text
//     layout backed by go-runewidth
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
