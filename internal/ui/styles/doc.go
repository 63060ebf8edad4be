// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for rigrun-md.
//
// Colors are lipgloss.AdaptiveColor values so output reads on both light
// and dark terminals. Code regions are the exception: reasoning code is
// always drawn dark and answer code always light, mirroring the chroma
// themes in package codeblock.
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	box := theme.CodeContainer(codeblock.RegionAnswer).Render(code)
package styles
