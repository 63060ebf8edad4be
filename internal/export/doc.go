// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes assembled messages to standalone formats.
//
// # Key Types
//
//   - Exporter: Main export interface
//   - Options: Export configuration options
//   - Tree: JSON form of a document for hosting UIs
//
// # Supported Formats
//
//   - HTML: Standalone page with collapsible reasoning, chroma code blocks,
//     copy buttons, math delimiters and the image gallery
//   - JSON: The render tree, including code tokens and image states
//   - Markdown: Portable Markdown with YAML front matter
//
// # Usage
//
//	exp, err := export.New("html", export.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	page, err := exp.Export(doc)
package export
