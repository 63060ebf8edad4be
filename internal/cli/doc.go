// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the rigrun-md command line with cobra.
//
// # Commands
//
//   - render: one-shot render to the terminal, HTML, JSON or Markdown
//   - preview: interactive viewer with live reload
//   - watch: re-render to stdout on every file change
//   - repl: paste a message line by line
//   - config: show, path, keys, get, set, init
//   - version
//
// # Usage
//
//	os.Exit(cli.Execute())
package cli
