// rigrun-md - Render assistant messages in the terminal and as HTML.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"os"

	"github.com/jeranaias/rigrun-md/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
