// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// watch.go - Re-render a message file whenever it changes.

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/rigrun-md/internal/model"
	"github.com/jeranaias/rigrun-md/internal/watch"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

func newWatchCommand(app *App) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a message every time the file changes",
		Long: `Re-render a message every time the file changes.

Useful while a model streams into the file: partial reasoning markers render
as plain text until they are closed. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), app, flags, args[0])
		},
	}
	flags.register(cmd)
	return cmd
}

func runWatch(ctx context.Context, app *App, flags *renderFlags, path string) error {
	clearFirst := flags.output == "" && IsStdoutTTY()

	render := func() {
		msg, err := model.LoadMessage(path)
		if err != nil {
			app.Logger.Warn("reload failed", zap.String("path", path), zap.Error(err))
			fmt.Fprintln(app.Stderr, "Error:", err)
			return
		}
		if clearFirst {
			_, _ = io.WriteString(app.Stdout, clearScreen)
		}
		if err := renderOnce(ctx, app, flags, msg); err != nil {
			app.Logger.Warn("render failed", zap.String("path", path), zap.Error(err))
			fmt.Fprintln(app.Stderr, "Error:", err)
		}
	}

	render()

	changes := make(chan struct{}, 1)
	w, err := watch.Start(ctx, path, func(string) {
		select {
		case changes <- struct{}{}:
		default:
		}
	}, watchOptions(app))
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			render()
		}
	}
}
