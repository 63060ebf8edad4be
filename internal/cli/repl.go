// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Paste message text line by line and render it.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-md/internal/config"
	"github.com/jeranaias/rigrun-md/internal/model"
)

const replHelp = `Paste message text. Commands on a line of their own:
  .        render what was entered and start over
  :show    render without clearing
  :clear   drop the buffer
  :q       quit`

// lineReader is the part of liner the REPL needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func newReplCommand(app *App) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Paste a message interactively and render it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line := liner.NewLiner()
			line.SetCtrlCAborts(true)
			defer line.Close()

			history := historyPath()
			if f, err := os.Open(history); err == nil {
				_, _ = line.ReadHistory(f)
				f.Close()
			}
			defer saveHistory(line, history)

			return runRepl(cmd.Context(), app, flags, line)
		},
	}
	flags.register(cmd)
	return cmd
}

// runRepl feeds lines into a streaming message. Each render shows the
// message as it stands, so unterminated reasoning renders as it would
// mid-stream.
func runRepl(ctx context.Context, app *App, flags *renderFlags, in lineReader) error {
	fmt.Fprintln(app.Stdout, replHelp)

	msg := model.NewStreamingMessage()
	for {
		text, err := in.Prompt("md> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(app.Stdout)
				return nil
			}
			return err
		}

		switch strings.TrimSpace(text) {
		case ":q", ":quit":
			return nil
		case ":clear":
			msg = model.NewStreamingMessage()
			continue
		case ".", ":show":
			in.AppendHistory(strings.TrimSpace(text))
			if err := renderOnce(ctx, app, flags, msg); err != nil {
				fmt.Fprintln(app.Stderr, "Error:", err)
			}
			if strings.TrimSpace(text) == "." {
				msg = model.NewStreamingMessage()
			}
			continue
		}
		msg.AppendToken(text + "\n")
	}
}

func historyPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "md_history")
}

func saveHistory(line *liner.State, path string) {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.WriteHistory(f)
}
