// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// preview.go - Interactive preview with live reload.

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-md/internal/clipboard"
	"github.com/jeranaias/rigrun-md/internal/document"
	"github.com/jeranaias/rigrun-md/internal/image"
	"github.com/jeranaias/rigrun-md/internal/model"
	"github.com/jeranaias/rigrun-md/internal/ui/preview"
	"github.com/jeranaias/rigrun-md/internal/ui/styles"
	"github.com/jeranaias/rigrun-md/internal/watch"
)

func newPreviewCommand(app *App) *cobra.Command {
	flags := &renderFlags{}
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Open a message in the interactive viewer",
		Long: `Open a message in the interactive viewer.

Keys: t toggles reasoning, tab/shift+tab select a code block, c copies it,
r reloads, ? shows help, q quits. The file is watched for changes unless
--no-watch is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := RequiresTTY("preview"); err != nil {
				return err
			}
			return runPreview(cmd.Context(), app, flags, args[0], !noWatch)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload on file changes")
	return cmd
}

func runPreview(ctx context.Context, app *App, flags *renderFlags, path string, live bool) error {
	opts, err := flags.options(app)
	if err != nil {
		return err
	}

	board := clipboard.NewBoard(&clipboard.SystemWriter{Terminal: app.Stdout},
		clipboard.WithLogger(app.Logger))

	cfg := preview.Config{
		Source:           path,
		Load:             func() (*model.Message, error) { return model.LoadMessage(path) },
		Pipeline:         document.New(opts).WithLogger(app.Logger),
		Theme:            styles.NewTheme(app.Config.UI.Theme),
		Labels:           app.Labels(),
		Board:            board,
		ProbeConcurrency: app.Config.Images.Concurrency,
		LineNumbers:      app.Config.Code.LineNumbers,
		Logger:           app.Logger,
	}
	if flags.probe || app.Config.Images.Probe {
		cfg.Prober = image.NewHTTPProber(app.Config.ProbeTimeout())
	}

	var watchFn func(func(string)) (func(), error)
	if live {
		watchFn = func(notify func(string)) (func(), error) {
			wctx, cancel := context.WithCancel(ctx)
			w, err := watch.Start(wctx, path, notify, watchOptions(app))
			if err != nil {
				cancel()
				return nil, err
			}
			return func() {
				cancel()
				_ = w.Close()
			}, nil
		}
	}
	return preview.Run(cfg, watchFn)
}

func watchOptions(app *App) watch.Options {
	opts := watch.DefaultOptions()
	opts.Debounce = app.Config.Debounce()
	opts.MaxPerSecond = app.Config.Watch.MaxRendersPerSec
	opts.Logger = app.Logger
	return opts
}
