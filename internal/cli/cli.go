// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Root command and shared state for rigrun-md.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/rigrun-md/internal/config"
	"github.com/jeranaias/rigrun-md/internal/i18n"
	"github.com/jeranaias/rigrun-md/internal/logging"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App carries what every command needs.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// flags
	configPath string
	logLevel   string
	theme      string
	locale     string
	verbose    bool
}

// NewApp creates an App bound to the process streams.
func NewApp() *App {
	return &App{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: zap.NewNop(),
	}
}

// Labels returns the UI strings for the configured locale.
func (a *App) Labels() i18n.Labels {
	return i18n.For(a.Config.Locale())
}

// NewRootCommand builds the command tree.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "rigrun-md",
		Short: "Render assistant messages with reasoning, code, math and images",
		Long: `rigrun-md renders one assistant message the way a chat UI shows it:
reasoning in a collapsible section, a labelled final answer, highlighted code
blocks with copy buttons, math, and an image gallery.

Messages are read from a file (.md/.txt as plain content, .json/.yaml with
attachments) or from stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "config file (default ~/.rigrun/md.toml)")
	flags.StringVar(&app.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&app.theme, "theme", "", "terminal theme: auto, dark, light")
	flags.StringVar(&app.locale, "locale", "", "UI language, e.g. en or zh-CN")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "debug logging")

	root.SetIn(app.Stdin)
	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)

	root.AddCommand(
		newRenderCommand(app),
		newPreviewCommand(app),
		newWatchCommand(app),
		newReplCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)
	return root
}

// setup loads config, applies flag overrides and builds the logger.
func (a *App) setup() error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFromPath(a.configPath)
		if err != nil {
			return err
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return err
		}
	}
	loadErr := err

	if a.theme != "" {
		cfg.UI.Theme = strings.ToLower(a.theme)
	}
	if a.locale != "" {
		cfg.UI.Locale = a.locale
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	a.Config = cfg

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.Logger = logger
	if loadErr != nil {
		logger.Warn("config file ignored, using defaults", zap.Error(loadErr))
	}
	return nil
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rigrun-md %s (commit %s, built %s, %s %s/%s)\n",
				Version, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, cancel := signalContext(context.Background())
	defer cancel()

	app := NewApp()
	root := NewRootCommand(app)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(app.Stderr, "Error:", err)
		return 1
	}
	return 0
}
