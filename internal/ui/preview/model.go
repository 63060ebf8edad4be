// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package preview is the interactive terminal viewer for one assistant
// message. It re-renders when the source file changes.
package preview

import (
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/rigrun-md/internal/clipboard"
	"github.com/jeranaias/rigrun-md/internal/document"
	"github.com/jeranaias/rigrun-md/internal/i18n"
	"github.com/jeranaias/rigrun-md/internal/image"
	"github.com/jeranaias/rigrun-md/internal/model"
	"github.com/jeranaias/rigrun-md/internal/ui/components"
	"github.com/jeranaias/rigrun-md/internal/ui/styles"
)

// ErrNoLoader is returned when Config has no Load function.
var ErrNoLoader = errors.New("preview: no message loader")

// Config wires the preview to its collaborators.
type Config struct {
	// Source names the previewed file in the status bar.
	Source string
	// Load reads the current message. It runs on every reload.
	Load     func() (*model.Message, error)
	Pipeline *document.Pipeline
	Theme    *styles.Theme
	Labels   i18n.Labels
	Board    *clipboard.Board
	// Prober checks image URLs. Nil leaves images pending.
	Prober           image.Prober
	ProbeConcurrency int
	LineNumbers      bool
	// GlamourStyle overrides the theme's markdown style when set.
	GlamourStyle string
	Logger       *zap.Logger
}

// Model is the Bubble Tea model of the preview.
type Model struct {
	cfg    Config
	logger *zap.Logger

	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	view     *components.MessageView
	status   *components.StatusBar
	spinner  components.Spinner

	message  *model.Message
	gen      int
	width    int
	height   int
	ready    bool
	showHelp bool
	err      error
}

// New creates the preview model.
func New(cfg Config) (Model, error) {
	if cfg.Load == nil {
		return Model{}, ErrNoLoader
	}
	if cfg.Pipeline == nil {
		cfg.Pipeline = document.New(document.DefaultOptions())
	}
	if cfg.Theme == nil {
		cfg.Theme = styles.NewTheme("auto")
	}
	if cfg.Labels.IsZero() {
		cfg.Labels = i18n.English()
	}
	if cfg.Board == nil {
		cfg.Board = clipboard.NewBoard(clipboard.NewSystemWriter())
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	view := components.NewMessageView(nil, cfg.Theme, cfg.Labels)
	view.LineNumbers = cfg.LineNumbers
	if cfg.GlamourStyle != "" {
		view.SetGlamourStyle(cfg.GlamourStyle)
	}
	board := cfg.Board
	view.SetCopiedFunc(board.Copied)

	status := components.NewStatusBar(cfg.Theme)
	status.Source = cfg.Source
	status.SetStatus(components.StatusLoading)

	return Model{
		cfg:      cfg,
		logger:   logger,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(80, 20),
		view:     view,
		status:   status,
		spinner:  components.NewSpinner(cfg.Labels.Thinking, cfg.Theme),
	}, nil
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

// Document returns the document on screen.
func (m Model) Document() *document.Document {
	return m.view.Document
}

// Err returns the last load error.
func (m Model) Err() error {
	return m.err
}

// Run starts the preview program. When watchFn is set it is called with a
// callback that delivers file changes to the program, and its returned stop
// function runs on exit.
func Run(cfg Config, watchFn func(notify func(path string)) (stop func(), err error)) error {
	m, err := New(cfg)
	if err != nil {
		return err
	}
	defer m.cfg.Board.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	m.cfg.Board.OnChange(func(id string, copied bool) {
		p.Send(CopyStateMsg{ID: id, Copied: copied})
	})

	if watchFn != nil {
		stop, err := watchFn(func(path string) {
			p.Send(FileChangedMsg{Path: path})
		})
		if err != nil {
			return err
		}
		defer stop()
	}

	_, err = p.Run()
	return err
}
