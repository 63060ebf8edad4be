// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package preview

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigrun-md/internal/image"
	"github.com/jeranaias/rigrun-md/internal/model"
)

// =============================================================================
// MESSAGES
// =============================================================================

// LoadedMsg carries a freshly loaded message.
type LoadedMsg struct {
	Message *model.Message
	Err     error
}

// FileChangedMsg is sent by the watcher when the source file changes.
type FileChangedMsg struct {
	Path string
}

// ImagesMsg carries probe results for one render generation.
type ImagesMsg struct {
	Gen   int
	Units []image.Unit
}

// CopyResultMsg reports the outcome of a copy request.
type CopyResultMsg struct {
	ID  string
	Err error
}

// CopyStateMsg is sent when a unit's copied indicator flips.
type CopyStateMsg struct {
	ID     string
	Copied bool
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) loadCmd() tea.Cmd {
	load := m.cfg.Load
	return func() tea.Msg {
		msg, err := load()
		return LoadedMsg{Message: msg, Err: err}
	}
}

func (m Model) probeCmd(gen int, units []image.Unit) tea.Cmd {
	if m.cfg.Prober == nil || len(units) == 0 {
		return nil
	}
	prober, limit, logger := m.cfg.Prober, m.cfg.ProbeConcurrency, m.logger
	return func() tea.Msg {
		return ImagesMsg{Gen: gen, Units: image.Load(context.Background(), units, prober, limit, logger)}
	}
}

func (m Model) copyCmd(id, text string) tea.Cmd {
	board := m.cfg.Board
	return func() tea.Msg {
		return CopyResultMsg{ID: id, Err: board.Copy(context.Background(), id, text)}
	}
}
