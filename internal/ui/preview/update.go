// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package preview

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/rigrun-md/internal/ui/components"
)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.resize()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case LoadedMsg:
		return m.handleLoaded(msg)

	case FileChangedMsg:
		m.logger.Debug("source changed", zap.String("path", msg.Path))
		m.status.SetStatus(components.StatusLoading)
		return m, m.loadCmd()

	case ImagesMsg:
		if msg.Gen == m.gen {
			m.view.Document.SetImages(msg.Units)
			m.refresh()
		}
		return m, nil

	case CopyResultMsg:
		// failed writes are logged by the clipboard action; the state stays idle
		if msg.Err != nil {
			m.logger.Debug("copy failed", zap.String("id", msg.ID), zap.Error(msg.Err))
			return m, nil
		}
		m.status.SetMessage(m.cfg.Labels.Copied)
		m.refresh()
		return m, nil

	case CopyStateMsg:
		if !msg.Copied {
			m.status.SetMessage(m.spinner.View())
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.spinner.IsActive() {
			m.status.SetMessage(m.spinner.View())
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleLoaded(msg LoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.logger.Warn("load message failed", zap.Error(msg.Err))
		m.status.SetStatus(components.StatusError)
		m.status.SetMessage(msg.Err.Error())
		m.refresh()
		return m, nil
	}

	m.err = nil
	m.message = msg.Message
	doc := m.cfg.Pipeline.Render(msg.Message)
	m.view.SetDocument(doc)

	ids := make([]string, 0)
	for _, u := range doc.CodeUnits() {
		ids = append(ids, u.ID)
	}
	m.cfg.Board.Retain(ids)

	m.gen++
	if msg.Message != nil && msg.Message.IsStreaming {
		m.status.SetStatus(components.StatusStreaming)
	} else {
		m.status.SetStatus(components.StatusReady)
	}
	// an open reasoning block means the source is still being written
	probe := m.probeCmd(m.gen, doc.Images)
	if !doc.Pending {
		m.spinner.Stop()
		m.status.SetMessage("")
		m.refresh()
		return m, probe
	}
	tick := m.spinner.Start()
	m.status.SetMessage(m.spinner.View())
	m.refresh()
	if tick == nil {
		return m, probe
	}
	return m, tea.Batch(probe, tick)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.resize()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.view.ToggleReasoning()
		m.syncSelection()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.view.SelectNext()
		m.syncSelection()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.view.SelectPrev()
		m.syncSelection()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		u, ok := m.view.Selected()
		if !ok {
			if u, ok = m.view.SelectNext(); !ok {
				return m, nil
			}
			m.syncSelection()
			m.refresh()
		}
		return m, m.copyCmd(u.ID, u.CopyText)

	case key.Matches(msg, m.keys.Reload):
		m.status.SetStatus(components.StatusLoading)
		return m, m.loadCmd()

	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
	}
	m.status.Scroll = m.viewport.ScrollPercent()
	return m, nil
}

func (m *Model) syncSelection() {
	if u, ok := m.view.Selected(); ok {
		m.status.Selected = u.Language
		if m.status.Selected == "" {
			m.status.Selected = u.ID
		}
	} else {
		m.status.Selected = ""
	}
}

// resize lays out the viewport between the content and the chrome.
func (m *Model) resize() {
	m.help.Width = m.width
	m.status.SetWidth(m.width)

	reserved := lipgloss.Height(m.status.View())
	if m.showHelp {
		reserved += lipgloss.Height(m.help.View(m.keys))
	}
	height := m.height - reserved
	if height < 1 {
		height = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = height
}

// refresh re-renders the message into the viewport.
func (m *Model) refresh() {
	m.view.SetWidth(m.width)
	if m.width == 0 {
		m.view.SetWidth(80)
	}
	m.viewport.SetContent(m.view.View())
	m.status.Scroll = m.viewport.ScrollPercent()
}
