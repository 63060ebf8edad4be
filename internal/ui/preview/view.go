// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package preview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-md/internal/ui/components"
)

// View renders the preview.
func (m Model) View() string {
	if !m.ready {
		return components.StatusLoading.String()
	}
	parts := []string{m.viewport.View()}
	if m.showHelp {
		parts = append(parts, m.help.View(m.keys))
	}
	parts = append(parts, m.status.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
