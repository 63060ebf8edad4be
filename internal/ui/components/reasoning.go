// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-md/internal/document"
	"github.com/jeranaias/rigrun-md/internal/i18n"
	"github.com/jeranaias/rigrun-md/internal/ui/styles"
)

// =============================================================================
// REASONING SECTION
// =============================================================================

// ReasoningHeader renders the toggle line of the reasoning section.
func ReasoningHeader(expanded, pending bool, theme *styles.Theme, labels i18n.Labels) string {
	chevron := styles.StatusIndicators.Collapsed
	if expanded {
		chevron = styles.StatusIndicators.Expanded
	}
	header := theme.ReasoningHeader.Render(chevron + " " + labels.Reasoning)
	if pending {
		header += " " + theme.ReasoningPending.Render(labels.Thinking)
	}
	return header
}

// RenderReasoning renders the section. Collapsed sections show only the
// header; expanded ones list every span in order inside the reasoning box.
func RenderReasoning(sec *document.ReasoningSection, expanded, pending bool, theme *styles.Theme, labels i18n.Labels, body func([]document.Node) string) string {
	header := ReasoningHeader(expanded, pending, theme, labels)
	if !expanded || sec == nil {
		return header
	}

	spans := make([]string, 0, len(sec.Spans))
	for _, span := range sec.Spans {
		if len(span.Nodes) == 0 {
			continue
		}
		spans = append(spans, body(span.Nodes))
	}
	if len(spans) == 0 {
		return header
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		theme.ReasoningBox.Render(lipgloss.JoinVertical(lipgloss.Left, spans...)),
	)
}
