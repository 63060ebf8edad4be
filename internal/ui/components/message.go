// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-md/internal/codeblock"
	"github.com/jeranaias/rigrun-md/internal/document"
	"github.com/jeranaias/rigrun-md/internal/i18n"
	"github.com/jeranaias/rigrun-md/internal/ui/styles"
)

// =============================================================================
// MESSAGE VIEW
// =============================================================================

// MessageView renders an assembled assistant message: the collapsible
// reasoning section, the answer and the image gallery.
type MessageView struct {
	Document    *document.Document
	Width       int
	LineNumbers bool

	theme        *styles.Theme
	labels       i18n.Labels
	glamourStyle string
	expanded     bool
	selected     string
	copied       func(id string) bool
	md           *MarkdownRenderer
}

// NewMessageView creates a view for doc. The reasoning section starts
// collapsed.
func NewMessageView(doc *document.Document, theme *styles.Theme, labels i18n.Labels) *MessageView {
	if doc == nil {
		doc = &document.Document{Options: document.DefaultOptions()}
	}
	return &MessageView{
		Document:     doc,
		Width:        80,
		LineNumbers:  true,
		theme:        theme,
		labels:       labels,
		glamourStyle: theme.GlamourStyle(),
	}
}

// SetWidth sets the view width.
func (v *MessageView) SetWidth(width int) {
	v.Width = width
}

// SetDocument swaps in a re-rendered document. Expansion is kept, and the
// selection is kept while its unit still exists.
func (v *MessageView) SetDocument(doc *document.Document) {
	if doc == nil {
		return
	}
	v.Document = doc
	if _, ok := doc.CodeUnit(v.selected); !ok || !v.visible(v.selected) {
		v.selected = ""
	}
}

// SetGlamourStyle overrides the markdown style ("dark", "light", "notty").
func (v *MessageView) SetGlamourStyle(style string) {
	v.glamourStyle = style
	v.md = nil
}

// SetCopiedFunc sets the lookup used for the copy indicator of each unit.
func (v *MessageView) SetCopiedFunc(fn func(id string) bool) {
	v.copied = fn
}

// ToggleReasoning flips the reasoning section and returns the new state.
func (v *MessageView) ToggleReasoning() bool {
	v.SetExpanded(!v.expanded)
	return v.expanded
}

// SetExpanded sets the reasoning section state. Collapsing drops a
// selection inside the section.
func (v *MessageView) SetExpanded(expanded bool) {
	v.expanded = expanded
	if !v.visible(v.selected) {
		v.selected = ""
	}
}

// Expanded reports whether the reasoning section is open.
func (v *MessageView) Expanded() bool {
	return v.expanded
}

// Selected returns the selected code unit.
func (v *MessageView) Selected() (codeblock.Unit, bool) {
	if v.selected == "" {
		return codeblock.Unit{}, false
	}
	return v.Document.CodeUnit(v.selected)
}

// SelectNext moves the selection to the next visible code unit, wrapping.
func (v *MessageView) SelectNext() (codeblock.Unit, bool) {
	return v.step(1)
}

// SelectPrev moves the selection to the previous visible code unit, wrapping.
func (v *MessageView) SelectPrev() (codeblock.Unit, bool) {
	return v.step(-1)
}

// ClearSelection drops the selection.
func (v *MessageView) ClearSelection() {
	v.selected = ""
}

func (v *MessageView) step(delta int) (codeblock.Unit, bool) {
	units := v.selectable()
	if len(units) == 0 {
		v.selected = ""
		return codeblock.Unit{}, false
	}
	idx := -1
	for i, u := range units {
		if u.ID == v.selected {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && delta < 0:
		idx = len(units) - 1
	case idx < 0:
		idx = 0
	default:
		idx = (idx + delta + len(units)) % len(units)
	}
	v.selected = units[idx].ID
	return units[idx], true
}

// selectable lists the code units currently on screen.
func (v *MessageView) selectable() []codeblock.Unit {
	var units []codeblock.Unit
	for _, u := range v.Document.CodeUnits() {
		if u.Region == codeblock.RegionReasoning && !v.expanded {
			continue
		}
		units = append(units, u)
	}
	return units
}

func (v *MessageView) visible(id string) bool {
	for _, u := range v.selectable() {
		if u.ID == id {
			return true
		}
	}
	return false
}

// View renders the message.
func (v *MessageView) View() string {
	doc := v.Document
	var parts []string

	if doc.HasReasoning() {
		parts = append(parts, RenderReasoning(doc.Reasoning, v.expanded, doc.Pending, v.theme, v.labels, v.renderNodes))
	} else if doc.Pending {
		parts = append(parts, v.theme.ReasoningPending.Render(v.labels.Thinking))
	}

	if doc.AnswerLabeled {
		parts = append(parts, v.theme.AnswerLabel.Render(v.labels.FinalAnswer))
	}
	if answer := v.renderNodes(doc.Answer); answer != "" {
		parts = append(parts, answer)
	}

	if gallery := RenderGallery(doc.Images, v.theme, v.labels, v.Width); gallery != "" {
		parts = append(parts, gallery)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderNodes renders a node sequence in order.
func (v *MessageView) renderNodes(nodes []document.Node) string {
	if len(nodes) == 0 {
		return ""
	}
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case document.CodeNode:
			out = append(out, v.renderCode(n.Unit))
		case document.MathNode:
			out = append(out, RenderMath(n, v.theme, v.Width))
		case document.MarkdownNode:
			if s := v.markdown().Render(n); s != "" {
				out = append(out, s)
			}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (v *MessageView) renderCode(u codeblock.Unit) string {
	block := NewCodeBlock(u, v.Document.Options.Themes.For(u.Region), v.theme)
	block.Header = v.Document.Options.HeaderStyle.CodeHeader(v.labels.Copy)
	block.CopiedLabel = v.labels.Copied
	block.Copied = v.copied != nil && v.copied(u.ID)
	block.Selected = u.ID == v.selected
	block.LineNumbers = v.LineNumbers
	block.MaxWidth = v.Width
	return block.Render()
}

// markdown returns a renderer for the current width and style, rebuilding
// it when either changes.
func (v *MessageView) markdown() *MarkdownRenderer {
	if v.md != nil && v.md.Width() == v.wrapWidth() && v.md.Style() == v.glamourStyle {
		return v.md
	}
	md, err := NewMarkdownRenderer(v.glamourStyle, v.wrapWidth())
	if err != nil {
		md, _ = NewMarkdownRenderer("notty", v.wrapWidth())
	}
	v.md = md
	return md
}

func (v *MessageView) wrapWidth() int {
	w := v.Width - 4
	if w < 20 {
		w = 20
	}
	return w
}
