// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/rigrun-md/internal/document"
	"github.com/jeranaias/rigrun-md/internal/markdown"
	"github.com/jeranaias/rigrun-md/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders markdown nodes through glamour. Single newlines
// are kept as line breaks.
type MarkdownRenderer struct {
	tr    *glamour.TermRenderer
	style string
	width int
}

// NewMarkdownRenderer creates a renderer for a glamour standard style
// ("dark", "light", "notty", ...) wrapping at width.
func NewMarkdownRenderer(style string, width int) (*MarkdownRenderer, error) {
	if width < 20 {
		width = 20
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return &MarkdownRenderer{tr: tr, style: style, width: width}, nil
}

// Width returns the wrap width.
func (r *MarkdownRenderer) Width() int {
	return r.width
}

// Style returns the glamour style name.
func (r *MarkdownRenderer) Style() string {
	return r.style
}

// Render renders n with inline math converted to Unicode. If glamour
// fails the source is returned unchanged.
func (r *MarkdownRenderer) Render(n document.MarkdownNode) string {
	src := markdown.Block{Source: n.Source, InlineMath: n.InlineMath}.ReplaceInlineMath(inlineMath)
	out, err := r.tr.Render(src)
	if err != nil {
		return n.Source
	}
	return strings.Trim(out, "\n")
}

// inlineMath renders TeX as an inline code span so emphasis markers in the
// result are not reinterpreted.
func inlineMath(tex string) string {
	text := markdown.TeXToUnicode(tex)
	if strings.Contains(text, "`") {
		return text
	}
	return "`" + text + "`"
}

// =============================================================================
// MATH
// =============================================================================

// RenderMath renders display math centered in a box.
func RenderMath(n document.MathNode, theme *styles.Theme, width int) string {
	box := theme.MathBox
	if width > 4 {
		box = box.Width(width - 2)
	}
	return box.Render(markdown.TeXToUnicode(n.TeX))
}
