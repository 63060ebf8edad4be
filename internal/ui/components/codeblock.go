// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-md/internal/codeblock"
	"github.com/jeranaias/rigrun-md/internal/ui/styles"
	"github.com/jeranaias/rigrun-md/internal/util"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock renders a formatted code unit for the terminal.
type CodeBlock struct {
	Unit      codeblock.Unit
	CodeTheme codeblock.Theme
	Header    codeblock.Header
	// CopiedLabel replaces the copy label while Copied is set.
	CopiedLabel string
	Copied      bool
	Selected    bool
	LineNumbers bool
	MaxWidth    int

	theme *styles.Theme
}

// NewCodeBlock creates a code block view for u.
func NewCodeBlock(u codeblock.Unit, codeTheme codeblock.Theme, theme *styles.Theme) CodeBlock {
	return CodeBlock{
		Unit:        u,
		CodeTheme:   codeTheme,
		LineNumbers: true,
		MaxWidth:    80,
		theme:       theme,
	}
}

// Render renders the code block with styling.
func (c CodeBlock) Render() string {
	base := lipgloss.NewStyle().
		Background(lipgloss.Color(c.CodeTheme.Background)).
		Foreground(lipgloss.Color(c.CodeTheme.Foreground))

	style := c.CodeTheme.Style()
	digits := util.DigitCount(len(c.Unit.Lines))
	gutter := c.theme.CodeLineNum.Background(lipgloss.Color(c.CodeTheme.Background))

	rendered := make([]string, 0, len(c.Unit.Lines))
	for _, line := range c.Unit.Lines {
		var sb strings.Builder
		if c.LineNumbers {
			sb.WriteString(gutter.Render(util.PadLeft(strconv.Itoa(line.Number), digits)))
		}
		for _, tok := range line.Tokens {
			ts := base
			if c.Unit.Recognized {
				ts = tokenStyle(style, tok.Kind, base)
			}
			sb.WriteString(ts.Render(tok.Value))
		}
		rendered = append(rendered, sb.String())
	}

	body := strings.Join(rendered, "\n")
	if header := c.renderHeader(); header != "" {
		body = header + "\n" + body
	}

	maxWidth := c.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	container := c.theme.CodeContainer(c.Unit.Region)
	if c.Selected {
		container = container.
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(styles.SelectionBorder)
	}
	return container.MaxWidth(maxWidth).Render(body)
}

// renderHeader draws the language badge and copy affordance.
func (c CodeBlock) renderHeader() string {
	var parts []string
	if c.Header.ShowLanguage && c.Unit.Language != "" {
		parts = append(parts, c.theme.CodeLangBadge.Render(strings.ToUpper(c.Unit.Language)))
	}
	if c.Header.CopyLabel != "" {
		if c.Copied {
			parts = append(parts, c.theme.CodeCopied.Render(styles.StatusIndicators.Success+" "+c.CopiedLabel))
		} else {
			parts = append(parts, c.theme.CodeCopyBtn.Render("[c] "+c.Header.CopyLabel))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// tokenStyle maps a chroma style entry onto lipgloss.
func tokenStyle(style *chroma.Style, kind chroma.TokenType, base lipgloss.Style) lipgloss.Style {
	entry := style.Get(kind)
	s := base
	if entry.Colour.IsSet() {
		s = s.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		s = s.Underline(true)
	}
	return s
}
