// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package codeblock

import (
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
)

// =============================================================================
// HTML OUTPUT
// =============================================================================

var htmlFormatter = chromahtml.New(
	chromahtml.WithLineNumbers(true),
	chromahtml.WithClasses(false),
	chromahtml.TabWidth(4),
)

// Header selects what is drawn above a code block.
type Header struct {
	ShowLanguage bool
	// CopyLabel is the copy button label; empty omits the button.
	CopyLabel string
}

// HTML renders the unit as a line-numbered <pre> inside a themed container.
// The copy button carries the copy text in a data attribute.
func HTML(u Unit, theme Theme, header Header) (string, error) {
	style := theme.Style()
	if !u.Recognized {
		// plain text keeps the theme colors and nothing else
		style = plainStyle(theme)
	}

	var body strings.Builder
	if err := htmlFormatter.Format(&body, style, chroma.Literator(u.tokens()...)); err != nil {
		return "", fmt.Errorf("format code block %s: %w", u.ID, err)
	}

	border := "none"
	if theme.Bordered {
		border = "1px solid #eaeaea"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="code-block code-%s" id="code-%s" style="background:%s;color:%s;font-size:%.1fem;border:%s">`,
		html.EscapeString(theme.Name), html.EscapeString(u.ID),
		html.EscapeString(theme.Background), html.EscapeString(theme.Foreground),
		theme.FontScale, border)
	if header.ShowLanguage || header.CopyLabel != "" {
		sb.WriteString(`<div class="code-header">`)
		if header.ShowLanguage && u.Language != "" {
			fmt.Fprintf(&sb, `<span class="code-lang">%s</span>`, html.EscapeString(strings.ToUpper(u.Language)))
		}
		if header.CopyLabel != "" {
			fmt.Fprintf(&sb, `<button class="copy-btn" title="%s" data-copy="%s">%s</button>`,
				html.EscapeString(header.CopyLabel), html.EscapeString(u.CopyText), html.EscapeString(header.CopyLabel))
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(body.String())
	sb.WriteString("</div>\n")
	return sb.String(), nil
}

// plainStyle is a style with only the theme's base colors.
func plainStyle(theme Theme) *chroma.Style {
	s, err := chroma.NewStyle("plain-"+theme.Name, chroma.StyleEntries{
		chroma.Background: "bg:" + theme.Background + " " + theme.Foreground,
		chroma.LineNumbers: "#6b7280",
	})
	if err != nil {
		return theme.Style()
	}
	return s
}
