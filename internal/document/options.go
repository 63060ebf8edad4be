// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"fmt"
	"strings"

	"github.com/jeranaias/rigrun-md/internal/codeblock"
	"github.com/jeranaias/rigrun-md/internal/extract"
)

// =============================================================================
// HEADER STYLE
// =============================================================================

// HeaderStyle controls what is drawn above each code block.
type HeaderStyle int

const (
	// HeaderNone draws no header.
	HeaderNone HeaderStyle = iota
	// HeaderLanguage draws the language badge.
	HeaderLanguage
	// HeaderLanguageCopy draws the language badge and the copy affordance.
	HeaderLanguageCopy
)

// String returns the config name of the style.
func (h HeaderStyle) String() string {
	switch h {
	case HeaderNone:
		return "none"
	case HeaderLanguage:
		return "language"
	case HeaderLanguageCopy:
		return "language+copy"
	default:
		return "unknown"
	}
}

// ShowsCopy reports whether the copy affordance is drawn.
func (h HeaderStyle) ShowsCopy() bool {
	return h == HeaderLanguageCopy
}

// ShowsLanguage reports whether the language badge is drawn.
func (h HeaderStyle) ShowsLanguage() bool {
	return h == HeaderLanguage || h == HeaderLanguageCopy
}

// ParseHeaderStyle parses a config value.
func ParseHeaderStyle(s string) (HeaderStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return HeaderNone, nil
	case "language", "lang":
		return HeaderLanguage, nil
	case "language+copy", "copy", "":
		return HeaderLanguageCopy, nil
	default:
		return HeaderLanguageCopy, fmt.Errorf("unknown header style %q", s)
	}
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures one rendering pipeline. The same assembler serves every
// host; hosts differ only in the options they pass.
type Options struct {
	// ShowReasoningSections wraps extracted reasoning in a collapsible section.
	// When false, reasoning is still removed from the prose but not shown.
	ShowReasoningSections bool
	// HeaderStyle applies to every code block.
	HeaderStyle HeaderStyle
	// ImageGallery appends resolved images after the content.
	ImageGallery bool
	// FinalAnswerLabel labels the prose when a reasoning section is present.
	FinalAnswerLabel bool
	// BaseURL is prepended to relative image URLs.
	BaseURL string
	// ImagePolicy selects where implicit image URLs are scraped from.
	ImagePolicy extract.ImagePolicy
	// Themes holds the code block theme per region.
	Themes codeblock.Themes
}

// DefaultOptions returns options with every section enabled.
func DefaultOptions() Options {
	return Options{
		ShowReasoningSections: true,
		HeaderStyle:           HeaderLanguageCopy,
		ImageGallery:          true,
		FinalAnswerLabel:      true,
		ImagePolicy:           extract.ScanContent,
		Themes:                codeblock.DefaultThemes(),
	}
}

// CodeHeader maps the style onto a code block header with copyLabel as
// the copy button text.
func (h HeaderStyle) CodeHeader(copyLabel string) codeblock.Header {
	header := codeblock.Header{ShowLanguage: h.ShowsLanguage()}
	if h.ShowsCopy() {
		header.CopyLabel = copyLabel
	}
	return header
}
