// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/rigrun-md/internal/codeblock"
)

// Theme holds all the styled components for rendered messages.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// REASONING SECTION
	// ==========================================================================

	ReasoningBox     lipgloss.Style
	ReasoningHeader  lipgloss.Style
	ReasoningPending lipgloss.Style

	// ==========================================================================
	// ANSWER
	// ==========================================================================

	AnswerLabel lipgloss.Style
	MathBox     lipgloss.Style

	// ==========================================================================
	// CODE BLOCKS
	// ==========================================================================

	CodeReasoning lipgloss.Style
	CodeAnswer    lipgloss.Style
	CodeSelected  lipgloss.Style
	CodeLangBadge lipgloss.Style
	CodeCopyBtn   lipgloss.Style
	CodeCopied    lipgloss.Style
	CodeLineNum   lipgloss.Style

	// ==========================================================================
	// IMAGES
	// ==========================================================================

	ImageFrame       lipgloss.Style
	ImagePending     lipgloss.Style
	ImageFailed      lipgloss.Style
	ImagePlaceholder lipgloss.Style
	GalleryTitle     lipgloss.Style

	// ==========================================================================
	// CHROME
	// ==========================================================================

	StatusBar lipgloss.Style
	LinkStyle lipgloss.Style
	ErrorText lipgloss.Style
}

// NewTheme creates a theme. mode is "auto", "dark" or "light"; anything
// else is treated as auto.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Reasoning
	t.ReasoningBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Purple).
		Foreground(TextSecondary).
		PaddingLeft(1)

	t.ReasoningHeader = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.ReasoningPending = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	// Answer
	t.AnswerLabel = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.MathBox = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 2).
		Align(lipgloss.Center)

	// Code blocks
	t.CodeReasoning = lipgloss.NewStyle().
		Background(ReasoningCodeBg).
		Foreground(ReasoningCodeFg).
		Padding(0, 1)

	t.CodeAnswer = lipgloss.NewStyle().
		Background(AnswerCodeBg).
		Foreground(AnswerCodeFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AnswerCodeEdge).
		Padding(0, 1)

	t.CodeSelected = lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(SelectionBorder)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(OverlayDim).
		Padding(0, 1).
		Bold(true)

	t.CodeCopyBtn = lipgloss.NewStyle().
		Foreground(Cyan).
		Padding(0, 1)

	t.CodeCopied = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true).
		Padding(0, 1)

	t.CodeLineNum = lipgloss.NewStyle().
		Foreground(TextMuted).
		Align(lipgloss.Right).
		MarginRight(1)

	// Images
	t.ImageFrame = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.ImagePending = lipgloss.NewStyle().
		Foreground(Amber)

	t.ImageFailed = lipgloss.NewStyle().
		Foreground(Rose).
		Background(RoseDeep).
		Bold(true).
		Padding(0, 1)

	t.ImagePlaceholder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Foreground(Rose).
		Padding(0, 1)

	t.GalleryTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	// Chrome
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.LinkStyle = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose)
}

// CodeContainer returns the container style for a code region.
func (t *Theme) CodeContainer(region codeblock.Region) lipgloss.Style {
	if region == codeblock.RegionReasoning {
		return t.CodeReasoning
	}
	return t.CodeAnswer
}

// GlamourStyle names the glamour style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}
