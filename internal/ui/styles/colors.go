// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for rigrun-md.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Purple - Primary accent, reasoning section chrome, selections
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Copy affordance, info
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Copied indicator, final answer label
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// EmeraldDeep - Final answer label background
var EmeraldDeep = lipgloss.AdaptiveColor{Light: "#D1FAE5", Dark: "#064E3B"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Image failures, errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// RoseDeep - Failure overlay background
var RoseDeep = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#881337"}

// Amber - Pending reasoning, loading images
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Reasoning container background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F9FAFB", Dark: "#181825"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// OverlayDim - Badges
var OverlayDim = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#45475A"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Line numbers, hints
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// CODE REGION COLORS
// =============================================================================

// Reasoning code is always dark; answer code is always light. These mirror
// the code block themes and are not adaptive on purpose.
var (
	ReasoningCodeBg = lipgloss.Color("#1e1e1e")
	ReasoningCodeFg = lipgloss.Color("#d4d4d4")
	AnswerCodeBg    = lipgloss.Color("#ffffff")
	AnswerCodeFg    = lipgloss.Color("#333333")
	AnswerCodeEdge  = lipgloss.Color("#e5e7eb")
)

// SelectionBorder marks the code block selected for copying.
var SelectionBorder = Cyan

// LinkColor - Accessible link color with sufficient contrast
var LinkColor = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains text/shape indicators for status states.
// These provide cues beyond color.
type StatusIndicatorSet struct {
	Success   string
	Error     string
	Pending   string
	Collapsed string
	Expanded  string
	Link      string
}

// StatusIndicators uses ASCII-safe shapes.
var StatusIndicators = StatusIndicatorSet{
	Success:   "[OK]",
	Error:     "[X]",
	Pending:   "[ ]",
	Collapsed: ">",
	Expanded:  "v",
	Link:      "->",
}

// RenderLink renders text as an accessible link with underline.
func RenderLink(text string) string {
	return lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true).
		Render(text)
}

// RenderError renders a message with the error indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true).
		Render(StatusIndicators.Error + " " + message)
}
