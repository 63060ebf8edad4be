// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-md/internal/ui/styles"
	"github.com/jeranaias/rigrun-md/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current preview status
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusWatching
	StatusStreaming
	StatusError
)

// String returns the display string for the status
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusLoading:
		return "Loading..."
	case StatusWatching:
		return "Watching"
	case StatusStreaming:
		return "Streaming..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s Status) Icon() string {
	switch s {
	case StatusReady, StatusWatching:
		return styles.StatusIndicators.Success
	case StatusLoading, StatusStreaming:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// StatusBar is the bottom line of the preview.
type StatusBar struct {
	Source   string // File being previewed
	Status   Status
	Message  string // Transient note such as a copy result
	Selected string // Language of the selected code block
	Width    int
	Scroll   float64 // Viewport position, 0..1

	ShowShortcuts bool
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus updates the current status
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetMessage sets the transient message. Empty clears it.
func (s *StatusBar) SetMessage(msg string) {
	s.Message = msg
}

// View renders the status bar
func (s *StatusBar) View() string {
	left := []string{s.Status.Icon() + " " + s.Status.String()}
	if s.Source != "" {
		left = append(left, s.Source)
	}
	if s.Selected != "" {
		left = append(left, "["+s.Selected+"]")
	}
	if s.Message != "" {
		left = append(left, s.Message)
	}
	leftText := strings.Join(left, "  ")

	right := util.FormatPercent(s.Scroll)
	if s.ShowShortcuts {
		right = "t reasoning  tab select  c copy  q quit  " + right
	}

	inner := s.Width - 2
	if inner < 10 {
		inner = 10
	}
	gap := inner - util.StringWidth(leftText) - util.StringWidth(right)
	if gap < 1 {
		leftText = util.TruncateWidth(leftText, inner-util.StringWidth(right)-1)
		gap = inner - util.StringWidth(leftText) - util.StringWidth(right)
		if gap < 1 {
			return s.theme.StatusBar.Width(s.Width).Render(util.TruncateWidth(leftText, inner))
		}
	}
	line := util.PadRight(leftText, inner-util.StringWidth(right)) + right

	style := s.theme.StatusBar
	if s.Status == StatusError {
		style = style.Foreground(s.theme.ErrorText.GetForeground())
	}
	return style.Render(lipgloss.NewStyle().Width(inner).Render(line))
}
