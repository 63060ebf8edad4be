// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigrun-md/internal/ui/styles"
)

// =============================================================================
// SPINNER
// =============================================================================

// Spinner animates while a reasoning block is still open.
type Spinner struct {
	spinner   spinner.Model
	label     string
	startTime time.Time
	isActive  bool
	showTimer bool
	theme     *styles.Theme
}

// NewSpinner creates an ASCII line spinner with the given label.
func NewSpinner(label string, theme *styles.Theme) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return Spinner{
		spinner:   s,
		label:     label,
		showTimer: true,
		theme:     theme,
	}
}

// SetLabel changes the text next to the spinner.
func (s *Spinner) SetLabel(label string) {
	s.label = label
}

// SetShowTimer enables or disables the elapsed time display.
func (s *Spinner) SetShowTimer(show bool) {
	s.showTimer = show
}

// Start activates the spinner. It is a no-op returning nil when already running.
func (s *Spinner) Start() tea.Cmd {
	if s.isActive {
		return nil
	}
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is running.
func (s *Spinner) IsActive() bool {
	return s.isActive
}

// Elapsed returns the time since Start.
func (s *Spinner) Elapsed() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}

// Update advances the animation. Ticks are dropped while stopped, which ends
// the tick loop.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the frame, label and timer.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}
	result := s.theme.ReasoningHeader.Render(s.spinner.View()) + " " + s.theme.ReasoningPending.Render(s.label)
	if s.showTimer && !s.startTime.IsZero() {
		result += s.theme.ReasoningPending.Render(" (" + formatElapsed(s.Elapsed()) + ")")
	}
	return result
}

// formatElapsed formats a duration as "42s" or "1m 30s".
func formatElapsed(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return strconv.Itoa(seconds) + "s"
	}
	return strconv.Itoa(seconds/60) + "m " + strconv.Itoa(seconds%60) + "s"
}
