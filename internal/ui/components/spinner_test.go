// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinnerStartStop(t *testing.T) {
	s := NewSpinner("Thinking…", testTheme())
	assert.False(t, s.IsActive())
	assert.Empty(t, s.View())
	assert.Zero(t, s.Elapsed())

	cmd := s.Start()
	require.NotNil(t, cmd)
	assert.True(t, s.IsActive())
	assert.Nil(t, s.Start(), "second start does not spawn another tick loop")

	view := s.View()
	assert.Contains(t, view, "Thinking…")
	assert.Contains(t, view, "(0s)")

	s.Stop()
	assert.False(t, s.IsActive())
	assert.Empty(t, s.View())
}

func TestSpinnerUpdateStopped(t *testing.T) {
	s := NewSpinner("x", testTheme())
	s, cmd := s.Update(spinner.TickMsg{})
	assert.Nil(t, cmd)
	assert.False(t, s.IsActive())
}

func TestSpinnerHideTimer(t *testing.T) {
	s := NewSpinner("Thinking", testTheme())
	s.SetShowTimer(false)
	s.SetLabel("Working")
	s.Start()
	view := s.View()
	assert.Contains(t, view, "Working")
	assert.False(t, strings.Contains(view, "("))
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"0 seconds", 0, "0s"},
		{"59 seconds", 59 * time.Second, "59s"},
		{"1 minute", 60 * time.Second, "1m 0s"},
		{"2 minutes 45 seconds", 165 * time.Second, "2m 45s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatElapsed(tc.duration))
		})
	}
}
