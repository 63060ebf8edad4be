// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-md/internal/codeblock"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark {
		t.Error("NewTheme(dark) should be dark")
	}
	if dark.GlamourStyle() != "dark" {
		t.Errorf("GlamourStyle() = %q, want dark", dark.GlamourStyle())
	}

	light := NewTheme("light")
	if light.IsDark {
		t.Error("NewTheme(light) should be light")
	}
	if light.GlamourStyle() != "light" {
		t.Errorf("GlamourStyle() = %q, want light", light.GlamourStyle())
	}

	if NewTheme("auto") == nil {
		t.Fatal("NewTheme(auto) returned nil")
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme("dark")

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"ReasoningBox", theme.ReasoningBox},
		{"AnswerLabel", theme.AnswerLabel},
		{"CodeReasoning", theme.CodeReasoning},
		{"CodeAnswer", theme.CodeAnswer},
		{"ImageFailed", theme.ImageFailed},
		{"ImagePlaceholder", theme.ImagePlaceholder},
		{"StatusBar", theme.StatusBar},
	}

	for _, s := range styles {
		if !strings.Contains(s.style.Render("test"), "test") {
			t.Errorf("%s style should render its content", s.name)
		}
	}
}

func TestCodeContainer(t *testing.T) {
	theme := NewTheme("dark")
	if theme.CodeContainer(codeblock.RegionAnswer).GetBorderStyle() != lipgloss.RoundedBorder() {
		t.Error("answer code should be bordered")
	}
	if theme.CodeContainer(codeblock.RegionReasoning).GetBorderStyle() == lipgloss.RoundedBorder() {
		t.Error("reasoning code should not be bordered")
	}
}

func TestRenderHelpers(t *testing.T) {
	if !strings.Contains(RenderLink("x"), "x") {
		t.Error("RenderLink should keep text")
	}
	if !strings.Contains(RenderError("bad"), StatusIndicators.Error) {
		t.Error("RenderError should include the error indicator")
	}
}
