// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package codeblock

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// =============================================================================
// THEMES
// =============================================================================

// Theme is the visual treatment of code blocks in one region.
type Theme struct {
	Name        string  `json:"name"`
	ChromaStyle string  `json:"chroma_style"`
	Background  string  `json:"background"`
	Foreground  string  `json:"foreground"`
	FontScale   float64 `json:"font_scale"`
	Bordered    bool    `json:"bordered"`
}

// Style resolves the chroma style, falling back to chroma's default.
func (t Theme) Style() *chroma.Style {
	if s := styles.Get(t.ChromaStyle); s != nil {
		return s
	}
	return styles.Fallback
}

// ReasoningTheme is dark and compact so reasoning reads as secondary.
var ReasoningTheme = Theme{
	Name:        string(RegionReasoning),
	ChromaStyle: "monokai",
	Background:  "#1e1e1e",
	Foreground:  "#d4d4d4",
	FontScale:   1.1,
}

// AnswerTheme is light with a border and larger type.
var AnswerTheme = Theme{
	Name:        string(RegionAnswer),
	ChromaStyle: "github",
	Background:  "#ffffff",
	Foreground:  "#333333",
	FontScale:   1.3,
	Bordered:    true,
}

// Themes maps regions to themes.
type Themes struct {
	Reasoning Theme `json:"reasoning"`
	Answer    Theme `json:"answer"`
}

// DefaultThemes returns the built-in pair.
func DefaultThemes() Themes {
	return Themes{Reasoning: ReasoningTheme, Answer: AnswerTheme}
}

// For returns the theme for region.
func (t Themes) For(region Region) Theme {
	if region == RegionReasoning {
		return t.Reasoning
	}
	return t.Answer
}
