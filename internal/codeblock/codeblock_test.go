// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package codeblock

import (
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-md/internal/markdown"
)

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestFormat_RecognizedLanguage(t *testing.T) {
	span := markdown.CodeSpan{Language: "go", Body: "package main\n\nfunc main() {}\n"}

	u := Format(span, RegionAnswer, 0)

	assert.True(t, u.Recognized)
	assert.Equal(t, "Go", u.Lexer)
	assert.Equal(t, RegionAnswer, u.Region)
	assert.Equal(t, "package main\n\nfunc main() {}", u.CopyText)
	require.Len(t, u.Lines, 3)
	for i, l := range u.Lines {
		assert.Equal(t, i+1, l.Number)
	}
	assert.Equal(t, "package main", u.Lines[0].Text())
	assert.Equal(t, "", u.Lines[1].Text())
	assert.Equal(t, "func main() {}", u.Lines[2].Text())

	var keyword bool
	for _, tok := range u.Lines[0].Tokens {
		if tok.Kind.InCategory(chroma.Keyword) {
			keyword = true
		}
	}
	assert.True(t, keyword, "expected a keyword token on the first line")
}

func TestFormat_UnknownLanguageIsPlain(t *testing.T) {
	for _, lang := range []string{"", "not-a-real-language"} {
		u := Format(markdown.CodeSpan{Language: lang, Body: "a = 1\nb = 2"}, RegionAnswer, 0)

		assert.False(t, u.Recognized, "language %q", lang)
		assert.Empty(t, u.Lexer)
		require.Len(t, u.Lines, 2)
		assert.Equal(t, 1, u.Lines[0].Number)
		assert.Equal(t, 2, u.Lines[1].Number)
		for _, l := range u.Lines {
			for _, tok := range l.Tokens {
				assert.Equal(t, chroma.Text, tok.Kind)
			}
		}
	}
}

func TestFormat_CopyTextIsSpanBody(t *testing.T) {
	u := Format(markdown.CodeSpan{Language: "sh", Body: "echo hi\n"}, RegionReasoning, 0)
	assert.Equal(t, "echo hi\n", u.CopyText)
	assert.Len(t, u.Lines, 2)

	u = Format(markdown.CodeSpan{Body: "x"}, RegionAnswer, 0)
	assert.Equal(t, "x", u.CopyText)
}

func TestFormat_TrailingBlankLineKept(t *testing.T) {
	blocks := markdown.New().Parse("```go\nx := 1\n\n```")
	require.Len(t, blocks, 1)
	require.Equal(t, markdown.KindCode, blocks[0].Kind)

	u := Format(blocks[0].Code, RegionAnswer, 0)
	assert.Equal(t, "x := 1\n", u.CopyText)
	require.Len(t, u.Lines, 2)
	assert.Empty(t, u.Lines[1].Tokens)

	blocks = markdown.New().Parse("```go\nx := 1\n```")
	require.Len(t, blocks, 1)
	u = Format(blocks[0].Code, RegionAnswer, 0)
	assert.Equal(t, "x := 1", u.CopyText)
	assert.Len(t, u.Lines, 1)
}

func TestFormat_CaseInsensitiveLanguage(t *testing.T) {
	u := Format(markdown.CodeSpan{Language: "Python", Body: "print(1)"}, RegionAnswer, 0)
	assert.True(t, u.Recognized)
}

func TestUnitID_StableAndDistinct(t *testing.T) {
	span := markdown.CodeSpan{Language: "go", Body: "x"}

	assert.Equal(t, UnitID(RegionAnswer, 0, span), UnitID(RegionAnswer, 0, span))
	assert.NotEqual(t, UnitID(RegionAnswer, 0, span), UnitID(RegionAnswer, 1, span))
	assert.NotEqual(t, UnitID(RegionAnswer, 0, span), UnitID(RegionReasoning, 0, span))
}

// =============================================================================
// THEME TESTS
// =============================================================================

func TestThemes_RegionsDiffer(t *testing.T) {
	themes := DefaultThemes()
	r, a := themes.For(RegionReasoning), themes.For(RegionAnswer)

	assert.NotEqual(t, r.Background, a.Background)
	assert.NotEqual(t, r.Foreground, a.Foreground)
	assert.NotEqual(t, r.FontScale, a.FontScale)
	assert.NotNil(t, r.Style())
	assert.NotNil(t, Theme{ChromaStyle: "missing-style"}.Style())
}

// =============================================================================
// HTML TESTS
// =============================================================================

func TestHTML_LineNumbersAndCopy(t *testing.T) {
	for _, region := range []Region{RegionReasoning, RegionAnswer} {
		u := Format(markdown.CodeSpan{Language: "go", Body: "a := 1\nb := \"<x>\"\n"}, region, 0)

		out, err := HTML(u, DefaultThemes().For(region), Header{ShowLanguage: true, CopyLabel: "Copy code"})
		require.NoError(t, err)

		assert.Contains(t, out, `class="code-block code-`+string(region)+`"`)
		assert.Contains(t, out, ">1<")
		assert.Contains(t, out, ">2<")
		assert.Contains(t, out, "data-copy=\"a := 1\nb := &#34;&lt;x&gt;&#34;\"")
		assert.Contains(t, out, "GO")
	}
}

func TestHTML_PlainBlockHasNoLanguageBadge(t *testing.T) {
	u := Format(markdown.CodeSpan{Body: "plain"}, RegionAnswer, 0)
	out, err := HTML(u, AnswerTheme, Header{ShowLanguage: true, CopyLabel: "Copy"})
	require.NoError(t, err)
	assert.NotContains(t, out, "code-lang")
	assert.True(t, strings.Contains(out, "plain"))
}

func TestHTML_HeaderOmitted(t *testing.T) {
	u := Format(markdown.CodeSpan{Language: "go", Body: "x"}, RegionAnswer, 0)
	out, err := HTML(u, AnswerTheme, Header{})
	require.NoError(t, err)
	assert.NotContains(t, out, "code-header")
	assert.NotContains(t, out, "copy-btn")

	out, err = HTML(u, AnswerTheme, Header{ShowLanguage: true})
	require.NoError(t, err)
	assert.Contains(t, out, "code-lang")
	assert.NotContains(t, out, "copy-btn")
}
