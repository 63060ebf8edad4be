// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package codeblock turns code spans into highlighted, line-numbered units
// that carry their own copy text.
package codeblock

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/google/uuid"

	"github.com/jeranaias/rigrun-md/internal/markdown"
)

// =============================================================================
// REGIONS
// =============================================================================

// Region is the part of a document hosting a code block.
type Region string

const (
	RegionReasoning Region = "reasoning"
	RegionAnswer    Region = "answer"
)

// unitNamespace scopes code unit IDs.
var unitNamespace = uuid.MustParse("6f1b8f9e-3c1d-4a7a-9a43-2f6c0d1e5b77")

// =============================================================================
// UNIT
// =============================================================================

// Token is one highlighted fragment of a line.
type Token struct {
	Kind  chroma.TokenType `json:"-"`
	Type  string           `json:"type"`
	Value string           `json:"value"`
}

// Line is one numbered source line.
type Line struct {
	Number int     `json:"number"`
	Tokens []Token `json:"tokens"`
}

// Text returns the line without highlighting.
func (l Line) Text() string {
	var sb strings.Builder
	for _, t := range l.Tokens {
		sb.WriteString(t.Value)
	}
	return sb.String()
}

// Unit is a formatted code block.
type Unit struct {
	ID       string `json:"id"`
	Language string `json:"language,omitempty"`
	// Lexer is the resolved chroma lexer name; empty when not recognized.
	Lexer      string `json:"lexer,omitempty"`
	Recognized bool   `json:"recognized"`
	Region     Region `json:"region"`
	Lines      []Line `json:"lines"`
	// CopyText is what the copy action puts on the clipboard.
	CopyText string `json:"copy_text"`
}

// Format highlights span for region. seq is the block's position in its
// document and keeps IDs distinct for identical blocks.
func Format(span markdown.CodeSpan, region Region, seq int) Unit {
	// the parser already dropped the fence's final newline
	body := span.Body
	u := Unit{
		ID:       UnitID(region, seq, span),
		Language: span.Language,
		Region:   region,
		CopyText: body,
	}

	lexer := lookupLexer(span.Language)
	if lexer != nil {
		if lines, ok := tokenize(lexer, body); ok {
			u.Lexer = lexer.Config().Name
			u.Recognized = true
			u.Lines = lines
			return u
		}
	}
	u.Lines = plainLines(body)
	return u
}

// UnitID derives a stable ID so re-rendering the same content keeps
// per-block UI state such as the copy indicator.
func UnitID(region Region, seq int, span markdown.CodeSpan) string {
	key := fmt.Sprintf("%s\x00%d\x00%s\x00%s", region, seq, span.Language, span.Body)
	return uuid.NewSHA1(unitNamespace, []byte(key)).String()
}

// lookupLexer resolves a language tag. Unknown tags get no lexer; content
// sniffing is not used so an untagged block is never colored.
func lookupLexer(language string) chroma.Lexer {
	language = strings.TrimSpace(language)
	if language == "" {
		return nil
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Get(strings.ToLower(language))
	}
	if lexer == nil || lexer == lexers.Fallback {
		return nil
	}
	return chroma.Coalesce(lexer)
}

func tokenize(lexer chroma.Lexer, body string) ([]Line, bool) {
	iterator, err := lexer.Tokenise(nil, body)
	if err != nil {
		return nil, false
	}

	want := strings.Count(body, "\n") + 1
	split := chroma.SplitTokensIntoLines(iterator.Tokens())
	lines := make([]Line, 0, want)
	for i, toks := range split {
		if i >= want {
			break
		}
		line := Line{Number: i + 1}
		for _, t := range toks {
			v := strings.TrimSuffix(t.Value, "\n")
			if v == "" {
				continue
			}
			line.Tokens = append(line.Tokens, Token{Kind: t.Type, Type: t.Type.String(), Value: v})
		}
		lines = append(lines, line)
	}
	for len(lines) < want {
		lines = append(lines, Line{Number: len(lines) + 1})
	}
	return lines, true
}

func plainLines(body string) []Line {
	raw := strings.Split(body, "\n")
	lines := make([]Line, len(raw))
	for i, text := range raw {
		lines[i] = Line{Number: i + 1}
		if text != "" {
			lines[i].Tokens = []Token{{Kind: chroma.Text, Type: chroma.Text.String(), Value: text}}
		}
	}
	return lines
}

// tokens flattens the unit back into a chroma token stream.
func (u Unit) tokens() []chroma.Token {
	var out []chroma.Token
	for i, l := range u.Lines {
		for _, t := range l.Tokens {
			out = append(out, chroma.Token{Type: t.Kind, Value: t.Value})
		}
		if i < len(u.Lines)-1 {
			out = append(out, chroma.Token{Type: chroma.Text, Value: "\n"})
		}
	}
	return out
}
