// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown parses prose into renderable blocks.
//
// Prose goes through goldmark once, with GFM (tables, strikethrough,
// autolinks, task lists) and TeX math enabled. The top-level blocks of the
// resulting AST are grouped into three kinds: fenced or indented code, display
// math, and everything else, which is kept as raw markdown source for the
// host renderer (glamour in the terminal, goldmark's HTML renderer in export).
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// =============================================================================
// BLOCK TYPES
// =============================================================================

// Kind tags a Block.
type Kind int

const (
	KindMarkdown Kind = iota
	KindCode
	KindMath
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMarkdown:
		return "markdown"
	case KindCode:
		return "code"
	case KindMath:
		return "math"
	default:
		return "unknown"
	}
}

// CodeSpan is a code block found in prose.
type CodeSpan struct {
	// Language is the first word of the fence info string; empty when absent.
	Language string
	// Body is the block content with one trailing newline removed.
	Body string
	// Fenced is false for indented code blocks.
	Fenced bool
}

// MathSpan locates inline TeX inside a markdown block's Source.
// Start and End include the dollar delimiters.
type MathSpan struct {
	Start int
	End   int
	TeX   string
}

// Block is one top-level unit of prose.
type Block struct {
	Kind Kind
	// Source is the raw markdown text this block was parsed from.
	Source string
	// Code is set for KindCode.
	Code CodeSpan
	// Math is the TeX body for KindMath.
	Math string
	// InlineMath lists inline TeX spans for KindMarkdown, in source order.
	InlineMath []MathSpan
}

// =============================================================================
// PARSER
// =============================================================================

// Parser turns prose into Blocks. It is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// New creates a parser with GFM, math, and hard line breaks enabled.
func New() *Parser {
	return &Parser{md: NewGoldmark()}
}

// NewGoldmark returns the goldmark instance shared by parsing and HTML export.
// Single newlines become hard breaks; raw HTML from the model is not rendered.
func NewGoldmark() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, Math),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
}

// Goldmark exposes the underlying goldmark instance.
func (p *Parser) Goldmark() goldmark.Markdown {
	return p.md
}

// Parse splits prose into blocks in document order. Empty or whitespace-only
// prose yields no blocks.
func (p *Parser) Parse(prose string) []Block {
	if strings.TrimSpace(prose) == "" {
		return nil
	}

	src := []byte(prose)
	doc := p.md.Parser().Parse(text.NewReader(src))

	var blocks []Block
	cursor := 0
	var pending []ast.Node

	flush := func(end int) {
		if end > cursor {
			if b, ok := markdownBlock(src, cursor, end, pending); ok {
				blocks = append(blocks, b)
			}
		}
		pending = pending[:0]
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			start, end := fencedRange(src, cursor, node)
			flush(start)
			blocks = append(blocks, Block{
				Kind:   KindCode,
				Source: string(src[start:end]),
				Code: CodeSpan{
					Language: string(node.Language(src)),
					Body:     codeBody(src, node),
					Fenced:   true,
				},
			})
			cursor = end
		case *ast.CodeBlock:
			start, end := indentedRange(src, node)
			flush(start)
			blocks = append(blocks, Block{
				Kind:   KindCode,
				Source: string(src[start:end]),
				Code:   CodeSpan{Body: codeBody(src, node)},
			})
			cursor = end
		case *MathBlock:
			end := node.Stop
			if end <= node.Start {
				end = lineEnd(src, node.Start)
			}
			flush(node.Start)
			blocks = append(blocks, Block{
				Kind:   KindMath,
				Source: string(src[node.Start:end]),
				Math:   node.TeX(src),
			})
			cursor = end
		default:
			pending = append(pending, n)
		}
	}
	flush(len(src))
	return blocks
}

// markdownBlock builds a KindMarkdown block from src[start:end].
func markdownBlock(src []byte, start, end int, nodes []ast.Node) (Block, bool) {
	chunk := src[start:end]
	if len(bytes.TrimSpace(chunk)) == 0 {
		return Block{}, false
	}
	b := Block{Kind: KindMarkdown, Source: string(chunk)}
	for _, n := range nodes {
		_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			if m, ok := c.(*MathInline); ok {
				b.InlineMath = append(b.InlineMath, MathSpan{
					Start: m.Segment.Start - m.Delim - start,
					End:   m.Segment.Stop + m.Delim - start,
					TeX:   string(m.Segment.Value(src)),
				})
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		})
	}
	return b, true
}

// ReplaceInlineMath returns b.Source with each inline math span replaced by
// fn(tex).
func (b Block) ReplaceInlineMath(fn func(tex string) string) string {
	if len(b.InlineMath) == 0 {
		return b.Source
	}
	var sb strings.Builder
	last := 0
	for _, m := range b.InlineMath {
		if m.Start < last || m.End > len(b.Source) {
			continue
		}
		sb.WriteString(b.Source[last:m.Start])
		sb.WriteString(fn(m.TeX))
		last = m.End
	}
	sb.WriteString(b.Source[last:])
	return sb.String()
}

// =============================================================================
// SOURCE RANGES
// =============================================================================

// codeBody joins the code lines and drops one trailing newline.
func codeBody(src []byte, n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// fencedRange finds the byte range of a fenced block, fences included.
// goldmark only records content lines, so the fence lines are located
// relative to them.
func fencedRange(src []byte, cursor int, n *ast.FencedCodeBlock) (int, int) {
	var start int
	switch {
	case n.Info != nil:
		start = lineStart(src, n.Info.Segment.Start)
	case n.Lines().Len() > 0:
		first := lineStart(src, n.Lines().At(0).Start)
		start = lineStart(src, first-1)
	default:
		start = nextFence(src, cursor)
	}

	after := lineEnd(src, start)
	if lines := n.Lines(); lines.Len() > 0 {
		after = lineEnd(src, lines.At(lines.Len()-1).Start)
	}

	fence := fenceChar(src[start:lineEnd(src, start)])
	closing := bytes.TrimSpace(src[after:lineEnd(src, after)])
	if fence != 0 && len(closing) >= 3 && len(bytes.Trim(closing, string(fence))) == 0 {
		return start, lineEnd(src, after)
	}
	return start, after
}

func indentedRange(src []byte, n *ast.CodeBlock) (int, int) {
	lines := n.Lines()
	if lines.Len() == 0 {
		return 0, 0
	}
	return lineStart(src, lines.At(0).Start), lineEnd(src, lines.At(lines.Len()-1).Start)
}

// nextFence returns the start of the first fence line at or after pos.
func nextFence(src []byte, pos int) int {
	for pos < len(src) {
		line := bytes.TrimLeft(src[pos:lineEnd(src, pos)], " ")
		if bytes.HasPrefix(line, []byte("```")) || bytes.HasPrefix(line, []byte("~~~")) {
			return pos
		}
		pos = lineEnd(src, pos)
	}
	return len(src)
}

func fenceChar(line []byte) byte {
	line = bytes.TrimLeft(line, " ")
	if len(line) > 0 && (line[0] == '`' || line[0] == '~') {
		return line[0]
	}
	return 0
}

func lineStart(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd returns the offset just past the newline ending the line at pos.
func lineEnd(src []byte, pos int) int {
	if pos >= len(src) {
		return len(src)
	}
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(src)
}
