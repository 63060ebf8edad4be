// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// =============================================================================
// MATH NODES
// =============================================================================

// KindMathInline is the node kind of $...$ spans.
var KindMathInline = ast.NewNodeKind("MathInline")

// KindMathBlock is the node kind of $$ ... $$ blocks.
var KindMathBlock = ast.NewNodeKind("MathBlock")

// MathInline is inline TeX. Segment covers the TeX without delimiters.
type MathInline struct {
	ast.BaseInline
	Segment text.Segment
	Delim   int
}

// Kind implements ast.Node.
func (n *MathInline) Kind() ast.NodeKind { return KindMathInline }

// Dump implements ast.Node.
func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"TeX": string(n.Segment.Value(source))}, nil)
}

// MathBlock is display TeX. Lines holds the TeX; Start/Stop span the
// delimiters as well.
type MathBlock struct {
	ast.BaseBlock
	Start, Stop int
	closed      bool
}

// Kind implements ast.Node.
func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

// IsRaw implements ast.Node.
func (n *MathBlock) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// TeX returns the block body.
func (n *MathBlock) TeX(source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}

// =============================================================================
// PARSERS
// =============================================================================

type inlineMathParser struct{}

func (p *inlineMathParser) Trigger() []byte { return []byte{'$'} }

func (p *inlineMathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()
	delim := 1
	if len(line) > 1 && line[1] == '$' {
		delim = 2
	}
	body := line[delim:]
	if len(body) == 0 || util.IsSpace(body[0]) {
		return nil
	}

	for i := 0; i < len(body); i++ {
		switch {
		case body[i] == '\\':
			i++
			continue
		case body[i] == '\n':
			return nil
		case body[i] != '$':
			continue
		}
		if i == 0 || util.IsSpace(body[i-1]) {
			continue
		}
		if delim == 2 {
			if i+1 >= len(body) || body[i+1] != '$' {
				continue
			}
		} else if i+1 < len(body) && body[i+1] >= '0' && body[i+1] <= '9' {
			// "$5 and 6$7" is currency, not math
			continue
		}
		node := &MathInline{
			Segment: text.NewSegment(seg.Start+delim, seg.Start+delim+i),
			Delim:   delim,
		}
		block.Advance(delim + i + delim)
		return node
	}
	return nil
}

type mathBlockParser struct{}

func (b *mathBlockParser) Trigger() []byte { return []byte{'$'} }

func (b *mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], []byte("$$")) {
		return nil, parser.NoChildren
	}

	node := &MathBlock{Start: segment.Start}
	rest := line[pos+2:]
	trimmed := bytes.TrimSpace(rest)
	switch {
	case len(trimmed) == 0:
	case len(trimmed) > 2 && bytes.HasSuffix(trimmed, []byte("$$")):
		// $$ x $$ on one line
		left := util.TrimLeftSpaceLength(rest)
		start := segment.Start + pos + 2 + left
		node.Lines().Append(text.NewSegment(start, start+len(trimmed)-2))
		node.closed = true
		node.Stop = segment.Stop
	default:
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (b *mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	mb := node.(*MathBlock)
	if mb.closed {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	if bytes.Equal(bytes.TrimSpace(line), []byte("$$")) {
		mb.closed = true
		mb.Stop = segment.Stop
		reader.Advance(segment.Len() - 1)
		return parser.Close
	}
	mb.Lines().Append(segment)
	mb.Stop = segment.Stop
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (b *mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (b *mathBlockParser) CanInterruptParagraph() bool { return true }

func (b *mathBlockParser) CanAcceptIndentedLine() bool { return false }

// =============================================================================
// HTML RENDERING
// =============================================================================

// mathHTMLRenderer writes TeX wrapped in MathJax/KaTeX delimiters so a page
// script can typeset it.
type mathHTMLRenderer struct{}

func (r *mathHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathInline, r.renderInline)
	reg.Register(KindMathBlock, r.renderBlock)
}

func (r *mathHTMLRenderer) renderInline(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		m := n.(*MathInline)
		_, _ = w.WriteString(`<span class="math math-inline">\(`)
		_, _ = w.WriteString(html.EscapeString(string(m.Segment.Value(source))))
		_, _ = w.WriteString(`\)</span>`)
	}
	return ast.WalkSkipChildren, nil
}

func (r *mathHTMLRenderer) renderBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		m := n.(*MathBlock)
		_, _ = w.WriteString(`<div class="math math-display">\[`)
		_, _ = w.WriteString(html.EscapeString(m.TeX(source)))
		_, _ = w.WriteString("\\]</div>\n")
	}
	return ast.WalkSkipChildren, nil
}

// =============================================================================
// EXTENSION
// =============================================================================

// Math is a goldmark extension for $inline$ and $$display$$ TeX.
var Math goldmark.Extender = &mathExtension{}

type mathExtension struct{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&mathBlockParser{}, 90)),
		parser.WithInlineParsers(util.Prioritized(&inlineMathParser{}, 150)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&mathHTMLRenderer{}, 500)),
	)
}
