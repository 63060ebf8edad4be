// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document assembles an assistant message into a render tree.
//
// Assembly runs the whole pipeline once: reasoning extraction, rich text
// parsing of every reasoning body and of the prose, code formatting, and
// image resolution. The result is a plain value that terminal, HTML and
// JSON renderers walk; it holds no UI state.
package document

import (
	"github.com/jeranaias/rigrun-md/internal/codeblock"
	"github.com/jeranaias/rigrun-md/internal/image"
	"github.com/jeranaias/rigrun-md/internal/markdown"
)

// =============================================================================
// NODES
// =============================================================================

// Node is one top-level element of a reasoning body or of the answer.
// Renderers switch on Kind or on the concrete type.
type Node interface {
	Kind() markdown.Kind
}

// MarkdownNode is rich text handed to the host's markdown renderer.
type MarkdownNode struct {
	Source     string
	InlineMath []markdown.MathSpan
}

// Kind implements Node.
func (MarkdownNode) Kind() markdown.Kind { return markdown.KindMarkdown }

// CodeNode is a formatted code block.
type CodeNode struct {
	Unit codeblock.Unit
}

// Kind implements Node.
func (CodeNode) Kind() markdown.Kind { return markdown.KindCode }

// MathNode is display math.
type MathNode struct {
	TeX    string
	Source string
}

// Kind implements Node.
func (MathNode) Kind() markdown.Kind { return markdown.KindMath }

// =============================================================================
// DOCUMENT
// =============================================================================

// ReasoningBody is one extracted reasoning span, parsed.
type ReasoningBody struct {
	Raw   string
	Nodes []Node
}

// ReasoningSection groups every reasoning span of a message in one
// collapsible container. It starts collapsed; expanding is view state.
type ReasoningSection struct {
	Spans []ReasoningBody
}

// Document is the render tree of one message.
type Document struct {
	MessageID string
	Options   Options

	// Reasoning is nil when the message has no complete reasoning block or
	// reasoning sections are disabled.
	Reasoning *ReasoningSection
	// Answer is the parsed prose. Empty prose yields no nodes.
	Answer []Node
	// AnswerLabeled is set when the answer follows a reasoning section and
	// should carry the final answer label.
	AnswerLabeled bool
	// Images is the gallery, in display order.
	Images []image.Unit
	// Pending is set while a reasoning block is open but not yet closed.
	Pending bool
}

// HasReasoning reports whether a reasoning section is present.
func (d *Document) HasReasoning() bool {
	return d.Reasoning != nil && len(d.Reasoning.Spans) > 0
}

// CodeUnits lists every code unit in document order, reasoning first.
func (d *Document) CodeUnits() []codeblock.Unit {
	var units []codeblock.Unit
	collect := func(nodes []Node) {
		for _, n := range nodes {
			if c, ok := n.(CodeNode); ok {
				units = append(units, c.Unit)
			}
		}
	}
	if d.Reasoning != nil {
		for _, span := range d.Reasoning.Spans {
			collect(span.Nodes)
		}
	}
	collect(d.Answer)
	return units
}

// CodeUnit finds a code unit by ID.
func (d *Document) CodeUnit(id string) (codeblock.Unit, bool) {
	for _, u := range d.CodeUnits() {
		if u.ID == id {
			return u, true
		}
	}
	return codeblock.Unit{}, false
}

// SetImages replaces the gallery, typically after probing.
func (d *Document) SetImages(units []image.Unit) {
	d.Images = units
}
