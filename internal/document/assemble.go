// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"go.uber.org/zap"

	"github.com/jeranaias/rigrun-md/internal/codeblock"
	"github.com/jeranaias/rigrun-md/internal/extract"
	"github.com/jeranaias/rigrun-md/internal/image"
	"github.com/jeranaias/rigrun-md/internal/markdown"
	"github.com/jeranaias/rigrun-md/internal/model"
)

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline renders messages with fixed options. Nothing is cached between
// messages, so re-rendering a growing streaming message is always safe.
type Pipeline struct {
	opts   Options
	parser *markdown.Parser
	logger *zap.Logger
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		opts:   opts,
		parser: markdown.New(),
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger used for debug output.
func (p *Pipeline) WithLogger(logger *zap.Logger) *Pipeline {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Options returns the pipeline options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Parser returns the rich text parser, shared with HTML export.
func (p *Pipeline) Parser() *markdown.Parser {
	return p.parser
}

// Render assembles msg. A nil message renders as an empty document.
func (p *Pipeline) Render(msg *model.Message) *Document {
	doc := &Document{Options: p.opts}
	if msg == nil {
		return doc
	}
	doc.MessageID = msg.ID

	content := msg.GetDisplayContent()
	res := extract.Extract(content)
	doc.Pending = res.Pending

	seq := 0
	if res.HasReasoning() && p.opts.ShowReasoningSections {
		section := &ReasoningSection{}
		for _, span := range res.Reasoning {
			section.Spans = append(section.Spans, ReasoningBody{
				Raw:   span.Body,
				Nodes: p.nodes(span.Body, codeblock.RegionReasoning, &seq),
			})
		}
		doc.Reasoning = section
		doc.AnswerLabeled = p.opts.FinalAnswerLabel
	}

	doc.Answer = p.nodes(res.Prose, codeblock.RegionAnswer, &seq)

	if p.opts.ImageGallery {
		refs := extract.ResolveImages(content, res.Prose, msg.Attachments, p.opts.ImagePolicy)
		doc.Images = image.ResolveAll(refs, p.opts.BaseURL)
	}

	p.logger.Debug("assembled message",
		zap.String("id", msg.ID),
		zap.Int("reasoning_spans", len(res.Reasoning)),
		zap.Int("answer_nodes", len(doc.Answer)),
		zap.Int("images", len(doc.Images)),
		zap.Bool("pending", res.Pending))

	return doc
}

// nodes parses text and formats its code blocks for region. seq counts code
// blocks across the whole document.
func (p *Pipeline) nodes(text string, region codeblock.Region, seq *int) []Node {
	blocks := p.parser.Parse(text)
	if len(blocks) == 0 {
		return nil
	}
	nodes := make([]Node, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case markdown.KindCode:
			nodes = append(nodes, CodeNode{Unit: codeblock.Format(b.Code, region, *seq)})
			*seq++
		case markdown.KindMath:
			nodes = append(nodes, MathNode{TeX: b.Math, Source: b.Source})
		default:
			nodes = append(nodes, MarkdownNode{Source: b.Source, InlineMath: b.InlineMath})
		}
	}
	return nodes
}

// Assemble renders msg with opts using a fresh pipeline.
func Assemble(msg *model.Message, opts Options) *Document {
	return New(opts).Render(msg)
}
