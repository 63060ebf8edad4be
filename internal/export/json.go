// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/rigrun-md/internal/codeblock"
	"github.com/jeranaias/rigrun-md/internal/document"
	"github.com/jeranaias/rigrun-md/internal/i18n"
	"github.com/jeranaias/rigrun-md/internal/image"
	"github.com/jeranaias/rigrun-md/internal/markdown"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports the render tree for a hosting UI. Code units carry
// their tokens and copy text; math carries TeX and a Unicode rendering.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Tree is the JSON form of a document.
type Tree struct {
	MessageID   string           `json:"message_id,omitempty"`
	Pending     bool             `json:"pending"`
	Labels      TreeLabels       `json:"labels"`
	Reasoning   []TreeSpan       `json:"reasoning,omitempty"`
	AnswerLabel string           `json:"answer_label,omitempty"`
	Answer      []TreeNode       `json:"answer"`
	Images      []image.Unit     `json:"images"`
	HeaderStyle string           `json:"header_style"`
	Themes      codeblock.Themes `json:"themes"`
}

// TreeLabels are the UI strings a host needs to draw the tree.
type TreeLabels struct {
	Locale       string `json:"locale"`
	Reasoning    string `json:"reasoning"`
	Copy         string `json:"copy"`
	Copied       string `json:"copied"`
	ImageFailed  string `json:"image_failed"`
	ImageInvalid string `json:"image_invalid"`
	OpenInNewTab string `json:"open_in_new_tab"`
	Images       string `json:"images"`
}

// TreeSpan is one reasoning span.
type TreeSpan struct {
	Raw   string     `json:"raw"`
	Nodes []TreeNode `json:"nodes"`
}

// TreeNode is one rendered unit; Kind selects which fields are set.
type TreeNode struct {
	Kind       string          `json:"kind"`
	Source     string          `json:"source,omitempty"`
	InlineMath []TreeMath      `json:"inline_math,omitempty"`
	Code       *codeblock.Unit `json:"code,omitempty"`
	TeX        string          `json:"tex,omitempty"`
	Text       string          `json:"text,omitempty"`
}

// TreeMath is an inline math span, offsets into Source.
type TreeMath struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	TeX   string `json:"tex"`
	Text  string `json:"text"`
}

// Export converts a document to JSON format.
func (e *JSONExporter) Export(doc *document.Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	return json.MarshalIndent(BuildTree(doc, labelsOf(e.options)), "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}

// BuildTree converts doc to its JSON form.
func BuildTree(doc *document.Document, labels i18n.Labels) Tree {
	tree := Tree{
		MessageID:   doc.MessageID,
		Pending:     doc.Pending,
		Answer:      treeNodes(doc.Answer),
		Images:      doc.Images,
		HeaderStyle: doc.Options.HeaderStyle.String(),
		Themes:      doc.Options.Themes,
		Labels: TreeLabels{
			Locale:       labels.Tag.String(),
			Reasoning:    labels.Reasoning,
			Copy:         labels.Copy,
			Copied:       labels.Copied,
			ImageFailed:  labels.ImageFailed,
			ImageInvalid: labels.ImageInvalid,
			OpenInNewTab: labels.OpenInNewTab,
			Images:       labels.Images,
		},
	}
	if tree.Answer == nil {
		tree.Answer = []TreeNode{}
	}
	if tree.Images == nil {
		tree.Images = []image.Unit{}
	}
	if doc.HasReasoning() {
		for _, span := range doc.Reasoning.Spans {
			tree.Reasoning = append(tree.Reasoning, TreeSpan{Raw: span.Raw, Nodes: treeNodes(span.Nodes)})
		}
	}
	if doc.AnswerLabeled {
		tree.AnswerLabel = labels.FinalAnswer
	}
	return tree
}

func treeNodes(nodes []document.Node) []TreeNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]TreeNode, 0, len(nodes))
	for _, n := range nodes {
		tn := TreeNode{Kind: n.Kind().String()}
		switch n := n.(type) {
		case document.MarkdownNode:
			tn.Source = n.Source
			for _, m := range n.InlineMath {
				tn.InlineMath = append(tn.InlineMath, TreeMath{
					Start: m.Start, End: m.End, TeX: m.TeX, Text: markdown.TeXToUnicode(m.TeX),
				})
			}
		case document.CodeNode:
			unit := n.Unit
			tn.Code = &unit
		case document.MathNode:
			tn.Source = n.Source
			tn.TeX = n.TeX
			tn.Text = markdown.TeXToUnicode(n.TeX)
		}
		out = append(out, tn)
	}
	return out
}
