// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/rigrun-md/internal/document"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter re-emits the document as portable Markdown: reasoning
// inside <details>, the answer label in bold, images as image links.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// frontMatter is the YAML header of an exported file.
type frontMatter struct {
	MessageID  string   `yaml:"message_id,omitempty"`
	Pending    bool     `yaml:"pending,omitempty"`
	CodeBlocks int      `yaml:"code_blocks"`
	Images     []string `yaml:"images,omitempty"`
}

// Export converts a document to Markdown format.
func (e *MarkdownExporter) Export(doc *document.Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	labels := labelsOf(e.options)

	fm := frontMatter{
		MessageID:  doc.MessageID,
		Pending:    doc.Pending,
		CodeBlocks: len(doc.CodeUnits()),
	}
	for _, u := range doc.Images {
		if u.Displayable() {
			fm.Images = append(fm.Images, u.URL)
		}
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(header)
	sb.WriteString("---\n\n")

	if doc.HasReasoning() {
		sb.WriteString("<details>\n")
		sb.WriteString(fmt.Sprintf("<summary>%s</summary>\n\n", labels.Reasoning))
		for _, span := range doc.Reasoning.Spans {
			sb.WriteString(formatNodes(span.Nodes))
		}
		sb.WriteString("</details>\n\n")
	}

	if doc.AnswerLabeled {
		sb.WriteString(fmt.Sprintf("**%s**\n\n", escapeMarkdown(labels.FinalAnswer)))
	}
	sb.WriteString(formatNodes(doc.Answer))

	if len(doc.Images) > 0 {
		sb.WriteString(fmt.Sprintf("### %s\n\n", escapeMarkdown(labels.Images)))
		for _, u := range doc.Images {
			if !u.Displayable() {
				sb.WriteString(fmt.Sprintf("> %s\n\n", escapeMarkdown(labels.ImageInvalid)))
				continue
			}
			sb.WriteString(fmt.Sprintf("![](%s)\n\n", u.OpenURL()))
		}
	}

	return []byte(strings.TrimRight(sb.String(), "\n") + "\n"), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatNodes writes each node as a Markdown block.
func formatNodes(nodes []document.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case document.CodeNode:
			fence := codeFence(n.Unit.CopyText)
			sb.WriteString(fence + n.Unit.Language + "\n")
			sb.WriteString(n.Unit.CopyText)
			sb.WriteString("\n" + fence + "\n\n")
		case document.MathNode:
			sb.WriteString("$$\n" + strings.TrimSpace(n.TeX) + "\n$$\n\n")
		case document.MarkdownNode:
			sb.WriteString(strings.TrimSpace(n.Source) + "\n\n")
		}
	}
	return sb.String()
}

// codeFence returns a backtick fence longer than any run inside body.
func codeFence(body string) string {
	longest, run := 0, 0
	for _, r := range body {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}
