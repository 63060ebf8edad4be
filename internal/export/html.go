// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/jeranaias/rigrun-md/internal/clipboard"
	"github.com/jeranaias/rigrun-md/internal/codeblock"
	"github.com/jeranaias/rigrun-md/internal/document"
	"github.com/jeranaias/rigrun-md/internal/i18n"
	"github.com/jeranaias/rigrun-md/internal/image"
	"github.com/jeranaias/rigrun-md/internal/markdown"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports a document to a standalone HTML page with embedded
// CSS and the copy button script.
type HTMLExporter struct {
	options *Options
	md      goldmark.Markdown
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts, md: markdown.NewGoldmark()}
}

// Export converts a document to HTML format.
func (e *HTMLExporter) Export(doc *document.Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	labels := labelsOf(e.options)
	theme := e.options.Theme
	if theme != "light" {
		theme = "dark"
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString(fmt.Sprintf("<html lang=\"%s\">\n", html.EscapeString(labels.Tag.String())))
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(e.options.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"rigrun-md\">\n")
	sb.WriteString(e.getCSS())
	if e.options.MathScript != "" {
		sb.WriteString(fmt.Sprintf("    <script async src=\"%s\"></script>\n", html.EscapeString(e.options.MathScript)))
	}
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", theme))
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString(e.RenderMessage(doc))

	sb.WriteString("    </div>\n")
	sb.WriteString(e.getScript(labels))
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

// RenderMessage renders the message fragment without the page around it.
func (e *HTMLExporter) RenderMessage(doc *document.Document) string {
	labels := labelsOf(e.options)
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("        <main class=\"message assistant-message\" id=\"msg-%s\">\n", html.EscapeString(doc.MessageID)))

	if doc.HasReasoning() {
		open := ""
		if e.options.ExpandReasoning {
			open = " open"
		}
		sb.WriteString(fmt.Sprintf("            <details class=\"reasoning\"%s>\n", open))
		sb.WriteString(fmt.Sprintf("                <summary>%s</summary>\n", html.EscapeString(labels.Reasoning)))
		for _, span := range doc.Reasoning.Spans {
			sb.WriteString("                <div class=\"reasoning-body\">\n")
			sb.WriteString(e.renderNodes(span.Nodes, doc.Options))
			sb.WriteString("                </div>\n")
		}
		sb.WriteString("            </details>\n")
	}
	if doc.Pending {
		sb.WriteString(fmt.Sprintf("            <div class=\"reasoning-pending\">%s</div>\n", html.EscapeString(labels.Thinking)))
	}

	if doc.AnswerLabeled {
		sb.WriteString(fmt.Sprintf("            <div class=\"answer-label\">%s</div>\n", html.EscapeString(labels.FinalAnswer)))
	}
	sb.WriteString("            <div class=\"answer\">\n")
	sb.WriteString(e.renderNodes(doc.Answer, doc.Options))
	sb.WriteString("            </div>\n")

	if len(doc.Images) > 0 {
		sb.WriteString("            <section class=\"gallery\">\n")
		sb.WriteString(fmt.Sprintf("                <h2>%s</h2>\n", html.EscapeString(labels.Images)))
		for _, u := range doc.Images {
			sb.WriteString(renderImage(u, labels))
		}
		sb.WriteString("            </section>\n")
	}

	sb.WriteString("        </main>\n")
	return sb.String()
}

// renderNodes renders a node sequence in order.
func (e *HTMLExporter) renderNodes(nodes []document.Node, opts document.Options) string {
	labels := labelsOf(e.options)
	var sb strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case document.CodeNode:
			sb.WriteString(renderCode(n.Unit, opts, labels))
		case document.MathNode:
			sb.WriteString(e.convert(n.Source))
		case document.MarkdownNode:
			sb.WriteString(e.convert(n.Source))
		}
	}
	return sb.String()
}

// convert runs goldmark. On failure the source is shown escaped.
func (e *HTMLExporter) convert(src string) string {
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(src) + "</p>\n"
	}
	return buf.String()
}

// renderCode renders a code unit with its region theme. A formatter error
// falls back to an escaped <pre>.
func renderCode(u codeblock.Unit, opts document.Options, labels i18n.Labels) string {
	out, err := codeblock.HTML(u, opts.Themes.For(u.Region), opts.HeaderStyle.CodeHeader(labels.Copy))
	if err != nil {
		return fmt.Sprintf("<div class=\"code-block\"><pre><code>%s</code></pre></div>\n", html.EscapeString(u.CopyText))
	}
	return out
}

// renderImage renders one gallery unit. Units without a URL get the invalid
// placeholder; the rest carry an onerror hook that shows the failure
// overlay on that unit only.
func renderImage(u image.Unit, labels i18n.Labels) string {
	if !u.Displayable() {
		return fmt.Sprintf("                <div class=\"image-unit image-invalid\"><div class=\"image-placeholder\"><span>%s</span><span>%s</span></div></div>\n",
			html.EscapeString(labels.ImageFailed), html.EscapeString(labels.ImageInvalid))
	}

	class := "image-unit"
	if u.State == image.StateFailed {
		class += " image-failed"
	}
	url := html.EscapeString(u.OpenURL())
	open := html.EscapeString(labels.OpenInNewTab)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("                <figure class=\"%s\" data-state=\"%s\">\n", class, u.State))
	sb.WriteString(fmt.Sprintf("                    <img src=\"%s\" alt=\"\" loading=\"lazy\" onerror=\"this.parentNode.classList.add('image-failed')\">\n", url))
	sb.WriteString(fmt.Sprintf("                    <div class=\"image-overlay\">%s</div>\n", html.EscapeString(labels.ImageFailed)))
	sb.WriteString(fmt.Sprintf("                    <a class=\"image-open\" href=\"%s\" target=\"_blank\" rel=\"noopener noreferrer\" title=\"%s\">%s</a>\n", url, open, open))
	sb.WriteString("                </figure>\n")
	return sb.String()
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

// getCSS returns the embedded CSS for the HTML export.
func (e *HTMLExporter) getCSS() string {
	return `    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", "Source Code Pro", monospace;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --bg-tertiary: #414868;
            --text-primary: #c0caf5;
            --text-secondary: #a9b1d6;
            --text-muted: #565f89;
            --border-color: #414868;
            --accent-green: #9ece6a;
            --accent-purple: #bb9af7;
            --accent-red: #f7768e;
            --accent-blue: #7aa2f7;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --bg-tertiary: #e1e4e8;
            --text-primary: #24292e;
            --text-secondary: #586069;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --accent-green: #22863a;
            --accent-purple: #6f42c1;
            --accent-red: #d73a49;
            --accent-blue: #0366d6;
        }

        body {
            font-family: var(--font-sans);
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 900px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border-radius: 12px;
            padding: 24px 32px;
        }

        .message p {
            margin-bottom: 12px;
        }

        /* Reasoning */
        .reasoning {
            margin-bottom: 16px;
            border-left: 3px solid var(--accent-purple);
            padding-left: 12px;
            color: var(--text-secondary);
        }

        .reasoning summary {
            cursor: pointer;
            font-weight: 600;
            color: var(--accent-purple);
        }

        .reasoning-body {
            margin-top: 8px;
        }

        .reasoning-pending {
            color: var(--text-muted);
            font-style: italic;
        }

        .answer-label {
            font-weight: 700;
            color: var(--accent-green);
            margin-bottom: 8px;
        }

        /* Code blocks */
        .code-block {
            margin: 16px 0;
            border-radius: 8px;
            overflow: hidden;
        }

        .code-block pre {
            margin: 0;
            padding: 16px;
            overflow-x: auto;
            font-family: var(--font-mono);
        }

        .code-header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            padding: 6px 16px;
            font-size: 12px;
            border-bottom: 1px solid rgba(128, 128, 128, 0.3);
        }

        .code-lang {
            font-weight: 600;
            letter-spacing: 0.5px;
        }

        .copy-btn {
            margin-left: auto;
            background: transparent;
            border: 1px solid rgba(128, 128, 128, 0.5);
            border-radius: 4px;
            padding: 2px 8px;
            color: inherit;
            cursor: pointer;
        }

        .copy-btn.copied {
            color: var(--accent-green);
            border-color: var(--accent-green);
        }

        /* Math */
        .math-display {
            margin: 16px 0;
            text-align: center;
            overflow-x: auto;
        }

        /* Images */
        .gallery h2 {
            font-size: 16px;
            margin: 16px 0 8px;
            color: var(--text-secondary);
        }

        .image-unit {
            position: relative;
            display: inline-block;
            margin: 0 12px 12px 0;
            max-width: 100%;
        }

        .image-unit img {
            max-width: 100%;
            border-radius: 8px;
            display: block;
        }

        .image-overlay {
            display: none;
            position: absolute;
            inset: 0;
            align-items: center;
            justify-content: center;
            background: rgba(0, 0, 0, 0.6);
            color: var(--accent-red);
            font-weight: 600;
            border-radius: 8px;
        }

        .image-failed .image-overlay {
            display: flex;
        }

        .image-failed img {
            min-width: 200px;
            min-height: 120px;
        }

        .image-open {
            position: absolute;
            top: 8px;
            right: 8px;
            padding: 2px 8px;
            font-size: 12px;
            border-radius: 4px;
            background: rgba(0, 0, 0, 0.6);
            color: #ffffff;
            text-decoration: none;
        }

        .image-placeholder {
            display: flex;
            flex-direction: column;
            align-items: center;
            justify-content: center;
            min-width: 200px;
            min-height: 120px;
            border: 1px dashed var(--accent-red);
            border-radius: 8px;
            color: var(--accent-red);
        }

        @media print {
            .copy-btn, .image-open {
                display: none;
            }
        }
    </style>
`
}

// =============================================================================
// EMBEDDED JAVASCRIPT
// =============================================================================

// getScript returns the copy button script. The copied label reverts after
// clipboard.RevertAfter; a new click restarts the countdown.
func (e *HTMLExporter) getScript(labels i18n.Labels) string {
	copied, _ := json.Marshal(labels.Copied)
	return fmt.Sprintf(`    <script>
        document.addEventListener('DOMContentLoaded', function() {
            document.querySelectorAll('.copy-btn').forEach(function(btn) {
                var label = btn.textContent;
                var timer = null;
                btn.addEventListener('click', function() {
                    navigator.clipboard.writeText(btn.getAttribute('data-copy')).then(function() {
                        btn.textContent = %s;
                        btn.classList.add('copied');
                        clearTimeout(timer);
                        timer = setTimeout(function() {
                            btn.textContent = label;
                            btn.classList.remove('copied');
                        }, %d);
                    }).catch(function(err) {
                        console.error('copy to clipboard failed', err);
                    });
                });
            });
        });
    </script>
`, copied, clipboard.RevertAfter.Milliseconds())
}
