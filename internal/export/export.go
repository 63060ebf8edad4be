// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jeranaias/rigrun-md/internal/document"
	"github.com/jeranaias/rigrun-md/internal/i18n"
	"github.com/jeranaias/rigrun-md/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for document exporters.
type Exporter interface {
	// Export converts a document to the target format and returns the content.
	Export(doc *document.Document) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md", ".html").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

var (
	// ErrNilDocument is returned when asked to export nothing.
	ErrNilDocument = errors.New("document is nil")
	// ErrUnsupportedFormat is returned by New for unknown format names.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// Labels are the localized UI strings.
	Labels i18n.Labels

	// Theme for HTML export ("light" or "dark").
	// Default: "dark"
	Theme string

	// Title of the HTML page.
	Title string

	// ExpandReasoning renders the reasoning section open.
	ExpandReasoning bool

	// MathScript is the script URL that typesets \( \) and \[ \] in HTML.
	// Empty omits it.
	MathScript string
}

// DefaultMathScript typesets math in exported pages.
const DefaultMathScript = "https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-mml-chtml.js"

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:  ".",
		Labels:     i18n.English(),
		Theme:      "dark",
		Title:      "Assistant message",
		MathScript: DefaultMathScript,
	}
}

// New returns the exporter for a format name: html, json or markdown.
func New(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "html", "htm":
		return NewHTMLExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a document to a file using the specified exporter.
// Returns the output file path or an error.
func ExportToFile(doc *document.Document, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(doc)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("message_%s_%s%s",
		sanitizeFilename(doc.MessageID),
		timestamp,
		exporter.FileExtension(),
	)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal - file was still created successfully
			fmt.Fprintf(os.Stderr, "Warning: Could not open file: %v\n", err)
		}
	}

	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "message"
	}

	return string(result)
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

func labelsOf(opts *Options) i18n.Labels {
	if opts.Labels.IsZero() {
		return i18n.English()
	}
	return opts.Labels
}
