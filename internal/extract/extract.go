// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract splits raw assistant output into reasoning spans, prose,
// and implicit image references.
package extract

import (
	"regexp"
	"strings"
)

// =============================================================================
// REASONING MARKERS
// =============================================================================

const (
	// OpenMarker starts a reasoning block.
	OpenMarker = "<think>"
	// CloseMarker ends a reasoning block.
	CloseMarker = "</think>"
)

// thinkPattern matches the smallest <think>...</think> pair. A nested open
// marker is swallowed into the body and the span ends at the first close.
var thinkPattern = regexp.MustCompile(`(?s)<think>(.*?)</think>`)

// ReasoningSpan is the body of one reasoning block.
type ReasoningSpan struct {
	Body string
}

// Result is the output of Extract.
type Result struct {
	// Reasoning holds one span per complete marker pair, in document order.
	Reasoning []ReasoningSpan
	// Prose is the content with every complete reasoning block removed.
	Prose string
	// Pending is true when an open marker has no close marker after it,
	// which is the normal state while a reasoning block is still streaming.
	Pending bool
}

// HasReasoning reports whether any reasoning span was extracted.
func (r Result) HasReasoning() bool {
	return len(r.Reasoning) > 0
}

// =============================================================================
// EXTRACTION
// =============================================================================

// Extract splits content into reasoning spans and prose. It never fails:
// unterminated markers stay in the prose as literal text.
func Extract(content string) Result {
	if !strings.Contains(content, OpenMarker) {
		return Result{Prose: content}
	}

	res := Result{Prose: content, Pending: hasPendingMarker(content)}

	matches := thinkPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return res
	}

	var residual strings.Builder
	residual.Grow(len(content))
	last := 0
	for _, m := range matches {
		res.Reasoning = append(res.Reasoning, ReasoningSpan{Body: content[m[2]:m[3]]})
		residual.WriteString(content[last:m[0]])
		last = m[1]
	}
	residual.WriteString(content[last:])

	res.Prose = normalizeProse(residual.String())
	return res
}

// hasPendingMarker reports an open marker after the last complete pair.
func hasPendingMarker(content string) bool {
	tail := content
	if locs := thinkPattern.FindAllStringIndex(content, -1); len(locs) > 0 {
		tail = content[locs[len(locs)-1][1]:]
	}
	return strings.Contains(tail, OpenMarker)
}

// normalizeProse drops whitespace-only lines and trims the result.
func normalizeProse(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
