// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// EXTRACT TESTS
// =============================================================================

func TestExtract_NoMarkerReturnsContentUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"plain answer",
		"\n\n  leading blank lines stay\n\n",
		"closing only </think> is literal",
		"```go\nfunc main() {}\n```",
	}
	for _, in := range inputs {
		res := Extract(in)
		assert.Empty(t, res.Reasoning, "input %q", in)
		assert.Equal(t, in, res.Prose, "input %q", in)
		assert.False(t, res.Pending)
	}
}

func TestExtract_TwoBlocksInOrder(t *testing.T) {
	res := Extract("A<think>B</think>C<think>D</think>E")

	want := []ReasoningSpan{{Body: "B"}, {Body: "D"}}
	if diff := cmp.Diff(want, res.Reasoning); diff != "" {
		t.Errorf("reasoning mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "ACE", res.Prose)
	assert.True(t, res.HasReasoning())
}

func TestExtract_DropsBlankLinesAndTrims(t *testing.T) {
	content := "<think>\nstep one\nstep two\n</think>\n\n  \nFirst line\n\n\nSecond line\n   indented\n"

	res := Extract(content)

	require.Len(t, res.Reasoning, 1)
	assert.Equal(t, "\nstep one\nstep two\n", res.Reasoning[0].Body)
	assert.Equal(t, "First line\nSecond line\n   indented", res.Prose)
}

func TestExtract_CarriageReturnLinesCountAsBlank(t *testing.T) {
	res := Extract("<think>x</think>\r\n\r\nanswer\r\n")
	assert.Equal(t, "answer", res.Prose)
}

func TestExtract_UnterminatedMarker(t *testing.T) {
	content := "Intro\n\n<think>still thinking"

	res := Extract(content)

	assert.Empty(t, res.Reasoning)
	assert.Equal(t, content, res.Prose)
	assert.True(t, res.Pending)
}

func TestExtract_PendingAfterCompletedBlock(t *testing.T) {
	res := Extract("<think>one</think>mid<think>two")

	require.Len(t, res.Reasoning, 1)
	assert.Equal(t, "one", res.Reasoning[0].Body)
	assert.Equal(t, "mid<think>two", res.Prose)
	assert.True(t, res.Pending)
}

func TestExtract_NestedMarkersTruncate(t *testing.T) {
	res := Extract("<think>outer<think>inner</think>tail</think>answer")

	require.Len(t, res.Reasoning, 1)
	assert.Equal(t, "outer<think>inner", res.Reasoning[0].Body)
	assert.Equal(t, "tail</think>answer", res.Prose)
	assert.False(t, res.Pending)
}

func TestExtract_MultilineBody(t *testing.T) {
	res := Extract("<think>a\nb\n\nc</think>done")
	require.Len(t, res.Reasoning, 1)
	assert.Equal(t, "a\nb\n\nc", res.Reasoning[0].Body)
	assert.Equal(t, "done", res.Prose)
}

func TestExtract_OnlyReasoningLeavesEmptyProse(t *testing.T) {
	res := Extract("<think>only thoughts</think>\n\n")
	require.Len(t, res.Reasoning, 1)
	assert.Equal(t, "", res.Prose)
}

// TestExtract_StreamingPrefixes re-runs extraction on every prefix of a
// message, the way a streaming host does.
func TestExtract_StreamingPrefixes(t *testing.T) {
	full := "<think>plan the answer</think>\nHere is `code` and more."
	for i := 0; i <= len(full); i++ {
		prefix := full[:i]
		assert.NotPanics(t, func() { _ = Extract(prefix) }, "prefix %q", prefix)
	}

	partial := Extract(full[:len("<think>plan")])
	assert.Empty(t, partial.Reasoning)
	assert.Equal(t, "<think>plan", partial.Prose)
	assert.True(t, partial.Pending)

	done := Extract(full)
	require.Len(t, done.Reasoning, 1)
	assert.Equal(t, "Here is `code` and more.", done.Prose)
}
