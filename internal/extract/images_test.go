// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-md/internal/model"
)

func TestScrapeImageURLs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "no images here", nil},
		{"source order", "see http://x/y.png and http://x/z.jpg", []string{"http://x/y.png", "http://x/z.jpg"}},
		{"case insensitive", "HTTPS://CDN/A.WEBP", []string{"HTTPS://CDN/A.WEBP"}},
		{"shortest match", "http://host/a.png.bak", []string{"http://host/a.png"}},
		{"stops at whitespace", "http://host/readme.txt then http://host/b.gif", []string{"http://host/b.gif"}},
		{"jpeg", "https://h/p.jpeg", []string{"https://h/p.jpeg"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ScrapeImageURLs(tc.text))
		})
	}
}

func TestResolveImages_ContentOnly(t *testing.T) {
	content := "see http://x/y.png and http://x/z.jpg"
	refs := ResolveImages(content, content, nil, ScanContent)

	require.Len(t, refs, 2)
	assert.Equal(t, "http://x/y.png", refs[0].URL)
	assert.Equal(t, "http://x/z.jpg", refs[1].URL)
	assert.Equal(t, SourceContent, refs[0].Source)
}

func TestResolveImages_AttachmentFirstNoDedup(t *testing.T) {
	content := "result: http://files/chart.png"
	atts := []model.Attachment{
		{ID: "f1", URL: "http://files/chart.png", Kind: model.KindImage, Owner: model.RoleAssistant},
		{ID: "f2", URL: "http://files/upload.png", Kind: model.KindImage, Owner: model.RoleUser},
	}

	refs := ResolveImages(content, content, atts, ScanContent)

	require.Len(t, refs, 2)
	assert.Equal(t, ImageRef{URL: "http://files/chart.png", Source: SourceAttachment, AttachmentID: "f1"}, refs[0])
	assert.Equal(t, ImageRef{URL: "http://files/chart.png", Source: SourceContent}, refs[1])
}

func TestResolveImages_ReasoningPolicy(t *testing.T) {
	content := "<think>draft http://x/hidden.png</think>final http://x/shown.png"
	res := Extract(content)

	all := ResolveImages(content, res.Prose, nil, ScanContent)
	require.Len(t, all, 2)
	assert.Equal(t, "http://x/hidden.png", all[0].URL)

	proseOnly := ResolveImages(content, res.Prose, nil, ScanProse)
	require.Len(t, proseOnly, 1)
	assert.Equal(t, "http://x/shown.png", proseOnly[0].URL)
}

func TestParseImagePolicy(t *testing.T) {
	assert.Equal(t, ScanProse, ParseImagePolicy("prose"))
	assert.Equal(t, ScanContent, ParseImagePolicy("content"))
	assert.Equal(t, ScanContent, ParseImagePolicy("bogus"))
}
