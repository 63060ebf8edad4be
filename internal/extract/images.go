// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"regexp"

	"github.com/jeranaias/rigrun-md/internal/model"
)

// =============================================================================
// IMAGE REFERENCES
// =============================================================================

// imageURLPattern matches bare http(s) URLs up to the first image extension.
var imageURLPattern = regexp.MustCompile(`(?i)https?://[^\s]+?\.(?:png|jpg|jpeg|gif|webp)`)

// ImageSource tells where an ImageRef came from.
type ImageSource string

const (
	SourceAttachment ImageSource = "attachment"
	SourceContent    ImageSource = "content"
)

// ImageRef is an image to display after the message body.
type ImageRef struct {
	URL          string      `json:"url"`
	Source       ImageSource `json:"source"`
	AttachmentID string      `json:"attachment_id,omitempty"`
}

// ImagePolicy selects which text is scanned for implicit image URLs.
type ImagePolicy string

const (
	// ScanContent scans the original content, reasoning blocks included.
	ScanContent ImagePolicy = "content"
	// ScanProse scans only the prose left after reasoning blocks are removed.
	ScanProse ImagePolicy = "prose"
)

// ParseImagePolicy returns the policy named by s, defaulting to ScanContent.
func ParseImagePolicy(s string) ImagePolicy {
	if ImagePolicy(s) == ScanProse {
		return ScanProse
	}
	return ScanContent
}

// ScrapeImageURLs returns every image URL in text, in source order.
func ScrapeImageURLs(text string) []string {
	return imageURLPattern.FindAllString(text, -1)
}

// ResolveImages builds the gallery: assistant image attachments first, then
// URLs scraped from the text chosen by policy. Duplicates are kept.
func ResolveImages(content, prose string, atts []model.Attachment, policy ImagePolicy) []ImageRef {
	var refs []ImageRef
	for _, a := range model.FilterGallery(atts) {
		refs = append(refs, ImageRef{URL: a.URL, Source: SourceAttachment, AttachmentID: a.ID})
	}

	scan := content
	if policy == ScanProse {
		scan = prose
	}
	for _, u := range ScrapeImageURLs(scan) {
		refs = append(refs, ImageRef{URL: u, Source: SourceContent})
	}
	return refs
}
