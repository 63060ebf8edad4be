// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// AttachmentKind classifies an attachment.
type AttachmentKind string

const (
	KindImage AttachmentKind = "image"
	KindOther AttachmentKind = "other"
)

// ParseAttachmentKind normalizes a wire-level type. Anything that is not an
// image is treated as KindOther.
func ParseAttachmentKind(s string) AttachmentKind {
	if strings.EqualFold(strings.TrimSpace(s), string(KindImage)) {
		return KindImage
	}
	return KindOther
}

// Attachment is a file attached to a message by the message-history collaborator.
// Field names follow the chat API wire format.
type Attachment struct {
	ID             string         `json:"id,omitempty" yaml:"id,omitempty"`
	URL            string         `json:"url" yaml:"url"`
	Kind           AttachmentKind `json:"type" yaml:"type"`
	Owner          Role           `json:"belongs_to,omitempty" yaml:"belongs_to,omitempty"`
	TransferMethod string         `json:"transfer_method,omitempty" yaml:"transfer_method,omitempty"`
	UploadFileID   string         `json:"upload_file_id,omitempty" yaml:"upload_file_id,omitempty"`
}

// IsGalleryImage reports whether the attachment belongs in the image gallery.
func (a Attachment) IsGalleryImage() bool {
	return ParseAttachmentKind(string(a.Kind)) == KindImage && a.Owner == RoleAssistant
}

// FilterGallery keeps assistant-owned images, preserving order.
func FilterGallery(atts []Attachment) []Attachment {
	var out []Attachment
	for _, a := range atts {
		if a.IsGalleryImage() {
			out = append(out, a)
		}
	}
	return out
}
