// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message. It also marks who owns an attachment.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is the raw, untrusted input to the rendering pipeline.
// The pipeline reads Content and Attachments and never mutates them.
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	Role      Role      `json:"role" yaml:"role"`
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`

	Content     string       `json:"content" yaml:"content"`
	Attachments []Attachment `json:"message_files,omitempty" yaml:"message_files,omitempty"`

	// Streaming state (not persisted)
	IsStreaming   bool            `json:"-" yaml:"-"`
	streamContent strings.Builder `json:"-" yaml:"-"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates a complete assistant message.
func NewAssistantMessage(content string, attachments ...Attachment) *Message {
	msg := NewMessage(RoleAssistant, content)
	msg.Attachments = attachments
	return msg
}

// NewStreamingMessage creates an assistant message that receives content in chunks.
func NewStreamingMessage() *Message {
	return &Message{
		ID:          generateID(),
		Role:        RoleAssistant,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// AppendToken appends a chunk to a streaming message.
func (m *Message) AppendToken(token string) {
	if m.IsStreaming {
		m.streamContent.WriteString(token)
	}
}

// FinalizeStream moves streamed content into Content.
func (m *Message) FinalizeStream() {
	if !m.IsStreaming {
		return
	}
	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false
}

// GetDisplayContent returns the content to display (streaming or final).
func (m *Message) GetDisplayContent() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Content
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && m.streamContent.Len() == 0
}

// GalleryAttachments returns the attachments eligible for the image gallery:
// images owned by the assistant, in their original order.
func (m *Message) GalleryAttachments() []Attachment {
	return FilterGallery(m.Attachments)
}

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
