// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
)

// ErrNoAssistantMessage is returned when a transcript has no assistant reply.
var ErrNoAssistantMessage = errors.New("transcript has no assistant message")

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is a saved conversation. Loading one renders its newest
// assistant reply, which is what a chat UI shows while streaming.
type Transcript struct {
	ID       string     `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string     `json:"title,omitempty" yaml:"title,omitempty"`
	Messages []*Message `json:"messages" yaml:"messages"`
}

// LastAssistant returns the newest assistant message, or nil.
func (t *Transcript) LastAssistant() *Message {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if m := t.Messages[i]; m != nil && m.Role == RoleAssistant {
			return m
		}
	}
	return nil
}

// Count returns the number of messages by role.
func (t *Transcript) Count(role Role) int {
	n := 0
	for _, m := range t.Messages {
		if m != nil && m.Role == role {
			n++
		}
	}
	return n
}

type unmarshalFunc func([]byte, any) error

// isTranscript reports whether data is an object with a messages list.
func isTranscript(data []byte, unmarshal unmarshalFunc) bool {
	var probe struct {
		Messages []any `json:"messages" yaml:"messages"`
	}
	if err := unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Messages != nil
}

func decodeTranscript(data []byte, unmarshal unmarshalFunc) (*Message, error) {
	var t Transcript
	if err := unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	msg := t.LastAssistant()
	if msg == nil {
		return nil, ErrNoAssistantMessage
	}
	normalize(msg)
	return msg, nil
}
