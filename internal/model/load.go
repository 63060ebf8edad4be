// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MESSAGE LOADING
// =============================================================================

// Format is the on-disk encoding of a message.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatText treats the whole input as assistant content with no attachments.
	FormatText Format = "text"
)

// ErrUnsupportedFormat is returned for an unknown Format value.
var ErrUnsupportedFormat = errors.New("unsupported message format")

// FormatForPath picks a Format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// LoadMessage reads a message from disk, choosing the decoder by extension.
func LoadMessage(path string) (*Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open message %s: %w", path, err)
	}
	defer f.Close()

	msg, err := DecodeMessage(f, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("load message %s: %w", path, err)
	}
	return msg, nil
}

// DecodeMessage decodes a message from r.
func DecodeMessage(r io.Reader, format Format) (*Message, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}

	msg := &Message{}
	switch format {
	case FormatJSON:
		if isTranscript(data, json.Unmarshal) {
			return decodeTranscript(data, json.Unmarshal)
		}
		if err := json.Unmarshal(data, msg); err != nil {
			return nil, fmt.Errorf("decode json message: %w", err)
		}
	case FormatYAML:
		if isTranscript(data, yaml.Unmarshal) {
			return decodeTranscript(data, yaml.Unmarshal)
		}
		if err := yaml.Unmarshal(data, msg); err != nil {
			return nil, fmt.Errorf("decode yaml message: %w", err)
		}
	case FormatText:
		msg.Content = string(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	normalize(msg)
	return msg, nil
}

// normalize fills defaults so decoded messages behave like constructed ones.
func normalize(msg *Message) {
	if msg.ID == "" {
		msg.ID = generateID()
	}
	if msg.Role == "" {
		msg.Role = RoleAssistant
	}
	for i := range msg.Attachments {
		msg.Attachments[i].Kind = ParseAttachmentKind(string(msg.Attachments[i].Kind))
	}
}
