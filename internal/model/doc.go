// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for messages and attachments.
//
// A Message is the raw input of the rendering pipeline: the assistant's
// response text plus an ordered list of attachments supplied by the
// message-history collaborator. Nothing in this package interprets the
// content; see package extract for that.
//
// # Key Types
//
//   - Message: role, content, attachments, and streaming state
//   - Attachment: url, kind (image/other) and owner (user/assistant)
//   - Role: sender enumeration, also used as attachment owner
//
// # Usage
//
// Load a message fixture:
//
//	msg, err := model.LoadMessage("reply.json")
//	if err != nil {
//	    return err
//	}
//	images := msg.GalleryAttachments()
//
// Stream a message:
//
//	msg := model.NewStreamingMessage()
//	msg.AppendToken("<think>")
//	msg.AppendToken("planning</think>done")
//	msg.FinalizeStream()
package model
