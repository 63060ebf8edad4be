// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components renders assembled messages for the terminal.

Each component takes the shared *styles.Theme and renders with Lip Gloss.

# Components

MessageView (message.go) - A whole message: reasoning, answer, gallery.
CodeBlock (codeblock.go) - Chroma token colors mapped to Lip Gloss, with a
line number gutter and a language/copy header.
MarkdownRenderer (markdown.go) - Glamour output with inline math as Unicode.
RenderReasoning (reasoning.go) - Collapsible reasoning section.
RenderImage, RenderGallery (image.go) - Image frames with load state and an
OSC 8 open link.
StatusBar (statusbar.go) - Bottom line of the preview.

# Usage

	doc := document.New(opts).Render(msg)
	view := components.NewMessageView(doc, styles.NewTheme("auto"), i18n.For(""))
	view.SetWidth(100)
	fmt.Println(view.View())
*/
package components
