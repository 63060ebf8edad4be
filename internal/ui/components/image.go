// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/rigrun-md/internal/i18n"
	"github.com/jeranaias/rigrun-md/internal/image"
	"github.com/jeranaias/rigrun-md/internal/ui/styles"
	"github.com/jeranaias/rigrun-md/internal/util"
)

// =============================================================================
// IMAGE UNITS
// =============================================================================

// RenderImage renders one gallery unit. Terminals cannot show the bitmap,
// so a frame carries the URL, the load state and an open link. A unit
// without a URL renders the invalid placeholder and no link.
func RenderImage(u image.Unit, theme *styles.Theme, labels i18n.Labels, width int) string {
	inner := width - 4
	if inner < 16 {
		inner = 16
	}

	if !u.Displayable() {
		return theme.ImagePlaceholder.Render(
			styles.StatusIndicators.Error + " " + labels.ImageFailed + "\n" + labels.ImageInvalid)
	}

	var lines []string
	url := util.TruncateWidth(u.URL, inner)
	switch u.State {
	case image.StateLoaded:
		lines = append(lines, theme.AnswerLabel.Render(styles.StatusIndicators.Success)+" "+url)
	case image.StateFailed:
		lines = append(lines, url, theme.ImageFailed.Render(styles.StatusIndicators.Error+" "+labels.ImageFailed))
	default:
		lines = append(lines, theme.ImagePending.Render(styles.StatusIndicators.Pending)+" "+url)
	}
	lines = append(lines, openLink(u.OpenURL(), labels.OpenInNewTab, theme))

	return theme.ImageFrame.Render(strings.Join(lines, "\n"))
}

// RenderGallery renders the image list under a title. Empty lists render
// nothing.
func RenderGallery(units []image.Unit, theme *styles.Theme, labels i18n.Labels, width int) string {
	if len(units) == 0 {
		return ""
	}
	parts := []string{theme.GalleryTitle.Render(labels.Images)}
	for _, u := range units {
		parts = append(parts, RenderImage(u, theme, labels, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// openLink renders an OSC 8 hyperlink when the terminal has color support,
// otherwise the plain URL after the label.
func openLink(url, label string, theme *styles.Theme) string {
	prefix := styles.StatusIndicators.Link + " "
	if theme.ColorProfile == termenv.Ascii {
		return prefix + label + ": " + url
	}
	return prefix + theme.LinkStyle.Render(termenv.Hyperlink(url, label))
}
