// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n holds the user-facing labels of rendered messages.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// =============================================================================
// MESSAGE KEYS
// =============================================================================

// Message keys.
const (
	KeyReasoning    = "reasoning.title"
	KeyThinking     = "reasoning.pending"
	KeyFinalAnswer  = "answer.label"
	KeyCopy         = "code.copy"
	KeyCopied       = "code.copied"
	KeyImageFailed  = "image.failed"
	KeyImageInvalid = "image.invalid"
	KeyOpenInNewTab = "image.open"
	KeyImages       = "image.gallery"
)

var entries = map[language.Tag]map[string]string{
	language.English: {
		KeyReasoning:    "Thinking",
		KeyThinking:     "Thinking…",
		KeyFinalAnswer:  "Final Answer:",
		KeyCopy:         "Copy code",
		KeyCopied:       "Copied!",
		KeyImageFailed:  "Image failed to load",
		KeyImageInvalid: "Invalid image URL",
		KeyOpenInNewTab: "Open in new tab",
		KeyImages:       "Images",
	},
	language.SimplifiedChinese: {
		KeyReasoning:    "思考过程",
		KeyThinking:     "思考中…",
		KeyFinalAnswer:  "最终答案：",
		KeyCopy:         "复制代码",
		KeyCopied:       "已复制",
		KeyImageFailed:  "图片加载失败",
		KeyImageInvalid: "无效的图片URL",
		KeyOpenInNewTab: "在新标签页中打开",
		KeyImages:       "图片",
	},
}

var (
	cat     *catalog.Builder
	matcher language.Matcher
	tags    []language.Tag
)

func init() {
	// English first so it wins when nothing matches.
	tags = []language.Tag{language.English, language.SimplifiedChinese}
	cat = catalog.NewBuilder(catalog.Fallback(language.English))
	for _, tag := range tags {
		for key, msg := range entries[tag] {
			// keys and messages are static; SetString only fails on bad input
			_ = cat.SetString(tag, key, msg)
		}
	}
	matcher = language.NewMatcher(tags)
}

// =============================================================================
// LABELS
// =============================================================================

// Labels is the resolved label set for one locale.
type Labels struct {
	Tag          language.Tag `json:"-"`
	Reasoning    string       `json:"reasoning"`
	Thinking     string       `json:"thinking"`
	FinalAnswer  string       `json:"final_answer"`
	Copy         string       `json:"copy"`
	Copied       string       `json:"copied"`
	ImageFailed  string       `json:"image_failed"`
	ImageInvalid string       `json:"image_invalid"`
	OpenInNewTab string       `json:"open_in_new_tab"`
	Images       string       `json:"images"`
}

// IsZero reports whether l was never resolved, e.g. an unset config field.
func (l Labels) IsZero() bool {
	return l.Tag == language.Und && l.FinalAnswer == ""
}

// Match returns the supported tag closest to locale. Empty or unparsable
// locales resolve to English. POSIX forms such as zh_CN.UTF-8 are accepted.
func Match(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || strings.EqualFold(locale, "C") || strings.EqualFold(locale, "POSIX") {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return tags[idx]
}

// For returns the labels for locale.
func For(locale string) Labels {
	tag := Match(locale)
	p := message.NewPrinter(tag, message.Catalog(cat))
	return Labels{
		Tag:          tag,
		Reasoning:    p.Sprintf(KeyReasoning),
		Thinking:     p.Sprintf(KeyThinking),
		FinalAnswer:  p.Sprintf(KeyFinalAnswer),
		Copy:         p.Sprintf(KeyCopy),
		Copied:       p.Sprintf(KeyCopied),
		ImageFailed:  p.Sprintf(KeyImageFailed),
		ImageInvalid: p.Sprintf(KeyImageInvalid),
		OpenInNewTab: p.Sprintf(KeyOpenInNewTab),
		Images:       p.Sprintf(KeyImages),
	}
}

// English returns the default labels.
func English() Labels {
	return For("en")
}

// Supported lists the supported locales.
func Supported() []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}
