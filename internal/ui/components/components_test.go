// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-md/internal/codeblock"
	"github.com/jeranaias/rigrun-md/internal/document"
	"github.com/jeranaias/rigrun-md/internal/i18n"
	"github.com/jeranaias/rigrun-md/internal/image"
	"github.com/jeranaias/rigrun-md/internal/markdown"
	"github.com/jeranaias/rigrun-md/internal/model"
	"github.com/jeranaias/rigrun-md/internal/ui/styles"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func testTheme() *styles.Theme {
	theme := styles.NewTheme("dark")
	theme.ColorProfile = termenv.Ascii
	return theme
}

func newView(t *testing.T, content string, opts document.Options, atts ...model.Attachment) *MessageView {
	t.Helper()
	doc := document.Assemble(model.NewAssistantMessage(content, atts...), opts)
	view := NewMessageView(doc, testTheme(), i18n.English())
	view.SetGlamourStyle("notty")
	view.SetWidth(100)
	return view
}

func formatUnit(src string, region codeblock.Region) codeblock.Unit {
	blocks := markdown.New().Parse(src)
	for _, b := range blocks {
		if b.Kind == markdown.KindCode {
			return codeblock.Format(b.Code, region, 0)
		}
	}
	return codeblock.Unit{}
}

// =============================================================================
// CODE BLOCK TESTS
// =============================================================================

func TestCodeBlockRender(t *testing.T) {
	u := formatUnit("```go\nfunc main() {}\nreturn\n```", codeblock.RegionAnswer)
	require.NotEmpty(t, u.Lines)

	block := NewCodeBlock(u, codeblock.AnswerTheme, testTheme())
	block.Header = codeblock.Header{ShowLanguage: true, CopyLabel: "Copy code"}
	block.CopiedLabel = "Copied!"

	out := block.Render()
	assert.Contains(t, out, "func main() {}")
	assert.Contains(t, out, "GO")
	assert.Contains(t, out, "[c] Copy code")
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "2")

	block.Copied = true
	out = block.Render()
	assert.Contains(t, out, "[OK] Copied!")
	assert.NotContains(t, out, "Copy code")
}

func TestCodeBlockNoHeader(t *testing.T) {
	u := formatUnit("```python\nprint(1)\n```", codeblock.RegionReasoning)
	block := NewCodeBlock(u, codeblock.ReasoningTheme, testTheme())
	block.LineNumbers = false

	out := block.Render()
	assert.Contains(t, out, "print(1)")
	assert.NotContains(t, out, "PYTHON")
	assert.NotContains(t, out, "[c]")
}

func TestCodeBlockUnknownLanguage(t *testing.T) {
	u := formatUnit("```nosuchlang\nplain text here\n```", codeblock.RegionAnswer)
	block := NewCodeBlock(u, codeblock.AnswerTheme, testTheme())
	block.Header = codeblock.Header{ShowLanguage: true}

	out := block.Render()
	assert.Contains(t, out, "plain text here")
	assert.Contains(t, out, "NOSUCHLANG")
}

// =============================================================================
// MESSAGE VIEW TESTS
// =============================================================================

func TestMessageViewReasoningCollapsedByDefault(t *testing.T) {
	view := newView(t, "<think>secret chain</think>The answer is 42.", document.DefaultOptions())

	out := view.View()
	assert.Contains(t, out, "> Thinking")
	assert.NotContains(t, out, "secret chain")
	assert.Contains(t, out, "Final Answer:")
	assert.Contains(t, out, "The answer is 42.")

	assert.True(t, view.ToggleReasoning())
	out = view.View()
	assert.Contains(t, out, "v Thinking")
	assert.Contains(t, out, "secret chain")

	assert.False(t, view.ToggleReasoning())
	assert.NotContains(t, view.View(), "secret chain")
}

func TestMessageViewNoReasoning(t *testing.T) {
	view := newView(t, "Just an answer.", document.DefaultOptions())

	out := view.View()
	assert.Contains(t, out, "Just an answer.")
	assert.NotContains(t, out, "Thinking")
	assert.NotContains(t, out, "Final Answer:")
}

func TestMessageViewReasoningHidden(t *testing.T) {
	opts := document.DefaultOptions()
	opts.ShowReasoningSections = false
	view := newView(t, "<think>hidden</think>visible", opts)

	view.SetExpanded(true)
	out := view.View()
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "Final Answer:")
	assert.Contains(t, out, "visible")
}

func TestMessageViewPending(t *testing.T) {
	view := newView(t, "<think>still going", document.DefaultOptions())
	assert.Contains(t, view.View(), "Thinking…")
}

func TestMessageViewInlineMath(t *testing.T) {
	view := newView(t, "Energy is $x^2$ here.", document.DefaultOptions())
	assert.Contains(t, view.View(), "x²")
}

func TestMessageViewDisplayMath(t *testing.T) {
	view := newView(t, "Before\n\n$$\n\\alpha + \\beta\n$$\n\nAfter", document.DefaultOptions())
	out := view.View()
	assert.Contains(t, out, "α + β")
	assert.Contains(t, out, "After")
}

func TestMessageViewSelection(t *testing.T) {
	content := "<think>```go\nreasoning()\n```</think>\n```python\nanswer()\n```"
	view := newView(t, content, document.DefaultOptions())

	u, ok := view.SelectNext()
	require.True(t, ok)
	assert.Equal(t, codeblock.RegionAnswer, u.Region, "collapsed reasoning code is not selectable")

	u, ok = view.SelectNext()
	require.True(t, ok)
	assert.Equal(t, codeblock.RegionAnswer, u.Region)

	view.SetExpanded(true)
	u, ok = view.SelectPrev()
	require.True(t, ok)
	assert.Equal(t, codeblock.RegionReasoning, u.Region)

	view.SetExpanded(false)
	_, ok = view.Selected()
	assert.False(t, ok, "collapsing drops a selection inside the section")

	view.SelectNext()
	view.ClearSelection()
	_, ok = view.Selected()
	assert.False(t, ok)
}

func TestMessageViewSelectionSurvivesRerender(t *testing.T) {
	msg := model.NewAssistantMessage("```go\nx := 1\n```")
	pipeline := document.New(document.DefaultOptions())
	view := NewMessageView(pipeline.Render(msg), testTheme(), i18n.English())

	first, ok := view.SelectNext()
	require.True(t, ok)

	msg.Content += "\nmore text"
	view.SetDocument(pipeline.Render(msg))
	sel, ok := view.Selected()
	require.True(t, ok)
	assert.Equal(t, first.ID, sel.ID)
}

func TestMessageViewCopiedIndicator(t *testing.T) {
	view := newView(t, "```go\nx := 1\n```", document.DefaultOptions())
	units := view.Document.CodeUnits()
	require.Len(t, units, 1)

	assert.Contains(t, view.View(), "Copy code")
	view.SetCopiedFunc(func(id string) bool { return id == units[0].ID })
	assert.Contains(t, view.View(), "Copied!")
}

func TestMessageViewLocalized(t *testing.T) {
	doc := document.Assemble(model.NewAssistantMessage("<think>a</think>b"), document.DefaultOptions())
	view := NewMessageView(doc, testTheme(), i18n.For("zh-CN"))
	view.SetGlamourStyle("notty")

	out := view.View()
	assert.Contains(t, out, "思考过程")
	assert.Contains(t, out, "最终答案：")
}

func TestMessageViewNilDocument(t *testing.T) {
	view := NewMessageView(nil, testTheme(), i18n.English())
	view.SetGlamourStyle("notty")
	assert.NotPanics(t, func() { _ = view.View() })
}

// =============================================================================
// IMAGE TESTS
// =============================================================================

func TestRenderImageStates(t *testing.T) {
	theme := testTheme()
	labels := i18n.English()

	invalid := RenderImage(image.Unit{State: image.StateInvalid}, theme, labels, 80)
	assert.Contains(t, invalid, "Invalid image URL")
	assert.NotContains(t, invalid, "Open in new tab")

	pending := RenderImage(image.Unit{URL: "https://x.test/a.png", State: image.StatePending}, theme, labels, 80)
	assert.Contains(t, pending, "https://x.test/a.png")
	assert.Contains(t, pending, "Open in new tab")

	failed := RenderImage(image.Unit{URL: "https://x.test/b.png", State: image.StateFailed}, theme, labels, 80)
	assert.Contains(t, failed, "Image failed to load")
	assert.Contains(t, failed, "Open in new tab")

	loaded := RenderImage(image.Unit{URL: "https://x.test/c.png", State: image.StateLoaded}, theme, labels, 80)
	assert.Contains(t, loaded, "[OK]")
}

func TestMessageViewGallery(t *testing.T) {
	opts := document.DefaultOptions()
	opts.BaseURL = "https://host.test"
	view := newView(t, "See https://cdn.test/pic.png", opts,
		model.Attachment{URL: "/files/a.png", Kind: model.KindImage, Owner: model.RoleAssistant},
		model.Attachment{URL: "", Kind: model.KindImage, Owner: model.RoleAssistant},
	)

	out := view.View()
	assert.Contains(t, out, "Images")
	assert.Contains(t, out, "https://host.test/files/a.png")
	assert.Contains(t, out, "Invalid image URL")
	assert.Contains(t, out, "https://cdn.test/pic.png")
}

func TestRenderGalleryEmpty(t *testing.T) {
	assert.Empty(t, RenderGallery(nil, testTheme(), i18n.English(), 80))
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestStatusBar(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.Source = "reply.md"
	bar.Selected = "go"
	bar.SetWidth(120)

	out := bar.View()
	assert.Contains(t, out, "Ready")
	assert.Contains(t, out, "reply.md")
	assert.Contains(t, out, "[go]")
	assert.Contains(t, out, "0%")

	bar.SetStatus(StatusError)
	bar.SetMessage("copy failed")
	out = bar.View()
	assert.Contains(t, out, "[X] Error")
	assert.Contains(t, out, "copy failed")
}

func TestStatusBarNarrow(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.Source = strings.Repeat("long/", 40) + "file.md"
	bar.SetWidth(30)
	assert.NotPanics(t, func() { _ = bar.View() })
}

func TestInlineMathBackticks(t *testing.T) {
	assert.Equal(t, "`α`", inlineMath(`\alpha`))
	assert.Equal(t, "a`b", inlineMath("a`b"))
}
