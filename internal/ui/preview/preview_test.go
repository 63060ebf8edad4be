// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package preview

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-md/internal/clipboard"
	"github.com/jeranaias/rigrun-md/internal/image"
	"github.com/jeranaias/rigrun-md/internal/model"
	"github.com/jeranaias/rigrun-md/internal/ui/styles"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type recordingWriter struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (w *recordingWriter) Write(_ context.Context, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.texts = append(w.texts, text)
	return nil
}

type stubProber struct{}

func (stubProber) Probe(_ context.Context, url string) error {
	if url == "https://img.test/bad.png" {
		return errors.New("404")
	}
	return nil
}

const sample = "<think>step one\n```go\nfmt.Println(1)\n```</think>Answer text\n```python\nprint(2)\n```\nhttps://img.test/ok.png https://img.test/bad.png"

func newModel(t *testing.T, content string, w clipboard.Writer) Model {
	t.Helper()
	board := clipboard.NewBoard(w)
	t.Cleanup(board.Close)

	m, err := New(Config{
		Source:       "reply.md",
		Load:         func() (*model.Message, error) { return model.NewAssistantMessage(content), nil },
		Theme:        styles.NewTheme("dark"),
		Board:        board,
		Prober:       stubProber{},
		LineNumbers:  true,
		GlamourStyle: "notty",
	})
	require.NoError(t, err)
	return m
}

// load runs Init and feeds the result back, then sizes the window.
func load(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 200})
	m = next.(Model)
	msg := m.Init()()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewRequiresLoader(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoLoader)
}

func TestViewBeforeSize(t *testing.T) {
	m := newModel(t, "hi", &recordingWriter{})
	assert.Equal(t, "Loading...", m.View())
}

func TestLoadAndToggle(t *testing.T) {
	m, _ := load(t, newModel(t, sample, &recordingWriter{}))

	out := m.View()
	assert.Contains(t, out, "> Thinking")
	assert.Contains(t, out, "Answer text")
	assert.NotContains(t, out, "step one")
	assert.Contains(t, out, "reply.md")

	m, _ = press(m, runes("t"))
	assert.Contains(t, m.View(), "step one")

	m, _ = press(m, runes("t"))
	assert.NotContains(t, m.View(), "step one")
}

func TestImageProbe(t *testing.T) {
	m, cmd := load(t, newModel(t, sample, &recordingWriter{}))
	require.NotNil(t, cmd)

	imgs := m.Document().Images
	require.Len(t, imgs, 2)
	assert.Equal(t, image.StatePending, imgs[0].State)

	next, _ := m.Update(cmd())
	m = next.(Model)
	imgs = m.Document().Images
	assert.Equal(t, image.StateLoaded, imgs[0].State)
	assert.Equal(t, image.StateFailed, imgs[1].State)
	assert.Contains(t, m.View(), "Image failed to load")
}

func TestStaleImageResultsDropped(t *testing.T) {
	m, cmd := load(t, newModel(t, sample, &recordingWriter{}))
	stale := cmd()

	next, _ := m.Update(FileChangedMsg{Path: "reply.md"})
	m = next.(Model)
	next, _ = m.Update(m.Init()())
	m = next.(Model)

	next, _ = m.Update(stale)
	m = next.(Model)
	assert.Equal(t, image.StatePending, m.Document().Images[0].State)
}

func TestCopySelected(t *testing.T) {
	w := &recordingWriter{}
	m, _ := load(t, newModel(t, sample, w))

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	u, ok := m.view.Selected()
	require.True(t, ok)
	assert.Equal(t, "python", u.Language, "reasoning code is hidden while collapsed")

	m, cmd := press(m, runes("c"))
	require.NotNil(t, cmd)
	res := cmd()
	assert.Equal(t, CopyResultMsg{ID: u.ID}, res)
	assert.Equal(t, []string{"print(2)"}, w.texts)

	next, _ := m.Update(res)
	m = next.(Model)
	assert.Contains(t, m.View(), "Copied!")

	next, _ = m.Update(CopyStateMsg{ID: u.ID, Copied: false})
	m = next.(Model)
	assert.NotContains(t, m.status.Message, "Copied!")
}

func TestCopyWithoutSelectionSelectsFirst(t *testing.T) {
	w := &recordingWriter{}
	m, _ := load(t, newModel(t, sample, w))

	_, cmd := press(m, runes("c"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []string{"print(2)"}, w.texts)
}

func TestCopyFailureNotShown(t *testing.T) {
	w := &recordingWriter{err: errors.New("no clipboard utility available")}
	m, _ := load(t, newModel(t, sample, w))

	m, cmd := press(m, runes("c"))
	next, _ := m.Update(cmd())
	m = next.(Model)

	view := m.View()
	assert.NotContains(t, view, "no clipboard utility available")
	assert.NotContains(t, view, m.cfg.Labels.Copied)
	assert.Empty(t, m.status.Message)
	for _, u := range m.Document().CodeUnits() {
		assert.False(t, m.cfg.Board.Copied(u.ID))
	}
}

func TestLoadError(t *testing.T) {
	board := clipboard.NewBoard(&recordingWriter{})
	defer board.Close()
	m, err := New(Config{
		Load:  func() (*model.Message, error) { return nil, errors.New("missing file") },
		Board: board,
		Theme: styles.NewTheme("dark"),
	})
	require.NoError(t, err)

	m, _ = load(t, m)
	assert.EqualError(t, m.Err(), "missing file")
	assert.Contains(t, m.View(), "missing file")
}

func TestQuit(t *testing.T) {
	m, _ := load(t, newModel(t, "hi", &recordingWriter{}))
	_, cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestHelpToggle(t *testing.T) {
	m, _ := load(t, newModel(t, "hi", &recordingWriter{}))
	m, _ = press(m, runes("?"))
	assert.Contains(t, m.View(), "toggle reasoning")
}

func TestPendingReasoningSpinner(t *testing.T) {
	m, cmd := load(t, newModel(t, "<think>still going", &recordingWriter{}))
	require.NotNil(t, cmd, "spinner tick is scheduled")
	assert.True(t, m.spinner.IsActive())
	assert.Contains(t, m.status.Message, m.cfg.Labels.Thinking)

	next, _ := m.Update(FileChangedMsg{Path: "reply.md"})
	m = next.(Model)
	m.cfg.Load = func() (*model.Message, error) {
		return model.NewAssistantMessage("<think>done</think>answer"), nil
	}
	next, _ = m.Update(m.Init()())
	m = next.(Model)
	assert.False(t, m.spinner.IsActive())
	assert.Empty(t, m.status.Message)
}
