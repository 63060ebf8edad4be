// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clipboard implements the copy-to-clipboard action attached to
// code blocks.
package clipboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	sysclip "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"go.uber.org/zap"
)

// =============================================================================
// WRITER
// =============================================================================

// Writer puts text on a clipboard.
type Writer interface {
	Write(ctx context.Context, text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, text string) error

// Write implements Writer.
func (f WriterFunc) Write(ctx context.Context, text string) error {
	return f(ctx, text)
}

// SystemWriter writes to the OS clipboard. When no clipboard utility is
// available (headless or remote sessions) it emits an OSC 52 sequence so the
// terminal sets the clipboard instead.
type SystemWriter struct {
	// Terminal receives the OSC 52 fallback; defaults to stderr.
	Terminal io.Writer
	// DisableOSC52 turns the fallback off.
	DisableOSC52 bool
}

// NewSystemWriter creates a writer with the OSC 52 fallback enabled.
func NewSystemWriter() *SystemWriter {
	return &SystemWriter{Terminal: os.Stderr}
}

// Write implements Writer.
func (w *SystemWriter) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !sysclip.Unsupported {
		err := sysclip.WriteAll(text)
		if err == nil || w.DisableOSC52 {
			if err != nil {
				return fmt.Errorf("write clipboard: %w", err)
			}
			return nil
		}
	} else if w.DisableOSC52 {
		return fmt.Errorf("write clipboard: no clipboard utility available")
	}

	term := w.Terminal
	if term == nil {
		term = os.Stderr
	}
	if _, err := osc52.New(text).WriteTo(term); err != nil {
		return fmt.Errorf("write osc52 sequence: %w", err)
	}
	return nil
}

// =============================================================================
// ACTION
// =============================================================================

// RevertAfter is how long the copied indicator stays on.
const RevertAfter = 2000 * time.Millisecond

// Action is the state machine behind one copy affordance: Idle, then Copied
// after a successful write, then Idle again once RevertAfter elapses.
// A second copy while Copied restarts the countdown; only the latest timer
// can revert.
type Action struct {
	writer      Writer
	logger      *zap.Logger
	revertAfter time.Duration
	afterFunc   func(time.Duration, func()) *time.Timer

	mu       sync.Mutex
	copied   bool
	seq      uint64
	timer    *time.Timer
	closed   bool
	onChange func(copied bool)
}

// ActionOption configures an Action.
type ActionOption func(*Action)

// WithLogger sets the logger for copy failures.
func WithLogger(logger *zap.Logger) ActionOption {
	return func(a *Action) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRevertAfter overrides the indicator duration.
func WithRevertAfter(d time.Duration) ActionOption {
	return func(a *Action) {
		if d > 0 {
			a.revertAfter = d
		}
	}
}

// WithAfterFunc replaces time.AfterFunc, for tests.
func WithAfterFunc(fn func(time.Duration, func()) *time.Timer) ActionOption {
	return func(a *Action) {
		if fn != nil {
			a.afterFunc = fn
		}
	}
}

// NewAction creates an idle action writing through w.
func NewAction(w Writer, opts ...ActionOption) *Action {
	a := &Action{
		writer:      w,
		logger:      zap.NewNop(),
		revertAfter: RevertAfter,
		afterFunc:   time.AfterFunc,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OnChange registers a callback for indicator changes. It is called without
// the action's lock held.
func (a *Action) OnChange(fn func(copied bool)) {
	a.mu.Lock()
	a.onChange = fn
	a.mu.Unlock()
}

// Copied reports whether the copied indicator is on.
func (a *Action) Copied() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.copied
}

// Copy writes text and, on success, turns the indicator on and (re)starts
// the revert countdown. On failure the state is left as it was and the error
// is logged and returned.
func (a *Action) Copy(ctx context.Context, text string) error {
	if err := a.writer.Write(ctx, text); err != nil {
		a.logger.Warn("copy to clipboard failed",
			zap.Int("bytes", len(text)),
			zap.Error(err))
		return err
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.seq++
	seq := a.seq
	changed := !a.copied
	a.copied = true
	a.timer = a.afterFunc(a.revertAfter, func() { a.revert(seq) })
	notify := a.onChange
	a.mu.Unlock()

	if changed && notify != nil {
		notify(true)
	}
	return nil
}

// revert turns the indicator off if seq is still the latest copy.
func (a *Action) revert(seq uint64) {
	a.mu.Lock()
	if seq != a.seq || !a.copied || a.closed {
		a.mu.Unlock()
		return
	}
	a.copied = false
	a.timer = nil
	notify := a.onChange
	a.mu.Unlock()

	if notify != nil {
		notify(false)
	}
}

// Close stops any pending revert. The action stays in its current state.
func (a *Action) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
