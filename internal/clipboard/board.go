// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clipboard

import (
	"context"
	"sync"
)

// =============================================================================
// BOARD
// =============================================================================

// Board holds one Action per code block, keyed by code unit ID. Actions are
// created on first use and outlive re-renders of the same document.
type Board struct {
	writer Writer
	opts   []ActionOption

	mu       sync.Mutex
	actions  map[string]*Action
	onChange func(id string, copied bool)
}

// NewBoard creates an empty board whose actions write through w.
func NewBoard(w Writer, opts ...ActionOption) *Board {
	return &Board{
		writer:  w,
		opts:    opts,
		actions: make(map[string]*Action),
	}
}

// OnChange registers a callback fired when any block's indicator changes.
func (b *Board) OnChange(fn func(id string, copied bool)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Action returns the action for id, creating it if needed.
func (b *Board) Action(id string) *Action {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a, ok := b.actions[id]; ok {
		return a
	}
	a := NewAction(b.writer, b.opts...)
	a.OnChange(func(copied bool) {
		b.mu.Lock()
		fn := b.onChange
		b.mu.Unlock()
		if fn != nil {
			fn(id, copied)
		}
	})
	b.actions[id] = a
	return a
}

// Copy copies text through the action for id.
func (b *Board) Copy(ctx context.Context, id, text string) error {
	return b.Action(id).Copy(ctx, text)
}

// Copied reports whether the indicator for id is on.
func (b *Board) Copied(id string) bool {
	b.mu.Lock()
	a, ok := b.actions[id]
	b.mu.Unlock()
	return ok && a.Copied()
}

// Retain closes and forgets actions whose IDs are not in keep.
func (b *Board) Retain(keep []string) {
	set := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		set[id] = struct{}{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, a := range b.actions {
		if _, ok := set[id]; !ok {
			a.Close()
			delete(b.actions, id)
		}
	}
}

// Close stops every pending revert.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, a := range b.actions {
		a.Close()
		delete(b.actions, id)
	}
}
