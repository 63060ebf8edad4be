// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch re-renders a message file whenever it changes on disk.
//
// A streaming producer typically rewrites the file many times per second.
// Changes are debounced and then throttled so the renderer sees at most a
// bounded number of updates, each with the latest content.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// =============================================================================
// FILE WATCHER INTERFACE
// =============================================================================

// Handler is called with the watched path after each settled change.
type Handler func(path string)

// FileWatcher is the interface for file watching implementations.
type FileWatcher interface {
	// Watch starts watching; it returns once the watch is established.
	Watch(ctx context.Context) error

	// Close stops watching and waits for background work to finish.
	Close() error
}

// Options tunes change delivery.
type Options struct {
	// Debounce is how long a file must stay quiet before a change fires.
	Debounce time.Duration
	// MaxPerSecond caps change notifications; 0 means unlimited.
	MaxPerSecond float64
	// PollInterval is used by the polling fallback.
	PollInterval time.Duration
	Logger       *zap.Logger
}

// DefaultOptions returns the built-in tuning.
func DefaultOptions() Options {
	return Options{
		Debounce:     150 * time.Millisecond,
		MaxPerSecond: 10,
		PollInterval: 500 * time.Millisecond,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Debounce < 0 {
		o.Debounce = 0
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

func (o Options) limiter() *rate.Limiter {
	if o.MaxPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(o.MaxPerSecond), 1)
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// FsnotifyWatcher implements FileWatcher using fsnotify. It watches the
// file's directory so editors that replace the file by rename still count.
type FsnotifyWatcher struct {
	path    string
	handler Handler
	opts    Options
	limiter *rate.Limiter

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	pending time.Time // zero when nothing is pending
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewFsnotifyWatcher creates a new fsnotify-based watcher for path.
func NewFsnotifyWatcher(path string, handler Handler, opts Options) (*FsnotifyWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	opts = opts.normalized()
	return &FsnotifyWatcher{
		path:    abs,
		handler: handler,
		opts:    opts,
		limiter: opts.limiter(),
		watcher: watcher,
	}, nil
}

// Watch starts watching for file changes.
func (fw *FsnotifyWatcher) Watch(ctx context.Context) error {
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return fmt.Errorf("watch %s: %w", fw.path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	fw.cancel = cancel

	fw.wg.Add(2)
	go fw.processEvents(ctx)
	go fw.processPending(ctx)
	return nil
}

// processEvents records changes to the watched file.
func (fw *FsnotifyWatcher) processEvents(ctx context.Context) {
	defer fw.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				fw.mu.Lock()
				fw.pending = time.Now()
				fw.mu.Unlock()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.opts.Logger.Warn("file watcher error", zap.String("path", fw.path), zap.Error(err))
		}
	}
}

// processPending fires the handler once the file has been quiet for the
// debounce interval and the rate limit allows it.
func (fw *FsnotifyWatcher) processPending(ctx context.Context) {
	defer fw.wg.Done()

	tick := fw.opts.Debounce / 3
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case now := <-ticker.C:
			fw.mu.Lock()
			ready := !fw.pending.IsZero() && now.Sub(fw.pending) >= fw.opts.Debounce
			if ready && fw.limiter.Allow() {
				fw.pending = time.Time{}
			} else {
				ready = false
			}
			fw.mu.Unlock()

			if ready {
				fw.fire()
			}
		}
	}
}

func (fw *FsnotifyWatcher) fire() {
	if _, err := os.Stat(fw.path); err != nil {
		// removed; a later create will fire again
		fw.opts.Logger.Debug("watched file missing", zap.String("path", fw.path), zap.Error(err))
		return
	}
	fw.handler(fw.path)
}

// Close stops watching and releases resources.
func (fw *FsnotifyWatcher) Close() error {
	if fw.cancel != nil {
		fw.cancel()
	}
	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// PollingWatcher implements FileWatcher using periodic stat calls.
type PollingWatcher struct {
	path    string
	handler Handler
	opts    Options
	limiter *rate.Limiter

	modTime time.Time
	size    int64
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewPollingWatcher creates a new polling-based watcher.
func NewPollingWatcher(path string, handler Handler, opts Options) *PollingWatcher {
	opts = opts.normalized()
	return &PollingWatcher{
		path:    path,
		handler: handler,
		opts:    opts,
		limiter: opts.limiter(),
	}
}

// Watch starts polling.
func (pw *PollingWatcher) Watch(ctx context.Context) error {
	info, err := os.Stat(pw.path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", pw.path, err)
	}
	pw.modTime, pw.size = info.ModTime(), info.Size()

	ctx, cancel := context.WithCancel(ctx)
	pw.cancel = cancel

	pw.wg.Add(1)
	go pw.poll(ctx)
	return nil
}

func (pw *PollingWatcher) poll(ctx context.Context) {
	defer pw.wg.Done()
	ticker := time.NewTicker(pw.opts.PollInterval)
	defer ticker.Stop()

	dirty := false
	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(pw.path)
			if err != nil {
				continue
			}
			if !info.ModTime().Equal(pw.modTime) || info.Size() != pw.size {
				pw.modTime, pw.size = info.ModTime(), info.Size()
				dirty = true
			}
			if dirty && pw.limiter.Allow() {
				dirty = false
				pw.handler(pw.path)
			}
		}
	}
}

// Close stops polling.
func (pw *PollingWatcher) Close() error {
	if pw.cancel != nil {
		pw.cancel()
	}
	pw.wg.Wait()
	return nil
}

// =============================================================================
// WATCHER FACTORY
// =============================================================================

// Start watches path with fsnotify, falling back to polling when fsnotify is
// unavailable.
func Start(ctx context.Context, path string, handler Handler, opts Options) (FileWatcher, error) {
	opts = opts.normalized()

	fw, err := NewFsnotifyWatcher(path, handler, opts)
	if err == nil {
		if err = fw.Watch(ctx); err == nil {
			return fw, nil
		}
		fw.Close()
	}
	opts.Logger.Info("fsnotify unavailable, polling instead", zap.String("path", path), zap.Error(err))

	pw := NewPollingWatcher(path, handler, opts)
	if err := pw.Watch(ctx); err != nil {
		return nil, err
	}
	return pw, nil
}
