// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package image resolves gallery references into displayable units and
// checks whether each one loads.
package image

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/rigrun-md/internal/extract"
)

// =============================================================================
// UNIT STATE
// =============================================================================

// State is the load state of one image unit.
type State string

const (
	// StateInvalid means the reference had no URL; nothing is loaded.
	StateInvalid State = "invalid"
	StatePending State = "pending"
	StateLoaded  State = "loaded"
	// StateFailed keeps the image mounted with a failure overlay.
	StateFailed State = "failed"
)

var (
	// ErrEmptyURL marks a reference without a URL.
	ErrEmptyURL = errors.New("image reference has no url")
	// ErrUnsafeURL marks a reference with a scheme other than http(s),
	// such as javascript: in an attachment.
	ErrUnsafeURL = errors.New("image reference is not an http(s) or relative url")
)

// Unit is one image in the gallery. Units are independent: a failure in
// one never changes another.
type Unit struct {
	Ref   extract.ImageRef `json:"ref"`
	URL   string           `json:"url,omitempty"`
	State State            `json:"state"`
	Err   string           `json:"error,omitempty"`
}

// Resolve builds a unit for ref. Relative URLs are appended to baseURL by
// plain concatenation. Absolute http(s) URLs are used as given rather than
// prefixed, so scraped CDN links stay loadable; this departs on purpose from
// unconditional concatenation. Any other scheme resolves to StateInvalid.
func Resolve(ref extract.ImageRef, baseURL string) Unit {
	if strings.TrimSpace(ref.URL) == "" {
		return Unit{Ref: ref, State: StateInvalid, Err: ErrEmptyURL.Error()}
	}
	if !SafeURL(ref.URL) {
		return Unit{Ref: ref, State: StateInvalid, Err: ErrUnsafeURL.Error()}
	}
	return Unit{Ref: ref, URL: resolveURL(baseURL, ref.URL), State: StatePending}
}

// SafeURL reports whether s is relative or uses http or https.
func SafeURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "", "http", "https":
		return true
	}
	return false
}

// ResolveAll resolves refs in order.
func ResolveAll(refs []extract.ImageRef, baseURL string) []Unit {
	units := make([]Unit, len(refs))
	for i, ref := range refs {
		units[i] = Resolve(ref, baseURL)
	}
	return units
}

func resolveURL(baseURL, ref string) string {
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ref
	}
	return baseURL + ref
}

// OpenURL is the target of the "open in new tab" affordance.
func (u Unit) OpenURL() string {
	return u.URL
}

// Displayable reports whether the unit has something safe to load.
func (u Unit) Displayable() bool {
	return u.State != StateInvalid && SafeURL(u.URL)
}

// =============================================================================
// LOADING
// =============================================================================

// Prober checks whether an image URL loads.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

// DefaultConcurrency bounds parallel probes.
const DefaultConcurrency = 4

// Load probes every pending unit and returns the updated slice. Failures are
// recorded per unit and logged; Load itself never fails.
func Load(ctx context.Context, units []Unit, prober Prober, limit int, logger *zap.Logger) []Unit {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	out := make([]Unit, len(units))
	copy(out, units)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range out {
		if out[i].State != StatePending {
			continue
		}
		i := i
		g.Go(func() error {
			if err := prober.Probe(gctx, out[i].URL); err != nil {
				out[i].State = StateFailed
				out[i].Err = err.Error()
				logger.Debug("image failed to load",
					zap.String("url", out[i].URL),
					zap.Error(err))
				return nil
			}
			out[i].State = StateLoaded
			return nil
		})
	}
	_ = g.Wait()
	return out
}
