// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package image

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-md/internal/extract"
)

// =============================================================================
// RESOLVE TESTS
// =============================================================================

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		ref     extract.ImageRef
		baseURL string
		wantURL string
		state   State
		wantErr error
	}{
		{"relative joined", extract.ImageRef{URL: "/files/a.png"}, "https://api.example.com", "https://api.example.com/files/a.png", StatePending, nil},
		{"plain concatenation", extract.ImageRef{URL: "files/a.png"}, "https://x.io/", "https://x.io/files/a.png", StatePending, nil},
		{"absolute kept", extract.ImageRef{URL: "https://cdn.io/a.png"}, "https://api.example.com", "https://cdn.io/a.png", StatePending, nil},
		{"absolute mixed case", extract.ImageRef{URL: "HTTP://cdn.io/a.png"}, "https://base", "HTTP://cdn.io/a.png", StatePending, nil},
		{"empty base", extract.ImageRef{URL: "/a.png"}, "", "/a.png", StatePending, nil},
		{"empty url invalid", extract.ImageRef{URL: ""}, "https://base", "", StateInvalid, ErrEmptyURL},
		{"blank url invalid", extract.ImageRef{URL: "  "}, "https://base", "", StateInvalid, ErrEmptyURL},
		{"javascript rejected", extract.ImageRef{URL: "javascript:alert(1)"}, "", "", StateInvalid, ErrUnsafeURL},
		{"mixed case scheme rejected", extract.ImageRef{URL: " JavaScript:alert(1)"}, "", "", StateInvalid, ErrUnsafeURL},
		{"data rejected", extract.ImageRef{URL: "data:image/png;base64,AAAA"}, "https://base", "", StateInvalid, ErrUnsafeURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Resolve(tt.ref, tt.baseURL)
			assert.Equal(t, tt.state, u.State)
			assert.Equal(t, tt.wantURL, u.URL)
			assert.Equal(t, tt.ref, u.Ref)
			if tt.state == StateInvalid {
				assert.False(t, u.Displayable())
				assert.Equal(t, tt.wantErr.Error(), u.Err)
			} else {
				assert.Equal(t, u.URL, u.OpenURL())
			}
		})
	}
}

func TestDisplayableRejectsUnsafeURLs(t *testing.T) {
	assert.True(t, Unit{URL: "https://x/a.png", State: StateLoaded}.Displayable())
	assert.True(t, Unit{URL: "/a.png", State: StatePending}.Displayable())
	assert.False(t, Unit{URL: "javascript:alert(1)", State: StateLoaded}.Displayable())
	assert.False(t, Unit{State: StateInvalid}.Displayable())
}

func TestResolveAllKeepsOrder(t *testing.T) {
	refs := []extract.ImageRef{{URL: "/1.png"}, {URL: ""}, {URL: "https://x/3.png"}}
	units := ResolveAll(refs, "https://b")
	require.Len(t, units, 3)
	assert.Equal(t, "https://b/1.png", units[0].URL)
	assert.Equal(t, StateInvalid, units[1].State)
	assert.Equal(t, "https://x/3.png", units[2].URL)
}

// =============================================================================
// LOAD TESTS
// =============================================================================

type fakeProber struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls []string
}

func (f *fakeProber) Probe(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if f.fail[url] {
		return errors.New("boom")
	}
	return nil
}

func TestLoadFailuresAreIndependent(t *testing.T) {
	units := ResolveAll([]extract.ImageRef{
		{URL: "https://x/ok.png"},
		{URL: "https://x/bad.png"},
		{URL: ""},
		{URL: "https://x/ok2.png"},
	}, "")
	prober := &fakeProber{fail: map[string]bool{"https://x/bad.png": true}}

	out := Load(context.Background(), units, prober, 2, nil)

	require.Len(t, out, 4)
	assert.Equal(t, StateLoaded, out[0].State)
	assert.Equal(t, StateFailed, out[1].State)
	assert.Equal(t, "boom", out[1].Err)
	assert.Equal(t, StateInvalid, out[2].State)
	assert.Equal(t, StateLoaded, out[3].State)

	// invalid units are never probed
	assert.Len(t, prober.calls, 3)
	// input is not mutated
	assert.Equal(t, StatePending, units[1].State)
}

func TestLoadSkipsSettledUnits(t *testing.T) {
	units := []Unit{{URL: "https://x/a.png", State: StateLoaded}}
	prober := &fakeProber{}
	out := Load(context.Background(), units, prober, 0, nil)
	assert.Equal(t, StateLoaded, out[0].State)
	assert.Empty(t, prober.calls)
}

// =============================================================================
// HTTP PROBER TESTS
// =============================================================================

func TestHTTPProber(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
	})
	mux.HandleFunc("/missing.png", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/page.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	})
	mux.HandleFunc("/gethead.png", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewHTTPProber(time.Second)
	ctx := context.Background()

	assert.NoError(t, p.Probe(ctx, srv.URL+"/ok.png"))
	assert.NoError(t, p.Probe(ctx, srv.URL+"/gethead.png"))
	assert.Error(t, p.Probe(ctx, srv.URL+"/missing.png"))
	assert.ErrorIs(t, p.Probe(ctx, srv.URL+"/page.png"), ErrNotImage)
	assert.ErrorIs(t, p.Probe(ctx, ""), ErrEmptyURL)
}

func TestHTTPProberWithLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/files/good.png" {
			w.Header().Set("Content-Type", "image/png")
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	units := ResolveAll([]extract.ImageRef{{URL: "/files/good.png"}, {URL: "/files/bad.png"}}, srv.URL)
	out := Load(context.Background(), units, NewHTTPProber(time.Second), 2, nil)
	assert.Equal(t, StateLoaded, out[0].State)
	assert.Equal(t, StateFailed, out[1].State)
}
