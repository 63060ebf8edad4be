// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// HTTP PROBER
// =============================================================================

// ErrNotImage is returned when the server answers with a non-image type.
var ErrNotImage = errors.New("response is not an image")

// DefaultProbeTimeout bounds a single probe.
const DefaultProbeTimeout = 5 * time.Second

// HTTPProber probes images with HEAD, retrying with GET when HEAD is not
// allowed.
type HTTPProber struct {
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPProber creates a prober with the given timeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProber{Client: &http.Client{Timeout: timeout}, Timeout: timeout}
}

// Probe implements Prober.
func (p *HTTPProber) Probe(ctx context.Context, url string) error {
	if url == "" {
		return ErrEmptyURL
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	resp, err := p.do(ctx, http.MethodHead, url)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		resp, err = p.do(ctx, http.MethodGet, url)
		if err != nil {
			return err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("probe %s: status %d", url, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || !strings.HasPrefix(mediaType, "image/") {
			return fmt.Errorf("probe %s: %w (%s)", url, ErrNotImage, ct)
		}
	}
	return nil
}

func (p *HTTPProber) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", url, err)
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", url, err)
	}
	// only status and headers matter
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
	resp.Body.Close()
	return resp, nil
}
