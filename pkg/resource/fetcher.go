// Package resource fetches remote assets for a render: image bytes
// over HTTP with timeouts, retries and brotli decoding, and
// concurrent prefetching of every asset a document references.
package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

// ErrMissingAsset is returned when an image or font cannot be loaded.
var ErrMissingAsset = errors.New("missing asset")

const defaultUserAgent = "vue2img/1.0 (compatible; Go)"

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// HTTPFetcher fetches resources over HTTP/HTTPS, resolving relative URIs
// against a base URL.
type HTTPFetcher struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
	// Retries is the number of extra attempts after a failed request.
	Retries int
	// Backoff is the delay before the first retry; it doubles each time.
	Backoff time.Duration
}

// NewFetcher creates an HTTPFetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration, retries int) *HTTPFetcher {
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: defaultUserAgent,
		Retries:   retries,
		Backoff:   200 * time.Millisecond,
	}
}

// Fetch retrieves the resource at uri. Failures are reported as
// ErrMissingAsset once every attempt is exhausted.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved := uri
	if !IsNetworkURL(uri) && f.BaseURL != "" {
		resolved = ResolveURL(f.BaseURL, uri)
	}
	if !IsNetworkURL(resolved) {
		return nil, "", fmt.Errorf("%w: cannot fetch non-network URI %s", ErrMissingAsset, resolved)
	}

	backoff := f.Backoff
	var lastErr error
	for attempt := 0; attempt <= f.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, "", fmt.Errorf("%w: %s: %v", ErrMissingAsset, resolved, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		body, ct, retry, err := f.get(ctx, resolved)
		if err == nil {
			return body, ct, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, "", fmt.Errorf("%w: %v", ErrMissingAsset, lastErr)
}

// get performs one request. retry reports whether the failure is
// worth another attempt.
func (f *HTTPFetcher) get(ctx context.Context, rawURL string) (body []byte, contentType string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", false, fmt.Errorf("creating request: %w", err)
	}
	ua := f.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept-Encoding", "br")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", ctx.Err() == nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retry = resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, "", retry, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, rawURL)
	}

	var r io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "br") {
		r = brotli.NewReader(resp.Body)
	}
	body, err = io.ReadAll(r)
	if err != nil {
		return nil, "", true, fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), false, nil
}

// ResolveURL resolves a possibly-relative URI against a base URL.
// If ref is already absolute, it is returned as-is.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsNetworkURL returns true if the string looks like an HTTP or HTTPS URL.
func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
