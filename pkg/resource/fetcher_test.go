package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func TestFetch_Plain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/png")
		fmt.Fprint(w, "pixels")
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, 0)
	body, ct, err := f.Fetch(context.Background(), srv.URL+"/a.png")
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(body))
	assert.Equal(t, "image/png", ct)
}

func TestFetch_Brotli(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		fmt.Fprint(bw, "compressed body")
		bw.Close()
	}))
	defer srv.Close()

	body, _, err := NewFetcher(time.Second, 0).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "compressed body", string(body))
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, 2)
	f.Backoff = time.Millisecond
	body, _, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.EqualValues(t, 3, calls.Load())
}

func TestFetch_NotFoundIsMissingAsset(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, 3)
	f.Backoff = time.Millisecond
	_, _, err := f.Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrMissingAsset)
	assert.EqualValues(t, 1, calls.Load(), "client errors are not retried")
}

func TestFetch_RelativeURI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.URL.Path)
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, 0)
	f.BaseURL = srv.URL + "/assets/"
	body, _, err := f.Fetch(context.Background(), "img/x.png")
	require.NoError(t, err)
	assert.Equal(t, "/assets/img/x.png", string(body))

	_, _, err = NewFetcher(time.Second, 0).Fetch(context.Background(), "local.png")
	assert.ErrorIs(t, err, ErrMissingAsset)
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://a.com/x/b.png", ResolveURL("https://a.com/x/", "b.png"))
	assert.Equal(t, "https://c.com/d", ResolveURL("https://a.com/", "https://c.com/d"))
	assert.True(t, IsNetworkURL("http://x"))
	assert.False(t, IsNetworkURL("data:image/png;base64,"))
}

type mapFetcher struct {
	calls atomic.Int32
	fail  string
}

func (m *mapFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	m.calls.Add(1)
	if uri == m.fail {
		return nil, "", fmt.Errorf("%w: %s", ErrMissingAsset, uri)
	}
	return []byte("body:" + uri), "", nil
}

func TestPrefetch(t *testing.T) {
	f := &mapFetcher{}
	bodies, err := Prefetch(context.Background(), f, []string{"a", "b", "a", "c"}, PrefetchOptions{Concurrency: 2, RatePerSecond: 1000})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": []byte("body:a"), "b": []byte("body:b"), "c": []byte("body:c")}, bodies)
	assert.EqualValues(t, 3, f.calls.Load(), "duplicates are fetched once")
}

func TestPrefetch_Failure(t *testing.T) {
	f := &mapFetcher{fail: "b"}
	_, err := Prefetch(context.Background(), f, []string{"a", "b", "c"}, PrefetchOptions{})
	assert.True(t, errors.Is(err, ErrMissingAsset))
}
