// Package images loads the bitmaps referenced by <img> nodes and
// scales them to their laid-out size.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/webp"

	"github.com/Drelf2018/vue2img/pkg/resource"
)

// ErrMissingAsset is returned when an image cannot be loaded.
var ErrMissingAsset = resource.ErrMissingAsset

// Loader resolves image sources and caches the decoded results. A src
// may be an image.Image, a data: URI, an http(s) URL or a file path
// relative to the loader's base directory.
type Loader struct {
	fetcher resource.Fetcher
	baseDir string

	mu    sync.RWMutex
	cache map[string]image.Image
}

// NewLoader creates a loader. fetcher may be nil, in which case
// network sources fail with ErrMissingAsset.
func NewLoader(fetcher resource.Fetcher, baseDir string) *Loader {
	return &Loader{
		fetcher: fetcher,
		baseDir: baseDir,
		cache:   make(map[string]image.Image),
	}
}

// Load returns the image for src.
func (l *Loader) Load(ctx context.Context, src any) (image.Image, error) {
	switch v := src.(type) {
	case image.Image:
		return v, nil
	case string:
		return l.loadString(ctx, v)
	case nil:
		return nil, fmt.Errorf("%w: empty src", ErrMissingAsset)
	}
	return nil, fmt.Errorf("%w: unsupported src type %T", ErrMissingAsset, src)
}

func (l *Loader) loadString(ctx context.Context, src string) (image.Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("%w: empty src", ErrMissingAsset)
	}
	if img, ok := l.cached(src); ok {
		return img, nil
	}

	var (
		img image.Image
		err error
	)
	switch {
	case IsDataURI(src):
		img, err = LoadImageFromDataURI(src)
	case resource.IsNetworkURL(src):
		img, err = l.fetch(ctx, src)
	default:
		img, err = l.loadFile(src)
	}
	if err != nil {
		return nil, err
	}
	l.store(src, img)
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, src string) (image.Image, error) {
	if l.fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher for %s", ErrMissingAsset, src)
	}
	body, _, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return decode(src, body)
}

func (l *Loader) loadFile(path string) (image.Image, error) {
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingAsset, err)
	}
	return decode(path, data)
}

// Preload fetches every network source in srcs concurrently and
// caches the decoded images, so later Load calls do not block on the
// network.
func (l *Loader) Preload(ctx context.Context, srcs []any, opts resource.PrefetchOptions) error {
	var uris []string
	for _, s := range srcs {
		if u, ok := s.(string); ok && resource.IsNetworkURL(u) {
			if _, hit := l.cached(u); !hit {
				uris = append(uris, u)
			}
		}
	}
	if len(uris) == 0 {
		return nil
	}
	if l.fetcher == nil {
		return fmt.Errorf("%w: no fetcher for %s", ErrMissingAsset, uris[0])
	}
	bodies, err := resource.Prefetch(ctx, l.fetcher, uris, opts)
	if err != nil {
		return err
	}
	for uri, body := range bodies {
		img, err := decode(uri, body)
		if err != nil {
			return err
		}
		l.store(uri, img)
	}
	return nil
}

func (l *Loader) cached(key string) (image.Image, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	img, ok := l.cache[key]
	return img, ok
}

func (l *Loader) store(key string, img image.Image) {
	l.mu.Lock()
	l.cache[key] = img
	l.mu.Unlock()
}

func decode(name string, data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrMissingAsset, name, err)
	}
	return img, nil
}

// IsDataURI reports whether s is a data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// LoadImageFromDataURI decodes a base64 or percent-encoded data: URI.
func LoadImageFromDataURI(uri string) (image.Image, error) {
	if !IsDataURI(uri) {
		return nil, fmt.Errorf("%w: not a data URI", ErrMissingAsset)
	}
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, fmt.Errorf("%w: data URI without payload", ErrMissingAsset)
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]

	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		var err error
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: data URI: %v", ErrMissingAsset, err)
		}
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: data URI: %v", ErrMissingAsset, err)
		}
		data = []byte(s)
	}
	return decode("data URI", data)
}
