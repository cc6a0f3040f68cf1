package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Drelf2018/vue2img/pkg/resource"
)

// testPNG encodes a w x h red PNG.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// createTestPNGDataURI creates a small 2x2 red PNG as a data URI.
func createTestPNGDataURI(t *testing.T) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t, 2, 2))
}

type stubFetcher struct {
	bodies map[string][]byte
	calls  int
}

func (s *stubFetcher) Fetch(_ context.Context, uri string) ([]byte, string, error) {
	s.calls++
	b, ok := s.bodies[uri]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", resource.ErrMissingAsset, uri)
	}
	return b, "image/png", nil
}

func TestIsDataURI(t *testing.T) {
	if !IsDataURI("data:image/png;base64,abc") {
		t.Error("expected true for data URI")
	}
	if IsDataURI("/path/to/file.png") {
		t.Error("expected false for file path")
	}
	if IsDataURI("") {
		t.Error("expected false for empty string")
	}
}

func TestLoadImageFromDataURI(t *testing.T) {
	img, err := LoadImageFromDataURI(createTestPNGDataURI(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Errorf("expected 2x2 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestLoadImageFromDataURI_Invalid(t *testing.T) {
	tests := []string{
		"not-a-data-uri",
		"data:image/png;base64", // no comma
		"data:image/png;base64,!!!invalid-base64!!!",
		"data:image/png;base64,aGVsbG8=", // valid base64 but not an image
	}
	for _, uri := range tests {
		_, err := LoadImageFromDataURI(uri)
		if !errors.Is(err, ErrMissingAsset) {
			t.Errorf("expected ErrMissingAsset for %q, got %v", uri, err)
		}
	}
}

func TestLoader_CachesDataURI(t *testing.T) {
	l := NewLoader(nil, "")
	uri := createTestPNGDataURI(t)
	img, err := l.Load(context.Background(), uri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img2, err := l.Load(context.Background(), uri)
	if err != nil {
		t.Fatalf("unexpected error on cached load: %v", err)
	}
	if img != img2 {
		t.Error("expected cached image to be the same value")
	}
}

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), testPNG(t, 3, 1), 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := NewLoader(nil, dir).Load(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("expected width 3, got %d", img.Bounds().Dx())
	}

	_, err = NewLoader(nil, dir).Load(context.Background(), "missing.png")
	if !errors.Is(err, ErrMissingAsset) {
		t.Errorf("expected ErrMissingAsset, got %v", err)
	}
}

func TestLoader_ImageValue(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img, err := NewLoader(nil, "").Load(context.Background(), src)
	if err != nil || img != src {
		t.Errorf("expected the bound image back, got %v, %v", img, err)
	}
	if _, err := NewLoader(nil, "").Load(context.Background(), 42); !errors.Is(err, ErrMissingAsset) {
		t.Errorf("expected ErrMissingAsset for int src, got %v", err)
	}
}

func TestLoader_Preload(t *testing.T) {
	f := &stubFetcher{bodies: map[string][]byte{"https://x/a.png": testPNG(t, 4, 2)}}
	l := NewLoader(f, "")
	err := l.Preload(context.Background(), []any{"https://x/a.png", "local.png", 7}, resource.PrefetchOptions{Concurrency: 1})
	if err != nil {
		t.Fatalf("preload: %v", err)
	}
	img, err := l.Load(context.Background(), "https://x/a.png")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if img.Bounds().Dx() != 4 || f.calls != 1 {
		t.Errorf("expected one fetch of a 4px image, got %d calls, width %d", f.calls, img.Bounds().Dx())
	}

	err = l.Preload(context.Background(), []any{"https://x/missing.png"}, resource.PrefetchOptions{})
	if !errors.Is(err, ErrMissingAsset) {
		t.Errorf("expected ErrMissingAsset, got %v", err)
	}
}

func TestSizeAndScale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	w, h := Size(img, 100, 0, false)
	if w != 100 || h != 50 {
		t.Errorf("expected 100x50, got %vx%v", w, h)
	}
	w, h = Size(img, 100, 10, true)
	if w != 100 || h != 10 {
		t.Errorf("expected declared 100x10, got %vx%v", w, h)
	}
	scaled := Scale(img, 100, 50)
	if b := scaled.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("expected 100x50 bitmap, got %v", b)
	}
	if Scale(img, 40, 20) != image.Image(img) {
		t.Error("expected same-size scale to return the input")
	}
}
