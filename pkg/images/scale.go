package images

import (
	"image"
	"math"

	"github.com/nfnt/resize"
)

// Size returns the laid-out size of img for the given width. Without a
// declared height the aspect ratio is preserved.
func Size(img image.Image, width float64, height float64, hasHeight bool) (float64, float64) {
	if hasHeight {
		return width, height
	}
	b := img.Bounds()
	if b.Dx() == 0 {
		return width, 0
	}
	return width, width * float64(b.Dy()) / float64(b.Dx())
}

// Scale resamples img to width x height pixels with a Lanczos filter.
func Scale(img image.Image, width, height float64) image.Image {
	w, h := uint(math.Round(width)), uint(math.Round(height))
	if w == 0 || h == 0 {
		return image.NewNRGBA(image.Rect(0, 0, int(w), int(h)))
	}
	b := img.Bounds()
	if uint(b.Dx()) == w && uint(b.Dy()) == h {
		return img
	}
	return resize.Resize(w, h, img, resize.Lanczos3)
}
