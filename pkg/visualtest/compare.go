package visualtest

import (
	"fmt"
	"image"
	"image/color"
)

// CompareResult contains the results of an image comparison
type CompareResult struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int // Max color channel difference found
	// Diff marks mismatching pixels in red over a grayscale copy of the
	// actual image. Only set when CompareOptions.Diff is true.
	Diff *image.RGBA
}

// CompareOptions configures the image comparison
type CompareOptions struct {
	// Tolerance is the maximum allowed difference per color channel (0-255).
	Tolerance int

	// FuzzyRadius: if > 0, a pixel matches if it matches any pixel within
	// this radius of the same position in the expected image.
	FuzzyRadius int

	// MaxDifferentPercent: if > 0, pass if the percentage of different
	// pixels is <= this value.
	MaxDifferentPercent float64

	// Diff builds CompareResult.Diff.
	Diff bool
	// DiffImagePath, if set, is where CompareFiles writes a failing diff.
	DiffImagePath string
}

// DefaultOptions returns the tolerance used for anti-aliased edges.
func DefaultOptions() CompareOptions {
	return CompareOptions{Tolerance: 2}
}

// Compare compares two images pixel by pixel.
func Compare(actual, expected image.Image, opts CompareOptions) (*CompareResult, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return &CompareResult{}, fmt.Errorf("image dimensions differ: actual=%v, expected=%v", bounds, expected.Bounds())
	}

	result := &CompareResult{
		Match:       true,
		TotalPixels: bounds.Dx() * bounds.Dy(),
	}
	if opts.Diff || opts.DiffImagePath != "" {
		result.Diff = image.NewRGBA(bounds)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := rgba8(actual.At(x, y))
			diff := channelDiff(a, rgba8(expected.At(x, y)))
			if diff > result.MaxDifference {
				result.MaxDifference = diff
			}

			mismatch := diff > opts.Tolerance
			if mismatch && opts.FuzzyRadius > 0 {
				mismatch = !fuzzyMatch(a, expected, x, y, opts.FuzzyRadius, opts.Tolerance, bounds)
			}
			if mismatch {
				result.Match = false
				result.DifferentPixels++
			}
			if result.Diff != nil {
				if mismatch {
					result.Diff.Set(x, y, color.RGBA{255, 0, 0, 255})
				} else {
					result.Diff.Set(x, y, color.RGBA{a[0], a[0], a[0], 255})
				}
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 && result.TotalPixels > 0 {
		pct := float64(result.DifferentPixels) / float64(result.TotalPixels) * 100
		if pct <= opts.MaxDifferentPercent {
			result.Match = true
		}
	}
	return result, nil
}

// CompareFiles compares two PNG files, writing the diff image to
// opts.DiffImagePath when they do not match.
func CompareFiles(actualPath, expectedPath string, opts CompareOptions) (*CompareResult, error) {
	actual, err := LoadPNG(actualPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load actual image: %w", err)
	}
	expected, err := LoadPNG(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load expected image: %w", err)
	}
	result, err := Compare(actual, expected, opts)
	if err != nil {
		return result, err
	}
	if !result.Match && opts.DiffImagePath != "" {
		if err := SavePNG(result.Diff, opts.DiffImagePath); err != nil {
			return result, fmt.Errorf("failed to save diff image: %w", err)
		}
	}
	return result, nil
}

// fuzzyMatch checks if the actual pixel matches any expected pixel within radius
func fuzzyMatch(a [4]uint8, expected image.Image, x, y, radius, tolerance int, bounds image.Rectangle) bool {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := image.Pt(x+dx, y+dy)
			if !p.In(bounds) {
				continue
			}
			if channelDiff(a, rgba8(expected.At(p.X, p.Y))) <= tolerance {
				return true
			}
		}
	}
	return false
}

func rgba8(c color.Color) [4]uint8 {
	r, g, b, a := c.RGBA()
	return [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func channelDiff(a, b [4]uint8) int {
	m := 0
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		m = max(m, d)
	}
	return m
}
