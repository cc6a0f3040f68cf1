package text

import (
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Measurer reports the metrics wrapping needs for one font at one size.
type Measurer interface {
	// Advance returns the rendered width of s.
	Advance(s string) float64
	// LineHeight returns the height of the line box holding s.
	LineHeight(s string) float64
	// Ascent returns the distance from the top of a line to its baseline.
	Ascent() float64
}

// FaceMeasurer measures with a font.Face.
type FaceMeasurer struct {
	Face font.Face
}

func (m FaceMeasurer) Advance(s string) float64 {
	return fix(font.MeasureString(m.Face, s))
}

// LineHeight is the ascent plus however far the inked glyphs of s
// reach below the baseline, and never less than the font's descent.
func (m FaceMeasurer) LineHeight(s string) float64 {
	metrics := m.Face.Metrics()
	below := metrics.Descent
	if s != "" {
		bounds, _ := font.BoundString(m.Face, s)
		if bounds.Max.Y > below {
			below = bounds.Max.Y
		}
	}
	return fix(metrics.Ascent + below)
}

func (m FaceMeasurer) Ascent() float64 {
	return fix(m.Face.Metrics().Ascent)
}

func fix(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Line is one wrapped line.
type Line struct {
	Text   string
	Width  float64
	Height float64
}

// Block is the result of wrapping a text.
type Block struct {
	Lines  []Line
	Width  float64
	Height float64
	Ascent float64
}

// Wrap breaks s into lines no wider than maxWidth, character by
// character. A character that alone exceeds maxWidth still gets a line
// of its own. A single line reports its own width; once text wraps the
// block fills the whole column.
func Wrap(s string, m Measurer, maxWidth float64) Block {
	b := Block{Ascent: m.Ascent()}
	flush := func(line string) {
		if line == "" {
			return
		}
		l := Line{Text: line, Width: m.Advance(line), Height: m.LineHeight(line)}
		b.Lines = append(b.Lines, l)
		b.Height += l.Height
	}

	var current []rune
	for _, r := range s {
		candidate := append(current, r)
		if len(current) > 0 && m.Advance(string(candidate)) > maxWidth {
			flush(string(current))
			current = []rune{r}
			continue
		}
		current = candidate
	}
	flush(string(current))

	switch len(b.Lines) {
	case 0:
	case 1:
		b.Width = b.Lines[0].Width
	default:
		b.Width = maxWidth
	}
	return b
}
