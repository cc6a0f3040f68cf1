package text

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedMeasurer gives every character the same advance.
type fixedMeasurer struct {
	advance, height float64
}

func (m fixedMeasurer) Advance(s string) float64    { return float64(utf8.RuneCountInString(s)) * m.advance }
func (m fixedMeasurer) LineHeight(string) float64 { return m.height }
func (m fixedMeasurer) Ascent() float64 { return m.height * 0.8 }

func TestWrap_FixedAdvance(t *testing.T) {
	m := fixedMeasurer{advance: 10, height: 12}
	b := Wrap(strings.Repeat("x", 10), m, 35)

	total := 0
	for _, l := range b.Lines {
		assert.LessOrEqual(t, l.Width, 35.0, "line %q", l.Text)
		assert.LessOrEqual(t, utf8.RuneCountInString(l.Text), 3)
		total += utf8.RuneCountInString(l.Text)
	}
	assert.Equal(t, 10, total)
	assert.Len(t, b.Lines, 4)
	assert.Equal(t, 35.0, b.Width, "wrapped text fills the column")
	assert.Equal(t, 48.0, b.Height)
}

func TestWrap_SingleLine(t *testing.T) {
	b := Wrap("abc", fixedMeasurer{advance: 10, height: 12}, 100)
	require.Len(t, b.Lines, 1)
	assert.Equal(t, 30.0, b.Width)
	assert.Equal(t, 12.0, b.Height)
}

func TestWrap_Empty(t *testing.T) {
	b := Wrap("", fixedMeasurer{advance: 10, height: 12}, 100)
	assert.Empty(t, b.Lines)
	assert.Zero(t, b.Height)
}

func TestWrap_NarrowColumn(t *testing.T) {
	b := Wrap("ab", fixedMeasurer{advance: 10, height: 12}, 5)
	assert.Equal(t, []Line{{"a", 10, 12}, {"b", 10, 12}}, b.Lines)
}

func TestFonts_Builtin(t *testing.T) {
	fonts := NewFonts(nil)
	m, err := fonts.Measurer("'sans-serif'", 20)
	require.NoError(t, err)
	assert.Greater(t, m.Advance("AB"), m.Advance("A"))
	assert.Greater(t, m.Ascent(), 0.0)
	assert.GreaterOrEqual(t, m.LineHeight("Ag"), m.LineHeight("A"))

	f1, err := fonts.Face("monospace", 12)
	require.NoError(t, err)
	f2, err := fonts.Face("MONOSPACE", 12)
	require.NoError(t, err)
	assert.Same(t, f1, f2)
}

func TestFonts_Missing(t *testing.T) {
	_, err := NewFonts(nil).Face("/no/such/font.ttf", 12)
	assert.True(t, errors.Is(err, ErrMissingAsset))

	_, err = NewFonts(map[string]string{"brand": "/missing.ttf"}).Face("Brand", 12)
	assert.ErrorIs(t, err, ErrMissingAsset)
}
