package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"

	"github.com/Drelf2018/vue2img/pkg/css"
	"github.com/Drelf2018/vue2img/pkg/images"
	"github.com/Drelf2018/vue2img/pkg/layout"
	"github.com/Drelf2018/vue2img/pkg/template"
	"github.com/Drelf2018/vue2img/pkg/text"
)

func TestRadiusMask_Square(t *testing.T) {
	m := RadiusMask(8, 4, css.Radii{})
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			require.Equal(t, uint8(255), m.AlphaAt(x, y).A)
		}
	}
}

func TestRadiusMask_Circle(t *testing.T) {
	r := css.Radii{X: [4]float64{10, 10, 10, 10}, Y: [4]float64{10, 10, 10, 10}}
	m := RadiusMask(20, 20, r)
	for _, p := range []image.Point{{0, 0}, {19, 0}, {19, 19}, {0, 19}} {
		assert.Less(t, m.AlphaAt(p.X, p.Y).A, uint8(40), "corner %v", p)
	}
	for _, p := range []image.Point{{10, 10}, {10, 0}, {0, 10}, {19, 10}, {10, 19}} {
		assert.Greater(t, m.AlphaAt(p.X, p.Y).A, uint8(200), "edge %v", p)
	}
}

func TestRadiusMask_PerCorner(t *testing.T) {
	r := css.Radii{X: [4]float64{0, 6, 0, 0}, Y: [4]float64{0, 6, 0, 0}}
	m := RadiusMask(12, 12, r)
	assert.Equal(t, uint8(255), m.AlphaAt(0, 0).A)
	assert.Less(t, m.AlphaAt(11, 0).A, uint8(40))
	assert.Equal(t, uint8(255), m.AlphaAt(11, 11).A)
}

func TestRadiusMask_Clamped(t *testing.T) {
	r := css.Radii{X: [4]float64{100, 100, 100, 100}, Y: [4]float64{100, 100, 100, 100}}
	m := RadiusMask(20, 10, r)
	assert.Greater(t, m.AlphaAt(10, 5).A, uint8(200), "centre stays opaque")
	assert.Less(t, m.AlphaAt(0, 0).A, uint8(40))
}

type stubImages map[string]image.Image

func (s stubImages) Load(_ context.Context, src any) (image.Image, error) {
	return s[src.(string)], nil
}

func paint(t *testing.T, markup string, imgs stubImages) *image.RGBA {
	t.Helper()
	doc, err := template.Parse(markup, nil)
	require.NoError(t, err)
	fonts := text.NewFonts(nil)
	l, err := layout.NewLayoutEngine(100, 16, fonts, imgs).Layout(context.Background(), doc.Tree)
	require.NoError(t, err)
	canvas, err := NewRenderer(fonts).Paint(l)
	require.NoError(t, err)
	return canvas
}

func TestPaint_Background(t *testing.T) {
	canvas := paint(t, `<template><div style="height: 20px; background-color: red"></div><div style="height: 20px"></div></template>`, nil)
	assert.Equal(t, image.Rect(0, 0, 100, 40), canvas.Bounds())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, canvas.RGBAAt(50, 10))
	assert.Equal(t, color.RGBA{}, canvas.RGBAAt(50, 30), "canvas defaults to transparent")
}

func TestPaint_RoundedBackground(t *testing.T) {
	canvas := paint(t, `<template><div style="height: 40px; width: 40px; border-radius: 20px; background-color: blue"></div></template>`, nil)
	assert.Less(t, canvas.RGBAAt(0, 0).A, uint8(40))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, canvas.RGBAAt(20, 20))
}

func TestPaint_DocumentOrder(t *testing.T) {
	canvas := paint(t, `<template style="background-color: red"><div style="height: 10px; background-color: lime"></div></template>`, nil)
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, canvas.RGBAAt(5, 5), "children paint over parents")
}

func TestPaint_Image(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	canvas := paint(t, `<template><img src="white" style="margin: 0px 0px 0px 5px"></template>`, stubImages{"white": src})
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, canvas.RGBAAt(7, 5))
	assert.Equal(t, color.RGBA{}, canvas.RGBAAt(2, 5))
}

func TestPaint_Text(t *testing.T) {
	canvas := paint(t, `<template><div style="font-size: 20px; color: black">MM</div></template>`, nil)
	var inked bool
	b := canvas.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !inked; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if canvas.RGBAAt(x, y).A > 128 {
				inked = true
				break
			}
		}
	}
	assert.True(t, inked, "text leaves ink on the canvas")
}

func TestPaint_MissingFont(t *testing.T) {
	doc, err := template.Parse(`<template><div>x</div></template>`, nil)
	require.NoError(t, err)
	l, err := layout.NewLayoutEngine(100, 16, text.NewFonts(nil), nil).Layout(context.Background(), doc.Tree)
	require.NoError(t, err)
	_, err = NewRenderer(brokenFaces{}).Paint(l)
	assert.ErrorIs(t, err, images.ErrMissingAsset)
}

type brokenFaces struct{}

func (brokenFaces) Face(family string, _ float64) (font.Face, error) {
	return nil, fmt.Errorf("%w: %s", images.ErrMissingAsset, family)
}
