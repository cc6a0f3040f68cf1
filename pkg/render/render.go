// Package render paints a laid-out document onto an RGBA canvas.
package render

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/Drelf2018/vue2img/pkg/dom"
	"github.com/Drelf2018/vue2img/pkg/layout"
)

// FaceSource supplies font faces for drawing text.
type FaceSource interface {
	Face(family string, size float64) (font.Face, error)
}

// Renderer paints layouts. It keeps no state between Paint calls.
type Renderer struct {
	fonts FaceSource
}

func NewRenderer(fonts FaceSource) *Renderer {
	return &Renderer{fonts: fonts}
}

// Paint draws l in document order onto a new transparent canvas sized
// to the layout. Later boxes paint over earlier ones.
func (r *Renderer) Paint(l *layout.Layout) (*image.RGBA, error) {
	w, h := int(math.Ceil(l.Width)), int(math.Ceil(l.Height))
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	dc := gg.NewContextForRGBA(canvas)

	var err error
	l.Walk(func(b *layout.Box, _ int) {
		if err != nil {
			return
		}
		err = r.drawBox(dc, canvas, b)
	})
	if err != nil {
		return nil, err
	}
	return canvas, nil
}

func (r *Renderer) drawBox(dc *gg.Context, canvas *image.RGBA, b *layout.Box) error {
	switch b.Kind {
	case dom.Text:
		return r.drawText(dc, b)
	case dom.Image:
		r.drawBackground(canvas, b)
		r.drawImage(canvas, b)
	default:
		r.drawBackground(canvas, b)
	}
	return nil
}

// drawBackground fills the padding box, clipped by the corner mask.
func (r *Renderer) drawBackground(canvas *image.RGBA, b *layout.Box) {
	bg := b.Style.Background()
	if bg.A == 0 {
		return
	}
	x, y, w, h := b.Outer()
	rect := pixelRect(x, y, w, h)
	if rect.Empty() {
		return
	}
	src := image.NewUniform(bg)
	radii := b.Style.BorderRadius()
	if radii.IsZero() {
		draw.Draw(canvas, rect, src, image.Point{}, draw.Over)
		return
	}
	mask := RadiusMask(rect.Dx(), rect.Dy(), radii)
	draw.DrawMask(canvas, rect, src, image.Point{}, mask, image.Point{}, draw.Over)
}

// drawImage composites the pre-scaled bitmap through its corner mask.
// The mask multiplies the bitmap's own alpha.
func (r *Renderer) drawImage(canvas *image.RGBA, b *layout.Box) {
	if b.Image == nil {
		return
	}
	rect := pixelRect(b.X, b.Y, b.Width, b.Height)
	if rect.Empty() {
		return
	}
	radii := b.Style.BorderRadius()
	if radii.IsZero() {
		draw.Draw(canvas, rect, b.Image, b.Image.Bounds().Min, draw.Over)
		return
	}
	mask := RadiusMask(rect.Dx(), rect.Dy(), radii)
	draw.DrawMask(canvas, rect, b.Image, b.Image.Bounds().Min, mask, image.Point{}, draw.Over)
}

// drawText draws each wrapped line with its top at the running offset
// and its baseline one ascent below. float: right aligns lines to the
// right edge of the column.
func (r *Renderer) drawText(dc *gg.Context, b *layout.Box) error {
	if len(b.Lines) == 0 {
		return nil
	}
	face, err := r.fonts.Face(b.Style.FontFamily(), b.Style.FontSize())
	if err != nil {
		return fmt.Errorf("text: %w", err)
	}
	dc.SetFontFace(face)
	dc.SetColor(b.Style.Color())

	top := b.Y
	for _, line := range b.Lines {
		x := b.X
		if b.AlignRight {
			x += b.Column - line.Width
		}
		dc.DrawString(line.Text, x, top+b.Ascent)
		top += line.Height
	}
	return nil
}

func pixelRect(x, y, w, h float64) image.Rectangle {
	x0, y0 := int(math.Round(x)), int(math.Round(y))
	return image.Rect(x0, y0, x0+int(math.Round(w)), y0+int(math.Round(h)))
}
