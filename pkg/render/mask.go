package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/Drelf2018/vue2img/pkg/css"
)

// Supersampling factor for corner arcs.
const beta = 10

// RadiusMask builds a w x h alpha mask that is opaque except outside
// the rounded corners described by r. Each corner is drawn as a
// quarter ellipse at beta times the resolution and downsampled, which
// anti-aliases the arc. Radii are clamped to half the box size.
func RadiusMask(w, h int, r css.Radii) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	draw.Draw(mask, mask.Bounds(), image.Opaque, image.Point{}, draw.Src)
	for corner := 0; corner < 4; corner++ {
		rx := math.Min(r.X[corner], float64(w)/2)
		ry := math.Min(r.Y[corner], float64(h)/2)
		if rx <= 0 || ry <= 0 {
			continue
		}
		q := quarter(rx, ry)
		qw, qh := q.Bounds().Dx(), q.Bounds().Dy()
		for y := 0; y < qh; y++ {
			for x := 0; x < qw; x++ {
				mx, my := x, y
				if corner == 1 || corner == 2 {
					mx = w - 1 - x
				}
				if corner == 2 || corner == 3 {
					my = h - 1 - y
				}
				mask.SetAlpha(mx, my, q.AlphaAt(x, y))
			}
		}
	}
	return mask
}

// quarter renders the top-left corner of an ellipse with radii rx, ry.
// Pixels inside the curve are opaque.
func quarter(rx, ry float64) *image.Alpha {
	qw, qh := int(math.Ceil(rx)), int(math.Ceil(ry))
	dc := gg.NewContext(qw*beta, qh*beta)
	dc.SetColor(color.White)
	cx, cy := rx*beta, ry*beta
	dc.DrawEllipse(cx, cy, cx, cy)
	dc.DrawRectangle(cx, 0, float64(qw*beta)-cx, float64(qh*beta))
	dc.DrawRectangle(0, cy, float64(qw*beta), float64(qh*beta)-cy)
	dc.Fill()

	q := image.NewAlpha(image.Rect(0, 0, qw, qh))
	draw.CatmullRom.Scale(q, q.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Src, nil)
	return q
}
