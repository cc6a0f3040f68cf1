package css

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/Drelf2018/vue2img/pkg/units"
)

// Context carries the contextual inputs for one transform. Only the
// fields named by the property's Inputs are meaningful.
type Context struct {
	FontSize        float64
	ParentFontSize  float64
	ParentWidth     float64
	ParentHeight    float64
	HasParentHeight bool
	Side            float64
	Width           float64
	Height          float64
	HasHeight       bool
	GridGap         [2]float64
}

// Value is a resolved property value.
type Value struct {
	Numbers []float64
	Text    string
	Color   color.NRGBA
	// Auto marks a value left absent on purpose, e.g. height: auto.
	Auto bool
}

// Edges holds the four sides of a margin or padding.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns Left + Right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// Radii holds per-corner radii, clockwise from the top-left corner,
// for both axes.
type Radii struct {
	X [4]float64
	Y [4]float64
}

// IsZero reports whether every corner is square.
func (r Radii) IsZero() bool {
	return r == Radii{}
}

func transformLengths(a Attribute, ctx Context) (Value, error) {
	nums := make([]float64, len(a.pieces))
	for i, p := range a.pieces {
		v, err := units.Evaluate(p, ctx.FontSize, ctx.ParentWidth)
		if err != nil {
			return Value{}, err
		}
		nums[i] = v
	}
	return Value{Numbers: nums}, nil
}

func transformFontSize(a Attribute, ctx Context) (Value, error) {
	v, err := units.EvaluateAuto(a.pieces[0], ctx.ParentFontSize, ctx.ParentFontSize, units.AutoFontSize)
	if err != nil {
		return Value{}, err
	}
	return Value{Numbers: []float64{v}}, nil
}

// transformWidth resolves auto to the available width minus the
// node's own horizontal margin and padding.
func transformWidth(a Attribute, ctx Context) (Value, error) {
	if a.pieces[0] == "auto" {
		return Value{Numbers: []float64{ctx.ParentWidth - ctx.Side}}, nil
	}
	v, err := units.Evaluate(a.pieces[0], ctx.FontSize, ctx.ParentWidth)
	if err != nil {
		return Value{}, err
	}
	return Value{Numbers: []float64{v}}, nil
}

// transformHeight leaves auto absent so layout uses the flow height.
func transformHeight(a Attribute, ctx Context) (Value, error) {
	p := a.pieces[0]
	if p == "auto" || strings.Contains(p, "%") && !ctx.HasParentHeight {
		return Value{Auto: true}, nil
	}
	v, err := units.Evaluate(p, ctx.FontSize, ctx.ParentHeight)
	if err != nil {
		return Value{}, err
	}
	return Value{Numbers: []float64{v}}, nil
}

// transformBorderRadius evaluates four horizontal radii against the
// width and four vertical radii against the height, falling back to
// the width when the height is still auto.
func transformBorderRadius(a Attribute, ctx Context) (Value, error) {
	height := ctx.Height
	if !ctx.HasHeight {
		height = ctx.Width
	}
	nums := make([]float64, 8)
	for i, p := range a.pieces {
		base := ctx.Width
		if i >= 4 {
			base = height
		}
		v, err := units.Evaluate(p, ctx.FontSize, base)
		if err != nil {
			return Value{}, err
		}
		nums[i] = v
	}
	return Value{Numbers: nums}, nil
}

// transformGridGap yields (row gap, column gap).
func transformGridGap(a Attribute, ctx Context) (Value, error) {
	height := ctx.Height
	if !ctx.HasHeight {
		height = ctx.Width
	}
	row, err := units.Evaluate(a.pieces[0], ctx.FontSize, height)
	if err != nil {
		return Value{}, err
	}
	col, err := units.Evaluate(a.pieces[1], ctx.FontSize, ctx.Width)
	if err != nil {
		return Value{}, err
	}
	return Value{Numbers: []float64{row, col}}, nil
}

// transformGridTemplateColumns sizes fixed tracks first, then shares
// what is left among fr tracks in proportion to their factors.
func transformGridTemplateColumns(a Attribute, ctx Context) (Value, error) {
	n := len(a.pieces)
	if n == 0 {
		return Value{}, nil
	}
	tracks := make([]float64, n)
	fr := make([]float64, n)
	var frTotal, fixed float64
	for i, p := range a.pieces {
		if strings.HasSuffix(p, "fr") {
			f, err := strconv.ParseFloat(strings.TrimSuffix(p, "fr"), 64)
			if err != nil || f < 0 {
				return Value{}, fmt.Errorf("%w: bad track %q", units.ErrInvalidExpression, p)
			}
			fr[i] = f
			frTotal += f
			continue
		}
		v, err := units.Evaluate(p, ctx.FontSize, ctx.Width)
		if err != nil {
			return Value{}, err
		}
		tracks[i] = v
		fixed += v
	}
	free := ctx.Width - fixed - float64(n-1)*ctx.GridGap[1]
	if free < 0 {
		free = 0
	}
	if frTotal > 0 {
		for i := range tracks {
			if fr[i] > 0 {
				tracks[i] = free * fr[i] / frTotal
			}
		}
	}
	return Value{Numbers: tracks}, nil
}

func transformText(a Attribute, _ Context) (Value, error) {
	return Value{Text: a.pieces[0]}, nil
}

func transformColor(a Attribute, _ Context) (Value, error) {
	c, err := ParseColor(a.pieces[0])
	if err != nil {
		return Value{}, err
	}
	return Value{Text: a.pieces[0], Color: c}, nil
}
