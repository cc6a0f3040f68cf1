package css

import (
	"fmt"
	"image/color"
	"strings"
)

// resolveOrder is the order properties are transformed in. font-size
// comes first, then margin and padding so width's auto branch can
// subtract them, then everything that depends on width and height.
var resolveOrder = [numProperties]Property{
	FontSize, Margin, Padding, Width, Top, Left, Height,
	GridGap, GridTemplateColumns, BorderRadius,
	Color, BackgroundColor, FontFamily, Display, Float, Position,
}

// Resolved is a style whose every property has been evaluated against
// its context. It is produced only by Resolve and Viewport.
type Resolved struct {
	values [numProperties]Value
}

// Viewport returns the synthetic parent of the root node: a box of the
// given width with no height and all other properties at their
// initial values.
func Viewport(width, fontSize float64) *Resolved {
	r := &Resolved{}
	for p := Property(0); p < numProperties; p++ {
		switch p.Kind() {
		case KindText, KindColor:
			v, err := newAttribute(p, p.Initial(), false).Transform(Context{})
			if err != nil {
				panic(fmt.Sprintf("css: initial %s: %v", p, err))
			}
			r.values[p] = v
		case KindList:
		default:
			r.values[p] = Value{Numbers: make([]float64, len(complete(p.Kind(), "")))}
		}
	}
	r.values[FontSize] = Value{Numbers: []float64{fontSize}}
	r.values[Width] = Value{Numbers: []float64{width}}
	r.values[Height] = Value{Auto: true}
	return r
}

// Resolve evaluates sheet for a node whose parent is already resolved.
// flowIndex is the node's position among its parent's in-flow
// children, or -1 if it has none; it selects the grid track when the
// parent is a grid container.
func Resolve(sheet Sheet, parent *Resolved, flowIndex int) (*Resolved, error) {
	r := &resolver{sheet: sheet, parent: parent, flowIndex: flowIndex, out: &Resolved{}}
	for p := Property(0); p < numProperties; p++ {
		if sheet.attrs[p].Inherits() {
			r.out.values[p] = parent.values[p]
			r.done[p] = true
		}
	}
	for _, p := range resolveOrder {
		if r.done[p] {
			continue
		}
		if err := r.resolve(p); err != nil {
			return nil, err
		}
	}
	return r.out, nil
}

type resolver struct {
	sheet     Sheet
	parent    *Resolved
	flowIndex int
	out       *Resolved
	done      [numProperties]bool
}

func (r *resolver) resolve(p Property) error {
	ctx, err := r.context(p)
	if err != nil {
		return err
	}
	v, err := r.sheet.attrs[p].Transform(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	r.out.values[p] = v
	r.done[p] = true
	return nil
}

// self returns an own value that must already be resolved.
func (r *resolver) self(p, needed Property) (Value, error) {
	if !r.done[p] {
		return Value{}, fmt.Errorf("%w: %s needs %s", ErrUnresolvedDependency, needed, p)
	}
	return r.out.values[p], nil
}

func (r *resolver) context(p Property) (Context, error) {
	var ctx Context
	for _, in := range p.Inputs() {
		switch in {
		case InFontSize:
			v, err := r.self(FontSize, p)
			if err != nil {
				return ctx, err
			}
			ctx.FontSize = v.Numbers[0]
		case InParentFontSize:
			ctx.ParentFontSize = r.parent.FontSize()
		case InParentWidth:
			ctx.ParentWidth = r.containerWidth()
		case InParentHeight:
			ctx.ParentHeight, ctx.HasParentHeight = r.parent.Height()
		case InSide:
			m, err := r.self(Margin, p)
			if err != nil {
				return ctx, err
			}
			pad, err := r.self(Padding, p)
			if err != nil {
				return ctx, err
			}
			ctx.Side = m.Numbers[1] + m.Numbers[3] + pad.Numbers[1] + pad.Numbers[3]
		case InWidth:
			v, err := r.self(Width, p)
			if err != nil {
				return ctx, err
			}
			ctx.Width = v.Numbers[0]
		case InHeight:
			v, err := r.self(Height, p)
			if err != nil {
				return ctx, err
			}
			if !v.Auto {
				ctx.Height, ctx.HasHeight = v.Numbers[0], true
			}
		case InGridGap:
			v, err := r.self(GridGap, p)
			if err != nil {
				return ctx, err
			}
			ctx.GridGap = [2]float64{v.Numbers[0], v.Numbers[1]}
		}
	}
	return ctx, nil
}

// containerWidth is the parent's width, or the width of this node's
// column track when the parent is a grid and the node is in flow.
func (r *resolver) containerWidth() float64 {
	if r.parent.IsGrid() && r.flowIndex >= 0 && r.sheet.attrs[Position].Raw != "absolute" {
		if tracks := r.parent.Tracks(); len(tracks) > 0 {
			return tracks[r.flowIndex%len(tracks)]
		}
	}
	return r.parent.Width()
}

// Value returns the resolved value of p.
func (r *Resolved) Value(p Property) Value { return r.values[p] }

func (r *Resolved) number(p Property) float64 { return r.values[p].Numbers[0] }

func (r *Resolved) edges(p Property) Edges {
	n := r.values[p].Numbers
	return Edges{Top: n[0], Right: n[1], Bottom: n[2], Left: n[3]}
}

func (r *Resolved) FontSize() float64 { return r.number(FontSize) }
func (r *Resolved) Width() float64    { return r.number(Width) }
func (r *Resolved) Top() float64      { return r.number(Top) }
func (r *Resolved) Left() float64     { return r.number(Left) }
func (r *Resolved) Margin() Edges     { return r.edges(Margin) }
func (r *Resolved) Padding() Edges    { return r.edges(Padding) }

// Height returns the declared height, or false when it is auto.
func (r *Resolved) Height() (float64, bool) {
	v := r.values[Height]
	if v.Auto {
		return 0, false
	}
	return v.Numbers[0], true
}

// BorderRadius returns the per-corner radii.
func (r *Resolved) BorderRadius() Radii {
	var rad Radii
	n := r.values[BorderRadius].Numbers
	copy(rad.X[:], n[:4])
	copy(rad.Y[:], n[4:])
	return rad
}

// GridGap returns the row and column gaps.
func (r *Resolved) GridGap() (row, column float64) {
	n := r.values[GridGap].Numbers
	return n[0], n[1]
}

// Tracks returns the resolved grid column widths.
func (r *Resolved) Tracks() []float64 {
	return append([]float64(nil), r.values[GridTemplateColumns].Numbers...)
}

func (r *Resolved) Color() color.NRGBA      { return r.values[Color].Color }
func (r *Resolved) Background() color.NRGBA { return r.values[BackgroundColor].Color }

// FontFamily returns the font family with surrounding quotes removed.
func (r *Resolved) FontFamily() string {
	return strings.Trim(r.values[FontFamily].Text, `"'`)
}

func (r *Resolved) Display() string  { return r.values[Display].Text }
func (r *Resolved) Float() string    { return r.values[Float].Text }
func (r *Resolved) Position() string { return r.values[Position].Text }

func (r *Resolved) IsGrid() bool     { return r.Display() == "grid" }
func (r *Resolved) Hidden() bool     { return r.Display() == "none" }
func (r *Resolved) IsAbsolute() bool { return r.Position() == "absolute" }
