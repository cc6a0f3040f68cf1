package layout

import (
	"context"
	"image"

	"github.com/Drelf2018/vue2img/pkg/css"
	"github.com/Drelf2018/vue2img/pkg/dom"
	"github.com/Drelf2018/vue2img/pkg/text"
)

// FontSource supplies text metrics for a font family at a size.
type FontSource interface {
	Measurer(family string, size float64) (text.Measurer, error)
}

// ImageSource resolves an <img> src to a bitmap.
type ImageSource interface {
	Load(ctx context.Context, src any) (image.Image, error)
}

// Styled is a document whose nodes have all passed style resolution:
// every visible node has a resolved style, text has been wrapped and
// images loaded and scaled. Only a Styled document can be arranged.
type Styled struct {
	tree     *dom.Tree
	width    float64
	nodes    []styledNode
	fontSize float64
}

type styledNode struct {
	hidden bool
	style  *css.Resolved
	block  *text.Block
	image  image.Image
	// Image size after scaling.
	imageW, imageH float64
}

// Tree returns the underlying document tree.
func (s *Styled) Tree() *dom.Tree { return s.tree }

// Style returns the resolved style of id, or nil if it is hidden.
func (s *Styled) Style(id dom.NodeID) *css.Resolved { return s.nodes[id].style }

// Box is a laid-out node. X and Y are the absolute coordinates of the
// content box; Width and Height its size.
type Box struct {
	ID      dom.NodeID
	Kind    dom.Kind
	Tag     string
	Style   *css.Resolved
	X, Y    float64
	Width   float64
	Height  float64
	Margin  css.Edges
	Padding css.Edges

	// Text nodes: wrapped lines, the column they wrap in and the
	// baseline offset from a line's top. AlignRight is set when the
	// parent floats right.
	Lines      []text.Line
	Column     float64
	Ascent     float64
	AlignRight bool

	// Image nodes: the bitmap scaled to Width x Height.
	Image image.Image

	Children []*Box

	// offset of the content box from the parent's content box
	offX, offY float64
}

// Outer returns the border box: content plus padding.
func (b *Box) Outer() (x, y, w, h float64) {
	return b.X - b.Padding.Left, b.Y - b.Padding.Top, b.Width + b.Padding.Horizontal(), b.Height + b.Padding.Vertical()
}

// marginHeight is the height of the margin box.
func (b *Box) marginHeight() float64 {
	return b.Margin.Top + b.Padding.Top + b.Height + b.Padding.Bottom + b.Margin.Bottom
}

// Layout is a fully arranged document.
type Layout struct {
	Root *Box
	// Width and Height are the canvas size needed to paint the layout.
	Width  float64
	Height float64
}

// Walk visits every box in paint order: parents before children,
// siblings in document order.
func (l *Layout) Walk(fn func(b *Box, depth int)) {
	var walk func(*Box, int)
	walk = func(b *Box, depth int) {
		fn(b, depth)
		for _, c := range b.Children {
			walk(c, depth+1)
		}
	}
	walk(l.Root, 0)
}
