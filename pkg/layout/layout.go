package layout

import (
	"github.com/Drelf2018/vue2img/pkg/dom"
)

// Arrange is pass 2. Boxes are built bottom-up so each container knows
// its children's heights, then placed top-down.
func Arrange(s *Styled) *Layout {
	root := s.tree.Root()
	if s.nodes[root].hidden {
		return &Layout{Root: &Box{ID: root, Kind: dom.Root}, Width: s.width}
	}
	b := measure(s, root)
	b.offX = b.Margin.Left + b.Padding.Left
	b.offY = b.Margin.Top + b.Padding.Top
	place(b, 0, 0)
	return &Layout{Root: b, Width: s.width, Height: b.marginHeight()}
}

// measure builds the box for id and its subtree, computing sizes and
// offsets relative to the parent's content box.
func measure(s *Styled, id dom.NodeID) *Box {
	n := s.tree.Node(id)
	sn := s.nodes[id]
	b := &Box{
		ID:      id,
		Kind:    n.Kind,
		Tag:     n.Tag,
		Style:   sn.style,
		Margin:  sn.style.Margin(),
		Padding: sn.style.Padding(),
		Width:   sn.style.Width(),
	}

	switch {
	case sn.block != nil:
		b.Lines = sn.block.Lines
		b.Ascent = sn.block.Ascent
		b.Column = b.Width
		b.AlignRight = s.nodes[s.tree.Parent(id)].style.Float() == "right"
		b.Width = sn.block.Width
		b.Height = sn.block.Height
		return b
	case sn.image != nil:
		b.Image = sn.image
		b.Width, b.Height = sn.imageW, sn.imageH
		return b
	}

	for _, c := range s.tree.Children(id) {
		if !s.nodes[c].hidden {
			b.Children = append(b.Children, measure(s, c))
		}
	}

	var content float64
	if sn.style.IsGrid() && len(sn.style.Tracks()) > 0 {
		content = arrangeGrid(b)
	} else {
		content = arrangeFlow(b)
	}
	if h, ok := sn.style.Height(); ok {
		b.Height = h
	} else {
		b.Height = content
	}
	return b
}

// arrangeFlow stacks in-flow children vertically with collapsed
// margins and returns the accumulated height.
func arrangeFlow(b *Box) float64 {
	var acc, lastBottom float64
	for _, c := range b.Children {
		if c.Style.IsAbsolute() {
			placeAbsolute(c)
			continue
		}
		overlap := collapseMargins(c.Margin.Top, lastBottom)
		c.offX = c.Margin.Left + c.Padding.Left
		c.offY = acc + overlap + c.Padding.Top
		acc += overlap + c.Padding.Top + c.Height + c.Padding.Bottom + c.Margin.Bottom
		lastBottom = c.Margin.Bottom
		nudge(c)
	}
	return acc
}

// nudge shifts an in-flow box by its top/left after flow. The shift
// never moves its siblings.
func nudge(c *Box) {
	c.offX += c.Style.Left()
	c.offY += c.Style.Top()
}

// place converts relative offsets into absolute coordinates.
func place(b *Box, parentX, parentY float64) {
	b.X = parentX + b.offX
	b.Y = parentY + b.offY
	for _, c := range b.Children {
		place(c, b.X, b.Y)
	}
}
