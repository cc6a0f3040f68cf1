package layout

// placeAbsolute positions an absolutely positioned box from its
// declared top and left, measured from the parent's content origin
// to the box's margin edge. It takes no part in the parent's flow.
func placeAbsolute(c *Box) {
	c.offX = c.Style.Left() + c.Margin.Left + c.Padding.Left
	c.offY = c.Style.Top() + c.Margin.Top + c.Padding.Top
}
