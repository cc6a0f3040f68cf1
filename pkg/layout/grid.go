package layout

// arrangeGrid places in-flow children into the column tracks row by
// row and returns the total height. Each row is as tall as its tallest
// margin box; margins do not collapse inside a grid.
func arrangeGrid(b *Box) float64 {
	tracks := b.Style.Tracks()
	rowGap, colGap := b.Style.GridGap()

	columnX := make([]float64, len(tracks))
	for i := 1; i < len(tracks); i++ {
		columnX[i] = columnX[i-1] + tracks[i-1] + colGap
	}

	var top, rowHeight float64
	rows, i := 0, 0
	for _, c := range b.Children {
		if c.Style.IsAbsolute() {
			placeAbsolute(c)
			continue
		}
		col := i % len(tracks)
		if col == 0 && i > 0 {
			top += rowHeight + rowGap
			rowHeight = 0
		}
		if col == 0 {
			rows++
		}
		c.offX = columnX[col] + c.Margin.Left + c.Padding.Left
		c.offY = top + c.Margin.Top + c.Padding.Top
		nudge(c)
		if h := c.marginHeight(); h > rowHeight {
			rowHeight = h
		}
		i++
	}
	if rows == 0 {
		return 0
	}
	return top + rowHeight
}
