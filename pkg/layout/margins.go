package layout

// collapseMargins returns how much of a box's top margin still has to
// be added after the previous sibling's bottom margin. Adjoining
// margins collapse to the larger of the two, so only the excess over
// the bottom margin counts.
func collapseMargins(top, previousBottom float64) float64 {
	if top > previousBottom {
		return top - previousBottom
	}
	return 0
}
