package visibility

// Layout describes a list of fixed-height items seen through a viewport, in rows.
// It plays the part of getItemLayout: visibility is derived from the scroll offset
// without measuring rendered items.
type Layout struct {
	ItemHeight     int
	ViewportHeight int
}

// OffsetOf returns the scroll offset at which the item starts.
func (l Layout) OffsetOf(index int) int {
	if index < 0 || l.ItemHeight <= 0 {
		return 0
	}
	return index * l.ItemHeight
}

// MaxOffset returns the largest valid scroll offset for count items.
func (l Layout) MaxOffset(count int) int {
	if count <= 0 || l.ItemHeight <= 0 {
		return 0
	}
	return max(0, count*l.ItemHeight-l.ViewportHeight)
}

// Clamp keeps offset inside [0, MaxOffset(count)].
func (l Layout) Clamp(offset, count int) int {
	return min(max(offset, 0), l.MaxOffset(count))
}

// Snap rounds offset to the nearest item boundary, like a paging scroll view.
func (l Layout) Snap(offset, count int) int {
	if l.ItemHeight <= 0 {
		return 0
	}
	index := (offset + l.ItemHeight/2) / l.ItemHeight
	return l.Clamp(l.OffsetOf(index), count)
}

// Viewable reports every item overlapping the viewport with the percentage of its
// height that is on screen.
func (l Layout) Viewable(offset, count int) []Viewable {
	if count <= 0 || l.ItemHeight <= 0 || l.ViewportHeight <= 0 {
		return nil
	}

	top := offset
	bottom := offset + l.ViewportHeight

	first := max(top/l.ItemHeight, 0)
	var out []Viewable
	for i := first; i < count; i++ {
		itemTop := i * l.ItemHeight
		if itemTop >= bottom {
			break
		}
		itemBottom := itemTop + l.ItemHeight

		overlap := min(itemBottom, bottom) - max(itemTop, top)
		if overlap <= 0 {
			continue
		}
		out = append(out, Viewable{
			Index:   i,
			Percent: float64(overlap) * 100 / float64(l.ItemHeight),
		})
	}
	return out
}
