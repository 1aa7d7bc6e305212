package canopy

// ClipRegion accumulates the screen rectangles that must be repainted.
// Rectangles are integerized on the way in and may overlap; the region may
// over-report damage but never under-reports it.
type ClipRegion struct {
	rects []Rect
}

// AddRectangle adds r to the region. Empty rectangles are ignored. A
// rectangle already covered by a stored one is skipped, and stored
// rectangles covered by r are dropped.
func (c *ClipRegion) AddRectangle(r Rect) {
	r = r.Integerize(true)
	if r.IsEmpty() {
		return
	}
	for _, old := range c.rects {
		if r.IsInside(old) {
			return
		}
	}
	kept := c.rects[:0]
	for _, old := range c.rects {
		if !old.IsInside(r) {
			kept = append(kept, old)
		}
	}
	c.rects = append(kept, r)
}

// AddRegion adds every rectangle of other to the region.
func (c *ClipRegion) AddRegion(other *ClipRegion) {
	if other == nil {
		return
	}
	for _, r := range other.rects {
		c.AddRectangle(r)
	}
}

// Intersect returns a new region holding the parts of each rectangle that
// fall inside boundary.
func (c *ClipRegion) Intersect(boundary Rect) *ClipRegion {
	out := &ClipRegion{}
	for _, r := range c.rects {
		if in, ok := r.Intersect(boundary); ok {
			out.AddRectangle(in)
		}
	}
	return out
}

// Overlaps reports whether any rectangle of the region overlaps r.
func (c *ClipRegion) Overlaps(r Rect) bool {
	for _, old := range c.rects {
		if old.Overlaps(r) {
			return true
		}
	}
	return false
}

// IsInside reports whether the whole region lies inside r. An empty region
// is inside everything.
func (c *ClipRegion) IsInside(r Rect) bool {
	for _, old := range c.rects {
		if !old.IsInside(r) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the region holds no rectangles.
func (c *ClipRegion) IsEmpty() bool {
	return len(c.rects) == 0
}

// Clear empties the region.
func (c *ClipRegion) Clear() {
	c.rects = c.rects[:0]
}

// Count returns the number of stored rectangles.
func (c *ClipRegion) Count() int {
	return len(c.rects)
}

// Rectangle returns the i-th stored rectangle. ok is false when i is out
// of range.
func (c *ClipRegion) Rectangle(i int) (r Rect, ok bool) {
	if i < 0 || i >= len(c.rects) {
		return Rect{}, false
	}
	return c.rects[i], true
}

// Bounds returns the bounding box of the whole region.
func (c *ClipRegion) Bounds() Rect {
	var b Rect
	for _, r := range c.rects {
		b = b.Union(r)
	}
	return b
}

// EnumerateRectangles calls fn for each rectangle until fn returns false.
// It reports whether every call returned true.
func (c *ClipRegion) EnumerateRectangles(fn func(Rect) bool) bool {
	for _, r := range c.rects {
		if !fn(r) {
			return false
		}
	}
	return true
}
