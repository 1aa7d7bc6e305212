package canopy

import "math"

// ClipRegion returns the damage collected by the last Layout.
func (s *Surface) ClipRegion() *ClipRegion { return &s.clip }

// EnableClipRegion turns damage-based culling on or off. Node caches turn
// it off while they repaint themselves in full.
func (s *Surface) EnableClipRegion(enable bool) { s.clipEnabled = enable }

// IsClipRegionEnabled reports whether damage-based culling is on.
func (s *Surface) IsClipRegionEnabled() bool { return s.clipEnabled }

// IsNodeInClipRegion reports whether n overlaps this frame's damage.
func (s *Surface) IsNodeInClipRegion(n *Node) bool {
	return !s.clipEnabled || s.clip.Overlaps(n.ExtentsInView())
}

// AddRectangleToClipRegion adds a surface-space rectangle to the damage.
func (s *Surface) AddRectangleToClipRegion(r Rect) {
	s.clip.AddRectangle(r)
}

// AddNodeToClipRegion adds n's extents, or r in n's space, to the damage
// directly, bypassing n's own pending region.
func (s *Surface) AddNodeToClipRegion(n *Node, r *Rect) {
	var ext Rect
	if r != nil {
		ext = n.RectExtentsInView(*r)
	} else {
		ext = n.ExtentsInView()
	}
	s.clip.AddRectangle(ext.Integerize(true))
}

// Draw paints the damaged parts of the surface onto canvas. Call Layout
// first. With caching on, undamaged frames just blit the cache.
func (s *Surface) Draw(canvas Canvas) {
	if s.cache != nil && !s.contentChanged && !s.needRedraw {
		canvas.DrawCanvas(0, 0, s.cache)
		return
	}

	popup := s.PopupNode()
	if popup != nil && !popup.IsReallyVisible() {
		s.SetPopup(nil)
		popup = nil
	}

	if s.enableCache && s.cache == nil && s.graphics != nil {
		s.cache = s.graphics.NewCanvas(s.width, s.height)
		if s.cache == nil {
			Logger().Warn("canopy: surface cache unavailable")
		}
		s.needRedraw = true
	}

	target := canvas
	if s.cache != nil {
		target = s.cache
		target.PushState()
		if !s.needRedraw {
			target.IntersectGeneralClipRegion(&s.clip)
		}
		target.ClearRect(0, 0, s.width, s.height)
	} else {
		target.PushState()
	}

	if s.needRedraw {
		s.clip.Clear()
		s.clip.AddRectangle(Rect{W: s.width, H: s.height})
	}

	// A cached surface can skip the tree when an opaque, axis-aligned popup
	// covers all of the damage.
	skipChildren := false
	if s.cache != nil && s.clipEnabled && popup != nil && popup.IsFullyOpaque() {
		rot := 0.0
		for e := popup; e != nil; e = e.parent {
			rot += e.rotation
		}
		if math.Mod(rot, 90) == 0 && s.clip.IsInside(popup.ExtentsInView()) {
			skipChildren = true
		}
	}
	if !skipChildren {
		s.children.Draw(target)
	}

	if popup != nil {
		target.PushState()
		px, py := ChildToParent(0, 0, popup.x, popup.y, popup.pinX, popup.pinY, popup.radians())
		if popup.parent != nil {
			px, py = popup.parent.SelfToView(px, py)
		}
		rot := 0.0
		for e := popup; e != nil; e = e.parent {
			rot += e.rotation
		}
		target.TranslateCoordinates(px, py)
		target.RotateCoordinates(DegreesToRadians(rot))
		popup.Draw(target)
		target.PopState()
	}

	target.PopState()
	if target == s.cache {
		canvas.DrawCanvas(0, 0, s.cache)
	}

	if s.debug&DebugClipRegion != 0 {
		s.clip.EnumerateRectangles(func(r Rect) bool {
			canvas.PushState()
			canvas.TranslateCoordinates(r.X, r.Y)
			drawBox(canvas, r.W, r.H, debugClipColor, true)
			canvas.PopState()
			return true
		})
	}

	s.clip.Clear()
	s.needRedraw = false
	s.contentChanged = false
}
