package canopy

// FocusRingColor is used to outline the focused node when it shows a focus
// overlay.
var FocusRingColor = Color{0.25, 0.55, 1, 1}

// --- Layout ---

// Layout resolves the node's attributes, reports its damage, and lays out
// its children. Size events raised here are delivered once the surface's
// whole layout pass has finished.
func (n *Node) Layout() {
	n.CalculateRelativeAttributes()
	if n.positionChanged || n.sizeChanged || n.visibilityChanged {
		n.addToClipRegion(nil)
	}
	if n.sizeChanged {
		n.PostSizeEvent()
	}
	if n.children != nil {
		n.children.Layout()
	}
	n.behavior.Layout(n)
	if n.contentChanged {
		n.onContentChanged.Emit(n)
	}
	n.visibilityChanged = false
}

// IsPositionChanged reports whether the node moved since it was last drawn.
func (n *Node) IsPositionChanged() bool { return n.positionChanged }

// IsSizeChanged reports whether the node resized since it was last drawn.
func (n *Node) IsSizeChanged() bool { return n.sizeChanged }

// ClearPositionChanged resets the moved flag.
func (n *Node) ClearPositionChanged() { n.positionChanged = false }

// ClearSizeChanged resets the resized flag.
func (n *Node) ClearSizeChanged() { n.sizeChanged = false }

// --- Damage ---

// QueueDraw records the node's area as damaged and asks the surface for a
// repaint. Ancestors are marked content-changed so their caches refresh.
func (n *Node) QueueDraw() {
	if (n.visible || n.visibilityChanged) && !n.drawQueued {
		n.drawQueued = true
		n.addToClipRegion(nil)
		n.surface.QueueDraw()
		if !n.contentChanged {
			n.MarkContentChanged()
		}
	}
}

// QueueDrawRect damages r, given in the node's own coordinates, instead of
// the whole node.
func (n *Node) QueueDrawRect(r Rect) {
	if !n.visible && !n.visibilityChanged {
		return
	}
	n.addToClipRegion(&r)
	n.surface.QueueDraw()
	if !n.contentChanged {
		n.MarkContentChanged()
	}
}

// MarkContentChanged flags n and its ancestors as needing a repaint.
func (n *Node) MarkContentChanged() {
	for e := n; e != nil && !e.contentChanged; e = e.parent {
		e.contentChanged = true
	}
}

// IsContentChanged reports whether n needs repainting.
func (n *Node) IsContentChanged() bool { return n.contentChanged }

// MarkRedraw drops every cache in the subtree and queues it for drawing.
func (n *Node) MarkRedraw() {
	if n.children != nil {
		n.children.MarkRedraw()
	}
	destroyCanvas(&n.cache)
	n.QueueDraw()
}

// addToClipRegion adds the node's surface-space extents, or those of r in
// the node's space, to its pending damage.
func (n *Node) addToClipRegion(r *Rect) {
	if (n.visible && n.opacity != 0) || n.visibilityChanged {
		if r != nil {
			n.clip.AddRectangle(n.RectExtentsInView(*r))
		} else {
			n.clip.AddRectangle(n.ExtentsInView())
		}
	}
}

// AggregateClipRegion moves the subtree's pending damage, clipped to
// boundary, into region. A nil region or empty boundary discards it; the
// subtree is still walked so every node clears its pending damage.
func (n *Node) AggregateClipRegion(boundary Rect, region *ClipRegion) {
	if region != nil && !boundary.IsEmpty() {
		region.AddRegion(n.clip.Intersect(boundary))
		if n.visible && n.opacity != 0 {
			if ext, ok := n.ExtentsInView().Intersect(boundary); ok {
				if n.children != nil {
					n.children.AggregateClipRegion(ext, region)
				}
				n.clip.Clear()
				n.drawQueued = false
				return
			}
		}
	}
	n.clip.Clear()
	n.drawQueued = false
	if n.children != nil {
		n.children.AggregateClipRegion(Rect{}, nil)
	}
}

// --- Draw ---

// Draw paints the node onto c, whose origin is the node's top-left corner.
func (n *Node) Draw(c Canvas) {
	s := n.surface
	w, h := n.width, n.height
	if n.visible && n.opacity != 0 && w > 0 && h > 0 {
		force := false
		if n.cache != nil && (n.cache.Width() != w || n.cache.Height() != h) {
			destroyCanvas(&n.cache)
		}
		g := s.graphics
		if n.cacheEnabled && g != nil {
			if n.cache == nil {
				n.cache = g.NewCanvas(w, h)
				force = true
			} else if n.contentChanged {
				n.cache.ClearCanvas()
			}
		}

		indirect := n.cache != nil || n.mask != nil || n.flip != FlipNone ||
			(n.opacity != 1 && n.children != nil && n.children.Count() > 0)
		target := c
		if indirect {
			target = nil
			if n.cache != nil {
				target = n.cache
				target.PushState()
			} else if g != nil {
				target = g.NewCanvas(w, h)
				force = true
			}
			if target == nil {
				Logger().Warn("canopy: offscreen canvas unavailable", "node", n.name)
				indirect = false
				target = c
			}
		}

		c.PushState()
		if !indirect {
			c.IntersectRectClipRegion(0, 0, w, h)
		}
		c.MultiplyOpacity(n.opacity)

		if !indirect || n.contentChanged || force {
			if n.cache != nil {
				s.EnableClipRegion(false)
			}
			n.behavior.DoDraw(n, target)
			if s.IsFocused() && s.FocusedNode() == n && n.showFocusOverlay {
				drawBox(target, w, h, FocusRingColor, false)
			}
			if n.cache != nil {
				s.EnableClipRegion(true)
			}
		}

		if indirect {
			ox, oy := 0.0, 0.0
			if n.flip&FlipHorizontal != 0 {
				ox = -w
				c.ScaleCoordinates(-1, 1)
			}
			if n.flip&FlipVertical != 0 {
				oy = -h
				c.ScaleCoordinates(1, -1)
			}
			if n.mask != nil {
				c.DrawCanvasWithMask(ox, oy, target, ox, oy, n.mask)
			} else {
				c.DrawCanvas(ox, oy, target)
			}
			if target == n.cache {
				target.PopState()
			} else {
				target.Destroy()
			}
		}
		c.PopState()

		if s.debug&DebugNodes != 0 {
			drawBox(c, w, h, debugColor(n.debugTint), true)
		}
	}
	n.positionChanged = false
	n.sizeChanged = false
	n.contentChanged = false
	n.drawQueued = false
}

// DrawChildren paints the node's children onto c.
func (n *Node) DrawChildren(c Canvas) {
	if n.children != nil {
		n.children.Draw(c)
	}
}
