package canopy

// HitTest returns the hit-test value of the last pointer event.
func (s *Surface) HitTest() HitTest { return s.hitTest }

// IsMouseOver reports whether the pointer is over the surface.
func (s *Surface) IsMouseOver() bool { return s.mouseIsOver }

// MouseOverNode returns the node under the pointer that last fired, or nil.
func (s *Surface) MouseOverNode() *Node { return s.Lookup(s.mouseOver) }

// GrabNode returns the node holding the pointer grab, or nil.
func (s *Surface) GrabNode() *Node { return s.Lookup(s.grab) }

// mapViewMouseEvent converts a surface-space event into n's space.
func mapViewMouseEvent(ev MouseEvent, n *Node) MouseEvent {
	ev.X, ev.Y = n.ViewToSelf(ev.X, ev.Y)
	return ev
}

// OnMouseEvent routes a surface-space pointer event. It fires the surface
// handlers, then delivers the event to the grab holder, the popup, or the
// tree, and finally updates mouse-over, tooltip and cursor state.
func (s *Surface) OnMouseEvent(ev MouseEvent) EventResult {
	if s.destroyed {
		return EventUnhandled
	}
	t := ev.Kind

	// Fully transparent pixels of a cached main view let the pointer through.
	if s.mainView && t != EventMouseOut && s.Lookup(s.grab) == nil &&
		s.enableCache && s.cache != nil {
		if _, opacity, ok := s.cache.PointValue(ev.X, ev.Y); ok && opacity == 0 {
			if s.mouseIsOver {
				s.OnMouseEvent(MouseEvent{Kind: EventMouseOut, X: ev.X, Y: ev.Y})
			}
			s.hitTest = HitTestTransparent
			return EventUnhandled
		}
	}

	if t == EventMouseOut && !s.mouseIsOver {
		return EventUnhandled
	}
	if t == EventMouseOver && s.mouseIsOver {
		return EventUnhandled
	}
	if t != EventMouseOver && t != EventMouseOut && !s.mouseIsOver {
		s.OnMouseEvent(MouseEvent{Kind: EventMouseOver, X: ev.X, Y: ev.Y})
		if s.destroyed {
			return EventUnhandled
		}
	}

	switch t {
	case EventMouseOut:
		s.mouseIsOver = false
	case EventMouseOver:
		s.mouseIsOver = true
	}
	ctx := &EventContext{Event: ev}
	s.fireEvent(ctx, s.signals.get(t))
	if s.destroyed {
		return EventUnhandled
	}

	r := ctx.result
	if r != EventCanceled {
		if t == EventMouseOver {
			// Entering the surface is a move as far as the tree is concerned.
			r = s.sendMouseEventToChildren(MouseEvent{Kind: EventMouseMove, X: ev.X, Y: ev.Y})
		} else {
			r = s.sendMouseEventToChildren(ev)
		}
	}
	return r
}

func (s *Surface) sendMouseEventToChildren(ev MouseEvent) EventResult {
	t := ev.Kind
	if t == EventMouseOver {
		return EventUnhandled
	}

	// The grab holder gets moves, the release and the click directly while
	// the left button stays down. Anything else ends the grab.
	if g := s.Lookup(s.grab); g != nil {
		if (g.enabled || t == EventMouseUp) && ev.Button&ButtonLeft != 0 &&
			(t == EventMouseMove || t == EventMouseUp || t == EventMouseClick) {
			d := g.OnMouseEvent(mapViewMouseEvent(ev, g), true)
			if g := s.Lookup(s.grab); g != nil {
				s.setCursor(g.cursor)
			}
			// Released on click rather than up so the click reaches the holder.
			if t == EventMouseClick {
				s.grab = Handle{}
			}
			return d.Result
		}
		s.grab = Handle{}
	}

	if t == EventMouseOut {
		var r EventResult
		if mo := s.Lookup(s.mouseOver); mo != nil {
			r = mo.OnMouseEvent(mapViewMouseEvent(ev, mo), true).Result
			s.mouseOver = Handle{}
		}
		return r
	}

	var d MouseDispatch
	outsidePopup := true
	if p := s.PopupNode(); p != nil {
		if p.IsReallyVisible() {
			pev := mapViewMouseEvent(ev, p)
			if p.IsPointIn(pev.X, pev.Y) {
				d = p.OnMouseEvent(pev, false)
				outsidePopup = false
			}
		} else {
			s.SetPopup(nil)
		}
	}
	if outsidePopup {
		d = s.children.OnMouseEvent(ev)
		if t == EventMouseDown && d.Result != EventCanceled {
			s.SetPopup(nil)
		}
	}
	if s.destroyed || !s.mouseIsOver {
		return d.Result
	}

	var inH Handle
	if d.In != nil {
		inH = d.In.handle
	}

	if d.Fired != nil && t == EventMouseDown && ev.Button&ButtonLeft != 0 {
		s.grab = d.Fired.handle
	}

	if old := s.Lookup(s.mouseOver); d.Fired != old {
		// Stored first so a mouse-out handler that deletes the new node
		// leaves no dangling state.
		if d.Fired != nil {
			s.mouseOver = d.Fired.handle
		} else {
			s.mouseOver = Handle{}
		}
		if old != nil {
			old.OnMouseEvent(mapViewMouseEvent(ev.WithType(EventMouseOut), old), true)
		}
		if mo := s.Lookup(s.mouseOver); mo != nil {
			mo.OnMouseEvent(mapViewMouseEvent(ev.WithType(EventMouseOver), mo), true)
		}
	}

	if in := s.Lookup(inH); in != nil {
		s.hitTest = d.HitTest
		if t == EventMouseMove && in != s.Lookup(s.tooltip) {
			s.ShowNodeTooltip(in)
		}
	} else {
		s.hitTest = HitTestTransparent
		s.tooltip = Handle{}
	}

	if in := s.Lookup(inH); s.hitTest != HitTestClient && in != nil {
		s.setCursor(in.cursor)
	} else if mo := s.Lookup(s.mouseOver); mo != nil {
		s.setCursor(mo.cursor)
	} else {
		s.setCursor(CursorDefault)
	}
	return d.Result
}
