package canopy

// MouseDispatch is what a mouse dispatch reports besides its result: the
// node that fired the event (nil if none did), the topmost node under the
// pointer, and that node's hit-test value.
type MouseDispatch struct {
	Result  EventResult
	Fired   *Node
	In      *Node
	HitTest HitTest
}

// OnMouseEvent delivers ev, in n's space, to n's subtree. With direct set,
// the event goes to n alone, skipping visibility, hit-testing and children;
// the surface uses this for grab, mouse-over and mouse-out delivery.
func (n *Node) OnMouseEvent(ev MouseEvent, direct bool) MouseDispatch {
	s := n.surface
	h := n.handle
	var d MouseDispatch

	if !direct && (!n.visible || n.opacity == 0) {
		return d
	}
	ht := n.hitTestAt(ev.X, ev.Y)
	if !direct && ht == HitTestTransparent {
		return d
	}

	if !direct && n.children != nil {
		d = n.children.OnMouseEvent(ev)
		if s.Lookup(h) == nil || d.Fired != nil {
			return d
		}
	}
	if d.In == nil {
		d.In = n
		d.HitTest = ht
	}

	// Disabled nodes still get the release and the exit they are owed.
	if !n.enabled && !(direct && (ev.Kind == EventMouseUp || ev.Kind == EventMouseOut)) {
		return d
	}

	inH := d.In.handle
	ctx := &EventContext{Event: ev, Source: n}
	if ev.Kind == EventMouseDown {
		s.SetFocus(n)
		if s.Lookup(h) == nil {
			d.In = s.Lookup(inH)
			return d
		}
	}
	s.fireEvent(ctx, n.signals.get(ev.Kind))

	d.Result = ctx.result
	if d.Result != EventCanceled && s.Lookup(h) != nil {
		d.Result = maxResult(d.Result, n.behavior.HandleMouseEvent(n, ev))
	}
	if s.Lookup(h) != nil {
		d.Fired = n
	}
	d.In = s.Lookup(inH)
	return d
}

// OnDragEvent delivers ev, in n's space, to n's subtree. It returns the
// result and the drop target that took the event, if any. Only nodes marked
// as drop targets handle drag events; they report Handled by default.
func (n *Node) OnDragEvent(ev DragEvent, direct bool) (EventResult, *Node) {
	s := n.surface
	h := n.handle

	if !direct && (!n.visible || n.opacity == 0 || n.hitTestAt(ev.X, ev.Y) == HitTestTransparent) {
		return EventUnhandled, nil
	}
	if !direct && n.children != nil {
		r, fired := n.children.OnDragEvent(ev)
		if s.Lookup(h) == nil || fired != nil {
			return r, fired
		}
	}
	if !n.dropTarget {
		return EventUnhandled, nil
	}

	ctx := &EventContext{Event: ev, Source: n}
	switch ev.Kind {
	case EventDragOut, EventDragOver, EventDragDrop:
		s.fireEvent(ctx, n.signals.get(ev.Kind))
	}
	r := ctx.result
	if r == EventUnhandled {
		r = EventHandled
	}
	if r != EventCanceled && s.Lookup(h) != nil {
		r = maxResult(r, n.behavior.HandleDragEvent(n, ev))
	}
	if s.Lookup(h) == nil {
		return r, nil
	}
	return r, n
}

// OnKeyEvent delivers a key event to n. Disabled nodes ignore keys.
func (n *Node) OnKeyEvent(ev KeyboardEvent) EventResult {
	if !n.enabled {
		return EventUnhandled
	}
	s := n.surface
	h := n.handle
	ctx := &EventContext{Event: ev, Source: n}
	s.fireEvent(ctx, n.signals.get(ev.Kind))
	r := ctx.result
	if r != EventCanceled && s.Lookup(h) != nil {
		r = maxResult(r, n.behavior.HandleKeyEvent(n, ev))
	}
	return r
}

// OnOtherEvent delivers a focus or lifecycle event to n.
func (n *Node) OnOtherEvent(ev Event) EventResult {
	s := n.surface
	h := n.handle
	ctx := &EventContext{Event: ev, Source: n}

	switch ev.Type() {
	case EventFocusIn:
		if !n.enabled {
			return EventUnhandled
		}
		if n.parent != nil {
			n.parent.EnsureAreaVisible(n.ExtentsInParent(), n)
			if s.Lookup(h) == nil {
				return EventUnhandled
			}
		}
		s.fireEvent(ctx, n.signals.get(EventFocusIn))
		if s.Lookup(h) != nil && n.showFocusOverlay {
			n.QueueDraw()
		}
	case EventFocusOut:
		s.fireEvent(ctx, n.signals.get(EventFocusOut))
		if s.Lookup(h) != nil && n.showFocusOverlay {
			n.QueueDraw()
		}
	default:
		s.fireEvent(ctx, n.signals.get(ev.Type()))
	}

	r := ctx.result
	if r != EventCanceled && s.Lookup(h) != nil {
		r = maxResult(r, n.behavior.HandleOtherEvent(n, ev))
	}
	return r
}

// PostSizeEvent queues an EventSize for n, delivered at the end of the
// current layout pass. Repeated posts before delivery are merged.
func (n *Node) PostSizeEvent() {
	if n.signals.has(EventSize) {
		n.surface.postSizeEvent(n)
	}
}
