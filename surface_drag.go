package canopy

// DragOverNode returns the drop target under the current drag, or nil.
func (s *Surface) DragOverNode() *Node { return s.Lookup(s.dragOver) }

func mapViewDragEvent(ev DragEvent, n *Node) DragEvent {
	ev.X, ev.Y = n.ViewToSelf(ev.X, ev.Y)
	return ev
}

// OnDragEvent routes a drag. Motion events find the drop target under the
// pointer, sending EventDragOut and EventDragOver as it changes, and report
// the current target's answer to EventDragOver. A drop goes to the current
// target, or arrives as EventDragOut if that target did not accept the
// drag. Drop and out both end the drag.
func (s *Surface) OnDragEvent(ev DragEvent) EventResult {
	if s.destroyed {
		return EventUnhandled
	}
	t := ev.Kind
	if t == EventDragOut || t == EventDragDrop {
		r := EventUnhandled
		if n := s.DragOverNode(); n != nil {
			if s.dragOverResult != EventHandled {
				t = EventDragOut
			}
			r, _ = n.OnDragEvent(mapViewDragEvent(ev.WithType(t), n), true)
			s.dragOver = Handle{}
			s.dragOverResult = EventUnhandled
		}
		return r
	}
	if t != EventDragMotion {
		return EventUnhandled
	}

	_, fired := s.children.OnDragEvent(ev)
	if s.destroyed {
		return EventUnhandled
	}
	if old := s.DragOverNode(); fired != old {
		s.dragOverResult = EventUnhandled
		if fired != nil {
			s.dragOver = fired.handle
		} else {
			s.dragOver = Handle{}
		}
		if old != nil {
			old.OnDragEvent(mapViewDragEvent(ev.WithType(EventDragOut), old), true)
		}
		if n := s.DragOverNode(); n != nil {
			if !n.IsReallyVisible() {
				s.dragOver = Handle{}
			} else {
				s.dragOverResult, _ = n.OnDragEvent(mapViewDragEvent(ev.WithType(EventDragOver), n), true)
			}
		}
	}
	return s.dragOverResult
}
