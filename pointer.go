package canopy

// DoubleClickTime is the longest gap, in milliseconds of main loop time,
// between two clicks that still count as a double click.
var DoubleClickTime uint64 = 500

// PointerState turns raw press, release and motion samples into the
// surface's mouse event sequence: down, up, then click or right-click, and
// a double click when two clicks of the same button arrive quickly. Hosts
// and input injection share it so both produce identical sequences.
type PointerState struct {
	x, y      float64
	buttons   MouseButton
	clicked   bool
	lastClick uint64
	lastBtn   MouseButton
}

// Buttons returns the buttons currently held.
func (p *PointerState) Buttons() MouseButton { return p.buttons }

// Position returns the last known pointer position.
func (p *PointerState) Position() (float64, float64) { return p.x, p.y }

// Pointer returns the surface's shared pointer state.
func (s *Surface) Pointer() *PointerState { return &s.pointer }

func (s *Surface) now() uint64 {
	if s.loop != nil {
		return s.loop.CurrentTime()
	}
	return 0
}

// Move reports the pointer at (x, y), with the held buttons attached.
func (p *PointerState) Move(s *Surface, x, y float64, mods KeyModifiers) EventResult {
	p.x, p.y = x, y
	return s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: x, Y: y, Button: p.buttons, Modifier: mods})
}

// Press reports button b going down at (x, y).
func (p *PointerState) Press(s *Surface, x, y float64, b MouseButton, mods KeyModifiers) EventResult {
	p.x, p.y = x, y
	p.buttons |= b
	return s.OnMouseEvent(MouseEvent{Kind: EventMouseDown, X: x, Y: y, Button: b, Modifier: mods})
}

// Release reports button b going up at (x, y), followed by the click it
// completes. Releases of buttons that are not held are ignored.
func (p *PointerState) Release(s *Surface, x, y float64, b MouseButton, mods KeyModifiers) EventResult {
	if p.buttons&b == 0 {
		return EventUnhandled
	}
	p.x, p.y = x, y
	p.buttons &^= b
	ev := MouseEvent{Kind: EventMouseUp, X: x, Y: y, Button: b, Modifier: mods}
	r := s.OnMouseEvent(ev)

	var click, dbl EventType
	switch b {
	case ButtonLeft:
		click, dbl = EventMouseClick, EventMouseDblClick
	case ButtonRight:
		click, dbl = EventMouseRClick, EventMouseRDblClick
	default:
		return r
	}
	if s.destroyed {
		return r
	}
	r = maxResult(r, s.OnMouseEvent(ev.WithType(click)))

	now := s.now()
	if p.clicked && p.lastBtn == b && now-p.lastClick <= DoubleClickTime {
		p.clicked = false
		if !s.destroyed {
			r = maxResult(r, s.OnMouseEvent(ev.WithType(dbl)))
		}
		return r
	}
	p.clicked = true
	p.lastClick = now
	p.lastBtn = b
	return r
}

// Wheel reports a wheel step at the current position.
func (p *PointerState) Wheel(s *Surface, dx, dy int, mods KeyModifiers) EventResult {
	return s.OnMouseEvent(MouseEvent{
		Kind: EventMouseWheel, X: p.x, Y: p.y,
		WheelDeltaX: dx, WheelDeltaY: dy,
		Button: p.buttons, Modifier: mods,
	})
}

// Leave reports the pointer leaving the surface.
func (p *PointerState) Leave(s *Surface) EventResult {
	return s.OnMouseEvent(MouseEvent{Kind: EventMouseOut, X: p.x, Y: p.y})
}
