package canopy

type injectKind uint8

const (
	injectMove injectKind = iota
	injectPress
	injectRelease
	injectKey
	injectLeave
)

// injectedEvent is a single queued synthetic input event. Pointer
// coordinates are surface coordinates, exactly as real input arrives.
type injectedEvent struct {
	kind   injectKind
	x, y   float64
	button MouseButton
	key    KeyboardEvent
}

// InjectMove queues a pointer move to (x, y).
func (s *Surface) InjectMove(x, y float64) {
	s.injected = append(s.injected, injectedEvent{kind: injectMove, x: x, y: y})
}

// InjectPress queues a left-button press at (x, y).
func (s *Surface) InjectPress(x, y float64) {
	s.injected = append(s.injected, injectedEvent{kind: injectPress, x: x, y: y, button: ButtonLeft})
}

// InjectRelease queues a left-button release at (x, y). The release also
// produces the click.
func (s *Surface) InjectRelease(x, y float64) {
	s.injected = append(s.injected, injectedEvent{kind: injectRelease, x: x, y: y, button: ButtonLeft})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (s *Surface) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), moves linearly
// interpolated over frames-2 intermediate frames, and release at (toX, toY).
// The sequence consumes frames frames, at least two.
func (s *Surface) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectKey queues a key down followed by a key up. Consumes two frames.
func (s *Surface) InjectKey(code KeyCode, mods KeyModifiers) {
	s.injected = append(s.injected,
		injectedEvent{kind: injectKey, key: KeyboardEvent{Kind: EventKeyDown, KeyCode: code, Modifier: mods}},
		injectedEvent{kind: injectKey, key: KeyboardEvent{Kind: EventKeyUp, KeyCode: code, Modifier: mods}},
	)
}

// InjectLeave queues the pointer leaving the surface.
func (s *Surface) InjectLeave() {
	s.injected = append(s.injected, injectedEvent{kind: injectLeave})
}

// PendingInjected returns the number of queued synthetic events.
func (s *Surface) PendingInjected() int { return len(s.injected) }

// ProcessInjectedInput delivers one queued event. It returns true if an
// event was consumed; hosts skip real pointer input for that frame.
func (s *Surface) ProcessInjectedInput() bool {
	if len(s.injected) == 0 {
		return false
	}
	ev := s.injected[0]
	copy(s.injected, s.injected[1:])
	s.injected = s.injected[:len(s.injected)-1]

	p := &s.pointer
	switch ev.kind {
	case injectMove:
		p.Move(s, ev.x, ev.y, 0)
	case injectPress:
		if p.x != ev.x || p.y != ev.y {
			p.Move(s, ev.x, ev.y, 0)
		}
		p.Press(s, ev.x, ev.y, ev.button, 0)
	case injectRelease:
		if p.x != ev.x || p.y != ev.y {
			p.Move(s, ev.x, ev.y, 0)
		}
		p.Release(s, ev.x, ev.y, ev.button, 0)
	case injectKey:
		s.OnKeyEvent(ev.key)
	case injectLeave:
		p.Leave(s)
	}
	return true
}
