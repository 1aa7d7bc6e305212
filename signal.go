package canopy

// Handler receives a fired event.
type Handler func(ctx *EventContext)

type slot[T any] struct {
	id uint32
	fn func(T)
}

// Signal is a list of callbacks fired in connection order. Callbacks may
// connect, disconnect, or destroy the signal's owner while it is emitting.
type Signal[T any] struct {
	slots  []*slot[T]
	nextID uint32
	// death points at a flag owned by the outermost emit frame. It is set
	// when the signal is destroyed mid-emission.
	death *bool
}

// Connection allows removing a connected callback.
type Connection struct {
	disconnect func()
}

// Disconnect removes the callback. Calling it more than once is a no-op,
// as is calling it on the zero Connection.
func (c Connection) Disconnect() {
	if c.disconnect != nil {
		c.disconnect()
	}
}

// Connect appends fn to the signal.
func (s *Signal[T]) Connect(fn func(T)) Connection {
	if fn == nil {
		return Connection{}
	}
	s.nextID++
	sl := &slot[T]{id: s.nextID, fn: fn}
	s.slots = append(s.slots, sl)
	return Connection{disconnect: func() { s.remove(sl) }}
}

func (s *Signal[T]) remove(sl *slot[T]) {
	sl.fn = nil
	for i := range s.slots {
		if s.slots[i] == sl {
			copy(s.slots[i:], s.slots[i+1:])
			s.slots[len(s.slots)-1] = nil
			s.slots = s.slots[:len(s.slots)-1]
			return
		}
	}
}

// HasActiveConnections reports whether any callback is connected.
func (s *Signal[T]) HasActiveConnections() bool {
	return s != nil && len(s.slots) > 0
}

// Emit calls every connected callback with v. Callbacks disconnected during
// emission are skipped; if the signal is destroyed by a callback, emission
// stops immediately. It reports whether the signal survived.
func (s *Signal[T]) Emit(v T) bool {
	if s == nil || len(s.slots) == 0 {
		return true
	}
	var dead bool
	owner := s.death == nil
	if owner {
		s.death = &dead
	}
	flag := s.death
	snapshot := make([]*slot[T], len(s.slots))
	copy(snapshot, s.slots)
	for _, sl := range snapshot {
		if sl.fn == nil {
			continue
		}
		sl.fn(v)
		if *flag {
			return false
		}
	}
	if owner {
		s.death = nil
	}
	return true
}

// destroy drops every callback and flags any emission in progress.
func (s *Signal[T]) destroy() {
	if s == nil {
		return
	}
	if s.death != nil {
		*s.death = true
		s.death = nil
	}
	for _, sl := range s.slots {
		sl.fn = nil
	}
	s.slots = nil
}

// --- Event signal sets ---

// signalSet maps event types to lazily created signals.
type signalSet struct {
	m map[EventType]*Signal[*EventContext]
}

func (ss *signalSet) connect(t EventType, h Handler) Connection {
	if ss.m == nil {
		ss.m = make(map[EventType]*Signal[*EventContext])
	}
	sig := ss.m[t]
	if sig == nil {
		sig = &Signal[*EventContext]{}
		ss.m[t] = sig
	}
	return sig.Connect(h)
}

func (ss *signalSet) get(t EventType) *Signal[*EventContext] {
	return ss.m[t]
}

func (ss *signalSet) has(t EventType) bool {
	return ss.m[t].HasActiveConnections()
}

func (ss *signalSet) destroy() {
	for _, sig := range ss.m {
		sig.destroy()
	}
	ss.m = nil
}
