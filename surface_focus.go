package canopy

// FocusedNode returns the node holding keyboard focus, or nil.
func (s *Surface) FocusedNode() *Node { return s.Lookup(s.focus) }

// IsFocused reports whether the surface itself has keyboard focus.
func (s *Surface) IsFocused() bool { return s.viewFocused }

// SetFocus moves keyboard focus to n, or clears it when n is nil. Nodes
// that are not really enabled are refused. The old node may cancel its
// EventFocusOut to keep focus; if the new node cancels its EventFocusIn,
// focus returns to the old node.
func (s *Surface) SetFocus(n *Node) {
	cur := s.FocusedNode()
	if n == cur || (n != nil && !n.IsReallyEnabled()) {
		return
	}
	var nh Handle
	if n != nil {
		nh = n.handle
	}
	if cur != nil && cur.OnOtherEvent(SimpleEvent{Kind: EventFocusOut}) == EventCanceled {
		return
	}
	old := s.focus
	s.focus = nh
	if !s.viewFocused {
		return
	}
	if f := s.FocusedNode(); f != nil {
		if !f.IsReallyEnabled() || f.OnOtherEvent(SimpleEvent{Kind: EventFocusIn}) == EventCanceled {
			s.focus = old
			if f := s.FocusedNode(); f != nil &&
				f.OnOtherEvent(SimpleEvent{Kind: EventFocusIn}) == EventCanceled {
				s.focus = Handle{}
			}
		}
	}
}

// SetFocusToFirst focuses the first focusable node in tree order.
func (s *Surface) SetFocusToFirst() {
	first := s.children.At(0)
	if first == nil {
		return
	}
	if !first.IsReallyEnabled() || !first.IsTabStop() {
		first = s.nextFocus(first)
	}
	if first != nil {
		s.SetFocus(first)
	}
}

// SetFocusToLast focuses the last focusable node in tree order.
func (s *Surface) SetFocusToLast() {
	last := s.children.At(s.children.Count() - 1)
	if last == nil {
		return
	}
	if !last.IsReallyEnabled() || !last.IsTabStop() {
		last = s.previousFocus(last)
	}
	if last != nil {
		s.SetFocus(last)
	}
}

// MoveFocusForward moves focus to the next tab stop, wrapping at the end.
// The focused node's own descendants come first.
func (s *Surface) MoveFocusForward() {
	cur := s.FocusedNode()
	if cur == nil {
		s.SetFocusToFirst()
		return
	}
	next := firstFocusInSubtrees(cur)
	if next == nil {
		next = s.nextFocus(cur)
	}
	if next != nil && next != cur {
		s.SetFocus(next)
	}
}

// MoveFocusBackward moves focus to the previous tab stop, wrapping at the
// start.
func (s *Surface) MoveFocusBackward() {
	cur := s.FocusedNode()
	if cur == nil {
		s.SetFocusToLast()
		return
	}
	if prev := s.previousFocus(cur); prev != nil && prev != cur {
		s.SetFocus(prev)
	}
}

func isFocusable(n *Node) bool { return n.IsReallyEnabled() && n.IsTabStop() }

func (s *Surface) siblings(n *Node) *Container {
	if n.parent != nil {
		return n.parent.children
	}
	return s.children
}

// nextFocus finds the next tab stop after cur's subtree, walking up the
// ancestors and wrapping to the top of the tree. It does not look inside
// cur itself.
func (s *Surface) nextFocus(cur *Node) *Node {
	sib := s.siblings(cur)
	if sib != nil && cur.index >= 0 {
		for i := cur.index + 1; i < sib.Count(); i++ {
			if r := firstFocusInTree(sib.At(i)); r != nil {
				return r
			}
		}
	}
	if cur.parent != nil {
		return s.nextFocus(cur.parent)
	}
	if cur.index < 0 {
		return nil
	}
	for i := 0; i <= cur.index && i < s.children.Count(); i++ {
		if r := firstFocusInTree(s.children.At(i)); r != nil {
			return r
		}
	}
	return nil
}

// previousFocus mirrors nextFocus.
func (s *Surface) previousFocus(cur *Node) *Node {
	sib := s.siblings(cur)
	if sib != nil && cur.index >= 0 {
		for i := cur.index; i > 0; i-- {
			if r := lastFocusInTree(sib.At(i - 1)); r != nil {
				return r
			}
		}
	}
	if cur.parent != nil {
		return s.previousFocus(cur.parent)
	}
	if cur.index < 0 {
		return nil
	}
	for i := s.children.Count(); i > cur.index; i-- {
		if r := lastFocusInTree(s.children.At(i - 1)); r != nil {
			return r
		}
	}
	return nil
}

func firstFocusInTree(n *Node) *Node {
	if isFocusable(n) {
		return n
	}
	return firstFocusInSubtrees(n)
}

func firstFocusInSubtrees(n *Node) *Node {
	if !n.visible || n.children == nil {
		return nil
	}
	for i := 0; i < n.children.Count(); i++ {
		if r := firstFocusInTree(n.children.At(i)); r != nil {
			return r
		}
	}
	return nil
}

func lastFocusInTree(n *Node) *Node {
	if r := lastFocusInSubtrees(n); r != nil {
		return r
	}
	if isFocusable(n) {
		return n
	}
	return nil
}

func lastFocusInSubtrees(n *Node) *Node {
	if !n.visible || n.children == nil {
		return nil
	}
	for i := n.children.Count(); i > 0; i-- {
		if r := lastFocusInTree(n.children.At(i - 1)); r != nil {
			return r
		}
	}
	return nil
}

// --- Keyboard ---

// OnKeyEvent fires the surface key handlers, then delivers ev to the
// focused node. An unconsumed Tab key-down moves focus: backward with
// Shift, forward otherwise.
func (s *Surface) OnKeyEvent(ev KeyboardEvent) EventResult {
	if s.destroyed {
		return EventUnhandled
	}
	oldFocus := s.focus
	ctx := &EventContext{Event: ev}
	s.fireEvent(ctx, s.signals.get(ev.Kind))
	r := ctx.result
	if s.destroyed || r == EventCanceled {
		return r
	}
	f := s.FocusedNode()
	if f == nil {
		return r
	}
	if !f.IsReallyEnabled() {
		f.OnOtherEvent(SimpleEvent{Kind: EventFocusOut})
		s.focus = Handle{}
		return r
	}
	r = f.OnKeyEvent(ev)
	if s.destroyed || r == EventCanceled {
		return r
	}
	if ev.Kind == EventKeyDown && ev.KeyCode == KeyTab && oldFocus == s.focus {
		if ev.Modifier&ModShift != 0 {
			s.MoveFocusBackward()
		} else {
			s.MoveFocusForward()
		}
		r = EventHandled
	}
	return r
}

// --- Other events ---

// OnOtherEvent handles surface focus changes and lifecycle events. Gaining
// focus restores the focused node; losing it sends that node EventFocusOut
// but remembers it. EventOpen focuses the first tab stop.
func (s *Surface) OnOtherEvent(ev Event) EventResult {
	if s.destroyed {
		return EventUnhandled
	}
	ctx := &EventContext{Event: ev}
	switch ev.Type() {
	case EventFocusIn:
		s.viewFocused = true
		if f := s.FocusedNode(); f != nil &&
			(!f.IsReallyEnabled() || f.OnOtherEvent(SimpleEvent{Kind: EventFocusIn}) == EventCanceled) {
			s.focus = Handle{}
		}
	case EventFocusOut:
		s.viewFocused = false
		if f := s.FocusedNode(); f != nil {
			f.OnOtherEvent(SimpleEvent{Kind: EventFocusOut})
		}
	case EventOpen:
		s.SetFocusToFirst()
		s.fireEvent(ctx, s.signals.get(EventOpen))
	case EventSizing:
		if sz, ok := ev.(SizingEvent); ok {
			ctx.Sizing = &sz
		}
		s.fireEvent(ctx, s.signals.get(EventSizing))
	default:
		s.fireEvent(ctx, s.signals.get(ev.Type()))
	}
	return ctx.result
}
