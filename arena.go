package canopy

// Handle is a non-owning reference to a node. It stays safe to hold after
// the node is destroyed: Surface.Lookup then returns nil. The zero Handle
// never resolves.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

type arenaSlot struct {
	node *Node
	gen  uint32
}

// nodeArena hands out generation-checked handles. A freed slot bumps its
// generation so old handles to it stop resolving, then goes on the free
// list for reuse.
type nodeArena struct {
	slots []arenaSlot
	free  []uint32
	live  int
}

func (a *nodeArena) add(n *Node) Handle {
	var idx uint32
	if k := len(a.free); k > 0 {
		idx = a.free[k-1]
		a.free = a.free[:k-1]
	} else {
		a.slots = append(a.slots, arenaSlot{})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.node = n
	a.live++
	return Handle{index: idx, gen: s.gen}
}

func (a *nodeArena) get(h Handle) *Node {
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.index]
	if s.gen != h.gen {
		return nil
	}
	return s.node
}

func (a *nodeArena) remove(h Handle) {
	if a.get(h) == nil {
		return
	}
	s := &a.slots[h.index]
	s.node = nil
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, h.index)
	a.live--
}
