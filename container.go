package canopy

// Container is an ordered list of child nodes. Later children are drawn on
// top and receive pointer events first. A container belongs either to a
// node or, at top level, to the surface.
type Container struct {
	surface *Surface
	owner   *Node // nil at top level
	nodes   []*Node

	width, height float64
	scrollable    bool
	nodeRemoved   bool

	onAdded   Signal[*Node]
	onRemoved Signal[*Node]
}

func newContainer(s *Surface, owner *Node) *Container {
	return &Container{surface: s, owner: owner}
}

// Owner returns the node holding the container, or nil at top level.
func (c *Container) Owner() *Node { return c.owner }

// Count returns the number of children.
func (c *Container) Count() int { return len(c.nodes) }

// At returns the child at index i, or nil when out of range.
func (c *Container) At(i int) *Node {
	if i < 0 || i >= len(c.nodes) {
		return nil
	}
	return c.nodes[i]
}

// ByName returns the first child with the given name, or nil.
func (c *Container) ByName(name string) *Node {
	for _, n := range c.nodes {
		if n.name == name {
			return n
		}
	}
	return nil
}

// Nodes returns a copy of the children in draw order.
func (c *Container) Nodes() []*Node {
	out := make([]*Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// ConnectOnAdded registers fn to run after a node is inserted.
func (c *Container) ConnectOnAdded(fn func(*Node)) Connection { return c.onAdded.Connect(fn) }

// ConnectOnRemoved registers fn to run after a node is removed.
func (c *Container) ConnectOnRemoved(fn func(*Node)) Connection { return c.onRemoved.Connect(fn) }

// SetScrollable makes the container size itself to its children's extent
// instead of its owner's box.
func (c *Container) SetScrollable(v bool) { c.scrollable = v }

// Extent returns the container's canvas size.
func (c *Container) Extent() (w, h float64) { return c.width, c.height }

func (c *Container) isChild(n *Node) bool {
	return n != nil && n.index >= 0 && n.container == c
}

// --- Mutation ---

// AppendNew creates a node of the registered kind tag and appends it.
func (c *Container) AppendNew(tag, name string) *Node {
	return c.InsertNew(tag, name, nil)
}

// InsertNew creates a node of the registered kind tag and inserts it before
// before, or appends it when before is nil. It returns nil if tag is not
// registered or the insert is refused.
func (c *Container) InsertNew(tag, name string, before *Node) *Node {
	if before != nil && !c.isChild(before) {
		return nil
	}
	n := c.surface.createNode(tag, name)
	if n == nil {
		return nil
	}
	if !c.Insert(n, before) {
		n.Destroy()
		return nil
	}
	return n
}

// Append inserts n at the end. See Insert.
func (c *Container) Append(n *Node) bool { return c.Insert(n, nil) }

// Insert places n before before, or at the end when before is nil. A node
// that already lives in some container is moved. It returns false, leaving
// the tree unchanged, when n is before, when before is not a child of c,
// when n belongs to another surface, when n is an inner node, or when the
// insert would make n its own ancestor. Inserting a node where it already
// is succeeds without doing anything.
func (c *Container) Insert(n, before *Node) bool {
	if n == nil || n == before || n.destroyed {
		return false
	}
	if before != nil {
		if !c.isChild(before) {
			return false
		}
		if c.isChild(n) && n.index+1 == before.index {
			return true
		}
	} else if c.isChild(n) && n.index == len(c.nodes)-1 {
		return true
	}
	if n.surface != c.surface {
		Logger().Debug("canopy: insert refused, node belongs to another surface", "node", n.name)
		return false
	}
	for e := c.owner; e != nil; e = e.parent {
		if e == n {
			Logger().Debug("canopy: insert refused, node would contain itself", "node", n.name)
			return false
		}
	}
	if n.index < 0 {
		if n.parent != nil {
			Logger().Debug("canopy: insert refused, inner node cannot be moved", "node", n.name)
			return false
		}
	} else {
		n.container.removeInternal(n)
	}
	c.insertInternal(n, before)
	return true
}

func (c *Container) insertInternal(n, before *Node) {
	n.parent = c.owner
	n.container = c
	c.surface.onNodeAdd(n)
	n.drawQueued = false
	n.QueueDraw()
	if before != nil {
		i := before.index
		c.nodes = append(c.nodes, nil)
		copy(c.nodes[i+1:], c.nodes[i:])
		c.nodes[i] = n
		c.updateIndexes(i)
	} else {
		n.index = len(c.nodes)
		c.nodes = append(c.nodes, n)
	}
	if s := c.surface; s.debug&DebugTree != 0 {
		debugCheckChildCount(c)
		debugCheckTreeDepth(n)
	}
	c.onAdded.Emit(n)
}

// removeInternal detaches n without destroying it.
func (c *Container) removeInternal(n *Node) {
	n.QueueDraw()
	c.surface.onNodeRemove(n)
	i := n.index
	copy(c.nodes[i:], c.nodes[i+1:])
	c.nodes[len(c.nodes)-1] = nil
	c.nodes = c.nodes[:len(c.nodes)-1]
	c.updateIndexes(i)
	n.index = -1
	n.parent = nil
	n.container = nil
	c.nodeRemoved = true
	c.onRemoved.Emit(n)
}

func (c *Container) updateIndexes(from int) {
	for i := from; i < len(c.nodes); i++ {
		c.nodes[i].index = i
	}
}

// Remove detaches n and destroys it with its subtree. It returns false if n
// is not a child of c.
func (c *Container) Remove(n *Node) bool {
	if !c.isChild(n) {
		return false
	}
	c.removeInternal(n)
	n.destroy()
	return true
}

// RemoveAll destroys every child.
func (c *Container) RemoveAll() {
	if len(c.nodes) == 0 {
		return
	}
	nodes := c.nodes
	c.nodes = nil
	c.nodeRemoved = true
	for _, n := range nodes {
		if n.destroyed {
			continue
		}
		c.surface.onNodeRemove(n)
		n.index = -1
		n.container = nil
		c.onRemoved.Emit(n)
		n.destroy()
	}
}

// destroyAll tears down the children without notifying anyone. It runs when
// the owner itself is being destroyed.
func (c *Container) destroyAll() {
	nodes := c.nodes
	c.nodes = nil
	for _, n := range nodes {
		n.container = nil
		n.destroy()
	}
	c.onAdded.destroy()
	c.onRemoved.destroy()
}

// --- Dispatch ---

// mapChildMouseEvent converts ev from the container's space into child's.
// Mirrored children see mirrored wheel deltas.
func mapChildMouseEvent(ev MouseEvent, child *Node) MouseEvent {
	ev.X, ev.Y = child.ParentToSelf(ev.X, ev.Y)
	if child.flip&FlipHorizontal != 0 {
		ev.WheelDeltaX = -ev.WheelDeltaX
	}
	if child.flip&FlipVertical != 0 {
		ev.WheelDeltaY = -ev.WheelDeltaY
	}
	return ev
}

// OnMouseEvent offers ev to the children from topmost down and stops at the
// first that fires. Stops early if a handler destroys the child it is
// running on.
func (c *Container) OnMouseEvent(ev MouseEvent) MouseDispatch {
	s := c.surface
	var inH Handle
	inHT := HitTestClient
	nodes := c.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		child := nodes[i]
		if child.container != c || !child.visible || child.opacity == 0 {
			continue
		}
		cev := mapChildMouseEvent(ev, child)
		if !child.IsPointIn(cev.X, cev.Y) {
			continue
		}
		ch := child.handle
		d := child.OnMouseEvent(cev, false)
		if s.Lookup(inH) == nil && d.In != nil {
			inH = d.In.handle
			inHT = d.HitTest
		}
		if s.Lookup(ch) == nil || d.Fired != nil {
			d.In = s.Lookup(inH)
			d.HitTest = inHT
			return d
		}
	}
	return MouseDispatch{In: s.Lookup(inH), HitTest: inHT}
}

// OnDragEvent offers a drag motion to the children from topmost down.
func (c *Container) OnDragEvent(ev DragEvent) (EventResult, *Node) {
	s := c.surface
	nodes := c.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		child := nodes[i]
		if child.container != c || !child.IsReallyVisible() {
			continue
		}
		cev := ev
		cev.X, cev.Y = child.ParentToSelf(ev.X, ev.Y)
		if !child.IsPointIn(cev.X, cev.Y) {
			continue
		}
		ch := child.handle
		r, fired := child.OnDragEvent(cev, false)
		if s.Lookup(ch) == nil || fired != nil {
			return r, fired
		}
	}
	return EventUnhandled, nil
}

// --- Layout and draw ---

func (c *Container) calculateSize() {
	for _, n := range c.nodes {
		n.calculateSize()
	}
}

// Layout lays out every child and recomputes the container's extent.
func (c *Container) Layout() {
	update := c.nodeRemoved
	for i := 0; i < len(c.nodes); i++ {
		n := c.nodes[i]
		n.Layout()
		if n.positionChanged || n.sizeChanged {
			update = true
		}
		n.positionChanged = false
		n.sizeChanged = false
	}
	switch {
	case c.scrollable:
		if update {
			c.width, c.height = 0, 0
			for _, n := range c.nodes {
				c.updateChildExtent(n)
			}
		}
	case c.owner != nil:
		c.width, c.height = c.owner.width, c.owner.height
	default:
		c.width, c.height = c.surface.width, c.surface.height
	}
	c.nodeRemoved = false
}

// updateChildExtent grows the container's extent to cover n. The exact
// rotated extent is only computed when a cheap upper bound exceeds the
// current extent.
func (c *Container) updateChildExtent(n *Node) {
	est := max(n.pinX, n.width-n.pinX) + max(n.pinY, n.height-n.pinY)
	if n.x+est <= c.width && n.y+est <= c.height {
		return
	}
	r, b := ChildExtentInParent(n.x, n.y, n.pinX, n.pinY, n.width, n.height, n.radians())
	c.width = max(c.width, r)
	c.height = max(c.height, b)
}

// AggregateClipRegion collects the children's damage. The surface popup is
// skipped; the surface handles it separately.
func (c *Container) AggregateClipRegion(boundary Rect, region *ClipRegion) {
	popup := c.surface.PopupNode()
	for _, n := range c.nodes {
		if n != popup {
			n.AggregateClipRegion(boundary, region)
		}
	}
}

// MarkRedraw marks every child for a full repaint.
func (c *Container) MarkRedraw() {
	for _, n := range c.nodes {
		n.MarkRedraw()
	}
}

// Draw paints the children in order, skipping the surface popup, anything
// outside the damaged area and anything outside the owner's box.
func (c *Container) Draw(canvas Canvas) {
	if len(c.nodes) == 0 || c.width == 0 || c.height == 0 {
		return
	}
	s := c.surface
	popup := s.PopupNode()
	for i := 0; i < len(c.nodes); i++ {
		n := c.nodes[i]
		if n == popup {
			continue
		}
		if !s.IsNodeInClipRegion(n) || (c.owner != nil && !c.owner.IsChildInVisibleArea(n)) {
			continue
		}
		canvas.PushState()
		if n.rotation == 0 {
			canvas.TranslateCoordinates(n.x-n.pinX, n.y-n.pinY)
		} else {
			canvas.TranslateCoordinates(n.x, n.y)
			canvas.RotateCoordinates(n.radians())
			canvas.TranslateCoordinates(-n.pinX, -n.pinY)
		}
		n.Draw(canvas)
		canvas.PopState()
	}
	if s.debug&DebugContainers != 0 {
		drawBox(canvas, c.width, c.height, ColorBlack, true)
	}
}
