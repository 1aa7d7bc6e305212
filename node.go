package canopy

// --- Behavior ---

// Behavior supplies the kind-specific parts of a node. The node calls these
// hooks from its own layout, draw and dispatch code; embed BaseBehavior to
// get the default for every hook and override only what a kind needs.
type Behavior interface {
	// DefaultSize is used for width or height when none was specified.
	DefaultSize(n *Node) (w, h float64)
	// DefaultPosition is used for x or y when none was specified.
	DefaultPosition(n *Node) (x, y float64)
	// Layout runs after the node's children have been laid out.
	Layout(n *Node)
	// DoDraw paints the node in its own coordinate space.
	DoDraw(n *Node, c Canvas)

	HandleMouseEvent(n *Node, ev MouseEvent) EventResult
	HandleKeyEvent(n *Node, ev KeyboardEvent) EventResult
	HandleDragEvent(n *Node, ev DragEvent) EventResult
	HandleOtherEvent(n *Node, ev Event) EventResult

	// HasOpaqueBackground reports whether DoDraw covers the node's whole box.
	HasOpaqueBackground(n *Node) bool
	// IsTabStopDefault is the tab stop value used until SetTabStop is called.
	IsTabStopDefault(n *Node) bool
	// PopupOff is called when the node stops being the surface popup.
	PopupOff(n *Node)
	// EnsureAreaVisible scrolls r, given in the node's space, into view.
	EnsureAreaVisible(n *Node, r Rect, source *Node)
}

// BaseBehavior implements every Behavior hook with the plain-node default.
// Its DoDraw paints the node's children.
type BaseBehavior struct{}

func (BaseBehavior) DefaultSize(*Node) (float64, float64)     { return 0, 0 }
func (BaseBehavior) DefaultPosition(*Node) (float64, float64) { return 0, 0 }
func (BaseBehavior) Layout(*Node)                             {}
func (BaseBehavior) DoDraw(n *Node, c Canvas)                 { n.DrawChildren(c) }

func (BaseBehavior) HandleMouseEvent(*Node, MouseEvent) EventResult  { return EventUnhandled }
func (BaseBehavior) HandleKeyEvent(*Node, KeyboardEvent) EventResult { return EventUnhandled }
func (BaseBehavior) HandleDragEvent(*Node, DragEvent) EventResult    { return EventUnhandled }
func (BaseBehavior) HandleOtherEvent(*Node, Event) EventResult       { return EventUnhandled }
func (BaseBehavior) HasOpaqueBackground(*Node) bool                  { return false }
func (BaseBehavior) IsTabStopDefault(*Node) bool                     { return false }
func (BaseBehavior) PopupOff(*Node)                                  {}
func (BaseBehavior) EnsureAreaVisible(n *Node, r Rect, source *Node) { n.ensureAreaVisible(r) }

// --- Node ---

// Node is one entry in the scene graph. Nodes are created by a Surface and
// owned by the Container they are inserted into; removing a node from its
// container destroys it and its whole subtree.
type Node struct {
	id       uint32
	handle   Handle
	name     string
	tag      string
	behavior Behavior
	surface  *Surface

	parent    *Node      // nil at top level
	container *Container // the container holding this node; nil when detached
	children  *Container // nil for leaf kinds
	inner     []*Node    // children owned directly, outside any container
	index     int        // position in container, -1 when detached

	x, y, width, height   float64
	pinX, pinY            float64
	minWidth, minHeight   float64
	relX, relY            float64 // fractions of the parent size
	wantWidth, wantHeight float64 // pixels, or fractions when relative
	relPinX, relPinY      float64 // fractions of the node's own size
	rotation              float64 // degrees
	opacity               float64
	flip                  FlipMode

	hitTest   HitTest
	cursor    CursorType
	tooltip   string
	mask      Canvas
	cache     Canvas
	clip      ClipRegion
	debugTint int

	xRelative, yRelative            bool
	xSpecified, ySpecified          bool
	widthRelative, heightRelative   bool
	widthSpecified, heightSpecified bool
	pinXRelative, pinYRelative      bool

	visible           bool
	enabled           bool
	dropTarget        bool
	tabStop           bool
	tabStopSet        bool
	showFocusOverlay  bool
	cacheEnabled      bool
	visibilityChanged bool
	positionChanged   bool
	sizeChanged       bool
	contentChanged    bool
	drawQueued        bool
	destroyed         bool

	signals          signalSet
	onContentChanged Signal[*Node]

	// UserData is free for callers to use.
	UserData any
}

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic: the tree is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

func (s *Surface) newNode(tag, name string, b Behavior, withChildren bool) *Node {
	if b == nil {
		b = BaseBehavior{}
	}
	n := &Node{
		id:       nextNodeID(),
		name:     name,
		tag:      tag,
		behavior: b,
		surface:  s,
		index:    -1,
		opacity:  1,
		visible:  true,
		enabled:  true,
		hitTest:  HitTestClient,
	}
	n.debugTint = int(n.id)
	if withChildren {
		n.children = newContainer(s, n)
	}
	n.handle = s.arena.add(n)
	return n
}

// NewNode creates a detached leaf node on s. Insert it into a container to
// make it part of the tree.
func (s *Surface) NewNode(tag, name string, b Behavior) *Node {
	return s.newNode(tag, name, b, false)
}

// NewContainerNode creates a detached node that can hold children.
func (s *Surface) NewContainerNode(tag, name string, b Behavior) *Node {
	return s.newNode(tag, name, b, true)
}

// NewInnerNode creates a child that n owns directly, outside its children
// container. Inner nodes cannot be moved into a container; n's behavior is
// responsible for drawing them. They are destroyed with n.
func (n *Node) NewInnerNode(tag, name string, b Behavior) *Node {
	c := n.surface.newNode(tag, name, b, false)
	c.parent = n
	n.inner = append(n.inner, c)
	return c
}

// --- Identity and tree accessors ---

// ID returns the node's process-unique id.
func (n *Node) ID() uint32 { return n.id }

// Handle returns a non-owning reference to n. Surface.Lookup resolves it
// to nil once n has been destroyed.
func (n *Node) Handle() Handle { return n.handle }

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// Tag returns the kind name the node was created with.
func (n *Node) Tag() string { return n.tag }

// Behavior returns the node's behavior.
func (n *Node) Behavior() Behavior { return n.behavior }

// Surface returns the surface that created n.
func (n *Node) Surface() *Surface { return n.surface }

// Parent returns the parent node, or nil at top level.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's child container, or nil for leaf kinds.
func (n *Node) Children() *Container { return n.children }

// Index returns n's position in its container, or -1 when detached.
func (n *Node) Index() int { return n.index }

// IsDestroyed reports whether n has been destroyed.
func (n *Node) IsDestroyed() bool { return n.destroyed }

// --- Lifecycle ---

// Destroy destroys a detached node. Attached nodes are destroyed through
// their container's Remove; calling Destroy on one is a no-op.
func (n *Node) Destroy() {
	if n.destroyed || n.container != nil {
		return
	}
	if n.parent != nil {
		n.parent.inner = removeNodeByPtr(n.parent.inner, n)
		n.parent = nil
	}
	n.destroy()
}

// destroy tears down n and its subtree depth-first and tombstones their
// handles. Handlers running higher up the stack observe the handles going
// stale.
func (n *Node) destroy() {
	if n.destroyed {
		return
	}
	if n.children != nil {
		n.children.destroyAll()
	}
	for _, c := range n.inner {
		c.destroy()
	}
	n.inner = nil
	n.destroyed = true
	n.surface.forgetNode(n)
	n.signals.destroy()
	n.onContentChanged.destroy()
	destroyCanvas(&n.cache)
	n.surface.arena.remove(n.handle)
	n.parent = nil
	n.container = nil
	n.index = -1
}

func destroyCanvas(c *Canvas) {
	if *c != nil {
		(*c).Destroy()
		*c = nil
	}
}

func removeNodeByPtr(s []*Node, n *Node) []*Node {
	for i, c := range s {
		if c == n {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			return s[:len(s)-1]
		}
	}
	return s
}

// --- Signals ---

// Connect registers h for events of type t fired on this node.
func (n *Node) Connect(t EventType, h Handler) Connection {
	return n.signals.connect(t, h)
}

// ConnectOnContentChanged registers fn to run after a layout pass in which
// the node's content changed.
func (n *Node) ConnectOnContentChanged(fn func(*Node)) Connection {
	return n.onContentChanged.Connect(fn)
}

// --- Simple properties ---

// HitTest returns the value reported for points inside the node.
func (n *Node) HitTest() HitTest { return n.hitTest }

// SetHitTest sets the hit-test value. Nodes with a non-client value act as
// window frame parts and stop receiving events.
func (n *Node) SetHitTest(v HitTest) {
	n.hitTest = v
	if v != HitTestClient {
		n.enabled = false
	}
}

// hitTestAt returns the hit-test value for a point in n's space.
func (n *Node) hitTestAt(x, y float64) HitTest {
	if n.IsPointIn(x, y) {
		return n.hitTest
	}
	return HitTestTransparent
}

// Cursor returns the cursor shown over the node.
func (n *Node) Cursor() CursorType { return n.cursor }

// SetCursor sets the cursor shown over the node.
func (n *Node) SetCursor(c CursorType) { n.cursor = c }

// Tooltip returns the node's tooltip text.
func (n *Node) Tooltip() string { return n.tooltip }

// SetTooltip sets the node's tooltip text.
func (n *Node) SetTooltip(t string) { n.tooltip = t }

// ShowTooltip shows the tooltip at the center of the node.
func (n *Node) ShowTooltip() {
	n.surface.showNodeTooltipAt(n, n.width/2, n.height/2)
}

// IsEnabled reports the node's own enabled flag.
func (n *Node) IsEnabled() bool { return n.enabled }

// SetEnabled enables or disables the node.
func (n *Node) SetEnabled(enabled bool) {
	if n.enabled != enabled {
		n.enabled = enabled
		n.QueueDraw()
	}
}

// IsDropTarget reports whether the node accepts drops.
func (n *Node) IsDropTarget() bool { return n.dropTarget }

// SetDropTarget sets whether the node accepts drops.
func (n *Node) SetDropTarget(v bool) { n.dropTarget = v }

// IsTabStop reports whether keyboard traversal stops at the node.
func (n *Node) IsTabStop() bool {
	if n.tabStopSet {
		return n.tabStop
	}
	return n.behavior.IsTabStopDefault(n)
}

// SetTabStop sets whether keyboard traversal stops at the node.
func (n *Node) SetTabStop(v bool) {
	n.tabStop = v
	n.tabStopSet = true
}

// IsShowFocusOverlay reports whether a focus ring is drawn while focused.
func (n *Node) IsShowFocusOverlay() bool { return n.showFocusOverlay }

// SetShowFocusOverlay sets whether a focus ring is drawn while focused.
func (n *Node) SetShowFocusOverlay(v bool) {
	if n.showFocusOverlay != v {
		n.showFocusOverlay = v
		if n.surface.IsFocused() && n.surface.FocusedNode() == n {
			n.QueueDraw()
		}
	}
}

// Mask returns the mask canvas, or nil.
func (n *Node) Mask() Canvas { return n.mask }

// SetMask sets a canvas whose alpha masks the node's output and hit area.
func (n *Node) SetMask(m Canvas) {
	if n.mask != m {
		n.mask = m
		n.QueueDraw()
	}
}

// IsCacheEnabled reports whether the node keeps an offscreen draw cache.
func (n *Node) IsCacheEnabled() bool { return n.cacheEnabled }

// SetCacheEnabled turns the offscreen draw cache on or off.
func (n *Node) SetCacheEnabled(enable bool) {
	n.cacheEnabled = enable
	if !enable {
		destroyCanvas(&n.cache)
	}
}

// Focus gives the node keyboard focus.
func (n *Node) Focus() { n.surface.SetFocus(n) }

// KillFocus clears keyboard focus from the surface.
func (n *Node) KillFocus() { n.surface.SetFocus(nil) }

// IsFullyOpaque reports whether the node paints every pixel of its box at
// full opacity.
func (n *Node) IsFullyOpaque() bool {
	if !n.behavior.HasOpaqueBackground(n) || n.mask != nil {
		return false
	}
	opacity := n.opacity
	for p := n.parent; p != nil; p = p.parent {
		opacity *= p.opacity
	}
	return opacity == 1
}

// IsReallyVisible reports whether the node and every ancestor are visible,
// non-transparent, non-empty, and inside their parent's visible area.
func (n *Node) IsReallyVisible() bool {
	return n.isReallyVisible(true)
}

func (n *Node) isReallyVisible(clip bool) bool {
	if !n.visible || n.opacity == 0 || n.width <= 0 || n.height <= 0 {
		return false
	}
	if n.parent == nil {
		return true
	}
	return n.parent.isReallyVisible(clip) && (!clip || n.parent.IsChildInVisibleArea(n))
}

// IsReallyEnabled reports whether the node is enabled and visible along its
// ancestor chain. Only really enabled nodes take focus.
func (n *Node) IsReallyEnabled() bool {
	return n.enabled && n.isReallyVisible(false)
}
