package canopy

// SurfaceConfig holds the collaborators and options for a Surface.
type SurfaceConfig struct {
	// Width and Height are the initial surface size in pixels.
	Width, Height float64
	// Graphics creates offscreen canvases. Without it node caches, flips,
	// masks and group opacity fall back to direct drawing.
	Graphics Graphics
	// MainLoop drives the scheduler. Without it timers cannot be created.
	MainLoop MainLoop
	// Host receives cursor, tooltip and repaint requests. May be nil.
	Host Host
	// Registry creates nodes by tag for Container.AppendNew.
	Registry *Registry
	// MainView marks the surface as a top-level window. Only main views
	// let clicks through fully transparent pixels.
	MainView bool
	// EnableCache keeps a surface-sized canvas so only damaged areas are
	// repainted each frame. Requires Graphics.
	EnableCache bool
	// Debug enables diagnostic drawing and tree checks.
	Debug DebugMode
}

// Surface is the root of a scene graph. It owns the top-level nodes and all
// interaction state: focus, grab, popup, mouse-over, drag-over and tooltip.
// A Surface is not safe for concurrent use; drive it from one goroutine.
type Surface struct {
	width, height float64
	graphics      Graphics
	loop          MainLoop
	host          Host
	registry      *Registry
	mainView      bool
	enableCache   bool
	debug         DebugMode

	arena    nodeArena
	children *Container
	names    map[string]*Node
	signals  signalSet

	focus     Handle
	grab      Handle
	mouseOver Handle
	dragOver  Handle
	popup     Handle
	tooltip   Handle

	dragOverResult EventResult
	viewFocused    bool
	mouseIsOver    bool
	cursor         CursorType
	hitTest        HitTest

	clip           ClipRegion
	clipEnabled    bool
	cache          Canvas
	needRedraw     bool
	drawQueued     bool
	contentChanged bool

	postedSize    []Handle
	eventStack    []*EventContext
	eventsEnabled bool
	timers        map[int]*timerWatch
	injected      []injectedEvent
	pointer       PointerState

	destroyed bool
}

// NewSurface creates an empty surface.
func NewSurface(cfg SurfaceConfig) *Surface {
	s := &Surface{
		width:         cfg.Width,
		height:        cfg.Height,
		graphics:      cfg.Graphics,
		loop:          cfg.MainLoop,
		host:          cfg.Host,
		registry:      cfg.Registry,
		mainView:      cfg.MainView,
		enableCache:   cfg.EnableCache,
		debug:         cfg.Debug,
		names:         make(map[string]*Node),
		clipEnabled:   true,
		needRedraw:    true,
		eventsEnabled: true,
		timers:        make(map[int]*timerWatch),
	}
	if s.host == nil {
		s.host = nopHost{}
	}
	if s.registry == nil {
		s.registry = DefaultRegistry
	}
	s.children = newContainer(s, nil)
	return s
}

// Destroy removes every timer and destroys every node. Handles into the
// surface stop resolving; handlers still on the stack observe that.
func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	for token := range s.timers {
		if s.loop != nil {
			s.loop.RemoveWatch(token)
		}
	}
	s.timers = nil
	s.children.destroyAll()
	s.signals.destroy()
	destroyCanvas(&s.cache)
	s.names = nil
}

// IsDestroyed reports whether Destroy has been called.
func (s *Surface) IsDestroyed() bool { return s.destroyed }

// Lookup resolves h, returning nil if the node has been destroyed.
func (s *Surface) Lookup(h Handle) *Node {
	return s.arena.get(h)
}

// NodeCount returns the number of live nodes, attached or not.
func (s *Surface) NodeCount() int { return s.arena.live }

// Children returns the top-level container.
func (s *Surface) Children() *Container { return s.children }

// NodeByName returns the attached node registered under name, or nil.
func (s *Surface) NodeByName(name string) *Node { return s.names[name] }

// Connect registers h for events of type t fired at surface level.
func (s *Surface) Connect(t EventType, h Handler) Connection {
	return s.signals.connect(t, h)
}

// SetEventsEnabled turns handler delivery on or off. Defaults still run.
func (s *Surface) SetEventsEnabled(v bool) { s.eventsEnabled = v }

// CurrentEvent returns the innermost event being delivered, or nil.
func (s *Surface) CurrentEvent() *EventContext {
	if len(s.eventStack) == 0 {
		return nil
	}
	return s.eventStack[len(s.eventStack)-1]
}

// fireEvent runs sig's handlers with ctx. The result becomes Handled when
// there is at least one handler; handlers may override it.
func (s *Surface) fireEvent(ctx *EventContext, sig *Signal[*EventContext]) {
	if !s.eventsEnabled || !sig.HasActiveConnections() {
		return
	}
	ctx.result = EventHandled
	s.eventStack = append(s.eventStack, ctx)
	sig.Emit(ctx)
	s.eventStack = s.eventStack[:len(s.eventStack)-1]
}

// fireHandler runs a single handler the way fireEvent runs a signal.
func (s *Surface) fireHandler(ctx *EventContext, h Handler) {
	if !s.eventsEnabled || h == nil {
		return
	}
	ctx.result = EventHandled
	s.eventStack = append(s.eventStack, ctx)
	h(ctx)
	s.eventStack = s.eventStack[:len(s.eventStack)-1]
}

func (s *Surface) fireSurfaceEvent(t EventType) EventResult {
	ctx := &EventContext{Event: SimpleEvent{Kind: t}}
	s.fireEvent(ctx, s.signals.get(t))
	return ctx.result
}

// --- Nodes ---

// createNode builds a node of the registered kind tag.
func (s *Surface) createNode(tag, name string) *Node {
	e, ok := s.registry.lookup(tag)
	if !ok {
		Logger().Debug("canopy: unknown node kind", "tag", tag)
		return nil
	}
	return s.newNode(tag, name, e.create(), e.withChildren)
}

func (s *Surface) onNodeAdd(n *Node) {
	if n.name != "" {
		if _, taken := s.names[n.name]; !taken {
			s.names[n.name] = n
		}
	}
}

// onNodeRemove runs when n leaves the tree, moved or destroyed.
func (s *Surface) onNodeRemove(n *Node) {
	s.AddNodeToClipRegion(n, nil)
	if s.Lookup(s.tooltip) == n {
		s.tooltip = Handle{}
		s.host.ShowTooltip("")
	}
	if n.name != "" && s.names[n.name] == n {
		delete(s.names, n.name)
	}
}

// forgetNode drops name bookkeeping for a node being destroyed.
func (s *Surface) forgetNode(n *Node) {
	if n.name != "" && s.names[n.name] == n {
		delete(s.names, n.name)
	}
}

// --- Size ---

// Width returns the surface width.
func (s *Surface) Width() float64 { return s.width }

// Height returns the surface height.
func (s *Surface) Height() float64 { return s.height }

// SetSize resizes the surface, relayouts, and fires EventSize.
func (s *Surface) SetSize(w, h float64) {
	if w == s.width && h == s.height {
		return
	}
	destroyCanvas(&s.cache)
	s.width, s.height = w, h
	s.needRedraw = true
	if !s.drawQueued {
		s.children.Layout()
	}
	s.fireSurfaceEvent(EventSize)
	s.QueueDraw()
}

// OnSizing offers a proposed size to EventSizing handlers. It reports
// whether the resize is allowed and the possibly adjusted size.
func (s *Surface) OnSizing(w, h float64) (bool, float64, float64) {
	sz := &SizingEvent{Width: w, Height: h}
	ctx := &EventContext{Event: *sz, Sizing: sz}
	s.fireEvent(ctx, s.signals.get(EventSizing))
	return ctx.result != EventCanceled, sz.Width, sz.Height
}

// postSizeEvent queues n for an EventSize after the current layout.
func (s *Surface) postSizeEvent(n *Node) {
	for _, h := range s.postedSize {
		if h == n.handle {
			return
		}
	}
	s.postedSize = append(s.postedSize, n.handle)
}

// firePostedSizeEvents delivers queued size events. Events posted by these
// handlers wait for the next layout.
func (s *Surface) firePostedSizeEvents() {
	posted := s.postedSize
	s.postedSize = nil
	for _, h := range posted {
		if n := s.Lookup(h); n != nil {
			ctx := &EventContext{Event: SimpleEvent{Kind: EventSize}, Source: n}
			s.fireEvent(ctx, n.signals.get(EventSize))
		}
	}
}

// --- Host side effects ---

// QueueDraw asks the host for a repaint. Repeated calls before the next
// Draw are merged.
func (s *Surface) QueueDraw() {
	if !s.drawQueued {
		s.drawQueued = true
		s.host.QueueDraw()
	}
}

// MarkRedraw forces the next Draw to repaint everything.
func (s *Surface) MarkRedraw() {
	s.needRedraw = true
	s.children.MarkRedraw()
	s.QueueDraw()
}

// Cursor returns the cursor most recently requested from the host.
func (s *Surface) Cursor() CursorType { return s.cursor }

func (s *Surface) setCursor(c CursorType) {
	s.cursor = c
	s.host.SetCursor(c)
}

// TooltipNode returns the node whose tooltip is showing, or nil.
func (s *Surface) TooltipNode() *Node { return s.Lookup(s.tooltip) }

// ShowNodeTooltip shows n's tooltip at the pointer.
func (s *Surface) ShowNodeTooltip(n *Node) {
	s.tooltip = n.handle
	s.host.ShowTooltip(n.tooltip)
}

// showNodeTooltipAt shows n's tooltip at (x, y) in n's space.
func (s *Surface) showNodeTooltipAt(n *Node, x, y float64) {
	s.tooltip = n.handle
	vx, vy := n.SelfToView(x, y)
	s.host.ShowTooltipAt(n.tooltip, vx, vy)
}

// HideTooltip clears any tooltip.
func (s *Surface) HideTooltip() {
	s.tooltip = Handle{}
	s.host.ShowTooltip("")
}

// --- Popup ---

// PopupNode returns the popup node, or nil.
func (s *Surface) PopupNode() *Node { return s.Lookup(s.popup) }

// SetPopup makes n the popup. The popup draws above everything else and
// gets first look at pointer events; a mouse-down that lands outside it
// dismisses it. Pass nil to clear.
func (s *Surface) SetPopup(n *Node) {
	if old := s.PopupNode(); old != nil {
		s.AddNodeToClipRegion(old, nil)
		old.behavior.PopupOff(old)
	}
	if n == nil {
		s.popup = Handle{}
		return
	}
	s.popup = n.handle
	n.QueueDraw()
}

// --- Layout ---

// Layout resolves every node, delivers posted size events, and collects
// this frame's damage.
func (s *Surface) Layout() {
	s.drawQueued = true
	s.children.calculateSize()
	s.children.Layout()
	s.firePostedSizeEvents()
	s.drawQueued = false

	boundary := Rect{W: s.width, H: s.height}
	popup := s.PopupNode()
	if s.needRedraw {
		s.clip.Clear()
		s.clip.AddRectangle(boundary)
		if popup != nil {
			popup.AggregateClipRegion(Rect{}, nil)
		}
		s.children.AggregateClipRegion(Rect{}, nil)
	} else {
		if popup != nil {
			popup.AggregateClipRegion(boundary, &s.clip)
		}
		s.children.AggregateClipRegion(boundary, &s.clip)
	}
	if !s.clip.IsEmpty() {
		s.contentChanged = true
	}
}
