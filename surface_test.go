package canopy

import "testing"

// enter moves the pointer onto the surface at (x, y) and discards the log
// entries that produced.
func (e *testEnv) enter(log *[]string, x, y float64) {
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: x, Y: y})
	*log = (*log)[:0]
}

// --- Hit order ---

func TestTopmostNodeReceivesEvent(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	b := e.box(nil, "b", 25, 25, 50, 50)
	var log []string
	record(&log, a, EventMouseDown)
	record(&log, b, EventMouseDown)

	e.s.OnMouseEvent(mouse(EventMouseDown, 30, 30))
	if want := []string{"b:mousedown"}; !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	log = log[:0]
	e.s.OnMouseEvent(mouse(EventMouseDown, 10, 10))
	if want := []string{"a:mousedown"}; !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestChildBeforeParent(t *testing.T) {
	e := newTestEnv(t)
	parent := e.box(nil, "parent", 0, 0, 100, 100)
	child := e.box(parent.Children(), "child", 10, 10, 20, 20)
	var log []string
	record(&log, parent, EventMouseClick)
	record(&log, child, EventMouseClick)

	var local [2]float64
	child.Connect(EventMouseClick, func(ctx *EventContext) {
		local[0], local[1] = ctx.Event.(MouseEvent).Position()
	})

	e.s.OnMouseEvent(mouse(EventMouseClick, 15, 17))
	e.s.OnMouseEvent(mouse(EventMouseClick, 50, 50))
	if want := []string{"child:click", "parent:click"}; !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	assertNear(t, "local x", local[0], 5)
	assertNear(t, "local y", local[1], 7)
}

func TestTransparentNodePassesThrough(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	b := e.box(nil, "b", 0, 0, 50, 50)
	b.SetHitTest(HitTestTransparent)
	var log []string
	record(&log, a, EventMouseDown)
	record(&log, b, EventMouseDown)

	e.s.OnMouseEvent(mouse(EventMouseDown, 10, 10))
	if want := []string{"a:mousedown"}; !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestHiddenAndDisabledNodesDoNotFire(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	b := e.box(nil, "b", 0, 0, 50, 50)
	c := e.box(nil, "c", 0, 0, 50, 50)
	b.SetEnabled(false)
	c.SetVisible(false)
	var log []string
	record(&log, a, EventMouseDown)
	record(&log, b, EventMouseDown)
	record(&log, c, EventMouseDown)

	e.s.OnMouseEvent(mouse(EventMouseDown, 10, 10))
	if want := []string{"a:mousedown"}; !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestSurfaceHandlerCancelStopsDelivery(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	var log []string
	record(&log, a, EventMouseDown)
	e.s.Connect(EventMouseDown, func(ctx *EventContext) { ctx.Cancel() })

	if r := e.s.OnMouseEvent(mouse(EventMouseDown, 10, 10)); r != EventCanceled {
		t.Errorf("result = %v, want EventCanceled", r)
	}
	if len(log) != 0 {
		t.Errorf("log = %v, want empty", log)
	}
}

func TestHandledOnlyWithHandlers(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	if r := e.s.OnMouseEvent(mouse(EventMouseClick, 10, 10)); r != EventUnhandled {
		t.Errorf("result without handlers = %v, want EventUnhandled", r)
	}
	a.Connect(EventMouseClick, func(*EventContext) {})
	if r := e.s.OnMouseEvent(mouse(EventMouseClick, 10, 10)); r != EventHandled {
		t.Errorf("result with a handler = %v, want EventHandled", r)
	}
	a.Connect(EventMouseDblClick, func(ctx *EventContext) { ctx.SetReturnValue(EventUnhandled) })
	if r := e.s.OnMouseEvent(mouse(EventMouseDblClick, 10, 10)); r != EventUnhandled {
		t.Errorf("overridden result = %v, want EventUnhandled", r)
	}
}

func TestCurrentEventDuringDispatch(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	var seen *EventContext
	var same bool
	a.Connect(EventMouseClick, func(ctx *EventContext) {
		seen = e.s.CurrentEvent()
		same = seen == ctx
	})
	e.s.OnMouseEvent(mouse(EventMouseClick, 10, 10))
	if !same || seen.Source != a {
		t.Error("CurrentEvent did not return the event being delivered")
	}
	if e.s.CurrentEvent() != nil {
		t.Error("CurrentEvent should be nil outside dispatch")
	}
}

func TestEventsDisabledSkipsHandlers(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	var log []string
	record(&log, a, EventMouseClick)
	e.s.SetEventsEnabled(false)
	e.s.OnMouseEvent(mouse(EventMouseClick, 10, 10))
	if len(log) != 0 {
		t.Errorf("log = %v, want empty", log)
	}
}

func TestWheelDeltaMirroredForFlippedNode(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	a.SetFlip(FlipHorizontal)
	var dx, dy int
	a.Connect(EventMouseWheel, func(ctx *EventContext) {
		ev := ctx.Event.(MouseEvent)
		dx, dy = ev.WheelDeltaX, ev.WheelDeltaY
	})
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseWheel, X: 10, Y: 10, WheelDeltaX: 3, WheelDeltaY: 4})
	if dx != -3 || dy != 4 {
		t.Errorf("deltas = (%d, %d), want (-3, 4)", dx, dy)
	}
}

// --- Mouse over and out ---

func TestMouseOverOutSequence(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	b := e.box(nil, "b", 100, 0, 50, 50)
	var log []string
	record(&log, a, EventMouseOver, EventMouseOut)
	record(&log, b, EventMouseOver, EventMouseOut)

	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 10, Y: 10})
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 20, Y: 10})
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 110, Y: 10})
	if e.s.MouseOverNode() != b {
		t.Errorf("MouseOverNode = %v, want b", e.s.MouseOverNode())
	}
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseOut, X: 110, Y: 10})

	want := []string{"a:mouseover", "a:mouseout", "b:mouseover", "b:mouseout"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if e.s.IsMouseOver() || e.s.MouseOverNode() != nil {
		t.Error("surface still thinks the pointer is over it")
	}
}

func TestDuplicateSurfaceOverOutIgnored(t *testing.T) {
	e := newTestEnv(t)
	over, out := 0, 0
	e.s.Connect(EventMouseOver, func(*EventContext) { over++ })
	e.s.Connect(EventMouseOut, func(*EventContext) { out++ })

	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseOut})
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 5, Y: 5})
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseOver, X: 5, Y: 5})
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseOut})
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseOut})
	if over != 1 || out != 1 {
		t.Errorf("over/out = %d/%d, want 1/1", over, out)
	}
}

func TestMouseOverMovesWithinNesting(t *testing.T) {
	e := newTestEnv(t)
	parent := e.box(nil, "parent", 0, 0, 100, 100)
	child := e.box(parent.Children(), "child", 50, 50, 20, 20)
	var log []string
	record(&log, parent, EventMouseOver, EventMouseOut)
	record(&log, child, EventMouseOver, EventMouseOut)

	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 10, Y: 10})
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 55, Y: 55})
	want := []string{"parent:mouseover", "parent:mouseout", "child:mouseover"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

// --- Grab ---

func TestGrabTakesPrecedence(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	b := e.box(nil, "b", 100, 0, 50, 50)
	var log []string
	record(&log, a, EventMouseMove, EventMouseUp, EventMouseClick)
	record(&log, b, EventMouseMove, EventMouseUp, EventMouseClick)
	e.enter(&log, 10, 10)

	e.s.OnMouseEvent(mouse(EventMouseDown, 10, 10))
	if e.s.GrabNode() != a {
		t.Fatalf("GrabNode = %v, want a", e.s.GrabNode())
	}
	e.s.OnMouseEvent(mouse(EventMouseMove, 110, 10))
	e.s.OnMouseEvent(mouse(EventMouseUp, 110, 10))
	e.s.OnMouseEvent(mouse(EventMouseClick, 110, 10))
	if e.s.GrabNode() != nil {
		t.Error("grab not released by the click")
	}
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 110, Y: 10})

	want := []string{"a:mousemove", "a:mouseup", "a:click", "b:mousemove"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestMainViewTransparentPixelsPassThrough(t *testing.T) {
	g := &fakeGraphics{}
	host := &fakeHost{}
	s := NewSurface(SurfaceConfig{
		Width:       100,
		Height:      100,
		Graphics:    g,
		Host:        host,
		MainView:    true,
		EnableCache: true,
	})
	defer s.Destroy()
	e := &testEnv{s: s, host: host}
	a := e.box(nil, "a", 0, 0, 50, 50)
	frame(s)
	if len(g.created) != 1 {
		t.Fatalf("caches = %d, want 1", len(g.created))
	}
	cache := g.created[0]

	var log []string
	record(&log, a, EventMouseOut, EventMouseDown, EventMouseMove)
	e.enter(&log, 10, 10)

	cache.opacity = 0
	if r := s.OnMouseEvent(mouse(EventMouseDown, 10, 10)); r != EventUnhandled {
		t.Errorf("result = %v, want EventUnhandled", r)
	}
	if want := []string{"a:mouseout"}; !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if s.HitTest() != HitTestTransparent {
		t.Errorf("HitTest = %v, want HitTestTransparent", s.HitTest())
	}
	if s.IsMouseOver() || s.MouseOverNode() != nil {
		t.Error("pointer still over the surface")
	}

	// A grab holder keeps receiving events over transparent pixels.
	cache.opacity = 1
	s.OnMouseEvent(mouse(EventMouseDown, 10, 10))
	if s.GrabNode() != a {
		t.Fatalf("GrabNode = %v, want a", s.GrabNode())
	}
	cache.opacity = 0
	log = log[:0]
	s.OnMouseEvent(mouse(EventMouseMove, 20, 20))
	if want := []string{"a:mousemove"}; !equalStrings(log, want) {
		t.Errorf("grabbed log = %v, want %v", log, want)
	}
}

func TestGrabEndsWithoutLeftButton(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	e.box(nil, "b", 100, 0, 50, 50)
	e.s.OnMouseEvent(mouse(EventMouseDown, 10, 10))
	if e.s.GrabNode() != a {
		t.Fatal("left press did not grab")
	}
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 110, Y: 10})
	if e.s.GrabNode() != nil {
		t.Error("move without the left button should end the grab")
	}

	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseDown, X: 10, Y: 10, Button: ButtonRight})
	if e.s.GrabNode() != nil {
		t.Error("right press should not grab")
	}
}

func TestDisabledGrabHolderStillGetsRelease(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	var log []string
	record(&log, a, EventMouseMove, EventMouseUp)
	e.enter(&log, 10, 10)
	e.s.OnMouseEvent(mouse(EventMouseDown, 10, 10))
	a.SetEnabled(false)
	e.s.OnMouseEvent(mouse(EventMouseUp, 10, 10))
	if want := []string{"a:mouseup"}; !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

// --- Popup ---

func TestPopupGetsEventsFirst(t *testing.T) {
	e := newTestEnv(t)
	b := &sized{}
	p := e.s.NewContainerNode("div", "popup", b)
	p.SetPixelX(20)
	p.SetPixelY(20)
	p.SetPixelWidth(50)
	p.SetPixelHeight(50)
	e.s.Children().Append(p)
	cover := e.box(nil, "cover", 0, 0, 200, 200)
	var log []string
	record(&log, p, EventMouseDown)
	record(&log, cover, EventMouseDown)
	e.s.SetPopup(p)

	e.s.OnMouseEvent(mouse(EventMouseDown, 30, 30))
	if want := []string{"popup:mousedown"}; !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if e.s.PopupNode() != p {
		t.Fatal("click inside the popup dismissed it")
	}

	log = log[:0]
	e.s.OnMouseEvent(mouse(EventMouseDown, 150, 150))
	if want := []string{"cover:mousedown"}; !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if e.s.PopupNode() != nil {
		t.Error("click outside the popup should dismiss it")
	}
	if b.popupOffs != 1 {
		t.Errorf("PopupOff calls = %d, want 1", b.popupOffs)
	}
}

func TestCanceledMouseDownKeepsPopup(t *testing.T) {
	e := newTestEnv(t)
	p := e.box(nil, "popup", 0, 0, 20, 20)
	other := e.box(nil, "other", 100, 100, 20, 20)
	other.Connect(EventMouseDown, func(ctx *EventContext) { ctx.Cancel() })
	e.s.SetPopup(p)
	e.s.OnMouseEvent(mouse(EventMouseDown, 110, 110))
	if e.s.PopupNode() != p {
		t.Error("canceled mouse-down dismissed the popup")
	}
}

func TestHiddenPopupIsDropped(t *testing.T) {
	e := newTestEnv(t)
	p := e.box(nil, "popup", 0, 0, 20, 20)
	e.s.SetPopup(p)
	p.SetVisible(false)
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 50, Y: 50})
	if e.s.PopupNode() != nil {
		t.Error("invisible popup kept")
	}
}

// --- Tooltip and cursor ---

func TestTooltipFollowsPointer(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	a.SetTooltip("hello")
	b := e.box(nil, "b", 100, 0, 50, 50)
	b.SetTooltip("world")

	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 10, Y: 10})
	if e.host.lastTooltip() != "hello" || e.s.TooltipNode() != a {
		t.Errorf("tooltip = %q on %v, want hello on a", e.host.lastTooltip(), e.s.TooltipNode())
	}
	shown := len(e.host.tooltips)
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 12, Y: 10})
	if len(e.host.tooltips) != shown {
		t.Error("tooltip re-shown for the same node")
	}
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 110, Y: 10})
	if e.host.lastTooltip() != "world" {
		t.Errorf("tooltip = %q, want world", e.host.lastTooltip())
	}
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 190, Y: 190})
	if e.s.TooltipNode() != nil {
		t.Error("tooltip node kept over empty space")
	}
	if e.s.HitTest() != HitTestTransparent {
		t.Errorf("HitTest = %v, want HitTestTransparent", e.s.HitTest())
	}
}

func TestRemovedTooltipNodeHidesTooltip(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	a.SetTooltip("bye")
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 10, Y: 10})
	e.s.Children().Remove(a)
	if e.host.lastTooltip() != "" || e.s.TooltipNode() != nil {
		t.Errorf("tooltip = %q after removal, want empty", e.host.lastTooltip())
	}
}

func TestCursorFollowsMouseOverNode(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	a.SetCursor(CursorHand)
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 10, Y: 10})
	if e.host.cursor != CursorHand || e.s.Cursor() != CursorHand {
		t.Errorf("cursor = %v, want CursorHand", e.host.cursor)
	}
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 100, Y: 100})
	if e.host.cursor != CursorDefault {
		t.Errorf("cursor = %v, want CursorDefault", e.host.cursor)
	}
}

func TestFrameHitTestCursor(t *testing.T) {
	e := newTestEnv(t)
	grip := e.box(nil, "grip", 0, 0, 50, 50)
	grip.SetHitTest(HitTestBottomRight)
	grip.SetCursor(CursorSizeNWSE)
	e.s.OnMouseEvent(MouseEvent{Kind: EventMouseMove, X: 10, Y: 10})
	if e.s.HitTest() != HitTestBottomRight {
		t.Errorf("HitTest = %v, want HitTestBottomRight", e.s.HitTest())
	}
	if e.host.cursor != CursorSizeNWSE {
		t.Errorf("cursor = %v, want CursorSizeNWSE", e.host.cursor)
	}
}

// --- Surface lifecycle ---

func TestSurfaceSizing(t *testing.T) {
	e := newTestEnv(t)
	sizes := 0
	e.s.Connect(EventSize, func(*EventContext) { sizes++ })
	e.s.Connect(EventSizing, func(ctx *EventContext) {
		if ctx.Sizing.Width > 300 {
			ctx.Sizing.Width = 300
		}
	})
	ok, w, h := e.s.OnSizing(500, 120)
	if !ok || w != 300 || h != 120 {
		t.Errorf("OnSizing = %v %v %v, want true 300 120", ok, w, h)
	}
	e.s.SetSize(w, h)
	e.s.SetSize(w, h)
	if sizes != 1 {
		t.Errorf("size events = %d, want 1", sizes)
	}
	if e.s.Width() != 300 || e.s.Height() != 120 {
		t.Errorf("size = %vx%v, want 300x120", e.s.Width(), e.s.Height())
	}

	e.s.Connect(EventSizing, func(ctx *EventContext) { ctx.Cancel() })
	if ok, _, _ := e.s.OnSizing(10, 10); ok {
		t.Error("canceled sizing reported ok")
	}
}

func TestDestroyedSurfaceIgnoresInput(t *testing.T) {
	e := newTestEnv(t)
	a := e.box(nil, "a", 0, 0, 50, 50)
	a.Connect(EventMouseDown, func(*EventContext) {})
	e.s.Destroy()
	if !e.s.IsDestroyed() || e.s.NodeCount() != 0 {
		t.Fatal("Destroy left nodes behind")
	}
	if r := e.s.OnMouseEvent(mouse(EventMouseDown, 10, 10)); r != EventUnhandled {
		t.Errorf("mouse result = %v, want EventUnhandled", r)
	}
	if r := e.s.OnKeyEvent(KeyboardEvent{Kind: EventKeyDown, KeyCode: KeyTab}); r != EventUnhandled {
		t.Errorf("key result = %v, want EventUnhandled", r)
	}
	if r := e.s.OnDragEvent(DragEvent{Kind: EventDragMotion}); r != EventUnhandled {
		t.Errorf("drag result = %v, want EventUnhandled", r)
	}
}
