// Package canopy is a retained-mode scene graph with input dispatch for
// widget-style 2D interfaces.
//
// Canopy owns the tree, the layout of relative positions and sizes, the
// damage tracking that decides what to repaint, and the routing of pointer,
// keyboard and drag events. It never touches pixels: drawing goes through
// the [Canvas] interface, timers through [MainLoop], and window side effects
// through [Host]. The [github.com/phanxgames/canopy/ebitenhost] package runs
// a surface in an [Ebitengine] window; [github.com/phanxgames/canopy/imagecanvas]
// renders into an image.RGBA for tests and screenshots.
//
// # Quick start
//
//	s := canopy.NewSurface(canopy.SurfaceConfig{Width: 320, Height: 240})
//	panel := s.Children().AppendNew("div", "panel")
//	panel.SetWidth("50%")
//	panel.SetHeight("100")
//	panel.Behavior().(*canopy.Div).Background = canopy.Color{R: 0.2, G: 0.3, B: 0.5, A: 1}
//	panel.Connect(canopy.EventMouseClick, func(ctx *canopy.EventContext) {
//		fmt.Println("clicked")
//	})
//
//	// each frame
//	s.Layout()
//	s.Draw(canvas)
//
// # Nodes and behaviors
//
// Every element is a [Node]. A node's geometry (position, size, pin point,
// rotation, flip) lives on the node; what it draws and how it reacts to
// input lives in its [Behavior]. Embed [BaseBehavior] and override the hooks
// a kind needs. Nodes created with [Surface.NewContainerNode] or registered
// with children hold a [Container] of child nodes; later children draw on
// top and see pointer events first.
//
// # Handles
//
// Event handlers may delete any node, including the one being dispatched
// to. Code that holds a node across a callback should keep its [Handle] and
// resolve it with [Surface.Lookup], which returns nil once the node is gone.
//
// # Events
//
// Handlers connect per event type with [Node.Connect] or [Surface.Connect].
// A handler may call [EventContext.Cancel] to stop the default handling.
// The surface keeps the interaction state: keyboard focus and Tab
// traversal, the pointer grab started by a left-button press, the popup, the
// node under the pointer, and the current drop target.
//
// [Ebitengine]: https://ebitengine.org
package canopy
