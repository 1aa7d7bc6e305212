package canopy

import (
	"fmt"
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// --- Recording canvas ---

// fakeCanvas records the operations performed on it.
type fakeCanvas struct {
	w, h      float64
	ops       []string
	depth     int
	destroyed bool
	// opacity reported by PointValue inside the canvas bounds.
	opacity float64
}

func newFakeCanvas(w, h float64) *fakeCanvas {
	return &fakeCanvas{w: w, h: h, opacity: 1}
}

func (c *fakeCanvas) record(format string, args ...any) {
	c.ops = append(c.ops, fmt.Sprintf(format, args...))
}

func (c *fakeCanvas) Width() float64  { return c.w }
func (c *fakeCanvas) Height() float64 { return c.h }
func (c *fakeCanvas) Destroy()        { c.destroyed = true }

func (c *fakeCanvas) PushState() {
	c.depth++
	c.record("push")
}

func (c *fakeCanvas) PopState() {
	c.depth--
	c.record("pop")
}

func (c *fakeCanvas) MultiplyOpacity(o float64)         { c.record("opacity %g", o) }
func (c *fakeCanvas) RotateCoordinates(r float64)       { c.record("rotate %g", r) }
func (c *fakeCanvas) TranslateCoordinates(x, y float64) { c.record("translate %g %g", x, y) }
func (c *fakeCanvas) ScaleCoordinates(x, y float64)     { c.record("scale %g %g", x, y) }
func (c *fakeCanvas) ClearCanvas()                      { c.record("clear") }
func (c *fakeCanvas) ClearRect(x, y, w, h float64)      { c.record("clearRect %g %g %g %g", x, y, w, h) }

func (c *fakeCanvas) DrawLine(x0, y0, x1, y1, width float64, col Color) {
	c.record("line")
}

func (c *fakeCanvas) DrawFilledRect(x, y, w, h float64, col Color) {
	c.record("rect %g %g %g %g", x, y, w, h)
}

func (c *fakeCanvas) DrawCanvas(x, y float64, src Canvas) {
	c.record("canvas %g %g", x, y)
}

func (c *fakeCanvas) DrawCanvasWithMask(x, y float64, src Canvas, mx, my float64, mask Canvas) {
	c.record("canvasMask %g %g", x, y)
}

func (c *fakeCanvas) IntersectRectClipRegion(x, y, w, h float64) {
	c.record("clipRect %g %g %g %g", x, y, w, h)
}

func (c *fakeCanvas) IntersectGeneralClipRegion(r *ClipRegion) {
	c.record("clipRegion %d", r.Count())
}

func (c *fakeCanvas) PointValue(x, y float64) (Color, float64, bool) {
	if !IsPointInBox(x, y, c.w, c.h) {
		return Color{}, 0, false
	}
	return Color{}, c.opacity, true
}

func (c *fakeCanvas) count(op string) int {
	n := 0
	for _, o := range c.ops {
		if o == op {
			n++
		}
	}
	return n
}

type fakeGraphics struct {
	created []*fakeCanvas
}

func (g *fakeGraphics) NewCanvas(w, h float64) Canvas {
	c := newFakeCanvas(w, h)
	g.created = append(g.created, c)
	return c
}

func (g *fakeGraphics) Zoom() float64 { return 1 }

// --- Recording host ---

type fakeHost struct {
	queued   int
	cursor   CursorType
	tooltips []string
}

func (h *fakeHost) QueueDraw()             { h.queued++ }
func (h *fakeHost) SetCursor(c CursorType) { h.cursor = c }
func (h *fakeHost) ShowTooltip(t string)   { h.tooltips = append(h.tooltips, t) }
func (h *fakeHost) ShowTooltipAt(t string, x, y float64) {
	h.tooltips = append(h.tooltips, t)
}

func (h *fakeHost) lastTooltip() string {
	if len(h.tooltips) == 0 {
		return ""
	}
	return h.tooltips[len(h.tooltips)-1]
}

// --- Fixtures ---

type testEnv struct {
	s    *Surface
	host *fakeHost
	loop *ManualLoop
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	host := &fakeHost{}
	loop := NewManualLoop(1000)
	s := NewSurface(SurfaceConfig{
		Width:    200,
		Height:   200,
		Host:     host,
		MainLoop: loop,
	})
	t.Cleanup(s.Destroy)
	return &testEnv{s: s, host: host, loop: loop}
}

// box creates a container node with a pixel geometry and appends it.
func (e *testEnv) box(parent *Container, name string, x, y, w, h float64) *Node {
	n := e.s.NewContainerNode("div", name, &Div{})
	n.SetPixelX(x)
	n.SetPixelY(y)
	n.SetPixelWidth(w)
	n.SetPixelHeight(h)
	if parent == nil {
		parent = e.s.Children()
	}
	parent.Append(n)
	return n
}

// record connects a handler to each listed type that appends "name:type".
func record(log *[]string, n *Node, types ...EventType) {
	for _, t := range types {
		n.Connect(t, func(ctx *EventContext) {
			*log = append(*log, fmt.Sprintf("%s:%s", n.Name(), ctx.Event.Type()))
		})
	}
}

func mouse(t EventType, x, y float64) MouseEvent {
	return MouseEvent{Kind: t, X: x, Y: y, Button: ButtonLeft}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
