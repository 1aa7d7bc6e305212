package canopy

// Canvas is the drawing surface the engine paints through. Coordinates are
// in the canvas's current transform; state is saved and restored with
// PushState and PopState. The engine never touches pixels itself.
type Canvas interface {
	Width() float64
	Height() float64
	Destroy()

	PushState()
	PopState()
	MultiplyOpacity(opacity float64)
	RotateCoordinates(radians float64)
	TranslateCoordinates(dx, dy float64)
	ScaleCoordinates(cx, cy float64)

	ClearCanvas()
	ClearRect(x, y, w, h float64)
	DrawLine(x0, y0, x1, y1, width float64, c Color)
	DrawFilledRect(x, y, w, h float64, c Color)
	DrawCanvas(x, y float64, src Canvas)
	DrawCanvasWithMask(x, y float64, src Canvas, mx, my float64, mask Canvas)

	IntersectRectClipRegion(x, y, w, h float64)
	IntersectGeneralClipRegion(region *ClipRegion)

	// PointValue reads the pixel at (x, y) in untransformed canvas space.
	// ok is false outside the canvas.
	PointValue(x, y float64) (c Color, opacity float64, ok bool)
}

// Graphics creates canvases for node caches and the surface cache.
type Graphics interface {
	NewCanvas(w, h float64) Canvas
	Zoom() float64
}

// Host receives the surface's side effects. All methods are optional in
// the sense that a nil Host is replaced by one that ignores them.
type Host interface {
	QueueDraw()
	SetCursor(c CursorType)
	ShowTooltip(text string)
	ShowTooltipAt(text string, x, y float64)
}

type nopHost struct{}

func (nopHost) QueueDraw()                             {}
func (nopHost) SetCursor(CursorType)                   {}
func (nopHost) ShowTooltip(string)                     {}
func (nopHost) ShowTooltipAt(string, float64, float64) {}

// drawBox outlines a w by h box with its diagonals.
func drawBox(c Canvas, w, h float64, color Color, diagonals bool) {
	c.DrawLine(0, 0, w, 0, 1, color)
	c.DrawLine(w, 0, w, h, 1, color)
	c.DrawLine(w, h, 0, h, 1, color)
	c.DrawLine(0, h, 0, 0, 1, color)
	if diagonals {
		c.DrawLine(0, 0, w, h, 1, color)
		c.DrawLine(w, 0, 0, h, 1, color)
	}
}
