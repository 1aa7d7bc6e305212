package ebitenhost

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/canopy"
)

// whitePixel is a 1x1 white image scaled up for solid fills.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(color.White)
}

// state is the part of the canvas saved by PushState.
type state struct {
	geo     ebiten.GeoM // canvas coordinates to device pixels
	opacity float64
	// clips are device rectangles drawing is limited to. Rotated clips
	// are approximated by their bounding boxes.
	clips []image.Rectangle
}

// Canvas is a canopy.Canvas drawing onto an *ebiten.Image. Clips become
// sub-images, which share their parent's coordinates.
type Canvas struct {
	img   *ebiten.Image
	w, h  float64
	zoom  float64
	st    state
	stack []state

	pool  *texturePool  // nil for wrapped images
	owner *ebiten.Image // pooled image img is cut from
}

var _ canopy.Canvas = (*Canvas)(nil)

// Wrap returns a canvas drawing onto img, which stays owned by the caller.
// Use it for the screen passed to ebiten.Game.Draw.
func Wrap(img *ebiten.Image, zoom float64) *Canvas {
	if zoom <= 0 {
		zoom = 1
	}
	b := img.Bounds()
	return newCanvas(img, float64(b.Dx())/zoom, float64(b.Dy())/zoom, zoom)
}

func newCanvas(img *ebiten.Image, w, h, zoom float64) *Canvas {
	c := &Canvas{img: img, w: w, h: h, zoom: zoom}
	c.st.geo.Scale(zoom, zoom)
	c.st.opacity = 1
	c.st.clips = []image.Rectangle{img.Bounds()}
	return c
}

// Image returns the image the canvas draws onto.
func (c *Canvas) Image() *ebiten.Image { return c.img }

func (c *Canvas) Width() float64  { return c.w }
func (c *Canvas) Height() float64 { return c.h }

// Destroy returns a pooled image to its pool. Later drawing is ignored.
func (c *Canvas) Destroy() {
	if c.img == nil {
		return
	}
	if c.pool != nil {
		c.pool.Release(c.owner)
	}
	c.img, c.owner = nil, nil
	c.st.clips = nil
	c.stack = nil
}

// --- State ---

func (c *Canvas) PushState() {
	c.stack = append(c.stack, c.st)
}

func (c *Canvas) PopState() {
	if len(c.stack) == 0 {
		canopy.Logger().Debug("ebitenhost: PopState without PushState")
		return
	}
	c.st = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) MultiplyOpacity(opacity float64) {
	c.st.opacity *= min(max(opacity, 0), 1)
}

// prepend makes t apply before the current transform.
func (c *Canvas) prepend(t ebiten.GeoM) {
	t.Concat(c.st.geo)
	c.st.geo = t
}

func (c *Canvas) RotateCoordinates(radians float64) {
	var t ebiten.GeoM
	t.Rotate(radians)
	c.prepend(t)
}

func (c *Canvas) TranslateCoordinates(dx, dy float64) {
	var t ebiten.GeoM
	t.Translate(dx, dy)
	c.prepend(t)
}

func (c *Canvas) ScaleCoordinates(cx, cy float64) {
	var t ebiten.GeoM
	t.Scale(cx, cy)
	c.prepend(t)
}

// --- Clipping ---

func (c *Canvas) IntersectRectClipRegion(x, y, w, h float64) {
	c.intersectClips([]image.Rectangle{c.deviceBounds(canopy.Rect{X: x, Y: y, W: w, H: h})})
}

// IntersectGeneralClipRegion limits drawing to the region's rectangles,
// given in current coordinates. An empty region clips everything.
func (c *Canvas) IntersectGeneralClipRegion(region *canopy.ClipRegion) {
	var rects []image.Rectangle
	if region != nil {
		region.EnumerateRectangles(func(r canopy.Rect) bool {
			rects = append(rects, c.deviceBounds(r))
			return true
		})
	}
	c.intersectClips(rects)
}

func (c *Canvas) intersectClips(rects []image.Rectangle) {
	var out []image.Rectangle
	for _, a := range c.st.clips {
		for _, b := range rects {
			if r := a.Intersect(b); !r.Empty() {
				out = append(out, r)
			}
		}
	}
	// The slice is shared with saved states; never append in place.
	c.st.clips = out
}

// deviceBounds returns the pixels whose centers can fall inside r.
func (c *Canvas) deviceBounds(r canopy.Rect) image.Rectangle {
	x0, y0 := c.st.geo.Apply(r.X, r.Y)
	x1, y1 := c.st.geo.Apply(r.X+r.W, r.Y)
	x2, y2 := c.st.geo.Apply(r.X+r.W, r.Y+r.H)
	x3, y3 := c.st.geo.Apply(r.X, r.Y+r.H)
	minX, maxX := min(x0, x1, x2, x3), max(x0, x1, x2, x3)
	minY, maxY := min(y0, y1, y2, y3), max(y0, y1, y2, y3)
	return image.Rect(
		int(math.Ceil(minX-0.5)), int(math.Ceil(minY-0.5)),
		int(math.Ceil(maxX-0.5)), int(math.Ceil(maxY-0.5)),
	)
}

// Clips returns the device rectangles drawing is currently limited to.
func (c *Canvas) Clips() []image.Rectangle { return c.st.clips }

// --- Drawing ---

// ClearCanvas makes every pixel transparent, ignoring the clip.
func (c *Canvas) ClearCanvas() {
	if c.img != nil {
		c.img.Clear()
	}
}

func (c *Canvas) ClearRect(x, y, w, h float64) {
	op := c.fillOptions(x, y, w, h)
	op.Blend = ebiten.BlendClear
	c.draw(whitePixel, op)
}

func (c *Canvas) DrawFilledRect(x, y, w, h float64, col canopy.Color) {
	op := c.fillOptions(x, y, w, h)
	op.ColorScale.ScaleWithColor(col.RGBA())
	op.ColorScale.ScaleAlpha(float32(c.st.opacity))
	c.draw(whitePixel, op)
}

// DrawLine draws a line as a width-wide band centered on the segment.
func (c *Canvas) DrawLine(x0, y0, x1, y1, width float64, col canopy.Color) {
	length := math.Hypot(x1-x0, y1-y0)
	if length == 0 || width <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, width)
	op.GeoM.Translate(0, -width/2)
	op.GeoM.Rotate(math.Atan2(y1-y0, x1-x0))
	op.GeoM.Translate(x0, y0)
	op.GeoM.Concat(c.st.geo)
	op.ColorScale.ScaleWithColor(col.RGBA())
	op.ColorScale.ScaleAlpha(float32(c.st.opacity))
	c.draw(whitePixel, op)
}

func (c *Canvas) fillOptions(x, y, w, h float64) *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(c.st.geo)
	return op
}

func (c *Canvas) DrawCanvas(x, y float64, src canopy.Canvas) {
	s, ok := src.(*Canvas)
	if !ok || s.img == nil {
		canopy.Logger().Warn("ebitenhost: source is not an ebiten canvas", "type", fmt.Sprintf("%T", src))
		return
	}
	c.drawImage(x, y, s.img, s.zoom)
}

// DrawCanvasWithMask draws src at (x, y) through the alpha of mask drawn at
// (mx, my). Both canvases must share a zoom.
func (c *Canvas) DrawCanvasWithMask(x, y float64, src canopy.Canvas, mx, my float64, mask canopy.Canvas) {
	s, ok1 := src.(*Canvas)
	m, ok2 := mask.(*Canvas)
	if !ok1 || !ok2 || s.img == nil || m.img == nil {
		canopy.Logger().Warn("ebitenhost: canvas or mask is not an ebiten canvas",
			"src", fmt.Sprintf("%T", src), "mask", fmt.Sprintf("%T", mask))
		return
	}
	b := s.img.Bounds()
	tmp, release := c.scratch(b.Dx(), b.Dy())
	defer release()

	tmp.DrawImage(s.img, nil)
	op := &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationIn}
	op.GeoM.Translate((mx-x)*s.zoom, (my-y)*s.zoom)
	tmp.DrawImage(m.img, op)
	c.drawImage(x, y, tmp, s.zoom)
}

func (c *Canvas) drawImage(x, y float64, img *ebiten.Image, zoom float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(1/zoom, 1/zoom)
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(c.st.geo)
	op.ColorScale.ScaleAlpha(float32(c.st.opacity))
	c.draw(img, op)
}

// scratch returns a cleared w by h image and a func releasing it.
func (c *Canvas) scratch(w, h int) (*ebiten.Image, func()) {
	if c.pool != nil {
		owner := c.pool.Acquire(w, h)
		return owner.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image), func() { c.pool.Release(owner) }
	}
	img := ebiten.NewImage(w, h)
	return img, img.Deallocate
}

// draw draws src once per clip rectangle.
func (c *Canvas) draw(src *ebiten.Image, op *ebiten.DrawImageOptions) {
	if c.img == nil || c.st.opacity == 0 {
		return
	}
	for _, r := range c.st.clips {
		c.img.SubImage(r).(*ebiten.Image).DrawImage(src, op)
	}
}

// PointValue reads the pixel under (x, y), in logical untransformed
// coordinates. It only works while the game is running.
func (c *Canvas) PointValue(x, y float64) (canopy.Color, float64, bool) {
	if c.img == nil {
		return canopy.Color{}, 0, false
	}
	p := image.Pt(int(math.Floor(x*c.zoom)), int(math.Floor(y*c.zoom)))
	if !p.In(c.img.Bounds()) {
		return canopy.Color{}, 0, false
	}
	col := canopy.ColorFromRGBA(color.RGBAModel.Convert(c.img.At(p.X, p.Y)).(color.RGBA))
	return col, col.A, true
}

// --- Graphics ---

// Graphics creates pooled offscreen canvases at a shared zoom.
type Graphics struct {
	zoom float64
	pool texturePool
}

var _ canopy.Graphics = (*Graphics)(nil)

// NewGraphics returns a canvas factory. A zoom of 0 or less means 1.
func NewGraphics(zoom float64) *Graphics {
	if zoom <= 0 {
		zoom = 1
	}
	return &Graphics{zoom: zoom}
}

// NewCanvas returns a transparent canvas, or nil for an empty size.
func (g *Graphics) NewCanvas(w, h float64) canopy.Canvas {
	if w <= 0 || h <= 0 {
		return nil
	}
	pw := int(math.Ceil(w * g.zoom))
	ph := int(math.Ceil(h * g.zoom))
	owner := g.pool.Acquire(pw, ph)
	c := newCanvas(owner.SubImage(image.Rect(0, 0, pw, ph)).(*ebiten.Image), w, h, g.zoom)
	c.pool, c.owner = &g.pool, owner
	return c
}

func (g *Graphics) Zoom() float64 { return g.zoom }

// SetZoom changes the zoom of canvases created from now on. Call
// Surface.MarkRedraw afterwards so existing caches are rebuilt.
func (g *Graphics) SetZoom(zoom float64) {
	if zoom > 0 {
		g.zoom = zoom
	}
}
