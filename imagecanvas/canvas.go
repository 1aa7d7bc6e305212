// Package imagecanvas implements canopy's Canvas and Graphics in software
// over an *image.RGBA. It needs no GPU or window, which makes it suitable
// for headless rendering, golden-image tests and PNG dumps.
//
// Usage:
//
//	g := imagecanvas.NewGraphics(1)
//	s := canopy.NewSurface(canopy.SurfaceConfig{Width: 320, Height: 240, Graphics: g})
//	c := imagecanvas.New(320, 240)
//	s.Layout()
//	s.Draw(c)
//	err := c.SavePNG("frame.png")
package imagecanvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/phanxgames/canopy"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// state is the part of the canvas saved by PushState.
type state struct {
	m       f64.Aff3 // canvas coordinates to device pixels
	opacity float64
	clip    image.Rectangle
	mask    *image.Alpha // nil when the clip is exactly the rectangle
}

// Canvas is a software canopy.Canvas. Drawing uses nearest-neighbor
// sampling at pixel centers, so axis-aligned integer geometry lands on
// exact pixels.
type Canvas struct {
	img   *image.RGBA
	w, h  float64
	zoom  float64
	st    state
	stack []state
}

var _ canopy.Canvas = (*Canvas)(nil)

// New creates a transparent w by h canvas at zoom 1.
func New(w, h float64) *Canvas { return NewZoomed(w, h, 1) }

// NewZoomed creates a transparent canvas of w by h logical pixels backed by
// an image zoom times larger in each direction.
func NewZoomed(w, h, zoom float64) *Canvas {
	if zoom <= 0 {
		zoom = 1
	}
	pw := max(int(math.Ceil(w*zoom)), 0)
	ph := max(int(math.Ceil(h*zoom)), 0)
	c := &Canvas{
		img:  image.NewRGBA(image.Rect(0, 0, pw, ph)),
		w:    w,
		h:    h,
		zoom: zoom,
	}
	c.st = state{m: scale(zoom, zoom), opacity: 1, clip: c.img.Bounds()}
	return c
}

// Image returns the backing image. Its pixels are premultiplied.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Zoom returns the device pixels per logical pixel.
func (c *Canvas) Zoom() float64 { return c.zoom }

func (c *Canvas) Width() float64  { return c.w }
func (c *Canvas) Height() float64 { return c.h }

// Destroy releases the pixels. Later drawing is ignored.
func (c *Canvas) Destroy() {
	c.img = &image.RGBA{}
	c.st.clip = image.Rectangle{}
	c.st.mask = nil
	c.stack = nil
}

// --- State ---

func (c *Canvas) PushState() {
	c.stack = append(c.stack, c.st)
}

func (c *Canvas) PopState() {
	if len(c.stack) == 0 {
		canopy.Logger().Debug("imagecanvas: PopState without PushState")
		return
	}
	c.st = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) MultiplyOpacity(opacity float64) {
	c.st.opacity *= min(max(opacity, 0), 1)
}

func (c *Canvas) RotateCoordinates(radians float64) {
	sin, cos := math.Sincos(radians)
	c.st.m = mul(c.st.m, f64.Aff3{cos, -sin, 0, sin, cos, 0})
}

func (c *Canvas) TranslateCoordinates(dx, dy float64) {
	c.st.m = mul(c.st.m, translate(dx, dy))
}

func (c *Canvas) ScaleCoordinates(cx, cy float64) {
	c.st.m = mul(c.st.m, scale(cx, cy))
}

// --- Clipping ---

func (c *Canvas) IntersectRectClipRegion(x, y, w, h float64) {
	c.intersectClip([]canopy.Rect{{X: x, Y: y, W: w, H: h}})
}

// IntersectGeneralClipRegion limits drawing to the union of the region's
// rectangles, given in current coordinates. An empty region clips
// everything.
func (c *Canvas) IntersectGeneralClipRegion(region *canopy.ClipRegion) {
	var rects []canopy.Rect
	if region != nil {
		region.EnumerateRectangles(func(r canopy.Rect) bool {
			rects = append(rects, r)
			return true
		})
	}
	c.intersectClip(rects)
}

func (c *Canvas) intersectClip(rects []canopy.Rect) {
	if len(rects) == 1 && axisAligned(c.st.m) {
		c.st.clip = c.st.clip.Intersect(c.deviceBounds(rects[0]))
		return
	}
	var bounds image.Rectangle
	for _, r := range rects {
		bounds = bounds.Union(c.deviceBounds(r))
	}
	bounds = bounds.Intersect(c.st.clip)
	inv, ok := invert(c.st.m)
	if bounds.Empty() || !ok {
		c.st.clip = image.Rectangle{}
		c.st.mask = nil
		return
	}

	mask := image.NewAlpha(bounds)
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			if c.st.mask != nil && c.st.mask.AlphaAt(px, py).A == 0 {
				continue
			}
			sx, sy := apply(inv, float64(px)+0.5, float64(py)+0.5)
			for _, r := range rects {
				if sx >= r.X && sx < r.X+r.W && sy >= r.Y && sy < r.Y+r.H {
					mask.SetAlpha(px, py, color.Alpha{A: 0xff})
					break
				}
			}
		}
	}
	c.st.clip = bounds
	c.st.mask = mask
}

// deviceBounds returns the pixels whose centers can fall inside r.
func (c *Canvas) deviceBounds(r canopy.Rect) image.Rectangle {
	x0, y0 := apply(c.st.m, r.X, r.Y)
	x1, y1 := apply(c.st.m, r.X+r.W, r.Y)
	x2, y2 := apply(c.st.m, r.X+r.W, r.Y+r.H)
	x3, y3 := apply(c.st.m, r.X, r.Y+r.H)
	minX, maxX := min(x0, x1, x2, x3), max(x0, x1, x2, x3)
	minY, maxY := min(y0, y1, y2, y3), max(y0, y1, y2, y3)
	return image.Rect(
		int(math.Ceil(minX-0.5)), int(math.Ceil(minY-0.5)),
		int(math.Ceil(maxX-0.5)), int(math.Ceil(maxY-0.5)),
	)
}

// --- Drawing ---

// ClearCanvas makes every pixel transparent, ignoring the clip.
func (c *Canvas) ClearCanvas() {
	clear(c.img.Pix)
}

func (c *Canvas) ClearRect(x, y, w, h float64) {
	c.fill(x, y, w, h, color.RGBA{}, xdraw.Src)
}

func (c *Canvas) DrawFilledRect(x, y, w, h float64, col canopy.Color) {
	col.A *= c.st.opacity
	c.fill(x, y, w, h, col.RGBA(), xdraw.Over)
}

// DrawLine draws a line as a width-wide band centered on the segment.
func (c *Canvas) DrawLine(x0, y0, x1, y1, width float64, col canopy.Color) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 || width <= 0 {
		return
	}
	sin, cos := dy/length, dx/length
	saved := c.st.m
	c.st.m = mul(mul(c.st.m, translate(x0, y0)), f64.Aff3{cos, -sin, 0, sin, cos, 0})
	col.A *= c.st.opacity
	c.fill(0, -width/2, length, width, col.RGBA(), xdraw.Over)
	c.st.m = saved
}

// fill paints the rectangle, in current coordinates, with a solid color.
func (c *Canvas) fill(x, y, w, h float64, col color.RGBA, op xdraw.Op) {
	if w <= 0 || h <= 0 {
		return
	}
	dst, ok := c.target()
	if !ok {
		return
	}
	s2d := mul(c.st.m, mul(translate(x, y), scale(w, h)))
	src := image.NewUniform(col)
	xdraw.NearestNeighbor.Transform(dst, s2d, src, image.Rect(0, 0, 1, 1), op, c.options(nil, image.Point{}))
}

func (c *Canvas) DrawCanvas(x, y float64, src canopy.Canvas) {
	c.drawCanvas(x, y, src, 0, 0, nil)
}

// DrawCanvasWithMask draws src at (x, y) through the alpha of mask drawn at
// (mx, my).
func (c *Canvas) DrawCanvasWithMask(x, y float64, src canopy.Canvas, mx, my float64, mask canopy.Canvas) {
	m, ok := mask.(*Canvas)
	if !ok {
		canopy.Logger().Warn("imagecanvas: mask is not a software canvas", "type", fmt.Sprintf("%T", mask))
		return
	}
	c.drawCanvas(x, y, src, mx, my, m)
}

func (c *Canvas) drawCanvas(x, y float64, src canopy.Canvas, mx, my float64, mask *Canvas) {
	s, ok := src.(*Canvas)
	if !ok {
		canopy.Logger().Warn("imagecanvas: source is not a software canvas", "type", fmt.Sprintf("%T", src))
		return
	}
	dst, ok := c.target()
	if !ok || s.img.Bounds().Empty() {
		return
	}
	s2d := mul(c.st.m, mul(translate(x, y), scale(1/s.zoom, 1/s.zoom)))

	var srcMask image.Image
	var srcMaskP image.Point
	if mask != nil {
		// Source pixel p lines up with mask pixel p+off.
		off := image.Pt(int(math.Round((x-mx)*s.zoom)), int(math.Round((y-my)*s.zoom)))
		if c.st.opacity < 1 {
			srcMask = scaledAlpha(mask.img, s.img.Bounds(), off, c.st.opacity)
		} else {
			srcMask, srcMaskP = mask.img, off
		}
	} else if c.st.opacity < 1 {
		srcMask = image.NewUniform(color.Alpha{A: uint8(c.st.opacity*255 + 0.5)})
	}
	xdraw.NearestNeighbor.Transform(dst, s2d, s.img, s.img.Bounds(), xdraw.Over, c.options(srcMask, srcMaskP))
}

// scaledAlpha returns an alpha image over bounds holding the mask's alpha at
// an offset, scaled by opacity.
func scaledAlpha(mask *image.RGBA, bounds image.Rectangle, off image.Point, opacity float64) *image.Alpha {
	out := image.NewAlpha(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p := image.Pt(x+off.X, y+off.Y)
			if !p.In(mask.Bounds()) {
				continue
			}
			a := float64(mask.RGBAAt(p.X, p.Y).A) * opacity
			out.SetAlpha(x, y, color.Alpha{A: uint8(a + 0.5)})
		}
	}
	return out
}

// target returns the clipped destination, or false if nothing is visible.
func (c *Canvas) target() (*image.RGBA, bool) {
	if c.st.clip.Empty() || c.st.opacity == 0 {
		return nil, false
	}
	dst, ok := c.img.SubImage(c.st.clip).(*image.RGBA)
	return dst, ok
}

func (c *Canvas) options(srcMask image.Image, srcMaskP image.Point) *xdraw.Options {
	if c.st.mask == nil && srcMask == nil {
		return nil
	}
	opts := &xdraw.Options{SrcMask: srcMask, SrcMaskP: srcMaskP}
	if c.st.mask != nil {
		opts.DstMask = c.st.mask
	}
	return opts
}

// PointValue reads the pixel under (x, y), in logical untransformed
// coordinates.
func (c *Canvas) PointValue(x, y float64) (canopy.Color, float64, bool) {
	p := image.Pt(int(math.Floor(x*c.zoom)), int(math.Floor(y*c.zoom)))
	if !p.In(c.img.Bounds()) {
		return canopy.Color{}, 0, false
	}
	col := canopy.ColorFromRGBA(c.img.RGBAAt(p.X, p.Y))
	return col, col.A, true
}

// --- Output ---

// WritePNG encodes the canvas as a PNG.
func (c *Canvas) WritePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("imagecanvas: encode png: %w", err)
	}
	return nil
}

// SavePNG writes the canvas to a PNG file at path.
func (c *Canvas) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imagecanvas: create %s: %w", path, err)
	}
	if err := c.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// --- Graphics ---

// Graphics creates software canvases at a shared zoom.
type Graphics struct {
	zoom float64
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
	return NewZoomed(w, h, g.zoom)
}

func (g *Graphics) Zoom() float64 { return g.zoom }

// SetZoom changes the zoom of canvases created from now on. Call
// Surface.MarkRedraw afterwards so existing caches are rebuilt.
func (g *Graphics) SetZoom(zoom float64) {
	if zoom > 0 {
		g.zoom = zoom
	}
}
