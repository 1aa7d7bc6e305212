package imagecanvas

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/canopy"
)

var (
	red   = canopy.Color{R: 1, A: 1}
	white = canopy.ColorWhite

	opaqueRed   = color.RGBA{R: 0xff, A: 0xff}
	opaqueWhite = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	transparent = color.RGBA{}
)

// checkPixels compares the listed pixels of c against want.
func checkPixels(t *testing.T, c *Canvas, want map[[2]int]color.RGBA) {
	t.Helper()
	for p, w := range want {
		if got := c.Image().RGBAAt(p[0], p[1]); got != w {
			t.Errorf("pixel %v = %v, want %v", p, got, w)
		}
	}
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func TestDrawFilledRect(t *testing.T) {
	c := New(10, 10)
	c.DrawFilledRect(2, 3, 4, 2, red)
	checkPixels(t, c, map[[2]int]color.RGBA{
		{2, 3}: opaqueRed,
		{5, 4}: opaqueRed,
		{6, 3}: transparent,
		{2, 5}: transparent,
		{1, 3}: transparent,
	})
}

func TestTranslateAndClip(t *testing.T) {
	c := New(10, 10)
	c.PushState()
	c.TranslateCoordinates(1, 1)
	c.IntersectRectClipRegion(0, 0, 2, 2)
	c.DrawFilledRect(-5, -5, 20, 20, white)
	checkPixels(t, c, map[[2]int]color.RGBA{
		{1, 1}: opaqueWhite,
		{2, 2}: opaqueWhite,
		{0, 0}: transparent,
		{3, 3}: transparent,
	})

	c.PopState()
	c.DrawFilledRect(5, 5, 1, 1, red)
	checkPixels(t, c, map[[2]int]color.RGBA{{5, 5}: opaqueRed})
}

func TestGeneralClipRegion(t *testing.T) {
	var region canopy.ClipRegion
	region.AddRectangle(canopy.Rect{W: 2, H: 2})
	region.AddRectangle(canopy.Rect{X: 6, Y: 6, W: 2, H: 2})

	c := New(10, 10)
	c.IntersectGeneralClipRegion(&region)
	c.DrawFilledRect(0, 0, 10, 10, white)
	checkPixels(t, c, map[[2]int]color.RGBA{
		{1, 1}: opaqueWhite,
		{7, 7}: opaqueWhite,
		{4, 4}: transparent,
		{1, 7}: transparent,
	})

	t.Run("empty region", func(t *testing.T) {
		c := New(4, 4)
		c.IntersectGeneralClipRegion(&canopy.ClipRegion{})
		c.DrawFilledRect(0, 0, 4, 4, white)
		checkPixels(t, c, map[[2]int]color.RGBA{{1, 1}: transparent})
	})
}

func TestRotatedClip(t *testing.T) {
	c := New(10, 10)
	c.TranslateCoordinates(5, 5)
	c.RotateCoordinates(math.Pi / 4)
	c.IntersectRectClipRegion(-1, -1, 2, 2)
	c.DrawFilledRect(-10, -10, 20, 20, white)
	checkPixels(t, c, map[[2]int]color.RGBA{
		{5, 5}: opaqueWhite,
		{4, 4}: opaqueWhite,
		{6, 4}: transparent,
		{3, 3}: transparent,
	})
}

func TestOpacity(t *testing.T) {
	c := New(4, 4)
	c.PushState()
	c.MultiplyOpacity(0.5)
	c.DrawFilledRect(0, 0, 1, 1, white)
	c.MultiplyOpacity(0)
	c.DrawFilledRect(2, 0, 1, 1, white)
	c.PopState()

	if got := c.Image().RGBAAt(0, 0); got != (color.RGBA{128, 128, 128, 128}) {
		t.Errorf("half opacity pixel = %v, want {128 128 128 128}", got)
	}
	checkPixels(t, c, map[[2]int]color.RGBA{{2, 0}: transparent})
}

func TestDrawCanvas(t *testing.T) {
	src := New(2, 2)
	src.DrawFilledRect(0, 0, 2, 2, red)

	dst := New(6, 6)
	dst.DrawCanvas(3, 3, src)
	checkPixels(t, dst, map[[2]int]color.RGBA{
		{3, 3}: opaqueRed,
		{4, 4}: opaqueRed,
		{5, 5}: transparent,
		{2, 2}: transparent,
	})

	dst.MultiplyOpacity(0.5)
	dst.DrawCanvas(0, 0, src)
	if got := dst.Image().RGBAAt(0, 0); !near(got.R, 128) || !near(got.A, 128) {
		t.Errorf("half opacity pixel = %v, want about {128 0 0 128}", got)
	}
}

func TestDrawCanvasFlipped(t *testing.T) {
	src := New(4, 2)
	src.DrawFilledRect(0, 0, 2, 2, red)

	dst := New(4, 2)
	dst.ScaleCoordinates(-1, 1)
	dst.DrawCanvas(-4, 0, src)
	checkPixels(t, dst, map[[2]int]color.RGBA{
		{0, 0}: transparent,
		{1, 1}: transparent,
		{2, 0}: opaqueRed,
		{3, 1}: opaqueRed,
	})
}

func TestDrawCanvasWithMask(t *testing.T) {
	src := New(4, 4)
	src.DrawFilledRect(0, 0, 4, 4, white)
	mask := New(4, 4)
	mask.DrawFilledRect(0, 0, 2, 4, canopy.ColorBlack)

	tests := []struct {
		name string
		mx   float64
		want map[[2]int]color.RGBA
	}{
		{"aligned", 0, map[[2]int]color.RGBA{
			{1, 1}: opaqueWhite,
			{2, 1}: transparent,
		}},
		{"offset", 1, map[[2]int]color.RGBA{
			{0, 0}: transparent,
			{2, 0}: opaqueWhite,
			{3, 0}: transparent,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := New(4, 4)
			dst.DrawCanvasWithMask(0, 0, src, tt.mx, 0, mask)
			checkPixels(t, dst, tt.want)
		})
	}
}

func TestClear(t *testing.T) {
	c := New(4, 4)
	c.DrawFilledRect(0, 0, 4, 4, white)
	c.ClearRect(1, 1, 2, 2)
	checkPixels(t, c, map[[2]int]color.RGBA{
		{0, 0}: opaqueWhite,
		{1, 1}: transparent,
		{2, 2}: transparent,
		{3, 3}: opaqueWhite,
	})
	c.ClearCanvas()
	checkPixels(t, c, map[[2]int]color.RGBA{{0, 0}: transparent})
}

func TestDrawLine(t *testing.T) {
	c := New(10, 10)
	c.DrawLine(0, 5, 10, 5, 2, white)
	c.DrawLine(2, 0, 2, 3, 2, white)
	checkPixels(t, c, map[[2]int]color.RGBA{
		{0, 4}: opaqueWhite,
		{9, 5}: opaqueWhite,
		{0, 3}: transparent,
		{0, 6}: transparent,
		{1, 1}: opaqueWhite,
		{2, 2}: opaqueWhite,
		{0, 1}: transparent,
		{3, 1}: transparent,
	})
}

func TestPointValue(t *testing.T) {
	c := New(4, 4)
	c.DrawFilledRect(0, 0, 1, 1, canopy.Color{R: 1, A: 0.5})
	col, opacity, ok := c.PointValue(0.5, 0.5)
	if !ok {
		t.Fatal("PointValue inside the canvas reported not ok")
	}
	if math.Abs(opacity-0.5) > 0.01 || math.Abs(col.R-1) > 0.01 {
		t.Errorf("PointValue = %v, %v, want red at 0.5", col, opacity)
	}
	if _, _, ok := c.PointValue(-1, 0); ok {
		t.Error("PointValue outside the canvas reported ok")
	}
	if _, opacity, _ := c.PointValue(2, 2); opacity != 0 {
		t.Errorf("empty pixel opacity = %v, want 0", opacity)
	}
}

func TestZoomedGraphics(t *testing.T) {
	g := NewGraphics(2)
	if g.NewCanvas(0, 5) != nil {
		t.Error("empty canvas should be nil")
	}
	c := g.NewCanvas(10, 5).(*Canvas)
	if b := c.Image().Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("image size = %v, want 20x10", b.Size())
	}
	if c.Width() != 10 || c.Height() != 5 {
		t.Errorf("logical size = %vx%v, want 10x5", c.Width(), c.Height())
	}
	c.DrawFilledRect(1, 1, 1, 1, white)
	checkPixels(t, c, map[[2]int]color.RGBA{
		{2, 2}: opaqueWhite,
		{3, 3}: opaqueWhite,
		{1, 1}: transparent,
		{4, 4}: transparent,
	})
	if _, o, _ := c.PointValue(1.5, 1.5); o != 1 {
		t.Errorf("PointValue(1.5, 1.5) opacity = %v, want 1", o)
	}

	g.SetZoom(1)
	if g.Zoom() != 1 {
		t.Errorf("Zoom = %v, want 1", g.Zoom())
	}
}

func TestWritePNG(t *testing.T) {
	c := New(3, 3)
	c.DrawFilledRect(1, 1, 1, 1, red)

	var buf bytes.Buffer
	if err := c.WritePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b, a := img.At(1, 1).RGBA(); r != 0xffff || g != 0 || b != 0 || a != 0xffff {
		t.Errorf("decoded pixel = %x %x %x %x, want opaque red", r, g, b, a)
	}

	if err := c.SavePNG(filepath.Join(t.TempDir(), "out.png")); err != nil {
		t.Errorf("SavePNG: %v", err)
	}
	err = c.SavePNG(filepath.Join(t.TempDir(), "missing", "out.png"))
	if err == nil || !strings.Contains(err.Error(), "create") {
		t.Errorf("SavePNG into a missing directory = %v, want a create error", err)
	}
}

func TestDestroy(t *testing.T) {
	c := New(4, 4)
	c.Destroy()
	c.DrawFilledRect(0, 0, 4, 4, white)
	c.DrawCanvas(0, 0, New(2, 2))
	if !c.Image().Bounds().Empty() {
		t.Error("destroyed canvas kept its pixels")
	}
	c.PopState()
}

// --- Rendering a surface ---

func newSurface(t *testing.T, cache bool) *canopy.Surface {
	t.Helper()
	s := canopy.NewSurface(canopy.SurfaceConfig{
		Width:       20,
		Height:      20,
		Graphics:    NewGraphics(1),
		EnableCache: cache,
	})
	t.Cleanup(s.Destroy)
	return s
}

func addBox(s *canopy.Surface, parent *canopy.Container, x, y, w, h float64, bg canopy.Color) *canopy.Node {
	n := s.NewContainerNode("div", "", &canopy.Div{Background: bg})
	n.SetPixelX(x)
	n.SetPixelY(y)
	n.SetPixelWidth(w)
	n.SetPixelHeight(h)
	parent.Append(n)
	return n
}

func TestRenderSurface(t *testing.T) {
	s := newSurface(t, false)
	addBox(s, s.Children(), 5, 5, 10, 10, red)
	group := addBox(s, s.Children(), 0, 0, 4, 4, canopy.Color{})
	addBox(s, group.Children(), 0, 0, 2, 2, white)
	group.SetOpacity(0.5)

	c := New(20, 20)
	s.Layout()
	s.Draw(c)
	checkPixels(t, c, map[[2]int]color.RGBA{
		{5, 5}:   opaqueRed,
		{14, 14}: opaqueRed,
		{15, 15}: transparent,
		{4, 4}:   transparent,
		{3, 3}:   transparent,
	})
	if got := c.Image().RGBAAt(1, 1); !near(got.A, 128) || !near(got.G, 128) {
		t.Errorf("group pixel = %v, want half-transparent white", got)
	}
}

func TestRenderFlippedNode(t *testing.T) {
	s := newSurface(t, false)
	n := addBox(s, s.Children(), 0, 0, 10, 4, canopy.Color{})
	addBox(s, n.Children(), 0, 0, 3, 4, red)
	n.SetFlip(canopy.FlipHorizontal)

	c := New(20, 20)
	s.Layout()
	s.Draw(c)
	checkPixels(t, c, map[[2]int]color.RGBA{
		{0, 0}: transparent,
		{6, 0}: transparent,
		{7, 0}: opaqueRed,
		{9, 3}: opaqueRed,
	})
}

func TestRenderThroughSurfaceCache(t *testing.T) {
	s := newSurface(t, true)
	a := addBox(s, s.Children(), 5, 5, 10, 10, red)

	first := New(20, 20)
	s.Layout()
	s.Draw(first)

	// An idle frame is a blit of the cache.
	idle := New(20, 20)
	s.Layout()
	s.Draw(idle)
	checkPixels(t, idle, map[[2]int]color.RGBA{
		{5, 5}: opaqueRed,
		{4, 4}: transparent,
	})

	// Moving the node repaints both areas in the cache.
	a.SetPixelX(0)
	moved := New(20, 20)
	s.Layout()
	s.Draw(moved)
	checkPixels(t, moved, map[[2]int]color.RGBA{
		{0, 5}:  opaqueRed,
		{14, 5}: transparent,
	})
}
