// Package ebitenhost runs a canopy surface in an [Ebitengine] window.
//
// The simplest way to get started is [Run]:
//
//	g := ebitenhost.NewGame(ebitenhost.RunConfig{
//		Title: "Demo", Width: 640, Height: 480,
//	})
//	root := g.Surface().Children()
//	// ... append nodes ...
//	if err := ebitenhost.Run(g); err != nil {
//		log.Fatal(err)
//	}
//
// A Game implements [ebiten.Game]: Update pumps mouse, keyboard and focus
// into the surface and advances its main loop by one tick; Draw paints the
// surface through the surface cache, followed by the tooltip and the
// optional FPS readout.
//
// [Ebitengine]: https://ebitengine.org
package ebitenhost

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/canopy"
)

// RunConfig configures a Game and its window.
type RunConfig struct {
	// Title is the window title.
	Title string
	// Width and Height are the initial window and surface size. Zero means
	// 640 by 480.
	Width, Height int
	// Background fills the screen behind the surface.
	Background canopy.Color
	// ShowFPS draws the actual FPS and TPS in the top-left corner.
	ShowFPS bool
	// Debug is passed on to the surface.
	Debug canopy.DebugMode
	// ScreenshotDir receives snapshot PNGs. Zero means "screenshots".
	ScreenshotDir string
}

func (c RunConfig) withDefaults() RunConfig {
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
	return c
}

// Game drives a canopy surface from ebiten's game loop.
type Game struct {
	cfg      RunConfig
	surface  *canopy.Surface
	loop     *canopy.ManualLoop
	host     *Host
	graphics *Graphics

	clock   float64 // main loop milliseconds, fractional
	wheel   wheelAccumulator
	inside  bool
	moved   bool
	focused bool
	keys    []ebiten.Key
	chars   []rune

	script      *canopy.InputScript
	exitOnDone  bool
	screenshots []string
}

var _ ebiten.Game = (*Game)(nil)

// NewGame creates a surface wired to an ebiten host, canvas factory and
// main loop.
func NewGame(cfg RunConfig) *Game {
	cfg = cfg.withDefaults()
	g := &Game{
		cfg:      cfg,
		loop:     canopy.NewManualLoop(0),
		host:     NewHost(),
		graphics: NewGraphics(1),
	}
	g.surface = canopy.NewSurface(canopy.SurfaceConfig{
		Width:       float64(cfg.Width),
		Height:      float64(cfg.Height),
		Graphics:    g.graphics,
		MainLoop:    g.loop,
		Host:        g.host,
		EnableCache: true,
		Debug:       cfg.Debug,
	})
	return g
}

// Surface returns the surface the game drives.
func (g *Game) Surface() *canopy.Surface { return g.surface }

// Loop returns the main loop advanced once per tick.
func (g *Game) Loop() *canopy.ManualLoop { return g.loop }

// Host returns the host receiving the surface's side effects.
func (g *Game) Host() *Host { return g.host }

// SetInputScript replays script one step per tick instead of the user's
// pointer. Snapshot steps write screenshots. With exitWhenDone the game
// ends once the script finishes.
func (g *Game) SetInputScript(script *canopy.InputScript, exitWhenDone bool) {
	g.script = script
	g.exitOnDone = exitWhenDone
	if script != nil {
		script.OnSnapshot = g.Screenshot
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	s := g.surface
	if s.IsDestroyed() {
		return ebiten.Termination
	}
	g.pumpFocus()

	if g.script != nil {
		g.script.Step(s)
	}
	mods := readModifiers()
	if !s.ProcessInjectedInput() {
		g.pumpPointer(mods)
	}
	if !s.IsDestroyed() {
		g.pumpKeys(mods)
	}

	tps := ebiten.TPS()
	if tps <= 0 {
		tps = 60
	}
	g.clock += 1000 / float64(tps)
	g.loop.AdvanceTo(uint64(g.clock))

	if s.IsDestroyed() {
		return ebiten.Termination
	}
	if g.script != nil && g.exitOnDone && g.script.Done() && s.PendingInjected() == 0 {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game. The screen is kept between frames, so idle
// frames draw nothing.
func (g *Game) Draw(screen *ebiten.Image) {
	s := g.surface
	if s.IsDestroyed() {
		return
	}
	s.Layout()
	if g.host.takeDirty() || g.cfg.ShowFPS || len(g.screenshots) > 0 {
		screen.Fill(g.cfg.Background.RGBA())
		s.Draw(Wrap(screen, g.graphics.Zoom()))
		g.drawTooltip(screen)
		if g.cfg.ShowFPS {
			drawFPS(screen)
		}
	}
	g.flushScreenshots(screen)
}

// Layout implements ebiten.Game. Window resizes go through the surface's
// EventSizing handlers, which may adjust or refuse them.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.surface
	w, h := float64(outsideWidth), float64(outsideHeight)
	if !s.IsDestroyed() && (w != s.Width() || h != s.Height()) {
		if ok, nw, nh := s.OnSizing(w, h); ok {
			s.SetSize(nw, nh)
		}
	}
	return int(s.Width()), int(s.Height())
}

// debugGlyph is the size of one ebitenutil.DebugPrint character.
var debugGlyph = image.Pt(6, 16)

func (g *Game) drawTooltip(screen *ebiten.Image) {
	text, x, y, at := g.host.Tooltip()
	if text == "" {
		return
	}
	if !at {
		x, y = g.surface.Pointer().Position()
		y += float64(debugGlyph.Y)
	}
	lines := strings.Split(text, "\n")
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	box := image.Rect(int(x), int(y), int(x)+width*debugGlyph.X+4, int(y)+len(lines)*debugGlyph.Y)
	screen.SubImage(box).(*ebiten.Image).Fill(color.RGBA{0, 0, 0, 192})
	ebitenutil.DebugPrintAt(screen, text, int(x)+2, int(y))
}

func drawFPS(screen *ebiten.Image) {
	screen.SubImage(image.Rect(0, 0, 100, 32)).(*ebiten.Image).Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// Run opens a window and runs g until the window closes, the surface is
// destroyed or a finished input script ends it. The surface is destroyed
// on return.
func Run(g *Game) error {
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)

	err := ebiten.RunGame(g)
	if !g.surface.IsDestroyed() {
		g.surface.Destroy()
	}
	if err != nil {
		return fmt.Errorf("ebitenhost: run: %w", err)
	}
	return nil
}
