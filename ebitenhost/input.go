package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/canopy"
)

// keyCodes maps physical ebiten keys to canopy key codes. The virtual
// either-side keys (ebiten.KeyShift and friends) are left out so one press
// does not report twice.
var keyCodes = map[ebiten.Key]canopy.KeyCode{
	ebiten.KeyBackspace:    canopy.KeyBack,
	ebiten.KeyTab:          canopy.KeyTab,
	ebiten.KeyEnter:        canopy.KeyReturn,
	ebiten.KeyNumpadEnter:  canopy.KeyReturn,
	ebiten.KeyShiftLeft:    canopy.KeyShift,
	ebiten.KeyShiftRight:   canopy.KeyShift,
	ebiten.KeyControlLeft:  canopy.KeyControl,
	ebiten.KeyControlRight: canopy.KeyControl,
	ebiten.KeyAltLeft:      canopy.KeyAlt,
	ebiten.KeyAltRight:     canopy.KeyAlt,
	ebiten.KeyEscape:       canopy.KeyEscape,
	ebiten.KeySpace:        canopy.KeySpace,
	ebiten.KeyPageUp:       canopy.KeyPageUp,
	ebiten.KeyPageDown:     canopy.KeyPageDown,
	ebiten.KeyEnd:          canopy.KeyEnd,
	ebiten.KeyHome:         canopy.KeyHome,
	ebiten.KeyArrowLeft:    canopy.KeyLeft,
	ebiten.KeyArrowUp:      canopy.KeyUp,
	ebiten.KeyArrowRight:   canopy.KeyRight,
	ebiten.KeyArrowDown:    canopy.KeyDown,
	ebiten.KeyInsert:       canopy.KeyInsert,
	ebiten.KeyDelete:       canopy.KeyDelete,
}

func init() {
	letters := []ebiten.Key{
		ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF,
		ebiten.KeyG, ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL,
		ebiten.KeyM, ebiten.KeyN, ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR,
		ebiten.KeyS, ebiten.KeyT, ebiten.KeyU, ebiten.KeyV, ebiten.KeyW, ebiten.KeyX,
		ebiten.KeyY, ebiten.KeyZ,
	}
	for i, k := range letters {
		keyCodes[k] = canopy.KeyCode('A' + i)
	}
	digits := []ebiten.Key{
		ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
		ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
	}
	for i, k := range digits {
		keyCodes[k] = canopy.KeyCode('0' + i)
	}
	functions := []ebiten.Key{
		ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4, ebiten.KeyF5, ebiten.KeyF6,
		ebiten.KeyF7, ebiten.KeyF8, ebiten.KeyF9, ebiten.KeyF10, ebiten.KeyF11, ebiten.KeyF12,
	}
	for i, k := range functions {
		keyCodes[k] = canopy.KeyF1 + canopy.KeyCode(i)
	}
}

// translateKey returns the canopy key code for k.
func translateKey(k ebiten.Key) (canopy.KeyCode, bool) {
	code, ok := keyCodes[k]
	return code, ok
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() canopy.KeyModifiers {
	var mods canopy.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= canopy.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= canopy.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= canopy.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= canopy.ModMeta
	}
	return mods
}

// mouseButtons pairs ebiten buttons with canopy's button bits.
var mouseButtons = [...]struct {
	eb ebiten.MouseButton
	b  canopy.MouseButton
}{
	{ebiten.MouseButtonLeft, canopy.ButtonLeft},
	{ebiten.MouseButtonRight, canopy.ButtonRight},
	{ebiten.MouseButtonMiddle, canopy.ButtonMiddle},
}

// wheelAccumulator turns fractional wheel offsets from trackpads into
// whole wheel steps.
type wheelAccumulator struct {
	x, y float64
}

// add records an offset and returns the whole steps it completes.
func (w *wheelAccumulator) add(dx, dy float64) (int, int) {
	w.x += dx
	w.y += dy
	sx, sy := int(w.x), int(w.y)
	w.x -= float64(sx)
	w.y -= float64(sy)
	return sx, sy
}

// pumpPointer feeds this frame's mouse state into the surface.
func (g *Game) pumpPointer(mods canopy.KeyModifiers) {
	s := g.surface
	p := s.Pointer()
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)

	inside := x >= 0 && y >= 0 && x < s.Width() && y < s.Height()
	if !inside && p.Buttons() == canopy.ButtonNone {
		if g.inside {
			g.inside = false
			p.Leave(s)
		}
		return
	}
	g.inside = true

	if px, py := p.Position(); px != x || py != y || !g.moved {
		g.moved = true
		p.Move(s, x, y, mods)
	}
	for _, mb := range mouseButtons {
		if s.IsDestroyed() {
			return
		}
		switch {
		case inpututil.IsMouseButtonJustPressed(mb.eb):
			p.Press(s, x, y, mb.b, mods)
		case inpututil.IsMouseButtonJustReleased(mb.eb):
			p.Release(s, x, y, mb.b, mods)
		}
	}
	if dx, dy := g.wheel.add(ebiten.Wheel()); (dx != 0 || dy != 0) && !s.IsDestroyed() {
		p.Wheel(s, dx, dy, mods)
	}
}

// pumpKeys feeds this frame's key transitions and typed characters into
// the surface.
func (g *Game) pumpKeys(mods canopy.KeyModifiers) {
	s := g.surface
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		if code, ok := translateKey(k); ok && !s.IsDestroyed() {
			s.OnKeyEvent(canopy.KeyboardEvent{Kind: canopy.EventKeyDown, KeyCode: code, Modifier: mods})
		}
	}
	g.chars = ebiten.AppendInputChars(g.chars[:0])
	for _, r := range g.chars {
		if !s.IsDestroyed() {
			s.OnKeyEvent(canopy.KeyboardEvent{Kind: canopy.EventKeyPress, KeyCode: canopy.KeyCode(r), Modifier: mods})
		}
	}
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		if code, ok := translateKey(k); ok && !s.IsDestroyed() {
			s.OnKeyEvent(canopy.KeyboardEvent{Kind: canopy.EventKeyUp, KeyCode: code, Modifier: mods})
		}
	}
}

// pumpFocus reports window focus changes.
func (g *Game) pumpFocus() {
	focused := ebiten.IsFocused()
	if focused == g.focused {
		return
	}
	g.focused = focused
	kind := canopy.EventFocusOut
	if focused {
		kind = canopy.EventFocusIn
	}
	g.surface.OnOtherEvent(canopy.SimpleEvent{Kind: kind})
}
