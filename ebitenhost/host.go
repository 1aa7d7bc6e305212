package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/canopy"
)

// Host carries a surface's side effects into ebiten: cursor shapes go to the
// window, tooltips and repaint requests are kept for the next Draw.
type Host struct {
	cursor  canopy.CursorType
	tooltip string
	tipX    float64
	tipY    float64
	tipAt   bool
	dirty   bool

	// setCursor applies a cursor shape. Swapped out in tests.
	setCursor func(ebiten.CursorShapeType)
}

var _ canopy.Host = (*Host)(nil)

// NewHost returns a host whose first frame is drawn.
func NewHost() *Host {
	return &Host{dirty: true, setCursor: ebiten.SetCursorShape}
}

// QueueDraw asks for the next frame to be painted.
func (h *Host) QueueDraw() { h.dirty = true }

// SetCursor shows the closest ebiten cursor shape for c.
func (h *Host) SetCursor(c canopy.CursorType) {
	if c == h.cursor {
		return
	}
	h.cursor = c
	if h.setCursor != nil {
		h.setCursor(cursorShape(c))
	}
}

// ShowTooltip shows text next to the pointer. An empty text hides it.
func (h *Host) ShowTooltip(text string) {
	h.setTooltip(text, 0, 0, false)
}

// ShowTooltipAt shows text at (x, y) in surface coordinates.
func (h *Host) ShowTooltipAt(text string, x, y float64) {
	h.setTooltip(text, x, y, true)
}

func (h *Host) setTooltip(text string, x, y float64, at bool) {
	if text == h.tooltip && x == h.tipX && y == h.tipY && at == h.tipAt {
		return
	}
	h.tooltip, h.tipX, h.tipY, h.tipAt = text, x, y, at
	h.dirty = true
}

// Cursor returns the last cursor set by the surface.
func (h *Host) Cursor() canopy.CursorType { return h.cursor }

// Tooltip returns the tooltip text and its position. at is false when the
// tooltip follows the pointer.
func (h *Host) Tooltip() (text string, x, y float64, at bool) {
	return h.tooltip, h.tipX, h.tipY, h.tipAt
}

// takeDirty reports whether a repaint was requested and clears the request.
func (h *Host) takeDirty() bool {
	d := h.dirty
	h.dirty = false
	return d
}

// cursorShape maps a canopy cursor onto the shapes ebiten supports.
func cursorShape(c canopy.CursorType) ebiten.CursorShapeType {
	switch c {
	case canopy.CursorIBeam:
		return ebiten.CursorShapeText
	case canopy.CursorCross:
		return ebiten.CursorShapeCrosshair
	case canopy.CursorHand:
		return ebiten.CursorShapePointer
	case canopy.CursorSizeWE:
		return ebiten.CursorShapeEWResize
	case canopy.CursorSizeNS:
		return ebiten.CursorShapeNSResize
	case canopy.CursorSizeNESW:
		return ebiten.CursorShapeNESWResize
	case canopy.CursorSizeNWSE:
		return ebiten.CursorShapeNWSEResize
	case canopy.CursorSize, canopy.CursorSizeAll:
		return ebiten.CursorShapeMove
	case canopy.CursorNo:
		return ebiten.CursorShapeNotAllowed
	default:
		return ebiten.CursorShapeDefault
	}
}
