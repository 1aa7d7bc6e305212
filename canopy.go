package canopy

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when a canvas converts it for drawing.
type Color struct {
	R, G, B, A float64
}

var (
	// ColorWhite is opaque white.
	ColorWhite = Color{1, 1, 1, 1}
	// ColorBlack is opaque black.
	ColorBlack = Color{0, 0, 0, 1}
	// ColorTransparent has zero alpha.
	ColorTransparent = Color{}
)

// RGBA converts the color to premultiplied 8-bit components.
func (c Color) RGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// ColorFromRGBA converts a premultiplied color back to straight alpha.
func ColorFromRGBA(c color.RGBA) Color {
	if c.A == 0 {
		return Color{}
	}
	a := float64(c.A) / 255
	return Color{
		R: float64(c.R) / 255 / a,
		G: float64(c.G) / 255 / a,
		B: float64(c.B) / 255 / a,
		A: a,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions and sizes.
type Vec2 struct {
	X, Y float64
}

// FlipMode mirrors a node's content along one or both axes.
type FlipMode uint8

const (
	FlipNone       FlipMode = 0
	FlipHorizontal FlipMode = 1 << 0
	FlipVertical   FlipMode = 1 << 1
	FlipBoth                = FlipHorizontal | FlipVertical
)

// HitTest is the result of hit-testing a point against a node. Hosts use it
// to decide how the window frame reacts to the pointer.
type HitTest uint8

const (
	HitTestClient      HitTest = iota // ordinary content
	HitTestTransparent                // the point passes through
	HitTestNowhere
	HitTestCaption
	HitTestLeft
	HitTestRight
	HitTestTop
	HitTestBottom
	HitTestTopLeft
	HitTestTopRight
	HitTestBottomLeft
	HitTestBottomRight
	HitTestBorder
	HitTestClose
)

// CursorType selects the pointer shape the host should show.
type CursorType uint8

const (
	CursorDefault CursorType = iota
	CursorArrow
	CursorIBeam
	CursorWait
	CursorCross
	CursorUpArrow
	CursorSize
	CursorSizeNWSE
	CursorSizeNESW
	CursorSizeWE
	CursorSizeNS
	CursorSizeAll
	CursorNo
	CursorHand
	CursorBusy
	CursorHelp
)

// MouseButton is a bitmask of mouse buttons.
type MouseButton uint8

const (
	ButtonNone   MouseButton = 0
	ButtonLeft   MouseButton = 1
	ButtonRight  MouseButton = 2
	ButtonMiddle MouseButton = 4
	ButtonAll                = ButtonLeft | ButtonRight | ButtonMiddle
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// KeyCode identifies a key using Windows virtual-key numbering.
type KeyCode uint32

const (
	KeyBack     KeyCode = 8
	KeyTab      KeyCode = 9
	KeyReturn   KeyCode = 13
	KeyShift    KeyCode = 16
	KeyControl  KeyCode = 17
	KeyAlt      KeyCode = 18
	KeyEscape   KeyCode = 27
	KeySpace    KeyCode = 32
	KeyPageUp   KeyCode = 33
	KeyPageDown KeyCode = 34
	KeyEnd      KeyCode = 35
	KeyHome     KeyCode = 36
	KeyLeft     KeyCode = 37
	KeyUp       KeyCode = 38
	KeyRight    KeyCode = 39
	KeyDown     KeyCode = 40
	KeyInsert   KeyCode = 45
	KeyDelete   KeyCode = 46
	KeyF1       KeyCode = 112
)

// EventResult is what a dispatch reports back. Results are ordered so the
// stronger of two can be taken with max.
type EventResult uint8

const (
	EventUnhandled EventResult = iota
	EventHandled
	EventCanceled
)

func maxResult(a, b EventResult) EventResult {
	if a > b {
		return a
	}
	return b
}
