package canopy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// --- Pixel-or-relative attributes ---

// ValueKind classifies a parsed position or size attribute.
type ValueKind uint8

const (
	ValueUnspecified ValueKind = iota
	ValuePixel
	ValueRelative
	ValueInvalid
)

// ParsePixelOrRelative parses an attribute such as "12", "12.5" or "50%".
// Relative values are returned as fractions, so "50%" yields 0.5. An empty
// string is unspecified.
func ParsePixelOrRelative(s string) (float64, ValueKind) {
	if s == "" {
		return 0, ValueUnspecified
	}
	// Reject hex, inf and nan spellings that ParseFloat would accept.
	if strings.ContainsAny(s, "xnXN") {
		return 0, ValueInvalid
	}
	if i := strings.IndexByte(s, '%'); i >= 0 {
		if strings.TrimSpace(s[i+1:]) != "" {
			return 0, ValueInvalid
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
		if err != nil {
			return 0, ValueInvalid
		}
		return v / 100, ValueRelative
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ValueInvalid
	}
	return v, ValuePixel
}

// FormatPixelOrRelative is the inverse of ParsePixelOrRelative, rounding to
// whole pixels or whole percents.
func FormatPixelOrRelative(specified, relative bool, pixel, rel float64) string {
	if !specified {
		return ""
	}
	if relative {
		return fmt.Sprintf("%d%%", int(math.Round(rel*100)))
	}
	return strconv.Itoa(int(math.Round(pixel)))
}

// setAttr parses s and routes the result to the pixel or relative setter.
// It reports whether s was accepted.
func setAttr(s, what string, n *Node, pixel, relative func(float64), reset func()) bool {
	v, kind := ParsePixelOrRelative(s)
	switch kind {
	case ValuePixel:
		pixel(v)
	case ValueRelative:
		relative(v)
	case ValueUnspecified:
		reset()
	default:
		Logger().Debug("canopy: invalid attribute", "node", n.name, "attr", what, "value", s)
		return false
	}
	return true
}

// --- Position ---

// SetPixelX places the node's pin point at x pixels in its parent.
func (n *Node) SetPixelX(x float64) {
	if x != n.x || n.xRelative || !n.xSpecified {
		n.addToClipRegion(nil)
		n.x = x
		n.xRelative = false
		n.xSpecified = true
		n.markPositionChanged()
	}
}

// SetPixelY places the node's pin point at y pixels in its parent.
func (n *Node) SetPixelY(y float64) {
	if y != n.y || n.yRelative || !n.ySpecified {
		n.addToClipRegion(nil)
		n.y = y
		n.yRelative = false
		n.ySpecified = true
		n.markPositionChanged()
	}
}

// SetRelativeX places the pin point at fraction x of the parent's width.
func (n *Node) SetRelativeX(x float64) {
	if x != n.relX || !n.xRelative {
		n.addToClipRegion(nil)
		n.relX = x
		n.xRelative = true
		n.xSpecified = true
		n.markPositionChanged()
	}
}

// SetRelativeY places the pin point at fraction y of the parent's height.
func (n *Node) SetRelativeY(y float64) {
	if y != n.relY || !n.yRelative {
		n.addToClipRegion(nil)
		n.relY = y
		n.yRelative = true
		n.ySpecified = true
		n.markPositionChanged()
	}
}

// ResetXToDefault forgets any explicit x so DefaultPosition applies.
func (n *Node) ResetXToDefault() {
	if n.xSpecified {
		n.addToClipRegion(nil)
		n.xSpecified = false
		n.xRelative = false
		n.markPositionChanged()
	}
}

// ResetYToDefault forgets any explicit y so DefaultPosition applies.
func (n *Node) ResetYToDefault() {
	if n.ySpecified {
		n.addToClipRegion(nil)
		n.ySpecified = false
		n.yRelative = false
		n.markPositionChanged()
	}
}

// SetX parses and applies an x attribute.
func (n *Node) SetX(s string) bool {
	return setAttr(s, "x", n, n.SetPixelX, n.SetRelativeX, n.ResetXToDefault)
}

// SetY parses and applies a y attribute.
func (n *Node) SetY(s string) bool {
	return setAttr(s, "y", n, n.SetPixelY, n.SetRelativeY, n.ResetYToDefault)
}

// X formats the x attribute.
func (n *Node) X() string { return FormatPixelOrRelative(n.xSpecified, n.xRelative, n.x, n.relX) }

// Y formats the y attribute.
func (n *Node) Y() string { return FormatPixelOrRelative(n.ySpecified, n.yRelative, n.y, n.relY) }

// PixelX returns the resolved x position in the parent.
func (n *Node) PixelX() float64 { return n.x }

// PixelY returns the resolved y position in the parent.
func (n *Node) PixelY() float64 { return n.y }

// RelativeX returns x as a fraction of the parent width.
func (n *Node) RelativeX() float64 { return n.relX }

// RelativeY returns y as a fraction of the parent height.
func (n *Node) RelativeY() float64 { return n.relY }

func (n *Node) XIsRelative() bool  { return n.xRelative }
func (n *Node) YIsRelative() bool  { return n.yRelative }
func (n *Node) XIsSpecified() bool { return n.xSpecified }
func (n *Node) YIsSpecified() bool { return n.ySpecified }

// --- Size ---

// SetPixelWidth sets the width in pixels. Negative widths are ignored.
func (n *Node) SetPixelWidth(w float64) {
	if w >= 0 && (w != n.wantWidth || n.widthRelative || !n.widthSpecified) {
		n.addToClipRegion(nil)
		n.wantWidth = w
		n.width = w
		n.widthRelative = false
		n.widthSpecified = true
		n.markSizeChanged()
	}
}

// SetPixelHeight sets the height in pixels. Negative heights are ignored.
func (n *Node) SetPixelHeight(h float64) {
	if h >= 0 && (h != n.wantHeight || n.heightRelative || !n.heightSpecified) {
		n.addToClipRegion(nil)
		n.wantHeight = h
		n.height = h
		n.heightRelative = false
		n.heightSpecified = true
		n.markSizeChanged()
	}
}

// SetRelativeWidth sets the width as a fraction of the parent's width.
func (n *Node) SetRelativeWidth(w float64) {
	if w >= 0 && (w != n.wantWidth || !n.widthRelative) {
		n.addToClipRegion(nil)
		n.wantWidth = w
		n.widthRelative = true
		n.widthSpecified = true
		n.markSizeChanged()
	}
}

// SetRelativeHeight sets the height as a fraction of the parent's height.
func (n *Node) SetRelativeHeight(h float64) {
	if h >= 0 && (h != n.wantHeight || !n.heightRelative) {
		n.addToClipRegion(nil)
		n.wantHeight = h
		n.heightRelative = true
		n.heightSpecified = true
		n.markSizeChanged()
	}
}

// ResetWidthToDefault forgets any explicit width so DefaultSize applies.
func (n *Node) ResetWidthToDefault() {
	if n.widthSpecified {
		n.addToClipRegion(nil)
		n.widthSpecified = false
		n.widthRelative = false
		n.markSizeChanged()
	}
}

// ResetHeightToDefault forgets any explicit height so DefaultSize applies.
func (n *Node) ResetHeightToDefault() {
	if n.heightSpecified {
		n.addToClipRegion(nil)
		n.heightSpecified = false
		n.heightRelative = false
		n.markSizeChanged()
	}
}

// SetWidth parses and applies a width attribute.
func (n *Node) SetWidth(s string) bool {
	return setAttr(s, "width", n, n.SetPixelWidth, n.SetRelativeWidth, n.ResetWidthToDefault)
}

// SetHeight parses and applies a height attribute.
func (n *Node) SetHeight(s string) bool {
	return setAttr(s, "height", n, n.SetPixelHeight, n.SetRelativeHeight, n.ResetHeightToDefault)
}

// Width formats the width attribute.
func (n *Node) Width() string {
	return FormatPixelOrRelative(n.widthSpecified, n.widthRelative, n.width, n.wantWidth)
}

// Height formats the height attribute.
func (n *Node) Height() string {
	return FormatPixelOrRelative(n.heightSpecified, n.heightRelative, n.height, n.wantHeight)
}

// PixelWidth returns the resolved width.
func (n *Node) PixelWidth() float64 { return n.width }

// PixelHeight returns the resolved height.
func (n *Node) PixelHeight() float64 { return n.height }

// ClientWidth is the width available to children.
func (n *Node) ClientWidth() float64 { return n.width }

// ClientHeight is the height available to children.
func (n *Node) ClientHeight() float64 { return n.height }

func (n *Node) WidthIsRelative() bool   { return n.widthRelative }
func (n *Node) HeightIsRelative() bool  { return n.heightRelative }
func (n *Node) WidthIsSpecified() bool  { return n.widthSpecified }
func (n *Node) HeightIsSpecified() bool { return n.heightSpecified }

// MinWidth returns the lower bound applied to the resolved width.
func (n *Node) MinWidth() float64 { return n.minWidth }

// MinHeight returns the lower bound applied to the resolved height.
func (n *Node) MinHeight() float64 { return n.minHeight }

// SetMinWidth sets the lower bound applied to the resolved width.
func (n *Node) SetMinWidth(w float64) {
	if w != n.minWidth {
		n.minWidth = w
		if n.width < w {
			n.markSizeChanged()
		}
	}
}

// SetMinHeight sets the lower bound applied to the resolved height.
func (n *Node) SetMinHeight(h float64) {
	if h != n.minHeight {
		n.minHeight = h
		if n.height < h {
			n.markSizeChanged()
		}
	}
}

// --- Pin, rotation, opacity, visibility, flip ---

// SetPixelPinX sets the pin x offset, in the node's own space.
func (n *Node) SetPixelPinX(x float64) {
	if x != n.pinX || n.pinXRelative {
		n.addToClipRegion(nil)
		n.pinX = x
		n.pinXRelative = false
		n.markPositionChanged()
	}
}

// SetPixelPinY sets the pin y offset, in the node's own space.
func (n *Node) SetPixelPinY(y float64) {
	if y != n.pinY || n.pinYRelative {
		n.addToClipRegion(nil)
		n.pinY = y
		n.pinYRelative = false
		n.markPositionChanged()
	}
}

// SetRelativePinX sets the pin x offset as a fraction of the node's width.
func (n *Node) SetRelativePinX(x float64) {
	if x != n.relPinX || !n.pinXRelative {
		n.addToClipRegion(nil)
		n.relPinX = x
		n.pinXRelative = true
		n.markPositionChanged()
	}
}

// SetRelativePinY sets the pin y offset as a fraction of the node's height.
func (n *Node) SetRelativePinY(y float64) {
	if y != n.relPinY || !n.pinYRelative {
		n.addToClipRegion(nil)
		n.relPinY = y
		n.pinYRelative = true
		n.markPositionChanged()
	}
}

// SetPinX parses and applies a pinX attribute. An empty string resets the
// pin to zero.
func (n *Node) SetPinX(s string) bool {
	return setAttr(s, "pinX", n, n.SetPixelPinX, n.SetRelativePinX, func() { n.SetPixelPinX(0) })
}

// SetPinY parses and applies a pinY attribute.
func (n *Node) SetPinY(s string) bool {
	return setAttr(s, "pinY", n, n.SetPixelPinY, n.SetRelativePinY, func() { n.SetPixelPinY(0) })
}

// PinX formats the pinX attribute.
func (n *Node) PinX() string { return FormatPixelOrRelative(true, n.pinXRelative, n.pinX, n.relPinX) }

// PinY formats the pinY attribute.
func (n *Node) PinY() string { return FormatPixelOrRelative(true, n.pinYRelative, n.pinY, n.relPinY) }

// PixelPinX returns the resolved pin x offset.
func (n *Node) PixelPinX() float64 { return n.pinX }

// PixelPinY returns the resolved pin y offset.
func (n *Node) PixelPinY() float64 { return n.pinY }

func (n *Node) PinXIsRelative() bool { return n.pinXRelative }
func (n *Node) PinYIsRelative() bool { return n.pinYRelative }

// Rotation returns the rotation about the pin, in degrees.
func (n *Node) Rotation() float64 { return n.rotation }

// SetRotation sets the rotation about the pin, in degrees clockwise.
func (n *Node) SetRotation(deg float64) {
	if deg != n.rotation {
		n.addToClipRegion(nil)
		n.rotation = deg
		n.markPositionChanged()
	}
}

// Opacity returns the node's own opacity.
func (n *Node) Opacity() float64 { return n.opacity }

// SetOpacity sets the opacity in [0, 1].
func (n *Node) SetOpacity(o float64) {
	if o != n.opacity {
		n.addToClipRegion(nil)
		if n.opacity == 0 || o == 0 {
			n.visibilityChanged = true
		}
		n.opacity = o
		n.QueueDraw()
	}
}

// Visible returns the node's own visible flag.
func (n *Node) Visible() bool { return n.visible }

// SetVisible shows or hides the node.
func (n *Node) SetVisible(v bool) {
	if v != n.visible {
		n.addToClipRegion(nil)
		n.visible = v
		n.visibilityChanged = true
		if !v {
			destroyCanvas(&n.cache)
		}
		n.QueueDraw()
	}
}

// Flip returns the node's mirroring.
func (n *Node) Flip() FlipMode { return n.flip }

// SetFlip mirrors the node's content.
func (n *Node) SetFlip(f FlipMode) {
	if f != n.flip {
		n.flip = f
		n.QueueDraw()
	}
}

func (n *Node) markPositionChanged() {
	n.positionChanged = true
	n.drawQueued = false
	n.QueueDraw()
}

func (n *Node) markSizeChanged() {
	n.sizeChanged = true
	n.drawQueued = false
	n.QueueDraw()
}

// --- Resolution ---

// parentClientSize is the space relative attributes are measured against.
func (n *Node) parentClientSize() (float64, float64) {
	if n.parent != nil {
		return n.parent.ClientWidth(), n.parent.ClientHeight()
	}
	return n.surface.width, n.surface.height
}

// calculateSize resolves unspecified sizes from DefaultSize, children first.
func (n *Node) calculateSize() {
	if n.children != nil {
		n.children.calculateSize()
	}
	if !n.widthSpecified || !n.heightSpecified {
		w, h := n.behavior.DefaultSize(n)
		w = math.Max(w, n.minWidth)
		h = math.Max(h, n.minHeight)
		if !n.widthSpecified && w != n.width {
			n.width = w
			n.sizeChanged = true
		}
		if !n.heightSpecified && h != n.height {
			n.height = h
			n.sizeChanged = true
		}
	}
}

// CalculateRelativeAttributes resolves relative position, size and pin
// against the parent, and keeps the pixel and relative forms in sync.
func (n *Node) CalculateRelativeAttributes() {
	pw, ph := n.parentClientSize()

	if !n.xSpecified || !n.ySpecified {
		dx, dy := n.behavior.DefaultPosition(n)
		if !n.xSpecified && dx != n.x {
			n.x = dx
			n.positionChanged = true
		}
		if !n.ySpecified && dy != n.y {
			n.y = dy
			n.positionChanged = true
		}
	}

	if n.xRelative {
		if v := n.relX * pw; v != n.x {
			n.x = v
			n.positionChanged = true
		}
	} else if pw > 0 {
		n.relX = n.x / pw
	}
	if n.yRelative {
		if v := n.relY * ph; v != n.y {
			n.y = v
			n.positionChanged = true
		}
	} else if ph > 0 {
		n.relY = n.y / ph
	}

	w, h := n.width, n.height
	if n.widthRelative {
		w = n.wantWidth * pw
	} else if n.widthSpecified {
		w = n.wantWidth
	}
	if n.heightRelative {
		h = n.wantHeight * ph
	} else if n.heightSpecified {
		h = n.wantHeight
	}
	w = math.Max(w, n.minWidth)
	h = math.Max(h, n.minHeight)
	if w != n.width || h != n.height {
		n.width, n.height = w, h
		n.sizeChanged = true
	}

	if n.pinXRelative {
		if v := n.relPinX * n.width; v != n.pinX {
			n.pinX = v
			n.positionChanged = true
		}
	} else if n.width > 0 {
		n.relPinX = n.pinX / n.width
	}
	if n.pinYRelative {
		if v := n.relPinY * n.height; v != n.pinY {
			n.pinY = v
			n.positionChanged = true
		}
	} else if n.height > 0 {
		n.relPinY = n.pinY / n.height
	}
}

// --- Coordinate conversion ---

func (n *Node) radians() float64 { return DegreesToRadians(n.rotation) }

// SelfToParent maps a point in n's space into its parent's space. Flip is
// applied before the pin, position and rotation transform.
func (n *Node) SelfToParent(x, y float64) (float64, float64) {
	x, y = FlipPoint(x, y, n.width, n.height, n.flip)
	return ChildToParent(x, y, n.x, n.y, n.pinX, n.pinY, n.radians())
}

// ParentToSelf is the inverse of SelfToParent.
func (n *Node) ParentToSelf(x, y float64) (float64, float64) {
	x, y = ParentToChild(x, y, n.x, n.y, n.pinX, n.pinY, n.radians())
	return FlipPoint(x, y, n.width, n.height, n.flip)
}

// SelfToView maps a point in n's space into surface space.
func (n *Node) SelfToView(x, y float64) (float64, float64) {
	for e := n; e != nil; e = e.parent {
		x, y = e.SelfToParent(x, y)
	}
	return x, y
}

// ViewToSelf maps a surface point into n's space.
func (n *Node) ViewToSelf(x, y float64) (float64, float64) {
	if n.parent != nil {
		x, y = n.parent.ViewToSelf(x, y)
	}
	return n.ParentToSelf(x, y)
}

// ExtentsInView returns the surface-space bounding box of the node.
func (n *Node) ExtentsInView() Rect {
	return n.RectExtentsInView(Rect{W: n.width, H: n.height})
}

// RectExtentsInView returns the surface-space bounding box of r, given in
// n's space.
func (n *Node) RectExtentsInView(r Rect) Rect {
	var pts [4]Vec2
	pts[0].X, pts[0].Y = n.SelfToView(r.X, r.Y)
	pts[1].X, pts[1].Y = n.SelfToView(r.X+r.W, r.Y)
	pts[2].X, pts[2].Y = n.SelfToView(r.X+r.W, r.Y+r.H)
	pts[3].X, pts[3].Y = n.SelfToView(r.X, r.Y+r.H)
	return PolygonExtents(pts[:])
}

// ExtentsInParent returns the node's bounding box in its parent's space.
func (n *Node) ExtentsInParent() Rect {
	var pts [4]Vec2
	w, h := n.width, n.height
	pts[0].X, pts[0].Y = n.SelfToParent(0, 0)
	pts[1].X, pts[1].Y = n.SelfToParent(w, 0)
	pts[2].X, pts[2].Y = n.SelfToParent(w, h)
	pts[3].X, pts[3].Y = n.SelfToParent(0, h)
	return PolygonExtents(pts[:])
}

// MinExtentsInParent is ExtentsInParent computed with the minimum size.
func (n *Node) MinExtentsInParent() Rect {
	return ChildRectExtentInParent(n.x, n.y, n.pinX, n.pinY, n.radians(),
		Rect{W: n.minWidth, H: n.minHeight})
}

// IsPointIn reports whether (x, y), in n's space, hits the node. With a mask
// set, fully transparent mask pixels do not hit.
func (n *Node) IsPointIn(x, y float64) bool {
	if !IsPointInBox(x, y, n.width, n.height) {
		return false
	}
	if n.mask == nil {
		return true
	}
	_, opacity, ok := n.mask.PointValue(x, y)
	return !ok || opacity > 0
}

// IsChildInVisibleArea reports whether child's bounding box overlaps n's box.
func (n *Node) IsChildInVisibleArea(child *Node) bool {
	e := child.ExtentsInParent()
	return e.X+e.W > 0 && e.Y+e.H > 0 && e.X < n.width && e.Y < n.height
}

// EnsureAreaVisible asks the node's behavior to scroll r into view. Source
// is the descendant that asked.
func (n *Node) EnsureAreaVisible(r Rect, source *Node) {
	n.behavior.EnsureAreaVisible(n, r, source)
}

// ensureAreaVisible forwards r to the parent in its coordinates.
func (n *Node) ensureAreaVisible(r Rect) {
	if n.parent != nil {
		n.parent.EnsureAreaVisible(ChildRectExtentInParent(n.x, n.y, n.pinX, n.pinY, n.radians(), r), n)
	}
}
