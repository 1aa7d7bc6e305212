package canopy

import "math"

// --- Rect ---

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, W, H float64
}

// IsEmpty reports whether the rectangle covers no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// Union returns the smallest rectangle containing both r and other.
// An empty r yields other unchanged.
func (r Rect) Union(other Rect) Rect {
	if r.W <= 0 || r.H <= 0 {
		return other
	}
	nx := math.Min(r.X, other.X)
	ny := math.Min(r.Y, other.Y)
	return Rect{
		X: nx,
		Y: ny,
		W: math.Max(r.X+r.W, other.X+other.W) - nx,
		H: math.Max(r.Y+r.H, other.Y+other.H) - ny,
	}
}

// Intersect returns the overlapping part of r and other. ok is false when
// they share no area; rectangles touching only on an edge do not overlap.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	xmax := math.Min(r.X+r.W, other.X+other.W)
	xmin := math.Max(r.X, other.X)
	ymax := math.Min(r.Y+r.H, other.Y+other.H)
	ymin := math.Max(r.Y, other.Y)
	if xmax <= xmin || ymax <= ymin {
		return r, false
	}
	return Rect{X: xmin, Y: ymin, W: xmax - xmin, H: ymax - ymin}, true
}

// Overlaps reports whether r and other share any area.
func (r Rect) Overlaps(other Rect) bool {
	_, ok := r.Intersect(other)
	return ok
}

// IsInside reports whether r lies entirely inside other.
func (r Rect) IsInside(other Rect) bool {
	return r.X >= other.X && r.Y >= other.Y &&
		r.X+r.W <= other.X+other.W && r.Y+r.H <= other.Y+other.H
}

// Integerize snaps the rectangle to whole pixels. With expand the result
// covers every pixel the original touched; otherwise each field is rounded.
func (r Rect) Integerize(expand bool) Rect {
	if expand {
		nx := math.Floor(r.X)
		ny := math.Floor(r.Y)
		return Rect{X: nx, Y: ny, W: math.Ceil(r.W + r.X - nx), H: math.Ceil(r.H + r.Y - ny)}
	}
	return Rect{X: math.Round(r.X), Y: math.Round(r.Y), W: math.Round(r.W), H: math.Round(r.H)}
}

// PolygonExtents returns the bounding box of the given points.
func PolygonExtents(points []Vec2) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	xmin, xmax := points[0].X, points[0].X
	ymin, ymax := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		xmin = math.Min(xmin, p.X)
		xmax = math.Max(xmax, p.X)
		ymin = math.Min(ymin, p.Y)
		ymax = math.Max(ymax, p.Y)
	}
	return Rect{X: xmin, Y: ymin, W: xmax - xmin, H: ymax - ymin}
}

// --- Angles ---

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// --- Child/parent conversion ---

// ChildToParent maps a point in a child's local space into its parent's
// space. The child sits at (posX, posY) in the parent, rotated by rot
// radians around its pin point.
func ChildToParent(cx, cy, posX, posY, pinX, pinY, rot float64) (px, py float64) {
	sin, cos := math.Sincos(rot)
	x0 := posX + pinY*sin - pinX*cos
	y0 := posY - pinX*sin - pinY*cos
	return cx*cos - cy*sin + x0, cy*cos + cx*sin + y0
}

// ParentToChild is the inverse of ChildToParent.
func ParentToChild(px, py, posX, posY, pinX, pinY, rot float64) (cx, cy float64) {
	sin, cos := math.Sincos(rot)
	a13 := pinX - posY*sin - posX*cos
	a23 := pinY + posX*sin - posY*cos
	return px*cos + py*sin + a13, py*cos - px*sin + a23
}

// FlipPoint mirrors (x, y) inside a w by h box according to flip. Applying
// it twice returns the original point.
func FlipPoint(x, y, w, h float64, flip FlipMode) (float64, float64) {
	if flip&FlipHorizontal != 0 {
		x = w - x
	}
	if flip&FlipVertical != 0 {
		y = h - y
	}
	return x, y
}

// ChildRectExtentInParent returns the axis-aligned bounding box, in parent
// space, of the child-space rectangle r. All four corners are transformed.
func ChildRectExtentInParent(posX, posY, pinX, pinY, rot float64, r Rect) Rect {
	var pts [4]Vec2
	pts[0].X, pts[0].Y = ChildToParent(r.X, r.Y, posX, posY, pinX, pinY, rot)
	pts[1].X, pts[1].Y = ChildToParent(r.X+r.W, r.Y, posX, posY, pinX, pinY, rot)
	pts[2].X, pts[2].Y = ChildToParent(r.X+r.W, r.Y+r.H, posX, posY, pinX, pinY, rot)
	pts[3].X, pts[3].Y = ChildToParent(r.X, r.Y+r.H, posX, posY, pinX, pinY, rot)
	return PolygonExtents(pts[:])
}

// ChildExtentInParent returns the right and bottom edges, in parent space,
// of a w by h child. Scrollable containers use it to size their content.
func ChildExtentInParent(posX, posY, pinX, pinY, w, h, rot float64) (right, bottom float64) {
	e := ChildRectExtentInParent(posX, posY, pinX, pinY, rot, Rect{W: w, H: h})
	return e.X + e.W, e.Y + e.H
}

// IsPointInBox reports whether (x, y) lies inside a w by h box anchored at
// the origin. The right and bottom edges are exclusive.
func IsPointInBox(x, y, w, h float64) bool {
	return 0 <= x && 0 <= y && x < w && y < h
}
