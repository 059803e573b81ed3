// Package geometry implements the rectangle and damage-tracking
// primitives every other compositor subsystem builds on.
package geometry

// Rect is an integer (x, y, width, height) rectangle in compositor
// coordinates.
type Rect struct {
	X, Y, W, H int
}

// IsEmpty reports whether either dimension is non-positive.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Union returns the smallest rectangle covering both r and o. An empty
// operand does not contribute area; when r is empty, o is returned
// unchanged, so unioning two empty rects yields o.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.X+r.W, o.X+o.W)
	maxY := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Intersect returns the overlapping region of r and o, which is empty
// if they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	minX := max(r.X, o.X)
	minY := max(r.Y, o.Y)
	maxX := min(r.X+r.W, o.X+o.W)
	maxY := min(r.Y+r.H, o.Y+o.H)
	if maxX <= minX || maxY <= minY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Clamp returns r with its width and height raised to at least minW,
// minH, used by the tiling layout to enforce a minimum usable cell
// size.
func (r Rect) Clamp(minW, minH int) Rect {
	if r.W < minW {
		r.W = minW
	}
	if r.H < minH {
		r.H = minH
	}
	return r
}
