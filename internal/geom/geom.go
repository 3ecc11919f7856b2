// Package geom provides the rectangle arithmetic shared by zone detection,
// filtering and cropping.
package geom

import "fmt"

// Rect represents a rectangular bounding box in page pixel coordinates,
// with the origin at the top-left corner.
type Rect struct {
	// X is the left coordinate (pixels from left edge)
	X int

	// Y is the top coordinate (pixels from top edge)
	Y int

	// Width is the width of the rectangle in pixels
	Width int

	// Height is the height of the rectangle in pixels
	Height int
}

// NewRect creates a new Rect
func NewRect(x, y, width, height int) Rect {
	return Rect{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// Area returns the area of the rectangle
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Right returns the right edge coordinate
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the bottom edge coordinate
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Empty returns true if the rectangle has no area
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// CenterX returns the horizontal center coordinate
func (r Rect) CenterX() int {
	return r.X + r.Width/2
}

// CenterY returns the vertical center coordinate
func (r Rect) CenterY() int {
	return r.Y + r.Height/2
}

// AspectRatio returns width divided by height, or 0 for degenerate boxes
func (r Rect) AspectRatio() float64 {
	if r.Height <= 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

// Contains returns true if the rectangle contains the point (x, y)
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Intersects returns true if this rectangle intersects with another
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.Right() &&
		r.Right() > other.X &&
		r.Y < other.Bottom() &&
		r.Bottom() > other.Y
}

// Intersection returns the overlapping region of two rectangles.
// The zero Rect is returned when they do not intersect.
func (r Rect) Intersection(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.Right(), other.Right())
	y1 := min(r.Bottom(), other.Bottom())

	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the smallest rectangle covering both rectangles
func (r Rect) Union(other Rect) Rect {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}

	x0 := min(r.X, other.X)
	y0 := min(r.Y, other.Y)
	x1 := max(r.Right(), other.Right())
	y1 := max(r.Bottom(), other.Bottom())

	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// OverlapRatio returns the intersection area divided by the smaller
// rectangle's area, in [0,1]. This is the overlap measure used by the
// anti-geometric filter's merge tolerance.
func (r Rect) OverlapRatio(other Rect) float64 {
	inter := r.Intersection(other)
	if inter.Empty() {
		return 0
	}

	smaller := min(r.Area(), other.Area())
	if smaller <= 0 {
		return 0
	}
	return float64(inter.Area()) / float64(smaller)
}

// Clip constrains the rectangle to lie within the given bounds
func (r Rect) Clip(bounds Rect) Rect {
	return r.Intersection(bounds)
}

// Expand grows the rectangle by margin pixels on every side, clipped to bounds
func (r Rect) Expand(margin int, bounds Rect) Rect {
	grown := Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
	return grown.Clip(bounds)
}

// String returns a compact textual representation
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
