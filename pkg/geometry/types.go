// Package geometry provides the basic geometric types used by the
// connection router: canvas points, axis-aligned rectangles, and line
// segments.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Point2D represents a 2D point with floating-point canvas coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ManhattanDistance returns the sum of the absolute coordinate deltas.
func (p Point2D) ManhattanDistance(other Point2D) float64 {
	return math.Abs(p.X-other.X) + math.Abs(p.Y-other.Y)
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// EqualWithin reports whether both coordinates match within tol.
func (p Point2D) EqualWithin(other Point2D, tol float64) bool {
	return scalar.EqualWithinAbs(p.X, other.X, tol) &&
		scalar.EqualWithinAbs(p.Y, other.Y, tol)
}

// Rect represents an axis-aligned rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// SpanningRect returns the smallest rectangle containing both points.
func SpanningRect(a, b Point2D) Rect {
	x := math.Min(a.X, b.X)
	y := math.Min(a.Y, b.Y)
	return Rect{X: x, Y: y, Width: math.Max(a.X, b.X) - x, Height: math.Max(a.Y, b.Y) - y}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// TopLeft returns the top-left corner.
func (r Rect) TopLeft() Point2D {
	return Point2D{X: r.X, Y: r.Y}
}

// BottomRight returns the bottom-right corner.
func (r Rect) BottomRight() Point2D {
	return Point2D{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Intersects returns true if this rectangle intersects with another.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width && r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height && r.Y+r.Height > other.Y
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	x := math.Min(r.X, other.X)
	y := math.Min(r.Y, other.Y)
	x2 := math.Max(r.X+r.Width, other.X+other.Width)
	y2 := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Expanded returns the rectangle grown by amount on all four sides.
// A negative amount shrinks it; width and height never go below zero.
func (r Rect) Expanded(amount float64) Rect {
	w := math.Max(0, r.Width+2*amount)
	h := math.Max(0, r.Height+2*amount)
	return Rect{X: r.X - amount, Y: r.Y - amount, Width: w, Height: h}
}

// Line represents a line segment between two canvas points.
type Line struct {
	Start Point2D `json:"start"`
	End   Point2D `json:"end"`
}

// NewLine creates a new Line.
func NewLine(start, end Point2D) Line {
	return Line{Start: start, End: end}
}

// Length returns the Euclidean length of the segment.
func (l Line) Length() float64 {
	return l.Start.Distance(l.End)
}

// IsHorizontal reports whether the segment's endpoints share a Y
// coordinate within tol.
func (l Line) IsHorizontal(tol float64) bool {
	return scalar.EqualWithinAbs(l.Start.Y, l.End.Y, tol)
}

// IsVertical reports whether the segment's endpoints share an X
// coordinate within tol.
func (l Line) IsVertical(tol float64) bool {
	return scalar.EqualWithinAbs(l.Start.X, l.End.X, tol)
}

// IsAxisAligned reports whether the segment is horizontal or vertical
// within tol.
func (l Line) IsAxisAligned(tol float64) bool {
	return l.IsHorizontal(tol) || l.IsVertical(tol)
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
