// Package route computes orthogonal connection paths between object
// iolets on a patch canvas, avoiding object bounding boxes, and encodes
// the result as a compact endpoint-relative token for persistence.
package route

import (
	"patch-router/pkg/geometry"
)

// PathPlan is the ordered sequence of canvas points describing the full
// polyline of a connection, from the source outlet to the destination
// inlet inclusive. Consecutive points of a segmented plan are connected
// by strictly horizontal or vertical segments.
type PathPlan []geometry.Point2D

// Start returns the first point of the plan.
func (p PathPlan) Start() geometry.Point2D {
	return p[0]
}

// End returns the last point of the plan.
func (p PathPlan) End() geometry.Point2D {
	return p[len(p)-1]
}

// Segments returns the plan's consecutive point pairs as line segments.
func (p PathPlan) Segments() []geometry.Line {
	if len(p) < 2 {
		return nil
	}
	segs := make([]geometry.Line, 0, len(p)-1)
	for i := 1; i < len(p); i++ {
		segs = append(segs, geometry.Line{Start: p[i-1], End: p[i]})
	}
	return segs
}

// Length returns the total polyline length.
func (p PathPlan) Length() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		total += p[i-1].Distance(p[i])
	}
	return total
}

// Bends returns the number of direction changes along the plan.
func (p PathPlan) Bends() int {
	bends := 0
	for i := 2; i < len(p); i++ {
		horizBefore := p[i-1].Y == p[i-2].Y
		horizAfter := p[i].Y == p[i-1].Y
		if horizBefore != horizAfter {
			bends++
		}
	}
	return bends
}

// IsOrthogonal reports whether every segment of the plan is horizontal
// or vertical within tol. A plan with fewer than two points is trivially
// orthogonal.
func (p PathPlan) IsOrthogonal(tol float64) bool {
	for i := 1; i < len(p); i++ {
		if !geometry.NewLine(p[i-1], p[i]).IsAxisAligned(tol) {
			return false
		}
	}
	return true
}

// Bounds returns the bounding box of all plan points.
func (p PathPlan) Bounds() geometry.Rect {
	return geometry.BoundingBox(p)
}

// Equal reports whether both plans have the same points within tol.
func (p PathPlan) Equal(other PathPlan, tol float64) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !p[i].EqualWithin(other[i], tol) {
			return false
		}
	}
	return true
}

// Clone returns a copy of the plan.
func (p PathPlan) Clone() PathPlan {
	return append(PathPlan(nil), p...)
}

// Simplify collapses runs of collinear points, keeping only the start,
// the bend points, and the end. Consecutive duplicate points are dropped.
func (p PathPlan) Simplify() PathPlan {
	if len(p) < 3 {
		return p.Clone()
	}
	out := PathPlan{p[0]}
	for i := 1; i < len(p)-1; i++ {
		prev := out[len(out)-1]
		cur, next := p[i], p[i+1]
		if cur == prev {
			continue
		}
		collinear := (prev.X == cur.X && cur.X == next.X) ||
			(prev.Y == cur.Y && cur.Y == next.Y)
		if !collinear {
			out = append(out, cur)
		}
	}
	if last := p[len(p)-1]; last != out[len(out)-1] {
		out = append(out, last)
	}
	return out
}

// DirectPlan returns the unsegmented two-point plan between the
// endpoints, or a degenerate single-point plan when they coincide.
func DirectPlan(start, end geometry.Point2D) PathPlan {
	if start == end {
		return PathPlan{start}
	}
	return PathPlan{start, end}
}

// ElbowPlan returns a fallback connector between the endpoints: a
// straight line when they share an axis, otherwise a three-segment
// Z shape split at the halfway mark of the dominant travel direction.
func ElbowPlan(start, end geometry.Point2D) PathPlan {
	if start == end {
		return PathPlan{start}
	}
	if start.X == end.X || start.Y == end.Y {
		return PathPlan{start, end}
	}
	if start.Y < end.Y {
		midX := start.X + (end.X-start.X)/2
		return PathPlan{
			start,
			{X: midX, Y: start.Y},
			{X: midX, Y: end.Y},
			end,
		}
	}
	midY := start.Y + (end.Y-start.Y)/2
	return PathPlan{
		start,
		{X: start.X, Y: midY},
		{X: end.X, Y: midY},
		end,
	}
}

// ClosestSegment returns the index of the plan segment nearest to pos,
// or -1 for plans with fewer than two points. Segment i joins plan
// points i and i+1.
func (p PathPlan) ClosestSegment(pos geometry.Point2D) int {
	if len(p) < 2 {
		return -1
	}
	best := -1
	bestDist := 0.0
	for i := 1; i < len(p); i++ {
		d := geometry.DistanceToSegment(pos, geometry.NewLine(p[i-1], p[i]))
		if best == -1 || d < bestDist {
			best = i - 1
			bestDist = d
		}
	}
	return best
}
