package geometry

import "math"

// RectIntersectsLine reports whether the line segment passes within
// tolerance pixels of the rectangle's boundary or interior. Used to test
// whether a candidate connection segment would visually overlap an object.
func RectIntersectsLine(r Rect, line Line, tolerance float64) bool {
	grown := r.Expanded(tolerance)

	if grown.Contains(line.Start) || grown.Contains(line.End) {
		return true
	}

	tl := grown.TopLeft()
	br := grown.BottomRight()
	tr := Point2D{X: br.X, Y: tl.Y}
	bl := Point2D{X: tl.X, Y: br.Y}

	edges := [4]Line{
		{Start: tl, End: tr},
		{Start: tr, End: br},
		{Start: br, End: bl},
		{Start: bl, End: tl},
	}
	for _, edge := range edges {
		if SegmentsIntersect(line, edge) {
			return true
		}
	}
	return false
}

// LineIntersectsAny reports whether the segment overlaps any of the
// obstacle rectangles, short-circuiting on the first hit.
func LineIntersectsAny(line Line, obstacles []Rect, tolerance float64) bool {
	for _, r := range obstacles {
		if RectIntersectsLine(r, line, tolerance) {
			return true
		}
	}
	return false
}

// SegmentsIntersect reports whether two closed line segments share at
// least one point.
func SegmentsIntersect(a, b Line) bool {
	d1 := orientation(b.Start, b.End, a.Start)
	d2 := orientation(b.Start, b.End, a.End)
	d3 := orientation(a.Start, a.End, b.Start)
	d4 := orientation(a.Start, a.End, b.End)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear touching cases
	if d1 == 0 && onSegment(b.Start, b.End, a.Start) {
		return true
	}
	if d2 == 0 && onSegment(b.Start, b.End, a.End) {
		return true
	}
	if d3 == 0 && onSegment(a.Start, a.End, b.Start) {
		return true
	}
	if d4 == 0 && onSegment(a.Start, a.End, b.End) {
		return true
	}
	return false
}

// DistanceToSegment returns the shortest distance from p to the segment.
func DistanceToSegment(p Point2D, line Line) float64 {
	dx := line.End.X - line.Start.X
	dy := line.End.Y - line.Start.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(line.Start)
	}
	t := ((p.X-line.Start.X)*dx + (p.Y-line.Start.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := Point2D{X: line.Start.X + t*dx, Y: line.Start.Y + t*dy}
	return p.Distance(closest)
}

// orientation returns the signed cross product of (b-a) x (c-a):
// positive for counter-clockwise, negative for clockwise, zero when
// collinear.
func orientation(a, b, c Point2D) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// onSegment assumes p is collinear with the segment and reports whether
// it lies within the segment's bounding box.
func onSegment(start, end, p Point2D) bool {
	return p.X >= math.Min(start.X, end.X) && p.X <= math.Max(start.X, end.X) &&
		p.Y >= math.Min(start.Y, end.Y) && p.Y <= math.Max(start.Y, end.Y)
}
