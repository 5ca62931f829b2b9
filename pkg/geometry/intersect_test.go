package geometry

import (
	"math"
	"testing"
)

func TestRectIntersectsLine(t *testing.T) {
	rect := NewRect(40, 0, 20, 10)

	tests := []struct {
		name      string
		line      Line
		tolerance float64
		want      bool
	}{
		{
			name:      "crossing through",
			line:      NewLine(NewPoint2D(0, 5), NewPoint2D(100, 5)),
			tolerance: 0,
			want:      true,
		},
		{
			name:      "well clear",
			line:      NewLine(NewPoint2D(0, 50), NewPoint2D(100, 50)),
			tolerance: 3,
			want:      false,
		},
		{
			name:      "endpoint inside",
			line:      NewLine(NewPoint2D(50, 5), NewPoint2D(200, 5)),
			tolerance: 0,
			want:      true,
		},
		{
			name:      "within tolerance of edge",
			line:      NewLine(NewPoint2D(0, 12), NewPoint2D(100, 12)),
			tolerance: 3,
			want:      true,
		},
		{
			name:      "outside tolerance of edge",
			line:      NewLine(NewPoint2D(0, 12), NewPoint2D(100, 12)),
			tolerance: 1,
			want:      false,
		},
		{
			name:      "vertical line through",
			line:      NewLine(NewPoint2D(50, -20), NewPoint2D(50, 30)),
			tolerance: 0,
			want:      true,
		},
		{
			name:      "vertical line beside",
			line:      NewLine(NewPoint2D(70, -20), NewPoint2D(70, 30)),
			tolerance: 3,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RectIntersectsLine(rect, tt.line, tt.tolerance); got != tt.want {
				t.Errorf("RectIntersectsLine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineIntersectsAny(t *testing.T) {
	obstacles := []Rect{
		NewRect(0, 0, 10, 10),
		NewRect(50, 50, 10, 10),
	}
	hit := NewLine(NewPoint2D(55, 0), NewPoint2D(55, 100))
	if !LineIntersectsAny(hit, obstacles, 0) {
		t.Error("line through second obstacle not detected")
	}
	miss := NewLine(NewPoint2D(30, 0), NewPoint2D(30, 100))
	if LineIntersectsAny(miss, obstacles, 3) {
		t.Error("clear line reported as hit")
	}
	if LineIntersectsAny(hit, nil, 0) {
		t.Error("empty obstacle list reported a hit")
	}
}

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Line
		want bool
	}{
		{
			name: "crossing X",
			a:    NewLine(NewPoint2D(0, 0), NewPoint2D(10, 10)),
			b:    NewLine(NewPoint2D(0, 10), NewPoint2D(10, 0)),
			want: true,
		},
		{
			name: "parallel apart",
			a:    NewLine(NewPoint2D(0, 0), NewPoint2D(10, 0)),
			b:    NewLine(NewPoint2D(0, 5), NewPoint2D(10, 5)),
			want: false,
		},
		{
			name: "touching at endpoint",
			a:    NewLine(NewPoint2D(0, 0), NewPoint2D(10, 0)),
			b:    NewLine(NewPoint2D(10, 0), NewPoint2D(10, 10)),
			want: true,
		},
		{
			name: "collinear overlapping",
			a:    NewLine(NewPoint2D(0, 0), NewPoint2D(10, 0)),
			b:    NewLine(NewPoint2D(5, 0), NewPoint2D(20, 0)),
			want: true,
		},
		{
			name: "collinear disjoint",
			a:    NewLine(NewPoint2D(0, 0), NewPoint2D(10, 0)),
			b:    NewLine(NewPoint2D(15, 0), NewPoint2D(25, 0)),
			want: false,
		},
		{
			name: "T junction",
			a:    NewLine(NewPoint2D(0, 0), NewPoint2D(10, 0)),
			b:    NewLine(NewPoint2D(5, -5), NewPoint2D(5, 0)),
			want: true,
		},
		{
			name: "near miss",
			a:    NewLine(NewPoint2D(0, 0), NewPoint2D(10, 0)),
			b:    NewLine(NewPoint2D(5, 0.1), NewPoint2D(5, 5)),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentsIntersect(tt.a, tt.b); got != tt.want {
				t.Errorf("SegmentsIntersect = %v, want %v", got, tt.want)
			}
			// Intersection is symmetric.
			if got := SegmentsIntersect(tt.b, tt.a); got != tt.want {
				t.Errorf("SegmentsIntersect swapped = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceToSegment(t *testing.T) {
	seg := NewLine(NewPoint2D(0, 0), NewPoint2D(10, 0))

	tests := []struct {
		name string
		p    Point2D
		want float64
	}{
		{"above middle", NewPoint2D(5, 3), 3},
		{"beyond end", NewPoint2D(14, 3), 5},
		{"before start", NewPoint2D(-3, 4), 5},
		{"on segment", NewPoint2D(7, 0), 0},
	}
	for _, tt := range tests {
		if got := DistanceToSegment(tt.p, seg); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: DistanceToSegment = %v, want %v", tt.name, got, tt.want)
		}
	}

	degenerate := NewLine(NewPoint2D(2, 2), NewPoint2D(2, 2))
	if got := DistanceToSegment(NewPoint2D(5, 6), degenerate); math.Abs(got-5) > 1e-12 {
		t.Errorf("degenerate segment distance = %v, want 5", got)
	}
}
