// Package patch holds the canvas document model: objects, the
// connections between their iolets, undo history, and JSON persistence.
package patch

import (
	"patch-router/pkg/geometry"
)

// ioletInset keeps iolet positions away from an object's corners.
const ioletInset = 8.0

// Object is a rectangular patch object with inlets along its top edge
// and outlets along its bottom edge.
type Object struct {
	ID         int           `json:"id"`
	Title      string        `json:"title"`
	Bounds     geometry.Rect `json:"bounds"`
	NumInlets  int           `json:"num_inlets"`
	NumOutlets int           `json:"num_outlets"`
}

// InletPosition returns the canvas position of inlet idx on the top edge.
func (o *Object) InletPosition(idx int) geometry.Point2D {
	return ioletPosition(o.Bounds, o.NumInlets, idx, false)
}

// OutletPosition returns the canvas position of outlet idx on the
// bottom edge.
func (o *Object) OutletPosition(idx int) geometry.Point2D {
	return ioletPosition(o.Bounds, o.NumOutlets, idx, true)
}

// ioletPosition spreads count iolets across one horizontal edge, first
// at the left inset, last at the right inset.
func ioletPosition(b geometry.Rect, count, idx int, bottom bool) geometry.Point2D {
	y := b.Y
	if bottom {
		y = b.Y + b.Height
	}
	x := b.X + ioletInset
	if count > 1 {
		span := b.Width - 2*ioletInset
		x += span * float64(idx) / float64(count-1)
	}
	return geometry.Point2D{X: x, Y: y}
}
