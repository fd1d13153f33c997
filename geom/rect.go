// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import (
	"fmt"
	"image"
	"math"
)

// Precision is the number of decimal places rectangles are rounded to after
// every transform step. It suppresses floating-point noise that would
// otherwise accumulate across deep ancestor chains and defeat the
// unchanged-rectangle comparison.
const Precision = 3

// Rect is an axis-aligned rectangle with float64 origin and size.
//
// A Rect with a non-positive width or height is empty. Empty rectangles are
// the identity for Expand and absorb everything in Reduce.
type Rect struct {
	X, Y float64
	W, H float64
}

// XYWH creates a Rect from origin and size.
func XYWH(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// LTRB creates a Rect from its left, top, right and bottom edges.
func LTRB(left, top, right, bottom float64) Rect {
	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// FromImageRect converts an integer image rectangle to a Rect.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{
		X: float64(r.Min.X),
		Y: float64(r.Min.Y),
		W: float64(r.Dx()),
		H: float64(r.Dy()),
	}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0 || math.IsNaN(r.W) || math.IsNaN(r.H)
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Equal reports whether two rectangles are identical. Any two empty
// rectangles compare equal.
func (r Rect) Equal(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return r.IsEmpty() && o.IsEmpty()
	}
	return r == o
}

// Expand returns the smallest rectangle containing both r and o.
// Empty operands are ignored.
func (r Rect) Expand(o Rect) Rect {
	switch {
	case o.IsEmpty():
		return r
	case r.IsEmpty():
		return o
	}
	return LTRB(
		math.Min(r.X, o.X),
		math.Min(r.Y, o.Y),
		math.Max(r.Right(), o.Right()),
		math.Max(r.Bottom(), o.Bottom()),
	)
}

// Reduce returns the intersection of r and o, or the zero Rect if they do
// not overlap.
func (r Rect) Reduce(o Rect) Rect {
	if r.IsEmpty() || o.IsEmpty() {
		return Rect{}
	}
	out := LTRB(
		math.Max(r.X, o.X),
		math.Max(r.Y, o.Y),
		math.Min(r.Right(), o.Right()),
		math.Min(r.Bottom(), o.Bottom()),
	)
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Outset grows the rectangle by d on every side. A negative d shrinks it.
func (r Rect) Outset(d float64) Rect {
	if r.IsEmpty() {
		return r
	}
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Contains reports whether o lies entirely inside r. An empty o is
// contained in every rectangle.
func (r Rect) Contains(o Rect) bool {
	if o.IsEmpty() {
		return true
	}
	if r.IsEmpty() {
		return false
	}
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether p lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) ContainsPoint(p Point) bool {
	return !r.IsEmpty() && p.X >= r.X && p.Y >= r.Y && p.X < r.Right() && p.Y < r.Bottom()
}

// Corners returns the four corners in clockwise order starting top-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.Right(), Y: r.Y},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.X, Y: r.Bottom()},
	}
}

// BoundingBox returns the axis-aligned bounding box of a point set.
func BoundingBox(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return LTRB(minX, minY, maxX, maxY)
}

// Transform maps the four corners through m and returns their bounding box.
func (r Rect) Transform(m Matrix) Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	if m.IsTranslation() {
		return r.Translate(m.C, m.F)
	}
	c := r.Corners()
	for i := range c {
		c[i] = m.TransformPoint(c[i])
	}
	return BoundingBox(c[:]...)
}

// RotateAbout rotates the rectangle by degrees around (cx, cy) and returns
// the bounding box of the rotated corners.
func (r Rect) RotateAbout(degrees, cx, cy float64) Rect {
	if IsZeroRotation(degrees) {
		return r
	}
	return r.Transform(RotateAbout(degrees, cx, cy))
}

// Round rounds origin and size to the given number of decimal places.
func (r Rect) Round(places int) Rect {
	return Rect{
		X: RoundTo(r.X, places),
		Y: RoundTo(r.Y, places),
		W: RoundTo(r.W, places),
		H: RoundTo(r.H, places),
	}
}

// Pixels returns the smallest integer rectangle covering r (edges rounded
// outward to whole pixels).
func (r Rect) Pixels() image.Rectangle {
	if r.IsEmpty() {
		return image.Rectangle{}
	}
	// Strip rounding noise first so 9.9999999 does not grow to 10 and then 11.
	r = r.Round(Precision)
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.Right())),
		int(math.Ceil(r.Bottom())),
	)
}

// String returns a compact representation for logs and test failures.
func (r Rect) String() string {
	return fmt.Sprintf("{x:%g y:%g w:%g h:%g}", r.X, r.Y, r.W, r.H)
}
