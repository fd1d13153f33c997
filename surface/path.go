// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"math"

	"github.com/gogpu/retained/geom"
	"golang.org/x/image/vector"
)

// verb is a path construction command.
type verb uint8

const (
	verbMoveTo verb = iota
	verbLineTo
	verbQuadTo
	verbCubicTo
	verbClose
)

// pointsPerVerb is the number of coordinate pairs each verb consumes.
var pointsPerVerb = [...]int{verbMoveTo: 1, verbLineTo: 1, verbQuadTo: 2, verbCubicTo: 3, verbClose: 0}

// Path represents a vector path for fill operations.
//
// Example:
//
//	p := surface.NewPath()
//	p.MoveTo(100, 100)
//	p.LineTo(200, 100)
//	p.LineTo(150, 200)
//	p.Close()
//
//	s.Fill(p, style)
type Path struct {
	verbs  []verb
	points []geom.Point
	start  geom.Point
	cur    geom.Point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		verbs:  make([]verb, 0, 16),
		points: make([]geom.Point, 0, 32),
	}
}

// MoveTo starts a new subpath at the given point.
func (p *Path) MoveTo(x, y float64) {
	p.verbs = append(p.verbs, verbMoveTo)
	p.points = append(p.points, geom.Pt(x, y))
	p.start = geom.Pt(x, y)
	p.cur = p.start
}

// LineTo adds a line from the current point to (x, y).
func (p *Path) LineTo(x, y float64) {
	if len(p.verbs) == 0 {
		p.MoveTo(x, y)
		return
	}
	p.verbs = append(p.verbs, verbLineTo)
	p.points = append(p.points, geom.Pt(x, y))
	p.cur = geom.Pt(x, y)
}

// QuadTo adds a quadratic Bezier curve from the current point.
// (cx, cy) is the control point, (x, y) is the endpoint.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	if len(p.verbs) == 0 {
		p.MoveTo(cx, cy)
	}
	p.verbs = append(p.verbs, verbQuadTo)
	p.points = append(p.points, geom.Pt(cx, cy), geom.Pt(x, y))
	p.cur = geom.Pt(x, y)
}

// CubicTo adds a cubic Bezier curve from the current point.
// (c1x, c1y) and (c2x, c2y) are control points, (x, y) is the endpoint.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if len(p.verbs) == 0 {
		p.MoveTo(c1x, c1y)
	}
	p.verbs = append(p.verbs, verbCubicTo)
	p.points = append(p.points, geom.Pt(c1x, c1y), geom.Pt(c2x, c2y), geom.Pt(x, y))
	p.cur = geom.Pt(x, y)
}

// Close closes the current subpath by connecting to the start point.
func (p *Path) Close() {
	if len(p.verbs) == 0 {
		return
	}
	p.verbs = append(p.verbs, verbClose)
	p.cur = p.start
}

// Clear removes all elements from the path.
func (p *Path) Clear() {
	p.verbs = p.verbs[:0]
	p.points = p.points[:0]
	p.start, p.cur = geom.Point{}, geom.Point{}
}

// IsEmpty returns true if the path has no elements.
func (p *Path) IsEmpty() bool {
	return len(p.verbs) == 0
}

// CurrentPoint returns the current point.
func (p *Path) CurrentPoint() geom.Point {
	return p.cur
}

// Bounds returns the bounding box of all points, control points included.
func (p *Path) Bounds() geom.Rect {
	return geom.BoundingBox(p.points...)
}

// Rectangle adds a rectangle to the path.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// kappa is the cubic control distance for a quarter circle of radius 1.
const kappa = 0.5522847498307936

// RoundedRectangle adds a rectangle with circular corners of radius r.
// The radius is clamped to half the shorter side.
func (p *Path) RoundedRectangle(x, y, w, h, r float64) {
	r = math.Min(r, math.Min(w, h)/2)
	if r <= 0 {
		p.Rectangle(x, y, w, h)
		return
	}
	k := r * kappa
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.CubicTo(x+w-r+k, y, x+w, y+r-k, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.CubicTo(x+w, y+h-r+k, x+w-r+k, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.CubicTo(x+r-k, y+h, x, y+h-r+k, x, y+h-r)
	p.LineTo(x, y+r)
	p.CubicTo(x, y+r-k, x+r-k, y, x+r, y)
	p.Close()
}

// Ellipse adds an axis-aligned ellipse centered at (cx, cy).
func (p *Path) Ellipse(cx, cy, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	clone := &Path{
		verbs:  make([]verb, len(p.verbs)),
		points: make([]geom.Point, len(p.points)),
		start:  p.start,
		cur:    p.cur,
	}
	copy(clone.verbs, p.verbs)
	copy(clone.points, p.points)
	return clone
}

// rasterize replays the path into z, shifting every point by -origin so
// that surface coordinates land in the rasterizer's zero-based space.
func (p *Path) rasterize(z *vector.Rasterizer, origin geom.Point) {
	pt := func(i int) (float32, float32) {
		q := p.points[i].Sub(origin)
		return float32(q.X), float32(q.Y)
	}
	i := 0
	open := false
	for _, v := range p.verbs {
		switch v {
		case verbMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(i))
			open = true
		case verbLineTo:
			z.LineTo(pt(i))
		case verbQuadTo:
			bx, by := pt(i)
			cx, cy := pt(i + 1)
			z.QuadTo(bx, by, cx, cy)
		case verbCubicTo:
			bx, by := pt(i)
			cx, cy := pt(i + 1)
			dx, dy := pt(i + 2)
			z.CubeTo(bx, by, cx, cy, dx, dy)
		case verbClose:
			z.ClosePath()
			open = false
		}
		i += pointsPerVerb[v]
	}
	if open {
		z.ClosePath()
	}
}
