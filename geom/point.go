// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import "math"

// Point represents a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Round returns the point with both coordinates rounded to the given
// number of decimal places.
func (p Point) Round(places int) Point {
	return Point{X: RoundTo(p.X, places), Y: RoundTo(p.Y, places)}
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
