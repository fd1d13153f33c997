// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectExpand(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"disjoint", XYWH(0, 0, 10, 10), XYWH(20, 5, 10, 10), XYWH(0, 0, 30, 15)},
		{"contained", XYWH(0, 0, 100, 100), XYWH(10, 10, 5, 5), XYWH(0, 0, 100, 100)},
		{"empty receiver", Rect{}, XYWH(3, 4, 5, 6), XYWH(3, 4, 5, 6)},
		{"empty argument", XYWH(3, 4, 5, 6), XYWH(100, 100, 0, 9), XYWH(3, 4, 5, 6)},
		{"both empty", Rect{}, Rect{}, Rect{}},
		{"negative origin", XYWH(-5, -5, 10, 10), XYWH(0, 0, 10, 10), XYWH(-5, -5, 15, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Expand(tt.b))
		})
	}
}

func TestRectReduce(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", XYWH(0, 0, 10, 10), XYWH(5, 5, 10, 10), XYWH(5, 5, 5, 5)},
		{"disjoint", XYWH(0, 0, 10, 10), XYWH(20, 20, 1, 1), Rect{}},
		{"touching edges", XYWH(0, 0, 10, 10), XYWH(10, 0, 10, 10), Rect{}},
		{"inside", XYWH(0, 0, 100, 100), XYWH(10, 10, 5, 5), XYWH(10, 10, 5, 5)},
		{"empty operand", XYWH(0, 0, 100, 100), Rect{}, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Reduce(tt.b)
			assert.Equal(t, tt.want, got)
			assert.True(t, tt.a.Contains(got), "reduction must stay inside the receiver")
		})
	}
}

func TestRectEqualTreatsEmptiesAlike(t *testing.T) {
	assert.True(t, Rect{}.Equal(XYWH(5, 5, 0, 10)))
	assert.False(t, Rect{}.Equal(XYWH(0, 0, 1, 1)))
	assert.True(t, XYWH(1, 2, 3, 4).Equal(XYWH(1, 2, 3, 4)))
}

func TestRectRotateAbout(t *testing.T) {
	r := XYWH(0, 0, 100, 40)

	t.Run("zero and full turns are identity", func(t *testing.T) {
		assert.Equal(t, r, r.RotateAbout(0, 50, 20))
		assert.Equal(t, r, r.RotateAbout(360, 50, 20))
		assert.Equal(t, r, r.RotateAbout(-720, 50, 20))
	})

	t.Run("quarter turn about center swaps extents", func(t *testing.T) {
		got := r.RotateAbout(90, 50, 20).Round(Precision)
		assert.Equal(t, XYWH(30, -30, 40, 100), got)
	})

	t.Run("half turn about origin mirrors", func(t *testing.T) {
		got := r.RotateAbout(180, 0, 0).Round(Precision)
		assert.Equal(t, XYWH(-100, -40, 100, 40), got)
	})

	t.Run("45 degrees grows bounding box", func(t *testing.T) {
		sq := XYWH(0, 0, 10, 10)
		got := sq.RotateAbout(45, 5, 5).Round(Precision)
		assert.InDelta(t, 14.142, got.W, 0.001)
		assert.InDelta(t, 14.142, got.H, 0.001)
		assert.InDelta(t, -2.071, got.X, 0.001)
	})
}

func TestRectRound(t *testing.T) {
	r := XYWH(0.1+0.2, 1.00049, 2.99951, 10)
	assert.Equal(t, XYWH(0.3, 1, 3, 10), r.Round(Precision))
}

func TestRectPixels(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want image.Rectangle
	}{
		{"integral", XYWH(1, 2, 3, 4), image.Rect(1, 2, 4, 6)},
		{"fractional rounds outward", XYWH(0.5, 0.5, 1, 1), image.Rect(0, 0, 2, 2)},
		{"negative", XYWH(-1.5, -0.25, 1, 1), image.Rect(-2, -1, 0, 1)},
		{"noise does not grow", XYWH(0, 0, 9.99999999, 10.0000000001), image.Rect(0, 0, 10, 10)},
		{"empty", Rect{}, image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Pixels())
		})
	}
}

func TestRectContains(t *testing.T) {
	outer := XYWH(0, 0, 10, 10)
	assert.True(t, outer.Contains(XYWH(0, 0, 10, 10)))
	assert.True(t, outer.Contains(Rect{}))
	assert.False(t, outer.Contains(XYWH(5, 5, 10, 1)))
	assert.False(t, Rect{}.Contains(outer))
	assert.True(t, outer.ContainsPoint(Pt(0, 0)))
	assert.False(t, outer.ContainsPoint(Pt(10, 5)))
}

func TestBoundingBox(t *testing.T) {
	assert.Equal(t, Rect{}, BoundingBox())
	assert.Equal(t, LTRB(-1, -2, 3, 4), BoundingBox(Pt(3, -2), Pt(-1, 4), Pt(0, 0)))
}
