// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package geom provides the 2D value types used by the scene pipeline:
// axis-aligned rectangles, points and affine matrices.
//
// All types are plain values. Operations return new values and never mutate
// their receiver, so rectangles can be passed freely through the ancestor
// walks of the redraw calculator without shared scratch state.
//
// An empty rectangle (zero or negative width or height) is the "null"
// rectangle: merging it into another rectangle is a no-op, and every
// reduction that produces no overlap yields an empty rectangle.
package geom
