// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// Surface is the core rendering target abstraction.
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine, or external synchronization must be used.
//
// Example usage:
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	s.Clear(color.White)
//	s.Fill(path, surface.FillStyle{Color: color.RGBA{255, 0, 0, 255}})
//	img := s.Snapshot()
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Bounds returns the pixel rectangle the surface covers. The origin may
	// be non-zero.
	Bounds() image.Rectangle

	// Format returns the pixel format of the surface.
	Format() gputypes.TextureFormat

	// Clear fills the entire surface with the given color.
	Clear(c color.Color)

	// ClearRect replaces the pixels inside r (clipped to Bounds) with c.
	ClearRect(r image.Rectangle, c color.Color)

	// Fill fills the given path using the specified style.
	// The path is not modified or consumed.
	Fill(path *Path, style FillStyle)

	// DrawImage composites img onto the surface.
	// If opts is nil, default options are used.
	DrawImage(img image.Image, opts *DrawImageOptions)

	// StrokeRect outlines r with lines of the given width, inside r.
	StrokeRect(r image.Rectangle, c color.Color, width int)

	// Flush ensures all pending drawing operations are complete.
	// For CPU surfaces, this is typically a no-op.
	Flush() error

	// Snapshot returns the current surface contents as an RGBA image.
	// The returned image is a copy; modifications to it do not affect the surface.
	Snapshot() *image.RGBA

	// Close releases all resources associated with the surface.
	// After Close, the surface must not be used.
	// Close is idempotent; multiple calls are safe.
	Close() error
}

// ResizableSurface is an optional interface for surfaces that support resizing.
type ResizableSurface interface {
	Surface

	// Resize changes the surface dimensions.
	// Existing content is discarded.
	Resize(width, height int) error
}

// DamageSurface is an optional interface for surfaces that want to know
// which rectangle changed since the last Flush.
type DamageSurface interface {
	Surface

	// AddDamage records r as modified.
	AddDamage(r image.Rectangle)
}

// Sourced is implemented by surfaces that expose their pixels as an image
// that can be composited onto another surface without a copy.
type Sourced interface {
	// Image returns the backing image. It shares memory with the surface.
	Image() *image.RGBA
}
