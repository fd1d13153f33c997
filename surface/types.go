// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/retained/geom"
)

// FillStyle defines how to fill a path.
type FillStyle struct {
	// Color is the fill color.
	Color color.Color
}

// DefaultFillStyle returns a FillStyle with default values.
func DefaultFillStyle() FillStyle {
	return FillStyle{Color: color.Black}
}

// WithColor returns a copy with the specified color.
func (f FillStyle) WithColor(c color.Color) FillStyle {
	f.Color = c
	return f
}

// Shadow describes a drop shadow cast by an image drawn with DrawImage.
// Offsets and blur are in source-image units, so the shadow follows the
// image's transform.
type Shadow struct {
	// Color is the shadow color. A nil color disables the shadow.
	Color color.Color

	// Blur is the blur radius in pixels.
	Blur float64

	// OffsetX and OffsetY displace the shadow from the image.
	OffsetX, OffsetY float64
}

// DrawImageOptions defines options for drawing images.
type DrawImageOptions struct {
	// SrcRect is the source rectangle within the image.
	// If nil, the entire image is used.
	SrcRect *image.Rectangle

	// Transform maps source-image coordinates to surface coordinates.
	// The zero Matrix is treated as identity.
	Transform geom.Matrix

	// Clip restricts drawing to a rectangle in surface coordinates.
	// If nil, the whole surface is drawable.
	Clip *image.Rectangle

	// Alpha is the opacity (0.0 = transparent, 1.0 = opaque).
	// Default: 1.0
	Alpha float64

	// Filter is the interpolation mode for non-integral transforms.
	Filter Filter

	// Shadow, when non-nil with a non-nil Color, is drawn beneath the image.
	Shadow *Shadow
}

// DefaultDrawImageOptions returns DrawImageOptions with default values.
func DefaultDrawImageOptions() *DrawImageOptions {
	return &DrawImageOptions{
		Transform: geom.Identity(),
		Alpha:     1.0,
		Filter:    FilterBilinear,
	}
}

// Filter specifies the interpolation mode for transformed blits.
type Filter uint8

const (
	// FilterBilinear uses bilinear interpolation.
	FilterBilinear Filter = iota

	// FilterNearest uses nearest-neighbor interpolation.
	FilterNearest
)

// Options configures surface creation.
type Options struct {
	// Width is the surface width in pixels.
	Width int

	// Height is the surface height in pixels.
	Height int

	// BackgroundColor is the initial background color.
	// Default: transparent
	BackgroundColor color.Color

	// Custom options for specific backends.
	Custom map[string]any
}

// DefaultOptions returns Options with default values.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:  width,
		Height: height,
	}
}
