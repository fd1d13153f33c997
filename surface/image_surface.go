// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/retained/geom"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// ImageSurface is a CPU-based surface that renders to an *image.RGBA.
//
// Path fills are rasterized with golang.org/x/image/vector. This is the
// default surface implementation and the one composite layers use.
//
// Example:
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	s.Clear(color.White)
//	path := surface.NewPath()
//	path.Ellipse(400, 300, 100, 100)
//	s.Fill(path, surface.FillStyle{Color: color.RGBA{255, 0, 0, 255}})
//
//	img := s.Snapshot()
type ImageSurface struct {
	img *image.RGBA

	// rasterizer is created on first Fill and reused.
	rasterizer *vector.Rasterizer

	// closed tracks if Close has been called
	closed bool
}

// NewImageSurface creates a new CPU-based surface with the given dimensions.
func NewImageSurface(width, height int) *ImageSurface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &ImageSurface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// NewImageSurfaceFromImage creates a surface backed by an existing image.
// The surface renders into the provided image directly and keeps its origin.
func NewImageSurfaceFromImage(img *image.RGBA) *ImageSurface {
	return &ImageSurface{img: img}
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	if s.img == nil {
		return 0
	}
	return s.img.Rect.Dx()
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	if s.img == nil {
		return 0
	}
	return s.img.Rect.Dy()
}

// Bounds returns the pixel rectangle covered by the surface.
func (s *ImageSurface) Bounds() image.Rectangle {
	if s.img == nil {
		return image.Rectangle{}
	}
	return s.img.Rect
}

// Format returns the pixel format (RGBA8).
func (s *ImageSurface) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Clear fills the entire surface with the given color.
func (s *ImageSurface) Clear(c color.Color) {
	if s.closed {
		return
	}
	s.ClearRect(s.img.Rect, c)
}

// ClearRect replaces every pixel inside r with c.
func (s *ImageSurface) ClearRect(r image.Rectangle, c color.Color) {
	if s.closed {
		return
	}
	r = r.Intersect(s.img.Rect)
	if r.Empty() {
		return
	}
	if c == nil {
		c = color.Transparent
	}
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// Fill fills the given path using the specified style.
func (s *ImageSurface) Fill(path *Path, style FillStyle) {
	if s.closed || path == nil || path.IsEmpty() {
		return
	}
	fillColor := style.Color
	if fillColor == nil {
		fillColor = color.Black
	}

	b := s.img.Rect
	if s.rasterizer == nil {
		s.rasterizer = vector.NewRasterizer(b.Dx(), b.Dy())
	} else {
		s.rasterizer.Reset(b.Dx(), b.Dy())
	}
	s.rasterizer.DrawOp = draw.Over
	path.rasterize(s.rasterizer, geom.Pt(float64(b.Min.X), float64(b.Min.Y)))
	s.rasterizer.Draw(s.img, b, image.NewUniform(fillColor), image.Point{})
}

// StrokeRect outlines r with lines of the given width, drawn inside r.
func (s *ImageSurface) StrokeRect(r image.Rectangle, c color.Color, width int) {
	if s.closed || r.Empty() || width <= 0 {
		return
	}
	src := image.NewUniform(c)
	edges := [4]image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		e = e.Intersect(r).Intersect(s.img.Rect)
		if !e.Empty() {
			draw.Draw(s.img, e, src, image.Point{}, draw.Over)
		}
	}
}

// DrawImage composites img onto the surface.
func (s *ImageSurface) DrawImage(img image.Image, opts *DrawImageOptions) {
	if s.closed || img == nil {
		return
	}
	o := DefaultDrawImageOptions()
	if opts != nil {
		o = opts
	}
	if o.Alpha <= 0 {
		return
	}

	sr := img.Bounds()
	if o.SrcRect != nil {
		sr = o.SrcRect.Intersect(sr)
	}
	clip := s.img.Rect
	if o.Clip != nil {
		clip = clip.Intersect(*o.Clip)
	}
	if sr.Empty() || clip.Empty() {
		return
	}
	dst, ok := s.img.SubImage(clip).(*image.RGBA)
	if !ok {
		return
	}

	m := o.Transform
	if m == (geom.Matrix{}) {
		m = geom.Identity()
	}
	if o.Shadow != nil && o.Shadow.Color != nil {
		drawShadow(dst, img, sr, m, o)
	}
	drawTransformed(dst, img, sr, m, o.Alpha, o.Filter)
}

// Flush ensures all pending operations are complete.
// For ImageSurface, this is a no-op.
func (s *ImageSurface) Flush() error {
	return nil
}

// Snapshot returns a copy of the current surface contents.
func (s *ImageSurface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}
	result := image.NewRGBA(s.img.Rect)
	copy(result.Pix, s.img.Pix)
	return result
}

// Close releases resources associated with the surface.
func (s *ImageSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.img = nil
	s.rasterizer = nil
	return nil
}

// Resize replaces the backing image with a transparent one of the new size.
func (s *ImageSurface) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if s.closed {
		return ErrClosed
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	s.rasterizer = nil
	return nil
}

// Image returns the underlying image.RGBA.
// This is a direct reference, not a copy.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// drawTransformed blits sr of src through m with a uniform alpha.
func drawTransformed(dst *image.RGBA, src image.Image, sr image.Rectangle, m geom.Matrix, alpha float64, filter Filter) {
	var mask image.Image
	if alpha < 1 {
		mask = image.NewUniform(color.Alpha16{A: uint16(math.Round(alpha * 0xffff))})
	}

	if m.IsIntegerTranslation() {
		off := image.Pt(int(m.C), int(m.F))
		r := sr.Add(off).Intersect(dst.Rect)
		if r.Empty() {
			return
		}
		draw.DrawMask(dst, r, src, r.Min.Sub(off), mask, image.Point{}, draw.Over)
		return
	}

	var opts *xdraw.Options
	if mask != nil {
		opts = &xdraw.Options{DstMask: mask}
	}
	var t xdraw.Transformer = xdraw.BiLinear
	if filter == FilterNearest {
		t = xdraw.NearestNeighbor
	}
	t.Transform(dst, m.Aff3(), src, sr, xdraw.Over, opts)
}

// drawShadow renders a blurred, tinted silhouette of src beneath it. The
// silhouette is built in source space and shares the image transform, so a
// rotated image casts a rotated shadow.
func drawShadow(dst *image.RGBA, src image.Image, sr image.Rectangle, m geom.Matrix, o *DrawImageOptions) {
	sh := o.Shadow
	pad := int(math.Ceil(math.Max(sh.Blur, 0)))
	silhouette := image.NewRGBA(image.Rect(0, 0, sr.Dx()+2*pad, sr.Dy()+2*pad))
	inner := image.Rect(pad, pad, pad+sr.Dx(), pad+sr.Dy())
	draw.DrawMask(silhouette, inner, image.NewUniform(sh.Color), image.Point{}, src, sr.Min, draw.Src)

	var shadow image.Image = silhouette
	if sh.Blur > 0 {
		shadow = blur.Gaussian(silhouette, sh.Blur/2)
	}

	place := geom.Translate(float64(sr.Min.X-pad)+sh.OffsetX, float64(sr.Min.Y-pad)+sh.OffsetY)
	drawTransformed(dst, shadow, shadow.Bounds(), m.Multiply(place), o.Alpha, o.Filter)
}

// Verify ImageSurface implements the surface interfaces.
var (
	_ Surface          = (*ImageSurface)(nil)
	_ ResizableSurface = (*ImageSurface)(nil)
	_ Sourced          = (*ImageSurface)(nil)
)
