// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// Presenter receives the finished frame from a PresentedSurface.
//
// This is the hook a platform adapter implements: a window system blits the
// damaged rectangle to screen, a GPU binding uploads it into a texture.
// Keeping it an interface lets this package stay independent of any window
// or GPU library.
type Presenter interface {
	// Format is the pixel format the platform expects.
	Format() gputypes.TextureFormat

	// Present publishes the damaged part of img. damage is never empty.
	Present(img *image.RGBA, damage image.Rectangle) error

	// Close releases platform resources.
	Close() error
}

// PresentedSurface is a CPU staging surface that forwards only the damaged
// rectangle to a Presenter on Flush.
//
// Example integration with a window backend:
//
//	surface.Register("x11", 100, func(opts surface.Options) (surface.Surface, error) {
//	    win := openWindow(opts.Width, opts.Height)
//	    return surface.NewPresentedSurface(opts.Width, opts.Height, win)
//	}, x11Available)
type PresentedSurface struct {
	*ImageSurface
	presenter Presenter
	damage    image.Rectangle
	closed    bool
}

// NewPresentedSurface creates a presented surface with the given presenter.
// Returns an error if presenter is nil.
func NewPresentedSurface(width, height int, presenter Presenter) (*PresentedSurface, error) {
	if presenter == nil {
		return nil, errors.New("surface: Presenter cannot be nil")
	}
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &PresentedSurface{
		ImageSurface: NewImageSurface(width, height),
		presenter:    presenter,
	}, nil
}

// Format returns the presenter's pixel format.
func (s *PresentedSurface) Format() gputypes.TextureFormat {
	return s.presenter.Format()
}

// AddDamage records r as modified since the last Flush.
func (s *PresentedSurface) AddDamage(r image.Rectangle) {
	s.damage = s.damage.Union(r.Intersect(s.Bounds()))
}

// Damage returns the rectangle accumulated since the last Flush.
func (s *PresentedSurface) Damage() image.Rectangle {
	return s.damage
}

// Clear fills the whole surface and damages all of it.
func (s *PresentedSurface) Clear(c color.Color) {
	s.ImageSurface.Clear(c)
	s.AddDamage(s.Bounds())
}

// ClearRect clears r and damages it.
func (s *PresentedSurface) ClearRect(r image.Rectangle, c color.Color) {
	s.ImageSurface.ClearRect(r, c)
	s.AddDamage(r)
}

// Resize discards content and damages the whole new area.
func (s *PresentedSurface) Resize(width, height int) error {
	if err := s.ImageSurface.Resize(width, height); err != nil {
		return err
	}
	s.damage = s.Bounds()
	return nil
}

// Flush hands the damaged rectangle to the presenter and resets it.
func (s *PresentedSurface) Flush() error {
	if s.closed || s.damage.Empty() {
		return nil
	}
	damage := s.damage
	s.damage = image.Rectangle{}
	return s.presenter.Present(s.Image(), damage)
}

// Close releases the staging image and the presenter.
func (s *PresentedSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.ImageSurface.Close()
	return s.presenter.Close()
}

// Presenter returns the underlying presenter.
// Returns nil if the surface is closed.
func (s *PresentedSurface) Presenter() Presenter {
	if s.closed {
		return nil
	}
	return s.presenter
}

// Verify PresentedSurface implements the surface interfaces.
var (
	_ Surface          = (*PresentedSurface)(nil)
	_ DamageSurface    = (*PresentedSurface)(nil)
	_ ResizableSurface = (*PresentedSurface)(nil)
)
