// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the raster targets the scene pipeline draws into.
//
// Surface decouples the compositor from the concrete pixel store. The same
// compositing code runs against:
//
//   - ImageSurface: CPU rendering into an *image.RGBA (composite layers,
//     node content, the default root output)
//   - PresentedSurface: an ImageSurface whose damaged rectangle is handed to
//     a platform Presenter after every frame
//   - third-party backends via the registry
//
// # Coordinate spaces
//
// An ImageSurface may have a non-zero origin. Composite layers are allocated
// with bounds equal to the pixel-snapped union of their content, which can
// start at negative coordinates when children overflow or shadows spread. All
// drawing methods take coordinates in that space.
//
// # Compositing
//
// DrawImage places an image through an affine transform with optional global
// alpha, clip rectangle and drop shadow. Whole-pixel translations use
// image/draw directly; everything else is resampled with golang.org/x/image/draw.
// Shadows are blurred with github.com/anthonynsimon/bild.
//
// # Registry
//
// Backends register an opener by name and priority:
//
//	surface.Register(surface.Backend{Name: "window", Priority: 100, Open: openWindow})
//
//	// Later:
//	s, err := surface.OpenBackend("window", surface.Options{Width: 800, Height: 600})
//	// or the best usable backend:
//	s, err := surface.Open(surface.Options{Width: 800, Height: 600})
package surface
