// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"cmp"
	"errors"
	"slices"
	"sync"
)

// Opener creates a surface from options.
type Opener func(opts Options) (Surface, error)

// Backend is a registered source of output surfaces.
type Backend struct {
	Name string

	// Priority orders automatic selection, highest first. Presented window
	// surfaces use 100, offscreen images 10.
	Priority int

	Open Opener

	// Usable reports whether the backend can open surfaces right now.
	// It is consulted on every selection.
	Usable func() bool
}

// Registry holds the backends a scene can choose its root surface from.
// Platform adapters register the window surface they present to, so the
// scene picks its target without importing the adapter:
//
//	func init() {
//	    surface.Register(surface.Backend{Name: "x11", Priority: 100, Open: openX11})
//	}
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

var defaultRegistry = NewRegistry()

// Register adds b to the default registry, replacing a backend of the
// same name.
func Register(b Backend) { defaultRegistry.Register(b) }

// Unregister removes the named backend from the default registry.
func Unregister(name string) { defaultRegistry.Unregister(name) }

// Backends returns the usable backends of the default registry in
// selection order.
func Backends() []string { return defaultRegistry.Backends(true) }

// Open opens a surface from the highest-priority usable backend of the
// default registry.
func Open(opts Options) (Surface, error) { return defaultRegistry.Open(opts) }

// OpenBackend opens a surface from the named backend of the default
// registry.
func OpenBackend(name string, opts Options) (Surface, error) {
	return defaultRegistry.OpenBackend(name, opts)
}

// Register adds b, replacing a backend of the same name. A nil Usable
// means always usable.
func (r *Registry) Register(b Backend) {
	if b.Usable == nil {
		b.Usable = func() bool { return true }
	}
	r.mu.Lock()
	r.backends[b.Name] = b
	r.mu.Unlock()
}

// Unregister removes the named backend.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	delete(r.backends, name)
	r.mu.Unlock()
}

// Lookup returns the named backend.
func (r *Registry) Lookup(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// Backends returns backend names by descending priority, ties by name.
// With usableOnly set, backends that cannot open surfaces are skipped.
func (r *Registry) Backends(usableOnly bool) []string {
	r.mu.RLock()
	list := make([]Backend, 0, len(r.backends))
	for _, b := range r.backends {
		if !usableOnly || b.Usable() {
			list = append(list, b)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(list, func(a, b Backend) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	names := make([]string, len(list))
	for i, b := range list {
		names[i] = b.Name
	}
	return names
}

// Open tries every usable backend in priority order and returns the first
// surface that opens. The errors of failed backends are joined.
func (r *Registry) Open(opts Options) (Surface, error) {
	names := r.Backends(true)
	if len(names) == 0 {
		return nil, ErrNoBackendAvailable
	}
	var errs []error
	for _, name := range names {
		s, err := r.OpenBackend(name, opts)
		if err == nil {
			return s, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// OpenBackend opens a surface from the named backend.
func (r *Registry) OpenBackend(name string, opts Options) (Surface, error) {
	b, ok := r.Lookup(name)
	switch {
	case !ok:
		return nil, &BackendNotFoundError{Name: name}
	case !b.Usable():
		return nil, &BackendUnavailableError{Name: name}
	}
	return b.Open(opts)
}

var (
	// ErrNoBackendAvailable is returned when no usable backend is registered.
	ErrNoBackendAvailable = errors.New("surface: no backend available")

	// ErrInvalidDimensions is returned for non-positive surface sizes.
	ErrInvalidDimensions = errors.New("surface: invalid dimensions")

	// ErrClosed is returned when operating on a closed surface.
	ErrClosed = errors.New("surface: closed")
)

// BackendNotFoundError reports a backend name that is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// BackendUnavailableError reports a registered backend that is not usable.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}

func openImage(opts Options) (Surface, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, ErrInvalidDimensions
	}
	s := NewImageSurface(opts.Width, opts.Height)
	if opts.BackgroundColor != nil {
		s.Clear(opts.BackgroundColor)
	}
	return s, nil
}

func init() {
	Register(Backend{Name: "image", Priority: 10, Open: openImage})
}
