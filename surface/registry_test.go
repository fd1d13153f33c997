// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register(Backend{Name: "image", Priority: 10, Open: openImage})
	return r
}

func TestRegistryPriorityOrder(t *testing.T) {
	r := newTestRegistry()
	r.Register(Backend{Name: "window", Priority: 100, Open: func(Options) (Surface, error) {
		return nil, errors.New("no display")
	}})
	r.Register(Backend{Name: "offline", Priority: 50, Usable: func() bool { return false }})

	assert.Equal(t, []string{"window", "offline", "image"}, r.Backends(false))
	assert.Equal(t, []string{"window", "image"}, r.Backends(true))

	s, err := r.Open(Options{Width: 8, Height: 8})
	require.NoError(t, err, "falls back past failing backends")
	assert.Equal(t, 8, s.Width())
}

func TestRegistryJoinsFailures(t *testing.T) {
	r := NewRegistry()
	r.Register(Backend{Name: "a", Open: func(Options) (Surface, error) { return nil, errors.New("a down") }})
	r.Register(Backend{Name: "b", Open: openImage})
	_, err := r.Open(Options{})
	assert.ErrorContains(t, err, "a down")
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestRegistryByName(t *testing.T) {
	r := newTestRegistry()
	r.Register(Backend{Name: "offline", Priority: 50, Usable: func() bool { return false }})

	_, err := r.OpenBackend("missing", Options{Width: 1, Height: 1})
	var notFound *BackendNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Name)

	_, err = r.OpenBackend("offline", Options{Width: 1, Height: 1})
	var unavailable *BackendUnavailableError
	require.ErrorAs(t, err, &unavailable)

	b, ok := r.Lookup("image")
	require.True(t, ok)
	assert.Equal(t, 10, b.Priority)

	r.Unregister("image")
	_, ok = r.Lookup("image")
	assert.False(t, ok)
}

func TestRegistryEmpty(t *testing.T) {
	r := NewRegistry()
	_, err := r.Open(Options{Width: 1, Height: 1})
	assert.ErrorIs(t, err, ErrNoBackendAvailable)
	assert.Empty(t, r.Backends(false))
}

func TestBuiltinImageBackend(t *testing.T) {
	assert.Contains(t, Backends(), "image")

	s, err := OpenBackend("image", Options{Width: 16, Height: 9})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 9), s.Bounds())

	_, err = OpenBackend("image", Options{Width: 0, Height: 9})
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}
