// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPresenter struct {
	damages []image.Rectangle
	closed  int
}

func (p *recordingPresenter) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}

func (p *recordingPresenter) Present(_ *image.RGBA, damage image.Rectangle) error {
	p.damages = append(p.damages, damage)
	return nil
}

func (p *recordingPresenter) Close() error {
	p.closed++
	return nil
}

func TestPresentedSurfaceFlushesDamageOnly(t *testing.T) {
	p := &recordingPresenter{}
	s, err := NewPresentedSurface(100, 50, p)
	require.NoError(t, err)
	assert.Equal(t, gputypes.TextureFormatBGRA8Unorm, s.Format())

	require.NoError(t, s.Flush())
	assert.Empty(t, p.damages, "nothing to present before any damage")

	s.ClearRect(image.Rect(10, 10, 20, 20), red)
	s.AddDamage(image.Rect(15, 5, 30, 12))
	s.AddDamage(image.Rect(90, 40, 200, 200))
	require.NoError(t, s.Flush())

	require.Len(t, p.damages, 1)
	assert.Equal(t, image.Rect(10, 5, 100, 50), p.damages[0])
	assert.True(t, s.Damage().Empty())
}

func TestPresentedSurfaceResizeDamagesAll(t *testing.T) {
	p := &recordingPresenter{}
	s, err := NewPresentedSurface(10, 10, p)
	require.NoError(t, err)
	require.NoError(t, s.Resize(20, 5))
	assert.Equal(t, image.Rect(0, 0, 20, 5), s.Damage())
}

func TestPresentedSurfaceClose(t *testing.T) {
	p := &recordingPresenter{}
	s, err := NewPresentedSurface(10, 10, p)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, p.closed)
	assert.Nil(t, s.Presenter())
}

func TestNewPresentedSurfaceValidation(t *testing.T) {
	_, err := NewPresentedSurface(10, 10, nil)
	assert.Error(t, err)
	_, err = NewPresentedSurface(0, 10, &recordingPresenter{})
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}
