package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/retained"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#fff", color.NRGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"#2050a0", color.NRGBA{0x20, 0x50, 0xa0, 0xff}, false},
		{"10203040", color.NRGBA{0x10, 0x20, 0x30, 0x40}, false},
		{"#12345", color.NRGBA{}, true},
		{"#zzzzzz", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseHex(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSceneFile(t *testing.T) {
	sf, err := loadSceneFile(filepath.Join("testdata", "cards.toml"))
	require.NoError(t, err)
	assert.Equal(t, 200, sf.Width)
	require.Len(t, sf.Nodes, 2)
	require.Len(t, sf.Nodes[0].Children, 1)
	assert.Equal(t, "badge", sf.Nodes[0].Children[0].Name)
	require.NotNil(t, sf.Nodes[1].Alpha)
	assert.Equal(t, 0.75, *sf.Nodes[1].Alpha)

	_, err = parseSceneFile([]byte(`width = "wide"`))
	assert.Error(t, err)
	_, err = parseSceneFile([]byte("width = -1"))
	assert.ErrorContains(t, err, "invalid size")
}

func TestDemoRendersFrames(t *testing.T) {
	d, err := newDemo(filepath.Join("testdata", "cards.toml"), false)
	require.NoError(t, err)
	require.Len(t, d.spin, 1)

	dir := t.TempDir()
	require.NoError(t, d.render(3, filepath.Join(dir, "frame-%02d.png")))
	for i := range 3 {
		_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("frame-%02d.png", i)))
		assert.NoError(t, err)
	}
	spinner := d.spin[0].node
	assert.Equal(t, 30.0, spinner.StyleFloat(retained.StyleRotation, 0))
	assert.True(t, spinner.IsCompositeBoundary())

	img := d.img.Image()
	panel := img.RGBAAt(60, 50)
	assert.InDelta(t, 0xa0, int(panel.B), 2)
	assert.InDelta(t, 0x20, int(panel.R), 2)
	// The badge is clipped by the panel.
	badge := img.RGBAAt(125, 85)
	assert.InDelta(t, 0xe0, int(badge.R), 2)
	assert.NotEqual(t, badge, img.RGBAAt(135, 95))
}

func TestDemoReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
width = 50
height = 50
[[nodes]]
name = "a"
width = 10
height = 10
background = "#ff0000"
`), 0o644))
	d, err := newDemo(path, false)
	require.NoError(t, err)
	require.NoError(t, d.render(1, filepath.Join(dir, "out.png")))
	assert.Equal(t, uint8(0xff), d.img.Image().RGBAAt(5, 5).R)

	require.NoError(t, os.WriteFile(path, []byte(`
width = 80
height = 60
[[nodes]]
name = "b"
x = 20
width = 10
height = 10
background = "#0000ff"
`), 0o644))
	require.NoError(t, d.reload())
	require.NoError(t, d.render(1, filepath.Join(dir, "out.png")))
	img := d.img.Image()
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Zero(t, img.RGBAAt(5, 5).A, "old node erased")
	assert.Equal(t, uint8(0xff), img.RGBAAt(25, 5).B)
	require.Len(t, d.scene.Root().Children(), 1)
	assert.Equal(t, "b", d.scene.Root().Children()[0].Name())
}
