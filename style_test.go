package retained

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCompositeBoundary(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Style)
		root   bool
		want   bool
	}{
		{"plain", func(*Style) {}, false, false},
		{"root", func(*Style) {}, true, true},
		{"half alpha", func(s *Style) { s.Alpha = 0.5 }, false, true},
		{"zero alpha", func(s *Style) { s.Alpha = 0 }, false, false},
		{"rotated", func(s *Style) { s.Rotation.Degrees = 15 }, false, true},
		{"full turn", func(s *Style) { s.Rotation.Degrees = 720 }, false, false},
		{"negative turn", func(s *Style) { s.Rotation.Degrees = -360 }, false, false},
		{"shadow", func(s *Style) { s.Shadow = Shadow{Size: 4, Color: color.Black} }, false, true},
		{"shadow without color", func(s *Style) { s.Shadow.Size = 4 }, false, false},
		{"shadow without size", func(s *Style) { s.Shadow.Color = color.Black }, false, false},
		{"isolate", func(s *Style) { s.Isolate = true }, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := DefaultStyle()
			tt.modify(&st)
			assert.Equal(t, tt.want, IsCompositeBoundary(st, tt.root))
		})
	}
}

func TestEffectOf(t *testing.T) {
	assert.Equal(t, effectRender, effectOf("made-up"), "unknown names repaint")
	assert.Equal(t, effectMeasure, effectOf(StyleWidth))
	assert.Equal(t, effectParentLayout, effectOf(StyleX))
	assert.NotZero(t, effectOf(StyleAlpha)&effectComposite)
	assert.NotZero(t, effectOf(StyleVisible)&effectRegion)
}

func TestInstanceStyles(t *testing.T) {
	n := NewNode("n")
	n.SetStyle(StyleAlpha, 1.5)
	n.SetStyle(StyleRotation, 45)
	n.SetStyle(StyleShadowColor, color.White)
	n.SetStyle(StyleClipContent, true)

	st := InstanceStyles{Defaults: DefaultStyle()}.ResolveStyle(n)
	assert.True(t, st.Visible)
	assert.Equal(t, 1.0, st.Alpha, "alpha is clamped")
	assert.Equal(t, 45.0, st.Rotation.Degrees)
	assert.True(t, st.ClipContent)
	assert.False(t, st.HasShadow(), "color alone casts nothing")
	assert.True(t, st.HasRotation())
	assert.True(t, st.Drawn())

	st = InstanceStyles{Defaults: Style{Alpha: 0.3}}.ResolveStyle(NewNode("bare"))
	assert.False(t, st.Visible)
	assert.False(t, st.Drawn())
}
