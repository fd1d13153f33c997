package retained

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/retained/geom"
	"github.com/gogpu/retained/surface"
)

// rotatedCard builds a rotated boundary "card" with a leaf inside.
func rotatedCard(t *testing.T) (s *Scene, card, leaf *Node) {
	t.Helper()
	s = newTestScene(t, 200, 200, WithBackground(white))
	card = Solid("card", 50, 50, 80, 40, red)
	card.SetStyle(StyleRotation, 30.0)
	card.SetStyle(StyleRotationCenterX, 40.0)
	card.SetStyle(StyleRotationCenterY, 20.0)
	leaf = Solid("leaf", 10, 10, 20, 20, blue)
	mustAdd(t, s.Root(), card)
	mustAdd(t, card, leaf)
	mustFrame(t, s)
	require.True(t, card.IsCompositeBoundary())
	require.False(t, leaf.IsCompositeBoundary())
	return s, card, leaf
}

func TestRepaintInsideLayerReusesBuffer(t *testing.T) {
	s, card, leaf := rotatedCard(t)
	buf := card.layer.buf
	require.NotNil(t, buf)
	assert.Equal(t, image.Rect(0, 0, 80, 40), card.layer.bounds)

	leaf.SetStyle(StyleBackground, green)
	st := mustFrame(t, s)

	assert.Zero(t, st.Reallocations)
	assert.Same(t, buf, card.layer.buf)
	assert.Equal(t, green, buf.RGBAAt(20, 20))
	assert.Equal(t, red, buf.RGBAAt(5, 5))

	// The leaf's area, rotated into the root, is what got redrawn.
	want := geom.XYWH(10, 10, 20, 20).Transform(card.transform())
	assert.True(t, containsApprox(st.Region, want), "region %v does not cover %v", st.Region, want)
	assert.False(t, st.Region.Contains(geom.XYWH(0, 0, 80, 40).Transform(card.transform())))

	center := card.LocalToScene(geom.Pt(20, 20))
	assert.Equal(t, green, pixel(s, int(center.X), int(center.Y)))
}

func TestLayerGrowthReallocates(t *testing.T) {
	s, card, leaf := rotatedCard(t)

	leaf.SetStyle(StyleWidth, 100.0)
	st := mustFrame(t, s)

	assert.Equal(t, 1, st.Reallocations)
	assert.Equal(t, image.Rect(0, 0, 110, 40), card.layer.bounds)

	leaf.SetStyle(StyleWidth, 20.0)
	st = mustFrame(t, s)
	assert.Equal(t, 1, st.Reallocations, "layer shrinks back")
	assert.Equal(t, image.Rect(0, 0, 80, 40), card.layer.bounds)
	assert.False(t, card.layer.visibleStale)
}

func TestAlphaLayerBlends(t *testing.T) {
	s := newTestScene(t, 100, 100, WithBackground(white))
	n := Solid("ghost", 10, 10, 40, 40, red)
	n.SetStyle(StyleAlpha, 0.5)
	mustAdd(t, s.Root(), n)
	mustFrame(t, s)

	require.True(t, n.IsCompositeBoundary())
	c := pixel(s, 30, 30)
	assert.Equal(t, uint8(0xff), c.R)
	assert.InDelta(t, 0x80, int(c.G), 2)
	assert.Equal(t, white, pixel(s, 60, 60))

	// Changing alpha recomposites the whole layer without repainting it.
	n.SetStyle(StyleAlpha, 0.25)
	st := mustFrame(t, s)
	assert.Zero(t, st.Render)
	assert.True(t, containsApprox(st.Region, geom.XYWH(10, 10, 40, 40)))
	assert.InDelta(t, 0xbf, int(pixel(s, 30, 30).G), 2)

	// Fully opaque drops the layer.
	n.SetStyle(StyleAlpha, 1.0)
	mustFrame(t, s)
	assert.False(t, n.IsCompositeBoundary())
	assert.Nil(t, n.layer)
	assert.Equal(t, red, pixel(s, 30, 30))
}

func TestRotatedLayerPixels(t *testing.T) {
	s := newTestScene(t, 150, 150)
	n := Solid("bar", 50, 50, 40, 20, red)
	n.SetStyle(StyleRotation, 90.0)
	n.SetStyle(StyleRotationCenterX, 20.0)
	n.SetStyle(StyleRotationCenterY, 10.0)
	mustAdd(t, s.Root(), n)
	mustFrame(t, s)

	// Rotated a quarter turn about its center the bar spans x 60..80, y 40..80.
	assert.Equal(t, red, pixel(s, 70, 45))
	assert.Equal(t, red, pixel(s, 65, 75))
	assert.Zero(t, pixel(s, 55, 55).A)
	assert.Zero(t, pixel(s, 85, 60).A)

	sb := n.ScreenBounds()
	assert.InDelta(t, 60, sb.X, 1e-9)
	assert.InDelta(t, 40, sb.Y, 1e-9)
	assert.InDelta(t, 20, sb.W, 1e-9)
	assert.InDelta(t, 40, sb.H, 1e-9)
}

func TestShadowLayerPixels(t *testing.T) {
	s := newTestScene(t, 100, 100, WithBackground(white))
	n := Solid("caster", 10, 10, 20, 20, red)
	n.SetStyle(StyleShadowSize, 2.0)
	n.SetStyle(StyleShadowColor, color.Black)
	n.SetStyle(StyleShadowOffsetX, 15.0)
	n.SetStyle(StyleShadowOffsetY, 15.0)
	mustAdd(t, s.Root(), n)
	mustFrame(t, s)

	assert.Equal(t, red, pixel(s, 15, 15))
	shadow := pixel(s, 38, 38)
	assert.Less(t, shadow.R, uint8(0x40), "shadow darkens the background")
	assert.Equal(t, white, pixel(s, 60, 60))

	// Moving the shadow erases its old position.
	n.SetStyle(StyleShadowOffsetX, -8.0)
	n.SetStyle(StyleShadowOffsetY, 0.0)
	st := mustFrame(t, s)
	assert.Zero(t, st.Render)
	assert.Equal(t, white, pixel(s, 38, 38))
	assert.Less(t, pixel(s, 5, 20).R, uint8(0x80))
}

func TestMovedOffsetShadowLeavesNoTrail(t *testing.T) {
	caster := func(x, y float64) *Node {
		n := Solid("caster", x, y, 40, 30, red)
		n.SetStyle(StyleShadowSize, 5.0)
		n.SetStyle(StyleShadowColor, color.Black)
		n.SetStyle(StyleShadowOffsetX, 10.0)
		n.SetStyle(StyleShadowOffsetY, 4.0)
		return n
	}

	s := newTestScene(t, 160, 120, WithBackground(white))
	n := caster(20, 20)
	mustAdd(t, s.Root(), n)
	mustFrame(t, s)
	n.SetStyle(StyleX, 90.0)
	n.SetStyle(StyleY, 70.0)
	mustFrame(t, s)

	fresh := newTestScene(t, 160, 120, WithBackground(white))
	mustAdd(t, fresh.Root(), caster(90, 70))
	mustFrame(t, fresh)

	got := s.Surface().(surface.Sourced).Image()
	want := fresh.Surface().(surface.Sourced).Image()
	var diff []image.Point
	for y := range 120 {
		for x := range 160 {
			if got.RGBAAt(x, y) != want.RGBAAt(x, y) {
				diff = append(diff, image.Pt(x, y))
			}
		}
	}
	assert.Empty(t, diff, "incremental frame differs from a fresh render")
	assert.Equal(t, white, pixel(s, 70, 45), "old shadow erased")
}

func TestNestedLayerPropagatesToRoot(t *testing.T) {
	s := newTestScene(t, 200, 200, WithBackground(white))
	outer := Solid("outer", 20, 20, 120, 120, color.RGBA{G: 0x80, A: 0xff})
	outer.SetStyle(StyleIsolate, true)
	inner := Solid("inner", 30, 30, 40, 40, red)
	inner.SetStyle(StyleAlpha, 0.5)
	dot := Solid("dot", 10, 10, 10, 10, blue)
	mustAdd(t, s.Root(), outer)
	mustAdd(t, outer, inner)
	mustAdd(t, inner, dot)
	mustFrame(t, s)

	require.True(t, outer.IsCompositeBoundary())
	require.True(t, inner.IsCompositeBoundary())
	assert.Same(t, outer, inner.compositeAncestor())

	dot.SetStyle(StyleBackground, green)
	st := mustFrame(t, s)
	assert.Equal(t, 3, st.Composite, "inner, outer and root recomposite")
	assert.Zero(t, st.Reallocations)

	// dot sits at 20+30+10 = 60 in scene space.
	got := pixel(s, 65, 65)
	assert.Zero(t, got.R)
	assert.InDelta(t, 0xbf, int(got.G), 3, "half-transparent green over dark green")
	assert.True(t, containsApprox(st.Region, geom.XYWH(60, 60, 10, 10)))
}

func TestBoundaryPredicateTransitions(t *testing.T) {
	s := newTestScene(t, 100, 100)
	n := Solid("n", 10, 10, 30, 30, red)
	mustAdd(t, s.Root(), n)
	mustFrame(t, s)
	assert.False(t, n.IsCompositeBoundary())

	n.SetStyle(StyleIsolate, true)
	st := mustFrame(t, s)
	assert.True(t, n.IsCompositeBoundary())
	assert.Equal(t, 1, st.Reallocations)
	assert.Equal(t, red, pixel(s, 20, 20))

	n.SetStyle(StyleIsolate, false)
	mustFrame(t, s)
	assert.False(t, n.IsCompositeBoundary())
	assert.Equal(t, red, pixel(s, 20, 20))
	_, ok := n.record(n)
	assert.False(t, ok, "records at the dropped boundary are gone")
}
