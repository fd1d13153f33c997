package retained

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/retained/geom"
	"github.com/gogpu/retained/surface"
)

// validateCompositeRender brings one boundary's layer up to date and
// propagates the repainted area into the enclosing layer.
func (s *Scene) validateCompositeRender(b *Node) {
	l := b.layer
	if l == nil {
		return
	}
	if b.parent == nil {
		s.compositeRoot(b)
		return
	}

	if l.visibleStale {
		recomputeVisible(b)
	}
	if bounds := l.visible.Pixels(); bounds != l.bounds {
		s.pool.Put(l.buf)
		l.buf = s.pool.Get(bounds)
		l.bounds = bounds
		l.redraw = geom.FromImageRect(bounds)
		s.stats.Reallocations++
		Logger().Debug("retained: layer reallocated", "node", b.Name(), "bounds", bounds)
	}

	redraw := l.redraw.Outset(s.opts.margin).Pixels().Intersect(l.bounds)
	if !redraw.Empty() {
		dst := surface.NewImageSurfaceFromImage(l.buf)
		dst.ClearRect(redraw, color.Transparent)
		s.paintLayer(dst, b, redraw)
	}
	s.propagate(b, redraw)

	l.redraw = geom.Rect{}
	l.appearanceChanged = false
}

// compositeRoot repaints the invalidated part of the output surface.
func (s *Scene) compositeRoot(root *Node) {
	l := root.layer
	dst := s.surface
	s.stats.Region = l.redraw
	redraw := l.redraw.Outset(s.opts.margin).Pixels().Intersect(dst.Bounds())
	l.redraw = geom.Rect{}

	damage, _ := dst.(surface.DamageSurface)
	if !s.overlayRect.Empty() {
		// Erasing last frame's outline is not part of the redraw region.
		s.repaintRoot(dst, s.overlayRect)
		if damage != nil {
			damage.AddDamage(s.overlayRect)
		}
		s.overlayRect = image.Rectangle{}
	}
	if !redraw.Empty() {
		s.repaintRoot(dst, redraw)
		if damage != nil {
			damage.AddDamage(redraw)
		}
		if s.opts.overlay != nil {
			dst.StrokeRect(redraw, s.opts.overlay, 1)
			s.overlayRect = redraw
		}
	}
	s.stats.Redrawn = redraw

	if err := dst.Flush(); err != nil {
		s.errs = append(s.errs, fmt.Errorf("retained: flush surface: %w", err))
	}
}

func (s *Scene) repaintRoot(dst surface.Surface, r image.Rectangle) {
	dst.ClearRect(r, s.opts.background)
	s.paintLayer(dst, s.root, r)
}

// paintLayer paints boundary b's own content and its descendants, down to
// nested boundaries, inside clip.
func (s *Scene) paintLayer(dst surface.Surface, b *Node, clip image.Rectangle) {
	if b.content != nil {
		dst.DrawImage(b.content, &surface.DrawImageOptions{
			Transform: geom.Identity(),
			Clip:      &clip,
			Alpha:     1,
		})
	}
	if b.style.ClipContent || b.parent == nil {
		clip = clip.Intersect(geom.XYWH(0, 0, b.width, b.height).Pixels())
	}
	s.paintChildren(dst, b, geom.Identity(), clip)
}

// paintChildren paints p's children; m maps p's coordinates into the
// layer being painted.
func (s *Scene) paintChildren(dst surface.Surface, p *Node, m geom.Matrix, clip image.Rectangle) {
	for _, c := range p.children {
		if clip.Empty() {
			return
		}
		if !c.style.Drawn() {
			continue
		}
		cm := m.Multiply(c.transform())
		if c.composite {
			drawLayer(dst, c, cm, clip)
			continue
		}
		if c.content != nil {
			dst.DrawImage(c.content, &surface.DrawImageOptions{
				Transform: cm,
				Clip:      &clip,
				Alpha:     1,
			})
		}
		cc := clip
		if c.style.ClipContent {
			cc = cc.Intersect(geom.XYWH(0, 0, c.width, c.height).Transform(cm).Pixels())
		}
		s.paintChildren(dst, c, cm, cc)
	}
}

// drawLayer blits a nested boundary's whole buffer with its alpha, rotation
// and shadow.
func drawLayer(dst surface.Surface, c *Node, m geom.Matrix, clip image.Rectangle) {
	l := c.layer
	if l == nil || l.buf == nil {
		return
	}
	opts := &surface.DrawImageOptions{
		Transform: m,
		Clip:      &clip,
		Alpha:     c.style.Alpha,
		Filter:    surface.FilterBilinear,
	}
	if st := c.style; st.HasShadow() {
		opts.Shadow = &surface.Shadow{
			Color:   st.Shadow.Color,
			Blur:    st.Shadow.Size,
			OffsetX: st.Shadow.OffsetX,
			OffsetY: st.Shadow.OffsetY,
		}
	}
	dst.DrawImage(l.buf, opts)
}

// propagate merges the part of b's enclosing layer that b's repaint
// affected into that layer's redraw region.
func (s *Scene) propagate(b *Node, redraw image.Rectangle) {
	a := b.compositeAncestor()
	if a == nil || a.layer == nil {
		return
	}
	l := b.layer
	oldPlaced, oldDrawable := l.placed, l.transformDrawable
	updateTransformRegion(b, a)

	var dirty geom.Rect
	switch {
	case !oldPlaced || l.appearanceChanged || !oldDrawable.Equal(l.transformDrawable):
		dirty = oldDrawable.Expand(l.transformDrawable)
	case !redraw.Empty():
		dirty = b.style.expandShadow(geom.FromImageRect(redraw)).Transform(l.matrix)
		if l.hasClip {
			dirty = dirty.Reduce(l.clip)
		}
	}
	if dirty.IsEmpty() {
		return
	}
	a.layer.redraw = a.layer.redraw.Expand(dirty.Round(geom.Precision))
	s.markComposite(a)
}

// updateTransformRegion maps b's layer bounds through the transforms and
// clips between b and its composite ancestor a.
func updateTransformRegion(b, a *Node) {
	var path []*Node
	for c := b; c != a; c = c.parent {
		path = append(path, c)
	}

	toA := geom.Identity()
	var clip geom.Rect
	hasClip := false
	for i := len(path) - 1; i >= 0; i-- {
		c := path[i]
		if p := c.parent; p.style.ClipContent || p.parent == nil {
			r := geom.XYWH(0, 0, p.width, p.height).Transform(toA)
			if hasClip {
				clip = clip.Reduce(r)
			} else {
				clip, hasClip = r, true
			}
		}
		toA = toA.Multiply(c.transform())
	}

	l := b.layer
	l.placed = true
	l.matrix = toA
	l.clip, l.hasClip = clip, hasClip
	l.transformVisible = b.style.expandShadow(geom.FromImageRect(l.bounds)).Transform(toA).Round(geom.Precision)
	l.transformDrawable = l.transformVisible
	if hasClip {
		l.transformDrawable = l.transformVisible.Reduce(clip)
	}
}
