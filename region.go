package retained

import (
	"image"

	"github.com/gogpu/retained/geom"
)

// compositeLayer is the off-screen state owned by a composite boundary.
// Rectangles are in the boundary's local coordinates unless noted.
type compositeLayer struct {
	// buf is nil for the root, which composites straight onto the scene
	// surface.
	buf    *image.RGBA
	bounds image.Rectangle

	// redraw accumulates the area to repaint this frame.
	redraw geom.Rect

	// visible is the union of the visible drawable rectangles recorded
	// against this boundary. It is recomputed from the records when a
	// contribution shrank or disappeared.
	visible      geom.Rect
	visibleStale bool

	// appearanceChanged is set when alpha, shadow or rotation changed so the
	// whole transformed layer must be recomposited into its parent.
	appearanceChanged bool

	// Transform region, in the nearest composite ancestor's coordinates.
	placed            bool
	matrix            geom.Matrix
	clip              geom.Rect
	hasClip           bool
	transformVisible  geom.Rect
	transformDrawable geom.Rect
}

// compositeAncestor returns the nearest composite boundary above n.
func (n *Node) compositeAncestor() *Node {
	for a := n.parent; a != nil; a = a.parent {
		if a.composite {
			return a
		}
	}
	return nil
}

// effectiveVisible reports whether n and every ancestor below its nearest
// composite ancestor are drawn.
func effectiveVisible(n *Node) bool {
	for c := n; c != nil; c = c.parent {
		if !c.style.Drawn() {
			return false
		}
		if c.parent == nil || c.parent.composite {
			return true
		}
	}
	return true
}

// recomputeRegion rebuilds n's composite records and merges every change
// into the redraw regions of the affected boundaries, then revisits the
// subtree. A forced update redraws even when geometry is unchanged.
func (s *Scene) recomputeRegion(n *Node, force bool) {
	s.stats.RedrawRegion++
	force = force || n.forceRedraw
	n.forceRedraw = false

	records := collectRecords(n)
	for _, rec := range records {
		s.applyRecord(n, rec, force)
	}
	for _, old := range n.records {
		if !hasBoundary(records, old.boundary) {
			s.eraseRecord(old)
		}
	}
	n.records = records

	wasShown := n.shown
	n.shown = effectiveVisible(n)
	if !wasShown && !n.shown {
		return
	}
	for _, c := range n.children {
		s.unmark(c, PhaseRedrawRegion)
		s.recomputeRegion(c, force)
	}
}

// collectRecords walks from n to the root, mapping n's rectangle into each
// ancestor and recording it at every composite boundary. The walk stops
// once a clipping ancestor removes the rectangle entirely.
func collectRecords(n *Node) []compositeRecord {
	var out []compositeRecord
	raw := geom.XYWH(0, 0, n.width, n.height)
	drawable := raw
	visible := true
	for c := n; ; {
		if c.composite {
			out = append(out, compositeRecord{boundary: c, raw: raw, drawable: drawable, visible: visible})
		}
		p := c.parent
		if p == nil {
			return out
		}
		visible = visible && c.style.Drawn()

		// The shadow belongs to c, so it grows the rectangle before c's
		// rotation is applied.
		raw = c.style.expandShadow(raw)
		drawable = c.style.expandShadow(drawable)

		m := c.transform()
		raw = raw.Transform(m).Round(geom.Precision)
		drawable = drawable.Transform(m).Round(geom.Precision)

		if p.style.ClipContent || p.parent == nil {
			drawable = drawable.Reduce(geom.XYWH(0, 0, p.width, p.height))
			if drawable.IsEmpty() {
				return out
			}
		}
		c = p
	}
}

func hasBoundary(records []compositeRecord, b *Node) bool {
	for _, r := range records {
		if r.boundary == b {
			return true
		}
	}
	return false
}

// applyRecord compares rec with n's previous record for the same boundary
// and merges old and new drawable rectangles into the boundary's redraw
// region when they differ.
func (s *Scene) applyRecord(n *Node, rec compositeRecord, force bool) {
	l := rec.boundary.layer
	if l == nil {
		return
	}
	old, had := n.record(rec.boundary)
	oldShown := had && old.visible

	if force || !had || old.visible != rec.visible || !old.drawable.Equal(rec.drawable) {
		if oldShown {
			l.redraw = l.redraw.Expand(old.drawable)
		}
		if rec.visible {
			l.redraw = l.redraw.Expand(rec.drawable)
		}
		s.markComposite(rec.boundary)
	}
	if rec.visible {
		l.visible = l.visible.Expand(rec.drawable)
	}
	if oldShown && (!rec.visible || !rec.drawable.Contains(old.drawable)) {
		l.visibleStale = true
	}
}

// eraseRecord removes a contribution to a boundary the node no longer
// reaches.
func (s *Scene) eraseRecord(old compositeRecord) {
	b := old.boundary
	if b.layer == nil || !old.visible || !s.owns(b) {
		return
	}
	b.layer.redraw = b.layer.redraw.Expand(old.drawable)
	b.layer.visibleStale = true
	s.markComposite(b)
}

// recomputeVisible rebuilds the visible union of boundary b from the
// records of its subtree.
func recomputeVisible(b *Node) {
	var u geom.Rect
	b.walk(func(d *Node) {
		if r, ok := d.record(b); ok && r.visible {
			u = u.Expand(r.drawable)
		}
	})
	b.layer.visible = u
	b.layer.visibleStale = false
}
