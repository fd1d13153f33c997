package retained

import (
	"image"
	"image/color"
	"slices"

	"github.com/gogpu/retained/geom"
)

// Phase identifies one stage of the per-frame pipeline.
type Phase uint8

// Pipeline phases, in the order a frame runs them.
const (
	PhaseStyle Phase = iota
	PhaseMeasure
	PhaseLayout
	PhaseRender
	PhaseRedrawRegion
	PhaseComposite

	numPhases
)

var phaseNames = [numPhases]string{"style", "measure", "layout", "render", "redraw-region", "composite"}

// String returns the phase name.
func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// phaseMask is a set of phases, one bit per Phase.
type phaseMask uint8

func (m phaseMask) has(p Phase) bool { return m&(1<<p) != 0 }

// allWorkPhases are the phases forced dirty when a node joins a scene.
const allWorkPhases = phaseMask(1<<PhaseStyle | 1<<PhaseMeasure | 1<<PhaseLayout | 1<<PhaseRender | 1<<PhaseRedrawRegion)

// compositeRecord is a node's last contribution to one composite boundary,
// in the boundary's local coordinates.
type compositeRecord struct {
	boundary *Node
	raw      geom.Rect
	drawable geom.Rect
	visible  bool
}

// Node is one entity of the visual tree.
//
// A node's geometry is written by its parent's Layout during the layout
// phase; its style snapshot by the scene's StyleResolver during the style
// phase. Everything else a node carries is pipeline bookkeeping owned by
// the Scene it is attached to.
//
// Node is not safe for concurrent use.
type Node struct {
	name     string
	parent   *Node
	children []*Node
	scene    *Scene
	depth    int

	x, y, width, height float64
	measuredW, measuredH float64

	styles        map[string]any
	pendingStyles map[string]struct{}
	style         Style

	painter Painter
	layout  Layout

	dirty   phaseMask
	handles [numPhases]*nodeHandle

	// content holds the node's own painted pixels at its local origin.
	content *image.RGBA

	// records are rebuilt on every redraw-region visit.
	records     []compositeRecord
	forceRedraw bool
	shown       bool

	composite bool
	layer     *compositeLayer
}

// NewNode creates a detached node.
func NewNode(name string) *Node {
	return &Node{name: name, style: DefaultStyle()}
}

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// Parent returns the parent node, or nil for the root and detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the node's children in paint order.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Scene returns the scene the node is attached to, or nil.
func (n *Node) Scene() *Scene { return n.scene }

// Depth returns the number of ancestors between the node and the root.
func (n *Node) Depth() int { return n.depth }

// Bounds returns the position in the parent's coordinates and the size, as
// written by the last layout pass.
func (n *Node) Bounds() geom.Rect { return geom.XYWH(n.x, n.y, n.width, n.height) }

// MeasuredSize returns the size computed by the last measure pass.
func (n *Node) MeasuredSize() (w, h float64) { return n.measuredW, n.measuredH }

// Style returns the snapshot resolved by the last style pass.
func (n *Node) Style() Style { return n.style }

// IsCompositeBoundary reports whether the node renders into its own layer.
// The value reflects the last style pass.
func (n *Node) IsCompositeBoundary() bool { return n.composite }

// IsRoot reports whether n is the root of a scene.
func (n *Node) IsRoot() bool { return n.scene != nil && n.parent == nil }

// AddChild appends c to n's children. See InsertChild.
func (n *Node) AddChild(c *Node) error {
	return n.InsertChild(len(n.children), c)
}

// InsertChild inserts c at index i of n's children. A child that already
// has a parent is moved. Inserting an ancestor of n returns ErrCycle.
func (n *Node) InsertChild(i int, c *Node) error {
	if c == nil {
		return ErrNilNode
	}
	for a := n; a != nil; a = a.parent {
		if a == c {
			return ErrCycle
		}
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	i = max(0, min(i, len(n.children)))
	n.children = slices.Insert(n.children, i, c)
	c.parent = n
	if n.scene != nil {
		n.scene.attach(c, n)
	}
	return nil
}

// RemoveChild detaches c from n. It reports whether c was a child of n.
func (n *Node) RemoveChild(c *Node) bool {
	i := slices.Index(n.children, c)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	if n.scene != nil {
		n.scene.detach(c)
	}
	c.parent = nil
	return true
}

// SetStyle sets an instance style value and marks the property dirty.
func (n *Node) SetStyle(name string, v any) {
	if n.styles == nil {
		n.styles = make(map[string]any)
	}
	n.styles[name] = v
	if n.scene != nil {
		n.scene.MarkStyleDirty(n, name)
	}
}

// ClearStyle removes an instance style value.
func (n *Node) ClearStyle(name string) {
	if _, ok := n.styles[name]; !ok {
		return
	}
	delete(n.styles, name)
	if n.scene != nil {
		n.scene.MarkStyleDirty(n, name)
	}
}

// StyleValue returns the instance style value stored under name.
func (n *Node) StyleValue(name string) (any, bool) {
	v, ok := n.styles[name]
	return v, ok
}

// StyleFloat returns a numeric instance style value, or def.
func (n *Node) StyleFloat(name string, def float64) float64 {
	switch v := n.styles[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// StyleBool returns a boolean instance style value, or def.
func (n *Node) StyleBool(name string, def bool) bool {
	if v, ok := n.styles[name].(bool); ok {
		return v
	}
	return def
}

// StyleColor returns a color instance style value, or def.
func (n *Node) StyleColor(name string, def color.Color) color.Color {
	if v, ok := n.styles[name].(color.Color); ok {
		return v
	}
	return def
}

// SetPainter sets the node's content painter and marks it for repaint.
func (n *Node) SetPainter(p Painter) {
	n.painter = p
	if n.scene != nil {
		n.scene.MarkRenderDirty(n)
	}
}

// SetLayout sets the algorithm that measures n and arranges its children.
// A nil layout selects the scene default.
func (n *Node) SetLayout(l Layout) {
	n.layout = l
	if n.scene != nil {
		n.scene.MarkMeasureDirty(n)
		n.scene.MarkLayoutDirty(n)
	}
}

// SetMeasuredSize records the size a Layout computed for n. It is meant to
// be called from Layout.Measure implementations that measure children.
func (n *Node) SetMeasuredSize(w, h float64) {
	n.measuredW, n.measuredH = max(w, 0), max(h, 0)
}

// SetBounds positions n inside its parent. Layouts call it from Arrange.
// A move invalidates the node's redraw region; a resize also invalidates
// its content and the layout of its children.
func (n *Node) SetBounds(x, y, w, h float64) {
	w, h = max(w, 0), max(h, 0)
	moved := x != n.x || y != n.y
	resized := w != n.width || h != n.height
	n.x, n.y, n.width, n.height = x, y, w, h
	s := n.scene
	if s == nil || (!moved && !resized) {
		return
	}
	if resized {
		s.MarkRenderDirty(n)
		s.MarkLayoutDirty(n)
	}
	s.MarkRedrawRegionDirty(n)
	s.pointerPending = true
}

// transform maps n's local coordinates into its parent's.
func (n *Node) transform() geom.Matrix {
	m := geom.Translate(n.x, n.y)
	if r := n.style.Rotation; n.style.HasRotation() {
		m = m.Multiply(geom.RotateAbout(r.Degrees, r.CenterX, r.CenterY))
	}
	return m
}

// LocalToScene maps a point in n's coordinates to scene coordinates.
func (n *Node) LocalToScene(p geom.Point) geom.Point {
	return n.sceneTransform().TransformPoint(p)
}

// ScreenBounds returns the scene-space bounding box of the node's own
// rectangle. Ancestor clipping is not applied.
func (n *Node) ScreenBounds() geom.Rect {
	return geom.XYWH(0, 0, n.width, n.height).Transform(n.sceneTransform())
}

func (n *Node) sceneTransform() geom.Matrix {
	m := geom.Identity()
	for c := n; c != nil && c.parent != nil; c = c.parent {
		m = c.transform().Multiply(m)
	}
	return m
}

// record returns the previous record for boundary b.
func (n *Node) record(b *Node) (compositeRecord, bool) {
	for _, r := range n.records {
		if r.boundary == b {
			return r, true
		}
	}
	return compositeRecord{}, false
}

// anyVisible reports whether any record of n is visible.
func (n *Node) anyVisible() bool {
	for _, r := range n.records {
		if r.visible {
			return true
		}
	}
	return false
}

// walk calls fn for n and every descendant in pre-order.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}
