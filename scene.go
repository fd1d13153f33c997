package retained

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/retained/geom"
	"github.com/gogpu/retained/internal/queue"
	"github.com/gogpu/retained/surface"
)

type nodeHandle = queue.Handle[*Node]

// maxPointerPasses bounds pointer re-evaluations per frame so that an
// Interaction which keeps moving nodes cannot stall the frame.
const maxPointerPasses = 8

// Interaction re-evaluates pointer-dependent state (hover target, cursor)
// once element bounds are final. It may mark nodes dirty.
type Interaction interface {
	Reevaluate(s *Scene)
}

// InteractionFunc adapts a function to Interaction.
type InteractionFunc func(s *Scene)

// Reevaluate calls f(s).
func (f InteractionFunc) Reevaluate(s *Scene) { f(s) }

// FrameStats summarizes the work done by one RequestFrame call.
type FrameStats struct {
	Frame uint64

	// Work items run per phase. RedrawRegion counts every node visited,
	// including descendants revisited through a dirty ancestor.
	Style, Measure, Layout, Render, RedrawRegion, Composite int

	// Pointer is the number of Interaction re-evaluations.
	Pointer int

	// Region is the root redraw region before the safety margin.
	Region geom.Rect

	// Redrawn is the area of the output surface repainted.
	Redrawn image.Rectangle

	// Reallocations counts composite layers whose buffer was replaced.
	Reallocations int

	// Errors counts node work items that panicked.
	Errors int
}

// Scene owns a tree of nodes and the per-phase work queues that keep its
// output surface up to date.
//
// Mutations between frames only set dirty flags; RequestFrame performs all
// recomputation. A Scene is not safe for concurrent use.
type Scene struct {
	opts    sceneOptions
	root    *Node
	surface surface.Surface
	pool    *BufferPool

	queues [numPhases]*queue.Queue[*Node]

	regionPending  bool
	pointerPending bool
	fullRedraw     bool
	inFrame        bool

	frame uint64
	stats FrameStats
	last  FrameStats
	errs  []error

	// dropped holds work removed from nodes that panicked, restored once
	// the frame ends.
	dropped map[*Node]phaseMask

	// relayout holds parents that lost a child since the last frame. They
	// are marked for measure and layout when the next frame starts.
	relayout map[*Node]struct{}

	overlayRect image.Rectangle
}

// NewScene creates a scene with an empty root node sized width×height.
//
// Unless WithSurface is given, the output surface comes from the surface
// backend registry.
func NewScene(width, height int, opts ...SceneOption) (*Scene, error) {
	o := defaultSceneOptions()
	for _, opt := range opts {
		opt(&o)
	}

	out := o.surface
	if out == nil {
		var err error
		so := surface.Options{Width: width, Height: height}
		if o.backend != "" {
			out, err = surface.OpenBackend(o.backend, so)
		} else {
			out, err = surface.Open(so)
		}
		if err != nil {
			return nil, fmt.Errorf("retained: create surface: %w", err)
		}
	}

	pool := o.pool
	if pool == nil {
		pool = NewBufferPool(4)
	}

	s := &Scene{
		opts:       o,
		surface:    out,
		pool:       pool,
		fullRedraw: true,
		dropped:    make(map[*Node]phaseMask),
		relayout:   make(map[*Node]struct{}),
	}
	for p := range numPhases {
		s.queues[p] = queue.New[*Node](16)
	}

	root := NewNode("root")
	root.width, root.height = float64(out.Width()), float64(out.Height())
	root.composite = true
	root.layer = &compositeLayer{}
	s.root = root
	s.attach(root, nil)
	return s, nil
}

// Root returns the root node. It is always a composite boundary and clips
// its children to the surface.
func (s *Scene) Root() *Node { return s.root }

// Surface returns the output surface.
func (s *Scene) Surface() surface.Surface { return s.surface }

// LastFrame returns the statistics of the most recent frame.
func (s *Scene) LastFrame() FrameStats { return s.last }

// Resize changes the output surface size and schedules a full redraw.
func (s *Scene) Resize(width, height int) error {
	rs, ok := s.surface.(surface.ResizableSurface)
	if !ok {
		return ErrNotResizable
	}
	if err := rs.Resize(width, height); err != nil {
		return fmt.Errorf("retained: resize: %w", err)
	}
	s.root.SetBounds(0, 0, float64(width), float64(height))
	s.fullRedraw = true
	s.verify()
	return nil
}

// InvalidatePointer requests an Interaction re-evaluation in the next frame.
func (s *Scene) InvalidatePointer() {
	s.pointerPending = true
}

// MarkStyleDirty records that style property name of n changed.
func (s *Scene) MarkStyleDirty(n *Node, name string) {
	if !s.owns(n) {
		return
	}
	if n.pendingStyles == nil {
		n.pendingStyles = make(map[string]struct{})
	}
	n.pendingStyles[name] = struct{}{}
	s.mark(n, PhaseStyle)
	s.verify()
}

// MarkMeasureDirty schedules n to be measured.
func (s *Scene) MarkMeasureDirty(n *Node) {
	s.mark(n, PhaseMeasure)
	s.verify()
}

// MarkLayoutDirty schedules n's children to be arranged.
func (s *Scene) MarkLayoutDirty(n *Node) {
	s.mark(n, PhaseLayout)
	s.verify()
}

// MarkRenderDirty schedules n's content to be repainted.
func (s *Scene) MarkRenderDirty(n *Node) {
	s.mark(n, PhaseRender)
	s.verify()
}

// MarkRedrawRegionDirty schedules the screen area of n and its subtree to
// be recomputed.
func (s *Scene) MarkRedrawRegionDirty(n *Node) {
	s.mark(n, PhaseRedrawRegion)
	s.verify()
}

func (s *Scene) owns(n *Node) bool {
	return n != nil && n.scene == s
}

// mark sets the dirty flag of phase p and queues n at its current depth.
// It is a no-op if the flag is already set.
func (s *Scene) mark(n *Node, p Phase) {
	if !s.owns(n) || n.dirty.has(p) {
		return
	}
	if p == PhaseComposite && n.layer == nil {
		return
	}
	n.dirty |= 1 << p
	n.handles[p] = s.queues[p].Push(n, n.depth)
	if p == PhaseRedrawRegion {
		s.regionPending = true
	}
}

func (s *Scene) markComposite(n *Node) {
	s.mark(n, PhaseComposite)
}

// unmark clears the dirty flag of phase p and dequeues n.
func (s *Scene) unmark(n *Node, p Phase) {
	if h := n.handles[p]; h != nil {
		s.queues[p].Remove(h)
		n.handles[p] = nil
	}
	n.dirty &^= 1 << p
}

// attach adopts the subtree rooted at n and forces every phase dirty.
func (s *Scene) attach(n, parent *Node) {
	n.walk(func(d *Node) {
		d.scene = s
		if d.parent != nil {
			d.depth = d.parent.depth + 1
		}
		for p := range PhaseComposite {
			s.mark(d, p)
		}
		s.markComposite(d)
	})
	if parent != nil {
		s.mark(parent, PhaseMeasure)
		s.mark(parent, PhaseLayout)
	}
	s.pointerPending = true
	s.verify()
}

// detach releases every handle, record and buffer of the subtree rooted at
// n, and erases its pixels from the layers that remain.
func (s *Scene) detach(n *Node) {
	base := n.depth
	n.walk(func(d *Node) {
		for _, r := range d.records {
			if b := r.boundary; r.visible && b.depth < base && b.layer != nil {
				b.layer.redraw = b.layer.redraw.Expand(r.drawable)
				b.layer.visibleStale = true
				s.markComposite(b)
			}
		}
	})
	n.walk(func(d *Node) {
		for p := range numPhases {
			s.unmark(d, p)
		}
		delete(s.dropped, d)
		delete(s.relayout, d)
		d.records = nil
		d.pendingStyles = nil
		d.forceRedraw = false
		d.shown = false
		s.pool.Put(d.content)
		d.content = nil
		if d.layer != nil {
			s.pool.Put(d.layer.buf)
			d.layer = nil
		}
		d.composite = false
		d.style = DefaultStyle()
		d.scene = nil
		d.depth = 0
	})
	if p := n.parent; p != nil {
		s.relayout[p] = struct{}{}
	}
	s.pointerPending = true
	s.verify()
}

// RequestFrame runs every pending phase to completion and updates the
// output surface. It returns ErrFrameInProgress when called re-entrantly,
// and the panics recovered from node work as joined *NodeError values.
func (s *Scene) RequestFrame() error {
	if s.inFrame {
		return ErrFrameInProgress
	}
	s.runFrame()
	s.verify()
	return errors.Join(s.errs...)
}

func (s *Scene) runFrame() {
	s.inFrame = true
	defer func() { s.inFrame = false }()

	s.frame++
	s.stats = FrameStats{Frame: s.frame}
	s.errs = nil

	for p := range s.relayout {
		s.mark(p, PhaseMeasure)
		s.mark(p, PhaseLayout)
	}
	clear(s.relayout)

	s.settle()

	if s.regionPending {
		s.regionPending = false
		q := s.queues[PhaseRedrawRegion]
		for !q.Empty() {
			n, _ := q.PopMin()
			s.run(n, PhaseRedrawRegion, func(n *Node) {
				s.recomputeRegion(n, false)
			})
		}
	}

	if s.fullRedraw {
		s.fullRedraw = false
		s.root.layer.redraw = geom.FromImageRect(s.surface.Bounds())
		s.markComposite(s.root)
	}
	if s.opts.overlay != nil && !s.overlayRect.Empty() {
		s.markComposite(s.root)
	}
	q := s.queues[PhaseComposite]
	for !q.Empty() {
		n, _ := q.PopMax()
		s.run(n, PhaseComposite, s.validateCompositeRender)
	}

	s.restoreDropped()
	s.last = s.stats

	Logger().Debug("retained: frame",
		"frame", s.stats.Frame,
		"style", s.stats.Style,
		"measure", s.stats.Measure,
		"layout", s.stats.Layout,
		"render", s.stats.Render,
		"region", s.stats.RedrawRegion,
		"composite", s.stats.Composite,
		"redrawn", s.stats.Redrawn,
	)
}

// settle drains style, measure, layout and render work, restarting from
// style whenever an earlier queue refills.
func (s *Scene) settle() {
	pointerPasses := 0
	for {
		switch {
		case !s.queues[PhaseStyle].Empty():
			n, _ := s.queues[PhaseStyle].PopMin()
			s.run(n, PhaseStyle, s.resolveStyle)
		case !s.queues[PhaseMeasure].Empty():
			n, _ := s.queues[PhaseMeasure].PopMax()
			s.run(n, PhaseMeasure, s.measure)
		case !s.queues[PhaseLayout].Empty():
			n, _ := s.queues[PhaseLayout].PopMin()
			s.run(n, PhaseLayout, s.arrange)
		case s.pointerPending:
			s.pointerPending = false
			if pointerPasses == maxPointerPasses {
				Logger().Warn("retained: pointer re-evaluation did not settle", "frame", s.frame)
				continue
			}
			pointerPasses++
			s.reevaluatePointer()
		case !s.queues[PhaseRender].Empty():
			n, _ := s.queues[PhaseRender].PopMin()
			s.run(n, PhaseRender, s.render)
		default:
			return
		}
	}
}

// run clears the flag of a popped node and performs its work, isolating
// panics to that node.
func (s *Scene) run(n *Node, p Phase, work func(*Node)) {
	n.handles[p] = nil
	n.dirty &^= 1 << p
	switch p {
	case PhaseStyle:
		s.stats.Style++
	case PhaseMeasure:
		s.stats.Measure++
	case PhaseLayout:
		s.stats.Layout++
	case PhaseRender:
		s.stats.Render++
	case PhaseComposite:
		s.stats.Composite++
	}
	defer func() {
		if r := recover(); r != nil {
			s.fail(n, p, r)
		}
	}()
	work(n)
}

// fail records a recovered panic and drops the node's remaining work for
// this frame.
func (s *Scene) fail(n *Node, p Phase, r any) {
	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("%v", r)
	}
	s.errs = append(s.errs, &NodeError{Node: n, Phase: p, Cause: cause})
	s.stats.Errors++
	Logger().Warn("retained: node work panicked", "node", n.Name(), "phase", p.String(), "err", cause)

	if !s.owns(n) || n.dirty == 0 {
		return
	}
	s.dropped[n] |= n.dirty
	for q := range numPhases {
		s.unmark(n, q)
	}
}

func (s *Scene) restoreDropped() {
	for n, m := range s.dropped {
		for p := range numPhases {
			if m.has(p) {
				s.mark(n, p)
			}
		}
	}
	clear(s.dropped)
}

func (s *Scene) reevaluatePointer() {
	s.stats.Pointer++
	if s.opts.interaction == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.errs = append(s.errs, fmt.Errorf("retained: pointer re-evaluation: %v", r))
			Logger().Warn("retained: pointer re-evaluation panicked", "err", r)
		}
	}()
	s.opts.interaction.Reevaluate(s)
}

// resolveStyle runs the style phase for n.
func (s *Scene) resolveStyle(n *Node) {
	names := n.pendingStyles
	n.pendingStyles = nil
	n.style = s.opts.resolver.ResolveStyle(n)
	s.updateBoundary(n)

	var eff styleEffect
	for name := range names {
		eff |= effectOf(name)
	}
	if eff&effectMeasure != 0 {
		s.mark(n, PhaseMeasure)
	}
	if eff&effectParentLayout != 0 && n.parent != nil {
		s.mark(n.parent, PhaseLayout)
	}
	if eff&effectRender != 0 {
		s.mark(n, PhaseRender)
	}
	if eff&effectRegion != 0 {
		s.mark(n, PhaseRedrawRegion)
	}
	if eff&effectComposite != 0 && n.layer != nil {
		n.layer.appearanceChanged = true
		s.markComposite(n)
	}
	if eff&effectPointer != 0 {
		s.pointerPending = true
	}
}

// updateBoundary creates or drops n's layer when its composite predicate
// changes, forcing the subtree's regions to be rebuilt.
func (s *Scene) updateBoundary(n *Node) {
	want := IsCompositeBoundary(n.style, n.parent == nil)
	if want == n.composite {
		return
	}
	n.composite = want
	if want {
		n.layer = &compositeLayer{}
		s.markComposite(n)
	} else {
		if a := n.compositeAncestor(); a != nil && n.layer.placed {
			a.layer.redraw = a.layer.redraw.Expand(n.layer.transformDrawable)
			s.markComposite(a)
		}
		s.unmark(n, PhaseComposite)
		s.pool.Put(n.layer.buf)
		n.layer = nil
	}
	n.forceRedraw = true
	s.mark(n, PhaseRedrawRegion)
}

func (s *Scene) layoutOf(n *Node) Layout {
	if n.layout != nil {
		return n.layout
	}
	return s.opts.layout
}

// measure runs the measure phase for n. A changed size re-measures and
// re-arranges the parent.
func (s *Scene) measure(n *Node) {
	w, h := s.layoutOf(n).Measure(n)
	w, h = max(w, 0), max(h, 0)
	if w == n.measuredW && h == n.measuredH {
		return
	}
	n.measuredW, n.measuredH = w, h
	if n.parent != nil {
		s.mark(n.parent, PhaseMeasure)
		s.mark(n.parent, PhaseLayout)
	}
}

// arrange runs the layout phase for n.
func (s *Scene) arrange(n *Node) {
	s.layoutOf(n).Arrange(n)
}

// render repaints n's own content and forces its redraw region.
func (s *Scene) render(n *Node) {
	r := image.Rect(0, 0, ceilPx(n.width), ceilPx(n.height))
	if n.painter == nil || r.Empty() {
		s.pool.Put(n.content)
		n.content = nil
	} else {
		if n.content == nil || n.content.Rect != r {
			s.pool.Put(n.content)
			n.content = s.pool.Get(r)
		} else {
			clear(n.content.Pix)
		}
		n.painter.Paint(n, surface.NewImageSurfaceFromImage(n.content))
	}
	n.forceRedraw = true
	s.mark(n, PhaseRedrawRegion)
}

// ceilPx rounds a length up to whole pixels, ignoring float noise below
// the region precision.
func ceilPx(v float64) int {
	return int(math.Ceil(geom.RoundTo(v, geom.Precision)))
}
