package retained

import (
	"image/color"

	"github.com/gogpu/retained/geom"
)

// Style property names understood by the built-in resolver, layout and
// painter. Collaborators may define their own names; unknown names
// invalidate render only.
const (
	StyleVisible         = "visible"
	StyleAlpha           = "alpha"
	StyleClipContent     = "clipContent"
	StyleShadowSize      = "shadowSize"
	StyleShadowColor     = "shadowColor"
	StyleShadowOffsetX   = "shadowOffsetX"
	StyleShadowOffsetY   = "shadowOffsetY"
	StyleRotation        = "rotation"
	StyleRotationCenterX = "rotationCenterX"
	StyleRotationCenterY = "rotationCenterY"
	StyleIsolate         = "isolate"

	StyleX      = "x"
	StyleY      = "y"
	StyleWidth  = "width"
	StyleHeight = "height"

	StyleBackground = "background"
	StyleRadius     = "radius"
)

// Shadow is the resolved drop shadow of a node.
type Shadow struct {
	Size             float64
	Color            color.Color
	OffsetX, OffsetY float64
}

// Rotation is the resolved rotation of a node, in degrees clockwise around
// a center given in the node's local coordinates.
type Rotation struct {
	Degrees          float64
	CenterX, CenterY float64
}

// Style is the snapshot of effective style values the pipeline consumes.
// It is produced by a StyleResolver during the style phase.
type Style struct {
	Visible     bool
	Alpha       float64
	ClipContent bool
	Shadow      Shadow
	Rotation    Rotation
	Isolate     bool
}

// DefaultStyle returns the style of a node with no values set: visible and
// fully opaque.
func DefaultStyle() Style {
	return Style{Visible: true, Alpha: 1}
}

// HasShadow reports whether the style casts a shadow.
func (s Style) HasShadow() bool {
	return s.Shadow.Size > 0 && s.Shadow.Color != nil
}

// HasRotation reports whether the style rotates the node.
func (s Style) HasRotation() bool {
	return !geom.IsZeroRotation(s.Rotation.Degrees)
}

// Drawn reports whether a node with this style produces any pixels.
func (s Style) Drawn() bool {
	return s.Visible && s.Alpha > 0
}

// expandShadow grows r by the shadow's offset copy outset by its size.
func (s Style) expandShadow(r geom.Rect) geom.Rect {
	if !s.HasShadow() || r.IsEmpty() {
		return r
	}
	return r.Expand(r.Translate(s.Shadow.OffsetX, s.Shadow.OffsetY).Outset(s.Shadow.Size))
}

// IsCompositeBoundary reports whether a node with style s must be rendered
// into its own off-screen layer. The root is always a boundary.
func IsCompositeBoundary(s Style, isRoot bool) bool {
	switch {
	case isRoot, s.Isolate:
		return true
	case s.Alpha > 0 && s.Alpha < 1:
		return true
	case s.HasRotation():
		return true
	default:
		return s.HasShadow()
	}
}

// styleEffect is the set of phases invalidated by a style property change.
type styleEffect uint8

const (
	effectMeasure styleEffect = 1 << iota
	effectParentLayout
	effectRender
	effectRegion
	effectComposite
	effectPointer
)

var styleEffects = map[string]styleEffect{
	StyleVisible:         effectRegion | effectPointer,
	StyleAlpha:           effectRegion | effectComposite,
	StyleClipContent:     effectRegion | effectPointer,
	StyleShadowSize:      effectRegion | effectComposite,
	StyleShadowColor:     effectRegion | effectComposite,
	StyleShadowOffsetX:   effectRegion | effectComposite,
	StyleShadowOffsetY:   effectRegion | effectComposite,
	StyleRotation:        effectRegion | effectComposite | effectPointer,
	StyleRotationCenterX: effectRegion | effectComposite | effectPointer,
	StyleRotationCenterY: effectRegion | effectComposite | effectPointer,
	StyleIsolate:         effectRegion | effectComposite,
	StyleX:               effectParentLayout,
	StyleY:               effectParentLayout,
	StyleWidth:           effectMeasure,
	StyleHeight:          effectMeasure,
	StyleBackground:      effectRender,
	StyleRadius:          effectRender,
}

// effectOf classifies a style property name.
func effectOf(name string) styleEffect {
	if e, ok := styleEffects[name]; ok {
		return e
	}
	return effectRender
}

// StyleResolver computes the effective style of a node. It is called once
// per node per style pass, after every ancestor has been resolved.
type StyleResolver interface {
	ResolveStyle(n *Node) Style
}

// StyleResolverFunc adapts a function to StyleResolver.
type StyleResolverFunc func(n *Node) Style

// ResolveStyle calls f(n).
func (f StyleResolverFunc) ResolveStyle(n *Node) Style { return f(n) }

// InstanceStyles resolves a node's style from the values set directly on it
// with Node.SetStyle, falling back to Defaults.
type InstanceStyles struct {
	Defaults Style
}

// ResolveStyle implements StyleResolver.
func (r InstanceStyles) ResolveStyle(n *Node) Style {
	d := r.Defaults
	return Style{
		Visible:     n.StyleBool(StyleVisible, d.Visible),
		Alpha:       clamp01(n.StyleFloat(StyleAlpha, d.Alpha)),
		ClipContent: n.StyleBool(StyleClipContent, d.ClipContent),
		Shadow: Shadow{
			Size:    n.StyleFloat(StyleShadowSize, d.Shadow.Size),
			Color:   n.StyleColor(StyleShadowColor, d.Shadow.Color),
			OffsetX: n.StyleFloat(StyleShadowOffsetX, d.Shadow.OffsetX),
			OffsetY: n.StyleFloat(StyleShadowOffsetY, d.Shadow.OffsetY),
		},
		Rotation: Rotation{
			Degrees: n.StyleFloat(StyleRotation, d.Rotation.Degrees),
			CenterX: n.StyleFloat(StyleRotationCenterX, d.Rotation.CenterX),
			CenterY: n.StyleFloat(StyleRotationCenterY, d.Rotation.CenterY),
		},
		Isolate: n.StyleBool(StyleIsolate, d.Isolate),
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
