package retained

import (
	"image/color"

	"github.com/gogpu/retained/surface"
)

// Painter draws a node's own content. The surface covers the node's local
// rectangle rounded up to whole pixels with its origin at (0, 0); children
// are painted separately.
type Painter interface {
	Paint(n *Node, s *surface.ImageSurface)
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(n *Node, s *surface.ImageSurface)

// Paint calls f(n, s).
func (f PainterFunc) Paint(n *Node, s *surface.ImageSurface) { f(n, s) }

// FillPainter fills the node's rectangle with its "background" style color,
// rounding the corners by its "radius" style value.
type FillPainter struct{}

// Paint implements Painter.
func (FillPainter) Paint(n *Node, s *surface.ImageSurface) {
	bg := n.StyleColor(StyleBackground, nil)
	if bg == nil {
		return
	}
	b := n.Bounds()
	radius := n.StyleFloat(StyleRadius, 0)
	if radius <= 0 {
		if _, _, _, a := bg.RGBA(); a == 0xffff {
			s.Clear(bg)
			return
		}
	}
	p := surface.NewPath()
	p.RoundedRectangle(0, 0, b.W, b.H, radius)
	s.Fill(p, surface.FillStyle{Color: bg})
}

// Solid returns a FillPainter-backed node filled with c, sized w×h at
// (x, y) under AbsoluteLayout.
func Solid(name string, x, y, w, h float64, c color.Color) *Node {
	n := NewNode(name)
	n.styles = map[string]any{
		StyleX:          x,
		StyleY:          y,
		StyleWidth:      w,
		StyleHeight:     h,
		StyleBackground: c,
	}
	n.painter = FillPainter{}
	return n
}
