package retained

import "github.com/gogpu/retained/geom"

// HitTest returns the topmost drawn node under the scene point p, or nil.
// Rotation, clipping and visibility are honored; children are tested
// before their parent, last child first.
func (s *Scene) HitTest(p geom.Point) *Node {
	return hitTest(s.root, p)
}

// hitTest tests n with p in n's local coordinates.
func hitTest(n *Node, p geom.Point) *Node {
	if !n.style.Drawn() {
		return nil
	}
	inside := geom.XYWH(0, 0, n.width, n.height).ContainsPoint(p)
	if !inside && (n.style.ClipContent || n.parent == nil) {
		return nil
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		c := n.children[i]
		if hit := hitTest(c, c.transform().Invert().TransformPoint(p)); hit != nil {
			return hit
		}
	}
	if inside {
		return n
	}
	return nil
}
