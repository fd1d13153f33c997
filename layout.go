package retained

// Layout measures a node and positions its children.
//
// Measure runs children-first: when Measure(n) is called every child of n
// has already been measured. Arrange runs parents-first and must position
// every child with Node.SetBounds.
type Layout interface {
	Measure(n *Node) (w, h float64)
	Arrange(n *Node)
}

// AbsoluteLayout places children at their "x" and "y" style values with
// their measured size.
//
// A node measures to its "width" and "height" style values; a missing
// dimension is the extent of its children.
type AbsoluteLayout struct{}

// Measure implements Layout.
func (AbsoluteLayout) Measure(n *Node) (w, h float64) {
	w, okW := styleNumber(n, StyleWidth)
	h, okH := styleNumber(n, StyleHeight)
	if okW && okH {
		return w, h
	}
	var cw, ch float64
	for _, c := range n.children {
		mw, mh := c.MeasuredSize()
		cw = max(cw, c.StyleFloat(StyleX, 0)+mw)
		ch = max(ch, c.StyleFloat(StyleY, 0)+mh)
	}
	if !okW {
		w = cw
	}
	if !okH {
		h = ch
	}
	return w, h
}

// Arrange implements Layout.
func (AbsoluteLayout) Arrange(n *Node) {
	for _, c := range n.children {
		w, h := c.MeasuredSize()
		c.SetBounds(c.StyleFloat(StyleX, 0), c.StyleFloat(StyleY, 0), w, h)
	}
}

func styleNumber(n *Node, name string) (float64, bool) {
	if _, ok := n.styles[name]; !ok {
		return 0, false
	}
	return n.StyleFloat(name, 0), true
}
