// Package retained is a retained-mode scene-graph renderer that keeps a
// raster surface up to date with a tree of nodes, repainting only what
// changed between frames.
//
// # Quick Start
//
//	import "github.com/gogpu/retained"
//
//	s, err := retained.NewScene(320, 200, retained.WithBackground(color.White))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	card := retained.Solid("card", 20, 20, 100, 60, color.RGBA{0x33, 0x66, 0xcc, 0xff})
//	_ = s.Root().AddChild(card)
//	_ = s.RequestFrame()
//
//	card.SetStyle(retained.StyleRotation, 15.0)
//	_ = s.RequestFrame() // repaints only the card's old and new area
//
// # Frames
//
// Mutations between frames only set dirty flags and queue nodes. Each call
// to RequestFrame runs, in order:
//
//   - style resolution, shallowest nodes first
//   - measurement, deepest nodes first
//   - layout, shallowest nodes first
//   - pointer re-evaluation through the Interaction hook
//   - content painting, shallowest nodes first
//
// restarting from style whenever a later phase queues earlier work. It then
// computes redraw regions once and recomposites dirty layers, deepest first.
//
// # Composite boundaries
//
// A node with partial alpha, a rotation, a drop shadow or the "isolate"
// style renders into its own off-screen layer. The root is always a
// boundary and its layer is the output surface. Each node remembers the
// rectangle it last covered in every boundary above it, so a change repaints
// exactly the old and new area. A layer is reallocated only when the union
// of its content changes size.
//
// # Collaborators
//
// Style values come from a StyleResolver (default InstanceStyles), geometry
// from a Layout (default AbsoluteLayout) and pixels from a Painter. The
// platform adapter supplies the output surface via the surface package
// registry or WithSurface and calls RequestFrame once per refresh.
//
// # Logging
//
// The package is silent by default; see SetLogger.
package retained
