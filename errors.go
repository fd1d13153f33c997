package retained

import (
	"errors"
	"fmt"
)

var (
	// ErrFrameInProgress is returned by RequestFrame when called from
	// inside a frame.
	ErrFrameInProgress = errors.New("retained: frame already in progress")

	// ErrCycle is returned when a node would become its own ancestor.
	ErrCycle = errors.New("retained: node cannot be its own ancestor")

	// ErrNilNode is returned when a nil child is inserted.
	ErrNilNode = errors.New("retained: nil node")

	// ErrNotResizable is returned by Resize when the output surface does
	// not implement surface.ResizableSurface.
	ErrNotResizable = errors.New("retained: surface is not resizable")
)

// NodeError reports a panic recovered while running one node's work.
// The node's remaining work for the frame was dropped.
type NodeError struct {
	Node  *Node
	Phase Phase
	Cause error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("retained: %s of node %q: %v", e.Phase, e.Node.Name(), e.Cause)
}

func (e *NodeError) Unwrap() error { return e.Cause }

// InvariantError reports a node whose dirty flag and queue handle disagree.
type InvariantError struct {
	Node   *Node
	Phase  Phase
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("retained: invariant violated for node %q in %s queue: %s", e.Node.Name(), e.Phase, e.Reason)
}
