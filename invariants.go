package retained

import (
	"errors"
	"fmt"
)

// CheckInvariants verifies that every dirty flag in the tree has a live
// queue handle at the node's current depth, that every handle has its
// flag, that no queue holds work for nodes outside the tree, and that each
// queue's depth bounds match the depths of the flagged nodes.
func (s *Scene) CheckInvariants() error {
	var errs []error
	var flagged [numPhases]int
	var lo, hi [numPhases]int
	s.root.walk(func(n *Node) {
		if n.parent != nil && n.depth != n.parent.depth+1 {
			errs = append(errs, &InvariantError{Node: n, Phase: PhaseStyle,
				Reason: fmt.Sprintf("depth %d under parent at depth %d", n.depth, n.parent.depth)})
		}
		for p := range numPhases {
			if reason := s.checkHandle(n, p); reason != "" {
				errs = append(errs, &InvariantError{Node: n, Phase: p, Reason: reason})
			}
			if n.dirty.has(p) {
				if flagged[p] == 0 || n.depth < lo[p] {
					lo[p] = n.depth
				}
				hi[p] = max(hi[p], n.depth)
				flagged[p]++
			}
		}
	})
	for p := range numPhases {
		q := s.queues[p]
		q.Each(func(n *Node, depth int) {
			if n.scene != s || n.handles[p] == nil || n.handles[p].Depth() != depth {
				errs = append(errs, &InvariantError{Node: n, Phase: p, Reason: "queued without a matching handle"})
			}
		})
		if got := q.Len(); got != flagged[p] {
			errs = append(errs, &InvariantError{Node: s.root, Phase: p,
				Reason: fmt.Sprintf("queue holds %d items for %d flagged nodes", got, flagged[p])})
		}
		if flagged[p] == 0 {
			continue
		}
		if q.MinDepth() != lo[p] || q.MaxDepth() != hi[p] {
			errs = append(errs, &InvariantError{Node: s.root, Phase: p,
				Reason: fmt.Sprintf("queue depth bounds [%d, %d], flagged nodes span [%d, %d]",
					q.MinDepth(), q.MaxDepth(), lo[p], hi[p])})
		}
	}
	return errors.Join(errs...)
}

func (s *Scene) checkHandle(n *Node, p Phase) string {
	h, flag := n.handles[p], n.dirty.has(p)
	switch {
	case flag && h == nil:
		return "flag set without handle"
	case !flag && h != nil:
		return "handle queued without flag"
	case h == nil:
		return ""
	case !s.queues[p].Contains(h):
		return "handle not live in queue"
	case h.Value() != n:
		return "handle belongs to another node"
	case h.Depth() != n.depth:
		return fmt.Sprintf("handle at depth %d, node at depth %d", h.Depth(), n.depth)
	}
	return ""
}

// verify panics on the first invariant violation when checks are enabled.
// It is skipped inside a frame, where the loop owns the queues.
func (s *Scene) verify() {
	if !s.opts.checks || s.inFrame {
		return
	}
	if err := s.CheckInvariants(); err != nil {
		panic(err)
	}
}
