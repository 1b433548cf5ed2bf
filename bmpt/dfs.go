package bmpt

import "github.com/feltwork/bmpt/felt"

// VisitAction is a DFS visitor's decision for the node it was just shown
// (spec.md §4.9).
type VisitAction int

const (
	// ContinueDeeper descends into the node's children (resolving it
	// first, if it was Unresolved).
	ContinueDeeper VisitAction = iota
	// StopSubtree skips the node's children entirely.
	StopSubtree
	// Break terminates the whole walk; the accompanying value is
	// returned to the caller of DFS.
	Break
)

// VisitResult is what a Visitor returns for each node.
type VisitResult struct {
	Action VisitAction
	Value  interface{} // meaningful only when Action == Break
}

// Visitor is called once per pre-order-visited node with the node itself
// and its full bit-path from the root.
type Visitor func(n *Node, path felt.BitPath) VisitResult

// DFS walks the tree pre-order (spec.md §4.9). Unresolved(ZERO) nodes are
// never shown to the visitor. Any other Unresolved node IS shown (with
// its hash visible) and, only if the visitor asks to continue deeper, is
// resolved and re-pushed: the visitor is invoked again on the now-
// Binary/Edge node, and may StopSubtree or Break on it, before the walk
// ever descends into its children.
// DFS returns (value, true) if some visit returned Break(value), or
// (nil, false) if the walk completed without breaking.
func (t *Tree) DFS(visitor Visitor) (interface{}, bool) {
	if t.root.Kind == KindUnresolved && t.root.UnresolvedHash.IsZero() {
		return nil, false
	}
	return t.dfsWalk(t.root, felt.NewBitPath(), visitor)
}

func (t *Tree) dfsWalk(n *Node, path felt.BitPath, visitor Visitor) (interface{}, bool) {
	if n.Kind == KindUnresolved && n.UnresolvedHash.IsZero() {
		return nil, false
	}

	result := visitor(n, path)
	switch result.Action {
	case StopSubtree:
		return nil, false
	case Break:
		return result.Value, true
	}

	if n.Kind == KindUnresolved {
		*n = *t.resolve(n.UnresolvedHash, uint16(path.Len()))
		// Re-push the resolved node: the visitor is shown it again, now
		// as a Binary/Edge, and may StopSubtree/Break on it before its
		// children are walked (spec.md §4.9).
		return t.dfsWalk(n, path, visitor)
	}

	switch n.Kind {
	case KindBinary:
		if v, brk := t.dfsWalk(n.Left, path.Append(false), visitor); brk {
			return v, true
		}
		return t.dfsWalk(n.Right, path.Append(true), visitor)
	case KindEdge:
		return t.dfsWalk(n.Child, path.Concat(n.Path), visitor)
	default:
		return nil, false
	}
}
