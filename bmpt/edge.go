package bmpt

// mergeEdges restores the "edges are maximal" invariant at a single Edge
// node after a mutation may have exposed an edge-edge adjacency
// (spec.md §4.5). If parent's child is Unresolved, it is resolved first;
// if the (now-loaded) child turns out to be an Edge, its path is folded
// into parent's and parent reparents directly onto the child's child.
// Any other child shape is left untouched — a single call suffices
// because the tree satisfied maximality before the mutation, so only the
// mutation's own splice point can have broken it.
func (t *Tree) mergeEdges(parent *Node) {
	child := parent.Child
	if child.Kind == KindUnresolved {
		*child = *t.resolve(child.UnresolvedHash, parent.Height+uint16(parent.Path.Len()))
	}
	if child.Kind != KindEdge {
		return
	}
	parent.Path = parent.Path.Concat(child.Path)
	parent.Child = child.Child
}
