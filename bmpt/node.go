// Package bmpt implements the binary Merkle-Patricia tree engine: the
// node model, traversal, mutation (set/delete), commit, proof generation
// and pre-order DFS described by spec.md §4. It is the library's largest
// package, analogous in role (though not in wire format) to the teacher's
// trie package.
package bmpt

import (
	"github.com/feltwork/bmpt/felt"
)

// Kind tags which variant of the node union a *Node currently holds.
type Kind uint8

const (
	// KindUnresolved is a placeholder known only by its content hash.
	// Unresolved(ZERO) is the sentinel for an empty tree.
	KindUnresolved Kind = iota
	// KindLeaf is a terminal node carrying a value.
	KindLeaf
	// KindBinary branches on one bit into two non-empty children.
	KindBinary
	// KindEdge is a compressed run of one or more bits to a single child.
	KindEdge
)

func (k Kind) String() string {
	switch k {
	case KindUnresolved:
		return "Unresolved"
	case KindLeaf:
		return "Leaf"
	case KindBinary:
		return "Binary"
	case KindEdge:
		return "Edge"
	default:
		return "Invalid"
	}
}

// Node is a shared, mutable node handle (spec.md §3 "Ownership", §9's
// "shared mutable handles" open question, resolved in SPEC_FULL.md §3).
// A *Node is the handle itself: the traversal records a path of *Node
// values, and a later splice rewrites the pointee's fields in place, so
// every other holder of the same pointer observes the rewrite without a
// re-fetch. This plays the role the teacher's own pointer-based node
// interface (*shortNode, *fullNode with a mutable nodeFlag) plays, minus
// the interface-per-variant indirection — a single struct with a Kind tag
// is simpler here because all four variants are known up front.
//
// hash caches the node's content hash for Binary/Edge; nil means dirty
// (spec.md §3 invariant 6). Leaf and Unresolved nodes have no cache: a
// Leaf's "hash" is by convention its own value, and an Unresolved node's
// hash is simply the hash it already carries.
type Node struct {
	Kind   Kind
	Height uint16
	hash   *felt.Felt

	// KindUnresolved
	UnresolvedHash felt.Felt

	// KindLeaf
	Value felt.Felt

	// KindBinary
	Left  *Node
	Right *Node

	// KindEdge
	Path  felt.BitPath
	Child *Node
}

func newUnresolved(hash felt.Felt, height uint16) *Node {
	return &Node{Kind: KindUnresolved, Height: height, UnresolvedHash: hash}
}

func newLeaf(value felt.Felt, height uint16) *Node {
	return &Node{Kind: KindLeaf, Height: height, Value: value}
}

func newBinary(height uint16, left, right *Node) *Node {
	return &Node{Kind: KindBinary, Height: height, Left: left, Right: right}
}

func newEdge(height uint16, path felt.BitPath, child *Node) *Node {
	return &Node{Kind: KindEdge, Height: height, Path: path, Child: child}
}

// markDirty clears a Binary/Edge node's cached hash. It is a no-op for
// Leaf and Unresolved, which carry no hash cache of their own.
func (n *Node) markDirty() {
	if n.Kind == KindBinary || n.Kind == KindEdge {
		n.hash = nil
	}
}

// setHash records h as n's clean, canonical hash.
func (n *Node) setHash(h felt.Felt) {
	n.hash = &h
}

// dirty reports whether a Binary/Edge node's hash cache is absent.
func (n *Node) dirty() bool {
	return n.hash == nil
}

// committedHash returns the hash a parent should embed when referring to
// n, and whether that hash is actually available yet. Unresolved and Leaf
// nodes are always "available" (an Unresolved hash is already known; a
// Leaf's hash is its value by convention); a Binary/Edge is available
// only once committed.
func (n *Node) committedHash() (felt.Felt, bool) {
	switch n.Kind {
	case KindUnresolved:
		return n.UnresolvedHash, true
	case KindLeaf:
		return n.Value, true
	default:
		if n.hash == nil {
			return felt.Zero, false
		}
		return *n.hash, true
	}
}
