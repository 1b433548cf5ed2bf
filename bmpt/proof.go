package bmpt

import "github.com/feltwork/bmpt/felt"

// ProofNode is one record of a Merkle proof (spec.md §6.3): either a
// Binary record carrying both children's hashes, or an Edge record
// carrying its path and its child's hash. Neither Leaf nor Unresolved
// ever appears in a proof.
type ProofNode struct {
	Kind Kind

	// Valid when Kind == KindBinary.
	LeftHash, RightHash felt.Felt

	// Valid when Kind == KindEdge.
	Path      felt.BitPath
	ChildHash felt.Felt
}

// ProofResult is the output of GetProof: the root-first chain of proof
// records plus whether the requested key was present (spec.md §4.8,
// supplemented per SPEC_FULL.md §4 with the Membership flag the original
// Rust traversal result carried).
type ProofResult struct {
	Nodes      []ProofNode
	Membership bool
}

// GetProof builds the Merkle proof for key (spec.md §4.8). Calling it on
// a tree with dirty nodes along the path is a programming error: every
// hash a proof references must already be committed.
func (t *Tree) GetProof(key felt.Felt) ProofResult {
	path := t.traverse(key)
	if len(path) == 0 {
		return ProofResult{}
	}

	terminus := path[len(path)-1]
	membership := terminus.Kind == KindLeaf && !terminus.Value.IsZero()

	interior := path
	if terminus.Kind == KindLeaf {
		interior = path[:len(path)-1]
	}

	nodes := make([]ProofNode, 0, len(interior))
	for _, n := range interior {
		switch n.Kind {
		case KindBinary:
			if n.dirty() {
				invariantf("GetProof", "Binary at height %d has no committed hash", n.Height)
			}
			lh, ok := n.Left.committedHash()
			if !ok {
				invariantf("GetProof", "left child at height %d has no committed hash", n.Height)
			}
			rh, ok := n.Right.committedHash()
			if !ok {
				invariantf("GetProof", "right child at height %d has no committed hash", n.Height)
			}
			nodes = append(nodes, ProofNode{Kind: KindBinary, LeftHash: lh, RightHash: rh})

		case KindEdge:
			if n.dirty() {
				invariantf("GetProof", "Edge at height %d has no committed hash", n.Height)
			}
			ch, ok := n.Child.committedHash()
			if !ok {
				invariantf("GetProof", "child at height %d has no committed hash", n.Height)
			}
			nodes = append(nodes, ProofNode{Kind: KindEdge, Path: n.Path, ChildHash: ch})

		default:
			invariantf("GetProof", "unexpected %s mid-path", n.Kind)
		}
	}
	return ProofResult{Nodes: nodes, Membership: membership}
}
