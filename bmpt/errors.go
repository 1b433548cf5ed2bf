package bmpt

import (
	"fmt"

	"github.com/feltwork/bmpt/felt"
)

// InvariantError marks a structural violation the core treats as a
// programming error (spec.md §7): a Binary/Unresolved terminus, a Leaf
// record surfacing at non-terminal depth, a proof request over a dirty
// node, and similar states that should be unreachable given the tree's
// invariants. These are not recoverable and are raised with panic,
// mirroring the teacher's own mustDecodeNode (trie/node.go), which
// panics with a formatted string rather than returning an error when it
// hits a state it considers impossible.
type InvariantError struct {
	Op  string
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("bmpt: invariant violation in %s: %s", e.Op, e.Msg)
}

func invariantf(op, format string, args ...interface{}) {
	panic(&InvariantError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// MissingNodeError reports a storage miss while resolving a non-terminal
// hash — fatal, since the tree's structural integrity depends on every
// referenced node actually being present (spec.md §7). The field names
// mirror the teacher's own &MissingNodeError{NodeHash: hash, Path:
// prefix} (trie/trie.go's resolveHash).
type MissingNodeError struct {
	NodeHash felt.Felt
	Height   uint16
}

func (e *MissingNodeError) Error() string {
	return fmt.Sprintf("bmpt: missing node %s at height %d", e.NodeHash, e.Height)
}
