package bmpt

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// DebugString renders the tree pre-order as an indented, human-readable
// dump, analogous to the teacher's shortNode.fstring/fullNode.fstring.
// Unlike DFS, it never resolves Unresolved nodes in place: a debug dump
// must not mutate the tree it's describing, so an unresolved subtree is
// shown only by its hash.
func (t *Tree) DebugString() string {
	var b strings.Builder
	debugNode(&b, t.root, "")
	return b.String()
}

func debugNode(b *strings.Builder, n *Node, indent string) {
	switch n.Kind {
	case KindUnresolved:
		fmt.Fprintf(b, "%sUnresolved(%s)\n", indent, n.UnresolvedHash)
	case KindLeaf:
		fmt.Fprintf(b, "%sLeaf(%s)\n", indent, n.Value)
	case KindBinary:
		fmt.Fprintf(b, "%sBinary height=%d\n", indent, n.Height)
		debugNode(b, n.Left, indent+"  0 ")
		debugNode(b, n.Right, indent+"  1 ")
	case KindEdge:
		fmt.Fprintf(b, "%sEdge height=%d path=%s\n", indent, n.Height, n.Path)
		debugNode(b, n.Child, indent+"  ")
	default:
		// Unreachable for a well-formed Node, but a dump should never
		// panic on a malformed one; spew.Sdump handles arbitrary values.
		fmt.Fprintf(b, "%s%s", indent, spew.Sdump(n))
	}
}
