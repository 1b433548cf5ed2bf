package bmpt

import (
	"testing"

	"github.com/feltwork/bmpt/felt"
)

func TestDFSEmptyTreeNeverVisits(t *testing.T) {
	tree := newScenarioTree()
	visited := false
	_, broke := tree.DFS(func(n *Node, path felt.BitPath) VisitResult {
		visited = true
		return VisitResult{Action: ContinueDeeper}
	})
	if visited || broke {
		t.Fatalf("DFS over an empty tree should never call the visitor")
	}
}

func TestDFSBreakReturnsValue(t *testing.T) {
	tree := buildTree([]kv{{0b10100000, 1}, {0b10100001, 2}, {0b01000000, 3}})

	var seen int
	value, broke := tree.DFS(func(n *Node, path felt.BitPath) VisitResult {
		seen++
		if n.Kind == KindLeaf {
			return VisitResult{Action: Break, Value: n.Value}
		}
		return VisitResult{Action: ContinueDeeper}
	})
	if !broke {
		t.Fatalf("expected DFS to break")
	}
	if seen == 0 {
		t.Fatalf("visitor was never called")
	}
	if _, ok := value.(felt.Felt); !ok {
		t.Fatalf("break value has type %T, want felt.Felt", value)
	}
}

func TestDFSStopSubtreeSkipsChildren(t *testing.T) {
	tree := buildTree([]kv{{0b10100000, 1}, {0b10100001, 2}, {0b01000000, 3}})

	var leaves int
	tree.DFS(func(n *Node, path felt.BitPath) VisitResult {
		if n.Kind == KindBinary {
			return VisitResult{Action: StopSubtree}
		}
		if n.Kind == KindLeaf {
			leaves++
		}
		return VisitResult{Action: ContinueDeeper}
	})
	if leaves != 0 {
		t.Fatalf("StopSubtree at the Binary should have skipped every leaf below it, saw %d", leaves)
	}
}

func TestDFSVisitsEveryCommittedLeafOnce(t *testing.T) {
	tree := buildTree([]kv{
		{0b10100000, 1}, {0b10100001, 2}, {0b10110000, 3},
		{0b00000001, 4}, {0b11111111, 5},
	})
	tree.Commit()

	seenValues := map[uint64]int{}
	tree.DFS(func(n *Node, path felt.BitPath) VisitResult {
		if n.Kind == KindLeaf {
			seenValues[uint64(n.Value.Bytes32()[31])] = seenValues[uint64(n.Value.Bytes32()[31])] + 1
		}
		return VisitResult{Action: ContinueDeeper}
	})
	for _, want := range []uint64{1, 2, 3, 4, 5} {
		if seenValues[want] != 1 {
			t.Fatalf("leaf value %d visited %d times, want 1", want, seenValues[want])
		}
	}
}
