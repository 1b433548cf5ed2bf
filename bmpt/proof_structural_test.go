package bmpt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/feltwork/bmpt/felt"
)

// feltCmp lets go-cmp compare felt.Felt through its exported Equal method,
// since the type's internal uint256 limbs aren't exported.
var feltCmp = cmp.Comparer(func(a, b felt.Felt) bool { return a.Equal(b) })

func TestProofIsStableAcrossRebuilds(t *testing.T) {
	build := func() ProofResult {
		tree := buildTree([]kv{{0b10101010, 7}, {0b10101011, 9}})
		tree.Commit()
		return tree.GetProof(felt.FromUint64(0b10101010))
	}

	first := build()
	second := build()

	require.True(t, first.Membership)
	require.Equal(t, first.Membership, second.Membership)
	require.Len(t, second.Nodes, len(first.Nodes))

	if diff := cmp.Diff(first.Nodes, second.Nodes, feltCmp); diff != "" {
		t.Fatalf("rebuilt proof differs (-first +second):\n%s", diff)
	}
}
