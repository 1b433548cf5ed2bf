package bmpt

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/feltwork/bmpt/bmpthash"
	"github.com/feltwork/bmpt/bmptstore"
	"github.com/feltwork/bmpt/felt"
)

func TestCommitWithLeafLogAppendsFreshLeavesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaves.bin")
	leafLog, err := bmptstore.OpenMMapLeafLog(path, 4)
	if err != nil {
		t.Fatalf("OpenMMapLeafLog: %v", err)
	}
	defer leafLog.Close()

	tree := New(bmptstore.NewMemoryStore(), bmpthash.NewToyHasher(), 8, WithLeafLog(leafLog))
	tree.Set(felt.FromUint64(0b00000001), felt.FromUint64(10))
	tree.Set(felt.FromUint64(0b00000010), felt.FromUint64(20))

	if _, _, err := tree.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if leafLog.Len() != 2 {
		t.Fatalf("leaf log has %d entries after first commit, want 2", leafLog.Len())
	}

	// A second commit with nothing dirty must not re-append either leaf:
	// the whole tree is already hashed and clean.
	if _, _, err := tree.Commit(); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	if leafLog.Len() != 2 {
		t.Fatalf("leaf log has %d entries after a no-op commit, want still 2", leafLog.Len())
	}

	// Touching one key dirties only the path down to it; only the new
	// leaf should be appended.
	tree.Set(felt.FromUint64(0b00000001), felt.FromUint64(99))
	if _, _, err := tree.Commit(); err != nil {
		t.Fatalf("third Commit: %v", err)
	}
	if leafLog.Len() != 3 {
		t.Fatalf("leaf log has %d entries after one re-committed leaf, want 3", leafLog.Len())
	}
}

func TestDebugStringDoesNotResolveUnresolvedNodes(t *testing.T) {
	storage := bmptstore.NewMemoryStore()
	hasher := bmpthash.NewToyHasher()

	tree := New(storage, hasher, 8)
	tree.Set(felt.FromUint64(0b00000001), felt.FromUint64(10))
	tree.Set(felt.FromUint64(0b00000010), felt.FromUint64(20))
	root, _, err := tree.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	reloaded := New(storage, hasher, 8)
	reloaded.root = newUnresolved(root, 0)

	before := reloaded.DebugString()
	if reloaded.root.Kind != KindUnresolved {
		t.Fatalf("DebugString must not mutate an Unresolved root")
	}
	if !strings.Contains(before, "Unresolved(") {
		t.Fatalf("DebugString of an unresolved root = %q, want it to mention Unresolved", before)
	}
}
