package bmptstore

import (
	"testing"

	"github.com/feltwork/bmpt/felt"
)

func TestMemoryStoreUpsertIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	h := felt.FromUint64(1)
	node := PersistedNode{Kind: KindBinary, Left: felt.FromUint64(2), Right: felt.FromUint64(3)}

	s.Upsert(h, node)
	s.IncrementRefCount(h)

	got, ok := s.Get(h)
	if !ok {
		t.Fatalf("expected node to be present after Upsert")
	}
	if got.Left != node.Left || got.Right != node.Right {
		t.Fatalf("got %+v, want %+v", got, node)
	}

	// Re-upserting must not disturb the existing record or its refcount.
	s.Upsert(h, PersistedNode{Kind: KindBinary, Left: felt.FromUint64(99), Right: felt.FromUint64(99)})
	got, _ = s.Get(h)
	if got.Left != node.Left {
		t.Fatalf("re-upsert mutated an existing record")
	}
}

func TestMemoryStoreRefCountCascadesOnDelete(t *testing.T) {
	s := NewMemoryStore().(*memoryStore)
	leftChild := felt.FromUint64(10)
	rightChild := felt.FromUint64(11)
	root := felt.FromUint64(20)

	s.Upsert(leftChild, PersistedNode{Kind: KindEdge, Path: felt.NewBitPath(true), Child: felt.FromUint64(1)})
	s.Upsert(rightChild, PersistedNode{Kind: KindEdge, Path: felt.NewBitPath(false), Child: felt.FromUint64(2)})
	s.Upsert(root, PersistedNode{Kind: KindBinary, Left: leftChild, Right: rightChild})
	s.IncrementRefCount(root)

	if _, ok := s.Get(leftChild); !ok {
		t.Fatalf("left child should be reachable before decrement")
	}

	s.DecrementRefCount(root)

	if _, ok := s.Get(root); ok {
		t.Fatalf("root should have been collected")
	}
	if _, ok := s.Get(leftChild); ok {
		t.Fatalf("left child should have been collected by cascade")
	}
	if _, ok := s.Get(rightChild); ok {
		t.Fatalf("right child should have been collected by cascade")
	}
}

func TestNullStoreAlwaysMisses(t *testing.T) {
	s := NewNullStore()
	s.Upsert(felt.FromUint64(1), PersistedNode{Kind: KindBinary})
	s.IncrementRefCount(felt.FromUint64(1))
	if _, ok := s.Get(felt.FromUint64(1)); ok {
		t.Fatalf("null store should never retain a record")
	}
}
