package bmptstore

import (
	"path/filepath"
	"testing"

	"github.com/feltwork/bmpt/felt"
)

func TestLevelDBStoreUpsertGetFlush(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	store, err := NewLevelDBStore(dir, 1<<20, 64)
	if err != nil {
		t.Fatalf("NewLevelDBStore: %v", err)
	}
	defer store.Close()

	h := felt.FromUint64(1)
	node := PersistedNode{Kind: KindEdge, Path: felt.NewBitPath(true, false, true), Child: felt.FromUint64(5)}
	store.Upsert(h, node)

	got, ok := store.Get(h)
	if !ok {
		t.Fatalf("expected to read back the dirty-cache entry before flush")
	}
	if got.Kind != KindEdge || !got.Child.Equal(node.Child) {
		t.Fatalf("got %+v, want %+v", got, node)
	}

	if err := store.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	got, ok = store.Get(h)
	if !ok {
		t.Fatalf("expected to read back the flushed disk entry")
	}
	if !got.Path.Equal(node.Path) {
		t.Fatalf("path mismatch after flush: got %s, want %s", got.Path, node.Path)
	}
}

func TestLevelDBStoreReopenPersists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	h := felt.FromUint64(7)
	node := PersistedNode{Kind: KindBinary, Left: felt.FromUint64(1), Right: felt.FromUint64(2)}

	store, err := NewLevelDBStore(dir, 1<<20, 64)
	if err != nil {
		t.Fatalf("NewLevelDBStore: %v", err)
	}
	store.Upsert(h, node)
	if err := store.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewLevelDBStore(dir, 1<<20, 64)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.Get(h)
	if !ok {
		t.Fatalf("expected the record to survive a reopen")
	}
	if !got.Left.Equal(node.Left) || !got.Right.Equal(node.Right) {
		t.Fatalf("got %+v, want %+v", got, node)
	}
}
