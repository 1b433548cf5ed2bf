package bmptstore

import "github.com/feltwork/bmpt/felt"

// nullStore is the no-op storage backing for ephemeral trees (spec §6.1:
// "A null storage ... is a legitimate implementation"). get always misses,
// upsert/refcount calls are no-ops.
type nullStore struct{}

// NewNullStore returns a Storage that persists nothing.
func NewNullStore() Storage {
	return nullStore{}
}

func (nullStore) Get(felt.Felt) (PersistedNode, bool)  { return PersistedNode{}, false }
func (nullStore) Upsert(felt.Felt, PersistedNode)      {}
func (nullStore) IncrementRefCount(felt.Felt)          {}
func (nullStore) DecrementRefCount(felt.Felt)          {}
