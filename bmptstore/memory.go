package bmptstore

import "github.com/feltwork/bmpt/felt"

// memoryStore is a map-backed Storage, grounded on the original Rust
// implementation's own "HashMap based" test storage and on the teacher's
// in-memory dirties cache (trie/wrap_database.go). Reference counts are
// tracked per hash; DecrementRefCount recursively decrements a node's
// children and deletes the record once its count reaches zero, per the
// storage's responsibility described in spec §6.1.
type memoryStore struct {
	records  map[felt.Felt]PersistedNode
	refcount map[felt.Felt]int
}

// NewMemoryStore returns an in-memory Storage suitable for tests and
// small/ephemeral deployments.
func NewMemoryStore() Storage {
	return &memoryStore{
		records:  make(map[felt.Felt]PersistedNode),
		refcount: make(map[felt.Felt]int),
	}
}

func (s *memoryStore) Get(hash felt.Felt) (PersistedNode, bool) {
	n, ok := s.records[hash]
	return n, ok
}

// Upsert writes node under hash the first time it is seen. Its children's
// reference counts are bumped at that point: a node's refcount is "how
// many live parents point at me", and the only parent a freshly-upserted
// node has is the one committing it right now. Re-upserting the same hash
// (the common case — shared subtrees across commits) is a pure no-op per
// spec §4.2 and does not touch any refcount, including the children's.
func (s *memoryStore) Upsert(hash felt.Felt, node PersistedNode) {
	if _, exists := s.records[hash]; exists {
		return
	}
	s.records[hash] = node
	switch node.Kind {
	case KindBinary:
		s.refcount[node.Left]++
		s.refcount[node.Right]++
	case KindEdge:
		s.refcount[node.Child]++
	}
}

func (s *memoryStore) IncrementRefCount(hash felt.Felt) {
	s.refcount[hash]++
}

func (s *memoryStore) DecrementRefCount(hash felt.Felt) {
	count, ok := s.refcount[hash]
	if !ok {
		return
	}
	count--
	if count > 0 {
		s.refcount[hash] = count
		return
	}
	delete(s.refcount, hash)

	node, ok := s.records[hash]
	if !ok {
		return
	}
	delete(s.records, hash)

	switch node.Kind {
	case KindBinary:
		s.DecrementRefCount(node.Left)
		s.DecrementRefCount(node.Right)
	case KindEdge:
		s.DecrementRefCount(node.Child)
	}
}
