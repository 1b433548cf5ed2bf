package bmptstore

import (
	"sync"

	"github.com/VictoriaMetrics/fastcache"
	lru "github.com/hashicorp/golang-lru"
	"github.com/ethereum/go-ethereum/log"
	"github.com/golang/snappy"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/feltwork/bmpt/felt"
)

// refcountSuffix namespaces the small refcount ledger from the node
// records themselves within the same LevelDB keyspace, the same trick the
// teacher's rawdb package uses for its various key prefixes
// (core/rawdb/accessors_state.go's *Key helpers).
var refcountSuffix = []byte{'#'}

// LevelDBStore is a disk-backed Storage implementation. It layers a clean
// read cache (fastcache) and a bounded pending-write cache (golang-lru) in
// front of LevelDB, mirroring the teacher's trie/wrap_database.go
// (db.cleans, db.dirties) two-tier cache in front of its disk database.
// Node blobs are snappy-compressed before they hit disk, matching the
// compression scheme go-ethereum-family trie databases use.
type LevelDBStore struct {
	mu     sync.Mutex
	db     *leveldb.DB
	clean  *fastcache.Cache
	dirty  *lru.Cache
	closed bool
}

// NewLevelDBStore opens (creating if necessary) a LevelDB-backed Storage
// at dir, with a clean-node cache sized cleanCacheBytes and a bounded
// dirty-node cache holding up to dirtyCacheEntries records.
func NewLevelDBStore(dir string, cleanCacheBytes, dirtyCacheEntries int) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	dirty, err := lru.New(dirtyCacheEntries)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{
		db:    db,
		clean: fastcache.New(cleanCacheBytes),
		dirty: dirty,
	}, nil
}

// Close releases the underlying LevelDB handle.
func (s *LevelDBStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *LevelDBStore) Get(hash felt.Felt) (PersistedNode, bool) {
	key := hash.Bytes32()

	if v, ok := s.dirty.Get(key); ok {
		return v.(PersistedNode), true
	}
	if blob := s.clean.Get(nil, key[:]); blob != nil {
		node, err := decodeCompressed(blob)
		if err != nil {
			log.Warn("bmptstore: discarding corrupt clean-cache entry", "hash", hash, "err", err)
		} else {
			return node, true
		}
	}

	raw, err := s.db.Get(key[:], nil)
	if err != nil {
		return PersistedNode{}, false
	}
	node, err := decodeCompressed(raw)
	if err != nil {
		log.Error("bmptstore: corrupt node record on disk", "hash", hash, "err", err)
		return PersistedNode{}, false
	}
	s.clean.Set(key[:], raw)
	return node, true
}

func (s *LevelDBStore) Upsert(hash felt.Felt, node PersistedNode) {
	key := hash.Bytes32()
	if _, exists := s.dirty.Get(key); exists {
		return
	}
	if blob := s.clean.Get(nil, key[:]); blob != nil {
		return
	}
	if _, err := s.db.Get(key[:], nil); err == nil {
		return
	}
	s.dirty.Add(key, node)

	switch node.Kind {
	case KindBinary:
		s.bumpRefCount(node.Left, 1)
		s.bumpRefCount(node.Right, 1)
	case KindEdge:
		s.bumpRefCount(node.Child, 1)
	}
}

// Flush persists every pending dirty-cache entry to LevelDB, compressing
// each blob with snappy first. The tree engine itself never calls this —
// it is a caller-driven checkpoint operation, analogous to the teacher's
// Trie.Flush/Database cleans-eviction path.
func (s *LevelDBStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := new(leveldb.Batch)
	for _, key := range s.dirty.Keys() {
		v, ok := s.dirty.Peek(key)
		if !ok {
			continue
		}
		node := v.(PersistedNode)
		raw, err := encodeNode(node)
		if err != nil {
			return err
		}
		compressed := snappy.Encode(nil, raw)
		k := key.([32]byte)
		batch.Put(k[:], compressed)
		s.clean.Set(k[:], compressed)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return err
	}
	s.dirty.Purge()
	return nil
}

func (s *LevelDBStore) IncrementRefCount(hash felt.Felt) {
	s.bumpRefCount(hash, 1)
}

func (s *LevelDBStore) DecrementRefCount(hash felt.Felt) {
	count := s.bumpRefCount(hash, -1)
	if count > 0 {
		return
	}

	node, ok := s.Get(hash)
	if !ok {
		return
	}
	key := hash.Bytes32()
	s.mu.Lock()
	_ = s.db.Delete(key[:], nil)
	s.mu.Unlock()
	s.clean.Del(key[:])
	s.dirty.Remove(key)

	switch node.Kind {
	case KindBinary:
		s.DecrementRefCount(node.Left)
		s.DecrementRefCount(node.Right)
	case KindEdge:
		s.DecrementRefCount(node.Child)
	}
}

// bumpRefCount adds delta to hash's stored reference count and returns the
// resulting value. Counts live in the same LevelDB keyspace as node
// records, distinguished by refcountSuffix.
func (s *LevelDBStore) bumpRefCount(hash felt.Felt, delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := hash.Bytes32()
	rcKey := append(append([]byte{}, key[:]...), refcountSuffix...)

	count := 0
	if raw, err := s.db.Get(rcKey, nil); err == nil && len(raw) == 8 {
		count = int(beUint64(raw))
	}
	count += delta
	if count <= 0 {
		_ = s.db.Delete(rcKey, nil)
		return 0
	}
	_ = s.db.Put(rcKey, beBytes(uint64(count)), nil)
	return count
}

func decodeCompressed(blob []byte) (PersistedNode, error) {
	raw, err := snappy.Decode(nil, blob)
	if err != nil {
		return PersistedNode{}, err
	}
	return decodeNode(raw)
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func beBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
