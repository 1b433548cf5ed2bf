package bmptconfig

import (
	"fmt"

	"github.com/feltwork/bmpt/bmpt"
	"github.com/feltwork/bmpt/bmpthash"
	"github.com/feltwork/bmpt/bmptstore"
)

// Build wires a bmpt.Tree from cfg: selects the hasher and storage
// backend it names and hands both to bmpt.New. The returned closer is
// never nil (only the LevelDB backend's does any work) and must be
// called by the caller once done with the tree.
func (cfg Config) Build() (tree *bmpt.Tree, closer func() error, err error) {
	hasher, err := cfg.buildHasher()
	if err != nil {
		return nil, nil, err
	}
	storage, closer, err := cfg.buildStorage()
	if err != nil {
		return nil, nil, err
	}
	return bmpt.New(storage, hasher, cfg.MaxHeight), closer, nil
}

func (cfg Config) buildHasher() (bmpthash.Hasher, error) {
	switch cfg.Hasher {
	case HasherKeccak, "":
		return bmpthash.NewKeccakHasher(), nil
	case HasherToy:
		return bmpthash.NewToyHasher(), nil
	default:
		return nil, fmt.Errorf("bmptconfig: unknown hasher %q", cfg.Hasher)
	}
}

func (cfg Config) buildStorage() (bmptstore.Storage, func() error, error) {
	switch cfg.Storage {
	case StorageNull:
		return bmptstore.NewNullStore(), func() error { return nil }, nil
	case StorageMemory, "":
		return bmptstore.NewMemoryStore(), func() error { return nil }, nil
	case StorageLevelDB:
		if cfg.LevelDB.Dir == "" {
			return nil, nil, fmt.Errorf("bmptconfig: storage=leveldb requires LevelDB.Dir")
		}
		store, err := bmptstore.NewLevelDBStore(cfg.LevelDB.Dir, cfg.LevelDB.CleanCacheBytes, cfg.LevelDB.DirtyCacheEntries)
		if err != nil {
			return nil, nil, fmt.Errorf("bmptconfig: open leveldb store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("bmptconfig: unknown storage backend %q", cfg.Storage)
	}
}
