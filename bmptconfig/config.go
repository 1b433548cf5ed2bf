// Package bmptconfig loads the small TOML document that selects a tree's
// max height and which hasher/storage backend to wire it with. The
// core bmpt package itself takes no dependency on file formats or flags
// (spec.md §1 excludes configuration from the core's scope); this
// package is the ambient layer cmd/bmpttool builds on, in the same way
// the teacher keeps its own TOML config loading in cmd/gprobe rather
// than in any library package.
package bmptconfig

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
)

// HasherKind selects which bmpthash.Hasher a tree is built with.
type HasherKind string

const (
	HasherKeccak HasherKind = "keccak"
	HasherToy    HasherKind = "toy"
)

// StorageKind selects which bmptstore.Storage a tree is built with.
type StorageKind string

const (
	StorageNull    StorageKind = "null"
	StorageMemory  StorageKind = "memory"
	StorageLevelDB StorageKind = "leveldb"
)

// Config is the full TOML document: tree shape plus backend selection.
type Config struct {
	MaxHeight uint16 `toml:",omitempty"`
	Hasher    HasherKind
	Storage   StorageKind

	LevelDB LevelDBConfig `toml:",omitempty"`
}

// LevelDBConfig configures the on-disk storage backend. Meaningful only
// when Config.Storage == StorageLevelDB.
type LevelDBConfig struct {
	Dir               string
	CleanCacheBytes   int `toml:",omitempty"`
	DirtyCacheEntries int `toml:",omitempty"`
}

// Default is a ready-to-use configuration: a 251-bit Starknet-shaped
// tree, Keccak256 hasher, in-memory storage.
var Default = Config{
	MaxHeight: 251,
	Hasher:    HasherKeccak,
	Storage:   StorageMemory,
	LevelDB: LevelDBConfig{
		CleanCacheBytes:   16 * 1024 * 1024,
		DirtyCacheEntries: 4096,
	},
}

// tomlSettings mirrors the teacher's own cmd/gprobe tomlSettings
// (exact-case field names, a descriptive error on an unknown TOML key).
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) {
			link = fmt.Sprintf(" (see %s)", rt.String())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// Load reads and decodes a TOML config file, starting from Default.
func Load(path string) (Config, error) {
	cfg := Default

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&cfg)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(path + ", " + err.Error())
	}
	return cfg, err
}
