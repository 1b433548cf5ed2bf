// Package felt implements the canonical field element type used as both
// key and value space for the binary Merkle-Patricia tree, plus the
// bit-path helpers built on top of it.
package felt

import (
	"fmt"

	"github.com/holiman/uint256"
)

// primeHex is the Stark field prime: 2^251 + 17*2^192 + 1.
const primeHex = "0x800000000000011000000000000000000000000000000000000000000000001"

// prime is the modulus every Felt value is reduced against.
var prime = uint256.MustFromHex(primeHex)

// Felt is a canonical element of the Stark prime field. The zero value is
// the field's ZERO element and is ready to use.
type Felt struct {
	v uint256.Int
}

// Zero is the distinguished zero element; "key absent" / "empty tree" are
// both expressed in terms of it.
var Zero = Felt{}

// FromUint64 builds a Felt from a small unsigned integer.
func FromUint64(v uint64) Felt {
	var f Felt
	f.v.SetUint64(v)
	return f
}

// FromBytes32 reduces a big-endian 32-byte value modulo the field prime.
func FromBytes32(b [32]byte) Felt {
	var f Felt
	f.v.SetBytes(b[:])
	if f.v.Gt(prime) || f.v.Eq(prime) {
		f.v.Mod(&f.v, prime)
	}
	return f
}

// Bytes32 renders the element as a big-endian 32-byte array.
func (f Felt) Bytes32() [32]byte {
	return f.v.Bytes32()
}

// IsZero reports whether f is the field's zero element.
func (f Felt) IsZero() bool {
	return f.v.IsZero()
}

// Equal reports whether f and other denote the same field element.
func (f Felt) Equal(other Felt) bool {
	return f.v.Eq(&other.v)
}

// Add returns f + other, reduced modulo the field prime.
func (f Felt) Add(other Felt) Felt {
	var out Felt
	out.v.AddMod(&f.v, &other.v, prime)
	return out
}

// Mul returns f * other, reduced modulo the field prime.
func (f Felt) Mul(other Felt) Felt {
	var out Felt
	out.v.MulMod(&f.v, &other.v, prime)
	return out
}

// MulUint64 returns f * v, reduced modulo the field prime.
func (f Felt) MulUint64(v uint64) Felt {
	return f.Mul(FromUint64(v))
}

// AddUint64 returns f + v, reduced modulo the field prime. Used to fold an
// edge node's path length into its hash per the commit construction in
// spec §4.2.
func (f Felt) AddUint64(v uint64) Felt {
	return f.Add(FromUint64(v))
}

// Bit returns the bit of f at position i (0 = most significant), treating
// f as a fixed-width integer of the given width. width is always the
// tree's configured max height, never the full 256-bit backing word, so
// that trees with a smaller max_height (as used in small-scale tests)
// address the correct bits.
func (f Felt) Bit(i, width uint16) bool {
	if i >= width {
		panic(fmt.Sprintf("felt: bit index %d out of range for width %d", i, width))
	}
	return f.v.Bit(uint(width-1-i)) != 0
}

// String renders the element in hexadecimal, matching the debug format
// used throughout the go-ethereum-derived trie the core is grounded on.
func (f Felt) String() string {
	return f.v.Hex()
}
