package bmpthash

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/feltwork/bmpt/felt"
)

// keccakHasher compresses two field elements with Keccak256 over their
// concatenated big-endian encodings, reducing the digest back into the
// field. It is grounded on the teacher's own trie package, which imports
// this exact function to hash shortNode/fullNode contents.
//
// This is a stand-in for Starknet's production Pedersen/Poseidon hash,
// which is an external capability per spec §6.2 and deliberately not
// shipped by the core; swap in a real implementation by satisfying Hasher.
type keccakHasher struct{}

// NewKeccakHasher returns a Hasher backed by Keccak256.
func NewKeccakHasher() Hasher {
	return keccakHasher{}
}

func (keccakHasher) Hash(a, b felt.Felt) felt.Felt {
	ab := a.Bytes32()
	bb := b.Bytes32()
	digest := crypto.Keccak256(ab[:], bb[:])
	var out [32]byte
	copy(out[:], digest)
	return felt.FromBytes32(out)
}
