// Package bmpthash defines the pluggable two-to-one compression capability
// the tree engine hashes nodes with (spec §6.2), plus a couple of concrete
// implementations: a Keccak256-backed hasher suitable for a real Starknet-
// like deployment's test/dev path, and a tiny arithmetic hasher used by the
// bmpt package's scenario tests (spec §8's H(a,b) = a*31 + b convention).
package bmpthash

import "github.com/feltwork/bmpt/felt"

// Hasher is the capability the tree engine hashes Binary and Edge nodes
// with. It is injected at tree construction time (spec §6.2, §9 "pluggable
// hasher") rather than hard-coded, so that test hashers and the eventual
// real Starknet hash (Pedersen/Poseidon) can share the same tree engine.
type Hasher interface {
	// Hash combines two already-hashed children into a parent hash, used
	// for Binary nodes: H(left.hash, right.hash).
	Hash(a, b felt.Felt) felt.Felt
}

// EdgeHash folds a child hash and an edge's path into the edge's own hash,
// per spec §4.2: H(child, path_as_felt) + path.len(). This construction is
// fixed by the core (it is not part of the injected capability) — only the
// two-to-one compression itself is pluggable.
func EdgeHash(h Hasher, childHash, pathAsFelt felt.Felt, pathLen int) felt.Felt {
	return h.Hash(childHash, pathAsFelt).AddUint64(uint64(pathLen))
}
