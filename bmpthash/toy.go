package bmpthash

import "github.com/feltwork/bmpt/felt"

// toyHasher implements the tiny H(a,b) = a*31 + b convention spec §8 uses
// for its end-to-end scenarios (S1-S6). It exists purely so the bmpt
// package's scenario tests can reproduce those scenarios; production trees
// should use NewKeccakHasher or a real Starknet hash implementation.
type toyHasher struct{}

// NewToyHasher returns the deterministic H(a,b) = a*31 + b hasher spec §8
// defines for its worked examples.
func NewToyHasher() Hasher {
	return toyHasher{}
}

func (toyHasher) Hash(a, b felt.Felt) felt.Felt {
	return a.MulUint64(31).Add(b)
}
