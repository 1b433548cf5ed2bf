package felt

import "strings"

// BitPath is an ordered, most-significant-bit-first sequence of bits of
// length at most 251 (spec §3 "Bit path"). The zero value is the empty
// path.
type BitPath struct {
	bits []bool
}

// NewBitPath builds a BitPath from an explicit bit sequence.
func NewBitPath(bits ...bool) BitPath {
	out := make([]bool, len(bits))
	copy(out, bits)
	return BitPath{bits: out}
}

// KeyPath extracts the bits of key in [lo, hi) as a BitPath, MSB-first,
// against the given total width (the tree's max_height).
func KeyPath(key Felt, lo, hi, width uint16) BitPath {
	if hi < lo {
		panic("felt: KeyPath with hi < lo")
	}
	bits := make([]bool, 0, hi-lo)
	for i := lo; i < hi; i++ {
		bits = append(bits, key.Bit(i, width))
	}
	return BitPath{bits: bits}
}

// Len returns the number of bits in the path.
func (p BitPath) Len() int {
	return len(p.bits)
}

// Bit returns the i-th bit (0 = first/most-significant).
func (p BitPath) Bit(i int) bool {
	return p.bits[i]
}

// IsEmpty reports whether the path has zero length.
func (p BitPath) IsEmpty() bool {
	return len(p.bits) == 0
}

// Slice returns the sub-path p[lo:hi].
func (p BitPath) Slice(lo, hi int) BitPath {
	out := make([]bool, hi-lo)
	copy(out, p.bits[lo:hi])
	return BitPath{bits: out}
}

// Append returns a new path equal to p with bit appended.
func (p BitPath) Append(bit bool) BitPath {
	out := make([]bool, len(p.bits)+1)
	copy(out, p.bits)
	out[len(p.bits)] = bit
	return BitPath{bits: out}
}

// Concat returns p followed by other.
func (p BitPath) Concat(other BitPath) BitPath {
	out := make([]bool, len(p.bits)+len(other.bits))
	copy(out, p.bits)
	copy(out[len(p.bits):], other.bits)
	return BitPath{bits: out}
}

// Equal reports whether p and other contain the same bits.
func (p BitPath) Equal(other BitPath) bool {
	if len(p.bits) != len(other.bits) {
		return false
	}
	for i, b := range p.bits {
		if b != other.bits[i] {
			return false
		}
	}
	return true
}

// MatchesKeyPrefix reports whether p equals key's bits in [from, from+p.Len()).
func (p BitPath) MatchesKeyPrefix(key Felt, from, width uint16) bool {
	if int(from)+len(p.bits) > int(width) {
		return false
	}
	for i, b := range p.bits {
		if key.Bit(from+uint16(i), width) != b {
			return false
		}
	}
	return true
}

// CommonPrefixLen returns the length of the longest common prefix between
// p and key's bits starting at from (against the given width).
func (p BitPath) CommonPrefixLen(key Felt, from, width uint16) int {
	n := 0
	for n < len(p.bits) && uint16(from)+uint16(n) < width && p.bits[n] == key.Bit(from+uint16(n), width) {
		n++
	}
	return n
}

// ToFelt right-pads the path into a width-bit integer: path bits occupy
// the top p.Len() bits, the remaining low-order bits are zero. This is
// the "path_as_felt" construction used by the edge-node hash (spec §4.2).
func (p BitPath) ToFelt(width uint16) Felt {
	var f Felt
	for i, b := range p.bits {
		if !b {
			continue
		}
		shift := int(width) - 1 - i
		var bit Felt
		bit.v.SetUint64(1)
		bit.v.Lsh(&bit.v, uint(shift))
		f.v.Add(&f.v, &bit.v)
	}
	f.v.Mod(&f.v, prime)
	return f
}

// String renders the path as a string of '0'/'1' characters.
func (p BitPath) String() string {
	var b strings.Builder
	for _, bit := range p.bits {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
