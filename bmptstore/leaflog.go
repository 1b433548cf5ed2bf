package bmptstore

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/feltwork/bmpt/felt"
)

// leafRecordSize is the fixed-width on-disk shape of one leaf record:
// a 32-byte path-as-felt key followed by a 32-byte value.
const leafRecordSize = 64

// MMapLeafLog is an append-only, memory-mapped log of committed leaf
// values keyed by their path-as-felt (spec.md deliberately leaves leaf
// persistence format out of the core's scope; this is an optional bulk
// export path a caller can attach, not something the tree engine itself
// requires). It is grounded on the teacher's own hand-rolled BinaryTree
// (trie/trie.go: mem mmap.MMap, binaryLeafs []binaryLeaf), adapted here
// from an in-place hash-indexed array to a flat append log, since this
// engine's leaves are addressed by path rather than by a fixed
// 2^depth-sized array.
type MMapLeafLog struct {
	f       *os.File
	mem     mmap.MMap
	size    int64
	entries int
}

// OpenMMapLeafLog opens (creating if necessary) a leaf log backed by
// path, pre-sized to hold capacity entries.
func OpenMMapLeafLog(path string, capacity int) (*MMapLeafLog, error) {
	if capacity < 1 {
		capacity = 1
	}
	size := int64(capacity) * leafRecordSize

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("bmptstore: open leaf log: %w", err)
	}
	if info, err := f.Stat(); err != nil {
		f.Close()
		return nil, fmt.Errorf("bmptstore: stat leaf log: %w", err)
	} else if info.Size() < size {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, fmt.Errorf("bmptstore: grow leaf log: %w", err)
		}
	}

	mem, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("bmptstore: mmap leaf log: %w", err)
	}

	log := &MMapLeafLog{f: f, mem: mem, size: size}
	log.entries = log.scanEntryCount()
	return log, nil
}

// scanEntryCount finds the first all-zero record, treating it as the
// end of the written log (a zero path-as-felt/value pair never occurs
// for a real entry, since Leaf(0) is never materialized, spec.md
// invariant 8).
func (l *MMapLeafLog) scanEntryCount() int {
	max := len(l.mem) / leafRecordSize
	for i := 0; i < max; i++ {
		off := i * leafRecordSize
		if isZero(l.mem[off : off+leafRecordSize]) {
			return i
		}
	}
	return max
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// Append writes one more (pathAsFelt, value) record to the log. It
// grows the backing file, remapping it, if the log is at capacity.
func (l *MMapLeafLog) Append(pathAsFelt, value felt.Felt) error {
	needed := int64(l.entries+1) * leafRecordSize
	if needed > l.size {
		if err := l.grow(needed * 2); err != nil {
			return err
		}
	}
	off := l.entries * leafRecordSize
	pb := pathAsFelt.Bytes32()
	vb := value.Bytes32()
	copy(l.mem[off:off+32], pb[:])
	copy(l.mem[off+32:off+leafRecordSize], vb[:])
	l.entries++
	return nil
}

func (l *MMapLeafLog) grow(newSize int64) error {
	if err := l.mem.Unmap(); err != nil {
		return fmt.Errorf("bmptstore: unmap leaf log: %w", err)
	}
	if err := l.f.Truncate(newSize); err != nil {
		return fmt.Errorf("bmptstore: grow leaf log: %w", err)
	}
	mem, err := mmap.Map(l.f, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("bmptstore: remap leaf log: %w", err)
	}
	l.mem = mem
	l.size = newSize
	return nil
}

// At returns the i-th appended (pathAsFelt, value) pair.
func (l *MMapLeafLog) At(i int) (felt.Felt, felt.Felt, error) {
	if i < 0 || i >= l.entries {
		return felt.Zero, felt.Zero, fmt.Errorf("bmptstore: leaf log index %d out of range (%d entries)", i, l.entries)
	}
	off := i * leafRecordSize
	var pb, vb [32]byte
	copy(pb[:], l.mem[off:off+32])
	copy(vb[:], l.mem[off+32:off+leafRecordSize])
	return felt.FromBytes32(pb), felt.FromBytes32(vb), nil
}

// Len returns the number of entries appended so far.
func (l *MMapLeafLog) Len() int {
	return l.entries
}

// Flush syncs the memory-mapped region to disk.
func (l *MMapLeafLog) Flush() error {
	return l.mem.Flush()
}

// Close unmaps and closes the backing file.
func (l *MMapLeafLog) Close() error {
	if err := l.mem.Unmap(); err != nil {
		return err
	}
	return l.f.Close()
}
