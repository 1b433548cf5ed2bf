package bmpt

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/feltwork/bmpt/bmpthash"
	"github.com/feltwork/bmpt/bmptstore"
	"github.com/feltwork/bmpt/felt"
)

// Tree owns a root handle, the tree's configured max height, and the
// storage/hasher capabilities it was built with (spec.md §4, component D).
// A Tree is not safe for concurrent use (spec.md §5): every public method
// assumes exclusive access, including reads, since traversal mutates
// Unresolved handles in place as it resolves them.
type Tree struct {
	root      *Node
	maxHeight uint16
	storage   bmptstore.Storage
	hasher    bmpthash.Hasher
	leafLog   *bmptstore.MMapLeafLog
}

// TreeOption configures optional behavior attached to a Tree at
// construction. The core engine (spec.md §4) needs none of these; they
// are ambient conveniences a caller opts into (see SPEC_FULL.md §2).
type TreeOption func(*Tree)

// WithLeafLog attaches a bulk leaf-export log. Commit appends every
// freshly committed leaf's (path, value) pair to log as it walks the
// tree hashing dirty subtrees, giving a caller a fast sequential
// bulk-export path alongside the normal storage-backed commit. A leaf
// is appended only when Commit actually recurses into it, i.e. only
// when some ancestor Edge/Binary was dirty — unchanged subtrees are
// never re-appended.
func WithLeafLog(log *bmptstore.MMapLeafLog) TreeOption {
	return func(t *Tree) { t.leafLog = log }
}

// New returns an empty tree (root = Unresolved(ZERO)) bound to storage
// and hasher, with keys/values addressed over maxHeight bits. No storage
// I/O occurs (spec.md §4.10).
func New(storage bmptstore.Storage, hasher bmpthash.Hasher, maxHeight uint16, opts ...TreeOption) *Tree {
	t := &Tree{
		root:      newUnresolved(felt.Zero, 0),
		maxHeight: maxHeight,
		storage:   storage,
		hasher:    hasher,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Height returns the tree's configured max height.
func (t *Tree) Height() uint16 {
	return t.maxHeight
}

// IsEmpty reports whether the tree's root is the Unresolved(ZERO) sentinel.
func (t *Tree) IsEmpty() bool {
	return t.root.Kind == KindUnresolved && t.root.UnresolvedHash.IsZero()
}

// traverse walks from the root toward key, returning the path of visited
// node handles (spec.md §4.1). The terminus is either a Leaf at the key
// (hit) or an Edge whose divergence identifies the branch point (miss);
// it is never a Binary or an Unresolved node. An empty tree returns a nil
// path.
func (t *Tree) traverse(key felt.Felt) []*Node {
	if t.IsEmpty() {
		return nil
	}

	var path []*Node
	cur := t.root
	height := uint16(0)
	for {
		if cur.Kind == KindUnresolved {
			*cur = *t.resolve(cur.UnresolvedHash, height)
		}

		switch cur.Kind {
		case KindBinary:
			path = append(path, cur)
			if felt.DirectionFromBit(key.Bit(height, t.maxHeight)) == felt.Left {
				cur = cur.Left
			} else {
				cur = cur.Right
			}
			height++

		case KindEdge:
			path = append(path, cur)
			if !cur.Path.MatchesKeyPrefix(key, height, t.maxHeight) {
				return path
			}
			height += uint16(cur.Path.Len())
			cur = cur.Child

		case KindLeaf:
			path = append(path, cur)
			return path

		default:
			invariantf("traverse", "unexpected node kind %s mid-walk", cur.Kind)
		}
	}
}

// resolve loads the persisted record for hash at the given height and
// materializes the corresponding in-memory node (spec.md §4.6). At
// height == maxHeight it synthesizes a Leaf without a storage round
// trip: leaves are never persisted, and a leaf's identity is, by
// convention, the very hash used to reference it.
func (t *Tree) resolve(hash felt.Felt, height uint16) *Node {
	if height == t.maxHeight {
		return newLeaf(hash, height)
	}

	record, ok := t.storage.Get(hash)
	if !ok {
		log.Error("bmpt: storage miss resolving node", "hash", hash, "height", height)
		panic(&MissingNodeError{NodeHash: hash, Height: height})
	}

	var n *Node
	switch record.Kind {
	case bmptstore.KindBinary:
		n = newBinary(height, newUnresolved(record.Left, height+1), newUnresolved(record.Right, height+1))
	case bmptstore.KindEdge:
		childHeight := height + uint16(record.Path.Len())
		n = newEdge(height, record.Path, newUnresolved(record.Child, childHeight))
	default:
		invariantf("resolve", "storage returned a Leaf/unknown record at non-terminal height %d (hash %s)", height, hash)
	}
	n.setHash(hash)
	return n
}

// Set inserts or overwrites key's value (spec.md §4.3). value == ZERO is
// reinterpreted as deletion, never as an error.
func (t *Tree) Set(key, value felt.Felt) {
	if value.IsZero() {
		t.DeleteLeaf(key)
		return
	}

	path := t.traverse(key)
	for _, n := range path {
		n.markDirty()
	}

	if len(path) == 0 {
		*t.root = *newEdge(0, felt.KeyPath(key, 0, t.maxHeight, t.maxHeight), newLeaf(value, t.maxHeight))
		return
	}

	terminus := path[len(path)-1]
	switch terminus.Kind {
	case KindLeaf:
		terminus.Value = value
	case KindEdge:
		t.splitEdge(terminus, key, value)
	default:
		invariantf("Set", "traversal terminus was %s, expected Leaf or Edge", terminus.Kind)
	}
}

// splitEdge rewrites terminus (an Edge node) in place to accommodate a
// new key that diverges somewhere along its path (spec.md §4.3, "Terminus
// is Edge").
func (t *Tree) splitEdge(edge *Node, key, value felt.Felt) {
	common := edge.Path.CommonPrefixLen(key, edge.Height, t.maxHeight)
	branchHeight := edge.Height + uint16(common)
	childHeight := branchHeight + 1

	newLeafPath := felt.KeyPath(key, childHeight, t.maxHeight, t.maxHeight)
	var newBranch *Node
	if newLeafPath.IsEmpty() {
		newBranch = newLeaf(value, childHeight)
	} else {
		newBranch = newEdge(childHeight, newLeafPath, newLeaf(value, t.maxHeight))
	}

	oldChildPath := edge.Path.Slice(common+1, edge.Path.Len())
	var oldBranch *Node
	if oldChildPath.IsEmpty() {
		oldBranch = edge.Child
	} else {
		oldBranch = newEdge(childHeight, oldChildPath, edge.Child)
	}

	var left, right *Node
	if felt.DirectionFromBit(key.Bit(branchHeight, t.maxHeight)) == felt.Left {
		left, right = newBranch, oldBranch
	} else {
		left, right = oldBranch, newBranch
	}
	binary := newBinary(branchHeight, left, right)

	if common == 0 {
		*edge = *binary
		return
	}
	*edge = *newEdge(edge.Height, edge.Path.Slice(0, common), binary)
}

// DeleteLeaf removes key, if present (spec.md §4.4). Absent keys, and
// keys whose traversal terminus isn't a Leaf, are a silent no-op.
func (t *Tree) DeleteLeaf(key felt.Felt) {
	path := t.traverse(key)
	if len(path) == 0 {
		return
	}
	terminus := path[len(path)-1]
	if terminus.Kind != KindLeaf {
		return
	}
	for _, n := range path {
		n.markDirty()
	}

	binaryIdx := -1
	for i := len(path) - 2; i >= 0; i-- {
		if path[i].Kind == KindBinary {
			binaryIdx = i
			break
		}
	}
	if binaryIdx == -1 {
		*t.root = *newUnresolved(felt.Zero, 0)
		return
	}

	binary := path[binaryIdx]
	towardKey := felt.DirectionFromBit(key.Bit(binary.Height, t.maxHeight))
	survive := towardKey.Invert()
	var survivingChild *Node
	if survive == felt.Left {
		survivingChild = binary.Left
	} else {
		survivingChild = binary.Right
	}

	merged := newEdge(binary.Height, felt.NewBitPath(survive.Bit()), survivingChild)
	t.mergeEdges(merged)
	*binary = *merged

	if binaryIdx-1 >= 0 && path[binaryIdx-1].Kind == KindEdge {
		t.mergeEdges(path[binaryIdx-1])
	}
}

// Get returns key's value, or (_, false) if absent (spec.md §4.7).
func (t *Tree) Get(key felt.Felt) (felt.Felt, bool) {
	path := t.traverse(key)
	if len(path) == 0 {
		return felt.Zero, false
	}
	terminus := path[len(path)-1]
	if terminus.Kind == KindLeaf && !terminus.Value.IsZero() {
		return terminus.Value, true
	}
	return felt.Zero, false
}

// Commit recursively hashes every dirty subtree, persists it through
// storage, and increments the new root's reference count (spec.md §4.2).
// It returns the root hash and the number of dirty Binary/Edge nodes it
// hashed and upserted (a supplemented accessor; see SPEC_FULL.md §4); an
// upsert of a hash the storage already holds is counted too. If the tree
// was built WithLeafLog, every freshly committed leaf is also appended
// there as it's walked.
func (t *Tree) Commit() (felt.Felt, int, error) {
	persisted := 0
	rootHash := t.commitNode(t.root, felt.NewBitPath(), &persisted)
	t.storage.IncrementRefCount(rootHash)
	return rootHash, persisted, nil
}

func (t *Tree) commitNode(n *Node, path felt.BitPath, persisted *int) felt.Felt {
	switch n.Kind {
	case KindUnresolved:
		return n.UnresolvedHash
	case KindLeaf:
		if t.leafLog != nil {
			if err := t.leafLog.Append(path.ToFelt(t.maxHeight), n.Value); err != nil {
				log.Error("bmpt: leaf log append failed", "err", err)
			}
		}
		return n.Value
	case KindBinary:
		if !n.dirty() {
			h, _ := n.committedHash()
			return h
		}
		leftHash := t.commitNode(n.Left, path.Append(false), persisted)
		rightHash := t.commitNode(n.Right, path.Append(true), persisted)
		h := t.hasher.Hash(leftHash, rightHash)
		n.setHash(h)
		t.storage.Upsert(h, bmptstore.PersistedNode{Kind: bmptstore.KindBinary, Left: leftHash, Right: rightHash})
		*persisted++
		return h
	case KindEdge:
		if !n.dirty() {
			h, _ := n.committedHash()
			return h
		}
		childHash := t.commitNode(n.Child, path.Concat(n.Path), persisted)
		pathFelt := n.Path.ToFelt(t.maxHeight)
		h := bmpthash.EdgeHash(t.hasher, childHash, pathFelt, n.Path.Len())
		n.setHash(h)
		t.storage.Upsert(h, bmptstore.PersistedNode{Kind: bmptstore.KindEdge, Path: n.Path, Child: childHash})
		*persisted++
		return h
	default:
		invariantf("commit", "unexpected node kind %s", n.Kind)
		panic("unreachable")
	}
}
