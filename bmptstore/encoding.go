package bmptstore

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/feltwork/bmpt/felt"
)

// rlpBinary/rlpEdge are the RLP wire shapes for a persisted Binary/Edge
// node, mirroring the teacher's own node encoding (trie/node.go's
// EncodeRLP / decodeShort / decodeFull) adapted from a 17-ary hex trie to
// our two-child binary trie.
type rlpBinary struct {
	Left  [32]byte
	Right [32]byte
}

type rlpEdge struct {
	PathBits []bool
	Child    [32]byte
}

var errUnknownNodeKind = errors.New("bmptstore: cannot encode a Leaf/unknown PersistedNode")

// encodeNode turns a PersistedNode into its RLP wire form, tagged with a
// one-byte kind prefix exactly like the teacher's nodeTypeStem/nodeTypeInternal
// prefix byte in wyf-ACCEPT-eth2030's bintrie package.
func encodeNode(n PersistedNode) ([]byte, error) {
	switch n.Kind {
	case KindBinary:
		body, err := rlp.EncodeToBytes(rlpBinary{Left: n.Left.Bytes32(), Right: n.Right.Bytes32()})
		if err != nil {
			return nil, fmt.Errorf("bmptstore: encode binary node: %w", err)
		}
		return append([]byte{byte(KindBinary)}, body...), nil
	case KindEdge:
		bits := make([]bool, n.Path.Len())
		for i := 0; i < n.Path.Len(); i++ {
			bits[i] = n.Path.Bit(i)
		}
		body, err := rlp.EncodeToBytes(rlpEdge{PathBits: bits, Child: n.Child.Bytes32()})
		if err != nil {
			return nil, fmt.Errorf("bmptstore: encode edge node: %w", err)
		}
		return append([]byte{byte(KindEdge)}, body...), nil
	default:
		return nil, errUnknownNodeKind
	}
}

// decodeNode parses the wire form written by encodeNode.
func decodeNode(buf []byte) (PersistedNode, error) {
	if len(buf) == 0 {
		return PersistedNode{}, errors.New("bmptstore: empty node record")
	}
	switch Kind(buf[0]) {
	case KindBinary:
		var body rlpBinary
		if err := rlp.DecodeBytes(buf[1:], &body); err != nil {
			return PersistedNode{}, fmt.Errorf("bmptstore: decode binary node: %w", err)
		}
		return PersistedNode{Kind: KindBinary, Left: felt.FromBytes32(body.Left), Right: felt.FromBytes32(body.Right)}, nil
	case KindEdge:
		var body rlpEdge
		if err := rlp.DecodeBytes(buf[1:], &body); err != nil {
			return PersistedNode{}, fmt.Errorf("bmptstore: decode edge node: %w", err)
		}
		return PersistedNode{Kind: KindEdge, Path: felt.NewBitPath(body.PathBits...), Child: felt.FromBytes32(body.Child)}, nil
	case KindLeaf:
		return PersistedNode{Kind: KindLeaf}, nil
	default:
		return PersistedNode{}, fmt.Errorf("bmptstore: unknown node kind byte %d", buf[0])
	}
}
