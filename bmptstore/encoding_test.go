package bmptstore

import (
	"testing"

	"github.com/feltwork/bmpt/felt"
)

func TestEncodeDecodeBinaryRoundTrip(t *testing.T) {
	n := PersistedNode{Kind: KindBinary, Left: felt.FromUint64(11), Right: felt.FromUint64(22)}
	buf, err := encodeNode(n)
	if err != nil {
		t.Fatalf("encodeNode: %v", err)
	}
	got, err := decodeNode(buf)
	if err != nil {
		t.Fatalf("decodeNode: %v", err)
	}
	if got.Kind != KindBinary || !got.Left.Equal(n.Left) || !got.Right.Equal(n.Right) {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, n)
	}
}

func TestEncodeDecodeEdgeRoundTrip(t *testing.T) {
	n := PersistedNode{
		Kind:  KindEdge,
		Path:  felt.NewBitPath(true, false, true, true),
		Child: felt.FromUint64(42),
	}
	buf, err := encodeNode(n)
	if err != nil {
		t.Fatalf("encodeNode: %v", err)
	}
	got, err := decodeNode(buf)
	if err != nil {
		t.Fatalf("decodeNode: %v", err)
	}
	if got.Kind != KindEdge || !got.Path.Equal(n.Path) || !got.Child.Equal(n.Child) {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, n)
	}
}

func TestEncodeLeafIsRejected(t *testing.T) {
	if _, err := encodeNode(PersistedNode{Kind: KindLeaf}); err == nil {
		t.Fatalf("expected an error encoding a Leaf record")
	}
}

func TestDecodeUnknownKindByte(t *testing.T) {
	if _, err := decodeNode([]byte{0xff}); err == nil {
		t.Fatalf("expected an error decoding an unknown kind byte")
	}
}
