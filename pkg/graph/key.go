package graph

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// NodeKey identifies one position in the rendered hierarchy. It is a
// composite of the parent position and a paper id, realized as a chained
// SHA-256 digest: child = H(parentDigest || len(paperID) || paperID).
// Two nodes for the same paper under different parents therefore get
// distinct keys, and ids containing arbitrary characters cannot collide
// the way delimiter-joined string keys can.
//
// NodeKey is comparable and usable as a map key. The zero value is not a
// valid key for any node.
type NodeKey struct {
	digest  [sha256.Size]byte
	paperID string
}

// RootKey returns the key for a root node (depth 0) seeded with the given
// paper id.
func RootKey(paperID string) NodeKey {
	return chain([sha256.Size]byte{}, paperID)
}

// ChildKey returns the key for a child of parent holding the given paper id.
func ChildKey(parent NodeKey, paperID string) NodeKey {
	return chain(parent.digest, paperID)
}

func chain(parent [sha256.Size]byte, paperID string) NodeKey {
	h := sha256.New()
	h.Write(parent[:])

	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(paperID)))
	h.Write(n[:])
	h.Write([]byte(paperID))

	var k NodeKey
	copy(k.digest[:], h.Sum(nil))
	k.paperID = paperID
	return k
}

// PaperID returns the canonical paper id this position refers to.
func (k NodeKey) PaperID() string { return k.paperID }

// IsZero reports whether k is the zero key, which identifies no node.
func (k NodeKey) IsZero() bool { return k == NodeKey{} }

// String returns a short hex form of the key digest, stable across runs.
// It is safe to use as an identifier in DOT output and JSON payloads.
func (k NodeKey) String() string {
	return hex.EncodeToString(k.digest[:8])
}
