package validator

import (
	"errors"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// TreeDepth is the depth of the Hyperlane incremental merkle tree.
const TreeDepth = 32

// ErrTreeFull is returned when inserting into a tree holding 2^32-1 leaves.
var ErrTreeFull = errors.New("merkle tree full")

var zeroHashes = func() [TreeDepth]protocol.Bytes32 {
	var z [TreeDepth]protocol.Bytes32
	for i := 1; i < TreeDepth; i++ {
		z[i] = protocol.Keccak256(z[i-1][:], z[i-1][:])
	}
	return z
}()

// MerkleTree is the append-only incremental merkle tree kept by the merkle tree hook. Only the
// left branch is stored. Not safe for concurrent use.
type MerkleTree struct {
	branch [TreeDepth]protocol.Bytes32
	count  uint32
}

// Count returns the number of inserted leaves.
func (t *MerkleTree) Count() uint32 {
	return t.count
}

// Insert appends leaf.
func (t *MerkleTree) Insert(leaf protocol.Bytes32) error {
	if t.count == ^uint32(0) {
		return ErrTreeFull
	}
	t.count++
	size := t.count
	node := leaf
	for i := 0; i < TreeDepth; i++ {
		if size&1 == 1 {
			t.branch[i] = node
			return nil
		}
		node = protocol.Keccak256(t.branch[i][:], node[:])
		size >>= 1
	}
	// size < 2^32 always hits a set bit
	return ErrTreeFull
}

// Root returns the current root.
func (t *MerkleTree) Root() protocol.Bytes32 {
	var current protocol.Bytes32
	for i := 0; i < TreeDepth; i++ {
		if (t.count>>i)&1 == 1 {
			current = protocol.Keccak256(t.branch[i][:], current[:])
		} else {
			current = protocol.Keccak256(current[:], zeroHashes[i][:])
		}
	}
	return current
}
