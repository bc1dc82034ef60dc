package protocol

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

var hasherPool = sync.Pool{
	New: func() any {
		return sha3.NewLegacyKeccak256()
	},
}

// Keccak256 computes the Keccak256 hash of the concatenated inputs.
func Keccak256(data ...[]byte) Bytes32 {
	h, ok := hasherPool.Get().(hash.Hash)
	if !ok {
		panic("cannot get hasher")
	}

	h.Reset()
	for _, d := range data {
		h.Write(d) // nolint:revive // keccak256 never returns an error
	}
	var out Bytes32
	copy(out[:], h.Sum(nil))
	h.Reset()
	hasherPool.Put(h)
	return out
}

// EventTopic returns the EVM log topic of an event signature such as
// "Dispatch(address,uint32,bytes32,bytes)".
func EventTopic(signature string) Bytes32 {
	return Keccak256([]byte(signature))
}
