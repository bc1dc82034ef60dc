package validator

import (
	"encoding/binary"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// domainSalt is appended to the domain hash of every Hyperlane checkpoint.
const domainSalt = "HYPERLANE"

// Checkpoint is what validators attest to for the messageId multisig ISM: the origin merkle
// tree state after a message was inserted, and that message's id.
type Checkpoint struct {
	Origin         protocol.Domain  `json:"origin"`
	MerkleTreeHook protocol.Bytes32 `json:"merkle_tree_hook"`
	Root           protocol.Bytes32 `json:"root"`
	Index          uint32           `json:"index"`
	MessageID      protocol.Bytes32 `json:"message_id"`
}

// DomainHash is keccak256(origin ‖ merkleTreeHook ‖ "HYPERLANE").
func DomainHash(origin protocol.Domain, merkleTreeHook protocol.Bytes32) protocol.Bytes32 {
	var domain [4]byte
	binary.BigEndian.PutUint32(domain[:], uint32(origin))
	return protocol.Keccak256(domain[:], merkleTreeHook[:], []byte(domainSalt))
}

// Digest is keccak256(domainHash ‖ root ‖ index ‖ messageId).
func (c Checkpoint) Digest() protocol.Bytes32 {
	domainHash := DomainHash(c.Origin, c.MerkleTreeHook)
	var index [4]byte
	binary.BigEndian.PutUint32(index[:], c.Index)
	return protocol.Keccak256(domainHash[:], c.Root[:], index[:], c.MessageID[:])
}

// SigningHash is the EIP-191 hash of Digest, the value validators sign.
func (c Checkpoint) SigningHash() protocol.Bytes32 {
	return protocol.EthSignedMessageHash(c.Digest())
}
