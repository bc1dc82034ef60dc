package validator

import (
	"context"
	"crypto/ecdsa"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

var (
	ErrInvalidThreshold = errors.New("invalid threshold")
	ErrWrongOrigin      = errors.New("checkpoint origin does not match validator set domain")
)

// Validator is a secp256k1 key attesting to checkpoints.
type Validator struct {
	key *ecdsa.PrivateKey
}

// NewValidator generates a random validator.
func NewValidator() (*Validator, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &Validator{key: key}, nil
}

// ValidatorFromKey loads a validator from a hex private key with or without 0x prefix.
func ValidatorFromKey(hexKey string) (*Validator, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid validator key: %w", err)
	}
	return &Validator{key: key}, nil
}

// Address is the validator's 20-byte EVM address.
func (v *Validator) Address() common.Address {
	return crypto.PubkeyToAddress(v.key.PublicKey)
}

// PaddedAddress is the address left padded to 32 bytes, the form Starknet ISMs store.
func (v *Validator) PaddedAddress() protocol.Bytes32 {
	return protocol.Bytes32(common.BytesToHash(v.Address().Bytes()))
}

// SignCheckpoint signs the EIP-191 hash of the checkpoint digest.
func (v *Validator) SignCheckpoint(c Checkpoint) (protocol.Signature, error) {
	return protocol.Sign(c.SigningHash(), v.key)
}

// Set is a validator set with a signing threshold for one origin domain.
type Set struct {
	domain     protocol.Domain
	validators []*Validator
	threshold  int
}

// NewSet generates n random validators for domain.
func NewSet(domain protocol.Domain, n, threshold int) (*Set, error) {
	if threshold <= 0 || threshold > n {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidThreshold, threshold, n)
	}
	validators := make([]*Validator, n)
	for i := range validators {
		v, err := NewValidator()
		if err != nil {
			return nil, err
		}
		validators[i] = v
	}
	return &Set{domain: domain, validators: validators, threshold: threshold}, nil
}

// FromKeys loads a validator set from hex private keys, keeping their order.
func FromKeys(domain protocol.Domain, hexKeys []string, threshold int) (*Set, error) {
	if threshold <= 0 || threshold > len(hexKeys) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidThreshold, threshold, len(hexKeys))
	}
	validators := make([]*Validator, len(hexKeys))
	for i, k := range hexKeys {
		v, err := ValidatorFromKey(k)
		if err != nil {
			return nil, fmt.Errorf("validator %d: %w", i, err)
		}
		validators[i] = v
	}
	return &Set{domain: domain, validators: validators, threshold: threshold}, nil
}

func (s *Set) Domain() protocol.Domain { return s.domain }

func (s *Set) Threshold() int { return s.threshold }

func (s *Set) Validators() []*Validator { return s.validators }

// Addresses returns the validator addresses in set order, as an ISM is configured with them.
func (s *Set) Addresses() []common.Address {
	out := make([]common.Address, len(s.validators))
	for i, v := range s.validators {
		out[i] = v.Address()
	}
	return out
}

// PaddedAddresses returns the validator addresses in their 32-byte form.
func (s *Set) PaddedAddresses() []protocol.Bytes32 {
	out := make([]protocol.Bytes32, len(s.validators))
	for i, v := range s.validators {
		out[i] = v.PaddedAddress()
	}
	return out
}

// Sign returns threshold signatures over the checkpoint from the first validators in set order,
// the order multisig ISMs expect.
func (s *Set) Sign(c Checkpoint) ([]protocol.Signature, error) {
	if c.Origin != s.domain {
		return nil, fmt.Errorf("%w: %d != %d", ErrWrongOrigin, c.Origin, s.domain)
	}
	sigs := make([]protocol.Signature, s.threshold)
	for i := range sigs {
		sig, err := s.validators[i].SignCheckpoint(c)
		if err != nil {
			return nil, fmt.Errorf("validator %s: %w", s.validators[i].Address().Hex(), err)
		}
		sigs[i] = sig
	}
	return sigs, nil
}

// Metadata returns messageId multisig ISM metadata for the checkpoint:
// merkleTreeHook ‖ root ‖ index ‖ sig_0 ‖ .. ‖ sig_{threshold-1}.
func (s *Set) Metadata(c Checkpoint) ([]byte, error) {
	sigs, err := s.Sign(c)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, MetadataSignaturesOffset+len(sigs)*protocol.SignatureLength)
	out = append(out, c.MerkleTreeHook[:]...)
	out = append(out, c.Root[:]...)
	out = binary.BigEndian.AppendUint32(out, c.Index)
	return append(out, protocol.ConcatSignatures(sigs)...), nil
}

// MetadataSignaturesOffset is where signatures start in messageId multisig metadata.
const MetadataSignaturesOffset = 32 + 32 + 4

// ParseMetadata splits messageId multisig metadata into its checkpoint fields and signatures.
func ParseMetadata(origin protocol.Domain, messageID protocol.Bytes32, metadata []byte) (Checkpoint, [][]byte, error) {
	if len(metadata) < MetadataSignaturesOffset {
		return Checkpoint{}, nil, fmt.Errorf("metadata is %d bytes, shorter than %d", len(metadata), MetadataSignaturesOffset)
	}
	c := Checkpoint{
		Origin:    origin,
		MessageID: messageID,
		Index:     binary.BigEndian.Uint32(metadata[64:MetadataSignaturesOffset]),
	}
	copy(c.MerkleTreeHook[:], metadata[0:32])
	copy(c.Root[:], metadata[32:64])
	sigs, err := protocol.SplitSignatures(metadata[MetadataSignaturesOffset:])
	if err != nil {
		return Checkpoint{}, nil, err
	}
	return c, sigs, nil
}

// Verify checks that metadata carries at least threshold signatures for msgID from distinct
// validators of the set, in set order.
func (s *Set) Verify(messageID protocol.Bytes32, metadata []byte) error {
	c, sigs, err := ParseMetadata(s.domain, messageID, metadata)
	if err != nil {
		return err
	}
	if len(sigs) < s.threshold {
		return fmt.Errorf("%d signatures, threshold is %d", len(sigs), s.threshold)
	}

	hash := c.SigningHash()
	next := 0
	for i, sig := range sigs[:s.threshold] {
		signer, err := protocol.RecoverSigner(hash, sig)
		if err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}
		for next < len(s.validators) && s.validators[next].Address() != signer {
			next++
		}
		if next == len(s.validators) {
			return fmt.Errorf("signature %d: signer %s is not a validator or out of order", i, signer.Hex())
		}
		next++
	}
	return nil
}

// MetadataBuilder builds messageId multisig metadata for messages dispatched on the set's
// domain. It tracks the origin merkle tree locally: each new message id is appended once and the
// checkpoint is taken right after its insertion.
type MetadataBuilder struct {
	lggr           logger.Logger
	set            *Set
	merkleTreeHook protocol.Bytes32

	mu      sync.Mutex
	tree    MerkleTree
	indexes map[protocol.Bytes32]Checkpoint
}

var _ protocol.MetadataBuilder = (*MetadataBuilder)(nil)

func NewMetadataBuilder(lggr logger.Logger, set *Set, merkleTreeHook protocol.Bytes32) *MetadataBuilder {
	return &MetadataBuilder{
		lggr:           logger.Named(lggr, "MultisigMetadataBuilder"),
		set:            set,
		merkleTreeHook: merkleTreeHook,
		indexes:        make(map[protocol.Bytes32]Checkpoint),
	}
}

// Checkpoint returns the checkpoint for msg, inserting its id into the tree on first sight.
func (b *MetadataBuilder) Checkpoint(msg *protocol.Message) (Checkpoint, error) {
	if msg.Origin != b.set.domain {
		return Checkpoint{}, fmt.Errorf("%w: message origin %d, set domain %d", ErrWrongOrigin, msg.Origin, b.set.domain)
	}
	id, err := msg.ID()
	if err != nil {
		return Checkpoint{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.indexes[id]; ok {
		return c, nil
	}
	if err := b.tree.Insert(id); err != nil {
		return Checkpoint{}, err
	}
	c := Checkpoint{
		Origin:         b.set.domain,
		MerkleTreeHook: b.merkleTreeHook,
		Root:           b.tree.Root(),
		Index:          b.tree.Count() - 1,
		MessageID:      id,
	}
	b.indexes[id] = c
	return c, nil
}

func (b *MetadataBuilder) BuildMetadata(ctx context.Context, msg *protocol.Message) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := b.Checkpoint(msg)
	if err != nil {
		return nil, err
	}
	metadata, err := b.set.Metadata(c)
	if err != nil {
		return nil, err
	}
	b.lggr.Debugw("Built multisig metadata", "messageId", c.MessageID.String(), "index", c.Index,
		"root", c.Root.String(), "signatures", b.set.threshold)
	return metadata, nil
}
