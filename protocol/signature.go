package protocol

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the size of an r‖s‖v signature.
const SignatureLength = 65

// curve order n for secp256k1.
var secpN = crypto.S256().Params().N

// Signature is a 65-byte r‖s‖v signature with v in {27, 28} and its signer.
type Signature struct {
	Bytes  [SignatureLength]byte
	Signer common.Address
}

// EthSignedMessageHash returns the EIP-191 personal message hash of a 32-byte digest.
// Hyperlane validators sign checkpoints in this form.
func EthSignedMessageHash(digest Bytes32) Bytes32 {
	return Keccak256([]byte("\x19Ethereum Signed Message:\n32"), digest[:])
}

// NormalizeV rewrites the recovery byte of a 65-byte signature to the 27/28 convention used by
// Solidity ecrecover. Both 0/1 and 27/28 inputs are accepted.
func NormalizeV(sig []byte) ([SignatureLength]byte, error) {
	var out [SignatureLength]byte
	if len(sig) != SignatureLength {
		return out, fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(sig))
	}
	copy(out[:], sig)

	r := new(big.Int).SetBytes(sig[0:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if r.Sign() == 0 || s.Sign() == 0 || r.Cmp(secpN) >= 0 || s.Cmp(secpN) >= 0 {
		return out, errors.New("invalid r or s")
	}

	switch v := sig[64]; v {
	case 0, 1:
		out[64] = v + 27
	case 27, 28:
	default:
		return out, errors.New("invalid v (expected 0/1/27/28)")
	}
	return out, nil
}

// Sign signs hash with priv and returns an ecrecover-compatible signature.
func Sign(hash Bytes32, priv *ecdsa.PrivateKey) (Signature, error) {
	// go-ethereum's crypto.Sign returns 65 bytes: R||S||V, where V is 0/1 (recovery id).
	raw, err := crypto.Sign(hash[:], priv)
	if err != nil {
		return Signature{}, err
	}
	sig, err := NormalizeV(raw)
	if err != nil {
		return Signature{}, err
	}
	return Signature{Bytes: sig, Signer: crypto.PubkeyToAddress(priv.PublicKey)}, nil
}

// RecoverSigner recovers the signer address of a 65-byte signature over hash.
func RecoverSigner(hash Bytes32, sig []byte) (common.Address, error) {
	normalized, err := NormalizeV(sig)
	if err != nil {
		return common.Address{}, err
	}
	// crypto.SigToPub expects 0/1, not 27/28
	normalized[64] -= 27

	pub, err := crypto.SigToPub(hash[:], normalized[:])
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key for signature: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// SortSignaturesBySigner sorts signatures by signer address in ascending order.
func SortSignaturesBySigner(signatures []Signature) {
	sort.Slice(signatures, func(i, j int) bool {
		// Compare addresses as big integers (uint160)
		return signatures[i].Signer.Big().Cmp(signatures[j].Signer.Big()) < 0
	})
}

// ConcatSignatures concatenates 65-byte signatures in the given order.
func ConcatSignatures(signatures []Signature) []byte {
	out := make([]byte, 0, len(signatures)*SignatureLength)
	for _, sig := range signatures {
		out = append(out, sig.Bytes[:]...)
	}
	return out
}

// SplitSignatures splits concatenated 65-byte signatures.
func SplitSignatures(data []byte) ([][]byte, error) {
	if len(data)%SignatureLength != 0 {
		return nil, fmt.Errorf("signature data length %d is not a multiple of %d", len(data), SignatureLength)
	}
	out := make([][]byte, 0, len(data)/SignatureLength)
	for i := 0; i < len(data); i += SignatureLength {
		out = append(out, data[i:i+SignatureLength])
	}
	return out, nil
}
