package starknet

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// ErrInvalidFelt is returned for 32-byte values outside the Starknet field.
var ErrInvalidFelt = errors.New("value is not a valid felt")

// FeltFromBytes32 returns b as a felt, rejecting values that are not canonical field elements.
func FeltFromBytes32(b protocol.Bytes32) (*felt.Felt, error) {
	f := new(felt.Felt).SetBytes(b[:])
	if f.Bytes() != [32]byte(b) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFelt, b)
	}
	return f, nil
}

// Bytes32FromFelt returns the big-endian bytes of f. A nil felt is zero.
func Bytes32FromFelt(f *felt.Felt) protocol.Bytes32 {
	if f == nil {
		return protocol.Bytes32{}
	}
	return protocol.Bytes32(f.Bytes())
}

// ParseFelt parses a hex felt as printed by Starknet nodes.
func ParseFelt(s string) (protocol.Bytes32, error) {
	f, err := utils.HexToFelt(s)
	if err != nil {
		return protocol.Bytes32{}, fmt.Errorf("invalid felt %q: %w", s, err)
	}
	return Bytes32FromFelt(f), nil
}

// ValidateAddress checks that addr is a canonical felt once widened to 32 bytes.
func ValidateAddress(addr protocol.UnknownAddress) error {
	b, err := addr.Bytes32()
	if err != nil {
		return err
	}
	_, err = FeltFromBytes32(b)
	return err
}

// Layout is protocol.StarknetLayout with felt validation of addresses.
func Layout() protocol.ChainLayout {
	l := protocol.StarknetLayout
	l.ValidateAddress = ValidateAddress
	return l
}

// SplitU256 splits a big-endian 256-bit value into the low and high 128-bit felts Cairo uses.
func SplitU256(b protocol.Bytes32) (low, high *felt.Felt) {
	low = utils.BigIntToFelt(new(big.Int).SetBytes(b[16:]))
	high = utils.BigIntToFelt(new(big.Int).SetBytes(b[:16]))
	return low, high
}

func u128Felt(b protocol.Bytes16) *felt.Felt {
	return utils.BigIntToFelt(new(big.Int).SetBytes(b[:]))
}
