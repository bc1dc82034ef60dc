package protocol

import (
	"fmt"
	"strings"
)

// BodyEncoding is how a chain family represents the message body.
type BodyEncoding uint8

const (
	// BodyLinear is a plain byte string (EVM `bytes`).
	BodyLinear BodyEncoding = iota
	// BodyChunked is a size plus 16-byte chunks (Starknet `Bytes`).
	BodyChunked
)

func (e BodyEncoding) String() string {
	switch e {
	case BodyLinear:
		return "linear"
	case BodyChunked:
		return "chunked"
	default:
		return fmt.Sprintf("BodyEncoding(%d)", uint8(e))
	}
}

// ChainLayout describes how a chain family natively represents a message.
type ChainLayout struct {
	Name         string
	AddressWidth int
	Body         BodyEncoding
	// ValidateAddress optionally rejects addresses that fit the width but are not valid on the
	// chain, e.g. values outside the Starknet field.
	ValidateAddress func(UnknownAddress) error
}

var (
	EVMLayout = ChainLayout{
		Name:         "evm",
		AddressWidth: 20,
		Body:         BodyLinear,
	}
	StarknetLayout = ChainLayout{
		Name:         "starknet",
		AddressWidth: 32,
		Body:         BodyChunked,
	}
)

// LayoutByName resolves a layout from its configuration name.
func LayoutByName(name string) (ChainLayout, error) {
	switch strings.ToLower(name) {
	case EVMLayout.Name:
		return EVMLayout, nil
	case StarknetLayout.Name:
		return StarknetLayout, nil
	default:
		return ChainLayout{}, fmt.Errorf("unknown chain layout %q", name)
	}
}

// NativeAddress expresses addr at the layout's native width and runs the layout's validator.
func (l ChainLayout) NativeAddress(addr UnknownAddress) (UnknownAddress, error) {
	out, err := addr.Resize(l.AddressWidth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Name, err)
	}
	if l.ValidateAddress != nil {
		if err := l.ValidateAddress(out); err != nil {
			return nil, fmt.Errorf("%s: %w", l.Name, err)
		}
	}
	return out, nil
}

func (l ChainLayout) String() string {
	return fmt.Sprintf("%s(address=%dB, body=%s)", l.Name, l.AddressWidth, l.Body)
}
