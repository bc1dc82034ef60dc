package protocol

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Domain is the Hyperlane identifier of a chain.
type Domain uint32

func (d Domain) String() string {
	return "Domain(" + strconv.FormatUint(uint64(d), 10) + ")"
}

// ParseDomain converts a configured domain id, rejecting values that do not fit the 4-byte
// wire field. Chain ids such as Starknet's are wider than a domain and must not be used as one.
func ParseDomain(v uint64) (Domain, error) {
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("domain %d does not fit in 32 bits", v)
	}
	return Domain(v), nil
}

// UnknownAddress is an address in the native width of some chain (20 bytes on EVM, 32 on Starknet).
type UnknownAddress []byte

// NewUnknownAddressFromHex creates an UnknownAddress from a hex string with or without 0x prefix.
// Odd-length input is left padded with a zero nibble, which is how Starknet tooling prints felts.
func NewUnknownAddressFromHex(s string) (UnknownAddress, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return UnknownAddress{}, nil
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}
	return UnknownAddress(b), nil
}

// String returns the hex representation of the address.
func (a UnknownAddress) String() string {
	if len(a) == 0 {
		return ""
	}
	return "0x" + hex.EncodeToString(a)
}

// Bytes returns the raw bytes of the address.
func (a UnknownAddress) Bytes() []byte {
	return []byte(a)
}

// Bytes32 returns the address left-zero-padded to 32 bytes.
// Addresses wider than 32 bytes fail with ErrAddressWidthMismatch.
func (a UnknownAddress) Bytes32() (Bytes32, error) {
	var out Bytes32
	if len(a) > len(out) {
		return out, fmt.Errorf("%w: %d byte address does not fit in 32 bytes", ErrAddressWidthMismatch, len(a))
	}
	copy(out[len(out)-len(a):], a)
	return out, nil
}

// Resize re-expresses the address at width bytes. Widening left-pads with zeros, narrowing
// requires the dropped high-order bytes to be zero.
func (a UnknownAddress) Resize(width int) (UnknownAddress, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: invalid target width %d", ErrAddressWidthMismatch, width)
	}
	out := make(UnknownAddress, width)
	if len(a) <= width {
		copy(out[width-len(a):], a)
		return out, nil
	}

	cut := len(a) - width
	for i := 0; i < cut; i++ {
		if a[i] != 0 {
			return nil, fmt.Errorf("%w: %s has non-zero high-order bytes, cannot narrow to %d bytes",
				ErrAddressWidthMismatch, a.String(), width)
		}
	}
	copy(out, a[cut:])
	return out, nil
}

// MarshalJSON returns the hex representation of the address.
func (a UnknownAddress) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, a.String())), nil
}

// UnmarshalJSON decodes a hex string into an UnknownAddress.
func (a *UnknownAddress) UnmarshalJSON(data []byte) error {
	v := string(data)
	if len(v) < 2 {
		return fmt.Errorf("invalid UnknownAddress: %s", v)
	}

	addr, err := NewUnknownAddressFromHex(v[1 : len(v)-1])
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ByteSlice is a wrapper around []byte that marshals/unmarshals to/from hex instead of base64.
type ByteSlice []byte

// MarshalJSON returns the hex representation of the bytes.
func (h ByteSlice) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, h.String())), nil
}

// UnmarshalJSON decodes a hex string into ByteSlice.
func (h *ByteSlice) UnmarshalJSON(data []byte) error {
	v := string(data)
	if v == "null" {
		*h = nil
		return nil
	}
	if len(v) < 2 {
		return fmt.Errorf("invalid ByteSlice: %s", v)
	}

	v = strings.TrimPrefix(v[1:len(v)-1], "0x")
	b, err := hex.DecodeString(v)
	if err != nil {
		return fmt.Errorf("failed to decode hex: %w", err)
	}
	*h = ByteSlice(b)
	return nil
}

// String returns the hex representation with 0x prefix.
func (h ByteSlice) String() string {
	return "0x" + hex.EncodeToString(h)
}

// Bytes16 is a single 16-byte big-endian word, the unit of a Starknet u128 body chunk.
type Bytes16 [16]byte

func (b Bytes16) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

func (b Bytes16) IsEmpty() bool {
	return b == Bytes16{}
}

func (b Bytes16) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, b.String())), nil
}

func (b *Bytes16) UnmarshalJSON(data []byte) error {
	v := string(data)
	if len(v) < 4 || !strings.HasPrefix(v, `"0x`) {
		return fmt.Errorf("invalid Bytes16: %s", v)
	}

	bCp, err := hex.DecodeString(v[3 : len(v)-1])
	if err != nil {
		return err
	}
	if len(bCp) != len(b) {
		return fmt.Errorf("Bytes16 must be exactly 16 bytes, got %d", len(bCp))
	}
	copy(b[:], bCp)
	return nil
}

type Bytes32 [32]byte

// NewBytes32FromString creates 32-sized bytes array from hex-encoded string or returns an error.
// Shorter input is treated as a big-endian number and left padded.
func NewBytes32FromString(s string) (Bytes32, error) {
	if !strings.HasPrefix(s, "0x") {
		return Bytes32{}, fmt.Errorf("Bytes32 must start with '0x' prefix: %s", s)
	}
	if len(s) == 2 {
		return Bytes32{}, fmt.Errorf("Bytes32 must have at least one hex digit: %s", s)
	}
	if len(s) > 66 { // "0x" + 64 hex chars
		return Bytes32{}, fmt.Errorf("Bytes32 must be at most 32 bytes (64 hex chars) long: %s", s)
	}

	addr, err := NewUnknownAddressFromHex(s)
	if err != nil {
		return Bytes32{}, err
	}
	return addr.Bytes32()
}

func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

func (b Bytes32) IsEmpty() bool {
	return b == Bytes32{}
}

// Address returns the word as a 32-byte UnknownAddress.
func (b Bytes32) Address() UnknownAddress {
	out := make(UnknownAddress, len(b))
	copy(out, b[:])
	return out
}

func (b Bytes32) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, b.String())), nil
}

func (b *Bytes32) UnmarshalJSON(data []byte) error {
	v := string(data)
	if len(v) < 4 {
		return fmt.Errorf("invalid Bytes32: %s", v)
	}

	parsed, err := NewBytes32FromString(v[1 : len(v)-1])
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
