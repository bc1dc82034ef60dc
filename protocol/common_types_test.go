package protocol

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilUnknownAddress(t *testing.T) {
	var ua UnknownAddress
	require.Equal(t, []byte(nil), ua.Bytes())
	require.Equal(t, "", ua.String())
}

func TestNewUnknownAddressFromHex(t *testing.T) {
	addr, err := NewUnknownAddressFromHex("0xb3ff441a68610b30fd5e2abbf3a1548eb6ba6f3559f2862bf2dc757e5828ca")
	require.NoError(t, err)
	// odd-length felt hex gets a leading zero nibble
	require.Len(t, addr, 31)

	_, err = NewUnknownAddressFromHex("0xzz")
	require.Error(t, err)
}

func TestUnknownAddress_Resize(t *testing.T) {
	evm := UnknownAddress{0xde, 0xad, 0xbe, 0xef}

	wide, err := evm.Resize(32)
	require.NoError(t, err)
	require.Len(t, wide, 32)
	require.Equal(t, evm.Bytes(), wide.Bytes()[28:])

	narrow, err := wide.Resize(4)
	require.NoError(t, err)
	require.Equal(t, evm, narrow)

	_, err = wide.Resize(3)
	require.ErrorIs(t, err, ErrAddressWidthMismatch)

	_, err = evm.Resize(0)
	require.ErrorIs(t, err, ErrAddressWidthMismatch)
}

func TestParseDomain(t *testing.T) {
	d, err := ParseDomain(23448594)
	require.NoError(t, err)
	require.Equal(t, Domain(23448594), d)

	// Starknet's chain id does not fit in a domain.
	_, err = ParseDomain(23448594291968334)
	require.Error(t, err)
}

func TestBytes32_JSONRoundTrip(t *testing.T) {
	original, err := NewBytes32FromString("0x2a155aac0327e9a2e84052615577c62f4059245008efa4a7b07fa0dedfa1cb5")
	require.NoError(t, err)
	require.Equal(t, byte(0x02), original[0])

	jsonBytes, err := json.Marshal(original)
	require.NoError(t, err)
	var unmarshaled Bytes32
	require.NoError(t, json.Unmarshal(jsonBytes, &unmarshaled))
	require.Equal(t, original, unmarshaled)

	_, err = NewBytes32FromString("2a15")
	require.Error(t, err)
}

func TestNewBytes32FromString(t *testing.T) {
	short, err := NewBytes32FromString("0x1")
	require.NoError(t, err)
	require.Equal(t, Bytes32{31: 0x01}, short)

	for _, in := range []string{"", "0x", "0xzz", "0x" + strings.Repeat("0", 65)} {
		_, err := NewBytes32FromString(in)
		require.Error(t, err, in)
	}

	var b Bytes32
	require.Error(t, json.Unmarshal([]byte(`"0x"`), &b))
}

func TestMessage_JSONRoundTrip(t *testing.T) {
	chunked, err := DecodeChunkedBody([]byte("hello world"))
	require.NoError(t, err)
	msg := &Message{
		Version:     MessageVersion,
		Nonce:       3,
		Origin:      1,
		Sender:      UnknownAddress{0x01},
		Destination: 2,
		Recipient:   UnknownAddress{0x02},
		ChunkedBody: &chunked,
	}

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"sender":"0x01"`)

	var decoded Message
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, msg.MustID(), decoded.MustID())
}
