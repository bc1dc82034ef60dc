package starknet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// fieldPrime is 2^251 + 17*2^192 + 1.
var fieldPrime = protocol.Bytes32{0: 0x08, 7: 0x11, 31: 0x01}

func TestFeltFromBytes32(t *testing.T) {
	belowPrime := fieldPrime
	belowPrime[31] = 0

	for _, tc := range []struct {
		name    string
		in      protocol.Bytes32
		wantErr bool
	}{
		{name: "zero", in: protocol.Bytes32{}},
		{name: "small", in: protocol.Bytes32{31: 0x2a}},
		{name: "prime minus one", in: belowPrime},
		{name: "prime", in: fieldPrime, wantErr: true},
		{name: "all ones", in: protocol.Bytes32(bytes.Repeat([]byte{0xff}, 32)), wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, err := FeltFromBytes32(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidFelt)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.in, Bytes32FromFelt(f))
		})
	}
}

func TestParseFelt(t *testing.T) {
	b, err := ParseFelt("0x2a")
	require.NoError(t, err)
	require.Equal(t, protocol.Bytes32{31: 0x2a}, b)

	_, err = ParseFelt("not hex")
	require.Error(t, err)
}

func TestSplitU256(t *testing.T) {
	v := protocol.Bytes32{0: 0x01, 15: 0x02, 16: 0x03, 31: 0x04}
	low, high := SplitU256(v)
	require.Equal(t, protocol.Bytes32{16: 0x03, 31: 0x04}, Bytes32FromFelt(low))
	require.Equal(t, protocol.Bytes32{16: 0x01, 31: 0x02}, Bytes32FromFelt(high))

	r := protocol.NewFieldReader([]protocol.Bytes32{Bytes32FromFelt(low), Bytes32FromFelt(high)})
	joined, err := r.Uint256("v")
	require.NoError(t, err)
	require.Equal(t, v, joined)
}

func TestLayout_RejectsNonFeltRecipient(t *testing.T) {
	sender, err := protocol.RandomAddress(20)
	require.NoError(t, err)
	msg := protocol.NewMessage(1, 1, sender, 2, protocol.UnknownAddress(bytes.Repeat([]byte{0xff}, 32)), []byte("x"))

	_, err = protocol.NewCodec().TranslateMessage(msg, protocol.EVMLayout, Layout())
	require.ErrorIs(t, err, ErrInvalidFelt)

	msg.Recipient = protocol.UnknownAddress{0x07, 0x11}
	out, err := protocol.NewCodec().TranslateMessage(msg, protocol.EVMLayout, Layout())
	require.NoError(t, err)
	require.Len(t, out.Recipient, 32)
	require.NotNil(t, out.ChunkedBody)
}
