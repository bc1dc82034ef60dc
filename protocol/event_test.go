package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testSelector = Bytes32{0: 0x01, 31: 0xd1}
	otherKey     = Bytes32{31: 0x99}
)

// positionalDecoder reads [sender, destination, recipient] and records which event it saw.
type positionalDecoder struct{}

func (positionalDecoder) DecodeDispatch(ev Event) (*DispatchEvent, error) {
	r := NewFieldReader(ev.Data)
	sender, err := r.Word("sender")
	if err != nil {
		return nil, err
	}
	dest, err := r.Uint("destination_domain", 32)
	if err != nil {
		return nil, err
	}
	recipient, err := r.Word("recipient_address")
	if err != nil {
		return nil, err
	}
	return &DispatchEvent{
		Sender:            sender.Address(),
		DestinationDomain: Domain(dest),
		RecipientAddress:  recipient.Address(),
	}, nil
}

func word(v byte) Bytes32 {
	return Bytes32{31: v}
}

func TestDecodeDispatchEvent_OnlyMatchingEntry(t *testing.T) {
	events := []Event{
		{Keys: []Bytes32{otherKey}, Data: []Bytes32{word(9), word(9), word(9)}},
		{Keys: []Bytes32{otherKey, testSelector}, Data: []Bytes32{word(1), word(2), word(3)}},
	}

	dispatch, err := DecodeDispatchEvent(events, testSelector, positionalDecoder{})
	require.NoError(t, err)
	require.Equal(t, word(1).Address(), dispatch.Sender)
	require.Equal(t, Domain(2), dispatch.DestinationDomain)
	require.Equal(t, word(3).Address(), dispatch.RecipientAddress)
}

func TestDecodeDispatchEvent_FirstMatchWins(t *testing.T) {
	events := []Event{
		{Keys: []Bytes32{testSelector}, Data: []Bytes32{word(1), word(10), word(1)}},
		{Keys: []Bytes32{testSelector}, Data: []Bytes32{word(2), word(20), word(2)}},
	}

	dispatch, err := DecodeDispatchEvent(events, testSelector, positionalDecoder{})
	require.NoError(t, err)
	require.Equal(t, Domain(10), dispatch.DestinationDomain)

	idx, err := FindEvent(events, testSelector)
	require.NoError(t, err)
	require.Equal(t, 0, idx)
}

func TestDecodeDispatchEvent_NotFound(t *testing.T) {
	events := []Event{
		{Keys: []Bytes32{otherKey}, Data: []Bytes32{word(1), word(2), word(3)}},
	}

	dispatch, err := DecodeDispatchEvent(events, testSelector, positionalDecoder{})
	require.ErrorIs(t, err, ErrEventNotFound)
	require.Nil(t, dispatch)

	_, err = DecodeDispatchEvent(nil, testSelector, positionalDecoder{})
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestDecodeDispatchEvent_Malformed(t *testing.T) {
	cases := []struct {
		name string
		data []Bytes32
	}{
		{name: "too few fields", data: []Bytes32{word(1), word(2)}},
		{name: "destination wider than u32", data: []Bytes32{word(1), {27: 0x01}, word(3)}},
		{name: "no fields", data: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := []Event{{Keys: []Bytes32{testSelector}, Data: tc.data}}
			_, err := DecodeDispatchEvent(events, testSelector, positionalDecoder{})
			require.ErrorIs(t, err, ErrMalformedEventData)
			require.False(t, errors.Is(err, ErrEventNotFound))
		})
	}
}

func TestFieldReader_Widths(t *testing.T) {
	r := NewFieldReader([]Bytes32{
		{31: 0xff},              // fits u8
		{30: 0x01},              // 256 does not fit u8
		{16: 0x80},              // top bit of a u128
		{15: 0x01},              // 2^128 does not fit u128
		{31: 0x02}, {31: 0x01}, // u256 low=2, high=1
	})

	v, err := r.Uint("a", 8)
	require.NoError(t, err)
	require.Equal(t, uint64(0xff), v)

	_, err = r.Uint("b", 8)
	require.ErrorIs(t, err, ErrMalformedEventData)

	u128, err := r.Uint128("c")
	require.NoError(t, err)
	require.Equal(t, Bytes16{0: 0x80}, u128)

	_, err = r.Uint128("d")
	require.ErrorIs(t, err, ErrMalformedEventData)

	u256, err := r.Uint256("e")
	require.NoError(t, err)
	require.Equal(t, Bytes32{15: 0x01, 31: 0x02}, u256)

	require.Equal(t, 0, r.Remaining())
	_, err = r.Word("f")
	require.ErrorIs(t, err, ErrMalformedEventData)
}

func TestFieldReader_Address(t *testing.T) {
	r := NewFieldReader([]Bytes32{
		{12: 0xaa, 31: 0xbb}, // 20 byte address
		{11: 0x01},           // too wide for 20 bytes
		{0: 0x07},            // full 32 byte word
	})

	addr, err := r.Address("sender", 20)
	require.NoError(t, err)
	require.Len(t, addr, 20)
	require.Equal(t, byte(0xaa), addr[0])
	require.Equal(t, byte(0xbb), addr[19])

	_, err = r.Address("sender", 20)
	require.ErrorIs(t, err, ErrMalformedEventData)

	wide, err := r.Address("recipient", 32)
	require.NoError(t, err)
	require.Equal(t, byte(0x07), wide[0])
}
